package converter

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/langowen/kursbot/internal/entities"
)

type RatesStorage interface {
	Resolve(ctx context.Context, query string) (entities.Currency, error)
}

// Service validates a conversion request and computes the converted
// amount from the unit rates of the resolved currencies.
type Service struct {
	storage RatesStorage
}

func NewService(storage RatesStorage) *Service {
	return &Service{
		storage: storage,
	}
}

type Result struct {
	Amount          float64           `json:"amount"`
	ConvertedAmount float64           `json:"converted_amount"`
	Target          entities.Currency `json:"target"`
	Source          entities.Currency `json:"source"`
}

// String renders the answer the way the bot speaks to the user.
func (r *Result) String() string {
	return fmt.Sprintf("Стоимость %v %s (%s/%s) составляет %s %s (%s/%s)",
		r.Amount, r.Target.Code, r.Target.RusName, r.Target.EngName,
		strconv.FormatFloat(r.ConvertedAmount, 'f', 2, 64),
		r.Source.Code, r.Source.RusName, r.Source.EngName)
}

// Convert parses the amount, resolves both currencies and computes
// targetRate / sourceRate * amount rounded to two decimal places.
func (s *Service) Convert(ctx context.Context, targetQuery, sourceQuery, amountText string) (*Result, error) {
	const op = "converter.Service.Convert"

	amount, err := strconv.ParseFloat(strings.TrimSpace(amountText), 64)
	if err != nil {
		return nil, errors.Wrapf(entities.ErrInvalidAmount, "%s: %q", op, amountText)
	}

	if amount <= 0 {
		return nil, errors.Wrapf(entities.ErrNonPositiveAmount, "%s: %v", op, amount)
	}

	target, err := s.storage.Resolve(ctx, targetQuery)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	source, err := s.storage.Resolve(ctx, sourceQuery)
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	if strings.EqualFold(target.Code, source.Code) {
		return nil, errors.Wrap(entities.ErrSameCurrency, op)
	}

	return &Result{
		Amount:          amount,
		ConvertedAmount: convert(target.UnitRate, source.UnitRate, amount),
		Target:          target,
		Source:          source,
	}, nil
}

// Округление до двух знаков — half away from zero (decimal.Round).
func convert(targetRate, sourceRate, amount float64) float64 {
	value, _ := decimal.NewFromFloat(targetRate).
		Div(decimal.NewFromFloat(sourceRate)).
		Mul(decimal.NewFromFloat(amount)).
		Round(2).
		Float64()

	return value
}
