package entities

// Currency — одна валюта из дневного среза курсов ЦБ РФ.
type Currency struct {
	Code     string  `json:"code"`
	RusName  string  `json:"rus_name"`
	EngName  string  `json:"eng_name"`
	UnitRate float64 `json:"unit_rate"`
}

// Names holds the vocabulary entry for a currency id.
type Names struct {
	RusName string `json:"rus_name"`
	EngName string `json:"eng_name"`
}

// RateEntry is one row of the daily rates feed before it is merged
// with the vocabulary.
type RateEntry struct {
	ID       string
	Code     string
	UnitRate float64
}

// Snapshot is the set of currency records valid for one calendar day.
// The storage publishes copies, so a caller may keep or mutate its
// snapshot freely.
type Snapshot []Currency

func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Курсы ЦБ выражены в рублях, сам рубль в фидах отсутствует.
const (
	RefCurrencyCode    = "RUR"
	RefCurrencyRusName = "Российский рубль"
	RefCurrencyEngName = "Russian Ruble"
)

// RefCurrency returns the synthetic reference-currency record appended
// to every snapshot after the fetched records.
func RefCurrency() Currency {
	return Currency{
		Code:     RefCurrencyCode,
		RusName:  RefCurrencyRusName,
		EngName:  RefCurrencyEngName,
		UnitRate: 1.0,
	}
}
