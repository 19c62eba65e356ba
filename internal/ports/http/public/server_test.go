package public

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/langowen/kursbot/internal/converter"
	"github.com/langowen/kursbot/internal/entities"
)

type fakeService struct {
	snapshot entities.Snapshot
	result   *converter.Result
	err      error
}

func (f *fakeService) Snapshot(_ context.Context) (entities.Snapshot, error) {
	return f.snapshot, f.err
}

func (f *fakeService) Convert(_ context.Context, _, _, _ string) (*converter.Result, error) {
	return f.result, f.err
}

func newTestServer(service *fakeService) *Server {
	return &Server{
		converter: service,
		storage:   service,
	}
}

func TestServer_GetRates(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	service := &fakeService{snapshot: entities.Snapshot{
		{Code: "USD", RusName: "Доллар США", EngName: "US Dollar", UnitRate: 90},
		entities.RefCurrency(),
	}}
	server := newTestServer(service)

	rec := httptest.NewRecorder()
	server.GetRates(rec, httptest.NewRequest(http.MethodGet, "/rates", nil))

	asserts.Equal(http.StatusOK, rec.Code)

	var response []RateResponse
	asserts.NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	asserts.Equal([]RateResponse{
		{Code: "USD", Rate: 90},
		{Code: "RUR", Rate: 1},
	}, response)
}

func TestServer_Convert(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	t.Run("Successful", func(t *testing.T) {
		service := &fakeService{result: &converter.Result{
			Amount:          10,
			ConvertedAmount: 9,
			Target:          entities.Currency{Code: "USD"},
			Source:          entities.Currency{Code: "EUR"},
		}}
		server := newTestServer(service)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/convert?target=USD&source=EUR&amount=10", nil)
		server.Convert(rec, req)

		asserts.Equal(http.StatusOK, rec.Code)

		var result converter.Result
		asserts.NoError(json.Unmarshal(rec.Body.Bytes(), &result))
		asserts.Equal(9.0, result.ConvertedAmount)
	})

	t.Run("ErrorStatuses", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{&entities.UnknownCurrencyError{Query: "Xyzzyqq"}, http.StatusNotFound},
			{entities.ErrInvalidAmount, http.StatusBadRequest},
			{entities.ErrNonPositiveAmount, http.StatusBadRequest},
			{entities.ErrSameCurrency, http.StatusBadRequest},
			{entities.ErrUpstreamFetch, http.StatusBadGateway},
			{entities.ErrUpstreamParse, http.StatusBadGateway},
		}

		for _, tc := range cases {
			server := newTestServer(&fakeService{err: tc.err})

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/convert?target=a&source=b&amount=c", nil)
			server.Convert(rec, req)

			asserts.Equal(tc.status, rec.Code)
		}
	})
}
