package cbr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/langowen/kursbot/internal/entities"
)

const vocabularyXML = `<?xml version="1.0" encoding="windows-1251"?>
<Valuta name="Foreign Currency Market Lib">
	<Item ID="R01235">
		<Name>Доллар США</Name>
		<EngName>US Dollar</EngName>
	</Item>
	<Item ID="R01239">
		<Name>Евро</Name>
		<EngName>Euro</EngName>
	</Item>
</Valuta>`

const dailyXML = `<?xml version="1.0" encoding="windows-1251"?>
<ValCurs Date="05.03.2024" name="Foreign Currency Market">
	<Valute ID="R01235">
		<CharCode>USD</CharCode>
		<VunitRate>90,1234</VunitRate>
	</Valute>
	<Valute ID="R01239">
		<CharCode>EUR</CharCode>
		<VunitRate>100.5</VunitRate>
	</Valute>
</ValCurs>`

func encodeWin1251(t *testing.T, text string) []byte {
	t.Helper()

	encoded, err := charmap.Windows1251.NewEncoder().String(text)
	require.NoError(t, err)

	return []byte(encoded)
}

func TestClient_Vocabulary(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=windows-1251")
		_, _ = w.Write(encodeWin1251(t, vocabularyXML))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.URL+"?date_req=")

	vocabulary, err := client.Vocabulary(context.Background())
	asserts.NoError(err)
	asserts.Len(vocabulary, 2)
	asserts.Equal(entities.Names{RusName: "Доллар США", EngName: "US Dollar"}, vocabulary["R01235"])
	asserts.Equal(entities.Names{RusName: "Евро", EngName: "Euro"}, vocabulary["R01239"])
}

func TestClient_DailyRates(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	t.Run("ParsesCommaAndDotDecimals", func(t *testing.T) {
		var requestedDate string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedDate = r.URL.Query().Get("date_req")
			w.Header().Set("Content-Type", "application/xml; charset=windows-1251")
			_, _ = w.Write(encodeWin1251(t, dailyXML))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.URL+"?date_req=")

		entries, err := client.DailyRates(context.Background(), "05/03/2024")
		asserts.NoError(err)
		asserts.Equal("05/03/2024", requestedDate)
		asserts.Equal([]entities.RateEntry{
			{ID: "R01235", Code: "USD", UnitRate: 90.1234},
			{ID: "R01239", Code: "EUR", UnitRate: 100.5},
		}, entries)
	})

	t.Run("MalformedRate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<ValCurs><Valute ID="R01235"><CharCode>USD</CharCode><VunitRate>ninety</VunitRate></Valute></ValCurs>`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.URL+"?date_req=")

		_, err := client.DailyRates(context.Background(), "05/03/2024")
		asserts.Error(err)
		asserts.True(errors.Is(err, entities.ErrUpstreamParse))
	})

	t.Run("MissingCharCode", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<ValCurs><Valute ID="R01235"><VunitRate>90,1234</VunitRate></Valute></ValCurs>`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.URL+"?date_req=")

		_, err := client.DailyRates(context.Background(), "05/03/2024")
		asserts.Error(err)
		asserts.True(errors.Is(err, entities.ErrUpstreamParse))
	})
}

func TestClient_TransportErrors(t *testing.T) {
	t.Parallel()
	asserts := require.New(t)

	t.Run("BadStatus", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewClient(server.URL, server.URL+"?date_req=")

		_, err := client.Vocabulary(context.Background())
		asserts.Error(err)
		asserts.True(errors.Is(err, entities.ErrUpstreamFetch))
	})

	t.Run("Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client := NewClient(server.URL, server.URL+"?date_req=")

		_, err := client.Vocabulary(context.Background())
		asserts.Error(err)
		asserts.True(errors.Is(err, entities.ErrUpstreamFetch))
	})

	t.Run("MalformedXML", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "xml"}`))
		}))
		defer server.Close()

		client := NewClient(server.URL, server.URL+"?date_req=")

		_, err := client.Vocabulary(context.Background())
		asserts.Error(err)
		asserts.True(errors.Is(err, entities.ErrUpstreamParse))
	})
}
