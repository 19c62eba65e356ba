// Package cbr fetches the two ЦБ РФ documents: the currency vocabulary
// (XML_valFull.asp) and the daily rates (XML_daily.asp?date_req=DD/MM/YYYY).
// Both are XML in windows-1251.
package cbr

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/charmap"

	"github.com/langowen/kursbot/internal/entities"
)

type Client struct {
	client         *http.Client
	vocabularyURL  string
	ratesURLPrefix string
}

func NewClient(vocabularyURL, ratesURLPrefix string) *Client {
	return &Client{
		client:         &http.Client{},
		vocabularyURL:  vocabularyURL,
		ratesURLPrefix: ratesURLPrefix,
	}
}

type vocabularyDoc struct {
	XMLName xml.Name `xml:"Valuta"`
	Items   []struct {
		ID      string `xml:"ID,attr"`
		Name    string `xml:"Name"`
		EngName string `xml:"EngName"`
	} `xml:"Item"`
}

type dailyDoc struct {
	XMLName xml.Name `xml:"ValCurs"`
	Valute  []struct {
		ID        string `xml:"ID,attr"`
		CharCode  string `xml:"CharCode"`
		VunitRate string `xml:"VunitRate"`
	} `xml:"Valute"`
}

// Vocabulary returns the id -> names dictionary of all known currencies.
func (c *Client) Vocabulary(ctx context.Context) (map[string]entities.Names, error) {
	const op = "cbr.Client.Vocabulary"

	var doc vocabularyDoc
	if err := c.get(ctx, c.vocabularyURL, &doc); err != nil {
		return nil, errors.Wrap(err, op)
	}

	result := make(map[string]entities.Names, len(doc.Items))
	for _, item := range doc.Items {
		result[item.ID] = entities.Names{
			RusName: strings.TrimSpace(item.Name),
			EngName: strings.TrimSpace(item.EngName),
		}
	}

	return result, nil
}

// DailyRates returns the rate entries for a date in DD/MM/YYYY form.
func (c *Client) DailyRates(ctx context.Context, date string) ([]entities.RateEntry, error) {
	const op = "cbr.Client.DailyRates"

	var doc dailyDoc
	if err := c.get(ctx, c.ratesURLPrefix+date, &doc); err != nil {
		return nil, errors.Wrap(err, op)
	}

	entries := make([]entities.RateEntry, 0, len(doc.Valute))
	for _, item := range doc.Valute {
		code := strings.TrimSpace(item.CharCode)
		if code == "" {
			return nil, errors.Wrapf(entities.ErrUpstreamParse,
				"%s: entry %s has no char code", op, item.ID)
		}

		// ЦБ отдаёт дробную часть через запятую
		rate, err := strconv.ParseFloat(strings.Replace(item.VunitRate, ",", ".", 1), 64)
		if err != nil {
			return nil, errors.Wrapf(entities.ErrUpstreamParse,
				"%s: entry %s has malformed unit rate %q", op, item.ID, item.VunitRate)
		}

		entries = append(entries, entities.RateEntry{
			ID:       item.ID,
			Code:     code,
			UnitRate: rate,
		})
	}

	return entries, nil
}

func (c *Client) get(ctx context.Context, url string, doc any) error {
	const op = "cbr.Client.get"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(entities.ErrUpstreamFetch, "%s: %v", op, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return errors.Wrapf(entities.ErrUpstreamFetch, "%s: %v", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Wrapf(entities.ErrUpstreamFetch, "%s: bad status %s from %s", op, resp.Status, url)
	}

	decoder := xml.NewDecoder(resp.Body)
	decoder.CharsetReader = charsetReader

	if err := decoder.Decode(doc); err != nil {
		return errors.Wrapf(entities.ErrUpstreamParse, "%s: %v", op, err)
	}

	return nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "windows-1251":
		return charmap.Windows1251.NewDecoder().Reader(input), nil
	case "utf-8", "":
		return input, nil
	}

	return nil, fmt.Errorf("unsupported charset %q", charset)
}
