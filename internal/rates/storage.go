package rates

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/pkg/errors"

	"github.com/langowen/kursbot/internal/entities"
)

// MatchThreshold — максимально допустимое расстояние Левенштейна между
// запросом и названием валюты.
const MatchThreshold = 3

const dateLayout = "02/01/2006"

const defaultFeedTimeout = 10 * time.Second

// Storage owns the day-keyed cache of currency records. A read against
// a stale date triggers a full refresh from the feeds; readers within
// the same day get the published snapshot without refetching.
type Storage struct {
	feed    FeedClient
	cache   SnapshotCache
	timeout time.Duration
	now     func() time.Time

	mu         sync.Mutex
	cachedDate string
	records    entities.Snapshot
}

type Option func(s *Storage)

// WithSnapshotCache attaches an external same-day snapshot cache.
func WithSnapshotCache(cache SnapshotCache) Option {
	return func(s *Storage) {
		s.cache = cache
	}
}

// WithTimeout bounds the two feed fetches of a single refresh.
func WithTimeout(timeout time.Duration) Option {
	return func(s *Storage) {
		s.timeout = timeout
	}
}

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		s.now = now
	}
}

func NewStorage(feed FeedClient, opts ...Option) *Storage {
	s := &Storage{
		feed:    feed,
		timeout: defaultFeedTimeout,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Snapshot returns the current day's records, refreshing first if the
// cached date is stale. The returned slice is a copy, callers may keep it.
func (s *Storage) Snapshot(ctx context.Context) (entities.Snapshot, error) {
	const op = "rates.Storage.Snapshot"

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.refreshLocked(ctx); err != nil {
		return nil, errors.Wrap(err, op)
	}

	return s.records.Clone(), nil
}

// FindByCode ищет валюту по трёхбуквенному коду без учёта регистра.
func (s *Storage) FindByCode(ctx context.Context, code string) (entities.Currency, error) {
	const op = "rates.Storage.FindByCode"

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return entities.Currency{}, errors.Wrap(err, op)
	}

	for _, c := range snap {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}

	return entities.Currency{}, &entities.UnknownCurrencyError{Query: code}
}

// Resolve ищет валюту по запросу пользователя:
// 1) строгое совпадение кода, русского или английского названия;
// 2) иначе — минимальное расстояние Левенштейна до одного из названий,
// не больше MatchThreshold. При равных кандидатах побеждает первый
// в порядке снапшота.
func (s *Storage) Resolve(ctx context.Context, query string) (entities.Currency, error) {
	const op = "rates.Storage.Resolve"

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return entities.Currency{}, errors.Wrap(err, op)
	}

	lower := strings.ToLower(query)

	for _, c := range snap {
		if strings.ToLower(c.Code) == lower ||
			strings.ToLower(c.RusName) == lower ||
			strings.ToLower(c.EngName) == lower {
			return c, nil
		}
	}

	best := -1
	bestDist := 0
	for i, c := range snap {
		dist := min(
			levenshtein.ComputeDistance(lower, strings.ToLower(c.RusName)),
			levenshtein.ComputeDistance(lower, strings.ToLower(c.EngName)),
		)
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
	}

	if best == -1 || bestDist > MatchThreshold {
		return entities.Currency{}, &entities.UnknownCurrencyError{Query: query}
	}

	return snap[best], nil
}

func (s *Storage) currentDate() string {
	return s.now().Format(dateLayout)
}

// refreshLocked rebuilds the cache when the cached date is stale.
// All-or-nothing: the cache is emptied before refilling, so a failed
// refresh never leaves a partially merged snapshot behind.
func (s *Storage) refreshLocked(ctx context.Context) error {
	const op = "rates.Storage.refresh"

	date := s.currentDate()
	if date == s.cachedDate {
		return nil
	}

	s.cachedDate = ""
	s.records = nil

	if s.cache != nil {
		snap, ok, err := s.cache.Get(ctx, date)
		if err != nil {
			slog.Warn("snapshot cache read failed", "date", date, "error", err)
		} else if ok {
			s.records = snap
			s.cachedDate = date
			return nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vocabulary, err := s.feed.Vocabulary(ctx)
	if err != nil {
		return errors.Wrap(err, op)
	}

	entries, err := s.feed.DailyRates(ctx, date)
	if err != nil {
		return errors.Wrap(err, op)
	}

	records := make(entities.Snapshot, 0, len(entries)+1)
	for _, entry := range entries {
		names, ok := vocabulary[entry.ID]
		if !ok {
			return errors.Wrapf(entities.ErrUpstreamParse,
				"%s: rate entry %s is missing from the vocabulary", op, entry.ID)
		}

		records = append(records, entities.Currency{
			Code:     entry.Code,
			RusName:  names.RusName,
			EngName:  names.EngName,
			UnitRate: entry.UnitRate,
		})
	}

	// искусственно дополняем срез российским рублём
	records = append(records, entities.RefCurrency())

	s.records = records
	s.cachedDate = date

	slog.Info("rates snapshot refreshed", "date", date, "currencies", len(records))

	if s.cache != nil {
		if err := s.cache.Set(ctx, date, records); err != nil {
			slog.Warn("snapshot cache store failed", "date", date, "error", err)
		}
	}

	return nil
}
