// Package birthdays manages the birthday records of each user and attaches a
// freshly computed birthdate summary to every record it returns.
package birthdays

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	gcache "github.com/patrickmn/go-cache"
	"github.com/tartampluch/go-birthday-web/internal/birthdate"
	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/tartampluch/go-birthday-web/internal/store"
)

var (
	ErrNotFound     = errors.New(config.ErrRecordNotFound)
	ErrNameTaken    = errors.New(config.ErrNameTaken)
	ErrNameRequired = errors.New(config.ErrNameRequired)
	ErrNameTooLong  = errors.New(config.ErrNameTooLong)
)

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, b *store.Birthday) error
	Update(ctx context.Context, b *store.Birthday) error
	Delete(ctx context.Context, userID, id string) error
	Get(ctx context.Context, userID, id string) (store.Birthday, error)
	ByName(ctx context.Context, userID, name string) (store.Birthday, error)
	List(ctx context.Context, userID string) ([]store.Birthday, error)
}

// Entry is a stored record together with its summary for today.
type Entry struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Birthdate string            `json:"birthdate"`
	Summary   birthdate.Summary `json:"summary"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Service implements the birthday use-cases.
type Service struct {
	repo  Repository
	clock birthdate.Clock
	cache *gcache.Cache
	ttl   time.Duration
}

// NewService wires the repository. Summaries are cached per (birthdate, day)
// for summaryTTL; a zero TTL disables caching.
func NewService(repo Repository, clock birthdate.Clock, summaryTTL time.Duration) *Service {
	if clock == nil {
		clock = birthdate.RealClock{}
	}
	var cache *gcache.Cache
	if summaryTTL > 0 {
		cache = gcache.New(summaryTTL, 2*summaryTTL)
	}
	return &Service{repo: repo, clock: clock, cache: cache, ttl: summaryTTL}
}

// Today returns the reference date used for summaries.
func (s *Service) Today() birthdate.CalendarDate {
	return birthdate.Today(s.clock)
}

// Create validates and stores a new record.
// The date is parsed first so a *birthdate.ParseError is reported even if the name is also taken.
func (s *Service) Create(ctx context.Context, userID, name, rawDate string) (Entry, error) {
	d, err := birthdate.Parse(strings.TrimSpace(rawDate))
	if err != nil {
		s.logRejected(ctx, rawDate, err)
		return Entry{}, err
	}
	name, err = validName(name)
	if err != nil {
		return Entry{}, err
	}
	if err := s.ensureNameFree(ctx, userID, name, ""); err != nil {
		return Entry{}, err
	}

	rec := &store.Birthday{UserID: userID, Name: name, Birthdate: d.String()}
	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Entry{}, ErrNameTaken
		}
		return Entry{}, err
	}

	slog.InfoContext(ctx, config.MsgBdayCreated,
		config.LogKeyComponent, config.CompBirthdays,
		config.LogKeyUserID, userID,
		config.LogKeyRecordID, rec.ID,
	)
	return s.view(*rec), nil
}

// Update replaces the name and birthdate of record id.
// Keeping the record's own name is not a conflict.
func (s *Service) Update(ctx context.Context, userID, id, name, rawDate string) (Entry, error) {
	d, err := birthdate.Parse(strings.TrimSpace(rawDate))
	if err != nil {
		s.logRejected(ctx, rawDate, err)
		return Entry{}, err
	}
	name, err = validName(name)
	if err != nil {
		return Entry{}, err
	}

	rec, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Entry{}, notFound(err)
	}
	if err := s.ensureNameFree(ctx, userID, name, id); err != nil {
		return Entry{}, err
	}

	rec.Name = name
	rec.Birthdate = d.String()
	rec.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, &rec); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Entry{}, ErrNameTaken
		}
		return Entry{}, notFound(err)
	}

	slog.InfoContext(ctx, config.MsgBdayUpdated,
		config.LogKeyComponent, config.CompBirthdays,
		config.LogKeyUserID, userID,
		config.LogKeyRecordID, id,
	)
	return s.view(rec), nil
}

// Delete removes record id and returns what was deleted.
func (s *Service) Delete(ctx context.Context, userID, id string) (Entry, error) {
	rec, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Entry{}, notFound(err)
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return Entry{}, notFound(err)
	}

	slog.InfoContext(ctx, config.MsgBdayDeleted,
		config.LogKeyComponent, config.CompBirthdays,
		config.LogKeyUserID, userID,
		config.LogKeyRecordID, id,
	)
	return s.view(rec), nil
}

// Get returns record id with its summary for today.
func (s *Service) Get(ctx context.Context, userID, id string) (Entry, error) {
	rec, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return Entry{}, notFound(err)
	}
	return s.view(rec), nil
}

// List returns every record of userID, soonest birthday first, then by name.
// Rows whose stored date no longer parses are logged and left out.
func (s *Service) List(ctx context.Context, userID string) ([]Entry, error) {
	recs, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := s.Today()
	out := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		if e, ok := s.entry(rec, today); ok {
			out = append(out, e)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Summary.DaysUntilNext != out[j].Summary.DaysUntilNext {
			return out[i].Summary.DaysUntilNext < out[j].Summary.DaysUntilNext
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Upcoming returns the records whose next birthday is at most withinDays away.
func (s *Service) Upcoming(ctx context.Context, userID string, withinDays int) ([]Entry, error) {
	all, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(all))
	for _, e := range all {
		if e.Summary.DaysUntilNext <= withinDays {
			out = append(out, e)
		}
	}
	return out, nil
}

// entry attaches the summary for today. Stored dates were validated on write,
// so ok is false only for rows edited out of band; their summary is left empty.
func (s *Service) entry(rec store.Birthday, today birthdate.CalendarDate) (Entry, bool) {
	sum, ok := s.summary(rec.Birthdate, today)
	return Entry{
		ID:        rec.ID,
		Name:      rec.Name,
		Birthdate: rec.Birthdate,
		Summary:   sum,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}, ok
}

// view is the entry of a single record. Unreadable rows are still returned so
// their owner can correct them.
func (s *Service) view(rec store.Birthday) Entry {
	e, _ := s.entry(rec, s.Today())
	return e
}

// summary computes or recalls the summary of raw for today.
// The cache key embeds today's date, so entries can never outlive their day.
func (s *Service) summary(raw string, today birthdate.CalendarDate) (birthdate.Summary, bool) {
	key := raw + "|" + today.String()
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(birthdate.Summary), true
		}
	}

	sum, err := birthdate.Describe(raw, today)
	if err != nil {
		slog.Error(config.ErrSummaryCompute,
			config.LogKeyComponent, config.CompBirthdays,
			config.LogKeyValue, raw,
			config.LogKeyError, err,
		)
		return birthdate.Summary{}, false
	}

	if s.cache != nil {
		s.cache.Set(key, sum, s.ttl)
	}
	return sum, true
}

func (s *Service) ensureNameFree(ctx context.Context, userID, name, selfID string) error {
	existing, err := s.repo.ByName(ctx, userID, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID == selfID:
		return nil
	default:
		return ErrNameTaken
	}
}

func (s *Service) logRejected(ctx context.Context, raw string, err error) {
	slog.DebugContext(ctx, config.MsgParseRejected,
		config.LogKeyComponent, config.CompBirthdays,
		config.LogKeyValue, raw,
		config.LogKeyError, err,
	)
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return "", ErrNameRequired
	case utf8.RuneCountInString(name) > config.NameMaxLen:
		return "", ErrNameTooLong
	}
	return name, nil
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
