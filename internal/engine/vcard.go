// Package engine converts between birthday records and the vCard and
// iCalendar formats used by address books and calendar clients.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-birthday-web/internal/birthdate"
	"github.com/tartampluch/go-birthday-web/internal/birthdays"
	"github.com/tartampluch/go-birthday-web/internal/config"
)

// ImportReport summarizes one decoded vCard stream.
type ImportReport struct {
	Cards   int `json:"cards"`
	Found   int `json:"found"`
	Skipped int `json:"skipped"`
}

// Importer turns vCard streams into birthday drafts.
type Importer struct {
	Fetcher VCardFetcher
}

// FromURL downloads a vCard export and decodes it.
func (im *Importer) FromURL(ctx context.Context, url, user, pass string) ([]birthdays.Draft, ImportReport, error) {
	if im.Fetcher == nil {
		return nil, ImportReport{}, errors.New(config.ErrFetcherMissing)
	}
	rc, err := im.Fetcher.Fetch(ctx, url, user, pass)
	if err != nil {
		return nil, ImportReport{}, err
	}
	defer func() { _ = rc.Close() }()

	return ParseVCards(ctx, rc)
}

// ParseVCards decodes every card of r and keeps those with a full-year BDAY.
// Malformed cards, cards without BDAY and year-less dates (--MM-DD) are
// counted as skipped; a record needs a year to have an age.
func ParseVCards(ctx context.Context, r io.Reader) ([]birthdays.Draft, ImportReport, error) {
	var (
		report  ImportReport
		drafts  []birthdays.Draft
		errRun  int
		decoder = vcard.NewDecoder(r)
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			report.Skipped++
			errRun++
			slog.WarnContext(ctx, config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err,
			)
			if errRun >= config.MaxCardErrors || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, report, fmt.Errorf("%s: %w", config.ErrVCardRead, err)
			}
			continue
		}
		errRun = 0
		report.Cards++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || strings.TrimSpace(bday.Value) == "" {
			report.Skipped++
			continue
		}

		d, ok := parseBDAY(strings.TrimSpace(bday.Value))
		if !ok {
			report.Skipped++
			slog.DebugContext(ctx, config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value,
			)
			continue
		}

		report.Found++
		drafts = append(drafts, birthdays.Draft{Name: cardName(card), Birthdate: d.String()})
	}

	slog.InfoContext(ctx, config.MsgImportDone,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyTotal, report.Cards),
			slog.Int(config.LogKeyFound, report.Found),
			slog.Int(config.LogKeySkipped, report.Skipped),
		),
	)
	return drafts, report, nil
}

// cardName prefers FN, then the structured N, then a placeholder.
func cardName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil {
		if v := strings.TrimSpace(fn.Value); v != "" {
			return v
		}
	}
	if n := card.Name(); n != nil {
		var parts []string
		for _, p := range []string{n.HonorificPrefix, n.GivenName, n.AdditionalName, n.FamilyName, n.HonorificSuffix} {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}
	return config.FallbackName
}

// parseBDAY accepts the vCard date forms that carry a year.
// The calendar date is read as written, whatever offset an RFC 3339 value has.
func parseBDAY(value string) (birthdate.CalendarDate, bool) {
	layouts := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, layout := range layouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		d, err := birthdate.New(t.Year(), t.Month(), t.Day())
		if err != nil {
			return birthdate.CalendarDate{}, false
		}
		return d, true
	}
	return birthdate.CalendarDate{}, false
}
