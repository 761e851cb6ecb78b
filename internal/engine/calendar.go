package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-birthday-web/internal/birthdate"
	"github.com/tartampluch/go-birthday-web/internal/birthdays"
	"github.com/tartampluch/go-birthday-web/internal/config"
	"github.com/tartampluch/go-birthday-web/internal/i18n"
)

// Generator renders birthday records as an iCalendar feed.
type Generator struct {
	// ReminderTrigger is an ISO 8601 duration such as "-P1D"; empty disables alarms.
	ReminderTrigger string
}

// Calendar builds the feed for entries as seen on today.
// Every record yields one all-day event for the previous, current and next
// year, skipping years before the birth. DTSTAMP is pinned to the start of
// today so the bytes only change when the data or the day does.
// It also returns how many records have their birthday today.
func (g *Generator) Calendar(ctx context.Context, entries []birthdays.Entry, today birthdate.CalendarDate, tr *i18n.Translator) ([]byte, int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	calName := ical.NewProp(config.PropXWRCalName)
	calName.SetText(tr.T(config.TKeyCalendarName, nil))
	// Written without a VALUE parameter, as calendar clients expect it.
	calName.Params.Del(ical.ParamValue)
	cal.Props.Set(calName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(today.Time())

	todayCount := 0
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}

		birth, err := birthdate.Parse(e.Birthdate)
		if err != nil {
			slog.WarnContext(ctx, config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyRecordID, e.ID,
				config.LogKeyValue, e.Birthdate,
			)
			continue
		}

		if birthdate.IsBirthday(birth, today) {
			todayCount++
			slog.DebugContext(ctx, config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, e.Name,
				config.LogKeyDOB, e.Birthdate,
			)
		}

		for _, ev := range g.events(e, birth, today, tr) {
			ev.Props.Set(stamp)
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.DebugContext(ctx, config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFound, len(entries)),
			slog.Int(config.LogKeyToday, todayCount),
		),
	)
	return buf.Bytes(), todayCount, nil
}

func (g *Generator) events(e birthdays.Entry, birth, today birthdate.CalendarDate, tr *i18n.Translator) []*ical.Event {
	uidBase := eventUIDBase(e.ID, e.Birthdate)

	var out []*ical.Event
	for _, y := range []int{today.Year - 1, today.Year, today.Year + 1} {
		if y < birth.Year {
			continue
		}

		summary := tr.EventSummary(e.Name, birthdate.AgeOn(birth, y), true)

		ev := ical.NewEvent()
		ev.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))
		ev.Props.SetText(config.PropSummary, summary)

		start := ical.NewProp(config.PropDTStart)
		start.SetDate(birth.OccurrenceIn(y).Time())
		ev.Props.Set(start)

		if g.ReminderTrigger != "" {
			addAlarm(ev, g.ReminderTrigger, tr.T(config.TKeyReminderDesc, map[string]any{"Name": e.Name}))
		}
		out = append(out, ev)
	}
	return out
}

// eventUIDBase is stable for a record until its birthdate changes.
func eventUIDBase(id, raw string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf(config.FormatHashInput, id, raw, config.UIDSalt)))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// addAlarm appends a DISPLAY alarm. TRIGGER is set raw so no VALUE=TEXT parameter is emitted.
func addAlarm(ev *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	p := ical.NewProp(config.PropTrigger)
	p.Value = trigger
	alarm.Props.Set(p)

	ev.Children = append(ev.Children, alarm)
}
