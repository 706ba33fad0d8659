package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// icsEntry is the part of a VEVENT worth showing after a download.
type icsEntry struct {
	Summary string
	Start   time.Time
	AllDay  bool
}

func (e icsEntry) when() string {
	if e.Start.IsZero() {
		return "????-??-??"
	}
	if e.AllDay {
		return e.Start.Format("2006-01-02")
	}
	return e.Start.Local().Format("2006-01-02 15:04")
}

var errEmptyCalendar = errors.New("calendar file contains no events")

func parseICS(data []byte) ([]icsEntry, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse calendar file: %w", err)
	}

	var out []icsEntry
	for _, ev := range cal.Events() {
		var e icsEntry
		if p := ev.GetProperty(ical.ComponentPropertySummary); p != nil {
			e.Summary = p.Value
		}
		if p := ev.GetProperty(ical.ComponentPropertyDtStart); p != nil {
			e.AllDay = !strings.Contains(p.Value, "T")
		}
		if e.AllDay {
			e.Start, _ = ev.GetAllDayStartAt()
		} else {
			e.Start, _ = ev.GetStartAt()
		}
		out = append(out, e)
	}

	if len(out) == 0 {
		return nil, errEmptyCalendar
	}
	return out, nil
}
