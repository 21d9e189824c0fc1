package appointment

import (
	"fmt"
	"time"
)

type AvailabilityInput struct {
	Date           time.Time
	ServiceID      uint
	GranularityMin int
}

type TimeSlot struct {
	Time  string    `json:"time"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Taken bool      `json:"taken"`
}

// Workday é a janela fixa de atendimento, em "15:04".
type Workday struct {
	Start string
	End   string
}

func (w Workday) Bounds(day time.Time) (time.Time, time.Time, error) {
	loc := day.Location()

	parseHM := func(hm string) (time.Time, error) {
		t, err := time.Parse("15:04", hm)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid workday time %q: %w", hm, err)
		}
		return time.Date(
			day.Year(), day.Month(), day.Day(),
			t.Hour(), t.Minute(), 0, 0,
			loc,
		), nil
	}

	start, err := parseHM(w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseHM(w.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("workday end %s must be after start %s", w.End, w.Start)
	}
	return start, end, nil
}
