package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
)

// Interval é o intervalo semiaberto [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, durationMin int) (Interval, error) {
	if durationMin <= 0 {
		return Interval{}, httperr.ErrValidation("invalid_duration")
	}
	return Interval{
		Start: start,
		End:   start.Add(time.Duration(durationMin) * time.Minute),
	}, nil
}

// Overlaps usa desigualdade estrita nos dois lados: encostar não conflita.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) UTC() Interval {
	return Interval{Start: i.Start.UTC(), End: i.End.UTC()}
}

// Days lista os dias de calendário (em loc) tocados pelo intervalo.
func (i Interval) Days(loc *time.Location) []string {
	start := i.Start.In(loc)
	last := i.End.Add(-time.Nanosecond).In(loc)

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	var out []string
	for !day.After(last) {
		out = append(out, day.Format("2006-01-02"))
		day = day.AddDate(0, 0, 1)
	}
	return out
}
