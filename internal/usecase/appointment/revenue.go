package appointment

import (
	"context"
	"sort"
	"time"

	domain "github.com/BruksfildServices01/barber-agenda/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-agenda/internal/httperr"
	"github.com/BruksfildServices01/barber-agenda/internal/timezone"
)

type RevenueDay struct {
	Date  string  `json:"date"`
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type RevenueItem struct {
	AppointmentID uint      `json:"appointment_id"`
	StartTime     time.Time `json:"start_time"`
	ClientName    string    `json:"client_name"`
	ServiceName   string    `json:"service_name"`
	Price         float64   `json:"price"`
}

type RevenueReport struct {
	From  string        `json:"from"`
	To    string        `json:"to"`
	Count int           `json:"count"`
	Total float64       `json:"total"`
	Days  []RevenueDay  `json:"days"`
	Items []RevenueItem `json:"items"`
}

// Revenue soma o preço atual do serviço das citas COMPLETED com início em [from, to] (dias inteiros).
func (e *Engine) Revenue(
	ctx context.Context,
	from time.Time,
	to time.Time,
) (*RevenueReport, error) {

	from = from.In(e.loc)
	to = to.In(e.loc)
	if to.Before(from) {
		return nil, httperr.ErrValidation("invalid_range")
	}

	start, end := timezone.DayRange(from, to)

	apps, err := e.repo.ListAppointments(ctx, domain.Filter{
		From:   &start,
		To:     &end,
		Status: domain.StatusCompleted,
	})
	if err != nil {
		return nil, err
	}

	report := &RevenueReport{
		From:  start.Format("2006-01-02"),
		To:    end.AddDate(0, 0, -1).Format("2006-01-02"),
		Days:  []RevenueDay{},
		Items: []RevenueItem{},
	}

	byDay := map[string]*RevenueDay{}
	for _, ap := range apps {
		price := ap.Service.Price
		day := ap.StartTime.In(e.loc).Format("2006-01-02")

		rd, ok := byDay[day]
		if !ok {
			rd = &RevenueDay{Date: day}
			byDay[day] = rd
		}
		rd.Count++
		rd.Total += price

		report.Count++
		report.Total += price
		report.Items = append(report.Items, RevenueItem{
			AppointmentID: ap.ID,
			StartTime:     ap.StartTime,
			ClientName:    ap.ClientName,
			ServiceName:   ap.Service.Name,
			Price:         price,
		})
	}

	for _, rd := range byDay {
		report.Days = append(report.Days, *rd)
	}
	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date < report.Days[j].Date
	})

	return report, nil
}
