package service

import (
	"sort"

	"github.com/vbonduro/drugbox/internal/domain"
)

// KPI holds the headline counters.
type KPI struct {
	Total   int `json:"total"`
	Expired int `json:"expired"`
	Soon    int `json:"soon"`
	OK      int `json:"ok"`
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

type StatusCount struct {
	Status domain.Status `json:"status"`
	Label  string        `json:"label"`
	Color  string        `json:"color"`
	Count  int           `json:"count"`
}

// Summary backs the KPI cards and both charts.
type Summary struct {
	KPI       KPI             `json:"kpi"`
	Locations []LocationCount `json:"locations"`
	Statuses  []StatusCount   `json:"statuses"`
}

// Summarize counts boxes per status and per location. Both breakdowns are
// sorted by descending count; ties go to location name or status urgency.
func Summarize(boxes []*domain.Box) Summary {
	sum := Summary{
		KPI:       KPI{Total: len(boxes)},
		Locations: make([]LocationCount, 0),
		Statuses:  make([]StatusCount, 0, len(domain.Statuses)),
	}

	byLocation := make(map[string]int)
	byStatus := make(map[domain.Status]int)
	for _, b := range boxes {
		st := b.Status()
		switch st {
		case domain.StatusExpired:
			sum.KPI.Expired++
		case domain.StatusExpiringSoon:
			sum.KPI.Soon++
		case domain.StatusOK:
			sum.KPI.OK++
		}
		byStatus[st]++
		byLocation[b.Location]++
	}

	for loc, n := range byLocation {
		sum.Locations = append(sum.Locations, LocationCount{Location: loc, Count: n})
	}
	sort.Slice(sum.Locations, func(i, j int) bool {
		a, b := sum.Locations[i], sum.Locations[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Location < b.Location
	})

	for _, st := range domain.Statuses {
		if n := byStatus[st]; n > 0 {
			sum.Statuses = append(sum.Statuses, StatusCount{
				Status: st,
				Label:  st.Label(),
				Color:  st.ChartColor(),
				Count:  n,
			})
		}
	}
	sort.SliceStable(sum.Statuses, func(i, j int) bool {
		return sum.Statuses[i].Count > sum.Statuses[j].Count
	})

	return sum
}

// Share returns the part of the total n represents, in percent.
func (s Summary) Share(n int) float64 {
	if s.KPI.Total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(s.KPI.Total)
}

// MaxLocationCount is the tallest bar of the location chart.
func (s Summary) MaxLocationCount() int {
	if len(s.Locations) == 0 {
		return 0
	}
	return s.Locations[0].Count
}
