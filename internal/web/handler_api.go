package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/vbonduro/drugbox/internal/domain"
	"github.com/vbonduro/drugbox/internal/filter"
	"github.com/vbonduro/drugbox/internal/service"
)

type boxJSON struct {
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Location    string            `json:"location"`
	Drug        string            `json:"drug"`
	DayLeft     int               `json:"day_left"`
	Status      domain.Status     `json:"status"`
	StatusLabel string            `json:"status_label"`
	Extra       map[string]string `json:"extra,omitempty"`
}

type snapshotJSON struct {
	ID       string    `json:"snapshot_id"`
	Source   string    `json:"source"`
	LoadedAt time.Time `json:"loaded_at"`
	Warning  string    `json:"warning,omitempty"`
}

func newSnapshotJSON(s *service.Snapshot) snapshotJSON {
	return snapshotJSON{ID: s.ID, Source: s.Source, LoadedAt: s.LoadedAt, Warning: s.Warning}
}

func newBoxJSON(b *domain.Box) boxJSON {
	st := b.Status()
	return boxJSON{
		Name:        b.Name,
		Category:    b.Category,
		Location:    b.Location,
		Drug:        b.Drug,
		DayLeft:     b.DayLeft,
		Status:      st,
		StatusLabel: st.Label(),
		Extra:       b.Extra,
	}
}

func (s *Server) handleAPIBoxes(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}

	boxes := make([]boxJSON, 0, len(view.Boxes))
	for _, b := range view.Boxes {
		boxes = append(boxes, newBoxJSON(b))
	}

	s.writeJSON(w, struct {
		snapshotJSON
		Count int       `json:"count"`
		Boxes []boxJSON `json:"boxes"`
	}{newSnapshotJSON(view.Snapshot), len(boxes), boxes})
}

func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, struct {
		snapshotJSON
		Summary service.Summary `json:"summary"`
	}{newSnapshotJSON(view.Snapshot), view.Summary})
}

// handleAPIOptions lists filter values from the full snapshot; the request's
// selection is ignored.
func (s *Server) handleAPIOptions(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Snapshot(r.Context())

	s.writeJSON(w, struct {
		snapshotJSON
		Options map[domain.Field][]string `json:"options"`
	}{newSnapshotJSON(snap), filter.Options(snap.Boxes)})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response error", "error", err)
	}
}
