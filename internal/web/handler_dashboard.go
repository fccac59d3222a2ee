package web

import (
	"errors"
	"net/http"

	"github.com/vbonduro/drugbox/internal/domain"
	"github.com/vbonduro/drugbox/internal/filter"
	"github.com/vbonduro/drugbox/internal/service"
)

var dashboardFiles = []string{"base.html", "pages/dashboard.html", "partials/results.html"}

// filterField is one sidebar multi-select.
type filterField struct {
	Name    string
	Label   string
	Options []filterOption
}

type filterOption struct {
	Value    string
	Label    string
	Selected bool
}

var fieldLabels = map[domain.Field]string{
	domain.FieldCategory: "ประเภทกล่อง",
	domain.FieldLocation: "ตำแหน่ง",
	domain.FieldStatus:   "สถานะ",
	domain.FieldDrug:     "ชื่อยา",
	domain.FieldBox:      "ชื่อกล่อง",
}

func buildFilterFields(view *service.View) []filterField {
	fields := make([]filterField, 0, len(domain.Fields))
	for _, f := range domain.Fields {
		selected := make(map[string]bool)
		for _, v := range view.Selection.Values(f) {
			if f == domain.FieldStatus {
				if st, ok := domain.ParseStatus(v); ok {
					v = string(st)
				}
			}
			selected[v] = true
		}

		field := filterField{Name: string(f), Label: fieldLabels[f]}
		for _, v := range view.Options[f] {
			label := v
			if f == domain.FieldStatus {
				label = domain.Status(v).Label()
			}
			field.Options = append(field.Options, filterOption{Value: v, Label: label, Selected: selected[v]})
		}
		fields = append(fields, field)
	}
	return fields
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, ok := s.view(w, r)
	if !ok {
		return
	}

	data := map[string]any{
		"View":    view,
		"Filters": buildFilterFields(view),
		"EditURL": s.editURL,
	}

	// HTMX partial update: return only the results fragment.
	if r.Header.Get("HX-Request") == "true" {
		if err := s.renderPartial(w, "results", data, "partials/results.html"); err != nil {
			s.logger.Error("render partial error", "error", err)
		}
		return
	}

	if err := s.renderPage(w, data, dashboardFiles...); err != nil {
		s.logger.Error("render page error", "error", err)
	}
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap := s.service.Refresh(r.Context())
	if snap.Warning != "" {
		s.logger.Warn("refresh produced a warning", "snapshot_id", snap.ID, "warning", snap.Warning)
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// view filters the current snapshot with the request's query. On failure it
// has already written the error response.
func (s *Server) view(w http.ResponseWriter, r *http.Request) (*service.View, bool) {
	view, err := s.service.View(r.Context(), filter.FromQuery(r.URL.Query()))
	if err != nil {
		if errors.Is(err, filter.ErrInvalidExpression) || errors.Is(err, filter.ErrEvaluationFailed) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return nil, false
		}
		http.Error(w, "failed to filter boxes", http.StatusInternalServerError)
		s.logger.Error("filter boxes error", "error", err)
		return nil, false
	}
	return view, true
}
