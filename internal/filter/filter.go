// Package filter narrows a box collection to the user's sidebar selection.
//
// Each field with a non-empty selection keeps only boxes whose value is in the
// selection; an empty selection does not constrain. Fields combine with AND and
// are all evaluated against the original collection, so the order in which the
// user picks filters never matters.
package filter

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vbonduro/drugbox/internal/domain"
)

var (
	ErrInvalidExpression = errors.New("invalid filter expression")
	ErrEvaluationFailed  = errors.New("filter expression evaluation failed")
)

// Selection is the set of values chosen per field, plus an optional
// expression such as `DayLeft < 30 && Location == "ER"`.
type Selection struct {
	Category []string `json:"category,omitempty"`
	Location []string `json:"location,omitempty"`
	Status   []string `json:"status,omitempty"`
	Drug     []string `json:"drug,omitempty"`
	Box      []string `json:"box,omitempty"`
	Where    string   `json:"where,omitempty"`
}

// Values returns the selected values for f.
func (s Selection) Values(f domain.Field) []string {
	switch f {
	case domain.FieldCategory:
		return s.Category
	case domain.FieldLocation:
		return s.Location
	case domain.FieldStatus:
		return s.Status
	case domain.FieldDrug:
		return s.Drug
	case domain.FieldBox:
		return s.Box
	default:
		return nil
	}
}

// IsEmpty reports whether the selection constrains nothing.
func (s Selection) IsEmpty() bool {
	for _, f := range domain.Fields {
		if len(s.Values(f)) > 0 {
			return false
		}
	}
	return strings.TrimSpace(s.Where) == ""
}

// FromQuery reads a selection from repeated query parameters named after the
// fields (category, location, status, drug, box) and a "where" expression.
func FromQuery(q url.Values) Selection {
	pick := func(key string) []string {
		var out []string
		for _, v := range q[key] {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		return out
	}
	return Selection{
		Category: pick(string(domain.FieldCategory)),
		Location: pick(string(domain.FieldLocation)),
		Status:   pick(string(domain.FieldStatus)),
		Drug:     pick(string(domain.FieldDrug)),
		Box:      pick(string(domain.FieldBox)),
		Where:    strings.TrimSpace(q.Get("where")),
	}
}

// Query is a compiled Selection.
type Query struct {
	sets    map[domain.Field]map[string]struct{}
	program *vm.Program
}

// env is what a Where expression can reference.
type env struct {
	Name     string
	Category string
	Location string
	Drug     string
	DayLeft  int
	Status   string
}

// Compile validates the selection and prepares it for matching.
func Compile(sel Selection) (*Query, error) {
	q := &Query{sets: make(map[domain.Field]map[string]struct{})}

	for _, f := range domain.Fields {
		values := sel.Values(f)
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			if f == domain.FieldStatus {
				if st, ok := domain.ParseStatus(v); ok {
					v = string(st)
				}
			}
			set[v] = struct{}{}
		}
		q.sets[f] = set
	}

	if where := strings.TrimSpace(sel.Where); where != "" {
		program, err := expr.Compile(where, expr.Env(env{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
		}
		q.program = program
	}

	return q, nil
}

// Match reports whether b passes every constraint.
func (q *Query) Match(b *domain.Box) (bool, error) {
	for f, set := range q.sets {
		if _, ok := set[b.Value(f)]; !ok {
			return false, nil
		}
	}
	if q.program == nil {
		return true, nil
	}

	out, err := expr.Run(q.program, env{
		Name:     b.Name,
		Category: b.Category,
		Location: b.Location,
		Drug:     b.Drug,
		DayLeft:  b.DayLeft,
		Status:   string(b.Status()),
	})
	if err != nil {
		return false, fmt.Errorf("%w: box %q: %v", ErrEvaluationFailed, b.Name, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Filter returns a new slice with the matching boxes in their original order.
func (q *Query) Filter(boxes []*domain.Box) ([]*domain.Box, error) {
	out := make([]*domain.Box, 0, len(boxes))
	for _, b := range boxes {
		ok, err := q.Match(b)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// Apply compiles sel and filters boxes with it. The input is never modified.
func Apply(boxes []*domain.Box, sel Selection) ([]*domain.Box, error) {
	q, err := Compile(sel)
	if err != nil {
		return nil, err
	}
	return q.Filter(boxes)
}

// Options lists, for every field, the distinct values present in boxes.
// Statuses come in urgency order, other fields sorted.
func Options(boxes []*domain.Box) map[domain.Field][]string {
	opts := make(map[domain.Field][]string, len(domain.Fields))
	for _, f := range domain.Fields {
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, b := range boxes {
			v := b.Value(f)
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		if f == domain.FieldStatus {
			sort.Slice(values, func(i, j int) bool {
				return domain.Status(values[i]).Rank() < domain.Status(values[j]).Rank()
			})
		} else {
			sort.Strings(values)
		}
		opts[f] = values
	}
	return opts
}
