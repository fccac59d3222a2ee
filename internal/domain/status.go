package domain

// Status is the expiry classification of a box.
type Status string

const (
	StatusExpired      Status = "Expired"
	StatusExpiringSoon Status = "ExpiringSoon"
	StatusOK           Status = "OK"
)

// SoonWindowDays is the last day-left value still counted as expiring soon.
const SoonWindowDays = 90

// Statuses lists every status from most to least urgent.
var Statuses = []Status{StatusExpired, StatusExpiringSoon, StatusOK}

// Classify maps a day-left count to a status.
func Classify(dayLeft int) Status {
	switch {
	case dayLeft < 0:
		return StatusExpired
	case dayLeft <= SoonWindowDays:
		return StatusExpiringSoon
	default:
		return StatusOK
	}
}

// ParseStatus accepts either the status value or its display label.
func ParseStatus(s string) (Status, bool) {
	for _, st := range Statuses {
		if s == string(st) || s == st.Label() {
			return st, true
		}
	}
	return "", false
}

// Label is the bilingual text shown on the dashboard.
func (s Status) Label() string {
	switch s {
	case StatusExpired:
		return "Expired (หมดอายุ)"
	case StatusExpiringSoon:
		return "Expiring Soon (ใกล้หมด)"
	case StatusOK:
		return "OK (ปกติ)"
	default:
		return string(s)
	}
}

// ChartColor is the slice color used in the status breakdown.
func (s Status) ChartColor() string {
	switch s {
	case StatusExpired:
		return "#FF4B4B"
	case StatusExpiringSoon:
		return "#FFA500"
	case StatusOK:
		return "#00CC96"
	default:
		return ""
	}
}

// RowColor is the table cell background, empty for boxes that need no attention.
func (s Status) RowColor() string {
	switch s {
	case StatusExpired:
		return "#ffcccc"
	case StatusExpiringSoon:
		return "#ffebcc"
	default:
		return ""
	}
}

// Rank orders statuses by urgency, Expired first.
func (s Status) Rank() int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return len(Statuses)
}
