package sheet

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vbonduro/drugbox/internal/domain"
)

var (
	ErrMalformedCSV  = errors.New("malformed csv")
	ErrMissingColumn = errors.New("missing column")
)

// Columns names the sheet header of each well-known box field.
type Columns struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Location string `yaml:"location"`
	Drug     string `yaml:"drug"`
	DayLeft  string `yaml:"day_left"`
}

// DefaultColumns returns the headers used by the hospital tracking sheet.
func DefaultColumns() Columns {
	return Columns{
		Name:     "ชื่อกล่อง",
		Category: "ประเภท กล่อง",
		Location: "ตำเเหน่งกล่อง",
		Drug:     "ยาที่หมดอายุไวสุด",
		DayLeft:  "DayLeft",
	}
}

// Sheet is the cleaned content of one CSV download.
type Sheet struct {
	// ExtraHeaders lists, in sheet order, the columns kept in Box.Extra.
	ExtraHeaders []string
	Boxes        []*domain.Box
}

// Parse reads CSV content and cleans it into boxes. Missing cells become
// domain.Unspecified and the day-left column is coerced with CleanDayLeft.
func Parse(r io.Reader, cols Columns) (*Sheet, error) {
	reader := csv.NewReader(skipBOM(r))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrMalformedCSV)
	}

	header := normalizeHeader(records[0])
	index := make(map[string]int, len(header))
	for i, h := range header {
		if _, seen := index[h]; !seen {
			index[h] = i
		}
	}

	dayIdx, ok := index[cols.DayLeft]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.DayLeft)
	}

	known := map[int]bool{dayIdx: true}
	lookup := func(name string) int {
		if i, ok := index[name]; ok {
			known[i] = true
			return i
		}
		return -1
	}
	nameIdx := lookup(cols.Name)
	catIdx := lookup(cols.Category)
	locIdx := lookup(cols.Location)
	drugIdx := lookup(cols.Drug)

	var extra []int
	var extraHeaders []string
	for i, h := range header {
		if known[i] {
			continue
		}
		extra = append(extra, i)
		extraHeaders = append(extraHeaders, h)
	}

	boxes := make([]*domain.Box, 0, len(records)-1)
	for _, row := range records[1:] {
		b := &domain.Box{
			Name:     cell(row, nameIdx),
			Category: cell(row, catIdx),
			Location: cell(row, locIdx),
			Drug:     cell(row, drugIdx),
			Extra:    make(map[string]string, len(extra)),
		}
		if dayIdx < len(row) {
			b.DayLeft = CleanDayLeft(row[dayIdx])
		}
		for j, i := range extra {
			b.Extra[extraHeaders[j]] = cell(row, i)
		}
		boxes = append(boxes, b)
	}

	return &Sheet{ExtraHeaders: extraHeaders, Boxes: boxes}, nil
}

var dayLeftStripper = strings.NewReplacer(",", "", `"`, "")

// CleanDayLeft strips thousands separators and quotes, then truncates the
// number toward zero. Anything that is not a number yields 0.
func CleanDayLeft(raw string) int {
	s := strings.TrimSpace(dayLeftStripper.Replace(raw))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return int(d.IntPart())
}

// skipBOM drops the UTF-8 byte order mark spreadsheet exports sometimes prepend.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(3)
	}
	return br
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// naTokens are the cell values spreadsheet exports use for "no value".
// They match exactly; padded variants are kept as text.
var naTokens = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) || naTokens[row[i]] {
		return domain.Unspecified
	}
	return row[i]
}

// normalizeHeader trims header cells and makes duplicate names unique by
// suffixing ".1", ".2", ... A name already taken is suffixed again, so
// "Note,Note.1,Note" yields "Note,Note.1,Note.1.1".
func normalizeHeader(raw []string) []string {
	out := make([]string, len(raw))
	counts := make(map[string]int, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		n := counts[h]
		for n > 0 {
			counts[h] = n + 1
			h = fmt.Sprintf("%s.%d", h, n)
			n = counts[h]
		}
		counts[h] = n + 1
		out[i] = h
	}
	return out
}
