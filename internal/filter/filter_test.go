package filter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/drugbox/internal/domain"
)

func testBoxes() []*domain.Box {
	return []*domain.Box{
		{Name: "B1", Category: "A", Location: "ER", Drug: "Adrenaline", DayLeft: -5},
		{Name: "B2", Category: "A", Location: "Ward 1", Drug: "Atropine", DayLeft: 30},
		{Name: "B3", Category: "B", Location: "ER", Drug: "Adrenaline", DayLeft: 200},
	}
}

func names(boxes []*domain.Box) []string {
	out := make([]string, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, b.Name)
	}
	return out
}

func TestApplyEmptySelectionIsIdentity(t *testing.T) {
	boxes := testBoxes()

	got, err := Apply(boxes, Selection{})
	require.NoError(t, err)
	assert.Equal(t, boxes, got)
}

func TestApplyCategoryPreservesOrder(t *testing.T) {
	got, err := Apply(testBoxes(), Selection{Category: []string{"A"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B2"}, names(got))
}

func TestApplyIsIdempotent(t *testing.T) {
	sel := Selection{Location: []string{"ER"}, Drug: []string{"Adrenaline"}}

	once, err := Apply(testBoxes(), sel)
	require.NoError(t, err)
	twice, err := Apply(once, sel)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, []string{"B1", "B3"}, names(twice))
}

func TestApplyFieldsCombineWithAnd(t *testing.T) {
	got, err := Apply(testBoxes(), Selection{
		Category: []string{"A", "B"},
		Location: []string{"ER"},
		Status:   []string{"OK"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"B3"}, names(got))
}

func TestApplyStatusAcceptsLabel(t *testing.T) {
	got, err := Apply(testBoxes(), Selection{Status: []string{"Expired (หมดอายุ)", "ExpiringSoon"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B2"}, names(got))
}

func TestApplyByBoxName(t *testing.T) {
	got, err := Apply(testBoxes(), Selection{Box: []string{"B2", "missing"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, names(got))
}

func TestApplyNoMatch(t *testing.T) {
	got, err := Apply(testBoxes(), Selection{Category: []string{"Z"}})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	boxes := testBoxes()
	before := names(boxes)

	_, err := Apply(boxes, Selection{Category: []string{"B"}})
	require.NoError(t, err)
	assert.Equal(t, before, names(boxes))
}

func TestApplyWhereExpression(t *testing.T) {
	got, err := Apply(testBoxes(), Selection{Where: `DayLeft < 100 && Location == "ER"`})
	require.NoError(t, err)
	assert.Equal(t, []string{"B1"}, names(got))

	got, err = Apply(testBoxes(), Selection{Category: []string{"A"}, Where: `Status == "ExpiringSoon"`})
	require.NoError(t, err)
	assert.Equal(t, []string{"B2"}, names(got))
}

func TestCompileInvalidExpression(t *testing.T) {
	_, err := Compile(Selection{Where: "DayLeft <"})
	assert.ErrorIs(t, err, ErrInvalidExpression)

	_, err = Compile(Selection{Where: "Unknown > 3"})
	assert.ErrorIs(t, err, ErrInvalidExpression)

	_, err = Compile(Selection{Where: "DayLeft + 1"})
	assert.ErrorIs(t, err, ErrInvalidExpression)
}

func TestSelectionIsEmpty(t *testing.T) {
	assert.True(t, Selection{}.IsEmpty())
	assert.True(t, Selection{Where: "  "}.IsEmpty())
	assert.False(t, Selection{Drug: []string{"x"}}.IsEmpty())
	assert.False(t, Selection{Where: "DayLeft > 0"}.IsEmpty())
}

func TestFromQuery(t *testing.T) {
	q := url.Values{
		"category": {"A", " ", "B"},
		"location": {"ER"},
		"status":   {"OK"},
		"drug":     {""},
		"box":      {"B1"},
		"where":    {" DayLeft > 0 "},
	}

	sel := FromQuery(q)
	assert.Equal(t, []string{"A", "B"}, sel.Category)
	assert.Equal(t, []string{"ER"}, sel.Location)
	assert.Equal(t, []string{"OK"}, sel.Status)
	assert.Empty(t, sel.Drug)
	assert.Equal(t, []string{"B1"}, sel.Box)
	assert.Equal(t, "DayLeft > 0", sel.Where)
}

func TestOptions(t *testing.T) {
	opts := Options(testBoxes())

	assert.Equal(t, []string{"A", "B"}, opts[domain.FieldCategory])
	assert.Equal(t, []string{"ER", "Ward 1"}, opts[domain.FieldLocation])
	assert.Equal(t, []string{"Expired", "ExpiringSoon", "OK"}, opts[domain.FieldStatus])
	assert.Equal(t, []string{"Adrenaline", "Atropine"}, opts[domain.FieldDrug])
	assert.Equal(t, []string{"B1", "B2", "B3"}, opts[domain.FieldBox])
}

func TestOptionsEmpty(t *testing.T) {
	opts := Options(nil)
	for _, f := range domain.Fields {
		assert.Empty(t, opts[f])
	}
}
