package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		dayLeft int
		want    Status
	}{
		{-365, StatusExpired},
		{-1, StatusExpired},
		{0, StatusExpiringSoon},
		{45, StatusExpiringSoon},
		{90, StatusExpiringSoon},
		{91, StatusOK},
		{1000, StatusOK},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.dayLeft), "dayLeft=%d", tt.dayLeft)
	}
}

func TestClassifyAlwaysKnownStatus(t *testing.T) {
	for d := -200; d <= 200; d++ {
		assert.Contains(t, Statuses, Classify(d))
	}
}

func TestBoxStatusFollowsDayLeft(t *testing.T) {
	b := &Box{DayLeft: 120}
	assert.Equal(t, StatusOK, b.Status())

	b.DayLeft = -3
	assert.Equal(t, StatusExpired, b.Status())
	assert.Equal(t, "Expired", b.Value(FieldStatus))
}

func TestBoxValue(t *testing.T) {
	b := &Box{Name: "Box 1", Category: "ER", Location: "Ward 3", Drug: "Adrenaline"}

	assert.Equal(t, "Box 1", b.Value(FieldBox))
	assert.Equal(t, "ER", b.Value(FieldCategory))
	assert.Equal(t, "Ward 3", b.Value(FieldLocation))
	assert.Equal(t, "Adrenaline", b.Value(FieldDrug))
	assert.Empty(t, b.Value(Field("unknown")))
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus("ExpiringSoon")
	assert.True(t, ok)
	assert.Equal(t, StatusExpiringSoon, st)

	st, ok = ParseStatus("Expired (หมดอายุ)")
	assert.True(t, ok)
	assert.Equal(t, StatusExpired, st)

	_, ok = ParseStatus("Gone")
	assert.False(t, ok)
}

func TestStatusPresentation(t *testing.T) {
	assert.Equal(t, "#FF4B4B", StatusExpired.ChartColor())
	assert.Equal(t, "#ffebcc", StatusExpiringSoon.RowColor())
	assert.Empty(t, StatusOK.RowColor())
	assert.Less(t, StatusExpired.Rank(), StatusOK.Rank())
}
