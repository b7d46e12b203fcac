package significance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stagebeat/workshop-notifier/internal/errors"
	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/store"
)

var (
	entriesA = []model.TimeEntry{{Year: 2026, Month: 10, Day: 3, StartTime: "18:00", EndTime: "20:00"}}
	entriesB = []model.TimeEntry{{Year: 2026, Month: 10, Day: 4, StartTime: "18:00", EndTime: "20:00"}}
)

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		prev *model.HistoryRecord
		cur  *model.Workshop
		want string
	}{
		{
			name: "schedule change",
			prev: &model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "800"},
			cur:  &model.Workshop{TimeEntries: entriesB, PricingInfo: "800"},
			want: model.TypeScheduleChange,
		},
		{
			name: "schedule change wins over price drop",
			prev: &model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "800"},
			cur:  &model.Workshop{TimeEntries: entriesB, PricingInfo: "500"},
			want: model.TypeScheduleChange,
		},
		{
			name: "price drop",
			prev: &model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "₹800/- per head"},
			cur:  &model.Workshop{TimeEntries: entriesA, PricingInfo: "₹500/- per head"},
			want: model.TypePriceDrop,
		},
		{
			name: "price increase is not significant",
			prev: &model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "500"},
			cur:  &model.Workshop{TimeEntries: entriesA, PricingInfo: "800"},
			want: "",
		},
		{
			name: "unparseable pricing cannot compare",
			prev: &model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "free entry"},
			cur:  &model.Workshop{TimeEntries: entriesA, PricingInfo: "donation based"},
			want: "",
		},
		{
			name: "reopened",
			prev: &model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "800", SoldOut: true},
			cur:  &model.Workshop{TimeEntries: entriesA, PricingInfo: "800", SoldOut: false},
			want: model.TypeReopened,
		},
		{
			name: "newly sold out is not significant",
			prev: &model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "800", SoldOut: false},
			cur:  &model.Workshop{TimeEntries: entriesA, PricingInfo: "800", SoldOut: true},
			want: "",
		},
		{
			name: "no change",
			prev: &model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "800"},
			cur:  &model.Workshop{TimeEntries: entriesA, PricingInfo: "800"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.prev, tt.cur))
		})
	}
}

func TestEvaluator_Classify_NoHistory(t *testing.T) {
	history := store.NewMockHistoryStorage(t)
	history.On("MostRecent", mock.Anything, "w1").
		Return(nil, apperrors.NewNotFound("no history for workshop %s", "w1"))

	e := NewEvaluator(history)
	got, err := e.Classify(context.Background(), &model.Workshop{UUID: "w1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvaluator_Classify_UsesSnapshot(t *testing.T) {
	history := store.NewMockHistoryStorage(t)
	history.On("MostRecent", mock.Anything, "w1").
		Return(&model.HistoryRecord{TimeEntries: entriesA, PricingInfo: "800", SoldOut: true}, nil)

	e := NewEvaluator(history)
	got, err := e.Classify(context.Background(), &model.Workshop{
		UUID:        "w1",
		TimeEntries: entriesA,
		PricingInfo: "800",
		SoldOut:     false,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TypeReopened, got)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"800", 800, true},
		{"₹800/- per head", 800, true},
		{"1200.50 early bird", 1200.50, true},
		{"free entry", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
