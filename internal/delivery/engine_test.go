package delivery

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/store"
)

// fakePusher records pushes and fails on demand.
type fakePusher struct {
	err    error
	pushed []string
}

func (f *fakePusher) Push(_ context.Context, deviceToken string, _ []byte) error {
	f.pushed = append(f.pushed, deviceToken)
	return f.err
}

func iosToken(user, token string) model.DeviceToken {
	return model.DeviceToken{UserID: user, Token: token, Platform: model.PlatformIOS, Active: true}
}

var testDispatch = model.Dispatch{
	UserID:     "u1",
	ArtistID:   "a1",
	WorkshopID: "w1",
	Type:       model.TypeNewWorkshop,
}

var testWorkshop = &model.Workshop{
	UUID:        "w1",
	ArtistIDs:   []string{"a1"},
	TimeEntries: []model.TimeEntry{{Year: 2026, Month: 9, Day: 20, StartTime: "18:00"}},
	PricingInfo: "₹800",
	SoldOut:     false,
}

func TestEngine_Deliver_Success(t *testing.T) {
	devices := store.NewMockDeviceStorage(t)
	history := store.NewMockHistoryStorage(t)
	pusher := &fakePusher{}

	devices.On("ActiveTokens", mock.Anything, "u1").
		Return([]model.DeviceToken{iosToken("u1", "tok1")}, nil)
	history.On("Insert", mock.Anything, mock.MatchedBy(func(rec *model.HistoryRecord) bool {
		return rec.UserID == "u1" &&
			rec.WorkshopID == "w1" &&
			rec.ArtistID == "a1" &&
			rec.Type == model.TypeNewWorkshop &&
			rec.PricingInfo == "₹800" &&
			len(rec.TimeEntries) == 1
	})).Return(nil)

	e := NewEngine(devices, history, pusher, nil, slog.Default())
	err := e.Deliver(context.Background(), testDispatch, testWorkshop)
	require.NoError(t, err)
	assert.Equal(t, []string{"tok1"}, pusher.pushed)
}

func TestEngine_Deliver_FailureDeactivatesToken(t *testing.T) {
	devices := store.NewMockDeviceStorage(t)
	history := store.NewMockHistoryStorage(t)
	pusher := &fakePusher{err: assert.AnError}

	devices.On("ActiveTokens", mock.Anything, "u1").
		Return([]model.DeviceToken{iosToken("u1", "tok1")}, nil)
	devices.On("Deactivate", mock.Anything, "tok1").Return(nil)
	// No history.Insert expectation: a failed push must leave no ledger row.

	e := NewEngine(devices, history, pusher, nil, slog.Default())
	err := e.Deliver(context.Background(), testDispatch, testWorkshop)
	require.NoError(t, err)
	history.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestEngine_Deliver_NoTokensIsNoOp(t *testing.T) {
	devices := store.NewMockDeviceStorage(t)
	history := store.NewMockHistoryStorage(t)
	pusher := &fakePusher{}

	devices.On("ActiveTokens", mock.Anything, "u1").Return([]model.DeviceToken{}, nil)

	e := NewEngine(devices, history, pusher, nil, slog.Default())
	err := e.Deliver(context.Background(), testDispatch, testWorkshop)
	require.NoError(t, err)
	assert.Empty(t, pusher.pushed)
}

func TestEngine_Deliver_AndroidIsLogOnly(t *testing.T) {
	devices := store.NewMockDeviceStorage(t)
	history := store.NewMockHistoryStorage(t)
	pusher := &fakePusher{}

	devices.On("ActiveTokens", mock.Anything, "u1").
		Return([]model.DeviceToken{
			{UserID: "u1", Token: "droid1", Platform: model.PlatformAndroid, Active: true},
		}, nil)

	e := NewEngine(devices, history, pusher, nil, slog.Default())
	err := e.Deliver(context.Background(), testDispatch, testWorkshop)
	require.NoError(t, err)
	assert.Empty(t, pusher.pushed)
	history.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// outcomeRecorder captures published outcome events.
type outcomeRecorder struct {
	events []model.DeliveryOutcome
}

func (o *outcomeRecorder) Publish(_ context.Context, outcome model.DeliveryOutcome) error {
	o.events = append(o.events, outcome)
	return nil
}

func TestEngine_Deliver_PublishesOutcomes(t *testing.T) {
	devices := store.NewMockDeviceStorage(t)
	history := store.NewMockHistoryStorage(t)
	pusher := &fakePusher{}
	outcomes := &outcomeRecorder{}

	devices.On("ActiveTokens", mock.Anything, "u1").
		Return([]model.DeviceToken{iosToken("u1", "tok1")}, nil)
	history.On("Insert", mock.Anything, mock.Anything).Return(nil)

	e := NewEngine(devices, history, pusher, outcomes, slog.Default())
	require.NoError(t, e.Deliver(context.Background(), testDispatch, testWorkshop))

	require.Len(t, outcomes.events, 1)
	assert.Equal(t, model.OutcomeSent, outcomes.events[0].Status)
	assert.Equal(t, "u1", outcomes.events[0].UserID)
}
