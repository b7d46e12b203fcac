package significance

import (
	"context"
	"fmt"

	apperrors "github.com/stagebeat/workshop-notifier/internal/errors"
	"github.com/stagebeat/workshop-notifier/internal/model"
	"github.com/stagebeat/workshop-notifier/internal/store"
)

// Evaluator classifies a workshop update against the last-notified snapshot.
type Evaluator struct {
	history store.HistoryStorage
}

func NewEvaluator(history store.HistoryStorage) *Evaluator {
	return &Evaluator{history: history}
}

// Classify returns the notification type warranted by the workshop's current
// state, or "" when the change is not notify-worthy. A workshop with no
// notification history is never significant here: the first-ever
// notification flows through the insert path, not the update path.
func (e *Evaluator) Classify(ctx context.Context, w *model.Workshop) (string, error) {
	rec, err := e.history.MostRecent(ctx, w.UUID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("significance lookup: %w", err)
	}
	return Compare(rec, w), nil
}

// Compare applies the significance precedence order to a stored snapshot and
// the current workshop state. First match wins: schedule beats price beats
// availability.
func Compare(prev *model.HistoryRecord, cur *model.Workshop) string {
	if !model.SameSchedule(prev.TimeEntries, cur.TimeEntries) {
		return model.TypeScheduleChange
	}

	prevPrice, prevOK := ParsePrice(prev.PricingInfo)
	curPrice, curOK := ParsePrice(cur.PricingInfo)
	if prevOK && curOK && curPrice < prevPrice {
		return model.TypePriceDrop
	}

	if prev.SoldOut && !cur.SoldOut {
		return model.TypeReopened
	}

	return ""
}
