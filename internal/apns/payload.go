package apns

import (
	"encoding/json"

	"github.com/stagebeat/workshop-notifier/internal/model"
)

type alert struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type aps struct {
	Alert          alert  `json:"alert"`
	Sound          string `json:"sound"`
	Badge          int    `json:"badge"`
	MutableContent int    `json:"mutable-content"`
}

type payload struct {
	APS        aps    `json:"aps"`
	ArtistID   string `json:"artist_id"`
	WorkshopID string `json:"workshop_id"`
	Type       string `json:"type"`
}

type template struct {
	title string
	body  string
}

var templates = map[string]template{
	model.TypeNewWorkshop: {
		title: "New workshop!",
		body:  "An artist you follow just announced a new workshop.",
	},
	model.TypeScheduleChange: {
		title: "Schedule changed",
		body:  "A workshop you're interested in has updated timings.",
	},
	model.TypePriceDrop: {
		title: "Price drop",
		body:  "A workshop you're interested in just got cheaper.",
	},
	model.TypeReopened: {
		title: "Spots reopened",
		body:  "A sold-out workshop you're interested in has spots again.",
	},
	model.TypeReminder24h: {
		title: "Workshop tomorrow",
		body:  "A workshop by an artist you follow is happening tomorrow.",
	},
}

var genericTemplate = template{
	title: "Workshop update",
	body:  "There's an update to a workshop you're following.",
}

// TemplateFor returns the fixed title and body for a notification type.
// Unknown types fall back to the generic template.
func TemplateFor(notifType string) (title, body string) {
	t, ok := templates[notifType]
	if !ok {
		t = genericTemplate
	}
	return t.title, t.body
}

// BuildPayload renders the APNs JSON body for a dispatch.
func BuildPayload(d model.Dispatch, title, body string) ([]byte, error) {
	return json.Marshal(payload{
		APS: aps{
			Alert:          alert{Title: title, Body: body},
			Sound:          "default",
			Badge:          1,
			MutableContent: 1,
		},
		ArtistID:   d.ArtistID,
		WorkshopID: d.WorkshopID,
		Type:       d.Type,
	})
}
