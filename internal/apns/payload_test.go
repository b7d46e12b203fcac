package apns

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagebeat/workshop-notifier/internal/model"
)

func TestBuildPayload(t *testing.T) {
	d := model.Dispatch{
		UserID:     "u1",
		ArtistID:   "a1",
		WorkshopID: "w1",
		Type:       model.TypePriceDrop,
	}
	title, body := TemplateFor(d.Type)

	raw, err := BuildPayload(d, title, body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	aps := decoded["aps"].(map[string]interface{})
	alert := aps["alert"].(map[string]interface{})
	assert.Equal(t, title, alert["title"])
	assert.Equal(t, body, alert["body"])
	assert.Equal(t, "default", aps["sound"])
	assert.Equal(t, float64(1), aps["badge"])
	assert.Equal(t, float64(1), aps["mutable-content"])

	assert.Equal(t, "a1", decoded["artist_id"])
	assert.Equal(t, "w1", decoded["workshop_id"])
	assert.Equal(t, model.TypePriceDrop, decoded["type"])
}

func TestTemplateFor(t *testing.T) {
	for _, typ := range []string{
		model.TypeNewWorkshop,
		model.TypeScheduleChange,
		model.TypePriceDrop,
		model.TypeReopened,
		model.TypeReminder24h,
	} {
		title, body := TemplateFor(typ)
		assert.NotEmpty(t, title, typ)
		assert.NotEmpty(t, body, typ)
	}

	// Unknown types get the generic template rather than an empty alert.
	title, body := TemplateFor("mystery_type")
	assert.Equal(t, genericTemplate.title, title)
	assert.Equal(t, genericTemplate.body, body)
}
