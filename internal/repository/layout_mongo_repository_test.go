package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

const mongoTestPayload = `{
  "scope_id": "product:42",
  "sections": [
    {
      "id": "hero-1",
      "kind": "hero",
      "is_active": true,
      "settings": {"heading": "<b>Sale</b> & more", "overlay_opacity": 40, "ratio": 0.75, "big": 9007199254740991},
      "style": {"paddingTop": 24, "mobile": {"paddingTop": "8px"}}
    },
    {
      "id": "grid-1",
      "kind": "new_arrivals",
      "is_active": false,
      "settings": {"tags": ["new", "sale"], "empty": [], "collection_id": null}
    }
  ]
}`

func TestMongoPayloadRoundTrip(t *testing.T) {
	raw, err := payloadToBSON([]byte(mongoTestPayload))
	require.NoError(t, err)

	sections, err := raw.LookupErr("sections")
	require.NoError(t, err)
	assert.Equal(t, bson.TypeArray, sections.Type, "payload is stored as an embedded document, not a string")

	back, err := payloadFromBSON(raw)
	require.NoError(t, err)

	var want, got interface{}
	require.NoError(t, json.Unmarshal([]byte(mongoTestPayload), &want))
	require.NoError(t, json.Unmarshal(back, &got))
	assert.Equal(t, want, got)
}

func TestMongoPayloadKeepsKeyOrder(t *testing.T) {
	raw, err := payloadToBSON([]byte(`{"scope_id": "global", "sections": [{"id": "b", "kind": "hero"}, {"id": "a", "kind": "videos"}]}`))
	require.NoError(t, err)

	elements, err := raw.Elements()
	require.NoError(t, err)
	require.Len(t, elements, 2)
	assert.Equal(t, "scope_id", elements[0].Key())
	assert.Equal(t, "sections", elements[1].Key())

	back, err := payloadFromBSON(raw)
	require.NoError(t, err)

	var doc struct {
		Sections []struct {
			ID string `json:"id"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(back, &doc))
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "b", doc.Sections[0].ID)
	assert.Equal(t, "a", doc.Sections[1].ID)
}

func TestMongoPayloadRejectsInvalidJSON(t *testing.T) {
	_, err := payloadToBSON([]byte(`{not json`))
	assert.Error(t, err)
}
