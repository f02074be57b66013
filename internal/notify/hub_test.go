package notify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelhub/pkg/models"
)

func TestHubStats(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.Stats().WSClients)

	// broadcasting to nobody must not panic
	hub.BroadcastJSON(NewRefreshEvent(nil))
}

func TestRefreshEvent(t *testing.T) {
	ref := &models.PostRef{ID: "7", TypeKey: "destination"}
	ev := NewRefreshEvent(ref)

	assert.Equal(t, ContentRefreshType, ev.Type)
	assert.False(t, ev.At.IsZero())

	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"content.refresh"`)
	assert.Contains(t, string(b), `"id":"7"`)
}

func TestRefreshEventWithoutPost(t *testing.T) {
	b, err := json.Marshal(NewRefreshEvent(nil))
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"post"`)
}
