package notify

import (
	"time"

	"travelhub/pkg/models"
)

const ContentRefreshType = "content.refresh"

// RefreshEvent tells listeners that upstream content changed. Post names
// the newest post at refresh time, when one exists.
type RefreshEvent struct {
	Type string          `json:"type"` // "content.refresh"
	Post *models.PostRef `json:"post,omitempty"`
	At   time.Time       `json:"at"`
}

func NewRefreshEvent(post *models.PostRef) RefreshEvent {
	return RefreshEvent{
		Type: ContentRefreshType,
		Post: post,
		At:   time.Now().UTC(),
	}
}
