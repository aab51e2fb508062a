package dto

import "github.com/onoyima/project-exeat-sub001/internal/model"

// SaveDraftRequest is the body of PUT /drafts/me. Version is the version the
// client last read; zero creates a new draft.
type SaveDraftRequest struct {
	Version     int                    `json:"version" binding:"omitempty,min=0"`
	Application model.ExeatApplication `json:"application"`
}

// DraftResponse is a saved draft.
type DraftResponse struct {
	DraftID     string                 `json:"draft_id"`
	Version     int                    `json:"version"`
	Application model.ExeatApplication `json:"application"`
	// Problems lists what would block submission; drafts may be incomplete.
	Problems  []string `json:"problems,omitempty"`
	UpdatedAt string   `json:"updated_at"`
}
