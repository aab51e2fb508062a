package repository

import "gorm.io/gorm"

// Repository groups the portal's local stores. Exeat requests, debts and
// roles live in the exeat API, so only drafts are persisted here.
type Repository struct {
	Draft DraftRepository
}

// NewRepository creates the Repository aggregate.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Draft: NewDraftRepo(db),
	}
}
