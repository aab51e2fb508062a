package model

import "gorm.io/datatypes"

// ExeatDraft is an explicitly saved, unsubmitted application (table exeat_drafts).
type ExeatDraft struct {
	DraftID   string                               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"draft_id"`
	StudentID int64                                `gorm:"not null;index"                                 json:"student_id"`
	Payload   datatypes.JSONType[ExeatApplication] `gorm:"type:jsonb;not null"                            json:"payload"`
	Revision
}

// TableName sets the table name.
func (ExeatDraft) TableName() string { return "exeat_drafts" }
