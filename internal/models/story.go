package models

import "time"

// Story is a generated story owned by a single user. Rows are insert-only:
// there is no update or delete path once a story has been saved.
type Story struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string    `json:"user_id" gorm:"index;type:varchar(36)"`
	CharacterName string    `json:"character_name" gorm:"type:varchar(255)"`
	Theme         string    `json:"theme" gorm:"type:varchar(255)"`
	Genre         string    `json:"genre" gorm:"type:varchar(255)"`
	Location      string    `json:"location" gorm:"type:varchar(255)"`
	StoryText     string    `json:"story_text" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

// StorySummary is the listing projection of a story: everything except the
// generated text, which the listing endpoint never returns.
type StorySummary struct {
	ID            string    `json:"id"`
	CharacterName string    `json:"character_name"`
	Theme         string    `json:"theme"`
	Genre         string    `json:"genre"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"created_at"`
}
