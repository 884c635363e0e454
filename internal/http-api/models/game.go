package models

import "time"

type Game struct {
	ID              int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug            string     `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Name            string     `json:"name" gorm:"not null;index"`
	Released        *time.Time `json:"released,omitempty"`
	Rating          *float64   `json:"rating,omitempty" gorm:"type:decimal(4,2)"`
	RatingsCount    *int       `json:"ratings_count,omitempty"`
	Metacritic      *int       `json:"metacritic,omitempty"`
	Playtime        *int       `json:"playtime,omitempty"`
	BackgroundImage *string    `json:"background_image,omitempty"`
	ClipURL         *string    `json:"clip_url,omitempty"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// associations
	Genres    []Genre    `json:"genres,omitempty" gorm:"many2many:game_genres;constraint:OnDelete:CASCADE;"`
	Platforms []Platform `json:"platforms,omitempty" gorm:"many2many:game_platforms;constraint:OnDelete:CASCADE;"`
	Stores    []Store    `json:"stores,omitempty" gorm:"many2many:game_stores;constraint:OnDelete:CASCADE;"`
	Tags      []Tag      `json:"tags,omitempty" gorm:"many2many:game_tags;constraint:OnDelete:CASCADE;"`
}

func (Game) TableName() string {
	return "games"
}
