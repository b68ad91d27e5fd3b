package models

import "time"

type Title struct {
	ID          int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"not null;size:80"`
	Year        int    `json:"year" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`

	// Category delete is blocked while titles reference it.
	CategoryID int64     `json:"-" gorm:"not null;index"`
	Category   *Category `json:"category" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
	Genres     []Genre   `json:"genre" gorm:"many2many:title_genres"`

	// Rating is the mean review score, computed at read time and never
	// persisted. Nil when the title has no reviews.
	Rating *float64 `json:"rating" gorm:"-"`

	CreatedAt time.Time `json:"-"`
}

func (Title) TableName() string {
	return "titles"
}
