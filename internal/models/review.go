package models

import "time"

type Review struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID  int64  `json:"-" gorm:"not null;uniqueIndex:idx_reviews_author_title"`
	AuthorID string `json:"-" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_author_title"`
	Text     string `json:"text" gorm:"type:text;not null"`
	Score    int    `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`

	// PubDate is server-assigned at creation and immutable.
	PubDate time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// Associations
	Title  *Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE"`
	Author *User  `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (Review) TableName() string {
	return "reviews"
}
