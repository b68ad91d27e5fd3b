package models

type Genre struct {
	ID   int64  `json:"-" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"not null;size:80"`
	Slug string `json:"slug" gorm:"uniqueIndex;not null;size:25"`
}

func (Genre) TableName() string {
	return "genres"
}
