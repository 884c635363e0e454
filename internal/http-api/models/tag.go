package models

type Tag struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Name string `json:"name" gorm:"not null"`
}

func (Tag) TableName() string {
	return "tags"
}
