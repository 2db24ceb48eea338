package models

import "time"

type Title struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"size:256;not null"`
	Year        int       `json:"year" gorm:"not null;check:year >= 0"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CategoryID  int64     `json:"category_id" gorm:"not null;index"`
	CreatedAt   time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// associations
	// Category deletion is blocked while titles reference it (RESTRICT).
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT;"`
	Genres   []Genre  `json:"genres,omitempty" gorm:"many2many:genre_title;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
