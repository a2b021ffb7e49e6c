package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is shared by all users and identified by (Name, Type).
type Category struct {
	ID   uuid.UUID       `json:"id" gorm:"size:36;primaryKey"`
	Name string          `json:"name" gorm:"size:100;not null;uniqueIndex:idx_categories_name_type,priority:1"`
	Type TransactionType `json:"type" gorm:"size:16;not null;uniqueIndex:idx_categories_name_type,priority:2"`
}

// BeforeCreate assigns a random ID when none was set.
func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
