package catalog

import "time"

type Collection struct {
	ID       int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name     string  `gorm:"type:text;not null" json:"name"`
	Overview *string `gorm:"type:text" json:"overview,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Collection) TableName() string { return "collections" }
