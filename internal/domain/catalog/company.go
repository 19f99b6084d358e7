package catalog

import "time"

// Company ownership forms a self-referential chain via ParentCompanyID. The
// upstream feed does not guarantee the chain is acyclic; the resolver bounds
// its walk rather than trusting this field.
type Company struct {
	ID              int64   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ParentCompanyID *int64  `gorm:"index" json:"parent_company_id,omitempty"`
	Name            string  `gorm:"type:text;not null" json:"name"`
	Description     *string `gorm:"type:text" json:"description,omitempty"`
	CountryID       *string `gorm:"type:varchar(2);index" json:"country_id,omitempty"`
	Headquarters    *string `gorm:"type:text" json:"headquarters,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Company) TableName() string { return "companies" }
