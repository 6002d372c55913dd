package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string         `gorm:"column:name;not null" json:"name"`
	Slug      string         `gorm:"column:slug;uniqueIndex" json:"slug"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Category) TableName() string { return "category" }

type Product struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CategoryID     *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category       *Category      `gorm:"constraint:OnDelete:SET NULL;foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	Description    string         `gorm:"column:description" json:"description"`
	PriceCZK       *float64       `gorm:"column:price_czk" json:"price_czk,omitempty"`
	Active         bool           `gorm:"column:active;not null;default:true" json:"active"`
	SeoTitle       *string        `gorm:"column:seo_title" json:"seo_title,omitempty"`
	SeoDescription *string        `gorm:"column:seo_description" json:"seo_description,omitempty"`
	SeoKeywords    *string        `gorm:"column:seo_keywords" json:"seo_keywords,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Product) TableName() string { return "product" }
