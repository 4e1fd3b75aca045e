package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Store struct {
	ID             string          `gorm:"type:varchar(36);primarykey" json:"id"`            // 매장 ID
	BrandID        string          `gorm:"type:varchar(36);index" json:"brand_id"`           // 브랜드 ID
	Name           string          `gorm:"not null" json:"name"`                             // 매장명
	Address        string          `gorm:"type:text" json:"address"`                         // 매장 주소
	DeliveryFee    decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"delivery_fee"` // 배달비
	PrimaryColor   string          `gorm:"type:varchar(20)" json:"primary_color,omitempty"`
	SecondaryColor string          `gorm:"type:varchar(20)" json:"secondary_color,omitempty"`
	LogoURL        string          `json:"logo_url,omitempty"`
	IsOpen         bool            `gorm:"not null" json:"is_open"`
	IsActive       bool            `gorm:"not null" json:"is_active"`
	// 마지막으로 발급한 주문 번호
	LastOrderNumber int       `gorm:"not null;default:0" json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
