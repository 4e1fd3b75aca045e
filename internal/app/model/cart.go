package model

import (
	"time"
)

// CartSession holds the serialized cart of one guest session. The state
// column is the JSON encoding of the cart line items.
type CartSession struct {
	SessionID string    `gorm:"type:varchar(36);primarykey" json:"session_id"`
	State     string    `gorm:"type:text;not null" json:"state"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartSession) TableName() string {
	return "cart_sessions"
}
