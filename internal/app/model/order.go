package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string // 주문 상태 코드
type OrderType string   // 주문 유형

const (
	OrderStatusPending   OrderStatus = "pending"   // 주문 접수
	OrderStatusPreparing OrderStatus = "preparing" // 조리 중
	OrderStatusReady     OrderStatus = "ready"     // 준비 완료
	OrderStatusDelivered OrderStatus = "delivered" // 전달 완료
	OrderStatusCancelled OrderStatus = "cancelled" // 주문 취소

	OrderTypeDineIn   OrderType = "dine_in"  // 매장 식사
	OrderTypeTakeaway OrderType = "takeaway" // 포장
	OrderTypeDelivery OrderType = "delivery" // 배달

	OrderChannelWeb = "web"
)

type Order struct {
	ID                 string          `gorm:"type:varchar(36);primarykey" json:"id"`                                                   // 주문 ID
	StoreID            string          `gorm:"type:varchar(36);not null;uniqueIndex:idx_store_order_number,priority:1" json:"store_id"` // 매장 ID
	OrderNumber        int             `gorm:"not null;uniqueIndex:idx_store_order_number,priority:2" json:"order_number"`              // 매장별 주문 번호
	SessionID          string          `gorm:"type:varchar(36);index" json:"-"`                                                         // 주문한 게스트 세션
	Channel            string          `gorm:"type:varchar(20);default:'web'" json:"channel"`                                           // 주문 채널
	CustomerName       string          `gorm:"not null" json:"customer_name"`                                                           // 주문자명
	CustomerPhone      string          `gorm:"type:varchar(30);not null" json:"customer_phone"`                                         // 연락처
	DeliveryAddress    string          `gorm:"type:text" json:"delivery_address"`                                                       // 배달 주소
	OrderType          OrderType       `gorm:"type:varchar(20);not null" json:"order_type"`                                             // 주문 유형
	Notes              string          `gorm:"type:text" json:"notes,omitempty"`                                                        // 요청 사항
	DeliveryFeeApplied decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"delivery_fee_applied"`                                // 적용 배달비
	Subtotal           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`                                             // 상품 합계
	TotalAmount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`                                         // 총 결제 금액
	Status             OrderStatus     `gorm:"type:varchar(20);default:'pending'" json:"status"`                                        // 주문 상태
	CreatedAt          time.Time       `json:"created_at"`                                                                              // 생성 시각
	UpdatedAt          time.Time       `json:"updated_at"`                                                                              // 수정 시각

	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"order_items,omitempty"` // 주문 항목 목록
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type SelectedVariation struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type SelectedOption struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

type SelectedOptionGroup struct {
	GroupID   string           `json:"group_id"`
	GroupName string           `json:"group_name"`
	Items     []SelectedOption `json:"items"`
}

// OrderItemDetails is the customization snapshot stored with each order line.
type OrderItemDetails struct {
	Variation          *SelectedVariation    `json:"variation,omitempty"`
	OptionGroups       []SelectedOptionGroup `json:"option_groups,omitempty"`
	RemovedIngredients []string              `json:"removed_ingredients,omitempty"`
	Note               string                `json:"note,omitempty"`
}

func (d OrderItemDetails) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *OrderItemDetails) Scan(value interface{}) error {
	return scanJSON(value, d)
}

type OrderItem struct {
	ID          string           `gorm:"type:varchar(36);primarykey" json:"id"`           // 주문 항목 ID
	OrderID     string           `gorm:"type:varchar(36);not null;index" json:"order_id"` // 주문 ID
	ProductID   string           `gorm:"type:varchar(36);index" json:"product_id"`        // 상품 ID
	ProductName string           `gorm:"not null" json:"product_name"`                    // 상품명 스냅샷
	Quantity    int              `gorm:"not null" json:"quantity"`                        // 수량
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"unit_price"`   // 단가 (옵션 포함)
	TotalPrice  decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"total_price"`  // 합계
	Options     OrderItemDetails `gorm:"type:text" json:"options"`                        // 옵션 정보 스냅샷
	CreatedAt   time.Time        `json:"created_at"`                                      // 생성 시각
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
