package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Variation is a mutually exclusive size or tier. Its price replaces the
// product's base price.
type Variation struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OptionItem is one add-on inside an option group.
type OptionItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable *bool           `json:"is_available,omitempty"` // nil means available
}

// Available reports whether the item may be offered.
func (i OptionItem) Available() bool {
	return i.IsAvailable == nil || *i.IsAvailable
}

// OptionGroup carries the min/max selection constraints for its items.
// Max == 1 is an exclusive choice; Max > 1 allows repeated units up to Max.
type OptionGroup struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Min   int          `json:"min"`
	Max   int          `json:"max"`
	Items []OptionItem `json:"items"`
}

func (g OptionGroup) Exclusive() bool {
	return g.Max == 1
}

func (g OptionGroup) FindItem(itemID string) (*OptionItem, bool) {
	for i := range g.Items {
		if g.Items[i].ID == itemID {
			return &g.Items[i], true
		}
	}
	return nil, false
}

// Offered returns a copy of the group without unavailable items.
func (g OptionGroup) Offered() OptionGroup {
	items := make([]OptionItem, 0, len(g.Items))
	for _, item := range g.Items {
		if item.Available() {
			items = append(items, item)
		}
	}
	g.Items = items
	return g
}

// StringArray stores a string list as a JSON text column.
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringArray) Scan(value interface{}) error {
	return scanJSON(value, s)
}

type Variations []Variation

func (v Variations) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (v *Variations) Scan(value interface{}) error {
	return scanJSON(value, v)
}

type OptionGroups []OptionGroup

func (g OptionGroups) Value() (driver.Value, error) {
	if g == nil {
		return nil, nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (g *OptionGroups) Scan(value interface{}) error {
	return scanJSON(value, g)
}

// scanJSON decodes a JSON text/blob column into dest. NULL leaves dest untouched.
func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported JSON column type")
	}
}

type Category struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	BrandID   string    `gorm:"type:varchar(36);index" json:"brand_id"`
	Name      string    `gorm:"not null" json:"name"`
	ImageURL  string    `json:"image_url,omitempty"`
	Rank      int       `gorm:"default:0" json:"rank"`
	CreatedAt time.Time `json:"created_at"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}

func (Category) TableName() string {
	return "categories"
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Product struct {
	ID           string          `gorm:"type:varchar(36);primarykey" json:"id"`
	BrandID      string          `gorm:"type:varchar(36);index" json:"brand_id"`
	CategoryID   *string         `gorm:"type:varchar(36);index" json:"category_id,omitempty"`
	Name         string          `gorm:"not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL     string          `json:"image_url"`
	Ingredients  StringArray     `gorm:"type:text" json:"ingredients"`
	Variations   Variations      `gorm:"type:text" json:"variations"`
	OptionGroups OptionGroups    `gorm:"column:options_config;type:text" json:"option_groups"`
	IsAvailable  bool            `gorm:"not null;index" json:"is_available"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) FindVariation(id string) (*Variation, bool) {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i], true
		}
	}
	return nil, false
}

func (p *Product) FindOptionGroup(id string) (*OptionGroup, bool) {
	for i := range p.OptionGroups {
		if p.OptionGroups[i].ID == id {
			return &p.OptionGroups[i], true
		}
	}
	return nil, false
}

// DefaultVariation returns the cheapest variation, first one on ties.
func (p *Product) DefaultVariation() (*Variation, bool) {
	if len(p.Variations) == 0 {
		return nil, false
	}
	cheapest := &p.Variations[0]
	for i := 1; i < len(p.Variations); i++ {
		if p.Variations[i].Price.LessThan(cheapest.Price) {
			cheapest = &p.Variations[i]
		}
	}
	return cheapest, true
}

// ForDisplay strips unavailable option items so they are never offered.
func (p Product) ForDisplay() Product {
	if len(p.OptionGroups) == 0 {
		return p
	}
	groups := make(OptionGroups, len(p.OptionGroups))
	for i, g := range p.OptionGroups {
		groups[i] = g.Offered()
	}
	p.OptionGroups = groups
	return p
}
