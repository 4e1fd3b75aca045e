package service

import (
	"time"

	"github.com/ikkim/web-ordering-backend/internal/app/ordering"
	"github.com/shopspring/decimal"
)

// SelectionView is the live state of a customization returned after every action.
type SelectionView struct {
	ID                 string                  `json:"id"`
	ProductID          string                  `json:"product_id"`
	ProductName        string                  `json:"product_name"`
	State              ordering.SelectionState `json:"state"`
	VariationID        *string                 `json:"variation_id"`
	Options            map[string][]string     `json:"options"`
	RemovedIngredients []string                `json:"removed_ingredients"`
	Note               string                  `json:"note"`
	Quantity           int                     `json:"quantity"`
	UnitPrice          decimal.Decimal         `json:"unit_price"`
	LineTotal          decimal.Decimal         `json:"line_total"`
	UnsatisfiedGroups  []string                `json:"unsatisfied_groups"`
	GroupStatuses      []ordering.GroupStatus  `json:"group_statuses"`
	CanConfirm         bool                    `json:"can_confirm"`
	ExpiresAt          time.Time               `json:"expires_at"`
}

func newSelectionView(id string, sel *ordering.Selection, expiresAt time.Time) *SelectionView {
	product := sel.Product()
	view := &SelectionView{
		ID:                 id,
		ProductID:          product.ID,
		ProductName:        product.Name,
		State:              sel.State(),
		Options:            sel.Options(),
		RemovedIngredients: sel.RemovedIngredients(),
		Note:               sel.Note(),
		Quantity:           sel.Quantity(),
		UnitPrice:          sel.UnitPrice(),
		LineTotal:          sel.LineTotal(),
		UnsatisfiedGroups:  sel.Validate(),
		GroupStatuses:      sel.GroupStatuses(),
		CanConfirm:         sel.CanConfirm(),
		ExpiresAt:          expiresAt,
	}
	if v := sel.Variation(); v != nil {
		view.VariationID = &v.ID
	}
	return view
}

type CartLineView struct {
	ordering.LineItem
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartView struct {
	Items     []CartLineView  `json:"items"`
	Lines     int             `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func newCartView(cart *ordering.Cart) *CartView {
	items := cart.Items()
	view := &CartView{
		Items:     make([]CartLineView, 0, len(items)),
		Lines:     len(items),
		ItemCount: cart.ItemCount(),
		Subtotal:  cart.Subtotal(),
	}
	for _, item := range items {
		view.Items = append(view.Items, CartLineView{LineItem: item, LineTotal: item.LineTotal()})
	}
	return view
}
