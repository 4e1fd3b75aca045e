package ordering

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

type ServiceMode string

const (
	ModeDineIn   ServiceMode = "dine_in"
	ModeTakeaway ServiceMode = "takeaway"
	ModeDelivery ServiceMode = "delivery"
)

// NoDeliveryAddress is sent as the address of dine-in and takeaway orders.
const NoDeliveryAddress = "N/A"

var (
	ErrEmptyCart       = errors.New("your cart is empty")
	ErrInvalidMode     = errors.New("please choose dine-in, takeaway or delivery")
	ErrNameRequired    = errors.New("please enter your name")
	ErrPhoneRequired   = errors.New("please enter your phone number")
	ErrAddressRequired = errors.New("please enter a delivery address")
)

// ParseServiceMode accepts the canonical mode names plus "pickup" for takeaway.
func ParseServiceMode(raw string) (ServiceMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(ModeDineIn):
		return ModeDineIn, nil
	case string(ModeTakeaway), "pickup":
		return ModeTakeaway, nil
	case string(ModeDelivery):
		return ModeDelivery, nil
	default:
		return "", ErrInvalidMode
	}
}

type CustomerDetails struct {
	Mode    ServiceMode
	Name    string
	Phone   string
	Address string
	Notes   string
	// SessionID identifies the guest session placing the order.
	SessionID string
}

type StoreSettings struct {
	StoreID     string
	DeliveryFee decimal.Decimal
}

type OrderLine struct {
	ProductID   string                 `json:"product_id"`
	ProductName string                 `json:"product_name"`
	Quantity    int                    `json:"quantity"`
	UnitPrice   decimal.Decimal        `json:"unit_price"`
	TotalPrice  decimal.Decimal        `json:"total_price"`
	Details     model.OrderItemDetails `json:"details"`
}

// OrderSubmission is the payload handed to the order-creation backend.
type OrderSubmission struct {
	StoreID         string          `json:"store_id"`
	SessionID       string          `json:"session_id,omitempty"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	DeliveryAddress string          `json:"delivery_address"`
	Mode            ServiceMode     `json:"order_type"`
	Notes           string          `json:"notes"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee_applied"`
	Total           decimal.Decimal `json:"total_amount"`
	Items           []OrderLine     `json:"items"`
}

type OrderReceipt struct {
	OrderID     string          `json:"order_id"`
	OrderNumber int             `json:"order_number"`
	Total       decimal.Decimal `json:"total_amount"`
}

// OrderGateway creates orders in the backing order service.
type OrderGateway interface {
	CreateOrder(ctx context.Context, submission OrderSubmission) (*OrderReceipt, error)
}

// SubmissionError wraps a gateway failure. Its message is the gateway's
// message unchanged.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return e.Err.Error()
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// BuildSubmission validates the checkout form and serializes the cart lines.
func BuildSubmission(items []LineItem, details CustomerDetails, store StoreSettings) (OrderSubmission, error) {
	if len(items) == 0 {
		return OrderSubmission{}, ErrEmptyCart
	}
	switch details.Mode {
	case ModeDineIn, ModeTakeaway, ModeDelivery:
	default:
		return OrderSubmission{}, ErrInvalidMode
	}

	name := strings.TrimSpace(details.Name)
	phone := strings.TrimSpace(details.Phone)
	address := strings.TrimSpace(details.Address)
	if name == "" {
		return OrderSubmission{}, ErrNameRequired
	}
	if phone == "" {
		return OrderSubmission{}, ErrPhoneRequired
	}

	fee := decimal.Zero
	if details.Mode == ModeDelivery {
		if address == "" {
			return OrderSubmission{}, ErrAddressRequired
		}
		fee = store.DeliveryFee
	} else {
		address = NoDeliveryAddress
	}

	sub := OrderSubmission{
		StoreID:         store.StoreID,
		SessionID:       details.SessionID,
		CustomerName:    name,
		CustomerPhone:   phone,
		DeliveryAddress: address,
		Mode:            details.Mode,
		Notes:           strings.TrimSpace(details.Notes),
		Subtotal:        decimal.Zero,
		DeliveryFee:     fee,
		Items:           make([]OrderLine, 0, len(items)),
	}
	for _, item := range items {
		line := OrderLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.LineTotal(),
			Details:     lineDetails(item.FinalizedSelection),
		}
		sub.Subtotal = sub.Subtotal.Add(line.TotalPrice)
		sub.Items = append(sub.Items, line)
	}
	sub.Total = sub.Subtotal.Add(fee)
	return sub, nil
}

// lineDetails flattens the group -> units map into ordered groups with one
// entry per distinct item and a unit count.
func lineDetails(sel FinalizedSelection) model.OrderItemDetails {
	details := model.OrderItemDetails{
		RemovedIngredients: sel.RemovedIngredients,
		Note:               sel.Note,
	}
	if sel.Variation != nil {
		details.Variation = &model.SelectedVariation{
			ID:    sel.Variation.ID,
			Name:  sel.Variation.Name,
			Price: sel.Variation.Price,
		}
	}

	groupIDs := make([]string, 0, len(sel.Options))
	for id, group := range sel.Options {
		if len(group.Units) > 0 {
			groupIDs = append(groupIDs, id)
		}
	}
	sort.Slice(groupIDs, func(i, j int) bool {
		a, b := sel.Options[groupIDs[i]], sel.Options[groupIDs[j]]
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return groupIDs[i] < groupIDs[j]
	})

	for _, id := range groupIDs {
		group := sel.Options[id]
		selected := model.SelectedOptionGroup{GroupID: id, GroupName: group.Name}
		position := make(map[string]int)
		for _, unit := range group.Units {
			if idx, ok := position[unit.ID]; ok {
				selected.Items[idx].Quantity++
				continue
			}
			position[unit.ID] = len(selected.Items)
			selected.Items = append(selected.Items, model.SelectedOption{
				ID:       unit.ID,
				Name:     unit.Name,
				Price:    unit.Price,
				Quantity: 1,
			})
		}
		details.OptionGroups = append(details.OptionGroups, selected)
	}
	return details
}

// Submit sends the cart to gateway. On success the cart is cleared; on
// failure it is left untouched and a *SubmissionError is returned. A receipt
// with a non-nil error means the order exists but the cart could not be
// cleared.
func Submit(ctx context.Context, cart *Cart, gateway OrderGateway, details CustomerDetails, store StoreSettings) (*OrderReceipt, error) {
	sub, err := BuildSubmission(cart.Items(), details, store)
	if err != nil {
		return nil, err
	}

	receipt, err := gateway.CreateOrder(ctx, sub)
	if err != nil {
		return nil, &SubmissionError{Err: err}
	}
	if receipt == nil {
		receipt = &OrderReceipt{}
	}
	if receipt.Total.IsZero() {
		receipt.Total = sub.Total
	}

	if err := cart.Clear(); err != nil {
		return receipt, fmt.Errorf("order placed but cart not cleared: %w", err)
	}
	return receipt, nil
}
