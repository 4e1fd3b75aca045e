package ordering

import (
	"github.com/shopspring/decimal"
)

// ChosenOption is a variation or one unit of an option item, priced as it
// was when the selection was confirmed.
type ChosenOption struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// ChosenGroup holds the units chosen in one option group. Rank is the
// group's position on the product so serialization keeps menu order.
type ChosenGroup struct {
	Name  string         `json:"name"`
	Rank  int            `json:"rank"`
	Units []ChosenOption `json:"units"`
}

// FinalizedSelection is the output of a confirmed Selection.
type FinalizedSelection struct {
	ProductID          string                 `json:"product_id"`
	ProductName        string                 `json:"product_name"`
	ImageURL           string                 `json:"image_url,omitempty"`
	Variation          *ChosenOption          `json:"variation,omitempty"`
	Options            map[string]ChosenGroup `json:"options,omitempty"`
	RemovedIngredients []string               `json:"removed_ingredients,omitempty"`
	Note               string                 `json:"note,omitempty"`
	UnitPrice          decimal.Decimal        `json:"unit_price"`
	Quantity           int                    `json:"quantity"`
}

type LineItem struct {
	Key string `json:"key"`
	FinalizedSelection
}

func (i LineItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CartState is the persisted form of a cart. Items keep insertion order.
type CartState struct {
	Items []LineItem `json:"items"`
}

func (s CartState) clone() CartState {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return CartState{Items: items}
}

func (s CartState) indexOf(key string) int {
	for i := range s.Items {
		if s.Items[i].Key == key {
			return i
		}
	}
	return -1
}

// SaveFunc persists a cart state. It is called on every mutation before the
// mutation becomes visible.
type SaveFunc func(CartState) error

// Cart is the line-item engine for one customer session. It is not safe for
// concurrent use; callers serialize access per session.
type Cart struct {
	state CartState
	save  SaveFunc
}

func NewCart(state CartState, save SaveFunc) *Cart {
	return &Cart{state: state.clone(), save: save}
}

// commit writes next through the save hook. The in-memory state only
// changes when the save succeeds.
func (c *Cart) commit(next CartState) error {
	if c.save != nil {
		if err := c.save(next); err != nil {
			return err
		}
	}
	c.state = next
	return nil
}

// AddItem merges sel into the line with the same identity key or appends a
// new line. A merge adds quantities and keeps the existing unit price.
func (c *Cart) AddItem(sel FinalizedSelection) (LineItem, error) {
	if sel.Quantity < 1 {
		sel.Quantity = 1
	}
	key := IdentityKey(sel)
	next := c.state.clone()

	if idx := next.indexOf(key); idx >= 0 {
		next.Items[idx].Quantity += sel.Quantity
		if err := c.commit(next); err != nil {
			return LineItem{}, err
		}
		return next.Items[idx], nil
	}

	item := LineItem{Key: key, FinalizedSelection: sel}
	next.Items = append(next.Items, item)
	if err := c.commit(next); err != nil {
		return LineItem{}, err
	}
	return item, nil
}

// RemoveItem deletes the line with key. Unknown keys are ignored.
func (c *Cart) RemoveItem(key string) error {
	idx := c.state.indexOf(key)
	if idx < 0 {
		return nil
	}
	next := c.state.clone()
	next.Items = append(next.Items[:idx], next.Items[idx+1:]...)
	return c.commit(next)
}

// UpdateQuantity sets the quantity of a line; quantity <= 0 removes it.
func (c *Cart) UpdateQuantity(key string, quantity int) error {
	if quantity <= 0 {
		return c.RemoveItem(key)
	}
	idx := c.state.indexOf(key)
	if idx < 0 || c.state.Items[idx].Quantity == quantity {
		return nil
	}
	next := c.state.clone()
	next.Items[idx].Quantity = quantity
	return c.commit(next)
}

func (c *Cart) Clear() error {
	if len(c.state.Items) == 0 {
		return nil
	}
	return c.commit(CartState{Items: []LineItem{}})
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.state.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (c *Cart) Items() []LineItem {
	return c.state.clone().Items
}

func (c *Cart) Find(key string) (LineItem, bool) {
	idx := c.state.indexOf(key)
	if idx < 0 {
		return LineItem{}, false
	}
	return c.state.Items[idx], true
}

func (c *Cart) Len() int {
	return len(c.state.Items)
}

func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.state.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) State() CartState {
	return c.state.clone()
}
