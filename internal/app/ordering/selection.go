package ordering

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ikkim/web-ordering-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

type SelectionState string

const (
	StateSeeding   SelectionState = "seeding"
	StateEditing   SelectionState = "editing"
	StateConfirmed SelectionState = "confirmed"
	StateAbandoned SelectionState = "abandoned"
)

var (
	ErrSelectionClosed    = errors.New("selection is no longer editable")
	ErrProductUnavailable = errors.New("product is not available")
	ErrUnknownVariation   = errors.New("variation not found for product")
	ErrUnknownOptionGroup = errors.New("option group not found for product")
	ErrUnknownOptionItem  = errors.New("option item not found in group")
	ErrOptionUnavailable  = errors.New("option item is not available")
	ErrSingleChoiceGroup  = errors.New("option group only allows a single choice")
	ErrMultiChoiceGroup   = errors.New("option group allows multiple choices")
	ErrUnknownAction      = errors.New("unknown selection action")
)

// IncompleteSelectionError lists the option groups whose minimum is not met.
type IncompleteSelectionError struct {
	GroupIDs []string
}

func (e *IncompleteSelectionError) Error() string {
	return fmt.Sprintf("selection incomplete: %d option group(s) need a choice (%s)",
		len(e.GroupIDs), strings.Join(e.GroupIDs, ", "))
}

// GroupStatus is the live state of one option group.
type GroupStatus struct {
	GroupID   string `json:"group_id"`
	Name      string `json:"name"`
	Selected  int    `json:"selected"`
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	Satisfied bool   `json:"satisfied"`
}

// Selection tracks one product customization from seeding until it is
// confirmed or abandoned. It is not safe for concurrent use.
type Selection struct {
	product   model.Product
	state     SelectionState
	variation *model.Variation
	options   map[string][]model.OptionItem // group id -> chosen units, in click order
	removed   map[string]struct{}
	note      string
	quantity  int
}

// NewSelection seeds a selection with defaults: cheapest variation, no
// options, nothing removed, quantity 1.
func NewSelection(product model.Product) (*Selection, error) {
	if !product.IsAvailable {
		return nil, ErrProductUnavailable
	}

	s := &Selection{
		product:  product,
		state:    StateSeeding,
		options:  make(map[string][]model.OptionItem),
		removed:  make(map[string]struct{}),
		quantity: 1,
	}
	if v, ok := product.DefaultVariation(); ok {
		chosen := *v
		s.variation = &chosen
	}
	s.state = StateEditing
	return s, nil
}

func (s *Selection) State() SelectionState {
	return s.state
}

func (s *Selection) Product() model.Product {
	return s.product
}

func (s *Selection) Variation() *model.Variation {
	if s.variation == nil {
		return nil
	}
	v := *s.variation
	return &v
}

func (s *Selection) Quantity() int {
	return s.quantity
}

func (s *Selection) Note() string {
	return s.note
}

// Options returns the chosen item ids per group; repeated ids are repeated units.
func (s *Selection) Options() map[string][]string {
	out := make(map[string][]string, len(s.options))
	for groupID, units := range s.options {
		ids := make([]string, len(units))
		for i, unit := range units {
			ids[i] = unit.ID
		}
		out[groupID] = ids
	}
	return out
}

// RemovedIngredients returns the removed ingredient names, sorted.
func (s *Selection) RemovedIngredients() []string {
	names := make([]string, 0, len(s.removed))
	for name := range s.removed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Selection) editable() error {
	if s.state != StateEditing {
		return ErrSelectionClosed
	}
	return nil
}

func (s *Selection) lookup(groupID, itemID string) (*model.OptionGroup, *model.OptionItem, error) {
	group, ok := s.product.FindOptionGroup(groupID)
	if !ok {
		return nil, nil, ErrUnknownOptionGroup
	}
	item, ok := group.FindItem(itemID)
	if !ok {
		return group, nil, ErrUnknownOptionItem
	}
	return group, item, nil
}

// SelectVariation replaces the active variation. Option choices are kept.
func (s *Selection) SelectVariation(variationID string) error {
	if err := s.editable(); err != nil {
		return err
	}
	v, ok := s.product.FindVariation(variationID)
	if !ok {
		return ErrUnknownVariation
	}
	chosen := *v
	s.variation = &chosen
	return nil
}

// SetExclusiveOption replaces the whole selection of a single-choice group.
func (s *Selection) SetExclusiveOption(groupID, itemID string) error {
	if err := s.editable(); err != nil {
		return err
	}
	group, item, err := s.lookup(groupID, itemID)
	if err != nil {
		return err
	}
	if !group.Exclusive() {
		return ErrMultiChoiceGroup
	}
	if !item.Available() {
		return ErrOptionUnavailable
	}
	s.options[groupID] = []model.OptionItem{*item}
	return nil
}

// IncrementOption adds one unit of an item to a multi-choice group. Once the
// group holds Max units the call changes nothing and returns nil.
func (s *Selection) IncrementOption(groupID, itemID string) error {
	if err := s.editable(); err != nil {
		return err
	}
	group, item, err := s.lookup(groupID, itemID)
	if err != nil {
		return err
	}
	if group.Exclusive() {
		return ErrSingleChoiceGroup
	}
	if !item.Available() {
		return ErrOptionUnavailable
	}
	if len(s.options[groupID]) >= group.Max {
		return nil
	}
	s.options[groupID] = append(s.options[groupID], *item)
	return nil
}

// DecrementOption removes one unit of an item. Absent items are ignored.
func (s *Selection) DecrementOption(groupID, itemID string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if _, _, err := s.lookup(groupID, itemID); err != nil {
		return err
	}
	units := s.options[groupID]
	for i := len(units) - 1; i >= 0; i-- {
		if units[i].ID != itemID {
			continue
		}
		next := make([]model.OptionItem, 0, len(units)-1)
		next = append(next, units[:i]...)
		next = append(next, units[i+1:]...)
		if len(next) == 0 {
			delete(s.options, groupID)
		} else {
			s.options[groupID] = next
		}
		return nil
	}
	return nil
}

func (s *Selection) ToggleRemovedIngredient(name string) error {
	if err := s.editable(); err != nil {
		return err
	}
	if _, ok := s.removed[name]; ok {
		delete(s.removed, name)
	} else {
		s.removed[name] = struct{}{}
	}
	return nil
}

// SetQuantity clamps n to at least 1.
func (s *Selection) SetQuantity(n int) error {
	if err := s.editable(); err != nil {
		return err
	}
	if n < 1 {
		n = 1
	}
	s.quantity = n
	return nil
}

func (s *Selection) SetNote(note string) error {
	if err := s.editable(); err != nil {
		return err
	}
	s.note = strings.TrimSpace(note)
	return nil
}

// UnitPrice is the variation price (or base price) plus every chosen unit.
func (s *Selection) UnitPrice() decimal.Decimal {
	price := s.product.Price
	if s.variation != nil {
		price = s.variation.Price
	}
	for _, units := range s.options {
		for _, unit := range units {
			price = price.Add(unit.Price)
		}
	}
	return price
}

func (s *Selection) LineTotal() decimal.Decimal {
	return s.UnitPrice().Mul(decimal.NewFromInt(int64(s.quantity)))
}

// Validate returns the ids of groups below their minimum, in catalog order.
func (s *Selection) Validate() []string {
	missing := []string{}
	for _, group := range s.product.OptionGroups {
		if len(s.options[group.ID]) < group.Min {
			missing = append(missing, group.ID)
		}
	}
	return missing
}

func (s *Selection) GroupStatuses() []GroupStatus {
	statuses := make([]GroupStatus, 0, len(s.product.OptionGroups))
	for _, group := range s.product.OptionGroups {
		count := len(s.options[group.ID])
		statuses = append(statuses, GroupStatus{
			GroupID:   group.ID,
			Name:      group.Name,
			Selected:  count,
			Min:       group.Min,
			Max:       group.Max,
			Satisfied: count >= group.Min,
		})
	}
	return statuses
}

func (s *Selection) CanConfirm() bool {
	return s.state == StateEditing && len(s.Validate()) == 0
}

// Confirm finalizes the selection. On an incomplete selection it returns an
// *IncompleteSelectionError and stays editable.
func (s *Selection) Confirm() (FinalizedSelection, error) {
	if err := s.editable(); err != nil {
		return FinalizedSelection{}, err
	}
	if missing := s.Validate(); len(missing) > 0 {
		return FinalizedSelection{}, &IncompleteSelectionError{GroupIDs: missing}
	}

	finalized := FinalizedSelection{
		ProductID:          s.product.ID,
		ProductName:        s.product.Name,
		ImageURL:           s.product.ImageURL,
		Options:            s.chosenGroups(),
		RemovedIngredients: s.RemovedIngredients(),
		Note:               s.note,
		UnitPrice:          s.UnitPrice(),
		Quantity:           s.quantity,
	}
	if s.variation != nil {
		finalized.Variation = &ChosenOption{
			ID:    s.variation.ID,
			Name:  s.variation.Name,
			Price: s.variation.Price,
		}
	}

	s.state = StateConfirmed
	return finalized, nil
}

// Abandon closes the selection without producing a line item.
func (s *Selection) Abandon() error {
	if err := s.editable(); err != nil {
		return err
	}
	s.state = StateAbandoned
	return nil
}

func (s *Selection) chosenGroups() map[string]ChosenGroup {
	groups := make(map[string]ChosenGroup, len(s.options))
	for rank, group := range s.product.OptionGroups {
		units := s.options[group.ID]
		if len(units) == 0 {
			continue
		}
		chosen := make([]ChosenOption, len(units))
		for i, unit := range units {
			chosen[i] = ChosenOption{ID: unit.ID, Name: unit.Name, Price: unit.Price}
		}
		groups[group.ID] = ChosenGroup{Name: group.Name, Rank: rank, Units: chosen}
	}
	return groups
}

type ActionType string

const (
	ActionSelectVariation  ActionType = "select_variation"
	ActionSetOption        ActionType = "set_option"
	ActionIncrementOption  ActionType = "increment_option"
	ActionDecrementOption  ActionType = "decrement_option"
	ActionToggleIngredient ActionType = "toggle_ingredient"
	ActionSetQuantity      ActionType = "set_quantity"
	ActionSetNote          ActionType = "set_note"
)

// Action is a serialized user interaction with a selection.
type Action struct {
	Type        ActionType `json:"type"`
	VariationID string     `json:"variation_id,omitempty"`
	GroupID     string     `json:"group_id,omitempty"`
	ItemID      string     `json:"item_id,omitempty"`
	Ingredient  string     `json:"ingredient,omitempty"`
	Quantity    int        `json:"quantity,omitempty"`
	Note        string     `json:"note,omitempty"`
}

func (s *Selection) Apply(action Action) error {
	switch action.Type {
	case ActionSelectVariation:
		return s.SelectVariation(action.VariationID)
	case ActionSetOption:
		return s.SetExclusiveOption(action.GroupID, action.ItemID)
	case ActionIncrementOption:
		return s.IncrementOption(action.GroupID, action.ItemID)
	case ActionDecrementOption:
		return s.DecrementOption(action.GroupID, action.ItemID)
	case ActionToggleIngredient:
		return s.ToggleRemovedIngredient(action.Ingredient)
	case ActionSetQuantity:
		return s.SetQuantity(action.Quantity)
	case ActionSetNote:
		return s.SetNote(action.Note)
	default:
		return ErrUnknownAction
	}
}
