package ordering

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// confirmBurger runs a sequence of actions on a fresh burger selection and
// confirms it.
func confirmBurger(t *testing.T, actions ...Action) FinalizedSelection {
	t.Helper()
	sel := newTestSelection(t)
	require.NoError(t, sel.SetExclusiveOption("bread", "brioche"))
	for _, action := range actions {
		require.NoError(t, sel.Apply(action))
	}
	finalized, err := sel.Confirm()
	require.NoError(t, err)
	return finalized
}

type recordingStore struct {
	saves []CartState
	err   error
}

func (r *recordingStore) save(state CartState) error {
	if r.err != nil {
		return r.err
	}
	r.saves = append(r.saves, state)
	return nil
}

func TestIdentityKey_ClickOrderIndependent(t *testing.T) {
	a := confirmBurger(t,
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "ketchup"},
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "cheese"},
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "ketchup"},
		Action{Type: ActionToggleIngredient, Ingredient: "onion"},
		Action{Type: ActionToggleIngredient, Ingredient: "pickles"},
	)
	b := confirmBurger(t,
		Action{Type: ActionToggleIngredient, Ingredient: "pickles"},
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "cheese"},
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "ketchup"},
		Action{Type: ActionToggleIngredient, Ingredient: "onion"},
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "ketchup"},
	)

	assert.Equal(t, IdentityKey(a), IdentityKey(b))
	assert.Len(t, IdentityKey(a), 64)
}

func TestIdentityKey_Distinguishes(t *testing.T) {
	base := confirmBurger(t)

	tests := []struct {
		name    string
		actions []Action
	}{
		{"variation", []Action{{Type: ActionSelectVariation, VariationID: "large"}}},
		{"option", []Action{{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "mayo"}}},
		{"removed ingredient", []Action{{Type: ActionToggleIngredient, Ingredient: "tomato"}}},
		{"note", []Action{{Type: ActionSetNote, Note: "extra crispy"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := confirmBurger(t, tt.actions...)
			assert.NotEqual(t, IdentityKey(base), IdentityKey(other))
		})
	}
}

func TestIdentityKey_IgnoresQuantityAndPrice(t *testing.T) {
	a := confirmBurger(t)
	b := confirmBurger(t, Action{Type: ActionSetQuantity, Quantity: 4})
	b.UnitPrice = price(999)

	assert.Equal(t, IdentityKey(a), IdentityKey(b))
}

func TestCanonicalIdentity_DropsEmptyGroups(t *testing.T) {
	a := confirmBurger(t)
	b := a
	b.Options = map[string]ChosenGroup{"bread": a.Options["bread"], "sauces": {Name: "Sauces"}}

	assert.Equal(t, CanonicalIdentity(a), CanonicalIdentity(b))
}

func TestCart_AddItem_MergesIdenticalSelections(t *testing.T) {
	store := &recordingStore{}
	cart := NewCart(CartState{}, store.save)

	first, err := cart.AddItem(confirmBurger(t, Action{Type: ActionSetQuantity, Quantity: 2}))
	require.NoError(t, err)
	merged, err := cart.AddItem(confirmBurger(t, Action{Type: ActionSetQuantity, Quantity: 3}))
	require.NoError(t, err)

	assert.Equal(t, first.Key, merged.Key)
	assert.Equal(t, 1, cart.Len())
	assert.Equal(t, 5, cart.Items()[0].Quantity)
	assert.Len(t, store.saves, 2)
}

func TestCart_AddItem_AppendsDistinctSelections(t *testing.T) {
	cart := NewCart(CartState{}, nil)

	_, err := cart.AddItem(confirmBurger(t))
	require.NoError(t, err)
	_, err = cart.AddItem(confirmBurger(t, Action{Type: ActionToggleIngredient, Ingredient: "onion"}))
	require.NoError(t, err)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Empty(t, items[0].RemovedIngredients, "insertion order is kept")
	assert.Equal(t, []string{"onion"}, items[1].RemovedIngredients)
}

func TestCart_AddItem_KeepsFirstUnitPrice(t *testing.T) {
	cart := NewCart(CartState{}, nil)

	first := confirmBurger(t)
	_, err := cart.AddItem(first)
	require.NoError(t, err)

	repriced := confirmBurger(t)
	repriced.UnitPrice = price(99)
	item, err := cart.AddItem(repriced)
	require.NoError(t, err)

	assert.True(t, item.UnitPrice.Equal(first.UnitPrice))
	assert.Equal(t, 2, item.Quantity)
}

func TestCart_RemoveItem(t *testing.T) {
	store := &recordingStore{}
	cart := NewCart(CartState{}, store.save)
	before := cart.Subtotal()

	item, err := cart.AddItem(confirmBurger(t))
	require.NoError(t, err)
	require.NoError(t, cart.RemoveItem(item.Key))

	assert.Equal(t, 0, cart.Len())
	assert.True(t, cart.Subtotal().Equal(before))

	// unknown keys are ignored without a save
	saves := len(store.saves)
	require.NoError(t, cart.RemoveItem("missing"))
	assert.Len(t, store.saves, saves)
}

func TestCart_UpdateQuantity(t *testing.T) {
	cart := NewCart(CartState{}, nil)
	item, err := cart.AddItem(confirmBurger(t, Action{Type: ActionSetQuantity, Quantity: 2}))
	require.NoError(t, err)

	require.NoError(t, cart.UpdateQuantity(item.Key, 7))
	found, ok := cart.Find(item.Key)
	require.True(t, ok)
	assert.Equal(t, 7, found.Quantity, "quantity is set, not added")

	require.NoError(t, cart.UpdateQuantity("missing", 3))
	assert.Equal(t, 1, cart.Len())

	require.NoError(t, cart.UpdateQuantity(item.Key, 0))
	assert.Equal(t, 0, cart.Len())
}

func TestCart_Subtotal(t *testing.T) {
	cart := NewCart(CartState{}, nil)

	// regular 45 + brioche 0, quantity 2
	_, err := cart.AddItem(confirmBurger(t, Action{Type: ActionSetQuantity, Quantity: 2}))
	require.NoError(t, err)
	// large 55 + brioche 0 + ketchup 0 x2 + cheese 5, quantity 2
	_, err = cart.AddItem(confirmBurger(t,
		Action{Type: ActionSelectVariation, VariationID: "large"},
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "ketchup"},
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "ketchup"},
		Action{Type: ActionIncrementOption, GroupID: "sauces", ItemID: "cheese"},
		Action{Type: ActionSetQuantity, Quantity: 2},
	))
	require.NoError(t, err)

	assert.Equal(t, "210", cart.Subtotal().String())
	assert.Equal(t, "120", cart.Items()[1].LineTotal().String())
	assert.Equal(t, 4, cart.ItemCount())
}

func TestCart_Clear(t *testing.T) {
	store := &recordingStore{}
	cart := NewCart(CartState{}, store.save)
	_, err := cart.AddItem(confirmBurger(t))
	require.NoError(t, err)

	require.NoError(t, cart.Clear())
	assert.Equal(t, 0, cart.Len())
	require.Len(t, store.saves, 2)
	assert.Empty(t, store.saves[1].Items)
}

func TestCart_SaveFailureRollsBack(t *testing.T) {
	store := &recordingStore{}
	cart := NewCart(CartState{}, store.save)
	item, err := cart.AddItem(confirmBurger(t))
	require.NoError(t, err)

	store.err = errors.New("disk full")

	_, err = cart.AddItem(confirmBurger(t))
	assert.Error(t, err)
	assert.Error(t, cart.UpdateQuantity(item.Key, 9))
	assert.Error(t, cart.RemoveItem(item.Key))
	assert.Error(t, cart.Clear())

	found, ok := cart.Find(item.Key)
	require.True(t, ok)
	assert.Equal(t, 1, found.Quantity)
	assert.Equal(t, 1, cart.Len())
}

func TestNewCart_RestoresState(t *testing.T) {
	original := NewCart(CartState{}, nil)
	_, err := original.AddItem(confirmBurger(t))
	require.NoError(t, err)

	restored := NewCart(original.State(), nil)
	_, err = restored.AddItem(confirmBurger(t))
	require.NoError(t, err)

	assert.Equal(t, 1, restored.Len())
	assert.Equal(t, 2, restored.Items()[0].Quantity)
	assert.Equal(t, 1, original.Items()[0].Quantity, "restored cart does not alias the source")
}
