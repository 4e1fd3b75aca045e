package ordering

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
)

type identityGroup struct {
	GroupID string   `json:"g"`
	ItemIDs []string `json:"i"`
}

type identityInputs struct {
	ProductID   string          `json:"p"`
	VariationID *string         `json:"v"`
	Options     []identityGroup `json:"o"`
	Removed     []string        `json:"r"`
	Note        string          `json:"n"`
}

// CanonicalIdentity serializes the parts of a selection that decide whether
// two selections are the same line item. Groups, item ids and removed
// ingredients are sorted so click order does not matter.
func CanonicalIdentity(sel FinalizedSelection) string {
	in := identityInputs{
		ProductID: sel.ProductID,
		Options:   []identityGroup{},
		Removed:   []string{},
		Note:      sel.Note,
	}
	if sel.Variation != nil {
		id := sel.Variation.ID
		in.VariationID = &id
	}

	for groupID, group := range sel.Options {
		if len(group.Units) == 0 {
			continue
		}
		ids := make([]string, len(group.Units))
		for i, unit := range group.Units {
			ids[i] = unit.ID
		}
		sort.Strings(ids)
		in.Options = append(in.Options, identityGroup{GroupID: groupID, ItemIDs: ids})
	}
	sort.Slice(in.Options, func(i, j int) bool {
		return in.Options[i].GroupID < in.Options[j].GroupID
	})

	in.Removed = append(in.Removed, sel.RemovedIngredients...)
	sort.Strings(in.Removed)

	// Marshal of plain strings and slices cannot fail.
	b, _ := json.Marshal(in)
	return string(b)
}

// IdentityKey is the hex SHA-256 of CanonicalIdentity.
func IdentityKey(sel FinalizedSelection) string {
	sum := sha256.Sum256([]byte(CanonicalIdentity(sel)))
	return hex.EncodeToString(sum[:])
}
