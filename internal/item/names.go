package item

import (
	"encoding/json"
	"fmt"
	"strings"
)

// UnknownItem is the canonical name for records whose identity attributes
// are missing.
const UnknownItem = "UNKNOWN_ITEM"

// Item families whose canonical name depends on an embedded sub-type.
const (
	enchantedBookID = "ENCHANTED_BOOK"
	petID           = "PET"
)

// petInfo is the JSON blob embedded in pet items.
type petInfo struct {
	Type     string `json:"type"`
	Tier     string `json:"tier"`
	HeldItem string `json:"heldItem"`
}

// CanonicalName derives the pricing identity of a record. It never fails:
// any missing attribute falls back to the raw type id, or UnknownItem when
// even that is absent.
func CanonicalName(rec *Record) string {
	ea, ok := rec.ExtraAttributes()
	if !ok {
		return UnknownItem
	}
	name, ok := ea.GetString("id")
	if !ok {
		return UnknownItem
	}

	switch name {
	case enchantedBookID:
		// A book's value is its enchantment, not the paper it's printed on.
		if enchants, ok := ea.GetCompound("enchantments"); ok {
			if keys := enchants.Keys(); len(keys) > 0 {
				return strings.ToUpper(keys[0])
			}
		}

	case petID:
		if blob, ok := ea.GetString("petInfo"); ok {
			var pet petInfo
			if err := json.Unmarshal([]byte(blob), &pet); err == nil && pet.Type != "" {
				tier := pet.Tier
				// A tier boost item makes an EPIC pet trade as LEGENDARY.
				if pet.HeldItem == "PET_ITEM_TIER_BOOST" && tier == "EPIC" {
					tier = "LEGENDARY"
				}
				return fmt.Sprintf("%s_%s_PET", tier, pet.Type)
			}
		}
	}

	return name
}
