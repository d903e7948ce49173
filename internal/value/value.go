// Package value estimates an item's fair market value by composing its base
// price with the value of the modifiers applied to it.
package value

import (
	"math"
	"strings"

	"github.com/finnvos/skysniper/internal/item"
	"github.com/finnvos/skysniper/internal/model"
	"github.com/finnvos/skysniper/internal/nbt"
	"github.com/finnvos/skysniper/internal/price"
)

// Modifier identities priced through the market index.
const (
	hotPotatoBook    = "HOT_POTATO_BOOK"
	fumingPotatoBook = "FUMING_POTATO_BOOK"
	recombobulator   = "RECOMBOBULATOR_3000"
	woodSingularity  = "WOOD_SINGULARITY"
)

// hotPotatoCap is the number of applications priced as plain hot potato
// books; anything beyond needs the fuming variant.
const hotPotatoCap = 10

// Options controls which modifiers count and at which enchantment levels.
type Options struct {
	AddRecombobulator bool
	EnchantMinLevels  map[string]int // enchantment key -> minimum qualifying level
}

// Estimate computes the market value of a listing's item: the lowest indexed
// unit price for its canonical name plus the summed modifier values. The ok
// result is false when the item carries no attribute data at all, in which
// case it cannot be valued.
func Estimate(lst model.Listing, rec *item.Record, name string, ix *price.Index, opts Options) (estimated, added float64, ok bool) {
	ea, ok := rec.ExtraAttributes()
	if !ok {
		return 0, 0, false
	}

	added += hotPotatoValue(ea, ix)
	added += recombobulatorValue(ea, ix, opts)
	added += woodSingularityValue(ea, ix)
	added += enchantmentValue(lst, rec, ea, ix, opts)

	return ix.BaseValue(name) + added, added, true
}

func hotPotatoValue(ea *nbt.Compound, ix *price.Index) float64 {
	n, ok := ea.GetInt("hot_potato_count")
	if !ok || n <= 0 {
		return 0
	}
	hpb := ix.ModifierPrice(hotPotatoBook)
	if n <= hotPotatoCap {
		return hpb * float64(n)
	}
	fuming := ix.ModifierPrice(fumingPotatoBook)
	return hpb*hotPotatoCap + fuming*float64(n-hotPotatoCap)
}

func recombobulatorValue(ea *nbt.Compound, ix *price.Index, opts Options) float64 {
	if !opts.AddRecombobulator {
		return 0
	}
	if n, ok := ea.GetInt("rarity_upgrades"); ok && n > 0 {
		return ix.ModifierPrice(recombobulator)
	}
	return 0
}

func woodSingularityValue(ea *nbt.Compound, ix *price.Index) float64 {
	// The marker is single-use; anything but exactly 1 is not applied.
	if n, ok := ea.GetInt("wood_singularity_count"); ok && n == 1 {
		return ix.ModifierPrice(woodSingularity)
	}
	return 0
}

func enchantmentValue(lst model.Listing, rec *item.Record, ea *nbt.Compound, ix *price.Index, opts Options) float64 {
	// A book's enchantment is its base price; counting it again would double.
	if rec.ID == "ENCHANTED_BOOK" {
		return 0
	}
	origin, ok := ea.GetString("originTag")
	if !ok || origin == "UNKNOWN" {
		return 0
	}
	// Dungeon gear's enchant power scales differently; its enchants do not
	// carry open-market value.
	if strings.Contains(lst.ItemLore, "DUNGEON") {
		return 0
	}
	enchants, ok := ea.GetCompound("enchantments")
	if !ok {
		return 0
	}

	var total float64
	for _, key := range enchants.Keys() {
		minLevel, known := opts.EnchantMinLevels[key]
		if !known {
			continue
		}
		level, ok := enchants.GetInt(key)
		if !ok || level < minLevel {
			continue
		}
		p := ix.ModifierPrice(key)
		if exponentialEnchant(key) {
			total += math.Pow(2, float64(level-1)) * p
		} else {
			total += p
		}
	}
	return total
}

// exponentialEnchant marks the enchantment families whose book value doubles
// per level instead of staying flat.
func exponentialEnchant(key string) bool {
	return key == "dragon_hunter" || strings.HasPrefix(key, "ultimate")
}
