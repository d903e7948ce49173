package value

import (
	"testing"

	"github.com/finnvos/skysniper/internal/item"
	"github.com/finnvos/skysniper/internal/model"
	"github.com/finnvos/skysniper/internal/nbt"
	"github.com/finnvos/skysniper/internal/price"
)

// seededIndex builds an index holding exactly the given prices.
func seededIndex(prices map[string]float64) *price.Index {
	ix := price.NewIndex(prices, nil)
	ix.Rebuild(nil, item.NewDecoder(nil))
	return ix
}

// swordRecord builds a record with id SWORD and the given attribute setup.
func swordRecord(build func(ea *nbt.Compound)) *item.Record {
	ea := nbt.NewCompound()
	ea.Set("id", nbt.String("SWORD"))
	if build != nil {
		build(ea)
	}
	tag := nbt.NewCompound()
	tag.Set("ExtraAttributes", ea)
	it := nbt.NewCompound()
	it.Set("tag", tag)
	return &item.Record{ID: "SWORD", Count: 1, Item: it}
}

func estimate(t *testing.T, rec *item.Record, ix *price.Index, opts Options, lore string) (float64, float64) {
	t.Helper()
	est, added, ok := Estimate(model.Listing{ItemLore: lore}, rec, item.CanonicalName(rec), ix, opts)
	if !ok {
		t.Fatal("Estimate reported not valuable")
	}
	return est, added
}

func TestEstimateNoAttributesNotValuable(t *testing.T) {
	rec := &item.Record{ID: "SWORD", Count: 1, Item: nbt.NewCompound()}
	_, _, ok := Estimate(model.Listing{}, rec, "SWORD", seededIndex(nil), Options{})
	if ok {
		t.Error("Estimate valued an item with no attribute tree")
	}
}

func TestEstimateBaseOnly(t *testing.T) {
	ix := seededIndex(map[string]float64{"SWORD": 500})
	est, added := estimate(t, swordRecord(nil), ix, Options{}, "")

	if est != 500 {
		t.Errorf("estimated = %v, want 500", est)
	}
	if added != 0 {
		t.Errorf("added = %v, want 0", added)
	}
}

func TestEstimateUnindexedBaseIsZero(t *testing.T) {
	est, added := estimate(t, swordRecord(nil), seededIndex(nil), Options{}, "")
	if est != 0 || added != 0 {
		t.Errorf("estimated, added = %v, %v; want 0, 0", est, added)
	}
}

func TestHotPotatoTiers(t *testing.T) {
	ix := seededIndex(map[string]float64{
		"HOT_POTATO_BOOK":    100,
		"FUMING_POTATO_BOOK": 1000,
	})

	cases := []struct {
		count int
		want  float64
	}{
		{0, 0},
		{1, 100},
		{10, 1000},
		{11, 1000 + 1000},   // 10 plain + 1 fuming
		{15, 1000 + 5*1000}, // 10 plain + 5 fuming
	}
	for _, tc := range cases {
		rec := swordRecord(func(ea *nbt.Compound) {
			ea.Set("hot_potato_count", nbt.Int(tc.count))
		})
		_, added := estimate(t, rec, ix, Options{}, "")
		if added != tc.want {
			t.Errorf("hot_potato_count=%d: added = %v, want %v", tc.count, added, tc.want)
		}
	}
}

func TestRecombobulatorToggle(t *testing.T) {
	ix := seededIndex(map[string]float64{"RECOMBOBULATOR_3000": 7000})
	rec := swordRecord(func(ea *nbt.Compound) {
		ea.Set("rarity_upgrades", nbt.Int(1))
	})

	_, added := estimate(t, rec, ix, Options{AddRecombobulator: true}, "")
	if added != 7000 {
		t.Errorf("added (enabled) = %v, want 7000", added)
	}

	_, added = estimate(t, rec, ix, Options{AddRecombobulator: false}, "")
	if added != 0 {
		t.Errorf("added (disabled) = %v, want 0", added)
	}
}

func TestWoodSingularityExactlyOne(t *testing.T) {
	ix := seededIndex(map[string]float64{"WOOD_SINGULARITY": 9000})

	for count, want := range map[int]float64{0: 0, 1: 9000, 2: 0} {
		rec := swordRecord(func(ea *nbt.Compound) {
			ea.Set("wood_singularity_count", nbt.Int(count))
		})
		_, added := estimate(t, rec, ix, Options{}, "")
		if added != want {
			t.Errorf("wood_singularity_count=%d: added = %v, want %v", count, added, want)
		}
	}
}

func enchantedSword(enchant string, level int) *item.Record {
	return swordRecord(func(ea *nbt.Compound) {
		ea.Set("originTag", nbt.String("CRAFTING"))
		enchants := nbt.NewCompound()
		enchants.Set(enchant, nbt.Int(level))
		ea.Set("enchantments", enchants)
	})
}

func TestEnchantmentFlatValue(t *testing.T) {
	ix := seededIndex(map[string]float64{"SHARPNESS": 200})
	opts := Options{EnchantMinLevels: map[string]int{"sharpness": 6}}

	// Flat enchants are level-invariant once they qualify.
	for _, level := range []int{6, 7} {
		_, added := estimate(t, enchantedSword("sharpness", level), ix, opts, "")
		if added != 200 {
			t.Errorf("sharpness %d: added = %v, want 200", level, added)
		}
	}

	// Below the threshold the enchant contributes nothing.
	_, added := estimate(t, enchantedSword("sharpness", 5), ix, opts, "")
	if added != 0 {
		t.Errorf("sharpness 5: added = %v, want 0", added)
	}
}

func TestEnchantmentExponentialValue(t *testing.T) {
	ix := seededIndex(map[string]float64{
		"ULTIMATE_WISE": 100,
		"DRAGON_HUNTER": 50,
	})
	opts := Options{EnchantMinLevels: map[string]int{"ultimate_wise": 1, "dragon_hunter": 1}}

	cases := []struct {
		enchant string
		level   int
		want    float64
	}{
		{"ultimate_wise", 1, 100},  // 100 * 2^0
		{"ultimate_wise", 3, 400},  // 100 * 2^2
		{"ultimate_wise", 5, 1600}, // 100 * 2^4
		{"dragon_hunter", 4, 400},  // 50 * 2^3
	}
	for _, tc := range cases {
		_, added := estimate(t, enchantedSword(tc.enchant, tc.level), ix, opts, "")
		if added != tc.want {
			t.Errorf("%s %d: added = %v, want %v", tc.enchant, tc.level, added, tc.want)
		}
	}
}

func TestEnchantmentExclusions(t *testing.T) {
	ix := seededIndex(map[string]float64{"SHARPNESS": 200})
	opts := Options{EnchantMinLevels: map[string]int{"sharpness": 1}}

	// Dungeon-scaled items are excluded via their lore.
	_, added := estimate(t, enchantedSword("sharpness", 6), ix, opts, "A fine DUNGEON blade")
	if added != 0 {
		t.Errorf("dungeon lore: added = %v, want 0", added)
	}

	// Unknown origin is excluded.
	rec := swordRecord(func(ea *nbt.Compound) {
		ea.Set("originTag", nbt.String("UNKNOWN"))
		enchants := nbt.NewCompound()
		enchants.Set("sharpness", nbt.Int(6))
		ea.Set("enchantments", enchants)
	})
	_, added = estimate(t, rec, ix, opts, "")
	if added != 0 {
		t.Errorf("unknown origin: added = %v, want 0", added)
	}

	// Missing origin is excluded.
	rec = swordRecord(func(ea *nbt.Compound) {
		enchants := nbt.NewCompound()
		enchants.Set("sharpness", nbt.Int(6))
		ea.Set("enchantments", enchants)
	})
	_, added = estimate(t, rec, ix, opts, "")
	if added != 0 {
		t.Errorf("missing origin: added = %v, want 0", added)
	}

	// Enchanted books never earn enchantment value on top of their base.
	book := func() *item.Record {
		ea := nbt.NewCompound()
		ea.Set("id", nbt.String("ENCHANTED_BOOK"))
		ea.Set("originTag", nbt.String("CRAFTING"))
		enchants := nbt.NewCompound()
		enchants.Set("sharpness", nbt.Int(6))
		ea.Set("enchantments", enchants)
		tag := nbt.NewCompound()
		tag.Set("ExtraAttributes", ea)
		it := nbt.NewCompound()
		it.Set("tag", tag)
		return &item.Record{ID: "ENCHANTED_BOOK", Count: 1, Item: it}
	}()
	_, added = estimate(t, book, ix, Options{EnchantMinLevels: map[string]int{"sharpness": 1}}, "")
	if added != 0 {
		t.Errorf("enchanted book: added = %v, want 0", added)
	}
}

func TestModifiersCompose(t *testing.T) {
	ix := seededIndex(map[string]float64{
		"SWORD":               1000,
		"HOT_POTATO_BOOK":     100,
		"RECOMBOBULATOR_3000": 7000,
		"SHARPNESS":           200,
	})
	opts := Options{
		AddRecombobulator: true,
		EnchantMinLevels:  map[string]int{"sharpness": 6},
	}

	rec := swordRecord(func(ea *nbt.Compound) {
		ea.Set("hot_potato_count", nbt.Int(5))
		ea.Set("rarity_upgrades", nbt.Int(1))
		ea.Set("originTag", nbt.String("CRAFTING"))
		enchants := nbt.NewCompound()
		enchants.Set("sharpness", nbt.Int(6))
		ea.Set("enchantments", enchants)
	})

	est, added := estimate(t, rec, ix, opts, "")
	wantAdded := 5*100.0 + 7000 + 200
	if added != wantAdded {
		t.Errorf("added = %v, want %v", added, wantAdded)
	}
	if est != 1000+wantAdded {
		t.Errorf("estimated = %v, want %v", est, 1000+wantAdded)
	}
}
