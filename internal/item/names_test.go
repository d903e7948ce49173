package item

import (
	"encoding/base64"
	"testing"

	"github.com/finnvos/skysniper/internal/nbt"
)

// record builds a Record directly, skipping the wire encoding.
func record(item *nbt.Compound) *Record {
	rec := &Record{Item: item, Count: 1}
	if ea, ok := rec.ExtraAttributes(); ok {
		rec.ID, _ = ea.GetString("id")
	}
	return rec
}

func itemWithAttributes(build func(ea *nbt.Compound)) *nbt.Compound {
	ea := nbt.NewCompound()
	build(ea)
	tag := nbt.NewCompound()
	tag.Set("ExtraAttributes", ea)
	item := nbt.NewCompound()
	item.Set("tag", tag)
	return item
}

func TestCanonicalNameDefault(t *testing.T) {
	rec := record(itemWithAttributes(func(ea *nbt.Compound) {
		ea.Set("id", nbt.String("ASPECT_OF_THE_DRAGON"))
	}))
	if got := CanonicalName(rec); got != "ASPECT_OF_THE_DRAGON" {
		t.Errorf("CanonicalName = %q, want ASPECT_OF_THE_DRAGON", got)
	}
}

func TestCanonicalNameMissingAttributes(t *testing.T) {
	rec := &Record{Item: nbt.NewCompound()}
	if got := CanonicalName(rec); got != UnknownItem {
		t.Errorf("CanonicalName = %q, want %q", got, UnknownItem)
	}
}

func TestCanonicalNameEnchantedBook(t *testing.T) {
	rec := record(itemWithAttributes(func(ea *nbt.Compound) {
		ea.Set("id", nbt.String("ENCHANTED_BOOK"))
		enchants := nbt.NewCompound()
		enchants.Set("ultimate_wise", nbt.Int(5))
		enchants.Set("sharpness", nbt.Int(6))
		ea.Set("enchantments", enchants)
	}))
	// First enchantment in wire order wins.
	if got := CanonicalName(rec); got != "ULTIMATE_WISE" {
		t.Errorf("CanonicalName = %q, want ULTIMATE_WISE", got)
	}
}

func TestCanonicalNameEnchantedBookNoEnchants(t *testing.T) {
	rec := record(itemWithAttributes(func(ea *nbt.Compound) {
		ea.Set("id", nbt.String("ENCHANTED_BOOK"))
	}))
	if got := CanonicalName(rec); got != "ENCHANTED_BOOK" {
		t.Errorf("CanonicalName = %q, want fallback ENCHANTED_BOOK", got)
	}
}

func TestCanonicalNamePet(t *testing.T) {
	cases := []struct {
		name    string
		petInfo string
		want    string
	}{
		{
			"plain pet",
			`{"type":"WOLF","tier":"RARE"}`,
			"RARE_WOLF_PET",
		},
		{
			"epic with tier boost trades as legendary",
			`{"type":"ENDER_DRAGON","tier":"EPIC","heldItem":"PET_ITEM_TIER_BOOST"}`,
			"LEGENDARY_ENDER_DRAGON_PET",
		},
		{
			"legendary with tier boost unchanged",
			`{"type":"WOLF","tier":"LEGENDARY","heldItem":"PET_ITEM_TIER_BOOST"}`,
			"LEGENDARY_WOLF_PET",
		},
		{
			"epic with other held item unchanged",
			`{"type":"WOLF","tier":"EPIC","heldItem":"PET_ITEM_LUCKY_CLOVER"}`,
			"EPIC_WOLF_PET",
		},
	}
	for _, tc := range cases {
		rec := record(itemWithAttributes(func(ea *nbt.Compound) {
			ea.Set("id", nbt.String("PET"))
			ea.Set("petInfo", nbt.String(tc.petInfo))
		}))
		if got := CanonicalName(rec); got != tc.want {
			t.Errorf("%s: CanonicalName = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCanonicalNamePetBadJSON(t *testing.T) {
	rec := record(itemWithAttributes(func(ea *nbt.Compound) {
		ea.Set("id", nbt.String("PET"))
		ea.Set("petInfo", nbt.String("{not json"))
	}))
	if got := CanonicalName(rec); got != "PET" {
		t.Errorf("CanonicalName = %q, want fallback PET", got)
	}
}

func TestImageURLDefault(t *testing.T) {
	rec := record(itemWithAttributes(func(ea *nbt.Compound) {
		ea.Set("id", nbt.String("HYPERION"))
	}))
	if got := ImageURL(rec); got != "https://sky.lea.moe/item/HYPERION" {
		t.Errorf("ImageURL = %q", got)
	}
}

func TestImageURLSkullTexture(t *testing.T) {
	blob := base64.StdEncoding.EncodeToString([]byte(
		`{"textures":{"SKIN":{"url":"http://textures.minecraft.net/texture/abc123"}}}`,
	))

	item := itemWithAttributes(func(ea *nbt.Compound) {
		ea.Set("id", nbt.String("PET_SKIN_WOLF"))
	})
	tag, _ := item.GetCompound("tag")
	texture := nbt.NewCompound()
	texture.Set("Value", nbt.String(blob))
	props := nbt.NewCompound()
	props.Set("textures", &nbt.List{Elem: nbt.TypeCompound, Items: []nbt.Tag{texture}})
	owner := nbt.NewCompound()
	owner.Set("Properties", props)
	tag.Set("SkullOwner", owner)

	rec := record(item)
	if got := ImageURL(rec); got != "https://sky.lea.moe/head/abc123" {
		t.Errorf("ImageURL = %q, want head variant", got)
	}
}
