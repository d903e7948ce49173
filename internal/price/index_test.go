package price

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"reflect"
	"testing"

	"github.com/finnvos/skysniper/internal/item"
	"github.com/finnvos/skysniper/internal/model"
	"github.com/finnvos/skysniper/internal/nbt"
)

// payload builds a gzip-wrapped item payload with the given id and count.
func payload(t *testing.T, id string, count int) string {
	t.Helper()

	ea := nbt.NewCompound()
	ea.Set("id", nbt.String(id))
	tag := nbt.NewCompound()
	tag.Set("ExtraAttributes", ea)
	it := nbt.NewCompound()
	it.Set("Count", nbt.Byte(count))
	it.Set("tag", tag)
	root := nbt.NewCompound()
	root.Set("i", &nbt.List{Elem: nbt.TypeCompound, Items: []nbt.Tag{it}})

	data, err := nbt.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(data)
	zw.Close()
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func listing(t *testing.T, uuid, id string, price float64, count int) model.Listing {
	return model.Listing{
		UUID:      uuid,
		ItemBytes: payload(t, id, count),
		Price:     price,
		Bin:       true,
	}
}

func TestRebuildLowestAndSecond(t *testing.T) {
	ix := NewIndex(nil, nil)
	dec := item.NewDecoder(nil)

	batch := []model.Listing{
		listing(t, "a", "FOO", 500, 1),
		listing(t, "b", "FOO", 300, 1),
		listing(t, "c", "FOO", 900, 1),
		listing(t, "d", "BAR", 1000, 1),
	}
	ix.Rebuild(batch, dec)

	if got, ok := ix.Lowest("FOO"); !ok || got != 300 {
		t.Errorf("Lowest(FOO) = %v, %v; want 300, true", got, ok)
	}
	if got := ix.SecondLowest("FOO"); got != 500 {
		t.Errorf("SecondLowest(FOO) = %v, want 500", got)
	}
	if got := ix.SecondLowest("BAR"); got != 1000 {
		t.Errorf("SecondLowest(BAR) with one observation = %v, want 1000", got)
	}
	if _, ok := ix.Lowest("ABSENT"); ok {
		t.Error("Lowest(ABSENT) reported ok")
	}
	if got := ix.BaseValue("ABSENT"); got != 0 {
		t.Errorf("BaseValue(ABSENT) = %v, want 0", got)
	}
}

func TestRebuildUnitPrice(t *testing.T) {
	ix := NewIndex(nil, nil)
	dec := item.NewDecoder(nil)

	// A 64-stack at 6400 is 100 per unit.
	ix.Rebuild([]model.Listing{listing(t, "a", "ENCHANTED_COAL", 6400, 64)}, dec)

	if got, ok := ix.Lowest("ENCHANTED_COAL"); !ok || got != 100 {
		t.Errorf("Lowest = %v, %v; want 100, true", got, ok)
	}
}

func TestRebuildIsPure(t *testing.T) {
	dec := item.NewDecoder(nil)
	batch := []model.Listing{
		listing(t, "a", "FOO", 500, 1),
		listing(t, "b", "BAR", 250, 1),
		listing(t, "c", "FOO", 100, 1),
	}

	first := NewIndex(nil, nil)
	first.Rebuild(batch, dec)

	second := NewIndex(nil, nil)
	second.Rebuild(batch, dec)
	second.Rebuild(batch, dec) // rebuilding again must not accumulate

	if !reflect.DeepEqual(first.entries, second.entries) {
		t.Errorf("rebuild not pure: %v vs %v", first.entries, second.entries)
	}
}

func TestRebuildClearsPreviousEntries(t *testing.T) {
	ix := NewIndex(nil, nil)
	dec := item.NewDecoder(nil)

	ix.Rebuild([]model.Listing{listing(t, "a", "FOO", 500, 1)}, dec)
	ix.Rebuild([]model.Listing{listing(t, "b", "BAR", 250, 1)}, dec)

	if _, ok := ix.Lowest("FOO"); ok {
		t.Error("FOO survived a rebuild that no longer observed it")
	}
	if got, ok := ix.Lowest("BAR"); !ok || got != 250 {
		t.Errorf("Lowest(BAR) = %v, %v; want 250, true", got, ok)
	}
}

func TestRebuildSkipsUndecodable(t *testing.T) {
	ix := NewIndex(nil, nil)
	dec := item.NewDecoder(nil)

	batch := []model.Listing{
		{UUID: "bad", ItemBytes: base64.StdEncoding.EncodeToString([]byte("junk")), Price: 10},
		listing(t, "good", "FOO", 500, 1),
	}
	ix.Rebuild(batch, dec)

	if got, ok := ix.Lowest("FOO"); !ok || got != 500 {
		t.Errorf("Lowest(FOO) = %v, %v; want 500, true", got, ok)
	}
	if ix.Len() != 1 {
		t.Errorf("Len = %d, want 1", ix.Len())
	}
}

func TestRebuildAppliesOverrides(t *testing.T) {
	ix := NewIndex(map[string]float64{"DRAGON_SLAYER": 1_000_000}, nil)
	dec := item.NewDecoder(nil)

	ix.Rebuild([]model.Listing{listing(t, "a", "FOO", 500, 1)}, dec)

	if got, ok := ix.Lowest("DRAGON_SLAYER"); !ok || got != 1_000_000 {
		t.Errorf("Lowest(DRAGON_SLAYER) = %v, %v; want override, true", got, ok)
	}

	// Overrides beat observed prices.
	over := NewIndex(map[string]float64{"FOO": 42}, nil)
	over.Rebuild([]model.Listing{listing(t, "a", "FOO", 500, 1)}, dec)
	if got, _ := over.Lowest("FOO"); got != 42 {
		t.Errorf("Lowest(FOO) = %v, want override 42", got)
	}
}

func TestModifierPriceUppercases(t *testing.T) {
	ix := NewIndex(nil, nil)
	dec := item.NewDecoder(nil)
	ix.Rebuild([]model.Listing{listing(t, "a", "HOT_POTATO_BOOK", 80_000, 1)}, dec)

	if got := ix.ModifierPrice("hot_potato_book"); got != 80_000 {
		t.Errorf("ModifierPrice(lowercase) = %v, want 80000", got)
	}
	if got := ix.ModifierPrice("unpriced_modifier"); got != 0 {
		t.Errorf("ModifierPrice(miss) = %v, want 0", got)
	}
}
