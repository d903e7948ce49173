package item

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

const itemImageBase = "https://sky.lea.moe"

// skullTexture is the JSON blob inside a skull's base64 texture property.
type skullTexture struct {
	Textures struct {
		Skin struct {
			URL string `json:"url"`
		} `json:"SKIN"`
	} `json:"textures"`
}

// ImageURL returns a renderable image link for the record: the generic item
// image, or the head texture when the item is a custom skull.
func ImageURL(rec *Record) string {
	fallback := fmt.Sprintf("%s/item/%s", itemImageBase, rec.ID)

	tag, ok := rec.Item.GetCompound("tag")
	if !ok {
		return fallback
	}
	owner, ok := tag.GetCompound("SkullOwner")
	if !ok {
		return fallback
	}
	props, ok := owner.GetCompound("Properties")
	if !ok {
		return fallback
	}
	textures, ok := props.GetList("textures")
	if !ok {
		return fallback
	}
	first, ok := textures.CompoundAt(0)
	if !ok {
		return fallback
	}
	value, ok := first.GetString("Value")
	if !ok {
		return fallback
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return fallback
	}
	var tex skullTexture
	if err := json.Unmarshal(raw, &tex); err != nil {
		return fallback
	}

	_, hash, found := strings.Cut(tex.Textures.Skin.URL, "texture/")
	if !found || hash == "" {
		return fallback
	}
	return fmt.Sprintf("%s/head/%s", itemImageBase, hash)
}
