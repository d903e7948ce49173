package item

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/finnvos/skysniper/internal/nbt"
)

// Record is a decoded item payload. Never mutated after Decode returns it.
type Record struct {
	ID    string        // raw type id from tag.ExtraAttributes.id
	Count int           // stack size, 1 when absent
	Item  *nbt.Compound // the item's full attribute tree
}

// ExtraAttributes returns the item's tag.ExtraAttributes compound.
func (r *Record) ExtraAttributes() (*nbt.Compound, bool) {
	tag, ok := r.Item.GetCompound("tag")
	if !ok {
		return nil, false
	}
	return tag.GetCompound("ExtraAttributes")
}

// ErrMalformedPayload reports a payload that parsed but is missing the
// structure every item carries.
var ErrMalformedPayload = errors.New("malformed item payload")

// DecodeError reports that a payload parsed under neither wire encoding.
type DecodeError struct {
	GzipErr error // first attempt: gzip-wrapped NBT
	RawErr  error // second attempt: raw NBT
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("item payload decodes neither gzipped (%v) nor raw (%v)", e.GzipErr, e.RawErr)
}

// Decoder turns base64 item payloads into Records.
type Decoder struct {
	logger *slog.Logger
}

// NewDecoder creates a Decoder.
func NewDecoder(logger *slog.Logger) *Decoder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Decoder{logger: logger}
}

// Decode parses a base64 item payload. The two wire encodings are tried in
// order; structural validation failures are fatal to the listing, a missing
// or oddly-typed Count is not.
func (d *Decoder) Decode(payload string) (*Record, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	root, gzipErr := parseGzipped(raw)
	if root == nil {
		var rawErr error
		root, rawErr = nbt.Parse(raw)
		if rawErr != nil {
			return nil, &DecodeError{GzipErr: gzipErr, RawErr: rawErr}
		}
	}

	items, ok := root.GetList("i")
	if !ok {
		return nil, fmt.Errorf("%w: root has no item list", ErrMalformedPayload)
	}
	item, ok := items.CompoundAt(0)
	if !ok {
		return nil, fmt.Errorf("%w: item list is empty or malformed", ErrMalformedPayload)
	}

	tag, ok := item.GetCompound("tag")
	if !ok {
		return nil, fmt.Errorf("%w: item has no tag compound", ErrMalformedPayload)
	}
	ea, ok := tag.GetCompound("ExtraAttributes")
	if !ok {
		return nil, fmt.Errorf("%w: item has no ExtraAttributes compound", ErrMalformedPayload)
	}
	id, ok := ea.GetString("id")
	if !ok {
		return nil, fmt.Errorf("%w: item has no ExtraAttributes.id string", ErrMalformedPayload)
	}

	count := 1
	if countTag, present := item.Get("Count"); present {
		if n, ok := nbt.AsInt(countTag); ok {
			count = n
		} else {
			d.logger.Warn("unrecognized Count encoding, defaulting to 1",
				"item_id", id,
				"tag_type", countTag.Type().String(),
			)
		}
	}

	return &Record{ID: id, Count: count, Item: item}, nil
}

// parseGzipped attempts the gzip-wrapped encoding. A nil compound means the
// attempt failed with the returned cause.
func parseGzipped(raw []byte) (*nbt.Compound, error) {
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("gzip open: %w", err)
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gzip read: %w", err)
	}

	root, err := nbt.Parse(plain)
	if err != nil {
		return nil, fmt.Errorf("parse decompressed: %w", err)
	}
	return root, nil
}
