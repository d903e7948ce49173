package nbt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// maxDepth bounds nesting so a malformed payload cannot exhaust the stack.
const maxDepth = 512

// Parse decodes data as a named root compound tag.
func Parse(data []byte) (*Compound, error) {
	return Read(bytes.NewReader(data))
}

// Read decodes a named root compound tag from r.
func Read(r io.Reader) (*Compound, error) {
	d := &decoder{r: r}

	typ, err := d.readType()
	if err != nil {
		return nil, fmt.Errorf("read root type: %w", err)
	}
	if typ != TypeCompound {
		return nil, fmt.Errorf("root tag is %s, want compound", typ)
	}
	// Root name is present on the wire but carries no meaning here.
	if _, err := d.readString(); err != nil {
		return nil, fmt.Errorf("read root name: %w", err)
	}

	root, err := d.readCompound(0)
	if err != nil {
		return nil, err
	}
	return root, nil
}

type decoder struct {
	r   io.Reader
	buf [8]byte
}

func (d *decoder) readN(n int) ([]byte, error) {
	b := d.buf[:n]
	if _, err := io.ReadFull(d.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return b, nil
}

func (d *decoder) readType() (TagType, error) {
	b, err := d.readN(1)
	if err != nil {
		return TypeEnd, err
	}
	t := TagType(b[0])
	if t > TypeLongArray {
		return TypeEnd, fmt.Errorf("unknown tag type 0x%02x", b[0])
	}
	return t, nil
}

func (d *decoder) readString() (string, error) {
	b, err := d.readN(2)
	if err != nil {
		return "", err
	}
	n := int(binary.BigEndian.Uint16(b))
	if n == 0 {
		return "", nil
	}
	s := make([]byte, n)
	if _, err := io.ReadFull(d.r, s); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return "", err
	}
	return string(s), nil
}

func (d *decoder) readCompound(depth int) (*Compound, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("compound nesting exceeds %d levels", maxDepth)
	}

	c := NewCompound()
	for {
		typ, err := d.readType()
		if err != nil {
			return nil, err
		}
		if typ == TypeEnd {
			return c, nil
		}

		name, err := d.readString()
		if err != nil {
			return nil, fmt.Errorf("read name of %s tag: %w", typ, err)
		}
		tag, err := d.readPayload(typ, depth+1)
		if err != nil {
			return nil, fmt.Errorf("read %q: %w", name, err)
		}
		c.Set(name, tag)
	}
}

func (d *decoder) readPayload(typ TagType, depth int) (Tag, error) {
	switch typ {
	case TypeByte:
		b, err := d.readN(1)
		if err != nil {
			return nil, err
		}
		return Byte(b[0]), nil

	case TypeShort:
		b, err := d.readN(2)
		if err != nil {
			return nil, err
		}
		return Short(binary.BigEndian.Uint16(b)), nil

	case TypeInt:
		b, err := d.readN(4)
		if err != nil {
			return nil, err
		}
		return Int(binary.BigEndian.Uint32(b)), nil

	case TypeLong:
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return Long(binary.BigEndian.Uint64(b)), nil

	case TypeFloat:
		b, err := d.readN(4)
		if err != nil {
			return nil, err
		}
		return Float(math.Float32frombits(binary.BigEndian.Uint32(b))), nil

	case TypeDouble:
		b, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return Double(math.Float64frombits(binary.BigEndian.Uint64(b))), nil

	case TypeByteArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		arr := make(ByteArray, n)
		if _, err := io.ReadFull(d.r, arr); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		return arr, nil

	case TypeString:
		s, err := d.readString()
		if err != nil {
			return nil, err
		}
		return String(s), nil

	case TypeList:
		return d.readList(depth)

	case TypeCompound:
		return d.readCompound(depth)

	case TypeIntArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		arr := make(IntArray, n)
		for i := range arr {
			b, err := d.readN(4)
			if err != nil {
				return nil, err
			}
			arr[i] = int32(binary.BigEndian.Uint32(b))
		}
		return arr, nil

	case TypeLongArray:
		n, err := d.readLength()
		if err != nil {
			return nil, err
		}
		arr := make(LongArray, n)
		for i := range arr {
			b, err := d.readN(8)
			if err != nil {
				return nil, err
			}
			arr[i] = int64(binary.BigEndian.Uint64(b))
		}
		return arr, nil
	}

	return nil, fmt.Errorf("unsupported tag type %s", typ)
}

func (d *decoder) readList(depth int) (*List, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("list nesting exceeds %d levels", maxDepth)
	}

	elem, err := d.readType()
	if err != nil {
		return nil, err
	}
	n, err := d.readLength()
	if err != nil {
		return nil, err
	}

	l := &List{Elem: elem}
	if n == 0 {
		return l, nil
	}
	if elem == TypeEnd {
		return nil, fmt.Errorf("non-empty list of end tags (%d items)", n)
	}

	l.Items = make([]Tag, 0, min(n, 4096))
	for i := 0; i < n; i++ {
		item, err := d.readPayload(elem, depth+1)
		if err != nil {
			return nil, fmt.Errorf("read list item %d: %w", i, err)
		}
		l.Items = append(l.Items, item)
	}
	return l, nil
}

func (d *decoder) readLength() (int, error) {
	b, err := d.readN(4)
	if err != nil {
		return 0, err
	}
	n := int(int32(binary.BigEndian.Uint32(b)))
	if n < 0 {
		return 0, fmt.Errorf("negative length %d", n)
	}
	return n, nil
}
