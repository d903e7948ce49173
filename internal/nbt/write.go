package nbt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Marshal encodes root as a named root compound and returns the bytes.
func Marshal(root *Compound) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write encodes root as a named root compound (empty name) to w.
func Write(w io.Writer, root *Compound) error {
	e := &encoder{w: w}
	e.writeByte(byte(TypeCompound))
	e.writeString("")
	e.writeCompound(root)
	return e.err
}

type encoder struct {
	w   io.Writer
	err error
	buf [8]byte
}

func (e *encoder) write(b []byte) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.Write(b)
}

func (e *encoder) writeByte(b byte) {
	e.buf[0] = b
	e.write(e.buf[:1])
}

func (e *encoder) writeUint16(v uint16) {
	binary.BigEndian.PutUint16(e.buf[:2], v)
	e.write(e.buf[:2])
}

func (e *encoder) writeUint32(v uint32) {
	binary.BigEndian.PutUint32(e.buf[:4], v)
	e.write(e.buf[:4])
}

func (e *encoder) writeUint64(v uint64) {
	binary.BigEndian.PutUint64(e.buf[:8], v)
	e.write(e.buf[:8])
}

func (e *encoder) writeString(s string) {
	e.writeUint16(uint16(len(s)))
	e.write([]byte(s))
}

func (e *encoder) writeCompound(c *Compound) {
	for _, name := range c.Keys() {
		tag, _ := c.Get(name)
		e.writeByte(byte(tag.Type()))
		e.writeString(name)
		e.writePayload(tag)
	}
	e.writeByte(byte(TypeEnd))
}

func (e *encoder) writePayload(tag Tag) {
	switch v := tag.(type) {
	case Byte:
		e.writeByte(byte(v))
	case Short:
		e.writeUint16(uint16(v))
	case Int:
		e.writeUint32(uint32(v))
	case Long:
		e.writeUint64(uint64(v))
	case Float:
		e.writeUint32(math.Float32bits(float32(v)))
	case Double:
		e.writeUint64(math.Float64bits(float64(v)))
	case String:
		e.writeString(string(v))
	case ByteArray:
		e.writeUint32(uint32(len(v)))
		e.write(v)
	case IntArray:
		e.writeUint32(uint32(len(v)))
		for _, n := range v {
			e.writeUint32(uint32(n))
		}
	case LongArray:
		e.writeUint32(uint32(len(v)))
		for _, n := range v {
			e.writeUint64(uint64(n))
		}
	case *List:
		e.writeByte(byte(v.Elem))
		e.writeUint32(uint32(len(v.Items)))
		for _, item := range v.Items {
			e.writePayload(item)
		}
	case *Compound:
		e.writeCompound(v)
	default:
		if e.err == nil {
			e.err = fmt.Errorf("cannot encode tag type %T", tag)
		}
	}
}
