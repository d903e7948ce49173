package nbt

// TagType identifies the wire type of a tag.
type TagType byte

const (
	TypeEnd TagType = iota
	TypeByte
	TypeShort
	TypeInt
	TypeLong
	TypeFloat
	TypeDouble
	TypeByteArray
	TypeString
	TypeList
	TypeCompound
	TypeIntArray
	TypeLongArray
)

func (t TagType) String() string {
	switch t {
	case TypeEnd:
		return "end"
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeInt:
		return "int"
	case TypeLong:
		return "long"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	case TypeByteArray:
		return "byte_array"
	case TypeString:
		return "string"
	case TypeList:
		return "list"
	case TypeCompound:
		return "compound"
	case TypeIntArray:
		return "int_array"
	case TypeLongArray:
		return "long_array"
	}
	return "invalid"
}

// Tag is implemented by every tag variant.
type Tag interface {
	Type() TagType
}

type Byte int8
type Short int16
type Int int32
type Long int64
type Float float32
type Double float64
type String string
type ByteArray []byte
type IntArray []int32
type LongArray []int64

func (Byte) Type() TagType      { return TypeByte }
func (Short) Type() TagType     { return TypeShort }
func (Int) Type() TagType       { return TypeInt }
func (Long) Type() TagType      { return TypeLong }
func (Float) Type() TagType     { return TypeFloat }
func (Double) Type() TagType    { return TypeDouble }
func (String) Type() TagType    { return TypeString }
func (ByteArray) Type() TagType { return TypeByteArray }
func (IntArray) Type() TagType  { return TypeIntArray }
func (LongArray) Type() TagType { return TypeLongArray }

// List holds a homogeneous sequence of tags.
type List struct {
	Elem  TagType
	Items []Tag
}

func (*List) Type() TagType { return TypeList }

// Len returns the number of items in the list.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Items)
}

// CompoundAt returns the i-th item as a compound.
func (l *List) CompoundAt(i int) (*Compound, bool) {
	if l == nil || i < 0 || i >= len(l.Items) {
		return nil, false
	}
	c, ok := l.Items[i].(*Compound)
	return c, ok
}

// Compound is an ordered map of named tags. Key order is wire order.
type Compound struct {
	keys []string
	vals map[string]Tag
}

func (*Compound) Type() TagType { return TypeCompound }

// NewCompound returns an empty compound.
func NewCompound() *Compound {
	return &Compound{vals: make(map[string]Tag)}
}

// Set stores a tag under name, appending to key order if the name is new.
func (c *Compound) Set(name string, tag Tag) {
	if c.vals == nil {
		c.vals = make(map[string]Tag)
	}
	if _, exists := c.vals[name]; !exists {
		c.keys = append(c.keys, name)
	}
	c.vals[name] = tag
}

// Keys returns the compound's keys in wire order.
func (c *Compound) Keys() []string {
	if c == nil {
		return nil
	}
	return c.keys
}

// Len returns the number of entries.
func (c *Compound) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Get returns the raw tag stored under name.
func (c *Compound) Get(name string) (Tag, bool) {
	if c == nil {
		return nil, false
	}
	t, ok := c.vals[name]
	return t, ok
}

// GetCompound returns the named entry if it is a compound.
func (c *Compound) GetCompound(name string) (*Compound, bool) {
	t, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	child, ok := t.(*Compound)
	return child, ok
}

// GetList returns the named entry if it is a list.
func (c *Compound) GetList(name string) (*List, bool) {
	t, ok := c.Get(name)
	if !ok {
		return nil, false
	}
	l, ok := t.(*List)
	return l, ok
}

// GetString returns the named entry if it is a string.
func (c *Compound) GetString(name string) (string, bool) {
	t, ok := c.Get(name)
	if !ok {
		return "", false
	}
	s, ok := t.(String)
	return string(s), ok
}

// GetInt returns the named entry if it holds an integral value of any width.
func (c *Compound) GetInt(name string) (int, bool) {
	t, ok := c.Get(name)
	if !ok {
		return 0, false
	}
	return AsInt(t)
}

// AsInt widens any integral tag to int. Non-integral tags report false.
func AsInt(t Tag) (int, bool) {
	switch v := t.(type) {
	case Byte:
		return int(v), true
	case Short:
		return int(v), true
	case Int:
		return int(v), true
	case Long:
		return int(v), true
	}
	return 0, false
}
