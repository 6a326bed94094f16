package state

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	magic         = "ODRV"
	formatVersion = uint32(1)
	maxDepth      = 32
	headerSize    = len(magic) + 4
)

// Encode serializes a tree.
//
// Layout, little endian: magic "ODRV", uint32 format version, then the root
// node. A node is its type string, a uvarint property count, the properties,
// a uvarint child count and the children. A property is its name string, one
// tag byte and the payload: 8 bytes of float64 bits, a zigzag varint, a
// string, or one bool byte. Strings are a uvarint length plus UTF-8 bytes.
func Encode(root *Node) ([]byte, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil root", ErrInvalidTree)
	}

	buf := make([]byte, 0, 128)
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint32(buf, formatVersion)

	return appendNode(buf, root, 1)
}

func appendNode(buf []byte, n *Node, depth int) ([]byte, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidTree, maxDepth)
	}

	if n.Type == "" {
		return nil, fmt.Errorf("%w: empty node type", ErrInvalidTree)
	}

	var err error

	buf, err = appendString(buf, n.Type)
	if err != nil {
		return nil, err
	}

	buf = binary.AppendUvarint(buf, uint64(len(n.Properties)))
	for _, p := range n.Properties {
		buf, err = appendProperty(buf, p)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Type, err)
		}
	}

	buf = binary.AppendUvarint(buf, uint64(len(n.Children)))
	for _, c := range n.Children {
		if c == nil {
			return nil, fmt.Errorf("%w: nil child of %q", ErrInvalidTree, n.Type)
		}

		buf, err = appendNode(buf, c, depth+1)
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}

func appendProperty(buf []byte, p Property) ([]byte, error) {
	if p.Name == "" {
		return nil, fmt.Errorf("%w: empty property name", ErrInvalidTree)
	}

	buf, err := appendString(buf, p.Name)
	if err != nil {
		return nil, err
	}

	v := p.Value
	buf = append(buf, byte(v.typ))

	switch v.typ {
	case VarFloat64:
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v.num))
	case VarInt64:
		buf = binary.AppendVarint(buf, v.i)
	case VarString:
		return appendString(buf, v.str)
	case VarBool:
		if v.b {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	default:
		return nil, fmt.Errorf("%w: property %q has no value", ErrInvalidTree, p.Name)
	}

	return buf, nil
}

func appendString(buf []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("%w: invalid UTF-8 string %q", ErrInvalidTree, s)
	}

	buf = binary.AppendUvarint(buf, uint64(len(s)))

	return append(buf, s...), nil
}

// Decode parses a blob produced by Encode. Every failure is a
// *CorruptStateError wrapping ErrCorruptState.
func Decode(data []byte) (*Node, error) {
	if len(data) < headerSize {
		return nil, corrupt(-1, "blob shorter than header (%d bytes)", len(data))
	}

	if string(data[:len(magic)]) != magic {
		return nil, corrupt(0, "bad magic %q", data[:len(magic)])
	}

	version := binary.LittleEndian.Uint32(data[len(magic):headerSize])
	if version == 0 || version > formatVersion {
		return nil, corrupt(len(magic), "unsupported format version %d", version)
	}

	d := decoder{data: data, pos: headerSize}

	root, err := d.node(1)
	if err != nil {
		return nil, err
	}

	if d.pos != len(data) {
		return nil, corrupt(d.pos, "%d trailing bytes", len(data)-d.pos)
	}

	return root, nil
}

type decoder struct {
	data []byte
	pos  int
}

func (d *decoder) remaining() int { return len(d.data) - d.pos }

func (d *decoder) node(depth int) (*Node, error) {
	if depth > maxDepth {
		return nil, corrupt(d.pos, "nesting deeper than %d", maxDepth)
	}

	typ, err := d.string()
	if err != nil {
		return nil, err
	}

	if typ == "" {
		return nil, corrupt(d.pos, "empty node type")
	}

	n := &Node{Type: typ}

	// Every property and child occupies at least one byte, which bounds the
	// counts by the bytes left.
	propCount, err := d.count()
	if err != nil {
		return nil, err
	}

	if propCount > 0 {
		n.Properties = make([]Property, 0, propCount)
	}

	for range propCount {
		p, err := d.property()
		if err != nil {
			return nil, err
		}

		n.Properties = append(n.Properties, p)
	}

	childCount, err := d.count()
	if err != nil {
		return nil, err
	}

	if childCount > 0 {
		n.Children = make([]*Node, 0, childCount)
	}

	for range childCount {
		c, err := d.node(depth + 1)
		if err != nil {
			return nil, err
		}

		n.Children = append(n.Children, c)
	}

	return n, nil
}

func (d *decoder) property() (Property, error) {
	name, err := d.string()
	if err != nil {
		return Property{}, err
	}

	if name == "" {
		return Property{}, corrupt(d.pos, "empty property name")
	}

	if d.remaining() < 1 {
		return Property{}, corrupt(d.pos, "truncated property %q", name)
	}

	tagPos := d.pos
	tag := VarType(d.data[d.pos])
	d.pos++

	var v Var

	switch tag {
	case VarFloat64:
		if d.remaining() < 8 {
			return Property{}, corrupt(d.pos, "truncated float64 in %q", name)
		}

		v = Float64(math.Float64frombits(binary.LittleEndian.Uint64(d.data[d.pos:])))
		d.pos += 8
	case VarInt64:
		i, n := binary.Varint(d.data[d.pos:])
		if n <= 0 {
			return Property{}, corrupt(d.pos, "bad varint in %q", name)
		}

		v = Int64(i)
		d.pos += n
	case VarString:
		s, err := d.string()
		if err != nil {
			return Property{}, err
		}

		v = String(s)
	case VarBool:
		if d.remaining() < 1 {
			return Property{}, corrupt(d.pos, "truncated bool in %q", name)
		}

		switch d.data[d.pos] {
		case 0:
			v = Bool(false)
		case 1:
			v = Bool(true)
		default:
			return Property{}, corrupt(d.pos, "bad bool byte %d in %q", d.data[d.pos], name)
		}
		d.pos++
	default:
		return Property{}, corrupt(tagPos, "unknown value tag %d in %q", uint8(tag), name)
	}

	return Property{Name: name, Value: v}, nil
}

func (d *decoder) uvarint() (uint64, error) {
	v, n := binary.Uvarint(d.data[d.pos:])
	if n <= 0 {
		return 0, corrupt(d.pos, "bad uvarint")
	}

	d.pos += n

	return v, nil
}

func (d *decoder) count() (int, error) {
	start := d.pos

	v, err := d.uvarint()
	if err != nil {
		return 0, err
	}

	if v > uint64(d.remaining()) {
		return 0, corrupt(start, "count %d exceeds remaining %d bytes", v, d.remaining())
	}

	return int(v), nil
}

func (d *decoder) string() (string, error) {
	start := d.pos

	n, err := d.uvarint()
	if err != nil {
		return "", err
	}

	if n > uint64(d.remaining()) {
		return "", corrupt(start, "string length %d exceeds remaining %d bytes", n, d.remaining())
	}

	s := string(d.data[d.pos : d.pos+int(n)])
	if !utf8.ValidString(s) {
		return "", corrupt(d.pos, "invalid UTF-8")
	}

	d.pos += int(n)

	return s, nil
}
