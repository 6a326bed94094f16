package state

import (
	"fmt"
	"strconv"
)

// VarType tags the payload of a Var.
type VarType uint8

const (
	VarFloat64 VarType = iota + 1
	VarInt64
	VarString
	VarBool
)

// String returns the type name.
func (t VarType) String() string {
	switch t {
	case VarFloat64:
		return "float64"
	case VarInt64:
		return "int64"
	case VarString:
		return "string"
	case VarBool:
		return "bool"
	default:
		return fmt.Sprintf("VarType(%d)", uint8(t))
	}
}

// Var is a tagged property value.
type Var struct {
	typ VarType
	num float64
	i   int64
	str string
	b   bool
}

// Float64 wraps a float64.
func Float64(v float64) Var { return Var{typ: VarFloat64, num: v} }

// Int64 wraps an int64.
func Int64(v int64) Var { return Var{typ: VarInt64, i: v} }

// String wraps a string.
func String(v string) Var { return Var{typ: VarString, str: v} }

// Bool wraps a bool.
func Bool(v bool) Var { return Var{typ: VarBool, b: v} }

// Type returns the payload tag; the zero Var has type 0.
func (v Var) Type() VarType { return v.typ }

// AsFloat64 returns the payload if v holds a float64.
func (v Var) AsFloat64() (float64, bool) { return v.num, v.typ == VarFloat64 }

// AsInt64 returns the payload if v holds an int64.
func (v Var) AsInt64() (int64, bool) { return v.i, v.typ == VarInt64 }

// AsString returns the payload if v holds a string.
func (v Var) AsString() (string, bool) { return v.str, v.typ == VarString }

// AsBool returns the payload if v holds a bool.
func (v Var) AsBool() (bool, bool) { return v.b, v.typ == VarBool }

// String formats the payload for diagnostics.
func (v Var) String() string {
	switch v.typ {
	case VarFloat64:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case VarInt64:
		return strconv.FormatInt(v.i, 10)
	case VarString:
		return strconv.Quote(v.str)
	case VarBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}

// Property is a named value on a Node.
type Property struct {
	Name  string
	Value Var
}

// Node is one element of a state tree.
type Node struct {
	Type       string
	Properties []Property
	Children   []*Node
}

// NewNode returns an empty node of the given type.
func NewNode(typ string) *Node {
	return &Node{Type: typ}
}

// Set stores a property, replacing an existing one with the same name.
// It returns n for chaining.
func (n *Node) Set(name string, v Var) *Node {
	for i := range n.Properties {
		if n.Properties[i].Name == name {
			n.Properties[i].Value = v
			return n
		}
	}

	n.Properties = append(n.Properties, Property{Name: name, Value: v})

	return n
}

// Get returns the named property.
func (n *Node) Get(name string) (Var, bool) {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}

	return Var{}, false
}

// AddChild appends c and returns n.
func (n *Node) AddChild(c *Node) *Node {
	n.Children = append(n.Children, c)
	return n
}

// ChildrenOfType returns the direct children with the given type.
func (n *Node) ChildrenOfType(typ string) []*Node {
	var out []*Node

	for _, c := range n.Children {
		if c != nil && c.Type == typ {
			out = append(out, c)
		}
	}

	return out
}
