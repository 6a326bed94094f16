package state

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-overdrive/dsp/core"
	"github.com/cwbudde/algo-overdrive/param"
)

// Tree vocabulary written by Manager.
const (
	RootType     = "OVERDRIVE"
	ParamType    = "PARAM"
	PropVersion  = "version"
	PropID       = "id"
	PropValue    = "value"
	stateVersion = 1
)

// Manager saves and restores the values of a param.Store. It does not own
// the Store.
type Manager struct {
	store *param.Store
}

// NewManager returns a Manager bound to store.
func NewManager(store *param.Store) *Manager {
	return &Manager{store: store}
}

// Tree builds the state tree for the current values, one PARAM child per
// parameter in declaration order.
func (m *Manager) Tree() *Node {
	root := NewNode(RootType).Set(PropVersion, Int64(stateVersion))

	for _, p := range m.store.Params() {
		child := NewNode(ParamType).
			Set(PropID, String(p.Name())).
			Set(PropValue, Float64(p.Value()))
		root.AddChild(child)
	}

	return root
}

// Serialize encodes the current parameter values.
func (m *Manager) Serialize() ([]byte, error) {
	return Encode(m.Tree())
}

// Deserialize restores parameter values from a blob.
//
// The blob is decoded and validated completely first; on any failure the
// returned error wraps ErrCorruptState and the Store is left unchanged.
// Parameters absent from the blob keep their value, unknown ids are ignored
// and values are clamped to their declared ranges.
func (m *Manager) Deserialize(data []byte) error {
	root, err := Decode(data)
	if err != nil {
		return err
	}

	values, err := extractValues(root)
	if err != nil {
		return err
	}

	if err := m.store.Apply(values); err != nil {
		return fmt.Errorf("state: apply: %w", err)
	}

	return nil
}

// Save writes the serialized state to w.
func (m *Manager) Save(w io.Writer) error {
	data, err := m.Serialize()
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Load reads all of r and restores it with Deserialize.
func (m *Manager) Load(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	return m.Deserialize(data)
}

func extractValues(root *Node) (map[string]float64, error) {
	if root.Type != RootType {
		return nil, corrupt(-1, "root node type %q, want %q", root.Type, RootType)
	}

	if v, ok := root.Get(PropVersion); ok {
		version, isInt := v.AsInt64()
		if !isInt || version < 1 || version > stateVersion {
			return nil, corrupt(-1, "unsupported state version %s", v)
		}
	}

	params := root.ChildrenOfType(ParamType)
	values := make(map[string]float64, len(params))

	for i, child := range params {
		idVar, ok := child.Get(PropID)
		if !ok {
			return nil, corrupt(-1, "PARAM %d has no %q", i, PropID)
		}

		id, ok := idVar.AsString()
		if !ok || id == "" {
			return nil, corrupt(-1, "PARAM %d id is %s, want non-empty string", i, idVar.Type())
		}

		valueVar, ok := child.Get(PropValue)
		if !ok {
			return nil, corrupt(-1, "PARAM %q has no %q", id, PropValue)
		}

		value, ok := valueVar.AsFloat64()
		if !ok {
			return nil, corrupt(-1, "PARAM %q value is %s, want float64", id, valueVar.Type())
		}

		if !core.IsFinite(value) {
			return nil, corrupt(-1, "PARAM %q value is not finite", id)
		}

		if _, dup := values[id]; dup {
			return nil, corrupt(-1, "PARAM %q appears twice", id)
		}

		values[id] = value
	}

	return values, nil
}
