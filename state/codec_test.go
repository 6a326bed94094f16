package state

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Node {
	child := NewNode("PARAM").
		Set("id", String("drive")).
		Set("value", Float64(0.73))

	nested := NewNode("GROUP").
		Set("enabled", Bool(true)).
		AddChild(NewNode("LEAF").Set("count", Int64(-42)))

	return NewNode("ROOT").
		Set("version", Int64(1)).
		Set("name", String("überdrive")).
		Set("off", Bool(false)).
		Set("tiny", Float64(math.SmallestNonzeroFloat64)).
		AddChild(child).
		AddChild(nested)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	root := sampleTree()

	data, err := Encode(root)
	require.NoError(t, err)
	assert.Equal(t, "ODRV", string(data[:4]))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, root, got)

	again, err := Encode(got)
	require.NoError(t, err)
	assert.Equal(t, data, again, "re-encoding a decoded tree must be byte-identical")
}

func TestNodeSetReplaces(t *testing.T) {
	n := NewNode("X").Set("a", Int64(1)).Set("a", String("two"))
	require.Len(t, n.Properties, 1)

	v, ok := n.Get("a")
	require.True(t, ok)

	s, ok := v.AsString()
	require.True(t, ok)
	assert.Equal(t, "two", s)

	_, ok = v.AsFloat64()
	assert.False(t, ok)

	_, ok = n.Get("missing")
	assert.False(t, ok)
}

func TestEncodeRejectsInvalidTrees(t *testing.T) {
	_, err := Encode(nil)
	require.ErrorIs(t, err, ErrInvalidTree)

	_, err = Encode(NewNode(""))
	require.ErrorIs(t, err, ErrInvalidTree)

	_, err = Encode(NewNode("X").Set("", Int64(1)))
	require.ErrorIs(t, err, ErrInvalidTree)

	_, err = Encode(&Node{Type: "X", Properties: []Property{{Name: "p"}}})
	require.ErrorIs(t, err, ErrInvalidTree)

	_, err = Encode(NewNode("X").Set("s", String("\xff")))
	require.ErrorIs(t, err, ErrInvalidTree)

	_, err = Encode(&Node{Type: "X", Children: []*Node{nil}})
	require.ErrorIs(t, err, ErrInvalidTree)

	deep := NewNode("N")
	cur := deep
	for range maxDepth {
		next := NewNode("N")
		cur.AddChild(next)
		cur = next
	}
	_, err = Encode(deep)
	require.ErrorIs(t, err, ErrInvalidTree)
}

func TestDecodeRejectsEveryTruncation(t *testing.T) {
	data, err := Encode(sampleTree())
	require.NoError(t, err)

	for n := range len(data) {
		_, err := Decode(data[:n])
		require.ErrorIs(t, err, ErrCorruptState, "prefix of %d bytes decoded", n)
	}
}

func TestDecodeRejectsMalformedBlobs(t *testing.T) {
	valid, err := Encode(NewNode("R").Set("v", Float64(1)))
	require.NoError(t, err)

	badMagic := append([]byte(nil), valid...)
	badMagic[0] = 'X'

	newer := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(newer[4:8], formatVersion+1)

	trailing := append(append([]byte(nil), valid...), 0)

	// Header, type "R", one property "v" with tag 9.
	unknownTag := []byte("ODRV")
	unknownTag = binary.LittleEndian.AppendUint32(unknownTag, formatVersion)
	unknownTag = append(unknownTag, 1, 'R', 1, 1, 'v', 9, 0)

	// Header, type "R", one bool property with byte 2.
	badBool := []byte("ODRV")
	badBool = binary.LittleEndian.AppendUint32(badBool, formatVersion)
	badBool = append(badBool, 1, 'R', 1, 1, 'b', byte(VarBool), 2, 0)

	// Header, type "R", zero properties, a child count far beyond the data.
	hugeCount := []byte("ODRV")
	hugeCount = binary.LittleEndian.AppendUint32(hugeCount, formatVersion)
	hugeCount = append(hugeCount, 1, 'R', 0)
	hugeCount = binary.AppendUvarint(hugeCount, 1<<40)

	cases := map[string][]byte{
		"empty":       nil,
		"bad magic":   badMagic,
		"newer":       newer,
		"trailing":    trailing,
		"unknown tag": unknownTag,
		"bad bool":    badBool,
		"huge count":  hugeCount,
		"random":      []byte{0x13, 0x37, 0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02},
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(data)
			require.ErrorIs(t, err, ErrCorruptState)

			var cse *CorruptStateError
			require.ErrorAs(t, err, &cse)
			assert.NotEmpty(t, cse.Reason)
		})
	}
}

func TestDecodeRejectsDeepNesting(t *testing.T) {
	data := []byte("ODRV")
	data = binary.LittleEndian.AppendUint32(data, formatVersion)

	const depth = maxDepth + 8
	for range depth - 1 {
		data = append(data, 1, 'N', 0, 1)
	}
	data = append(data, 1, 'N', 0, 0)

	_, err := Decode(data)
	require.ErrorIs(t, err, ErrCorruptState)
	assert.Contains(t, err.Error(), "nesting")
}
