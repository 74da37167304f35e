package rtlir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigSpecBasics(t *testing.T) {
	w := &Wire{Name: "\\w", Width: 4}
	s := WireSpec(w)

	assert.Equal(t, 4, s.Size())
	assert.Equal(t, SigBit{Wire: w, Offset: 2}, s[2])

	slice := s.Extract(1, 2)
	assert.True(t, slice.Equal(S(WireBit(w, 1), WireBit(w, 2))))

	// Extract copies: mutating the slice leaves the original alone
	slice[0] = Bit(S1)
	assert.Equal(t, SigBit{Wire: w, Offset: 1}, s[1])

	cat := Cat(s.Extract(0, 2), ConstSpec(S0, S1))
	assert.Equal(t, 4, cat.Size())
	assert.Equal(t, Bit(S1), cat[3])

	tail := cat.RemoveTail()
	assert.Equal(t, 3, tail.Size())

	rev := S(Bit(S0), Bit(S1)).Reversed()
	assert.True(t, rev.Equal(S(Bit(S1), Bit(S0))))
}

func TestSigBitString(t *testing.T) {
	w1 := &Wire{Name: "\\a", Width: 1}
	w4 := &Wire{Name: "\\b", Width: 4}

	assert.Equal(t, "\\a", WireBit(w1, 0).String())
	assert.Equal(t, "\\b[3]", WireBit(w4, 3).String())
	assert.Equal(t, "1", Bit(S1).String())
	assert.Equal(t, "x", Bit(Sx).String())
}

func TestConstInt(t *testing.T) {
	c := IntConst(5, 4)
	assert.Equal(t, 4, c.Width())
	assert.Equal(t, 5, c.AsInt())
	assert.Equal(t, "0101", c.AsString())
	assert.True(t, c.AsBool())
	assert.False(t, IntConst(0, 8).AsBool())
}

func TestConstString(t *testing.T) {
	c := StringConst("ab")
	require.Equal(t, 16, c.Width())
	assert.Equal(t, ConstFlagString, c.Flags)
	assert.Equal(t, "ab", c.DecodeString())
}

func TestEscapeID(t *testing.T) {
	assert.Equal(t, "\\foo", EscapeID("foo"))
	assert.Equal(t, "\\foo", EscapeID("\\foo"))
	assert.Equal(t, "$auto$1", EscapeID("$auto$1"))
	assert.Equal(t, "foo", UnescapeID("\\foo"))
	assert.Equal(t, "$auto$1", UnescapeID("$auto$1"))
}
