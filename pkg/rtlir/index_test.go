package rtlir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigMapCanonicalization(t *testing.T) {
	m := NewModule("\\m")
	a := m.AddWire("\\a", 2)
	b := m.AddWire("\\b", 2)

	// b is an alias of a
	m.Connect(WireSpec(b), WireSpec(a))

	sm := NewSigMap(m)
	assert.Equal(t, sm.MapBit(WireBit(a, 0)), sm.MapBit(WireBit(b, 0)))
	assert.Equal(t, sm.MapBit(WireBit(a, 1)), sm.MapBit(WireBit(b, 1)))
	assert.NotEqual(t, sm.MapBit(WireBit(a, 0)), sm.MapBit(WireBit(a, 1)))
}

func TestSigMapConstantsAreSticky(t *testing.T) {
	m := NewModule("\\m")
	a := m.AddWire("\\a", 1)
	b := m.AddWire("\\b", 1)

	m.Connect(WireSpec(a), ConstSpec(S1))
	m.Connect(WireSpec(b), WireSpec(a))

	sm := NewSigMap(m)
	assert.Equal(t, Bit(S1), sm.MapBit(WireBit(a, 0)))
	assert.Equal(t, Bit(S1), sm.MapBit(WireBit(b, 0)))
}

func TestSigMapTransitiveChain(t *testing.T) {
	m := NewModule("\\m")
	var wires []*Wire
	for _, name := range []string{"\\w0", "\\w1", "\\w2", "\\w3"} {
		wires = append(wires, m.AddWire(name, 1))
	}
	for i := 1; i < len(wires); i++ {
		m.Connect(WireSpec(wires[i]), WireSpec(wires[i-1]))
	}

	sm := NewSigMap(m)
	root := sm.MapBit(WireBit(wires[0], 0))
	for _, w := range wires {
		assert.Equal(t, root, sm.MapBit(WireBit(w, 0)))
	}
}

func TestModuleIndexPortInfo(t *testing.T) {
	m := NewModule("\\m")
	a := m.AddWire("\\a", 2)
	a.PortID = 1
	a.PortInput = true
	y := m.AddWire("\\y", 2)
	y.PortID = 2
	y.PortOutput = true
	mid := m.AddWire("\\mid", 2)

	c1 := m.AddCell("\\c1", "$not")
	c1.SetPort("A", WireSpec(a))
	c1.SetPort("Y", WireSpec(mid))

	c2 := m.AddCell("\\c2", "$not")
	c2.SetPort("A", WireSpec(mid))
	c2.SetPort("Y", WireSpec(y))

	mi := NewModuleIndex(m)

	info := mi.Query(WireBit(a, 0))
	assert.True(t, info.IsInput)
	assert.False(t, info.IsOutput)
	require.Len(t, info.Ports, 1)
	assert.Equal(t, c1, info.Ports[0].Cell)
	assert.Equal(t, "A", info.Ports[0].Port)

	info = mi.Query(WireBit(mid, 1))
	assert.False(t, info.IsInput)
	assert.False(t, info.IsOutput)
	assert.Len(t, info.Ports, 2, "mid is written by c1 and read by c2")

	info = mi.Query(WireBit(y, 0))
	assert.True(t, info.IsOutput)
	assert.Len(t, info.Ports, 1)

	// unknown bits yield an empty record
	other := m.AddWire("\\other", 1)
	info = mi.Query(WireBit(other, 0))
	assert.False(t, info.IsInput)
	assert.Empty(t, info.Ports)
}

func TestModuleIndexFollowsConnections(t *testing.T) {
	m := NewModule("\\m")
	a := m.AddWire("\\a", 1)
	alias := m.AddWire("\\alias", 1)
	m.Connect(WireSpec(alias), WireSpec(a))

	c := m.AddCell("\\c", "$not")
	c.SetPort("A", WireSpec(alias))
	c.SetPort("Y", WireSpec(m.AddWire("\\y", 1)))

	mi := NewModuleIndex(m)

	// querying through either name reaches the same record
	assert.Len(t, mi.QueryPorts(WireBit(a, 0)), 1)
	assert.Len(t, mi.QueryPorts(WireBit(alias, 0)), 1)
}

func TestNewIDUnique(t *testing.T) {
	m := NewModule("\\m")
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id := m.NewID("test")
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestSwapNames(t *testing.T) {
	m := NewModule("\\m")
	a := m.AddWire("\\a", 4)
	b := m.AddWire("\\b", 2)

	m.SwapNames(a, b)

	assert.Equal(t, "\\b", a.Name)
	assert.Equal(t, "\\a", b.Name)
	assert.Equal(t, a, m.Wires["\\b"])
	assert.Equal(t, b, m.Wires["\\a"])
}

func TestValidate(t *testing.T) {
	m := NewModule("\\m")
	a := m.AddWire("\\a", 2)

	c := m.AddCell("\\c", "$not")
	c.SetPort("A", S(SigBit{Wire: a, Offset: 5}))
	c.SetPort("Y", WireSpec(m.AddWire("\\y", 1)))

	err := m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestSelection(t *testing.T) {
	d := NewDesign()
	m1 := d.AddModule("\\m1")
	m1.AddCell("\\c1", "$not")
	m1.AddCell("\\c2", "$not")
	m2 := d.AddModule("\\m2")
	m2.AddCell("\\c3", "$not")

	full := FullSelection()
	assert.Len(t, full.SelectedModules(d), 2)
	assert.Len(t, full.SelectedCells(m1), 2)

	sel := ParseSelection([]string{"m1/c1"})
	assert.Len(t, sel.SelectedModules(d), 1)
	cells := sel.SelectedCells(m1)
	require.Len(t, cells, 1)
	assert.Equal(t, "\\c1", cells[0].Name)

	modSel := ParseSelection([]string{"m2"})
	assert.Len(t, modSel.SelectedCells(m2), 1)
	assert.Empty(t, modSel.SelectedCells(m1))
}
