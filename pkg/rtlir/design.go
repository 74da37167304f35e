// Package rtlir holds the register-transfer-level intermediate
// representation: designs, modules, wires, cells, bit-level signal
// references, and the derived structures (sigmap, module index) the
// optimization passes and netlist backends work over.
package rtlir

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Well-known parameter names.
const (
	ParamASigned = "A_SIGNED"
	ParamBSigned = "B_SIGNED"
	ParamAWidth  = "A_WIDTH"
	ParamBWidth  = "B_WIDTH"
	ParamSWidth  = "S_WIDTH"
	ParamYWidth  = "Y_WIDTH"
	ParamWidth   = "WIDTH"
	ParamLUT     = "LUT"
)

// Well-known attribute names.
const (
	AttrTop        = "top"
	AttrBlackbox   = "blackbox"
	AttrSrc        = "src"
	AttrUnusedBits = "unused_bits"
)

// Design is a collection of modules, keyed by unique name.
type Design struct {
	Modules map[string]*Module
}

// NewDesign returns an empty design.
func NewDesign() *Design {
	return &Design{Modules: make(map[string]*Module)}
}

// AddModule creates and registers an empty module.
func (d *Design) AddModule(name string) *Module {
	m := NewModule(name)
	d.Modules[name] = m
	return m
}

// SortedModules returns the modules ordered by name. All iteration over a
// design uses this order so output and logs are reproducible.
func (d *Design) SortedModules() []*Module {
	names := make([]string, 0, len(d.Modules))
	for n := range d.Modules {
		names = append(names, n)
	}
	sort.Strings(names)
	mods := make([]*Module, len(names))
	for i, n := range names {
		mods[i] = d.Modules[n]
	}
	return mods
}

// TopModule returns the module flagged with the top attribute, or nil.
func (d *Design) TopModule() *Module {
	for _, m := range d.SortedModules() {
		if m.GetBoolAttribute(AttrTop) {
			return m
		}
	}
	return nil
}

// Module is a named container of wires, cells, and connection statements.
type Module struct {
	Name        string
	Wires       map[string]*Wire
	Cells       map[string]*Cell
	Connections []Connection
	Attributes  map[string]Const

	// Processes and Memories hold the names of unmapped behavioral
	// constructs. Passes that require a fully lowered module reject any
	// module where these are non-empty.
	Processes map[string]struct{}
	Memories  map[string]struct{}

	autoIdx int
}

// Connection is one connection statement: every bit of LHS is driven by the
// corresponding bit of RHS. Both sides have equal width.
type Connection struct {
	LHS SigSpec
	RHS SigSpec
}

// NewModule returns an empty module.
func NewModule(name string) *Module {
	return &Module{
		Name:       name,
		Wires:      make(map[string]*Wire),
		Cells:      make(map[string]*Cell),
		Attributes: make(map[string]Const),
		Processes:  make(map[string]struct{}),
		Memories:   make(map[string]struct{}),
	}
}

// GetBoolAttribute reads an attribute as a flag.
func (m *Module) GetBoolAttribute(name string) bool {
	c, ok := m.Attributes[name]
	return ok && c.AsBool()
}

// AddWire creates and registers a wire of the given width.
func (m *Module) AddWire(name string, width int) *Wire {
	w := &Wire{Name: name, Width: width, Attributes: make(map[string]Const)}
	m.Wires[name] = w
	return w
}

// AddCell creates and registers a cell of the given type.
func (m *Module) AddCell(name, typ string) *Cell {
	c := &Cell{
		Name:       name,
		Type:       typ,
		Ports:      make(map[string]SigSpec),
		Parameters: make(map[string]Const),
	}
	m.Cells[name] = c
	return c
}

// RemoveCell unregisters a cell.
func (m *Module) RemoveCell(c *Cell) {
	delete(m.Cells, c.Name)
}

// Connect appends a connection statement driving lhs from rhs.
func (m *Module) Connect(lhs, rhs SigSpec) {
	if len(lhs) != len(rhs) {
		panic(fmt.Sprintf("rtlir: connection width mismatch in %s: %d vs %d", m.Name, len(lhs), len(rhs)))
	}
	m.Connections = append(m.Connections, Connection{LHS: lhs, RHS: rhs})
}

// SwapNames exchanges the names of two wires, keeping the registry
// consistent. SigSpecs keep referring to the same *Wire values, so existing
// references follow the rename.
func (m *Module) SwapNames(a, b *Wire) {
	a.Name, b.Name = b.Name, a.Name
	m.Wires[a.Name] = a
	m.Wires[b.Name] = b
}

// NewID returns a fresh autogenerated identifier unique within the module.
func (m *Module) NewID(tag string) string {
	for {
		m.autoIdx++
		name := fmt.Sprintf("$auto$%s$%d", tag, m.autoIdx)
		if _, taken := m.Wires[name]; taken {
			continue
		}
		if _, taken := m.Cells[name]; taken {
			continue
		}
		return name
	}
}

// SortedCells returns the cells ordered by name.
func (m *Module) SortedCells() []*Cell {
	names := make([]string, 0, len(m.Cells))
	for n := range m.Cells {
		names = append(names, n)
	}
	sort.Strings(names)
	cells := make([]*Cell, len(names))
	for i, n := range names {
		cells[i] = m.Cells[n]
	}
	return cells
}

// SortedWires returns the wires ordered by name.
func (m *Module) SortedWires() []*Wire {
	names := make([]string, 0, len(m.Wires))
	for n := range m.Wires {
		names = append(names, n)
	}
	sort.Strings(names)
	wires := make([]*Wire, len(names))
	for i, n := range names {
		wires[i] = m.Wires[n]
	}
	return wires
}

// Validate checks the structural invariants that loaders guarantee: port
// SigSpecs stay inside the module, connection sides have equal widths, wire
// offsets are in range.
func (m *Module) Validate() error {
	checkSpec := func(where string, s SigSpec) error {
		for _, bit := range s {
			if bit.Wire == nil {
				continue
			}
			if m.Wires[bit.Wire.Name] != bit.Wire {
				return errors.Errorf("%s: reference to foreign wire %s", where, bit.Wire.Name)
			}
			if bit.Offset < 0 || bit.Offset >= bit.Wire.Width {
				return errors.Errorf("%s: bit %d out of range for wire %s (width %d)",
					where, bit.Offset, bit.Wire.Name, bit.Wire.Width)
			}
		}
		return nil
	}
	for _, c := range m.SortedCells() {
		for _, port := range c.SortedPortNames() {
			if err := checkSpec(fmt.Sprintf("%s.%s port %s", m.Name, c.Name, port), c.Ports[port]); err != nil {
				return err
			}
		}
	}
	for i, conn := range m.Connections {
		if len(conn.LHS) != len(conn.RHS) {
			return errors.Errorf("%s: connection %d width mismatch: %d vs %d",
				m.Name, i, len(conn.LHS), len(conn.RHS))
		}
		if err := checkSpec(fmt.Sprintf("%s connection %d", m.Name, i), Cat(conn.LHS, conn.RHS)); err != nil {
			return err
		}
	}
	return nil
}

// Wire is a named bundle of bits. PortID is 0 for internal wires and the
// 1-based declaration position for ports.
type Wire struct {
	Name       string
	Width      int
	PortID     int
	PortInput  bool
	PortOutput bool
	Attributes map[string]Const
}

// NontrivialAttrCount counts attributes other than src and unused_bits.
func (w *Wire) NontrivialAttrCount() int {
	count := len(w.Attributes)
	if _, ok := w.Attributes[AttrSrc]; ok {
		count--
	}
	if _, ok := w.Attributes[AttrUnusedBits]; ok {
		count--
	}
	return count
}

// Cell is an instance of a builtin primitive (type starts with "$") or of
// another module in the design.
type Cell struct {
	Name       string
	Type       string
	Ports      map[string]SigSpec
	Parameters map[string]Const
}

// HasPort reports whether the port is connected.
func (c *Cell) HasPort(name string) bool {
	_, ok := c.Ports[name]
	return ok
}

// GetPort returns the SigSpec bound to the port, or nil.
func (c *Cell) GetPort(name string) SigSpec {
	return c.Ports[name]
}

// SetPort binds the port to a SigSpec.
func (c *Cell) SetPort(name string, s SigSpec) {
	c.Ports[name] = s
}

// GetParam returns a parameter value. The second result is false when the
// parameter is absent.
func (c *Cell) GetParam(name string) (Const, bool) {
	v, ok := c.Parameters[name]
	return v, ok
}

// ParamBool reads a parameter as a flag; absent parameters read false.
func (c *Cell) ParamBool(name string) bool {
	v, ok := c.Parameters[name]
	return ok && v.AsBool()
}

// SetParam sets a parameter value.
func (c *Cell) SetParam(name string, v Const) {
	c.Parameters[name] = v
}

// SortedPortNames returns the port names in lexicographic order.
func (c *Cell) SortedPortNames() []string {
	names := make([]string, 0, len(c.Ports))
	for n := range c.Ports {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// SortedParamNames returns the parameter names in lexicographic order.
func (c *Cell) SortedParamNames() []string {
	names := make([]string, 0, len(c.Parameters))
	for n := range c.Parameters {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FixupParameters recomputes the width parameters from the current port
// widths. Mux cells carry WIDTH/S_WIDTH; everything else with A/B/Y ports
// carries <P>_WIDTH plus defaulted signedness flags.
func (c *Cell) FixupParameters() {
	switch c.Kind() {
	case KindMux, KindPmux:
		if y := c.GetPort("Y"); y != nil {
			c.SetParam(ParamWidth, IntConst(len(y), 32))
		}
		if s := c.GetPort("S"); s != nil {
			c.SetParam(ParamSWidth, IntConst(len(s), 32))
		}
	case KindOpaque:
		// user module instances carry whatever parameters they were
		// instantiated with
	default:
		if a := c.GetPort("A"); a != nil {
			c.SetParam(ParamAWidth, IntConst(len(a), 32))
			if _, ok := c.Parameters[ParamASigned]; !ok {
				c.SetParam(ParamASigned, BoolConst(false))
			}
		}
		if b := c.GetPort("B"); b != nil {
			c.SetParam(ParamBWidth, IntConst(len(b), 32))
			if _, ok := c.Parameters[ParamBSigned]; !ok {
				c.SetParam(ParamBSigned, BoolConst(false))
			}
		}
		if y := c.GetPort("Y"); y != nil {
			c.SetParam(ParamYWidth, IntConst(len(y), 32))
		}
	}
}
