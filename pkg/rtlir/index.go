package rtlir

// PortRef names one cell port that references a signal bit.
type PortRef struct {
	Cell   *Cell
	Port   string
	Offset int
}

// PortInfo summarizes how a canonical signal bit is used within a module.
type PortInfo struct {
	IsInput  bool
	IsOutput bool
	Ports    []PortRef
}

// ModuleIndex is a derived driver/sink map over a module's signals. For any
// bit it answers: is it driven by a module input, does it feed a module
// output, and which cell ports reference it. The index is a snapshot; it
// must be rebuilt after structural changes to the module.
type ModuleIndex struct {
	module *Module
	sigmap *SigMap
	info   map[SigBit]*PortInfo
}

// NewModuleIndex builds the index for a module.
func NewModuleIndex(m *Module) *ModuleIndex {
	mi := &ModuleIndex{
		module: m,
		sigmap: NewSigMap(m),
		info:   make(map[SigBit]*PortInfo),
	}
	for _, w := range m.SortedWires() {
		if !w.PortInput && !w.PortOutput {
			continue
		}
		for i := 0; i < w.Width; i++ {
			entry := mi.entry(mi.sigmap.MapBit(WireBit(w, i)))
			if w.PortInput {
				entry.IsInput = true
			}
			if w.PortOutput {
				entry.IsOutput = true
			}
		}
	}
	for _, c := range m.SortedCells() {
		for _, port := range c.SortedPortNames() {
			for i, bit := range mi.sigmap.Map(c.Ports[port]) {
				entry := mi.entry(bit)
				entry.Ports = append(entry.Ports, PortRef{Cell: c, Port: port, Offset: i})
			}
		}
	}
	return mi
}

func (mi *ModuleIndex) entry(bit SigBit) *PortInfo {
	if e, ok := mi.info[bit]; ok {
		return e
	}
	e := &PortInfo{}
	mi.info[bit] = e
	return e
}

// Query returns the usage record for a bit. Bits with no record yield an
// empty PortInfo.
func (mi *ModuleIndex) Query(bit SigBit) *PortInfo {
	if e, ok := mi.info[mi.sigmap.MapBit(bit)]; ok {
		return e
	}
	return &PortInfo{}
}

// QueryPorts returns every cell port referencing the bit.
func (mi *ModuleIndex) QueryPorts(bit SigBit) []PortRef {
	return mi.Query(bit).Ports
}

// Sigmap canonicalizes a SigSpec under the module's connection statements.
func (mi *ModuleIndex) Sigmap(s SigSpec) SigSpec {
	return mi.sigmap.Map(s)
}

// SigmapBit canonicalizes a single bit.
func (mi *ModuleIndex) SigmapBit(b SigBit) SigBit {
	return mi.sigmap.MapBit(b)
}
