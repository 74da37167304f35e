package rtlir

import (
	"github.com/pkg/errors"
)

// The doc types are the serialized shape of a design, shared by the JSON
// reader/writer and the msgpack snapshot codec. Wires are referenced by
// name; the conversion back to the in-memory form resolves them.

type designDoc struct {
	Modules map[string]*moduleDoc `json:"modules" msgpack:"modules"`
}

type moduleDoc struct {
	Attributes  map[string]constDoc `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
	Wires       map[string]*wireDoc `json:"wires" msgpack:"wires"`
	Cells       map[string]*cellDoc `json:"cells,omitempty" msgpack:"cells,omitempty"`
	Connections []connDoc           `json:"connections,omitempty" msgpack:"connections,omitempty"`
	Processes   []string            `json:"processes,omitempty" msgpack:"processes,omitempty"`
	Memories    []string            `json:"memories,omitempty" msgpack:"memories,omitempty"`
}

type wireDoc struct {
	Width      int                 `json:"width" msgpack:"width"`
	PortID     int                 `json:"port_id,omitempty" msgpack:"port_id,omitempty"`
	PortInput  bool                `json:"port_input,omitempty" msgpack:"port_input,omitempty"`
	PortOutput bool                `json:"port_output,omitempty" msgpack:"port_output,omitempty"`
	Attributes map[string]constDoc `json:"attributes,omitempty" msgpack:"attributes,omitempty"`
}

type cellDoc struct {
	Type       string                `json:"type" msgpack:"type"`
	Ports      map[string][]chunkDoc `json:"ports" msgpack:"ports"`
	Parameters map[string]constDoc   `json:"parameters,omitempty" msgpack:"parameters,omitempty"`
}

type connDoc struct {
	LHS []chunkDoc `json:"lhs" msgpack:"lhs"`
	RHS []chunkDoc `json:"rhs" msgpack:"rhs"`
}

// chunkDoc is one piece of a serialized SigSpec: a wire slice or a constant
// run. Bits strings are MSB-first, as in source HDL literals.
type chunkDoc struct {
	Wire   string `json:"wire,omitempty" msgpack:"wire,omitempty"`
	Offset int    `json:"offset,omitempty" msgpack:"offset,omitempty"`
	Width  int    `json:"width,omitempty" msgpack:"width,omitempty"`
	Bits   string `json:"bits,omitempty" msgpack:"bits,omitempty"`

	// whole marks the JSON shorthand where a bare wire name stands for
	// the entire wire. Only the JSON decoder sets it.
	whole bool
}

func designToDoc(d *Design) *designDoc {
	doc := &designDoc{Modules: make(map[string]*moduleDoc, len(d.Modules))}
	for name, m := range d.Modules {
		doc.Modules[name] = moduleToDoc(m)
	}
	return doc
}

func moduleToDoc(m *Module) *moduleDoc {
	doc := &moduleDoc{
		Wires: make(map[string]*wireDoc, len(m.Wires)),
		Cells: make(map[string]*cellDoc, len(m.Cells)),
	}
	doc.Attributes = constMapToDoc(m.Attributes)
	for name, w := range m.Wires {
		doc.Wires[name] = &wireDoc{
			Width:      w.Width,
			PortID:     w.PortID,
			PortInput:  w.PortInput,
			PortOutput: w.PortOutput,
			Attributes: constMapToDoc(w.Attributes),
		}
	}
	for name, c := range m.Cells {
		cd := &cellDoc{
			Type:       c.Type,
			Ports:      make(map[string][]chunkDoc, len(c.Ports)),
			Parameters: constMapToDoc(c.Parameters),
		}
		for port, spec := range c.Ports {
			cd.Ports[port] = specToChunks(spec)
		}
		doc.Cells[name] = cd
	}
	for _, conn := range m.Connections {
		doc.Connections = append(doc.Connections, connDoc{
			LHS: specToChunks(conn.LHS),
			RHS: specToChunks(conn.RHS),
		})
	}
	for p := range m.Processes {
		doc.Processes = append(doc.Processes, p)
	}
	for mem := range m.Memories {
		doc.Memories = append(doc.Memories, mem)
	}
	return doc
}

func constMapToDoc(src map[string]Const) map[string]constDoc {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]constDoc, len(src))
	for k, v := range src {
		out[k] = constToDoc(v)
	}
	return out
}

func constToDoc(c Const) constDoc {
	return constDoc{Bits: c.AsString(), String: c.Flags&ConstFlagString != 0}
}

// specToChunks compresses a SigSpec into wire slices and constant runs.
func specToChunks(s SigSpec) []chunkDoc {
	var chunks []chunkDoc
	i := 0
	for i < len(s) {
		bit := s[i]
		if bit.IsConst() {
			j := i
			for j < len(s) && s[j].IsConst() {
				j++
			}
			run := make([]byte, j-i)
			for k := i; k < j; k++ {
				// MSB first
				run[j-1-k] = s[k].State.String()[0]
			}
			chunks = append(chunks, chunkDoc{Bits: string(run)})
			i = j
			continue
		}
		j := i + 1
		for j < len(s) && s[j].Wire == bit.Wire && s[j].Offset == bit.Offset+(j-i) {
			j++
		}
		chunks = append(chunks, chunkDoc{Wire: bit.Wire.Name, Offset: bit.Offset, Width: j - i})
		i = j
	}
	return chunks
}

func docToDesign(doc *designDoc) (*Design, error) {
	d := NewDesign()
	for name, md := range doc.Modules {
		m, err := docToModule(name, md)
		if err != nil {
			return nil, err
		}
		d.Modules[name] = m
	}
	return d, nil
}

func docToModule(name string, doc *moduleDoc) (*Module, error) {
	m := NewModule(name)
	if attrs := docToConstMap(doc.Attributes); attrs != nil {
		m.Attributes = attrs
	}
	for wname, wd := range doc.Wires {
		if wd.Width < 1 {
			return nil, errors.Errorf("module %s: wire %s has width %d", name, wname, wd.Width)
		}
		w := m.AddWire(wname, wd.Width)
		w.PortID = wd.PortID
		w.PortInput = wd.PortInput
		w.PortOutput = wd.PortOutput
		if attrs := docToConstMap(wd.Attributes); attrs != nil {
			w.Attributes = attrs
		}
	}
	for cname, cd := range doc.Cells {
		c := m.AddCell(cname, cd.Type)
		if params := docToConstMap(cd.Parameters); params != nil {
			c.Parameters = params
		}
		for port, chunks := range cd.Ports {
			spec, err := chunksToSpec(m, chunks)
			if err != nil {
				return nil, errors.Wrapf(err, "module %s cell %s port %s", name, cname, port)
			}
			c.Ports[port] = spec
		}
	}
	for i, conn := range doc.Connections {
		lhs, err := chunksToSpec(m, conn.LHS)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s connection %d", name, i)
		}
		rhs, err := chunksToSpec(m, conn.RHS)
		if err != nil {
			return nil, errors.Wrapf(err, "module %s connection %d", name, i)
		}
		if len(lhs) != len(rhs) {
			return nil, errors.Errorf("module %s connection %d: width mismatch %d vs %d",
				name, i, len(lhs), len(rhs))
		}
		m.Connections = append(m.Connections, Connection{LHS: lhs, RHS: rhs})
	}
	for _, p := range doc.Processes {
		m.Processes[p] = struct{}{}
	}
	for _, mem := range doc.Memories {
		m.Memories[mem] = struct{}{}
	}
	return m, nil
}

func docToConstMap(src map[string]constDoc) map[string]Const {
	if src == nil {
		return nil
	}
	out := make(map[string]Const, len(src))
	for k, v := range src {
		out[k] = docToConst(v)
	}
	return out
}

func docToConst(d constDoc) Const {
	c := Const{Bits: parseBits(d.Bits)}
	if d.String {
		c.Flags = ConstFlagString
	}
	return c
}

// parseBits reads an MSB-first "01xz-" string into LSB-first states. Sz is
// normalized to Sx; passes never distinguish the two. The don't-care "-" is
// kept distinct so mask parameters round-trip verbatim.
func parseBits(s string) []State {
	bits := make([]State, len(s))
	for i := 0; i < len(s); i++ {
		switch s[len(s)-1-i] {
		case '1':
			bits[i] = S1
		case '0':
			bits[i] = S0
		case '-':
			bits[i] = Sa
		default:
			bits[i] = Sx
		}
	}
	return bits
}

func chunksToSpec(m *Module, chunks []chunkDoc) (SigSpec, error) {
	var spec SigSpec
	for _, ch := range chunks {
		if ch.Wire == "" {
			for _, st := range parseBits(ch.Bits) {
				spec = append(spec, SigBit{State: st})
			}
			continue
		}
		w, ok := m.Wires[ch.Wire]
		if !ok {
			return nil, errors.Errorf("unknown wire %s", ch.Wire)
		}
		offset, width := ch.Offset, ch.Width
		if ch.whole {
			offset, width = 0, w.Width
		}
		if width == 0 {
			width = 1
		}
		if offset < 0 || offset+width > w.Width {
			return nil, errors.Errorf("slice [%d+:%d] out of range for wire %s (width %d)",
				offset, width, ch.Wire, w.Width)
		}
		for i := 0; i < width; i++ {
			spec = append(spec, SigBit{Wire: w, Offset: offset + i})
		}
	}
	return spec, nil
}
