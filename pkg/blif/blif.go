// Package blif writes a design as a Berkeley Logic Interchange Format
// netlist: one .model block per non-blackbox module, with gate-level
// primitives translated to .names / .latch constructs unless configured
// otherwise.
package blif

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/slowriot/yosys/pkg/rtlir"
)

// Error kinds the writer can fail with. All of them abort emission.
var (
	// ErrUnknownTop means the requested top module names no module.
	ErrUnknownTop = errors.New("unknown top module")
	// ErrUnmappedBehavior means a module still contains processes or
	// memories that should have been lowered by earlier passes.
	ErrUnmappedBehavior = errors.New("unmapped behavior")
	// ErrMalformedCell means a primitive cell is missing an expected
	// parameter or its port widths disagree with its parameters.
	ErrMalformedCell = errors.New("malformed cell")
)

// Config selects the output flavor.
type Config struct {
	// TopModule is emitted first. Empty means: use the module carrying
	// the top attribute, if any.
	TopModule string

	// BufType/BufIn/BufOut, when set, emit buffer cell instances for
	// connection statements instead of .names pass-throughs.
	BufType string
	BufIn   string
	BufOut  string

	// TrueType/TrueOut and FalseType/FalseOut, when set, emit a cell
	// driving the constant nets instead of the default .names stubs.
	TrueType  string
	TrueOut   string
	FalseType string
	FalseOut  string

	// ICells emits every cell as .subckt/.gate instead of translating
	// builtin gate primitives to BLIF-native constructs.
	ICells bool
	// Gates emits .gate instead of .subckt for cells whose type is not a
	// non-blackbox module of the design.
	Gates bool
	// Conn emits the nonstandard .conn statement for connections.
	Conn bool
	// Param emits nonstandard .param lines recording cell parameters.
	Param bool
	// Impltf omits the $true / $false constant definitions.
	Impltf bool

	// Version identifies the tool in the header comment.
	Version string
}

type dumper struct {
	w      *bufio.Writer
	design *rtlir.Design
	module *rtlir.Module
	cfg    *Config
}

func (d *dumper) printf(format string, args ...interface{}) {
	fmt.Fprintf(d.w, format, args...)
}

// token sanitizes an IR identifier for BLIF: the escape marker goes, and
// '#' / '=' become '?' so the tokenizer downstream stays happy.
func token(name string) string {
	s := rtlir.UnescapeID(name)
	return strings.Map(func(r rune) rune {
		if r == '#' || r == '=' {
			return '?'
		}
		return r
	}, s)
}

// bitToken renders a single signal bit. Bits of multi-bit wires carry an
// index suffix; constants become the $true / $false nets (x counts as 0).
func bitToken(b rtlir.SigBit) string {
	if b.IsConst() {
		if b.State == rtlir.S1 {
			return "$true"
		}
		return "$false"
	}
	if b.Wire.Width != 1 {
		return fmt.Sprintf("%s[%d]", token(b.Wire.Name), b.Offset)
	}
	return token(b.Wire.Name)
}

func (d *dumper) subcktOrGate(cellType string) string {
	if !d.cfg.Gates {
		return "subckt"
	}
	mod, ok := d.design.Modules[cellType]
	if !ok {
		return "gate"
	}
	if mod.GetBoolAttribute(rtlir.AttrBlackbox) {
		return "gate"
	}
	return "subckt"
}

func (d *dumper) dumpModule() error {
	d.printf("\n.model %s\n", token(d.module.Name))

	inputs := make(map[int]*rtlir.Wire)
	outputs := make(map[int]*rtlir.Wire)
	for _, w := range d.module.SortedWires() {
		if w.PortInput {
			inputs[w.PortID] = w
		}
		if w.PortOutput {
			outputs[w.PortID] = w
		}
	}

	d.printf(".inputs")
	for _, w := range sortedByPortID(inputs) {
		for i := 0; i < w.Width; i++ {
			d.printf(" %s", bitToken(rtlir.WireBit(w, i)))
		}
	}
	d.printf("\n")

	d.printf(".outputs")
	for _, w := range sortedByPortID(outputs) {
		for i := 0; i < w.Width; i++ {
			d.printf(" %s", bitToken(rtlir.WireBit(w, i)))
		}
	}
	d.printf("\n")

	if !d.cfg.Impltf {
		if d.cfg.FalseType != "" {
			d.printf(".%s %s %s=$false\n", d.subcktOrGate(d.cfg.FalseType), d.cfg.FalseType, d.cfg.FalseOut)
		} else {
			d.printf(".names $false\n")
		}
		if d.cfg.TrueType != "" {
			d.printf(".%s %s %s=$true\n", d.subcktOrGate(d.cfg.TrueType), d.cfg.TrueType, d.cfg.TrueOut)
		} else {
			d.printf(".names $true\n1\n")
		}
	}

	for _, cell := range d.module.SortedCells() {
		if err := d.dumpCell(cell); err != nil {
			return err
		}
	}

	for _, conn := range d.module.Connections {
		for i := range conn.LHS {
			lhs, rhs := bitToken(conn.LHS[i]), bitToken(conn.RHS[i])
			switch {
			case d.cfg.Conn:
				d.printf(".conn %s %s\n", rhs, lhs)
			case d.cfg.BufType != "":
				d.printf(".%s %s %s=%s %s=%s\n", d.subcktOrGate(d.cfg.BufType), d.cfg.BufType,
					d.cfg.BufIn, rhs, d.cfg.BufOut, lhs)
			default:
				d.printf(".names %s %s\n1 1\n", rhs, lhs)
			}
		}
	}

	d.printf(".end\n")
	return nil
}

func (d *dumper) dumpCell(cell *rtlir.Cell) error {
	if !d.cfg.ICells {
		switch cell.Kind() {
		case rtlir.KindGateNot:
			d.printf(".names %s %s\n0 1\n",
				d.portBit(cell, "A"), d.portBit(cell, "Y"))
			return nil
		case rtlir.KindGateAnd:
			d.printf(".names %s %s %s\n11 1\n",
				d.portBit(cell, "A"), d.portBit(cell, "B"), d.portBit(cell, "Y"))
			return nil
		case rtlir.KindGateOr:
			d.printf(".names %s %s %s\n1- 1\n-1 1\n",
				d.portBit(cell, "A"), d.portBit(cell, "B"), d.portBit(cell, "Y"))
			return nil
		case rtlir.KindGateXor:
			d.printf(".names %s %s %s\n10 1\n01 1\n",
				d.portBit(cell, "A"), d.portBit(cell, "B"), d.portBit(cell, "Y"))
			return nil
		case rtlir.KindGateMux:
			// Y = S ? B : A
			d.printf(".names %s %s %s %s\n1-0 1\n-11 1\n",
				d.portBit(cell, "A"), d.portBit(cell, "B"),
				d.portBit(cell, "S"), d.portBit(cell, "Y"))
			return nil
		case rtlir.KindGateDffN:
			d.printf(".latch %s %s fe %s\n",
				d.portBit(cell, "D"), d.portBit(cell, "Q"), d.portBit(cell, "C"))
			return nil
		case rtlir.KindGateDffP:
			d.printf(".latch %s %s re %s\n",
				d.portBit(cell, "D"), d.portBit(cell, "Q"), d.portBit(cell, "C"))
			return nil
		case rtlir.KindLut:
			return d.dumpLut(cell)
		}
	}

	d.printf(".%s %s", d.subcktOrGate(cell.Type), token(cell.Type))
	for _, port := range cell.SortedPortNames() {
		spec := cell.Ports[port]
		for i := range spec {
			if len(spec) == 1 {
				d.printf(" %s", token(port))
			} else {
				d.printf(" %s[%d]", token(port), i)
			}
			d.printf("=%s", bitToken(spec[i]))
		}
	}
	d.printf("\n")

	if d.cfg.Param {
		for _, name := range cell.SortedParamNames() {
			d.printf(".param %s ", token(name))
			value := cell.Parameters[name]
			if value.Flags&rtlir.ConstFlagString != 0 {
				d.printf("\"")
				for _, ch := range []byte(value.DecodeString()) {
					switch {
					case ch == '"' || ch == '\\':
						d.printf("\\%c", ch)
					case ch < 32 || ch >= 127:
						d.printf("\\%03o", ch)
					default:
						d.printf("%c", ch)
					}
				}
				d.printf("\"\n")
			} else {
				d.printf("%s\n", value.AsString())
			}
		}
	}
	return nil
}

func (d *dumper) dumpLut(cell *rtlir.Cell) error {
	widthParam, ok := cell.GetParam(rtlir.ParamWidth)
	if !ok {
		return errors.Wrapf(ErrMalformedCell, "$lut cell %s.%s has no WIDTH parameter",
			d.module.Name, cell.Name)
	}
	lutParam, ok := cell.GetParam(rtlir.ParamLUT)
	if !ok {
		return errors.Wrapf(ErrMalformedCell, "$lut cell %s.%s has no LUT parameter",
			d.module.Name, cell.Name)
	}
	width := widthParam.AsInt()

	inputs := cell.GetPort("A")
	if inputs.Size() != width {
		return errors.Wrapf(ErrMalformedCell, "$lut cell %s.%s: port A has %d bits, WIDTH says %d",
			d.module.Name, cell.Name, inputs.Size(), width)
	}
	output := cell.GetPort("Y")
	if output.Size() != 1 {
		return errors.Wrapf(ErrMalformedCell, "$lut cell %s.%s: port Y must be one bit wide",
			d.module.Name, cell.Name)
	}

	mask := lutParam.AsString()
	if lutParam.Flags&rtlir.ConstFlagString != 0 {
		mask = lutParam.DecodeString()
	}
	if len(mask) != 1<<uint(width) {
		return errors.Wrapf(ErrMalformedCell, "$lut cell %s.%s: LUT mask has %d entries, want %d",
			d.module.Name, cell.Name, len(mask), 1<<uint(width))
	}

	d.printf(".names")
	for i := 0; i < inputs.Size(); i++ {
		d.printf(" %s", bitToken(inputs[i]))
	}
	d.printf(" %s\n", bitToken(output[0]))

	for i := 0; i < 1<<uint(width); i++ {
		if mask[i] == '0' {
			continue
		}
		for j := width - 1; j >= 0; j-- {
			if (i>>uint(j))&1 != 0 {
				d.printf("1")
			} else {
				d.printf("0")
			}
		}
		d.printf(" %c\n", mask[i])
	}
	return nil
}

func (d *dumper) portBit(cell *rtlir.Cell, port string) string {
	spec := cell.GetPort(port)
	if len(spec) == 0 {
		return "$false"
	}
	return bitToken(spec[0])
}

func sortedByPortID(wires map[int]*rtlir.Wire) []*rtlir.Wire {
	ids := make([]int, 0, len(wires))
	for id := range wires {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]*rtlir.Wire, len(ids))
	for i, id := range ids {
		out[i] = wires[id]
	}
	return out
}

// Write emits the whole design: the top module first (if any), then every
// other non-blackbox module in design order.
func Write(w io.Writer, design *rtlir.Design, cfg Config) error {
	bw := bufio.NewWriter(w)

	topName := ""
	if cfg.TopModule != "" {
		topName = rtlir.EscapeID(cfg.TopModule)
	}
	if topName == "" {
		if top := design.TopModule(); top != nil {
			topName = top.Name
		}
	}

	version := cfg.Version
	if version == "" {
		version = "yogo"
	}
	fmt.Fprintf(bw, "# Generated by %s\n", version)

	var rest []*rtlir.Module
	for _, m := range design.SortedModules() {
		if m.GetBoolAttribute(rtlir.AttrBlackbox) {
			continue
		}
		if len(m.Processes) > 0 {
			return errors.Wrapf(ErrUnmappedBehavior,
				"found unmapped processes in module %s", m.Name)
		}
		if len(m.Memories) > 0 {
			return errors.Wrapf(ErrUnmappedBehavior,
				"found unmapped memories in module %s", m.Name)
		}
		if m.Name == topName {
			d := &dumper{w: bw, design: design, module: m, cfg: &cfg}
			if err := d.dumpModule(); err != nil {
				return err
			}
			topName = ""
			continue
		}
		rest = append(rest, m)
	}

	if topName != "" {
		return errors.Wrapf(ErrUnknownTop, "cannot find top module %q", topName)
	}

	for _, m := range rest {
		d := &dumper{w: bw, design: design, module: m, cfg: &cfg}
		if err := d.dumpModule(); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "writing BLIF output")
	}
	return nil
}
