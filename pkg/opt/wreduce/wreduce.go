// Package wreduce implements the word-width reduction pass: it shrinks the
// bit-widths of arithmetic, logic, and multiplexer cells wherever upper
// bits are provably unused or redundant, then trims dead upper bits off
// internal wires.
package wreduce

import (
	"sort"

	"github.com/slowriot/yosys/internal/log"
	"github.com/slowriot/yosys/pkg/rtlir"
)

// supported reports whether the pass knows how to shrink a cell kind.
// Multiplicative and division cells are deliberately absent.
func supported(k rtlir.CellKind) bool {
	switch k {
	case rtlir.KindNot, rtlir.KindPos, rtlir.KindNeg,
		rtlir.KindAnd, rtlir.KindOr, rtlir.KindXor, rtlir.KindXnor,
		rtlir.KindShl, rtlir.KindShr, rtlir.KindSshl, rtlir.KindSshr,
		rtlir.KindShift, rtlir.KindShiftx,
		rtlir.KindLt, rtlir.KindLe, rtlir.KindEq, rtlir.KindNe,
		rtlir.KindEqx, rtlir.KindNex, rtlir.KindGe, rtlir.KindGt,
		rtlir.KindAdd, rtlir.KindSub,
		rtlir.KindMux, rtlir.KindPmux:
		return true
	}
	return false
}

type worker struct {
	module *rtlir.Module
	sel    rtlir.Selection
	logger log.Logger
	mi     *rtlir.ModuleIndex

	queueCells map[string]*rtlir.Cell
	queueBits  map[rtlir.SigBit]bool
}

func (wk *worker) enqueueBit(b rtlir.SigBit) {
	wk.queueBits[b] = true
}

func (wk *worker) enqueueBits(s rtlir.SigSpec) {
	for _, b := range s {
		wk.queueBits[b] = true
	}
}

var bitSx = rtlir.Bit(rtlir.Sx)
var bitS0 = rtlir.Bit(rtlir.S0)

// runCellMux shrinks a $mux/$pmux from the MSB down: an output bit goes
// away when it is dead, or when every case (and the then-input) agrees on
// the same driver for it.
func (wk *worker) runCellMux(cell *rtlir.Cell) {
	sigA := wk.mi.Sigmap(cell.GetPort("A"))
	sigB := wk.mi.Sigmap(cell.GetPort("B"))
	sigS := wk.mi.Sigmap(cell.GetPort("S"))
	sigY := wk.mi.Sigmap(cell.GetPort("Y"))

	var bitsRemoved []rtlir.SigBit

scan:
	for i := sigY.Size() - 1; i >= 0; i-- {
		info := wk.mi.Query(sigY[i])
		if !info.IsOutput && len(info.Ports) <= 1 {
			bitsRemoved = append(bitsRemoved, bitSx)
			continue
		}

		ref := sigA[i]
		for k := 0; k < sigS.Size(); k++ {
			b := sigB[k*sigA.Size()+i]
			if ref != bitSx && b != bitSx && ref != b {
				break scan
			}
			if b != bitSx {
				ref = b
			}
		}
		bitsRemoved = append(bitsRemoved, ref)
	}

	if len(bitsRemoved) == 0 {
		return
	}

	// bitsRemoved was collected MSB-first
	sigRemoved := rtlir.SigSpec(bitsRemoved).Reversed()

	if len(bitsRemoved) == sigY.Size() {
		wk.logger.Info("removed cell",
			"module", wk.module.Name, "cell", cell.Name, "type", cell.Type)
		wk.module.Connect(sigY, sigRemoved)
		wk.module.RemoveCell(cell)
		return
	}

	nRemoved := len(bitsRemoved)
	nKept := sigY.Size() - nRemoved

	wk.logger.Info("removed top bits from mux cell",
		"removed", nRemoved, "of", sigY.Size(),
		"module", wk.module.Name, "cell", cell.Name, "type", cell.Type)

	wk.enqueueBits(sigA.Extract(nKept, nRemoved))
	wk.enqueueBits(sigY.Extract(nKept, nRemoved))

	newA := sigA.Extract(0, nKept)
	newY := sigY.Extract(0, nKept)
	var newB rtlir.SigSpec
	for k := 0; k < sigS.Size(); k++ {
		newB = rtlir.Cat(newB, sigB.Extract(k*sigA.Size(), nKept))
		wk.enqueueBits(sigB.Extract(k*sigA.Size()+nKept, nRemoved))
	}

	cell.SetPort("A", newA)
	cell.SetPort("B", newB)
	cell.SetPort("Y", newY)
	cell.FixupParameters()

	wk.module.Connect(sigY.Extract(nKept, nRemoved), sigRemoved)
}

// reduceInPort truncates an input port to maxPortSize and strips redundant
// sign or zero extension off the top. Returns whether the port reads as
// signed and whether anything changed.
func (wk *worker) reduceInPort(cell *rtlir.Cell, port string, maxPortSize int) (portSigned, didSomething bool) {
	portSigned = cell.ParamBool(port + "_SIGNED")
	sig := wk.mi.Sigmap(cell.GetPort(port))

	// the shift amount is unsigned no matter what the parameter says
	if port == "B" {
		switch cell.Kind() {
		case rtlir.KindShl, rtlir.KindShr, rtlir.KindSshl, rtlir.KindSshr:
			portSigned = false
		}
	}

	bitsRemoved := 0
	if sig.Size() > maxPortSize {
		bitsRemoved = sig.Size() - maxPortSize
		wk.enqueueBits(sig.Extract(maxPortSize, bitsRemoved))
		sig = sig.Extract(0, maxPortSize)
	}

	if portSigned {
		for sig.Size() > 1 && sig[sig.Size()-1] == sig[sig.Size()-2] {
			wk.enqueueBit(sig[sig.Size()-1])
			sig = sig.RemoveTail()
			bitsRemoved++
		}
	} else {
		for sig.Size() > 1 && sig[sig.Size()-1] == bitS0 {
			wk.enqueueBit(sig[sig.Size()-1])
			sig = sig.RemoveTail()
			bitsRemoved++
		}
	}

	if bitsRemoved > 0 {
		wk.logger.Info("removed top bits from port",
			"removed", bitsRemoved, "of", sig.Size()+bitsRemoved, "port", port,
			"module", wk.module.Name, "cell", cell.Name, "type", cell.Type)
		cell.SetPort(port, sig)
		didSomething = true
	}
	return portSigned, didSomething
}

func (wk *worker) runCell(cell *rtlir.Cell) {
	kind := cell.Kind()
	if !supported(kind) {
		return
	}

	if kind == rtlir.KindMux || kind == rtlir.KindPmux {
		wk.runCellMux(cell)
		return
	}

	didSomething := false

	// A and B shrink to the output width on cells whose result is never
	// wider than the operands
	maxPortASize, maxPortBSize := -1, -1
	if cell.HasPort("A") {
		maxPortASize = cell.GetPort("A").Size()
	}
	if cell.HasPort("B") {
		maxPortBSize = cell.GetPort("B").Size()
	}

	switch kind {
	case rtlir.KindNot, rtlir.KindPos, rtlir.KindNeg,
		rtlir.KindAnd, rtlir.KindOr, rtlir.KindXor,
		rtlir.KindAdd, rtlir.KindSub:
		ySize := cell.GetPort("Y").Size()
		if maxPortASize > ySize {
			maxPortASize = ySize
		}
		if maxPortBSize > ySize {
			maxPortBSize = ySize
		}
	}

	portASigned := false
	if maxPortASize >= 0 {
		signed, changed := wk.reduceInPort(cell, "A", maxPortASize)
		portASigned = signed
		didSomething = didSomething || changed
	}
	if maxPortBSize >= 0 {
		_, changed := wk.reduceInPort(cell, "B", maxPortBSize)
		didSomething = didSomething || changed
	}

	// strip dead MSBs off Y, then cap Y to the widest useful result
	sig := wk.mi.Sigmap(cell.GetPort("Y"))
	bitsRemoved := 0

	if !(portASigned && kind == rtlir.KindShr) {
		// a $shr with signed A keeps its output width
		for sig.Size() > 0 {
			info := wk.mi.Query(sig[sig.Size()-1])
			if info.IsOutput || len(info.Ports) > 1 {
				break
			}
			sig = sig.RemoveTail()
			bitsRemoved++
		}
	}

	switch kind {
	case rtlir.KindPos, rtlir.KindAdd, rtlir.KindMul,
		rtlir.KindAnd, rtlir.KindOr, rtlir.KindXor:
		isSigned := cell.ParamBool(rtlir.ParamASigned)

		aSize, bSize := 0, 0
		if cell.HasPort("A") {
			aSize = cell.GetPort("A").Size()
		}
		if cell.HasPort("B") {
			bSize = cell.GetPort("B").Size()
		}

		maxYSize := aSize
		if bSize > maxYSize {
			maxYSize = bSize
		}
		if kind == rtlir.KindAdd {
			maxYSize++
		}
		if kind == rtlir.KindMul {
			maxYSize = aSize + bSize
		}

		for sig.Size() > 1 && sig.Size() > maxYSize {
			top := sig[sig.Size()-1]
			if isSigned {
				wk.module.Connect(rtlir.S(top), rtlir.S(sig[sig.Size()-2]))
			} else {
				wk.module.Connect(rtlir.S(top), rtlir.S(bitS0))
			}
			sig = sig.RemoveTail()
			bitsRemoved++
		}
	}

	if sig.Size() == 0 {
		wk.logger.Info("removed cell",
			"module", wk.module.Name, "cell", cell.Name, "type", cell.Type)
		wk.module.RemoveCell(cell)
		return
	}

	if bitsRemoved > 0 {
		wk.logger.Info("removed top bits from port",
			"removed", bitsRemoved, "of", sig.Size()+bitsRemoved, "port", "Y",
			"module", wk.module.Name, "cell", cell.Name, "type", cell.Type)
		cell.SetPort("Y", sig)
		didSomething = true
	}

	if didSomething {
		cell.FixupParameters()
		wk.runCell(cell)
	}
}

func (wk *worker) run() {
	wk.queueCells = make(map[string]*rtlir.Cell)
	for _, c := range wk.sel.SelectedCells(wk.module) {
		wk.queueCells[c.Name] = c
	}

	for len(wk.queueCells) > 0 {
		// fresh index per round: mutations made below only ever shrink
		// or substitute port bits, so the snapshot stays sound within a
		// round, and the next round sees the new connections
		wk.mi = rtlir.NewModuleIndex(wk.module)
		wk.queueBits = make(map[rtlir.SigBit]bool)

		names := make([]string, 0, len(wk.queueCells))
		for name := range wk.queueCells {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			wk.runCell(wk.queueCells[name])
		}

		wk.queueCells = make(map[string]*rtlir.Cell)
		for bit := range wk.queueBits {
			for _, ref := range wk.mi.QueryPorts(bit) {
				if _, stillThere := wk.module.Cells[ref.Cell.Name]; !stillThere {
					continue
				}
				if wk.sel.SelectedMember(wk.module.Name, ref.Cell.Name) {
					wk.queueCells[ref.Cell.Name] = ref.Cell
				}
			}
		}
	}

	wk.cleanupWires()
}

// cleanupWires shrinks internal wires whose top bits are referenced by
// nothing. Ports and wires with nontrivial attributes are left alone; so
// are wires where every bit is dead (replacement needs a strictly smaller,
// nonzero width).
func (wk *worker) cleanupWires() {
	wk.mi = rtlir.NewModuleIndex(wk.module)

	for _, w := range wk.sel.SelectedWires(wk.module) {
		if w.PortID > 0 || w.NontrivialAttrCount() > 0 {
			continue
		}

		unusedTopBits := 0
		for i := w.Width - 1; i >= 0; i-- {
			info := wk.mi.Query(rtlir.WireBit(w, i))
			if info.IsInput || info.IsOutput || len(info.Ports) > 0 {
				break
			}
			unusedTopBits++
		}

		if 0 < unusedTopBits && unusedTopBits < w.Width {
			wk.logger.Info("removed top bits from wire",
				"removed", unusedTopBits, "of", w.Width,
				"module", wk.module.Name, "wire", w.Name)
			nw := wk.module.AddWire(wk.module.NewID("wreduce"), w.Width-unusedTopBits)
			for k, v := range w.Attributes {
				nw.Attributes[k] = v
			}
			wk.module.Connect(rtlir.WireSpec(nw), rtlir.WireSpec(w).Extract(0, nw.Width))
			wk.module.SwapNames(w, nw)
		}
	}
}

// Run executes the pass over every selected module of the design. Modules
// still containing behavioral processes are skipped with a warning.
func Run(d *rtlir.Design, sel rtlir.Selection, logger log.Logger) error {
	for _, m := range sel.SelectedModules(d) {
		if len(m.Processes) > 0 {
			logger.Warn("skipping module with unmapped processes", "module", m.Name)
			continue
		}
		wk := &worker{module: m, sel: sel, logger: logger}
		wk.run()
	}
	return nil
}
