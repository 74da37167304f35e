package rtlir

// CellKind is the structural tag of a cell type. Builtin primitives map to
// a dedicated kind; user module instances and unrecognized types fall back
// to KindOpaque. The type string stays authoritative for serialization;
// kinds exist so pass dispatch is a switch rather than string matching.
type CellKind int

const (
	KindOpaque CellKind = iota

	// unary and binary word-level logic
	KindNot
	KindPos
	KindNeg
	KindAnd
	KindOr
	KindXor
	KindXnor

	// shifts
	KindShl
	KindShr
	KindSshl
	KindSshr
	KindShift
	KindShiftx

	// comparators
	KindLt
	KindLe
	KindEq
	KindNe
	KindEqx
	KindNex
	KindGe
	KindGt

	// arithmetic
	KindAdd
	KindSub
	KindMul
	KindDiv
	KindMod
	KindPow

	// multiplexers
	KindMux
	KindPmux

	// lookup table
	KindLut

	// single-bit gate-level primitives
	KindGateNot
	KindGateAnd
	KindGateOr
	KindGateXor
	KindGateMux
	KindGateDffN
	KindGateDffP
)

var kindByType = map[string]CellKind{
	"$not":    KindNot,
	"$pos":    KindPos,
	"$neg":    KindNeg,
	"$and":    KindAnd,
	"$or":     KindOr,
	"$xor":    KindXor,
	"$xnor":   KindXnor,
	"$shl":    KindShl,
	"$shr":    KindShr,
	"$sshl":   KindSshl,
	"$sshr":   KindSshr,
	"$shift":  KindShift,
	"$shiftx": KindShiftx,
	"$lt":     KindLt,
	"$le":     KindLe,
	"$eq":     KindEq,
	"$ne":     KindNe,
	"$eqx":    KindEqx,
	"$nex":    KindNex,
	"$ge":     KindGe,
	"$gt":     KindGt,
	"$add":    KindAdd,
	"$sub":    KindSub,
	"$mul":    KindMul,
	"$div":    KindDiv,
	"$mod":    KindMod,
	"$pow":    KindPow,
	"$mux":    KindMux,
	"$pmux":   KindPmux,
	"$lut":    KindLut,

	"$_NOT_":   KindGateNot,
	"$_AND_":   KindGateAnd,
	"$_OR_":    KindGateOr,
	"$_XOR_":   KindGateXor,
	"$_MUX_":   KindGateMux,
	"$_DFF_N_": KindGateDffN,
	"$_DFF_P_": KindGateDffP,
}

// KindOf maps a cell type string to its kind.
func KindOf(typ string) CellKind {
	if k, ok := kindByType[typ]; ok {
		return k
	}
	return KindOpaque
}

// Kind returns the structural tag of the cell's type.
func (c *Cell) Kind() CellKind {
	return KindOf(c.Type)
}
