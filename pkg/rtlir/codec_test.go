package rtlir

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDesign = `{
  "modules": {
    "\\top": {
      "attributes": {"top": "1"},
      "wires": {
        "\\a": {"width": 4, "port_id": 1, "port_input": true},
        "\\b": {"width": 4, "port_id": 2, "port_input": true},
        "\\y": {"width": 5, "port_id": 3, "port_output": true},
        "\\t": {"width": 4}
      },
      "cells": {
        "\\add0": {
          "type": "$add",
          "ports": {
            "A": ["\\a"],
            "B": [{"wire": "\\b", "offset": 0, "width": 2}, "00"],
            "Y": ["\\y"]
          },
          "parameters": {
            "A_SIGNED": 0,
            "B_SIGNED": 0,
            "A_WIDTH": 4,
            "B_WIDTH": 4,
            "Y_WIDTH": 5
          }
        }
      },
      "connections": [
        {"lhs": ["\\t"], "rhs": [{"wire": "\\a", "offset": 0, "width": 4}]}
      ]
    }
  }
}`

func TestReadJSON(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(sampleDesign))
	require.NoError(t, err)

	m := d.Modules["\\top"]
	require.NotNil(t, m)
	assert.True(t, m.GetBoolAttribute(AttrTop))
	assert.Len(t, m.Wires, 4)
	assert.Len(t, m.Cells, 1)
	assert.Len(t, m.Connections, 1)

	cell := m.Cells["\\add0"]
	require.NotNil(t, cell)
	assert.Equal(t, KindAdd, cell.Kind())

	a := m.Wires["\\a"]
	assert.True(t, cell.GetPort("A").Equal(WireSpec(a)), "bare name expands to the whole wire")

	b := m.Wires["\\b"]
	wantB := S(WireBit(b, 0), WireBit(b, 1), Bit(S0), Bit(S0))
	assert.True(t, cell.GetPort("B").Equal(wantB), "slice plus constant run")

	aw, ok := cell.GetParam(ParamAWidth)
	require.True(t, ok)
	assert.Equal(t, 4, aw.AsInt())
}

func TestJSONRoundTrip(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(sampleDesign))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, d))
	first := buf.String()

	d2, err := ReadJSON(&buf)
	require.NoError(t, err)

	var buf2 bytes.Buffer
	require.NoError(t, WriteJSON(&buf2, d2))
	assert.Equal(t, first, buf2.String(), "JSON form is a fixpoint")
}

func TestSnapshotRoundTrip(t *testing.T) {
	d, err := ReadJSON(strings.NewReader(sampleDesign))
	require.NoError(t, err)

	var snap bytes.Buffer
	require.NoError(t, WriteSnapshot(&snap, d))

	d2, err := ReadSnapshot(&snap)
	require.NoError(t, err)

	var j1, j2 bytes.Buffer
	require.NoError(t, WriteJSON(&j1, d))
	require.NoError(t, WriteJSON(&j2, d2))
	assert.Equal(t, j1.String(), j2.String())
}

func TestSnapshotRejectsGarbage(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewReader([]byte("definitely not a snapshot")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad header")
}

func TestReadJSONRejectsWidthMismatch(t *testing.T) {
	bad := `{
  "modules": {
    "\\m": {
      "wires": {
        "\\a": {"width": 2},
        "\\b": {"width": 3}
      },
      "connections": [
        {"lhs": ["\\a"], "rhs": ["\\b"]}
      ]
    }
  }
}`
	_, err := ReadJSON(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width mismatch")
}

func TestReadJSONRejectsUnknownWire(t *testing.T) {
	bad := `{
  "modules": {
    "\\m": {
      "wires": {"\\a": {"width": 1}},
      "cells": {
        "\\c": {"type": "$not", "ports": {"A": ["\\nope"], "Y": ["\\a"]}}
      }
    }
  }
}`
	_, err := ReadJSON(strings.NewReader(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown wire")
}

func TestConstJSONForms(t *testing.T) {
	src := `{
  "modules": {
    "\\m": {
      "wires": {"\\y": {"width": 1}},
      "cells": {
        "\\c": {
          "type": "$lut",
          "ports": {"Y": ["\\y"]},
          "parameters": {
            "WIDTH": 2,
            "LUT": "1001",
            "NAME": {"string": "hi"}
          }
        }
      }
    }
  }
}`
	d, err := ReadJSON(strings.NewReader(src))
	require.NoError(t, err)

	cell := d.Modules["\\m"].Cells["\\c"]
	width, _ := cell.GetParam("WIDTH")
	assert.Equal(t, 2, width.AsInt())
	assert.Equal(t, 32, width.Width(), "bare integers decode as 32-bit")

	lut, _ := cell.GetParam("LUT")
	assert.Equal(t, "1001", lut.AsString())
	assert.Equal(t, 4, lut.Width())

	name, _ := cell.GetParam("NAME")
	assert.Equal(t, ConstFlagString, name.Flags)
	assert.Equal(t, "hi", name.DecodeString())
}

func TestDontCareConstRoundTrip(t *testing.T) {
	src := `{
  "modules": {
    "\\m": {
      "wires": {"\\y": {"width": 1}},
      "cells": {
        "\\c": {
          "type": "$lut",
          "ports": {"Y": ["\\y"]},
          "parameters": {"WIDTH": 2, "LUT": "100-"}
        }
      }
    }
  }
}`
	d, err := ReadJSON(strings.NewReader(src))
	require.NoError(t, err)

	lut, _ := d.Modules["\\m"].Cells["\\c"].GetParam("LUT")
	assert.Equal(t, []State{Sa, S0, S0, S1}, lut.Bits, "dash decodes to the don't-care state")
	assert.Equal(t, "100-", lut.AsString(), "dash survives re-rendering")

	var snap bytes.Buffer
	require.NoError(t, WriteSnapshot(&snap, d))
	d2, err := ReadSnapshot(&snap)
	require.NoError(t, err)

	lut2, _ := d2.Modules["\\m"].Cells["\\c"].GetParam("LUT")
	assert.Equal(t, "100-", lut2.AsString())
}

func TestStateNormalization(t *testing.T) {
	src := `{
  "modules": {
    "\\m": {
      "wires": {"\\y": {"width": 4}},
      "connections": [
        {"lhs": ["\\y"], "rhs": ["z10x"]}
      ]
    }
  }
}`
	d, err := ReadJSON(strings.NewReader(src))
	require.NoError(t, err)

	conn := d.Modules["\\m"].Connections[0]
	// "z10x" is MSB first; z normalizes to x
	want := S(Bit(Sx), Bit(S0), Bit(S1), Bit(Sx))
	assert.True(t, conn.RHS.Equal(want), "got %v", conn.RHS)
}
