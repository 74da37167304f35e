package rtlir

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

// constDoc is the serialized form of a Const. In JSON it reads three
// shapes: a bare integer (32-bit, like a Verilog parameter), an MSB-first
// "01xz-" bit string, or {"string": "..."} for string-tagged values. It
// always writes the bit-string / string-object forms so round trips are
// width-exact.
type constDoc struct {
	Bits   string `msgpack:"bits"`
	String bool   `msgpack:"string,omitempty"`
}

func (d constDoc) MarshalJSON() ([]byte, error) {
	if d.String {
		c := Const{Bits: parseBits(d.Bits), Flags: ConstFlagString}
		return json.Marshal(map[string]string{"string": c.DecodeString()})
	}
	return json.Marshal(d.Bits)
}

func (d *constDoc) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		c := IntConst(int(v), 32)
		d.Bits = c.AsString()
		return nil
	case string:
		for i := 0; i < len(v); i++ {
			switch v[i] {
			case '0', '1', 'x', 'z', '-':
			default:
				return errors.Errorf("invalid bit %q in constant %q", v[i], v)
			}
		}
		d.Bits = v
		return nil
	case map[string]interface{}:
		s, ok := v["string"].(string)
		if !ok {
			return errors.New("constant object must carry a \"string\" member")
		}
		c := StringConst(s)
		d.Bits = c.AsString()
		d.String = true
		return nil
	default:
		return errors.Errorf("cannot decode constant from %s", string(data))
	}
}

func (ch chunkDoc) MarshalJSON() ([]byte, error) {
	if ch.Wire == "" {
		return json.Marshal(ch.Bits)
	}
	return json.Marshal(map[string]interface{}{
		"wire":   ch.Wire,
		"offset": ch.Offset,
		"width":  ch.Width,
	})
}

func (ch *chunkDoc) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case string:
		if isConstString(v) {
			ch.Bits = v
			return nil
		}
		ch.Wire = v
		ch.whole = true
		return nil
	case map[string]interface{}:
		name, ok := v["wire"].(string)
		if !ok {
			return errors.New("signal chunk object must carry a \"wire\" member")
		}
		ch.Wire = name
		if off, ok := v["offset"].(float64); ok {
			ch.Offset = int(off)
		}
		if width, ok := v["width"].(float64); ok {
			ch.Width = int(width)
		} else {
			ch.Width = 1
		}
		return nil
	default:
		return errors.Errorf("cannot decode signal chunk from %s", string(data))
	}
}

// isConstString reports whether a bare string chunk is a constant run.
// IR wire names always carry a "\" or "$" marker, so anything made of
// bit characters only is a constant.
func isConstString(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '\\' || s[0] == '$' {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '0', '1', 'x', 'z', '-':
		default:
			return false
		}
	}
	return true
}

// ReadJSON loads a design from its JSON source form.
func ReadJSON(r io.Reader) (*Design, error) {
	var doc designDoc
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding design JSON")
	}
	d, err := docToDesign(&doc)
	if err != nil {
		return nil, err
	}
	for _, m := range d.SortedModules() {
		if err := m.Validate(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// WriteJSON writes a design in its JSON source form.
func WriteJSON(w io.Writer, d *Design) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(designToDoc(d)); err != nil {
		return errors.Wrap(err, "encoding design JSON")
	}
	return nil
}
