package rtlir

import (
	"bytes"
	"io"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotMagic versions the binary design format. Bump the trailing byte
// on incompatible changes.
var snapshotMagic = []byte("yogo-rtl\x01")

// WriteSnapshot serializes a design to the binary snapshot format: a magic
// header followed by a msgpack-encoded design document.
func WriteSnapshot(w io.Writer, d *Design) error {
	if _, err := w.Write(snapshotMagic); err != nil {
		return errors.Wrap(err, "writing snapshot header")
	}
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(designToDoc(d)); err != nil {
		return errors.Wrap(err, "encoding design snapshot")
	}
	return nil
}

// ReadSnapshot deserializes a design from the binary snapshot format.
func ReadSnapshot(r io.Reader) (*Design, error) {
	header := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, errors.Wrap(err, "reading snapshot header")
	}
	if !bytes.Equal(header, snapshotMagic) {
		return nil, errors.Errorf("not a design snapshot (bad header %q)", header)
	}
	var doc designDoc
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding design snapshot")
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
