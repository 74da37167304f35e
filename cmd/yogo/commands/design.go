package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/slowriot/yosys/pkg/rtlir"
)

// loadDesign reads a design from disk, choosing the codec by extension:
// .json files use the JSON source form, everything else is treated as a
// binary snapshot.
func loadDesign(path string) (*rtlir.Design, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening design: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".json") {
		return rtlir.ReadJSON(f)
	}
	return rtlir.ReadSnapshot(f)
}

// saveDesign writes a design to disk, choosing the codec by extension the
// same way loadDesign does.
func saveDesign(path string, d *rtlir.Design) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	if strings.HasSuffix(path, ".json") {
		return rtlir.WriteJSON(f, d)
	}
	return rtlir.WriteSnapshot(f, d)
}
