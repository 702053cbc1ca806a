// Package exchange converts snapshots to and from portable JSON documents.
package exchange

import (
	"encoding/json"
	"fmt"
	"strings"

	"fintrack/internal/core"

	"github.com/PaesslerAG/jsonpath"
)

// Required lists the top-level sections an imported document must carry.
var Required = []string{"profile", "transactions", "budgets", "goals"}

// ValidationError reports the sections missing from an imported document.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "invalid data structure in imported file: missing " + strings.Join(e.Missing, ", ")
}

func (e *ValidationError) Unwrap() error {
	return core.ErrInvalidSnapshot
}

// Export renders snap as an indented JSON document.
func Export(snap *core.Snapshot) ([]byte, error) {
	if snap == nil {
		return nil, fmt.Errorf("export: %w", core.ErrInvalidSnapshot)
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return b, nil
}

// Validate checks that doc is a JSON object holding every Required section.
func Validate(doc []byte) error {
	var v any
	if err := json.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidSnapshot, err)
	}
	if _, ok := v.(map[string]any); !ok {
		return fmt.Errorf("%w: document is not an object", core.ErrInvalidSnapshot)
	}

	var missing []string
	for _, field := range Required {
		// jsonpath errors on unknown keys, which is the same as absent here.
		val, err := jsonpath.Get("$."+field, v)
		if err != nil || val == nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Import validates doc and decodes it into a snapshot.
func Import(doc []byte) (*core.Snapshot, error) {
	if err := Validate(doc); err != nil {
		return nil, err
	}
	var snap core.Snapshot
	if err := json.Unmarshal(doc, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidSnapshot, err)
	}
	return &snap, nil
}
