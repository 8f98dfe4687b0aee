package production

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

const datasetFilePerms = 0o644

// LoadArray reads a dataset file and decodes its top-level JSON array.
//
// Dataset files are hand-edited, so the payload is standardized from JWCC
// first: comments and trailing commas are tolerated, anything else malformed
// is an error. A missing file is an error too; runs never fabricate an empty
// dataset.
func LoadArray(path string) ([]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: invalid JSON: %w", path, err)
	}

	var payload any

	unmarshalErr := json.Unmarshal(standardized, &payload)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("parse %s: invalid JSON: %w", path, unmarshalErr)
	}

	values, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("parse %s: %w", path, ErrNotArray)
	}

	return values, nil
}

// WriteArray writes a dataset file: pretty-printed with 2-space indentation
// and a trailing newline, via temp-file-and-rename so a failed write leaves
// the previous contents intact.
func WriteArray(path string, values []any) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	data = append(data, '\n')

	_, statErr := os.Stat(path)
	existed := statErr == nil

	writeErr := atomic.WriteFile(path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", path, writeErr)
	}

	if existed {
		// The rename preserved whatever mode the file already had.
		return nil
	}

	// atomic.WriteFile doesn't set permissions for new files
	chmodErr := os.Chmod(path, datasetFilePerms)
	if chmodErr != nil {
		return fmt.Errorf("set permissions on %s: %w", path, chmodErr)
	}

	return nil
}
