package production

import "errors"

// Well-known record fields.
const (
	FieldID             = "id"
	FieldThemes         = "themes"
	FieldPlay           = "play"
	FieldTitle          = "production_title"
	FieldSynopsis       = "synopsis"
	FieldNeedsEditorial = "needs_editorial"
)

// Error variables for production operations.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrProductionsEmpty   = errors.New("productions_path cannot be empty")
	ErrCandidatesEmpty    = errors.New("candidates_path cannot be empty")
	ErrNotArray           = errors.New("top-level JSON value is not an array")
	ErrInvalidLimit       = errors.New("limit must be a positive integer")
	ErrIDRequired         = errors.New("production id is required")
	ErrNotFound           = errors.New("production not found")
)
