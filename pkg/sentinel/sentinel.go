package sentinel

import "errors"

// Error taxonomy shared by the loader, the derived views and the front ends.
// Callers wrap these with context and match them with errors.Is:
// - ErrDataUnavailable: file missing, unreadable or not decodable with the hint
// - ErrSchemaMismatch: a required column is absent after name normalization
// - ErrInvalidSelection: a selected value is outside the permitted set; recoverable
var (
	ErrDataUnavailable  = errors.New("data unavailable")
	ErrSchemaMismatch   = errors.New("schema mismatch")
	ErrInvalidSelection = errors.New("invalid selection")
)

// Recoverable reports whether err should re-prompt the user instead of
// aborting the session.
func Recoverable(err error) bool {
	return errors.Is(err, ErrInvalidSelection)
}
