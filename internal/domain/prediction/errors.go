package prediction

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for prediction table errors. These allow errors.Is from callers.
var (
	ErrDimension    = errors.New("prediction must hold exactly one model")
	ErrDuplicateID  = errors.New("overlap in ids found")
	ErrUnknownModel = errors.New("model not found")
	ErrEmptyName    = errors.New("model name must not be empty")
)

// maxReportedIDs bounds how many offending ids end up in an error message;
// overlaps on real tournament data can run to hundreds of thousands of rows.
const maxReportedIDs = 5

func duplicateIDError(name string, ids []string) error {
	shown := ids
	if len(shown) > maxReportedIDs {
		shown = shown[:maxReportedIDs]
	}
	msg := strings.Join(shown, ", ")
	if len(ids) > len(shown) {
		msg += ", ..."
	}
	if name == "" {
		return fmt.Errorf("%w: %d ids (%s)", ErrDuplicateID, len(ids), msg)
	}
	return fmt.Errorf("%w: model %q already holds %d of these ids (%s)", ErrDuplicateID, name, len(ids), msg)
}

func unknownModelError(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknownModel, name)
}
