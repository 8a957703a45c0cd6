package plandef

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// DecodeError is a structured error from plan-definition decoding, with
// the CUE source position when one is available.
type DecodeError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *DecodeError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Field, e.Message)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// formatCUEError converts a raw CUE error into a DecodeError, preserving
// the first position CUE reports.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	var pos token.Pos
	if positions := errors.Positions(errors.Promote(err, "")); len(positions) > 0 {
		pos = positions[0]
	}
	return &DecodeError{Message: errors.Details(err, nil), Pos: pos}
}
