package highlight

import (
	"errors"
	"fmt"
)

// ErrLex is matched by every LexError.
var ErrLex = errors.New("lexical error")

// LexError reports that a source string could not be tokenized. It only
// concerns the one source string; callers fall back to plain text.
type LexError struct {
	Pos    Position
	Reason string
	Err    error
}

func (e *LexError) Error() string {
	msg := fmt.Sprintf("lexical error at %d:%d: %s", e.Pos.Row+1, e.Pos.Col+1, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LexError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrLex) hold for every LexError.
func (e *LexError) Is(target error) bool {
	return target == ErrLex
}
