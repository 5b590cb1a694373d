package theme

import "errors"

// ErrThemeNotFound is returned when a theme reference names neither a file,
// a bundled theme nor a built-in style.
var ErrThemeNotFound = errors.New("theme not found")

// NotFoundError carries the reference that could not be resolved.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return "theme not found: " + e.Name
}

// Is makes errors.Is(err, ErrThemeNotFound) hold for every NotFoundError.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrThemeNotFound
}
