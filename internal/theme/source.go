package theme

// Source is what a theme reference resolves to: either a theme document
// that has already been resolved, or the name of a built-in style that
// still has to be translated.
type Source interface {
	isSource()
}

// Custom is a theme resolved from a user or bundled theme document.
type Custom struct {
	Theme *Theme
}

// BuiltinNamed names a chroma built-in style.
type BuiltinNamed struct {
	Name string
}

func (Custom) isSource()       {}
func (BuiltinNamed) isSource() {}

// FromSource produces the Theme a Source stands for.
func FromSource(src Source) (*Theme, error) {
	switch s := src.(type) {
	case Custom:
		if s.Theme == nil {
			return Resolve(nil), nil
		}
		return s.Theme, nil
	case BuiltinNamed:
		return FromChromaStyle(s.Name)
	default:
		return nil, &NotFoundError{Name: "<nil>"}
	}
}
