package notebook

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
)

// ErrInvalidNotebook is returned for documents that are not nbformat 4
// notebooks.
var ErrInvalidNotebook = errors.New("invalid notebook")

// Validator decides whether a decoded JSON document is a notebook.
type Validator interface {
	Valid(doc any) bool
}

// Parse validates and decodes a notebook. A nil Validator uses
// StructuralValidator. Cells without an id are given a ULID so that every
// cell can be addressed in the output.
func Parse(data []byte, v Validator) (*Notebook, error) {
	if v == nil {
		v = StructuralValidator{}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNotebook, err)
	}
	if !v.Valid(doc) {
		return nil, fmt.Errorf("%w: document does not match the nbformat 4 schema", ErrInvalidNotebook)
	}

	var nb Notebook
	if err := json.Unmarshal(data, &nb); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidNotebook, err)
	}
	for i := range nb.Cells {
		if nb.Cells[i].ID == "" {
			nb.Cells[i].ID = ulid.Make().String()
		}
	}
	return &nb, nil
}
