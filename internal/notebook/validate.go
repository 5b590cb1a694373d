package notebook

// StructuralValidator checks the nbformat 4 document shape: the top-level
// fields, every cell's type and required fields, and every output's type
// and required fields. Metadata contents are not checked.
type StructuralValidator struct{}

// Valid implements Validator.
func (StructuralValidator) Valid(doc any) bool {
	nb, ok := doc.(map[string]any)
	if !ok {
		return false
	}
	if major, ok := number(nb["nbformat"]); !ok || major != 4 {
		return false
	}
	if minor, ok := number(nb["nbformat_minor"]); !ok || minor < 0 {
		return false
	}
	if _, ok := nb["metadata"].(map[string]any); !ok {
		return false
	}
	cells, ok := nb["cells"].([]any)
	if !ok {
		return false
	}
	for _, c := range cells {
		if !validCell(c) {
			return false
		}
	}
	return true
}

func validCell(v any) bool {
	cell, ok := v.(map[string]any)
	if !ok {
		return false
	}
	if id, present := cell["id"]; present {
		if s, ok := id.(string); !ok || s == "" || len(s) > 64 {
			return false
		}
	}
	if _, ok := cell["metadata"].(map[string]any); !ok {
		return false
	}
	if !isSource(cell["source"]) {
		return false
	}

	switch cell["cell_type"] {
	case CellMarkdown, CellRaw:
		return true
	case CellCode:
		if !nullableNumber(cell, "execution_count") {
			return false
		}
		outputs, ok := cell["outputs"].([]any)
		if !ok {
			return false
		}
		for _, o := range outputs {
			if !validOutput(o) {
				return false
			}
		}
		return true
	}
	return false
}

func validOutput(v any) bool {
	out, ok := v.(map[string]any)
	if !ok {
		return false
	}
	switch out["output_type"] {
	case OutputExecuteResult:
		if !nullableNumber(out, "execution_count") {
			return false
		}
		return isObject(out["data"]) && isObject(out["metadata"])
	case OutputDisplayData:
		return isObject(out["data"]) && isObject(out["metadata"])
	case OutputStream:
		_, ok := out["name"].(string)
		return ok && isSource(out["text"])
	case OutputError:
		_, okName := out["ename"].(string)
		_, okValue := out["evalue"].(string)
		tb, okTB := out["traceback"].([]any)
		if !okName || !okValue || !okTB {
			return false
		}
		for _, line := range tb {
			if _, ok := line.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

func isObject(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

func isSource(v any) bool {
	switch s := v.(type) {
	case string:
		return true
	case []any:
		for _, line := range s {
			if _, ok := line.(string); !ok {
				return false
			}
		}
		return true
	}
	return false
}

// nullableNumber reports whether key is present and holds null or a
// non-negative integer.
func nullableNumber(m map[string]any, key string) bool {
	v, present := m[key]
	if !present {
		return false
	}
	if v == nil {
		return true
	}
	n, ok := number(v)
	return ok && n >= 0
}

func number(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}
