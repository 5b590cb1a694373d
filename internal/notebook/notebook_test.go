package notebook

import (
	"encoding/json"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "metadata": {
    "kernelspec": {"name": "python3", "language": "python", "display_name": "Python 3"},
    "language_info": {"name": "Python", "version": "3.12.1"}
  },
  "nbformat": 4,
  "nbformat_minor": 5,
  "cells": [
    {"id": "intro", "cell_type": "markdown", "metadata": {}, "source": ["# Title\n", "Some *text*."]},
    {"cell_type": "code", "metadata": {}, "execution_count": 1, "source": "print('hi')",
     "outputs": [
       {"output_type": "stream", "name": "stdout", "text": ["hi\n"]},
       {"output_type": "execute_result", "execution_count": 1, "metadata": {},
        "data": {"text/plain": ["{'a': 1}"], "application/json": {"a": 1}}},
       {"output_type": "error", "ename": "ValueError", "evalue": "bad", "traceback": ["\u001b[31mValueError\u001b[0m: bad"]}
     ]},
    {"id": "r", "cell_type": "raw", "metadata": {}, "source": ""}
  ]
}`

func TestParse(t *testing.T) {
	nb, err := Parse([]byte(sample), nil)
	require.NoError(t, err)

	assert.Equal(t, 4, nb.NBFormat)
	assert.Equal(t, 5, nb.NBFormatMinor)
	require.Len(t, nb.Cells, 3)
	assert.Equal(t, 1, nb.CodeCells())
	assert.Equal(t, "python", nb.Language())

	md := nb.Cells[0]
	assert.Equal(t, "intro", md.ID)
	assert.Equal(t, CellMarkdown, md.CellType)
	assert.Equal(t, Source("# Title\nSome *text*."), md.Source)

	code := nb.Cells[1]
	assert.True(t, code.IsCode())
	_, err = ulid.Parse(code.ID)
	assert.NoError(t, err, "missing ids are filled with a ULID")
	require.NotNil(t, code.ExecutionCount)
	assert.Equal(t, 1, *code.ExecutionCount)
	require.Len(t, code.Outputs, 3)

	stream := code.Outputs[0]
	assert.Equal(t, OutputStream, stream.OutputType)
	assert.Equal(t, "stdout", stream.Name)
	assert.Equal(t, "hi\n", stream.Text.String())

	result := code.Outputs[1]
	assert.Equal(t, "{'a': 1}", result.Data.Text("text/plain"))
	assert.JSONEq(t, `{"a": 1}`, result.Data.Text("application/json"))
	assert.Equal(t, "application/json", result.Data.Preferred())

	errOut := code.Outputs[2]
	assert.Equal(t, "ValueError", errOut.EName)
	assert.Len(t, errOut.Traceback, 1)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"cells": [`},
		{"not an object", `[]`},
		{"wrong major version", `{"metadata": {}, "nbformat": 3, "nbformat_minor": 0, "cells": []}`},
		{"missing cells", `{"metadata": {}, "nbformat": 4, "nbformat_minor": 0}`},
		{"unknown cell type", `{"metadata": {}, "nbformat": 4, "nbformat_minor": 0,
			"cells": [{"cell_type": "widget", "metadata": {}, "source": ""}]}`},
		{"code cell without outputs", `{"metadata": {}, "nbformat": 4, "nbformat_minor": 0,
			"cells": [{"cell_type": "code", "metadata": {}, "source": "", "execution_count": null}]}`},
		{"source of numbers", `{"metadata": {}, "nbformat": 4, "nbformat_minor": 0,
			"cells": [{"cell_type": "markdown", "metadata": {}, "source": [1, 2]}]}`},
		{"stream without name", `{"metadata": {}, "nbformat": 4, "nbformat_minor": 0,
			"cells": [{"cell_type": "code", "metadata": {}, "source": "", "execution_count": null,
			"outputs": [{"output_type": "stream", "text": "x"}]}]}`},
		{"empty id", `{"metadata": {}, "nbformat": 4, "nbformat_minor": 0,
			"cells": [{"id": "", "cell_type": "raw", "metadata": {}, "source": ""}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), nil)
			assert.ErrorIs(t, err, ErrInvalidNotebook)
		})
	}
}

type rejectAll struct{}

func (rejectAll) Valid(any) bool { return false }

func TestParse_CustomValidator(t *testing.T) {
	_, err := Parse([]byte(sample), rejectAll{})
	assert.ErrorIs(t, err, ErrInvalidNotebook)
}

func TestSource_UnmarshalJSON(t *testing.T) {
	var s Source
	require.NoError(t, json.Unmarshal([]byte(`"a\nb"`), &s))
	assert.Equal(t, Source("a\nb"), s)

	require.NoError(t, json.Unmarshal([]byte(`["a\n", "b"]`), &s))
	assert.Equal(t, Source("a\nb"), s)

	assert.Error(t, json.Unmarshal([]byte(`{"a": 1}`), &s))
}

func TestMimeBundle_Preferred(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"empty", nil, ""},
		{"html beats plain", []string{"text/plain", "text/html"}, "text/html"},
		{"png beats plain", []string{"text/plain", "image/png"}, "image/png"},
		{"unknown types sorted", []string{"application/x-b", "application/x-a"}, "application/x-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MimeBundle{}
			for _, k := range tt.keys {
				m[k] = json.RawMessage(`""`)
			}
			assert.Equal(t, tt.want, m.Preferred())
		})
	}
}

func TestLanguage(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]any
		want     string
	}{
		{"none", nil, ""},
		{"language_info", map[string]any{"language_info": map[string]any{"name": "Python"}}, "python"},
		{"kernelspec", map[string]any{"kernelspec": map[string]any{"language": "R"}}, "r"},
		{"language_info wins", map[string]any{
			"language_info": map[string]any{"name": "julia"},
			"kernelspec":    map[string]any{"language": "python"},
		}, "julia"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb := &Notebook{Metadata: tt.metadata}
			assert.Equal(t, tt.want, nb.Language())
		})
	}
}
