package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

func TestDecodeLenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"strict json", `{"name": "EBIT", "values": [1, 2]}`},
		{"trailing comma", `{"name": "EBIT", "values": [1, 2],}`},
		{"truncated", `{"name": "EBIT", "values": [1, 2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got sample
			require.NoError(t, DecodeLenient([]byte(tt.input), &got))
			assert.Equal(t, sample{Name: "EBIT", Values: []float64{1, 2}}, got)
		})
	}
}

func TestDecodeHJSON(t *testing.T) {
	var got sample
	require.NoError(t, DecodeHJSON([]byte("{\n  // periods\n  name: FCFF\n  values: [3]\n}"), &got))
	assert.Equal(t, "FCFF", got.Name)
	assert.Equal(t, []float64{3}, got.Values)

	assert.Error(t, DecodeHJSON([]byte("[1, 2"), &got))
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("# Report\n\n| Period | FCFF |\n|---|---|\n| 1 | 10 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Report</h1>")
	assert.Contains(t, html, "<table>")
}
