// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"context"
	"os"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

// TestOutputGolden pins the exact bytes written for representative inputs.
// Regenerate with: go test ./internal/extract -update
func TestOutputGolden(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		indent int
	}{
		{
			name:   "scenario",
			input:  `[{"id": "a1", "name": "X"}, {"id": "a2", "name": "Y"}]`,
			indent: 2,
		},
		{
			name:   "numbers_verbatim",
			input:  `[{"id": 101}, {"id": 1.50}, {"id": -3e2}]`,
			indent: 2,
		},
		{
			name:   "structured_ids",
			input:  `[{"id": {"a": 1, "b": [1, 2]}}, {"id": null}, {"id": "<&>"}]`,
			indent: 2,
		},
		{
			name:   "empty",
			input:  `[]`,
			indent: 2,
		},
		{
			name:   "compact",
			input:  `[{"id": "a1"}, {"id": "a2"}]`,
			indent: 0,
		},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, tt.input)

			_, err := New(WithIndent(tt.indent)).ExtractAndReplace(context.Background(), path)
			require.NoError(t, err)

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			g.Assert(t, tt.name, got)
		})
	}
}
