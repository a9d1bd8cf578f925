// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "id", cfg.Extract.Field)
	assert.Equal(t, 2, cfg.Extract.Indent)
	assert.Equal(t, ".idextract", cfg.Journal.Dir)
	assert.False(t, cfg.Journal.Disabled)
	require.NoError(t, cfg.Extract.Validate())
}

func TestExtractConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		cfg    ExtractConfig
		errMsg string
	}{
		{name: "defaults", cfg: ExtractConfig{Field: "id", Indent: 2}},
		{name: "compact", cfg: ExtractConfig{Field: "id", Indent: 0}},
		{name: "max indent", cfg: ExtractConfig{Field: "uuid", Indent: MaxIndent}},
		{name: "empty field", cfg: ExtractConfig{Indent: 2}, errMsg: "field must not be empty"},
		{name: "negative indent", cfg: ExtractConfig{Field: "id", Indent: -1}, errMsg: "out of range"},
		{name: "indent too wide", cfg: ExtractConfig{Field: "id", Indent: 9}, errMsg: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRecordID(t *testing.T) {
	r := Record{"id": []byte(`"a1"`), "name": []byte(`"X"`)}

	v, ok := r.ID("id")
	require.True(t, ok)
	assert.Equal(t, `"a1"`, string(v))

	_, ok = r.ID("uuid")
	assert.False(t, ok)
}
