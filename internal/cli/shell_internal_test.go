package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"list", []string{"list"}},
		{"  add  Buy   milk \n", []string{"add", "Buy", "milk"}},
		{"list\r\n", []string{"list"}},
		{`add -d "two litres" milk`, []string{"add", "-d", "two litres", "milk"}},
		{`add -d 'it''s' x`, []string{"add", "-d", "its", "x"}},
		{`add -d "say \"hi\"" x`, []string{"add", "-d", `say "hi"`, "x"}},
		{`add a\ b`, []string{"add", "a b"}},
		{`add "Fix A & B"`, []string{"add", "Fix A & B"}},
		{"list # open ones", []string{"list"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got, err := splitLine(tt.line)
		require.NoError(t, err, "line %q", tt.line)
		assert.Equal(t, tt.want, got, "line %q", tt.line)
	}
}

func TestSplitLine_Invalid(t *testing.T) {
	for _, line := range []string{`add "open`, `add 'open`, "add a\\", "add a\\\n"} {
		_, err := splitLine(line)
		assert.ErrorIs(t, err, errInvalidLine, "line %q", line)
	}
}
