package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		want string
	}{
		{name: "assign", kind: ASSIGN, want: "="},
		{name: "identifier", kind: IDENTIFIER, want: "IDENTIFIER"},
		{name: "number", kind: NUMBER, want: "NUMBER"},
		{name: "star", kind: STAR, want: "*"},
		{name: "fun keyword", kind: FUN, want: "fun"},
		{name: "unknown", kind: Kind(-1), want: "Kind(-1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestKeywordsTable(t *testing.T) {
	kind, ok := Keywords["fun"]
	assert.True(t, ok)
	assert.Equal(t, FUN, kind)

	_, ok = Keywords["myVar"]
	assert.False(t, ok, "plain identifiers must not appear in the keyword table")
}
