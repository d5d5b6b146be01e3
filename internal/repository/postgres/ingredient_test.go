package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLikePrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"plain", "sugar", "sugar"},
		{"percent", "100%", `100\%`},
		{"bare wildcard", "%", `\%`},
		{"underscore", "sea_salt", `sea\_salt`},
		{"backslash", `a\b`, `a\\b`},
		{"mixed", `%_\`, `\%\_\\`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLikePrefix(tt.prefix))
		})
	}
}
