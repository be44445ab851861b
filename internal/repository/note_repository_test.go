package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a.b*", "a.b*"},
		{"50%", `50\%`},
		{"snake_case", `snake\_case`},
		{`back\slash`, `back\\slash`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, EscapeLike(tc.in), "input %q", tc.in)
	}
}

func TestTagPatternMatchesStoredEncoding(t *testing.T) {
	cases := []struct {
		tag  string
		want string
	}{
		{"travel", `%"travel"%`},
		{"snake_case", `%"snake\_case"%`},
		// quotes and backslashes get the same JSON escaping the column holds
		{`a"b`, `%"a\\"b"%`},
		{`back\slash`, `%"back\\\\slash"%`},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tagPattern(tc.tag), "tag %q", tc.tag)
	}
}
