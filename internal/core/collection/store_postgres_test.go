package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLikePattern(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"bowls", "%bowls%"},
		{"100%", `%100\%%`},
		{"snake_case", `%snake\_case%`},
		{`back\slash`, `%back\\slash%`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, likePattern(tt.input))
		})
	}
}

func TestPastLastPage(t *testing.T) {
	tests := []struct {
		name   string
		found  int
		offset int
		want   bool
	}{
		{"first_page_empty", 0, 0, false},
		{"page_with_rows", 5, 20, false},
		{"beyond_end", 0, 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pastLastPage(tt.found, tt.offset))
		})
	}
}
