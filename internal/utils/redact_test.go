package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ada@example.com", "a***@example.com"},
		{" Bob@Example.com ", "B***@Example.com"},
		{"not-an-email", "***"},
		{"@example.com", "***"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MaskEmail(tt.in), tt.in)
	}
}
