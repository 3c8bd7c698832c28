package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsArithmetic(t *testing.T) {
	tests := []struct {
		expr string
		want bool
	}{
		{"2+2", true},
		{"(3.5 * 4) / 2", true},
		{"2^10", true},
		{"=2+2", true},
		{"", false},
		{"   ", false},
		{"firefox", false},
		{"2+2; rm -rf /", false},
		{"sqrt(2)", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsArithmetic(tt.expr), "expr %q", tt.expr)
	}
}

func TestCleanResult(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"4.2500", "4.25"},
		{"3.0000", "3"},
		{"42", "42"},
		{".5000", ".5"},
		{"0.0000", "0"},
		{"-1.5000", "-1.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanResult(tt.in), "input %q", tt.in)
	}
}
