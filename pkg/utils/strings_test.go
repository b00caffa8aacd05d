package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Camisa de Vestir", "camisa-de-vestir"},
		{"  Franela -- Negra!  ", "franela-negra"},
		{"UPPER case", "upper-case"},
		{"---", ""},
		{"ya-es-slug", "ya-es-slug"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSlug(tt.input), "input %q", tt.input)
	}
}

func TestParseInt(t *testing.T) {
	assert.Equal(t, 10, ParseInt("10", 1))
	assert.Equal(t, 1, ParseInt("", 1))
	assert.Equal(t, 1, ParseInt("abc", 1))
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3creto")
	assert.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3creto"))
	assert.False(t, CheckPassword(hash, "otro"))
}
