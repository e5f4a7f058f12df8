package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  Margherita  Pizza ", "margherita pizza"},
		{"Crème Brûlée", "creme brulee"},
		{"CAFÉ latte", "cafe latte"},
		{"", ""},
		{"   ", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeName(tc.in), "input %q", tc.in)
	}
}

func TestRemoveDiacritics(t *testing.T) {
	assert.Equal(t, "creme brulee", RemoveDiacritics("crème brûlée"))
	assert.Equal(t, "plain text", RemoveDiacritics("plain text"))
}

func TestMatchesQuery(t *testing.T) {
	assert.True(t, MatchesQuery("Crème Brûlée", "creme"))
	assert.True(t, MatchesQuery("Margherita Pizza", "PIZZA"))
	assert.True(t, MatchesQuery("anything", ""))
	assert.False(t, MatchesQuery("Margherita Pizza", "sushi"))
}
