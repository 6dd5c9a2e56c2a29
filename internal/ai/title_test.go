package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentenceCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Space Is Getting Crowded", "Space is getting crowded"},
		{"Why The EU Matters Now", "Why the EU matters now"},
		{"Space is getting crowded", "Space is getting crowded"},
		{"Two Words", "Two Words"},
		{"", ""},
		{"The NATO Summit And AI Policy", "The NATO summit and AI policy"},
		{"Sony turns off the TV", "Sony turns off the TV"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SentenceCase(tt.in), tt.in)
	}
}

func TestNormalizeTitles(t *testing.T) {
	got := normalizeTitles([]string{"  Markets Alone Will Not Solve ", "", "   ", "Regimes are trembling"})
	assert.Equal(t, []string{"Markets alone will not solve", "Regimes are trembling"}, got)
}
