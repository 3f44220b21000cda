package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	cases := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"cat", "cat", 0},
		{"cat", "cqt", 1},
		{"cat", "cats", 1},
		{"cat", "at", 1},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
		{"intention", "execution", 5},
		{"dog", "cqt", 3},
		{"abc", "cba", 2},
	}
	for _, tc := range cases {
		t.Run(tc.a+"_"+tc.b, func(t *testing.T) {
			assert.Equal(t, tc.expected, Distance(tc.a, tc.b))
		})
	}
}

func TestDistanceProperties(t *testing.T) {
	samples := []string{"", "a", "ab", "cart", "carts", "racecar", "kitten", "sitting", "zzzz"}
	for _, a := range samples {
		assert.Equal(t, 0, Distance(a, a))
		assert.Equal(t, len(a), Distance("", a))
		for _, b := range samples {
			assert.Equal(t, Distance(a, b), Distance(b, a), "%q vs %q", a, b)
			assert.LessOrEqual(t, Distance(a, b), max(len(a), len(b)))
		}
	}
}

func BenchmarkDistance(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Distance("congratulations", "congratilations")
	}
}
