package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHash(t *testing.T) {
	t.Run("is deterministic for the same input and salt", func(t *testing.T) {
		first := Hash("alice@example.com", "ab12c")
		second := Hash("alice@example.com", "ab12c")
		assert.Equal(t, first, second)
	})

	t.Run("carries the algorithm prefix", func(t *testing.T) {
		got := Hash("alice@example.com", "ab12c")
		assert.True(t, strings.HasPrefix(got, "sha256$"))
		// 64 hex chars after the prefix.
		assert.Len(t, strings.TrimPrefix(got, "sha256$"), 64)
	})

	t.Run("distinct emails produce distinct hashes under a fixed salt", func(t *testing.T) {
		assert.NotEqual(t,
			Hash("alice@example.com", "ab12c"),
			Hash("bob@example.com", "ab12c"),
		)
	})

	t.Run("salt changes the digest", func(t *testing.T) {
		assert.NotEqual(t,
			Hash("alice@example.com", "ab12c"),
			Hash("alice@example.com", "ab12d"),
		)
	})
}

func TestGenerateSalt(t *testing.T) {
	t.Run("is five lowercase hex characters", func(t *testing.T) {
		salt := GenerateSalt()
		assert.Len(t, salt, 5)
		for _, c := range salt {
			assert.Contains(t, "0123456789abcdef", string(c))
		}
	})

	t.Run("varies between calls", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 32; i++ {
			seen[GenerateSalt()] = true
		}
		// 32 draws from a 20-bit space collide occasionally but never
		// collapse to a handful of values.
		assert.Greater(t, len(seen), 16)
	})
}
