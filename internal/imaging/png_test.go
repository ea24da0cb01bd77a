package imaging

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badgehub/pkg/testutil"
)

func TestValidatePNG(t *testing.T) {
	t.Run("accepts a real png", func(t *testing.T) {
		assert.NoError(t, ValidatePNG(testutil.PNG(t)))
	})

	t.Run("rejects non-png bytes", func(t *testing.T) {
		err := ValidatePNG([]byte("GIF89a not a png"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a png")
	})

	t.Run("rejects a png signature with garbage body", func(t *testing.T) {
		data := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("garbage")...)
		assert.Error(t, ValidatePNG(data))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		assert.Error(t, ValidatePNG(nil))
	})
}

func TestEmbedText(t *testing.T) {
	source := testutil.PNG(t)

	t.Run("embedded value round-trips", func(t *testing.T) {
		baked, err := EmbedText(source, "openbadges", "https://badges.example.com/assertion/abc/")
		require.NoError(t, err)

		value, ok := ExtractText(baked, "openbadges")
		require.True(t, ok)
		assert.Equal(t, "https://badges.example.com/assertion/abc/", value)
	})

	t.Run("baked image still decodes", func(t *testing.T) {
		baked, err := EmbedText(source, "openbadges", "https://badges.example.com/assertion/abc/")
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(baked))
		require.NoError(t, err)
		assert.Equal(t, 4, img.Bounds().Dx())
	})

	t.Run("source image is not mutated", func(t *testing.T) {
		before := make([]byte, len(source))
		copy(before, source)

		_, err := EmbedText(source, "openbadges", "value")
		require.NoError(t, err)
		assert.Equal(t, before, source)
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		_, err := EmbedText(source, "", "value")
		assert.Error(t, err)
	})

	t.Run("rejects a NUL in the value", func(t *testing.T) {
		_, err := EmbedText(source, "openbadges", "bad\x00value")
		assert.Error(t, err)
	})

	t.Run("rejects non-png input", func(t *testing.T) {
		_, err := EmbedText([]byte("not a png"), "openbadges", "value")
		assert.Error(t, err)
	})
}

func TestExtractText(t *testing.T) {
	source := testutil.PNG(t)

	t.Run("absent key reports false", func(t *testing.T) {
		_, ok := ExtractText(source, "openbadges")
		assert.False(t, ok)
	})

	t.Run("wrong key reports false", func(t *testing.T) {
		baked, err := EmbedText(source, "openbadges", "value")
		require.NoError(t, err)

		_, ok := ExtractText(baked, "other")
		assert.False(t, ok)
	})

	t.Run("non-png input reports false", func(t *testing.T) {
		_, ok := ExtractText([]byte("not a png"), "openbadges")
		assert.False(t, ok)
	})
}
