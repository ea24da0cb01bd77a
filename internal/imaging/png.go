// Package imaging validates badge images and bakes assertion metadata into
// PNG files. Baking inserts a tEXt chunk rather than re-encoding pixels, so
// the badge artwork passes through byte-identical.
package imaging

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"image/png"
	"strings"

	dErrors "badgehub/pkg/domain-errors"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// ValidatePNG rejects anything that is not a decodable PNG. Upload
// validation must catch bad images before a badge is created; awards bake
// from this image later and a broken reference image would poison every
// assertion.
func ValidatePNG(data []byte) error {
	if !bytes.HasPrefix(data, pngSignature) {
		return dErrors.New(dErrors.CodeValidation, "image is not a png")
	}
	if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
		return dErrors.Wrap(dErrors.CodeValidation, "image is not a valid png", err)
	}
	return nil
}

// EmbedText returns a copy of the PNG with a tEXt chunk (key, value)
// inserted directly after the IHDR chunk. Latin-1 keys of 1-79 bytes are a
// PNG format requirement.
func EmbedText(data []byte, key, value string) ([]byte, error) {
	if len(key) == 0 || len(key) > 79 || strings.ContainsRune(key, 0) {
		return nil, fmt.Errorf("invalid tEXt key %q", key)
	}
	if strings.ContainsRune(value, 0) {
		return nil, fmt.Errorf("tEXt value must not contain NUL")
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return nil, fmt.Errorf("not a png")
	}

	chunk := textChunk(key, value)
	rest := data[len(pngSignature):]

	// The first chunk must be IHDR; splice the tEXt chunk right behind it.
	if len(rest) < 8 {
		return nil, fmt.Errorf("truncated png")
	}
	ihdrLen := binary.BigEndian.Uint32(rest[:4])
	if string(rest[4:8]) != "IHDR" {
		return nil, fmt.Errorf("png does not start with IHDR")
	}
	ihdrEnd := 8 + int(ihdrLen) + 4
	if len(rest) < ihdrEnd {
		return nil, fmt.Errorf("truncated png")
	}

	out := make([]byte, 0, len(data)+len(chunk))
	out = append(out, pngSignature...)
	out = append(out, rest[:ihdrEnd]...)
	out = append(out, chunk...)
	out = append(out, rest[ihdrEnd:]...)
	return out, nil
}

// ExtractText returns the value of the first tEXt chunk carrying key, or
// false when absent.
func ExtractText(data []byte, key string) (string, bool) {
	if !bytes.HasPrefix(data, pngSignature) {
		return "", false
	}
	rest := data[len(pngSignature):]
	for len(rest) >= 12 {
		length := int(binary.BigEndian.Uint32(rest[:4]))
		chunkType := string(rest[4:8])
		if len(rest) < 8+length+4 {
			return "", false
		}
		if chunkType == "tEXt" {
			payload := rest[8 : 8+length]
			if k, v, ok := bytes.Cut(payload, []byte{0}); ok && string(k) == key {
				return string(v), true
			}
		}
		rest = rest[8+length+4:]
	}
	return "", false
}

func textChunk(key, value string) []byte {
	payload := make([]byte, 0, len(key)+1+len(value))
	payload = append(payload, key...)
	payload = append(payload, 0)
	payload = append(payload, value...)

	chunk := make([]byte, 0, 12+len(payload))
	chunk = binary.BigEndian.AppendUint32(chunk, uint32(len(payload)))
	chunk = append(chunk, "tEXt"...)
	chunk = append(chunk, payload...)

	crc := crc32.NewIEEE()
	crc.Write(chunk[4:])
	chunk = binary.BigEndian.AppendUint32(chunk, crc.Sum32())
	return chunk
}
