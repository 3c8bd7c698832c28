package entry

import (
	"bytes"
	"net/url"
	"strings"
)

// Raster image signatures. BMP and WebP extend the set the clipboard
// backend is known to emit.
var imageSignatures = [][]byte{
	{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A},
	{0xFF, 0xD8, 0xFF}, // JPEG
	[]byte("GIF87a"),
	[]byte("GIF89a"),
	{0x42, 0x4D},   // BMP
	[]byte("RIFF"), // WebP, confirmed by the WEBP tag at offset 8
}

// Classify maps raw entry bytes to a content kind. It is pure and
// deterministic: IMAGE if the bytes carry a known raster signature,
// URL if the text is a single strict URL token, TEXT otherwise.
// Ambiguity resolves toward TEXT.
func Classify(raw []byte) Kind {
	if len(raw) == 0 {
		return Text
	}
	if isImageData(raw) {
		return Image
	}
	if isStrictURL(string(raw)) {
		return URL
	}
	return Text
}

func isImageData(raw []byte) bool {
	for _, sig := range imageSignatures {
		if bytes.HasPrefix(raw, sig) {
			if sig[0] == 'R' {
				// RIFF containers are only images when tagged WEBP.
				return len(raw) >= 12 && bytes.Equal(raw[8:12], []byte("WEBP"))
			}
			return true
		}
	}
	return false
}

// isStrictURL accepts only a single whole-line token with an http(s)
// scheme and a host. Anything with embedded whitespace is prose, not a
// link.
func isStrictURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n\r") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}
