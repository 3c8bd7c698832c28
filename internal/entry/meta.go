package entry

import (
	"strings"
)

var imageFormats = map[string]bool{
	"png": true, "jpg": true, "jpeg": true, "gif": true, "bmp": true, "webp": true,
}

// ParseImageMeta extracts dimensions and format from a clipboard
// backend binary-data preview line, e.g.
// "[[ binary data 1.2 MiB png 800x600 ]]" -> "800x600 -- PNG".
// Returns "" when neither is present.
func ParseImageMeta(preview string) string {
	inner := strings.TrimSpace(
		strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(preview), "[[ binary data"), "]]"))

	var dims, format string
	for _, tok := range strings.Fields(inner) {
		if looksLikeDims(tok) {
			dims = tok
		}
		if imageFormats[strings.ToLower(tok)] {
			format = strings.ToUpper(tok)
		}
	}

	switch {
	case dims != "" && format != "":
		return dims + " -- " + format
	case dims != "":
		return dims
	case format != "":
		return format
	}
	return ""
}

func looksLikeDims(tok string) bool {
	if !strings.Contains(tok, "x") {
		return false
	}
	for _, r := range tok {
		if (r < '0' || r > '9') && r != 'x' {
			return false
		}
	}
	return true
}
