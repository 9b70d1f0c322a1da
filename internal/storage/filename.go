package storage

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxBaseNameLength = 64

// NewObjectKey derives a storage key from the client's original filename:
// the sanitized base name plus a uuid suffix, keeping the extension. Two
// uploads of the same file never collide.
func NewObjectKey(originalName string) string {
	base := filepath.Base(strings.TrimSpace(originalName))
	ext := filepath.Ext(base)
	base = strings.TrimSuffix(base, ext)

	base = sanitize(base)
	if base == "" {
		base = "avatar"
	}
	if len(base) > maxBaseNameLength {
		base = base[:maxBaseNameLength]
	}

	return base + "-" + uuid.NewString() + strings.ToLower(sanitizeExt(ext))
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func sanitizeExt(ext string) string {
	if ext == "" {
		return ""
	}
	clean := sanitize(strings.TrimPrefix(ext, "."))
	if clean == "" {
		return ""
	}
	return "." + clean
}
