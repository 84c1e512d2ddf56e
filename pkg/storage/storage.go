// Package storage persists uploaded application documents.
package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ObjectName builds a unique object key such as "passport/<uuid>_My_Passport.pdf".
func ObjectName(field, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s_%s%s", field, uuid.NewString(), SanitizeFilename(filename), ext)
}

// SanitizeFilename drops the extension, replaces spaces with underscores
// and keeps only ASCII letters, digits, '_' and '-'.
func SanitizeFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.ReplaceAll(base, " ", "_")

	var result strings.Builder
	for _, r := range base {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			result.WriteRune(r)
		}
	}

	if result.Len() == 0 {
		return "file"
	}
	if result.Len() > 64 {
		return result.String()[:64]
	}
	return result.String()
}
