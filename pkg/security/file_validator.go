package security

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Detected file extension
	DetectedMIME string // Detected MIME type
	Error        string // Error message if validation failed
}

// Magic byte signatures for allowed file types
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".pdf":  {{0x25, 0x50, 0x44, 0x46}}, // %PDF
}

// Allowed MIME type per extension
var allowedMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".pdf":  "application/pdf",
}

// ValidateFile performs 4-layer file validation:
// 1. Extension whitelist check
// 2. Size limit
// 3. Magic byte verification (content matches extension)
// 4. Sniffed MIME type matches the extension
func ValidateFile(filename string, data []byte, maxBytes int64) FileValidationResult {
	var result FileValidationResult

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if _, ok := allowedMIME[ext]; !ok {
		result.Error = "Invalid file type: " + ext + " (allowed: " + strings.Join(AllowedExtensions(), ", ") + ")"
		return result
	}

	if maxBytes > 0 && int64(len(data)) > maxBytes {
		result.Error = fmt.Sprintf("File too large: %s exceeds %d MB", filename, maxBytes/(1024*1024))
		return result
	}

	if !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension " + ext
		return result
	}

	result.DetectedMIME = http.DetectContentType(data)
	if result.DetectedMIME != allowedMIME[ext] {
		result.Error = "MIME type not allowed: " + result.DetectedMIME
		return result
	}

	result.Valid = true
	return result
}

// validateMagicBytes checks if file content starts with expected magic bytes
func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false // File too small to validate
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// AllowedExtensions returns the accepted extensions in display order
func AllowedExtensions() []string {
	return []string{".pdf", ".jpg", ".jpeg", ".png"}
}

// IsImageExtension checks if the extension is an image type
func IsImageExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}
