package docaccess

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SupportedExtensions lists file extensions this service can open.
var SupportedExtensions = map[string]bool{
	".docx": true,
	".pdf":  true,
	".html": true,
	".htm":  true,
}

// ForFile returns the backend for a document path. The docx backend is
// writable; pdf and html are read-only and only usable for suggest runs.
func ForFile(path, outPath string) (Context, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return NewDocxDoc(path, outPath), nil
	case ".pdf":
		return NewPdfDoc(path), nil
	case ".html", ".htm":
		return NewHTMLDoc(path), nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", filepath.Ext(path))
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(path string) bool {
	return SupportedExtensions[strings.ToLower(filepath.Ext(path))]
}
