package services

import (
	"fmt"
	"strings"

	"docportal/pdfsettings"
)

// Filename follows {TypePrefix}_{documentNumber}.{ext}.
func Filename(t pdfsettings.DocumentType, number string, f Format) string {
	return fmt.Sprintf("%s_%s.%s", t.Prefix(), sanitizeFilename(number), f)
}

// sanitizeFilename replaces characters that are unsafe in file names or in a
// Content-Disposition header.
func sanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, s)
	if s == "" {
		return "document"
	}
	return s
}
