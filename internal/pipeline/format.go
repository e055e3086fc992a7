package pipeline

import (
	"fmt"
	"strings"

	"documind-backend/internal/shared/util"
)

// SummaryChars is how much extracted text each summary prompt receives.
const SummaryChars = 15000

// FormatFileSize renders a byte count in megabytes with two decimals.
func FormatFileSize(b int64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/1024/1024)
}

// TitleFromFileName drops the first ".pdf" from the file name.
func TitleFromFileName(name string) string {
	return strings.Replace(name, ".pdf", "", 1)
}

// Truncate keeps the first n characters of s.
func Truncate(s string, n int) string {
	return util.Truncate(s, n)
}
