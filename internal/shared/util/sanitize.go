package util

import (
	"errors"
	"path"
	"strings"

	"github.com/gosimple/slug"
)

// SanitizeFileName turns a client supplied file name into a storage-safe one.
// The extension is kept lower-cased; the stem is slugified.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	s = strings.ReplaceAll(s, "\\", "/")
	s = path.Base(s)
	if s == "." || s == "/" {
		return "", errors.New("invalid file name")
	}

	ext := strings.ToLower(path.Ext(s))
	stem := slug.Make(strings.TrimSuffix(s, path.Ext(s)))
	if stem == "" {
		return "", errors.New("invalid file name")
	}
	if ext == "." {
		ext = ""
	}
	return stem + ext, nil
}
