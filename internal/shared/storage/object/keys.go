package object

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path"
	"time"

	"documind-backend/internal/shared/util"
)

// KeyPrefix is the namespace uploaded documents are stored under.
const KeyPrefix = "documents"

// NewKey builds a unique storage key for fileName, e.g. documents/2026/10/19/<hex>_report.pdf.
func NewKey(fileName string, now time.Time) (string, error) {
	sanitized, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(KeyPrefix, now.UTC().Format("2006/01/02"), randomID()+"_"+sanitized), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
