// Package refs builds the human-readable references used for orders and
// manual stock adjustments.
package refs

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	orderPrefix      = "ORD"
	adjustmentPrefix = "INV"
	suffixBytes      = 4
)

// OrderNumber returns ORD-YYYYMMDD-HHMMSS-<8 hex>.
func OrderNumber(now time.Time) (string, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", orderPrefix, now.UTC().Format("20060102-150405"), suffix), nil
}

// AdjustmentRef returns INV-YYYYMMDDHHMMSS-<8 hex>.
func AdjustmentRef(now time.Time) (string, error) {
	suffix, err := randomSuffix()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", adjustmentPrefix, now.UTC().Format("20060102150405"), suffix), nil
}

func randomSuffix() (string, error) {
	buf := make([]byte, suffixBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reference suffix: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
