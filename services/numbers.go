package services

import (
	"fmt"
	"math/rand"
	"time"
)

// NewDocumentNo builds a business document number: prefix + yyyymm + a
// 4-digit random suffix, e.g. PO2024010042. The suffix is not unique by
// construction; callers rely on the store's unique index and retry.
func NewDocumentNo(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%04d%02d%04d", prefix, now.Year(), int(now.Month()), rand.Intn(10000))
}
