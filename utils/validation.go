// utils/validation.go
package utils

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var initialsPattern = regexp.MustCompile(`^[A-Za-z]{2,3}$`)

// ValidInitials reports whether s is two or three letters.
func ValidInitials(s string) bool {
	return initialsPattern.MatchString(s)
}

// NormalizeInitials upper-cases initials so lookups are case-insensitive.
func NormalizeInitials(s string) string {
	return strings.ToUpper(s)
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateCustomerID builds CUST-<base36 millis>-<6 random base36>, upper-cased.
func GenerateCustomerID(now time.Time) string {
	ts := strconv.FormatInt(now.UnixMilli(), 36)
	var b strings.Builder
	max := big.NewInt(int64(len(base36)))
	for i := 0; i < 6; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic("failed to generate customer ID")
		}
		b.WriteByte(base36[n.Int64()])
	}
	return strings.ToUpper("CUST-" + ts + "-" + b.String())
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
