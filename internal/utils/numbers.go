package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	mrand "math/rand/v2"
	"time"
)

// GenerateOrderNumber creates a 9-digit order number candidate: the last six
// digits of the current unix-millis clock plus three random digits. Callers
// retry against the unique index until a free number is found.
func GenerateOrderNumber() string {
	millis := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("%06d%03d", millis, mrand.IntN(1000))
}

// GenerateInvoiceNumber creates an invoice number candidate in the form
// FYYYY-XXXXXXXX. Callers retry until unique, same as order numbers.
func GenerateInvoiceNumber() string {
	year := time.Now().Year()
	millis := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("F%d-%06d%02d", year, millis, mrand.IntN(100))
}

// GenerateConfirmationToken returns 32 cryptographically random bytes as a
// 64-character hex string, used for appointment confirmation links.
func GenerateConfirmationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
