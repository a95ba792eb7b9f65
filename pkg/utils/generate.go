package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func GenerateUUID() uuid.UUID {
	return uuid.New()
}

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// ==================== NUMERIC CODES ====================

// GenerateOTP creates a numeric code of the given length from crypto/rand
func GenerateOTP(length int) string {
	if length <= 0 {
		length = 6
	}

	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// rand.Reader failing means the platform entropy source is broken
			panic(err)
		}
		code[i] = byte('0' + n.Int64())
	}

	return string(code)
}

// ==================== BACKUP CODES ====================

const backupCodeLength = 10

// GenerateBackupCodes returns n codes in plaintext and hashed form.
// Plaintext is shown to the user exactly once; only hashes are stored.
func GenerateBackupCodes(n int) ([]string, []string, error) {
	plainCodes := make([]string, 0, n)
	hashes := make([]string, 0, n)

	for i := 0; i < n; i++ {
		b := make([]byte, backupCodeLength)
		if _, err := rand.Read(b); err != nil {
			return nil, nil, fmt.Errorf("generate backup code: %w", err)
		}

		code := base64.StdEncoding.WithPadding(base64.NoPadding).EncodeToString(b)
		if len(code) > backupCodeLength {
			code = code[:backupCodeLength]
		}

		plainCodes = append(plainCodes, code)
		hashes = append(hashes, HashCode(code))
	}

	return plainCodes, hashes, nil
}

// ==================== ORDER ID ====================

// GenerateOrderID creates a unique order ID with timestamp
func GenerateOrderID() string {
	now := time.Now()

	// Format: ORD-YYYYMMDD-HHMMSS-RANDOM
	datePart := now.Format("20060102")
	timePart := now.Format("150405")

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		panic(err)
	}
	randomPart := fmt.Sprintf("%04d", n.Int64())

	return fmt.Sprintf("ORD-%s-%s-%s", datePart, timePart, randomPart)
}

// ==================== PARSING ====================

// ParseInt converts string to int with default value
func ParseInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}

	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	if result < 1 {
		return defaultValue
	}

	return result
}
