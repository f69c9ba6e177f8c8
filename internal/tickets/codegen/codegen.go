// Package codegen builds the 12-digit payloads encoded into ticket barcodes.
//
// A payload is a random six digit salt, the purchase seat count padded to
// three digits and the numeric suffix of the seat, left-padded with zeros to
// twelve characters. Payloads carry no uniqueness guarantee: two seats can
// draw the same salt and produce the same code.
package codegen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

const (
	PayloadLength = 12
	SaltMin       = 100000
	SaltMax       = 999999
)

var ErrPayloadTooLong = errors.New("barcode payload exceeds 12 digits")

// SaltFunc returns an integer in [SaltMin, SaltMax].
type SaltFunc func() (int, error)

type Generator struct {
	Salt SaltFunc
}

func NewGenerator() *Generator {
	return &Generator{Salt: RandomSalt}
}

// Generate draws a salt and returns the payload for seat.
func (g *Generator) Generate(seatCount int, seat string) (string, error) {
	saltFn := g.Salt
	if saltFn == nil {
		saltFn = RandomSalt
	}
	salt, err := saltFn()
	if err != nil {
		return "", fmt.Errorf("failed to draw salt: %w", err)
	}
	return Payload(salt, seatCount, seat)
}

// Payload is the deterministic half of Generate.
func Payload(salt, seatCount int, seat string) (string, error) {
	code := fmt.Sprintf("%d%03d%s", salt, seatCount, SeatSuffix(seat))
	if len(code) > PayloadLength {
		return "", fmt.Errorf("%w: %q", ErrPayloadTooLong, code)
	}
	return strings.Repeat("0", PayloadLength-len(code)) + code, nil
}

// SeatSuffix drops the leading row letter: "A7" -> "7", "A10" -> "10".
func SeatSuffix(seat string) string {
	if seat == "" {
		return ""
	}
	return seat[1:]
}

// RandomSalt draws uniformly from [SaltMin, SaltMax] using crypto/rand.
func RandomSalt() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(SaltMax-SaltMin+1))
	if err != nil {
		return 0, err
	}
	return SaltMin + int(n.Int64()), nil
}

// CheckDigit computes the EAN-13 check digit of a 12-digit payload.
func CheckDigit(payload string) (int, error) {
	if !IsPayload(payload) {
		return 0, fmt.Errorf("invalid payload %q", payload)
	}
	sum := 0
	for i, r := range payload {
		digit := int(r - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return (10 - sum%10) % 10, nil
}

// FullCode appends the check digit, giving the 13 digits printed under the bars.
func FullCode(payload string) (string, error) {
	check, err := CheckDigit(payload)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", payload, check), nil
}

// IsPayload reports whether s is exactly twelve ASCII digits.
func IsPayload(s string) bool {
	if len(s) != PayloadLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
