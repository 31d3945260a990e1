// Package token encodes and decodes the opaque tokens that sibling services
// in the financial group use instead of a customer's CI. A token is base64
// text wrapping either an underscore-delimited shape ("GCT_<phone>_<issuer>"
// or "CI_<phone>_<issuer>") or a bare dashed phone number.
package token

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/kopofin/hanabank/internal/models"
)

// issuerSuffix tags tokens synthesized by this bank.
const issuerSuffix = "KIMHANA_001"

var dashedPhonePattern = regexp.MustCompile(`^\d{3}-\d{4}-\d{4}$`)

// DecodePhone extracts the canonical digits-only phone number from a token.
//
// Base64 decoding is attempted first; if it fails the raw input is used as
// already-decoded text, so a decode-format mismatch alone never fails the
// call. The decoded text must then either contain underscores (phone is the
// second segment) or match the dashed phone pattern, otherwise the token is
// malformed and ErrTokenFormat is returned.
func DecodePhone(tok string) (string, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return "", fmt.Errorf("empty token: %w", models.ErrTokenFormat)
	}

	decoded := tok
	if raw, err := base64.StdEncoding.DecodeString(tok); err == nil {
		decoded = string(raw)
	}

	if strings.Contains(decoded, "_") {
		parts := strings.Split(decoded, "_")
		if len(parts) < 2 || parts[1] == "" {
			return "", fmt.Errorf("token %q has no phone segment: %w", decoded, models.ErrTokenFormat)
		}
		return NormalizePhone(parts[1]), nil
	}

	if dashedPhonePattern.MatchString(decoded) {
		return NormalizePhone(decoded), nil
	}

	return "", fmt.Errorf("unrecognized token shape: %w", models.ErrTokenFormat)
}

// EncodeGroupToken synthesizes the default group customer token for a phone
// number: base64("GCT_<digits>_KIMHANA_001").
func EncodeGroupToken(phone string) string {
	plain := "GCT_" + NormalizePhone(phone) + "_" + issuerSuffix
	return base64.StdEncoding.EncodeToString([]byte(plain))
}

// NormalizePhone strips hyphens, producing the digits-only form every lookup
// keys on.
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), "-", "")
}
