package schedule

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode is the watering mode of an irrigation schedule.
type Mode string

const (
	ModeDrip   Mode = "drip"
	ModeSpray  Mode = "spray"
	ModeManual Mode = "manual"
)

var modeFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeMode strips diacritics, trims, and lowercases a user-supplied
// watering mode so "Aspersión" and "aspersion" compare equal.
func NormalizeMode(s string) string {
	folded, _, err := transform.String(modeFold, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ParseMode resolves a raw watering mode to the closed enum. Spanish input
// names are accepted alongside the canonical values.
func ParseMode(s string) (Mode, error) {
	switch NormalizeMode(s) {
	case "drip", "goteo":
		return ModeDrip, nil
	case "spray", "aspersion":
		return ModeSpray, nil
	case "manual":
		return ModeManual, nil
	case "":
		return "", errors.New("watering mode is required")
	}
	return "", fmt.Errorf("unknown watering mode %q", s)
}
