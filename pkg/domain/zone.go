package domain

import (
	"fmt"
	"math"
	"strings"
)

// ZoneCode is a two-character zone identifier: a structure letter A..D followed by a
// relational digit 1..4.
type ZoneCode string

var (
	zoneLetters = [4]string{"A", "B", "C", "D"}

	letterLabels = map[string]string{
		"A": "high structure",
		"B": "moderate structure",
		"C": "relational-leaning",
		"D": "highly relational",
	}
)

// AllCodes returns the sixteen canonical codes in letter-major order (A1, A2, ... D4).
func AllCodes() []ZoneCode {
	codes := make([]ZoneCode, 0, 16)
	for _, l := range zoneLetters {
		for n := 1; n <= 4; n++ {
			codes = append(codes, ZoneCode(fmt.Sprintf("%s%d", l, n)))
		}
	}
	return codes
}

// ParseZoneCode accepts a canonical code, ignoring case and surrounding space.
func ParseZoneCode(s string) (ZoneCode, error) {
	c := ZoneCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, s)
	}
	return c, nil
}

// Valid reports whether c is one of the sixteen canonical codes.
func (c ZoneCode) Valid() bool {
	if len(c) != 2 {
		return false
	}
	return c[0] >= 'A' && c[0] <= 'D' && c[1] >= '1' && c[1] <= '4'
}

// Letter returns the structure letter, or "" for an empty code.
func (c ZoneCode) Letter() string {
	if c == "" {
		return ""
	}
	return string(c[0])
}

// Number returns the relational digit, or 0 when it is absent or not a digit.
func (c ZoneCode) Number() int {
	if len(c) < 2 || c[1] < '0' || c[1] > '9' {
		return 0
	}
	return int(c[1] - '0')
}

// Label renders the human description used by result views, e.g.
// "B2 — moderate structure · band 2".
func (c ZoneCode) Label() string {
	l, n := c.Letter(), c.Number()
	if l == "" {
		l = "B"
	}
	if n == 0 {
		n = 2
	}
	desc, ok := letterLabels[l]
	if !ok {
		desc = "unclassified"
	}
	return fmt.Sprintf("%s%d — %s · band %d", l, n, desc, n)
}

// Band maps a continuous score to one of four ordinal buckets. The top band absorbs
// the upper boundary, so Band(4) == 3.
func Band(x float64) int {
	b := int(math.Floor(Clamp(x, MinScore, MaxScore)))
	if b > 3 {
		return 3
	}
	return b
}

// Classify maps an (S, R) pair to its zone code. It is total over all inputs.
func Classify(s, r float64) ZoneCode {
	return ZoneCode(fmt.Sprintf("%s%d", zoneLetters[Band(s)], Band(r)+1))
}

// ZoneRecord is the canonical metadata for a zone.
type ZoneRecord struct {
	Code       ZoneCode `json:"code"`
	Title      string   `json:"title"`
	StyleText  string   `json:"styleText"`
	VoiceText  string   `json:"voiceText"`
	Traits     []string `json:"traits"`
	Summary    string   `json:"summary"`
	CollabText string   `json:"collabText"`
	Prompt     string   `json:"prompt"`
	Badge      string   `json:"badge"`
}

// DisplayTitle returns the title, or "Zone {code}" when the catalog gave none.
func (z ZoneRecord) DisplayTitle() string {
	if z.Title != "" {
		return z.Title
	}
	return "Zone " + string(z.Code)
}

// DisplayBadge returns the badge, or "Zone {code}" when the catalog gave none.
func (z ZoneRecord) DisplayBadge() string {
	if z.Badge != "" {
		return z.Badge
	}
	return "Zone " + string(z.Code)
}

// Clone returns a copy that shares no slices with z.
func (z ZoneRecord) Clone() ZoneRecord {
	z.Traits = append([]string{}, z.Traits...)
	return z
}
