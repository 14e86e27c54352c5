// Package deeplink encodes a result as a shareable query string and decodes it back.
//
// The wire format is "zone=<code>&S=<S>&R=<R>" with both scores fixed to two decimals.
// Decoding is lenient about a leading '#' or '?' and about zone case, and strict about
// the fields: an unknown zone or a non-numeric score rejects the whole payload. Scores
// outside the axis range are clamped.
package deeplink

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/aretw0/tds/pkg/domain"
)

// Link is the state carried by a deep link.
type Link struct {
	Zone domain.ZoneCode
	S    float64
	R    float64
}

// Encode formats a link payload.
func Encode(zone domain.ZoneCode, s, r float64) string {
	return fmt.Sprintf("zone=%s&S=%.2f&R=%.2f", url.QueryEscape(string(zone)), s, r)
}

// EncodeResult formats the link payload for a result.
func EncodeResult(r domain.Result) string {
	return Encode(r.Zone.Code, r.S, r.R)
}

// Decode parses a link payload. It reports false when the payload carries no usable
// state; callers treat that as "no deep link", not as an error.
func Decode(payload string) (Link, bool) {
	payload = strings.TrimLeft(strings.TrimSpace(payload), "#?")
	if payload == "" {
		return Link{}, false
	}
	values, err := url.ParseQuery(payload)
	if err != nil && len(values) == 0 {
		return Link{}, false
	}

	zone, err := domain.ParseZoneCode(values.Get("zone"))
	if err != nil {
		return Link{}, false
	}
	s, ok := parseScore(values.Get("S"))
	if !ok {
		return Link{}, false
	}
	r, ok := parseScore(values.Get("R"))
	if !ok {
		return Link{}, false
	}
	return Link{
		Zone: zone,
		S:    domain.Clamp(s, domain.MinScore, domain.MaxScore),
		R:    domain.Clamp(r, domain.MinScore, domain.MaxScore),
	}, true
}

func parseScore(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
