package dashboard

import (
	"strings"

	"github.com/AnshRaj112/mindlink-backend/internal/models"
)

// Stress level buckets shown next to the score ring.
const (
	StressLow    = "Low"
	StressMedium = "Medium"
	StressHigh   = "High"
)

// HighStressThreshold is the score at or above which trusted-contact
// alerts fire.
const HighStressThreshold = 70

// StressLevel buckets a 0-100 score: >=70 High, 40-69 Medium, else Low.
func StressLevel(score int) string {
	switch {
	case score >= HighStressThreshold:
		return StressHigh
	case score >= 40:
		return StressMedium
	default:
		return StressLow
	}
}

// RingFraction is the filled share of the score ring's circumference,
// clamped to [0, 1].
func RingFraction(score int) float64 {
	if score <= 0 {
		return 0
	}
	if score >= 100 {
		return 1
	}
	return float64(score) / 100
}

// ConnectedCount counts connections with is_connected set.
func ConnectedCount(conns []models.AppConnection) int {
	n := 0
	for _, c := range conns {
		if c.IsConnected {
			n++
		}
	}
	return n
}

// ConnectionTotal is the denominator of the "N / M connected" badge: the
// loaded connection count, or the number of known providers before any
// rows have loaded.
func ConnectionTotal(conns []models.AppConnection) int {
	if len(conns) == 0 {
		return len(models.KnownProviders)
	}
	return len(conns)
}

// Initials concatenates the upper-cased first letter of each name token.
// Extra whitespace and single-word names are fine.
func Initials(name string) string {
	var b strings.Builder
	for _, token := range strings.Fields(name) {
		r := []rune(token)
		b.WriteString(strings.ToUpper(string(r[0])))
	}
	return b.String()
}
