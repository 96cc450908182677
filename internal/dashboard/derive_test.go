package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnshRaj112/mindlink-backend/internal/models"
)

func TestStressLevelBuckets(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, StressLow},
		{39, StressLow},
		{40, StressMedium},
		{69, StressMedium},
		{70, StressHigh},
		{100, StressHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StressLevel(tt.score), "score %d", tt.score)
	}
}

func TestRingFractionClamps(t *testing.T) {
	assert.Equal(t, 0.0, RingFraction(-5))
	assert.Equal(t, 0.0, RingFraction(0))
	assert.Equal(t, 0.42, RingFraction(42))
	assert.Equal(t, 1.0, RingFraction(100))
	assert.Equal(t, 1.0, RingFraction(140))
}

func TestConnectedCountAndTotal(t *testing.T) {
	assert.Equal(t, 0, ConnectedCount(nil))
	assert.Equal(t, 4, ConnectionTotal(nil), "before rows load the badge shows all known providers")

	conns := []models.AppConnection{
		{Provider: models.ProviderWhatsApp, IsConnected: true},
		{Provider: models.ProviderInstagram, IsConnected: true},
		{Provider: models.ProviderMessages},
	}
	assert.Equal(t, 2, ConnectedCount(conns))
	assert.Equal(t, 3, ConnectionTotal(conns))
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "SM", Initials("Sarah Miller"))
	assert.Equal(t, "A", Initials("Alex"))
	assert.Equal(t, "JL", Initials("  James   Lee "))
	assert.Equal(t, "", Initials(""))
	assert.Equal(t, "ÉD", Initials("élise dubois"))
}
