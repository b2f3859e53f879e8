package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureLocal(t *testing.T) {
	offset, err := CaptureLocal()
	require.NoError(t, err)

	assert.NotEmpty(t, offset.Zone)
	// Offsets beyond +-18h do not exist.
	assert.LessOrEqual(t, offset.Seconds, 18*3600)
	assert.GreaterOrEqual(t, offset.Seconds, -18*3600)
}

func TestApply(t *testing.T) {
	offset := Offset{Zone: "CEST", Seconds: 2 * 3600}
	instant := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	local := offset.Apply(instant)

	assert.Equal(t, 14, local.Hour())
	assert.True(t, local.Equal(instant))
}
