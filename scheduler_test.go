package ugraph

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManualScheduler(t *testing.T) {
	var m ManualScheduler
	var ran []int
	m.ScheduleFrame(func() {
		ran = append(ran, 1)
		m.ScheduleFrame(func() { ran = append(ran, 3) })
	})
	m.ScheduleFrame(func() { ran = append(ran, 2) })
	require.Equal(t, 2, m.Pending())

	require.Equal(t, 2, m.Flush())
	require.Equal(t, []int{1, 2}, ran, "frames scheduled while flushing wait")
	require.Equal(t, 1, m.Pending())

	require.Equal(t, 1, m.Flush())
	require.Equal(t, []int{1, 2, 3}, ran)
	require.Zero(t, m.Flush())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Len(t, cfg.LineColors, 12)
	require.Equal(t, uint8(0x1f), cfg.LineColors[1].Stroke.R)
	require.Equal(t, uint8(0xb4), cfg.LineColors[1].Stroke.B)

	cfg.LineColors[0].Stroke.R = 0
	require.Equal(t, uint8(0xa6), Palette[0].Stroke.R, "configs do not share the palette")
}
