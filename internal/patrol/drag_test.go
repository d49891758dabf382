package patrol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDragTrackerTransitions(t *testing.T) {
	t.Parallel()
	var tr DragTracker
	require.Equal(t, Idle, tr.State())

	require.False(t, tr.Over(ConfirmedZoneEmpty), "over while idle")
	require.Equal(t, Idle, tr.State())

	require.True(t, tr.Start(Available(3)))
	require.Equal(t, Dragging, tr.State())
	require.False(t, tr.Start(Available(4)), "second start is ignored")
	src, ok := tr.Active()
	require.True(t, ok)
	require.Equal(t, Available(3), src)

	_, hovering := tr.Target()
	require.False(t, hovering)

	require.True(t, tr.Over(ConfirmedItem(1)))
	require.Equal(t, HoveringTarget, tr.State())
	require.True(t, tr.Over(AvailableZoneEmpty))
	dst, hovering := tr.Target()
	require.True(t, hovering)
	require.Equal(t, AvailableZoneEmpty, dst)

	tr.End()
	require.Equal(t, Idle, tr.State())
	_, ok = tr.Active()
	require.False(t, ok)

	require.True(t, tr.Start(Confirmed(1)))
	tr.Cancel()
	require.Equal(t, Idle, tr.State())
}

func TestDescriptorStrings(t *testing.T) {
	t.Parallel()
	require.Equal(t, "available:3", Available(3).String())
	require.Equal(t, "confirmed:4", Confirmed(4).String())
	require.Equal(t, "confirm:4", ConfirmedItem(4).String())
	require.Equal(t, "confirm:end", ConfirmedZoneEmpty.String())
	require.Equal(t, "none", DropDescriptor{}.String())
	require.Equal(t, "hovering", HoveringTarget.String())
}
