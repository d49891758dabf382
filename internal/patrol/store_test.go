package patrol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStoreDropsUnknownInitialIDs(t *testing.T) {
	t.Parallel()
	s := NewStore(testCatalog(1, 2, 3), seqOf(3, 9, 1))
	require.Equal(t, ids(3, 1), s.Sequence().IDs())
	require.Equal(t, ids(2), s.Available())
}

func TestStoreRejectsForeignAvailableSource(t *testing.T) {
	t.Parallel()
	s := NewStore(testCatalog(1, 2, 3), Sequence{})
	require.Equal(t, TransferNone, s.Apply(Available(42), ConfirmedZoneEmpty))
	require.Zero(t, s.Sequence().Len())
}

func TestStoreApplyAndReset(t *testing.T) {
	t.Parallel()
	s := NewStore(testCatalog(1, 2, 3), Sequence{})
	require.Equal(t, TransferAppend, s.Apply(Available(2), ConfirmedZoneEmpty))
	require.Equal(t, TransferInsertAfter, s.Apply(Available(3), ConfirmedItem(2)))
	require.Equal(t, ids(2, 3), s.Sequence().IDs())
	require.Equal(t, ids(1), s.Available())

	s.Reset()
	require.Zero(t, s.Sequence().Len())
	require.Equal(t, ids(1, 2, 3), s.Available())
}

func TestStoreNilCatalog(t *testing.T) {
	t.Parallel()
	s := NewStore(nil, seqOf(1))
	require.Zero(t, s.Sequence().Len())
	require.Empty(t, s.Available())
}
