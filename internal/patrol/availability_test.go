package patrol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testCatalog(vals ...int64) *Catalog {
	ps := make([]Pointer, len(vals))
	for i, v := range vals {
		ps[i] = Pointer{ID: PointerID(v), Label: "CP-" + PointerID(v).String()}
	}
	return NewCatalog(ps)
}

func TestAvailabilityPartition(t *testing.T) {
	t.Parallel()
	catalog := testCatalog(10, 2, 7, 4, 5)

	for _, s := range []Sequence{{}, seqOf(7), seqOf(5, 10), seqOf(4, 7, 2, 10, 5)} {
		avail := Availability(catalog, s)

		seen := map[PointerID]int{}
		for _, id := range avail {
			require.False(t, s.Contains(id), "%d is both available and confirmed", id)
			seen[id]++
		}
		for _, id := range s.IDs() {
			seen[id]++
		}
		require.Len(t, seen, catalog.Len())
		for id, n := range seen {
			require.Equal(t, 1, n, "id %d", id)
			require.True(t, catalog.Contains(id))
		}

		// catalog order is kept
		last := -1
		order := map[PointerID]int{}
		for i, id := range catalog.IDs() {
			order[id] = i
		}
		for _, id := range avail {
			require.Greater(t, order[id], last)
			last = order[id]
		}
	}
}

func TestAvailabilityAfterReturn(t *testing.T) {
	t.Parallel()
	catalog := testCatalog(1, 2, 3, 4, 5)
	s := Resolve(seqOf(3, 1, 4), Confirmed(1), AvailableZoneEmpty)
	require.Equal(t, ids(3, 4), s.IDs())
	require.Equal(t, ids(1, 2, 5), Availability(catalog, s))
}

func TestProjectionMemoizes(t *testing.T) {
	t.Parallel()
	catalog := testCatalog(1, 2, 3)
	var p Projection

	require.Equal(t, ids(2, 3), p.Available(catalog, seqOf(1)))
	require.Equal(t, ids(2, 3), p.Available(catalog, seqOf(1)))
	require.Equal(t, 1, p.runs)

	got := p.Available(catalog, seqOf(1))
	got[0] = 99
	require.Equal(t, ids(2, 3), p.Available(catalog, seqOf(1)), "callers must not reach the cache")

	require.Equal(t, ids(1, 2), p.Available(catalog, seqOf(3)))
	require.Equal(t, 2, p.runs)

	other := testCatalog(1, 2, 3, 4)
	require.Equal(t, ids(1, 2, 4), p.Available(other, seqOf(3)))
	require.Equal(t, 3, p.runs)
}

func TestAvailabilityNilCatalog(t *testing.T) {
	t.Parallel()
	require.Nil(t, Availability(nil, seqOf(1)))
}

func TestCatalogDropsDuplicateIDs(t *testing.T) {
	t.Parallel()
	c := NewCatalog([]Pointer{{ID: 1, Label: "Gate"}, {ID: 2, Label: "Lobby"}, {ID: 1, Label: "Other"}})
	require.Equal(t, 2, c.Len())
	require.Equal(t, "Gate", c.Label(1))
	require.Equal(t, "#9", c.Label(9))
}
