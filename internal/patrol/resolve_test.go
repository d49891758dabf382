package patrol

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ids(vals ...int64) []PointerID {
	out := make([]PointerID, len(vals))
	for i, v := range vals {
		out[i] = PointerID(v)
	}
	return out
}

func seqOf(vals ...int64) Sequence { return NewSequence(ids(vals...)...) }

func TestResolveCaseTable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		seq  Sequence
		src  DragDescriptor
		dst  DropDescriptor
		want []PointerID
		kind Transfer
	}{
		{"reorder backwards", seqOf(3, 1, 4), Confirmed(4), ConfirmedItem(3), ids(4, 3, 1), TransferReorder},
		{"reorder forwards", seqOf(3, 1, 4), Confirmed(3), ConfirmedItem(4), ids(1, 4, 3), TransferReorder},
		{"reorder adjacent forwards", seqOf(3, 1, 4), Confirmed(3), ConfirmedItem(1), ids(1, 3, 4), TransferReorder},
		{"reorder adjacent backwards", seqOf(3, 1, 4), Confirmed(4), ConfirmedItem(1), ids(3, 4, 1), TransferReorder},
		{"self drop", seqOf(3, 1, 4), Confirmed(1), ConfirmedItem(1), ids(3, 1, 4), TransferSelfDrop},
		{"move to tail", seqOf(3, 1, 4), Confirmed(3), ConfirmedZoneEmpty, ids(1, 4, 3), TransferMoveToTail},
		{"tail already last", seqOf(3, 1, 4), Confirmed(4), ConfirmedZoneEmpty, ids(3, 1, 4), TransferMoveToTail},
		{"append", seqOf(3), Available(4), ConfirmedZoneEmpty, ids(3, 4), TransferAppend},
		{"append to empty", Sequence{}, Available(3), ConfirmedZoneEmpty, ids(3), TransferAppend},
		{"append present", seqOf(3, 4), Available(4), ConfirmedZoneEmpty, ids(3, 4), TransferNone},
		{"insert after", seqOf(3, 4), Available(1), ConfirmedItem(3), ids(3, 1, 4), TransferInsertAfter},
		{"insert after last", seqOf(3, 4), Available(1), ConfirmedItem(4), ids(3, 4, 1), TransferInsertAfter},
		{"insert present", seqOf(3, 1), Available(1), ConfirmedItem(3), ids(3, 1), TransferNone},
		{"insert after missing item", seqOf(3), Available(1), ConfirmedItem(9), ids(3), TransferNone},
		{"return", seqOf(3, 1, 4), Confirmed(1), AvailableZoneEmpty, ids(3, 4), TransferReturn},
		{"available to available", seqOf(3), Available(1), AvailableZoneEmpty, ids(3), TransferNone},
		{"no target", seqOf(3, 1), Confirmed(1), DropDescriptor{}, ids(3, 1), TransferNone},
		{"confirmed source not in sequence", seqOf(3), Confirmed(7), ConfirmedZoneEmpty, ids(3), TransferNone},
		{"reorder onto missing item", seqOf(3, 1), Confirmed(3), ConfirmedItem(8), ids(3, 1), TransferNone},
		{"zero source", seqOf(3), DragDescriptor{}, ConfirmedZoneEmpty, ids(3), TransferNone},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := Resolve(tc.seq, tc.src, tc.dst)
			if diff := cmp.Diff(tc.want, got.IDs()); diff != "" {
				t.Fatalf("Resolve mismatch (-want +got):\n%s", diff)
			}
			require.Equal(t, tc.kind, Classify(tc.seq, tc.src, tc.dst))
		})
	}
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	in := seqOf(3, 1, 4)
	_ = Resolve(in, Confirmed(4), ConfirmedItem(3))
	_ = Resolve(in, Available(2), ConfirmedItem(1))
	_ = Resolve(in, Confirmed(1), AvailableZoneEmpty)
	require.Equal(t, ids(3, 1, 4), in.IDs())
}

func TestSelfDropIsAlwaysNoop(t *testing.T) {
	t.Parallel()
	s := seqOf(5, 2, 9, 1)
	for _, p := range s.IDs() {
		require.True(t, Resolve(s, Confirmed(p), ConfirmedItem(p)).Equal(s), "self drop of %d", p)
	}
}

func TestReturnThenAppendMovesToTail(t *testing.T) {
	t.Parallel()
	s := seqOf(5, 2, 9, 1)
	for _, p := range s.IDs() {
		returned := Resolve(s, Confirmed(p), AvailableZoneEmpty)
		got := Resolve(returned, Available(p), ConfirmedZoneEmpty)
		want := Resolve(s, Confirmed(p), ConfirmedZoneEmpty)
		require.Equal(t, want.IDs(), got.IDs(), "pointer %d", p)
		require.Equal(t, p, got.IDs()[got.Len()-1])
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	t.Parallel()
	s := seqOf(3, 4)
	once := Resolve(s, Available(1), ConfirmedItem(3))
	twice := Resolve(once, Available(1), ConfirmedItem(3))
	require.Equal(t, ids(3, 1, 4), once.IDs())
	require.True(t, once.Equal(twice))

	appended := Resolve(s, Available(7), ConfirmedZoneEmpty)
	require.True(t, appended.Equal(Resolve(appended, Available(7), ConfirmedZoneEmpty)))
}

func TestResolveNeverDuplicates(t *testing.T) {
	t.Parallel()
	s := seqOf(1, 2, 3)
	drops := []DropDescriptor{ConfirmedItem(1), ConfirmedItem(2), ConfirmedItem(3), ConfirmedZoneEmpty, AvailableZoneEmpty, {}}
	srcs := []DragDescriptor{Available(1), Available(4), Confirmed(2), Confirmed(4)}
	for _, src := range srcs {
		for _, dst := range drops {
			got := Resolve(s, src, dst)
			require.Equal(t, got.Len(), NewSequence(got.IDs()...).Len(), "%s -> %s produced duplicates", src, dst)
		}
	}
}

func TestTransferChanges(t *testing.T) {
	t.Parallel()
	require.False(t, TransferNone.Changes())
	require.False(t, TransferSelfDrop.Changes())
	require.True(t, TransferReorder.Changes())
	require.Equal(t, "insert-after", TransferInsertAfter.String())
}
