package patrol

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEditorNewRouteScenario(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	e.OpenNew("site-1", testCatalog(1, 2, 3, 4, 5))
	require.Equal(t, EditorOpen, e.State())
	require.Equal(t, ModeNew, e.Mode())

	require.True(t, e.StartDrag(Available(3)))
	require.Equal(t, TransferAppend, e.Drop(ConfirmedZoneEmpty))
	require.Equal(t, ids(3), e.Sequence().IDs())

	require.True(t, e.StartDrag(Available(1)))
	require.Equal(t, TransferInsertAfter, e.Drop(ConfirmedItem(3)))
	require.Equal(t, ids(3, 1), e.Sequence().IDs())

	require.True(t, e.StartDrag(Available(4)))
	e.Drop(ConfirmedZoneEmpty)
	require.Equal(t, ids(3, 1, 4), e.Sequence().IDs())
	require.Equal(t, Idle, e.DragState())

	e.SetName(" North loop ")
	sub, err := e.BeginSubmit()
	require.NoError(t, err)
	require.Equal(t, "3,1,4", sub.Request.Route)
	require.Equal(t, "North loop", sub.Request.Name)
	require.Equal(t, "site-1", sub.SiteID)
}

func TestEditorReturnAndReorderScenarios(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	e.OpenEdit("site-1", testCatalog(1, 2, 3, 4, 5), RouteRecord{ID: "r1", Name: "Day", Route: "3,1,4"})
	require.Equal(t, ModeEditing, e.Mode())
	require.Equal(t, "Day", e.Name())

	e.StartDrag(Confirmed(1))
	require.Equal(t, TransferReturn, e.Drop(AvailableZoneEmpty))
	require.Equal(t, ids(3, 4), e.Sequence().IDs())
	require.Equal(t, ids(1, 2, 5), e.Available())

	e.OpenEdit("site-1", testCatalog(1, 2, 3, 4, 5), RouteRecord{ID: "r1", Route: "3,1,4"})
	e.StartDrag(Confirmed(4))
	e.DragOver(ConfirmedItem(3))
	require.Equal(t, ids(4, 3, 1), e.Preview().IDs(), "preview shows the drop placeholder")
	require.Equal(t, ids(3, 1, 4), e.Sequence().IDs(), "preview does not commit")
	e.Drop(ConfirmedItem(3))
	require.Equal(t, ids(4, 3, 1), e.Sequence().IDs())
}

func TestEditorParseTolerance(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	e.OpenEdit("s", testCatalog(1, 2, 3, 4, 5), RouteRecord{ID: "r", Route: "2,4,x,5"})
	require.Equal(t, ids(2, 4, 5), e.Sequence().IDs())
}

func TestEditorDropWithoutDragIsNoop(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	e.OpenNew("s", testCatalog(1, 2))
	require.Equal(t, TransferNone, e.Drop(ConfirmedZoneEmpty))
	require.Zero(t, e.Sequence().Len())

	e.StartDrag(Available(1))
	require.Equal(t, TransferNone, e.Drop(DropDescriptor{}))
	require.Equal(t, Idle, e.DragState(), "tracker idles after an unresolved drop")
}

func TestEditorSubmitFailureKeepsSequence(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	e.OpenNew("s", testCatalog(1, 2, 3))
	e.Transfer(Available(2), ConfirmedZoneEmpty)

	sub, err := e.BeginSubmit()
	require.NoError(t, err)
	require.Equal(t, EditorSubmitting, e.State())

	_, err = e.BeginSubmit()
	require.ErrorIs(t, err, ErrSubmitInFlight)

	// drag edits stay legal while submitting but are not part of sub
	e.Transfer(Available(3), ConfirmedZoneEmpty)
	require.Equal(t, "2", sub.Request.Route)

	out := e.Finish(sub, errors.New("name is required"))
	require.True(t, out.Applied)
	require.False(t, out.Closed)
	require.False(t, out.Refresh)
	require.Equal(t, "name is required", out.Message)
	require.Equal(t, EditorOpen, e.State())
	require.Equal(t, ids(2, 3), e.Sequence().IDs())

	sub2, err := e.BeginSubmit()
	require.NoError(t, err)
	require.Equal(t, "2,3", sub2.Request.Route)
	require.NotEqual(t, sub.Token, sub2.Token)
}

func TestEditorSubmitSuccessCloses(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	e.OpenNew("s", testCatalog(1, 2, 3))
	e.Transfer(Available(1), ConfirmedZoneEmpty)
	sub, err := e.BeginSubmit()
	require.NoError(t, err)

	out := e.Finish(sub, nil)
	require.True(t, out.Applied)
	require.True(t, out.Closed)
	require.True(t, out.Refresh)
	require.Equal(t, "s", out.SiteID)
	require.Equal(t, EditorClosed, e.State())
	require.Zero(t, e.Sequence().Len())

	e.OpenNew("s", testCatalog(1, 2, 3))
	require.Zero(t, e.Sequence().Len(), "a fresh session starts empty")
}

func TestEditorStaleResultAfterClose(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	e.OpenNew("s", testCatalog(1, 2, 3))
	sub, err := e.BeginSubmit()
	require.NoError(t, err)

	e.Close()
	e.OpenNew("s", testCatalog(1, 2, 3))
	e.Transfer(Available(3), ConfirmedZoneEmpty)

	out := e.Finish(sub, nil)
	require.False(t, out.Applied)
	require.True(t, out.Refresh, "a late success still refreshes the site")
	require.Equal(t, EditorOpen, e.State())
	require.Equal(t, ids(3), e.Sequence().IDs())

	_, err = NewEditor().BeginSubmit()
	require.ErrorIs(t, err, ErrEditorClosed)
}

func TestEditorClearReturnsEverything(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	e.OpenEdit("s", testCatalog(1, 2, 3), RouteRecord{ID: "r", Route: "3,1"})
	require.Equal(t, ids(2), e.Available())

	require.True(t, e.Clear())
	require.Zero(t, e.Sequence().Len())
	require.Equal(t, ids(1, 2, 3), e.Available())
	require.False(t, e.Clear(), "nothing left to clear")
}

func TestEditorClosedIgnoresGestures(t *testing.T) {
	t.Parallel()
	e := NewEditor()
	require.False(t, e.StartDrag(Available(1)))
	require.False(t, e.Clear())
	require.Equal(t, TransferNone, e.Transfer(Available(1), ConfirmedZoneEmpty))
	e.SetName("x")
	require.Empty(t, e.Name())
	require.Nil(t, e.Available())
}

type recordingWriter struct {
	created, updated []RouteRequest
	routeIDs         []string
}

func (w *recordingWriter) CreateRoute(_ context.Context, siteID string, req RouteRequest) (RouteRecord, error) {
	w.created = append(w.created, req)
	return RouteRecord{ID: "new", SiteID: siteID, Name: req.Name, Route: req.Route}, nil
}

func (w *recordingWriter) UpdateRoute(_ context.Context, siteID, routeID string, req RouteRequest) (RouteRecord, error) {
	w.updated = append(w.updated, req)
	w.routeIDs = append(w.routeIDs, routeID)
	return RouteRecord{ID: routeID, SiteID: siteID, Name: req.Name, Route: req.Route}, nil
}

func (w *recordingWriter) DeleteRoute(context.Context, string, string) error { return nil }

func TestSubmitDispatchesByMode(t *testing.T) {
	t.Parallel()
	w := &recordingWriter{}
	ctx := context.Background()

	_, err := Submit(ctx, w, Submission{Mode: ModeNew, SiteID: "s", Request: RouteRequest{Name: "A", Route: "1"}})
	require.NoError(t, err)
	rec, err := Submit(ctx, w, Submission{Mode: ModeEditing, SiteID: "s", RouteID: "r9", Request: RouteRequest{Name: "B", Route: "2"}})
	require.NoError(t, err)

	require.Len(t, w.created, 1)
	require.Len(t, w.updated, 1)
	require.Equal(t, []string{"r9"}, w.routeIDs)
	require.Equal(t, "r9", rec.ID)
}
