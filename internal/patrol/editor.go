package patrol

import (
	"errors"
	"strings"
)

var (
	ErrEditorClosed   = errors.New("route editor is closed")
	ErrSubmitInFlight = errors.New("route submit already in flight")
)

// EditorMode distinguishes a new route from an edit of a persisted one.
type EditorMode int

const (
	ModeNew EditorMode = iota
	ModeEditing
)

func (m EditorMode) String() string {
	if m == ModeEditing {
		return "editing"
	}
	return "new"
}

// EditorState is the dialog lifecycle.
type EditorState int

const (
	EditorClosed EditorState = iota
	EditorOpen
	EditorSubmitting
)

func (s EditorState) String() string {
	switch s {
	case EditorOpen:
		return "open"
	case EditorSubmitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Submission is the snapshot taken when the user saves. Edits made after it
// was taken belong to the next submit.
type Submission struct {
	Session uint64
	Token   uint64
	Mode    EditorMode
	SiteID  string
	RouteID string
	Request RouteRequest
}

// Outcome tells the caller what to do once a submit finished.
type Outcome struct {
	// Applied is set when the result belonged to the live dialog session.
	Applied bool
	// Closed is set when the dialog closed because of this result.
	Closed bool
	// Refresh asks the caller to re-fetch the site aggregate.
	Refresh bool
	SiteID  string
	Message string
	Err     error
}

// Editor is the route editor dialog. One Editor lives for the lifetime of the
// console; every Open starts a fresh session and Close discards it.
type Editor struct {
	state   EditorState
	mode    EditorMode
	siteID  string
	routeID string
	name    string
	remarks string
	store   *Store
	drag    DragTracker

	session  uint64
	tokens   uint64
	inflight uint64
}

func NewEditor() *Editor { return &Editor{} }

// OpenNew opens the dialog with an empty sequence.
func (e *Editor) OpenNew(siteID string, catalog *Catalog) {
	e.open(ModeNew, siteID, "", catalog, Sequence{})
}

// OpenEdit opens the dialog on a persisted route.
func (e *Editor) OpenEdit(siteID string, catalog *Catalog, rec RouteRecord) {
	e.open(ModeEditing, siteID, rec.ID, catalog, ParseRoute(rec.Route))
	e.name = rec.Name
	e.remarks = rec.Remarks
}

func (e *Editor) open(mode EditorMode, siteID, routeID string, catalog *Catalog, seq Sequence) {
	e.Close()
	e.session++
	e.state = EditorOpen
	e.mode = mode
	e.siteID = siteID
	e.routeID = routeID
	e.store = NewStore(catalog, seq)
}

// Close discards the session. A submit still in flight is not cancelled; its
// result will arrive as a stale outcome.
func (e *Editor) Close() {
	e.state = EditorClosed
	e.mode = ModeNew
	e.siteID, e.routeID = "", ""
	e.name, e.remarks = "", ""
	e.store = nil
	e.inflight = 0
	e.drag.Cancel()
}

func (e *Editor) State() EditorState { return e.state }
func (e *Editor) Mode() EditorMode { return e.mode }
func (e *Editor) IsOpen() bool { return e.state != EditorClosed }
func (e *Editor) SiteID() string { return e.siteID }
func (e *Editor) Name() string { return e.name }
func (e *Editor) Remarks() string { return e.remarks }

func (e *Editor) SetName(v string) {
	if e.IsOpen() {
		e.name = v
	}
}

func (e *Editor) SetRemarks(v string) {
	if e.IsOpen() {
		e.remarks = v
	}
}

// Clear empties the route, returning every checkpoint to the available pool.
// It reports whether anything was removed.
func (e *Editor) Clear() bool {
	if !e.IsOpen() || e.store.Sequence().Len() == 0 {
		return false
	}
	e.store.Reset()
	return true
}

func (e *Editor) Catalog() *Catalog {
	if e.store == nil {
		return nil
	}
	return e.store.Catalog()
}

func (e *Editor) Sequence() Sequence {
	if e.store == nil {
		return Sequence{}
	}
	return e.store.Sequence()
}

func (e *Editor) Available() []PointerID {
	if e.store == nil {
		return nil
	}
	return e.store.Available()
}

// Drag returns a copy of the drag tracker for rendering.
func (e *Editor) Drag() DragTracker { return e.drag }

func (e *Editor) DragState() DragState { return e.drag.State() }

func (e *Editor) StartDrag(src DragDescriptor) bool {
	if !e.IsOpen() {
		return false
	}
	return e.drag.Start(src)
}

func (e *Editor) DragOver(target DropDescriptor) bool {
	if !e.IsOpen() {
		return false
	}
	return e.drag.Over(target)
}

func (e *Editor) CancelDrag() { e.drag.Cancel() }

// Drop ends the current gesture on target. The tracker returns to idle
// whether or not the gesture resolved to anything.
func (e *Editor) Drop(target DropDescriptor) Transfer {
	src, ok := e.drag.Active()
	defer e.drag.End()
	if !ok || !e.IsOpen() {
		return TransferNone
	}
	return e.store.Apply(src, target)
}

// Transfer applies a gesture without going through the tracker, for keyboard
// shortcuts such as "add to route" or "remove from route".
func (e *Editor) Transfer(src DragDescriptor, dst DropDescriptor) Transfer {
	if !e.IsOpen() {
		return TransferNone
	}
	return e.store.Apply(src, dst)
}

// Preview is the sequence as it would look if the hovered drop happened now.
func (e *Editor) Preview() Sequence {
	seq := e.Sequence()
	src, dragging := e.drag.Active()
	dst, hovering := e.drag.Target()
	if !dragging || !hovering {
		return seq
	}
	if src.Zone == ZoneAvailable && !e.store.Catalog().Contains(src.ID) {
		return seq
	}
	return Resolve(seq, src, dst)
}

// BeginSubmit moves the dialog to submitting and snapshots the payload.
func (e *Editor) BeginSubmit() (Submission, error) {
	switch e.state {
	case EditorClosed:
		return Submission{}, ErrEditorClosed
	case EditorSubmitting:
		return Submission{}, ErrSubmitInFlight
	}
	e.tokens++
	e.inflight = e.tokens
	e.state = EditorSubmitting
	return Submission{
		Session: e.session,
		Token:   e.inflight,
		Mode:    e.mode,
		SiteID:  e.siteID,
		RouteID: e.routeID,
		Request: RouteRequest{
			Name:    strings.TrimSpace(e.name),
			Remarks: strings.TrimSpace(e.remarks),
			Route:   SerializeRoute(e.store.Sequence()),
		},
	}, nil
}

// Finish records the result of a submission. On success the dialog closes;
// on failure it reopens with the sequence untouched so the user can retry.
func (e *Editor) Finish(sub Submission, err error) Outcome {
	out := Outcome{SiteID: sub.SiteID, Err: err}
	if err != nil {
		out.Message = err.Error()
	} else {
		out.Refresh = true
		out.Message = "route saved"
		if strings.TrimSpace(sub.Request.Name) != "" {
			out.Message = "route " + sub.Request.Name + " saved"
		}
	}

	live := e.state == EditorSubmitting && sub.Session == e.session && sub.Token == e.inflight
	if !live {
		return out
	}
	out.Applied = true
	e.inflight = 0
	if err != nil {
		e.state = EditorOpen
		return out
	}
	e.Close()
	out.Closed = true
	return out
}
