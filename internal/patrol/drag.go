package patrol

import "fmt"

// Zone is the list a dragged checkpoint comes from.
type Zone int

const (
	ZoneAvailable Zone = iota + 1
	ZoneConfirmed
)

func (z Zone) String() string {
	switch z {
	case ZoneAvailable:
		return "available"
	case ZoneConfirmed:
		return "confirmed"
	default:
		return "none"
	}
}

// DragDescriptor identifies what is being dragged and from where.
type DragDescriptor struct {
	Zone Zone
	ID   PointerID
}

func Available(id PointerID) DragDescriptor { return DragDescriptor{Zone: ZoneAvailable, ID: id} }

func Confirmed(id PointerID) DragDescriptor { return DragDescriptor{Zone: ZoneConfirmed, ID: id} }

func (d DragDescriptor) String() string { return fmt.Sprintf("%s:%s", d.Zone, d.ID) }

// DropKind tells where a gesture ended. The zero value means no target.
type DropKind int

const (
	NoTarget DropKind = iota
	DropConfirmedItem
	DropConfirmedZone
	DropAvailableZone
)

// DropDescriptor identifies where a drag gesture ended. ID is only meaningful
// for DropConfirmedItem.
type DropDescriptor struct {
	Kind DropKind
	ID   PointerID
}

var (
	ConfirmedZoneEmpty = DropDescriptor{Kind: DropConfirmedZone}
	AvailableZoneEmpty = DropDescriptor{Kind: DropAvailableZone}
)

func ConfirmedItem(id PointerID) DropDescriptor {
	return DropDescriptor{Kind: DropConfirmedItem, ID: id}
}

func (d DropDescriptor) String() string {
	switch d.Kind {
	case DropConfirmedItem:
		return "confirm:" + d.ID.String()
	case DropConfirmedZone:
		return "confirm:end"
	case DropAvailableZone:
		return "available"
	default:
		return "none"
	}
}

// DragState is the phase of the drag tracker.
type DragState int

const (
	Idle DragState = iota
	Dragging
	HoveringTarget
)

func (s DragState) String() string {
	switch s {
	case Dragging:
		return "dragging"
	case HoveringTarget:
		return "hovering"
	default:
		return "idle"
	}
}

// DragTracker records the gesture in progress so the UI can draw a drop
// placeholder. It has no say over the confirmed sequence.
type DragTracker struct {
	state  DragState
	active DragDescriptor
	target DropDescriptor
}

// Start begins a drag. It is ignored unless the tracker is idle.
func (t *DragTracker) Start(src DragDescriptor) bool {
	if t.state != Idle {
		return false
	}
	t.state = Dragging
	t.active = src
	t.target = DropDescriptor{}
	return true
}

// Over records the hovered target. It is ignored while idle.
func (t *DragTracker) Over(target DropDescriptor) bool {
	if t.state == Idle {
		return false
	}
	t.state = HoveringTarget
	t.target = target
	return true
}

func (t *DragTracker) Cancel() { t.reset() }

// End closes the gesture after the resolver ran, whatever it decided.
func (t *DragTracker) End() { t.reset() }

func (t *DragTracker) reset() {
	t.state = Idle
	t.active = DragDescriptor{}
	t.target = DropDescriptor{}
}

func (t DragTracker) State() DragState { return t.state }

func (t DragTracker) Active() (DragDescriptor, bool) {
	return t.active, t.state != Idle
}

func (t DragTracker) Target() (DropDescriptor, bool) {
	return t.target, t.state == HoveringTarget
}
