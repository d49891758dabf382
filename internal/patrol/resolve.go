package patrol

// Transfer names the case a (source, target) pair resolved to.
type Transfer int

const (
	TransferNone        Transfer = iota // unresolved; sequence unchanged
	TransferReorder                     // confirmed item dropped on another confirmed item
	TransferSelfDrop                    // confirmed item dropped on itself
	TransferMoveToTail                  // confirmed item dropped on the empty confirmed zone
	TransferAppend                      // available item dropped on the empty confirmed zone
	TransferInsertAfter                 // available item dropped on a confirmed item
	TransferReturn                      // confirmed item dropped on the available zone
)

var transferNames = map[Transfer]string{
	TransferNone:        "none",
	TransferReorder:     "reorder",
	TransferSelfDrop:    "self-drop",
	TransferMoveToTail:  "move-to-tail",
	TransferAppend:      "append",
	TransferInsertAfter: "insert-after",
	TransferReturn:      "return",
}

func (t Transfer) String() string {
	if name, ok := transferNames[t]; ok {
		return name
	}
	return "unknown"
}

// Changes reports whether the transfer can alter a sequence at all.
func (t Transfer) Changes() bool { return t != TransferNone && t != TransferSelfDrop }

// Classify decides which transfer a gesture describes against seq.
func Classify(seq Sequence, src DragDescriptor, dst DropDescriptor) Transfer {
	switch src.Zone {
	case ZoneConfirmed:
		if !seq.Contains(src.ID) {
			return TransferNone
		}
		switch dst.Kind {
		case DropConfirmedItem:
			if dst.ID == src.ID {
				return TransferSelfDrop
			}
			if !seq.Contains(dst.ID) {
				return TransferNone
			}
			return TransferReorder
		case DropConfirmedZone:
			return TransferMoveToTail
		case DropAvailableZone:
			return TransferReturn
		}
	case ZoneAvailable:
		if seq.Contains(src.ID) {
			return TransferNone
		}
		switch dst.Kind {
		case DropConfirmedZone:
			return TransferAppend
		case DropConfirmedItem:
			if !seq.Contains(dst.ID) {
				return TransferNone
			}
			return TransferInsertAfter
		}
	}
	return TransferNone
}

// Resolve computes the sequence that results from dropping src on dst.
// Gestures that match no case leave seq as it is.
func Resolve(seq Sequence, src DragDescriptor, dst DropDescriptor) Sequence {
	switch Classify(seq, src, dst) {
	case TransferReorder:
		return seq.move(seq.Index(src.ID), seq.Index(dst.ID))
	case TransferMoveToTail:
		return seq.move(seq.Index(src.ID), seq.Len()-1)
	case TransferAppend:
		return seq.insert(seq.Len(), src.ID)
	case TransferInsertAfter:
		return seq.insert(seq.Index(dst.ID)+1, src.ID)
	case TransferReturn:
		return seq.remove(seq.Index(src.ID))
	}
	return seq
}
