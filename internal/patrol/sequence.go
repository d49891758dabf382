package patrol

// Sequence is the confirmed, ordered selection of checkpoints. It is a value:
// every change produces a new Sequence and the receiver is never modified.
type Sequence struct {
	ids []PointerID
}

// NewSequence builds a sequence from ids, keeping the first occurrence of each.
func NewSequence(ids ...PointerID) Sequence {
	if len(ids) == 0 {
		return Sequence{}
	}
	seen := make(map[PointerID]struct{}, len(ids))
	out := make([]PointerID, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return Sequence{ids: out}
}

func (s Sequence) IDs() []PointerID { return append([]PointerID(nil), s.ids...) }

func (s Sequence) Len() int { return len(s.ids) }

// Index returns the position of id, or -1.
func (s Sequence) Index(id PointerID) int {
	for i, v := range s.ids {
		if v == id {
			return i
		}
	}
	return -1
}

func (s Sequence) Contains(id PointerID) bool { return s.Index(id) >= 0 }

func (s Sequence) Equal(o Sequence) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for i := range s.ids {
		if s.ids[i] != o.ids[i] {
			return false
		}
	}
	return true
}

// String returns the persisted form, e.g. "3,1,4".
func (s Sequence) String() string { return SerializeRoute(s) }

// within keeps only ids present in the catalog.
func (s Sequence) within(c *Catalog) Sequence {
	out := make([]PointerID, 0, len(s.ids))
	for _, id := range s.ids {
		if c.Contains(id) {
			out = append(out, id)
		}
	}
	return Sequence{ids: out}
}

func (s Sequence) remove(idx int) Sequence {
	out := make([]PointerID, 0, len(s.ids)-1)
	out = append(out, s.ids[:idx]...)
	out = append(out, s.ids[idx+1:]...)
	return Sequence{ids: out}
}

func (s Sequence) insert(idx int, id PointerID) Sequence {
	out := make([]PointerID, 0, len(s.ids)+1)
	out = append(out, s.ids[:idx]...)
	out = append(out, id)
	out = append(out, s.ids[idx:]...)
	return Sequence{ids: out}
}

// move takes the element at from out and puts it back at to. Both indexes
// refer to the sequence before the element is taken out.
func (s Sequence) move(from, to int) Sequence {
	if from == to {
		return s
	}
	id := s.ids[from]
	return s.remove(from).insert(to, id)
}
