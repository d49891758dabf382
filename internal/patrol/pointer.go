package patrol

import "strconv"

// PointerID identifies a checkpoint within a site.
type PointerID int64

func (id PointerID) String() string { return strconv.FormatInt(int64(id), 10) }

// Pointer is a single patrol stop.
type Pointer struct {
	ID    PointerID `json:"id"`
	Label string    `json:"label"`
}

// Catalog is the read-only, ordered set of checkpoints for one edit session.
// Later duplicates of an id are ignored.
type Catalog struct {
	pointers []Pointer
	index    map[PointerID]int
}

func NewCatalog(pointers []Pointer) *Catalog {
	c := &Catalog{index: make(map[PointerID]int, len(pointers))}
	for _, p := range pointers {
		if _, dup := c.index[p.ID]; dup {
			continue
		}
		c.index[p.ID] = len(c.pointers)
		c.pointers = append(c.pointers, p)
	}
	return c
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.pointers)
}

func (c *Catalog) Pointers() []Pointer {
	if c == nil {
		return nil
	}
	return append([]Pointer(nil), c.pointers...)
}

func (c *Catalog) IDs() []PointerID {
	if c == nil {
		return nil
	}
	out := make([]PointerID, len(c.pointers))
	for i, p := range c.pointers {
		out[i] = p.ID
	}
	return out
}

func (c *Catalog) Contains(id PointerID) bool {
	if c == nil {
		return false
	}
	_, ok := c.index[id]
	return ok
}

// Label returns the checkpoint label, or the id itself for unknown ids.
func (c *Catalog) Label(id PointerID) string {
	if c != nil {
		if i, ok := c.index[id]; ok && c.pointers[i].Label != "" {
			return c.pointers[i].Label
		}
	}
	return "#" + id.String()
}
