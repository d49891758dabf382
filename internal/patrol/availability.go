package patrol

// Availability returns the catalog ids not in seq, in catalog order.
func Availability(catalog *Catalog, seq Sequence) []PointerID {
	if catalog == nil {
		return nil
	}
	taken := make(map[PointerID]struct{}, seq.Len())
	for _, id := range seq.ids {
		taken[id] = struct{}{}
	}
	out := make([]PointerID, 0, catalog.Len())
	for _, p := range catalog.pointers {
		if _, ok := taken[p.ID]; !ok {
			out = append(out, p.ID)
		}
	}
	return out
}

// Projection memoizes Availability for the last (catalog, sequence) pair.
type Projection struct {
	catalog *Catalog
	key     string
	valid   bool
	ids     []PointerID
	runs    int
}

func (p *Projection) Available(catalog *Catalog, seq Sequence) []PointerID {
	key := SerializeRoute(seq)
	if !p.valid || p.catalog != catalog || p.key != key {
		p.ids = Availability(catalog, seq)
		p.catalog = catalog
		p.key = key
		p.valid = true
		p.runs++
	}
	return append([]PointerID(nil), p.ids...)
}
