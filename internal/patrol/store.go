package patrol

// Store owns the confirmed sequence of one editor session.
type Store struct {
	catalog *Catalog
	seq     Sequence
	proj    Projection
}

// NewStore starts a session over catalog. Ids in initial that the catalog
// does not know are dropped.
func NewStore(catalog *Catalog, initial Sequence) *Store {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	return &Store{catalog: catalog, seq: initial.within(catalog)}
}

func (s *Store) Catalog() *Catalog { return s.catalog }

func (s *Store) Sequence() Sequence { return s.seq }

// Available is the memoized availability projection.
func (s *Store) Available() []PointerID { return s.proj.Available(s.catalog, s.seq) }

// Apply runs the resolver and keeps its result. Available sources must name a
// catalog checkpoint.
func (s *Store) Apply(src DragDescriptor, dst DropDescriptor) Transfer {
	if src.Zone == ZoneAvailable && !s.catalog.Contains(src.ID) {
		return TransferNone
	}
	t := Classify(s.seq, src, dst)
	if t.Changes() {
		s.seq = Resolve(s.seq, src, dst)
	}
	return t
}

func (s *Store) Reset() { s.seq = Sequence{} }
