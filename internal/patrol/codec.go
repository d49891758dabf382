package patrol

import (
	"strconv"
	"strings"
	"time"
)

// ParseRoute reads a persisted route string such as "2,4,5". Tokens that are
// not base-10 integers are skipped; the rest keep their order.
func ParseRoute(raw string) Sequence {
	if strings.TrimSpace(raw) == "" {
		return Sequence{}
	}
	var ids []PointerID
	for _, tok := range strings.Split(raw, ",") {
		n, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, PointerID(n))
	}
	return NewSequence(ids...)
}

// SerializeRoute joins the sequence with commas.
func SerializeRoute(seq Sequence) string {
	var b strings.Builder
	for i, id := range seq.ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(id.String())
	}
	return b.String()
}

// RouteRequest is the create/update payload for a route.
type RouteRequest struct {
	Name    string `json:"name"`
	Remarks string `json:"remarks"`
	Route   string `json:"route"`
}

// RouteRecord is a persisted route as returned by the site read endpoint.
type RouteRecord struct {
	ID        string    `json:"id"`
	SiteID    string    `json:"site_id"`
	Name      string    `json:"name"`
	Remarks   string    `json:"remarks"`
	Route     string    `json:"route"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RouteRevision is one saved version of a route.
type RouteRevision struct {
	ID        string    `json:"id"`
	RouteID   string    `json:"route_id"`
	Name      string    `json:"name"`
	Remarks   string    `json:"remarks"`
	Route     string    `json:"route"`
	CreatedAt time.Time `json:"created_at"`
}

// SiteSummary is a row of the site list.
type SiteSummary struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// SiteAggregate is a site with its checkpoints and routes.
type SiteAggregate struct {
	SiteSummary
	Pointers []Pointer     `json:"pointers"`
	Routes   []RouteRecord `json:"routes"`
}

// Route returns the route with the given id.
func (a SiteAggregate) Route(id string) (RouteRecord, bool) {
	for _, r := range a.Routes {
		if r.ID == id {
			return r, true
		}
	}
	return RouteRecord{}, false
}

func (a SiteAggregate) Catalog() *Catalog { return NewCatalog(a.Pointers) }
