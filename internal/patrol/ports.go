package patrol

import "context"

// SiteReader loads sites and their checkpoint catalogs.
type SiteReader interface {
	Sites(ctx context.Context) ([]SiteSummary, error)
	Site(ctx context.Context, siteID string) (SiteAggregate, error)
}

// RouteWriter creates, updates and deletes routes.
type RouteWriter interface {
	CreateRoute(ctx context.Context, siteID string, req RouteRequest) (RouteRecord, error)
	UpdateRoute(ctx context.Context, siteID, routeID string, req RouteRequest) (RouteRecord, error)
	DeleteRoute(ctx context.Context, siteID, routeID string) error
}

// Backend is everything the console needs from the route store.
type Backend interface {
	SiteReader
	RouteWriter
}

// Submit sends a submission to w as a create or an update.
func Submit(ctx context.Context, w RouteWriter, sub Submission) (RouteRecord, error) {
	if sub.Mode == ModeEditing {
		return w.UpdateRoute(ctx, sub.SiteID, sub.RouteID, sub.Request)
	}
	return w.CreateRoute(ctx, sub.SiteID, sub.Request)
}
