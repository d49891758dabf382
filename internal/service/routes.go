package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/sitepatrol/internal/cache"
	"github.com/jask/sitepatrol/internal/database"
	"github.com/jask/sitepatrol/internal/database/repository"
	"github.com/jask/sitepatrol/internal/metrics"
	"github.com/jask/sitepatrol/internal/patrol"
)

var (
	ErrSiteNotFound  = errors.New("site not found")
	ErrRouteNotFound = errors.New("route not found")
	ErrInvalidRoute  = errors.New("invalid route")
)

// RouteService serves sites and routes out of sqlite. Cache and Metrics are
// optional.
type RouteService struct {
	DB          *sql.DB
	SiteRepo    *repository.SiteRepo
	PointerRepo *repository.PointerRepo
	RouteRepo   *repository.RouteRepo
	Cache       *cache.SiteCache
	Metrics     *metrics.Metrics
	Logger      *zap.Logger
}

var _ patrol.Backend = (*RouteService)(nil)

func NewRouteService(db *sql.DB, logger *zap.Logger) *RouteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteService{
		DB:          db,
		SiteRepo:    repository.NewSiteRepo(db),
		PointerRepo: repository.NewPointerRepo(db),
		RouteRepo:   repository.NewRouteRepo(db),
		Logger:      logger,
	}
}

func (s *RouteService) Sites(ctx context.Context) ([]patrol.SiteSummary, error) {
	rows, err := s.SiteRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	out := make([]patrol.SiteSummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, patrol.SiteSummary{ID: r.ID, Name: r.Name, Address: r.Address})
	}
	return out, nil
}

// Site returns the aggregate, consulting the cache first when one is set.
func (s *RouteService) Site(ctx context.Context, siteID string) (patrol.SiteAggregate, error) {
	if s.Cache != nil {
		agg, ok, err := s.Cache.Get(ctx, siteID)
		if err != nil {
			s.Logger.Warn("site cache read failed", zap.String("site_id", siteID), zap.Error(err))
		}
		s.Metrics.CacheLookup(ok)
		if ok {
			return agg, nil
		}
	}

	agg, err := s.loadSite(ctx, siteID)
	if err != nil {
		return patrol.SiteAggregate{}, err
	}
	if s.Cache != nil {
		if err := s.Cache.Put(ctx, agg); err != nil {
			s.Logger.Warn("site cache write failed", zap.String("site_id", siteID), zap.Error(err))
		}
	}
	return agg, nil
}

func (s *RouteService) loadSite(ctx context.Context, siteID string) (patrol.SiteAggregate, error) {
	site, err := s.SiteRepo.Get(ctx, siteID)
	if err != nil {
		return patrol.SiteAggregate{}, fmt.Errorf("get site: %w", err)
	}
	if site == nil {
		return patrol.SiteAggregate{}, fmt.Errorf("%w: %s", ErrSiteNotFound, siteID)
	}
	pointers, err := s.PointerRepo.ListBySite(ctx, siteID)
	if err != nil {
		return patrol.SiteAggregate{}, fmt.Errorf("list pointers: %w", err)
	}
	routes, err := s.RouteRepo.ListBySite(ctx, siteID)
	if err != nil {
		return patrol.SiteAggregate{}, fmt.Errorf("list routes: %w", err)
	}

	agg := patrol.SiteAggregate{
		SiteSummary: patrol.SiteSummary{ID: site.ID, Name: site.Name, Address: site.Address},
		Pointers:    make([]patrol.Pointer, 0, len(pointers)),
		Routes:      make([]patrol.RouteRecord, 0, len(routes)),
	}
	for _, p := range pointers {
		agg.Pointers = append(agg.Pointers, patrol.Pointer{ID: patrol.PointerID(p.ID), Label: p.Label})
	}
	for _, r := range routes {
		agg.Routes = append(agg.Routes, toRecord(r))
	}
	return agg, nil
}

func (s *RouteService) CreateRoute(ctx context.Context, siteID string, req patrol.RouteRequest) (rec patrol.RouteRecord, err error) {
	defer func() { s.Metrics.RouteSaved("create", err) }()

	rt, err := s.validate(ctx, siteID, req)
	if err != nil {
		return patrol.RouteRecord{}, err
	}
	rt.ID = uuid.NewString()
	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		routes := s.RouteRepo.WithTx(tx)
		if err := routes.Insert(ctx, rt); err != nil {
			return fmt.Errorf("insert route: %w", err)
		}
		if _, err := routes.AddRevision(ctx, rt); err != nil {
			return fmt.Errorf("add revision: %w", err)
		}
		return nil
	})
	if err != nil {
		return patrol.RouteRecord{}, err
	}
	s.invalidate(ctx, siteID)
	s.Logger.Info("route created", zap.String("site_id", siteID), zap.String("route_id", rt.ID), zap.String("route", rt.Sequence))
	return s.record(ctx, rt.ID)
}

func (s *RouteService) UpdateRoute(ctx context.Context, siteID, routeID string, req patrol.RouteRequest) (rec patrol.RouteRecord, err error) {
	defer func() { s.Metrics.RouteSaved("update", err) }()

	rt, err := s.validate(ctx, siteID, req)
	if err != nil {
		return patrol.RouteRecord{}, err
	}
	rt.ID = routeID
	err = database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		routes := s.RouteRepo.WithTx(tx)
		ok, err := routes.Update(ctx, rt)
		if err != nil {
			return fmt.Errorf("update route: %w", err)
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrRouteNotFound, routeID)
		}
		if _, err := routes.AddRevision(ctx, rt); err != nil {
			return fmt.Errorf("add revision: %w", err)
		}
		return nil
	})
	if err != nil {
		return patrol.RouteRecord{}, err
	}
	s.invalidate(ctx, siteID)
	s.Logger.Info("route updated", zap.String("site_id", siteID), zap.String("route_id", routeID), zap.String("route", rt.Sequence))
	return s.record(ctx, routeID)
}

func (s *RouteService) DeleteRoute(ctx context.Context, siteID, routeID string) (err error) {
	defer func() { s.Metrics.RouteSaved("delete", err) }()

	ok, err := s.RouteRepo.Delete(ctx, siteID, routeID)
	if err != nil {
		return fmt.Errorf("delete route: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrRouteNotFound, routeID)
	}
	s.invalidate(ctx, siteID)
	s.Logger.Info("route deleted", zap.String("site_id", siteID), zap.String("route_id", routeID))
	return nil
}

// Revisions lists a route's saved versions, newest first.
func (s *RouteService) Revisions(ctx context.Context, siteID, routeID string) ([]patrol.RouteRevision, error) {
	rt, err := s.RouteRepo.Get(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}
	if rt == nil || rt.SiteID != siteID {
		return nil, fmt.Errorf("%w: %s", ErrRouteNotFound, routeID)
	}
	rows, err := s.RouteRepo.Revisions(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	out := make([]patrol.RouteRevision, 0, len(rows))
	for _, rv := range rows {
		out = append(out, patrol.RouteRevision{
			ID:        rv.ID,
			RouteID:   rv.RouteID,
			Name:      rv.Name,
			Remarks:   rv.Remarks,
			Route:     rv.Sequence,
			CreatedAt: rv.CreatedAt,
		})
	}
	return out, nil
}

// validate checks req against the site's catalog. Tokens that do not parse
// are dropped like the editor drops them; ids outside the catalog are not.
func (s *RouteService) validate(ctx context.Context, siteID string, req patrol.RouteRequest) (repository.Route, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return repository.Route{}, fmt.Errorf("%w: name is required", ErrInvalidRoute)
	}
	site, err := s.SiteRepo.Get(ctx, siteID)
	if err != nil {
		return repository.Route{}, fmt.Errorf("get site: %w", err)
	}
	if site == nil {
		return repository.Route{}, fmt.Errorf("%w: %s", ErrSiteNotFound, siteID)
	}
	pointers, err := s.PointerRepo.ListBySite(ctx, siteID)
	if err != nil {
		return repository.Route{}, fmt.Errorf("list pointers: %w", err)
	}
	known := make(map[patrol.PointerID]bool, len(pointers))
	for _, p := range pointers {
		known[patrol.PointerID(p.ID)] = true
	}
	seq := patrol.ParseRoute(req.Route)
	for _, id := range seq.IDs() {
		if !known[id] {
			return repository.Route{}, fmt.Errorf("%w: checkpoint %d does not belong to site %s", ErrInvalidRoute, id, siteID)
		}
	}
	return repository.Route{
		SiteID:   siteID,
		Name:     name,
		Remarks:  strings.TrimSpace(req.Remarks),
		Sequence: patrol.SerializeRoute(seq),
	}, nil
}

func (s *RouteService) record(ctx context.Context, routeID string) (patrol.RouteRecord, error) {
	rt, err := s.RouteRepo.Get(ctx, routeID)
	if err != nil {
		return patrol.RouteRecord{}, fmt.Errorf("get route: %w", err)
	}
	if rt == nil {
		return patrol.RouteRecord{}, fmt.Errorf("%w: %s", ErrRouteNotFound, routeID)
	}
	return toRecord(*rt), nil
}

func (s *RouteService) invalidate(ctx context.Context, siteID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, siteID); err != nil {
		s.Logger.Warn("site cache invalidate failed", zap.String("site_id", siteID), zap.Error(err))
	}
}

func toRecord(r repository.Route) patrol.RouteRecord {
	return patrol.RouteRecord{
		ID:        r.ID,
		SiteID:    r.SiteID,
		Name:      r.Name,
		Remarks:   r.Remarks,
		Route:     r.Sequence,
		UpdatedAt: r.UpdatedAt,
	}
}
