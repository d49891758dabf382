package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/jask/sitepatrol/internal/config"
	"github.com/jask/sitepatrol/internal/patrol"
)

// App is the console: a site list, a site view with its routes, and the
// route editor dialog on top.
type App struct {
	ctx     context.Context
	backend patrol.Backend
	logger  *zap.Logger
	keys    *KeyRegistry

	screen      screen
	modal       modalState
	sites       []patrol.SiteSummary
	siteCursor  int
	site        *patrol.SiteAggregate
	routeCursor int
	loading     bool
	dialog      *routeDialog

	status     string
	statusErr  bool
	dateFormat string
	tz         *time.Location
	width      int
	height     int
}

type screen string

const (
	screenSites screen = "sites"
	screenSite  screen = "site"
)

type modalState string

const (
	modalNone          modalState = ""
	modalEditor        modalState = "editor"
	modalConfirmDelete modalState = "confirmDelete"
)

func New(ctx context.Context, backend patrol.Backend, cfg config.UIConfig, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	tz := time.Local
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			tz = loc
		} else {
			logger.Warn("unknown timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		}
	}
	dateFormat := cfg.DateFormat
	if dateFormat == "" {
		dateFormat = "02 Jan 15:04"
	}
	return &App{
		ctx:        ctx,
		backend:    backend,
		logger:     logger,
		keys:       NewKeyRegistry(),
		screen:     screenSites,
		dialog:     newRouteDialog(),
		dateFormat: dateFormat,
		tz:         tz,
		loading:    true,
	}
}

// messages

type sitesMsg []patrol.SiteSummary

type siteMsg patrol.SiteAggregate

type submitDoneMsg struct {
	sub patrol.Submission
	rec patrol.RouteRecord
	err error
}

type routeDeletedMsg struct {
	siteID string
	name   string
	err    error
}

type errMsg struct{ error }

// commands

func (a *App) Init() tea.Cmd {
	return a.loadSites()
}

func (a *App) loadSites() tea.Cmd {
	return func() tea.Msg {
		sites, err := a.backend.Sites(a.ctx)
		if err != nil {
			return errMsg{fmt.Errorf("load sites: %w", err)}
		}
		return sitesMsg(sites)
	}
}

func (a *App) loadSite(siteID string) tea.Cmd {
	return func() tea.Msg {
		agg, err := a.backend.Site(a.ctx, siteID)
		if err != nil {
			return errMsg{fmt.Errorf("load site: %w", err)}
		}
		return siteMsg(agg)
	}
}

// submitCmd sends the snapshot. The result is delivered even if the dialog
// was closed meanwhile; the editor decides whether it still applies.
func (a *App) submitCmd(sub patrol.Submission) tea.Cmd {
	return func() tea.Msg {
		rec, err := patrol.Submit(a.ctx, a.backend, sub)
		return submitDoneMsg{sub: sub, rec: rec, err: err}
	}
}

func (a *App) deleteRouteCmd(siteID string, rec patrol.RouteRecord) tea.Cmd {
	return func() tea.Msg {
		err := a.backend.DeleteRoute(a.ctx, siteID, rec.ID)
		return routeDeletedMsg{siteID: siteID, name: rec.Name, err: err}
	}
}

// update

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		return a, nil
	case tea.KeyMsg:
		switch a.modal {
		case modalEditor:
			return a.updateEditor(m)
		case modalConfirmDelete:
			return a.updateConfirmDelete(m)
		}
		if a.screen == screenSite {
			return a.updateSite(m)
		}
		return a.updateSites(m)
	case spinner.TickMsg:
		return a, a.dialog.updateSpinner(m)
	case sitesMsg:
		a.loading = false
		a.sites = []patrol.SiteSummary(m)
		if a.siteCursor >= len(a.sites) {
			a.siteCursor = max(len(a.sites)-1, 0)
		}
	case siteMsg:
		a.loading = false
		agg := patrol.SiteAggregate(m)
		if a.site != nil && a.site.ID != agg.ID {
			a.routeCursor = 0
		}
		a.site = &agg
		if a.routeCursor >= len(agg.Routes) {
			a.routeCursor = max(len(agg.Routes)-1, 0)
		}
	case submitDoneMsg:
		return a, a.applySubmit(m)
	case routeDeletedMsg:
		if m.err != nil {
			a.setError(fmt.Errorf("delete route: %w", m.err))
			return a, nil
		}
		a.setStatus("route " + m.name + " deleted")
		return a, a.loadSite(m.siteID)
	case errMsg:
		a.loading = false
		a.setError(m.error)
	default:
		// cursor blink and friends
		if a.modal == modalEditor {
			return a, a.dialog.updateInput(msg)
		}
	}
	return a, nil
}

func (a *App) applySubmit(m submitDoneMsg) tea.Cmd {
	out := a.dialog.finish(m.sub, m.err)
	if out.Closed {
		a.modal = modalNone
	}
	if out.Err != nil {
		a.logger.Warn("route save failed",
			zap.String("site_id", out.SiteID),
			zap.Bool("applied", out.Applied),
			zap.Error(out.Err))
		a.setError(errors.New(out.Message))
	} else {
		a.logger.Info("route saved", zap.String("site_id", out.SiteID), zap.String("route_id", m.rec.ID))
		a.setStatus(out.Message)
	}
	if out.Refresh && a.site != nil && a.site.ID == out.SiteID {
		return a.loadSite(out.SiteID)
	}
	return nil
}

func (a *App) setStatus(s string) {
	a.status = s
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.status = "error: " + err.Error()
	a.statusErr = true
}

func (a *App) updateSites(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := a.keys.Lookup(m.String(), scopeSites)
	if b == nil {
		return a, nil
	}
	switch b.Action {
	case actionQuit:
		return a, tea.Quit
	case actionNavigate:
		if isUpKey(m.String()) {
			if a.siteCursor > 0 {
				a.siteCursor--
			}
		} else if a.siteCursor < len(a.sites)-1 {
			a.siteCursor++
		}
	case actionRefresh:
		a.loading = true
		return a, a.loadSites()
	case actionSelect:
		if len(a.sites) == 0 {
			return a, nil
		}
		a.screen = screenSite
		a.site = nil
		a.routeCursor = 0
		a.loading = true
		a.status = ""
		return a, a.loadSite(a.sites[a.siteCursor].ID)
	}
	return a, nil
}

func (a *App) updateSite(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := a.keys.Lookup(m.String(), scopeSite)
	if b == nil {
		return a, nil
	}
	switch b.Action {
	case actionQuit:
		return a, tea.Quit
	case actionBack:
		a.screen = screenSites
		a.status = ""
		return a, a.loadSites()
	case actionRefresh:
		if a.site != nil {
			return a, a.loadSite(a.site.ID)
		}
	case actionNavigate:
		if a.site == nil {
			return a, nil
		}
		if isUpKey(m.String()) {
			if a.routeCursor > 0 {
				a.routeCursor--
			}
		} else if a.routeCursor < len(a.site.Routes)-1 {
			a.routeCursor++
		}
	case actionNew:
		if a.site == nil {
			return a, nil
		}
		a.modal = modalEditor
		return a, a.dialog.openNew(a.site.ID, a.site.Catalog())
	case actionSelect:
		rec, ok := a.selectedRoute()
		if !ok {
			return a, nil
		}
		a.modal = modalEditor
		return a, a.dialog.openEdit(a.site.ID, a.site.Catalog(), rec)
	case actionDelete:
		if _, ok := a.selectedRoute(); ok {
			a.modal = modalConfirmDelete
		}
	}
	return a, nil
}

func (a *App) selectedRoute() (patrol.RouteRecord, bool) {
	if a.site == nil || a.routeCursor >= len(a.site.Routes) {
		return patrol.RouteRecord{}, false
	}
	return a.site.Routes[a.routeCursor], true
}

func (a *App) updateEditor(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	ev, cmd := a.dialog.handleKey(m, a.keys)
	if ev.closed {
		a.modal = modalNone
	}
	if ev.submit != nil {
		a.logger.Debug("submitting route",
			zap.String("site_id", ev.submit.SiteID),
			zap.String("mode", ev.submit.Mode.String()),
			zap.String("route", ev.submit.Request.Route))
		return a, tea.Batch(cmd, a.submitCmd(*ev.submit))
	}
	return a, cmd
}

func (a *App) updateConfirmDelete(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	b := a.keys.Lookup(m.String(), scopeConfirmDelete)
	if b == nil {
		return a, nil
	}
	switch b.Action {
	case actionConfirm:
		a.modal = modalNone
		rec, ok := a.selectedRoute()
		if !ok {
			return a, nil
		}
		return a, a.deleteRouteCmd(a.site.ID, rec)
	case actionCancel:
		a.modal = modalNone
	case actionQuit:
		return a, tea.Quit
	}
	return a, nil
}
