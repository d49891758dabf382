package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/sitepatrol/internal/patrol"
)

func (a *App) View() string {
	var header, body string
	scope := scopeSites
	switch a.screen {
	case screenSite:
		name := "…"
		if a.site != nil {
			name = a.site.Name
		}
		header = a.renderHeader("sites", name)
		body = a.renderSite()
		scope = scopeSite
	default:
		header = a.renderHeader("sites")
		body = a.renderSites()
	}
	main := header + "\n\n" + body

	switch a.modal {
	case modalEditor:
		return a.composeOverlay(main, a.renderStatus(), a.renderFooter(a.keys.HelpBindings(a.dialog.scope())), a.dialog.view(a.width))
	case modalConfirmDelete:
		return a.composeOverlay(main, a.renderStatus(), a.renderFooter(a.keys.HelpBindings(scopeConfirmDelete)), a.renderConfirmDelete())
	}
	return a.placeWithFooter(main, a.renderStatus(), a.renderFooter(a.keys.HelpBindings(scope)))
}

func (a *App) renderSites() string {
	if a.loading && len(a.sites) == 0 {
		return mutedStyle.Render("loading sites…")
	}
	if len(a.sites) == 0 {
		return mutedStyle.Render("No sites yet. Import some with `sitepatrol import <file.yaml>`.")
	}
	lines := []string{titleStyle.Render("Sites")}
	for i, s := range a.sites {
		marker := "  "
		if i == a.siteCursor {
			marker = cursorStyle.Render("▶ ")
		}
		line := marker + s.Name
		if s.Address != "" {
			line += "  " + mutedStyle.Render(s.Address)
		}
		lines = append(lines, line)
	}
	return listBoxStyle.Render(strings.Join(lines, "\n"))
}

func (a *App) renderSite() string {
	if a.site == nil {
		return mutedStyle.Render("loading site…")
	}
	catalog := a.site.Catalog()

	cps := []string{titleStyle.Render(fmt.Sprintf("Checkpoints (%d)", catalog.Len()))}
	for _, p := range catalog.Pointers() {
		cps = append(cps, mutedStyle.Render(fmt.Sprintf("%4s ", "#"+p.ID.String()))+p.Label)
	}
	if catalog.Len() == 0 {
		cps = append(cps, mutedStyle.Render("no checkpoints"))
	}

	routes := []string{titleStyle.Render(fmt.Sprintf("Routes (%d)", len(a.site.Routes)))}
	for i, r := range a.site.Routes {
		marker := "  "
		if i == a.routeCursor {
			marker = cursorStyle.Render("▶ ")
		}
		updated := ""
		if !r.UpdatedAt.IsZero() {
			updated = "  " + mutedStyle.Render(r.UpdatedAt.In(a.tz).Format(a.dateFormat))
		}
		routes = append(routes, marker+r.Name+updated)
		routes = append(routes, "    "+RouteLabels(catalog, r.Route))
		if r.Remarks != "" {
			routes = append(routes, "    "+mutedStyle.Render(r.Remarks))
		}
	}
	if len(a.site.Routes) == 0 {
		routes = append(routes, mutedStyle.Render("no routes yet, press n to create one"))
	}

	left := listBoxStyle.Render(strings.Join(cps, "\n"))
	right := listBoxStyle.Render(strings.Join(routes, "\n"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (a *App) renderConfirmDelete() string {
	rec, ok := a.selectedRoute()
	if !ok {
		return ""
	}
	return titleStyle.Render("Delete route?") + "\n" +
		warningStyle.Render(rec.Name) + "\n" +
		mutedStyle.Render("Its revision history is deleted too.") + "\n" +
		"[y] delete  [n] keep"
}

// RouteLabels renders a persisted route with checkpoint names. Ids that are
// no longer in the catalog are shown as they are stored.
func RouteLabels(catalog *patrol.Catalog, route string) string {
	seq := patrol.ParseRoute(route)
	if seq.Len() == 0 {
		return mutedStyle.Render("(empty)")
	}
	parts := make([]string, 0, seq.Len())
	for _, id := range seq.IDs() {
		label := catalog.Label(id)
		if catalog.Contains(id) {
			label = confirmedStyle.Render(label)
		} else {
			label = ghostStyle.Render(label)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, sepStyle.Render(" → "))
}
