package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/sitepatrol/internal/patrol"
	"github.com/jask/sitepatrol/internal/service"
	"github.com/jask/sitepatrol/internal/tui"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List sites",
	Args:  cobra.NoArgs,
	RunE:  runSites,
}

var routesCmd = &cobra.Command{
	Use:   "routes <site-id>",
	Short: "List the routes of a site with checkpoint names",
	Args:  cobra.ExactArgs(1),
	RunE:  runRoutes,
}

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Manage a single route",
}

var (
	setSite     string
	setName     string
	setID       string
	setRemarks  string
	setPointers string
)

var routeSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a route from checkpoint names",
	Long: `Set saves a route whose checkpoints are given by name, in patrol order.
Names are matched by id ("#3"), exactly, or by the closest label when the
spelling is a little off.

  sitepatrol route set --site <id> --name Night --pointers "Main Gate, Lobby, Roof"`,
	Args: cobra.NoArgs,
	RunE: runRouteSet,
}

func init() {
	routeSetCmd.Flags().StringVar(&setSite, "site", "", "site id")
	routeSetCmd.Flags().StringVar(&setName, "name", "", "route name")
	routeSetCmd.Flags().StringVar(&setID, "id", "", "route id to replace (creates a new route when empty)")
	routeSetCmd.Flags().StringVar(&setRemarks, "remarks", "", "remarks")
	routeSetCmd.Flags().StringVar(&setPointers, "pointers", "", "comma separated checkpoint names")
	_ = routeSetCmd.MarkFlagRequired("site")
	_ = routeSetCmd.MarkFlagRequired("name")
	routeCmd.AddCommand(routeSetCmd)
}

func runSites(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	backend, closeFn, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	sites, err := backend.Sites(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, s := range sites {
		fmt.Fprintf(out, "%s  %s", s.ID, s.Name)
		if s.Address != "" {
			fmt.Fprintf(out, " (%s)", s.Address)
		}
		fmt.Fprintln(out)
	}
	return nil
}

func runRoutes(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	backend, closeFn, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	agg, err := backend.Site(ctx, args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d checkpoints, %d routes\n", agg.Name, len(agg.Pointers), len(agg.Routes))
	catalog := agg.Catalog()
	for _, r := range agg.Routes {
		fmt.Fprintf(out, "\n%s  %s\n  %s\n", r.ID, r.Name, tui.RouteLabels(catalog, r.Route))
		if r.Remarks != "" {
			fmt.Fprintf(out, "  %s\n", r.Remarks)
		}
	}
	return nil
}

func runRouteSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	backend, closeFn, err := openBackend(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	agg, err := backend.Site(ctx, setSite)
	if err != nil {
		return err
	}
	ids, err := service.ResolveLabels(agg.Catalog(), splitLabels(setPointers))
	if err != nil {
		return err
	}
	sub := patrol.Submission{
		Mode:    patrol.ModeNew,
		SiteID:  agg.ID,
		RouteID: setID,
		Request: patrol.RouteRequest{
			Name:    strings.TrimSpace(setName),
			Remarks: strings.TrimSpace(setRemarks),
			Route:   patrol.SerializeRoute(patrol.NewSequence(ids...)),
		},
	}
	if setID != "" {
		sub.Mode = patrol.ModeEditing
	}
	rec, err := patrol.Submit(ctx, backend, sub)
	if err != nil {
		return err
	}
	logger.Info("route saved", zap.String("site", rec.SiteID), zap.String("route", rec.ID), zap.String("mode", sub.Mode.String()))
	fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s): %s\n", rec.Name, rec.ID, tui.RouteLabels(agg.Catalog(), rec.Route))
	return nil
}

func splitLabels(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
