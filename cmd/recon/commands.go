package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/aryannaik/recon-dashboard/internal/app"
	"github.com/aryannaik/recon-dashboard/internal/search"
	"github.com/aryannaik/recon-dashboard/internal/server"
	"github.com/aryannaik/recon-dashboard/internal/session"
	"github.com/aryannaik/recon-dashboard/internal/targets"
	"github.com/aryannaik/recon-dashboard/internal/tui"
)

var (
	port           string
	searchCategory string
	jsonOutput     bool

	targetCategories      []string
	targetPriorities      []string
	targetClassifications []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API and static frontend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Port = port
		}
		return serve(cmd.Context())
	},
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the record database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category, err := app.ParseSearchCategory(searchCategory)
		if err != nil {
			return err
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		_, resp := dash.Search(app.NewState(), query, category)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), resp)
		}
		return printResults(cmd.OutOrStdout(), resp)
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <id>",
	Short: "Show a single record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		rec, err := dash.Lookup(id)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), rec)
	},
}

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List map targets matching the given filters",
	Long: `Lists targets whose category, priority and classification are all enabled.
Each filter flag may be repeated; an omitted flag enables the whole domain.

Example:
  recon targets --category military --priority CRITICAL --classification "TOP SECRET"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := app.NewState()
		f, err := filterFromFlags()
		if err != nil {
			return err
		}
		st.Filters = f
		resp := dash.Targets(st)
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), resp)
		}
		return printTargets(cmd.OutOrStdout(), resp)
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := dash.Restore(app.NewState())
		if err != nil && !errors.Is(err, session.ErrNoSession) {
			logger.Warn("could not restore session", zap.Error(err))
		}
		_, err = tea.NewProgram(tui.New(dash, st), tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&port, "port", "8990", "Port to listen on")
	searchCmd.Flags().StringVar(&searchCategory, "category", "all", "Category filter: all, person, location, vehicle")
	searchCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
	targetsCmd.Flags().StringArrayVar(&targetCategories, "category", nil, "Enabled target category (repeatable)")
	targetsCmd.Flags().StringArrayVar(&targetPriorities, "priority", nil, "Enabled priority (repeatable)")
	targetsCmd.Flags().StringArrayVar(&targetClassifications, "classification", nil, "Enabled classification (repeatable)")
	targetsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print JSON")
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Port, cfg.StaticDir, dash, cfg.MaxUploadBytes, logger.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func filterFromFlags() (targets.FilterState, error) {
	var e targets.Enabled
	for _, s := range targetCategories {
		c, err := targets.ParseCategory(s)
		if err != nil {
			return targets.FilterState{}, err
		}
		e.Categories = append(e.Categories, c)
	}
	for _, s := range targetPriorities {
		p, err := targets.ParsePriority(s)
		if err != nil {
			return targets.FilterState{}, err
		}
		e.Priorities = append(e.Priorities, p)
	}
	for _, s := range targetClassifications {
		c, err := targets.ParseClassification(s)
		if err != nil {
			return targets.FilterState{}, err
		}
		e.Classifications = append(e.Classifications, c)
	}
	return targets.FilterStateFrom(e), nil
}

func printResults(w io.Writer, resp search.Response) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCATEGORY\tNAME\tDESCRIPTION")
	for _, r := range resp.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", r.ID, r.Category, r.Name, r.Snippet)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d found\n", resp.Total)
	return err
}

func printTargets(w io.Writer, resp search.TargetResponse) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tCATEGORY\tPRIORITY\tCLASSIFICATION\tLAT\tLNG")
	for _, t := range resp.Targets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.4f\t%.4f\n",
			t.Title, t.Category, t.Priority, t.Classification, t.Coordinates.Lat, t.Coordinates.Lng)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	parts := make([]string, 0, len(targets.Categories))
	for _, c := range targets.Categories {
		if n := resp.Counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c, n))
		}
	}
	_, err := fmt.Fprintf(w, "%d visible (%s)\n", resp.Total, strings.Join(parts, ", "))
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
