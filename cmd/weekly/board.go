package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/weekly/internal/api"
	"github.com/tgienger/weekly/internal/ui"
	"github.com/tgienger/weekly/internal/ui/views"
)

// boardCmd implements 'weekly board'.
func boardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Open the Kanban board",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.Close()

			model := ui.NewApp(ctx, a.engine, a.backend, views.BoardOptions{
				CopyDefaults: cfg.Copy,
				WeekCount:    cfg.Weeks.Count,
				Now:          time.Now,
			}, a.log)

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
}

// serveCmd implements 'weekly serve'.
func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = cfg.HTTP.Addr
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				srv := api.NewServer(a.engine, api.Options{
					CopyDefaults: cfg.Copy,
					WeekCount:    cfg.Weeks.Count,
				}, a.log)
				return srv.Run(ctx, addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}
