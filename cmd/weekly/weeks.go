package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/weekly/internal/output"
	"github.com/tgienger/weekly/internal/week"
)

// weekFlag resolves the --week flag, defaulting to the current week
func weekFlag(s string) (string, error) {
	if s == "" {
		return week.CurrentKey(), nil
	}
	t, err := week.Parse(s)
	if err != nil {
		return "", err
	}
	return week.KeyFor(t), nil
}

var errUserRequired = errors.New("--user is required")

// weeksCmd implements 'weekly weeks'.
func weeksCmd() *cobra.Command {
	var around string
	var count int
	cmd := &cobra.Command{
		Use:   "weeks",
		Short: "List the weeks around the current one",
		RunE: func(_ *cobra.Command, _ []string) error {
			current, err := weekFlag(around)
			if err != nil {
				return err
			}
			if count < 0 {
				count = cfg.Weeks.Count
			}
			keys, err := week.Available(current, count)
			if err != nil {
				return err
			}

			today := week.KeyFor(time.Now())
			lines := make([]output.WeekLine, 0, len(keys))
			for _, k := range keys {
				r, err := week.RangeOf(k)
				if err != nil {
					return err
				}
				lines = append(lines, output.WeekLine{Key: k, Range: r.String(), Current: k == today})
			}
			printOutput(formatter.FormatWeeks(lines))
			return nil
		},
	}
	cmd.Flags().StringVar(&around, "around", "", "Center the list on this week (YYYY-MM-DD)")
	cmd.Flags().IntVarP(&count, "count", "n", -1, "Number of weeks around the center (default from config)")
	return cmd
}

// weekCmd implements 'weekly week'.
func weekCmd() *cobra.Command {
	var userID, weekKey string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print a user's week as board columns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errUserRequired
			}
			key, err := weekFlag(weekKey)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				b, err := a.engine.Board(ctx, userID, key)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatBoard(b))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id")
	cmd.Flags().StringVarP(&weekKey, "week", "w", "", "Week (default current)")
	return cmd
}

// statsCmd implements 'weekly stats'.
func statsCmd() *cobra.Command {
	var userID, weekKey string
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize a week",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := weekFlag(weekKey)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				s, err := a.engine.StatsByWeek(ctx, userID, key)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatStats(key, s))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id (default everyone)")
	cmd.Flags().StringVarP(&weekKey, "week", "w", "", "Week (default current)")
	return cmd
}

// notifyCmd implements 'weekly notify'.
func notifyCmd() *cobra.Command {
	var userID, weekKey string
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send a user's weekly report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if userID == "" {
				return errUserRequired
			}
			key, err := weekFlag(weekKey)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.engine.NotifyWeek(ctx, userID, key); err != nil {
					return err
				}
				printOutput(formatter.FormatMessage(fmt.Sprintf("Sent weekly report for %s to user %s", key, userID)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id")
	cmd.Flags().StringVarP(&weekKey, "week", "w", "", "Week (default current)")
	return cmd
}

// usersCmd implements 'weekly users'.
func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				users, err := a.engine.Users(ctx)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatUsers(users))
				return nil
			})
		},
	}
}
