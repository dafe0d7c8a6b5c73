package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	wkerrors "github.com/tgienger/weekly/internal/errors"
	"github.com/tgienger/weekly/internal/models"
)

// taskCmd groups the 'weekly task' subcommands.
func taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, change and copy tasks",
	}
	cmd.AddCommand(
		taskAddCmd(),
		taskListCmd(),
		taskSearchCmd(),
		taskShowCmd(),
		taskMoveCmd(),
		taskCopyCmd(),
		taskEditCmd(),
		taskRmCmd(),
		taskCommentCmd(),
		taskHistoryCmd(),
		taskLineageCmd(),
	)
	return cmd
}

// taskFields are the editable task flags shared by add and edit
type taskFields struct {
	title, description, priority, status string
	week, due, project, ticket, assignee  string
	estimate, actual                      float64
	progress                              int
	tags                                  []string
}

func (f *taskFields) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.description, "description", "d", "", "Task description")
	fl.StringVarP(&f.priority, "priority", "p", "", "Priority (low, medium, high, urgent)")
	fl.StringVarP(&f.status, "status", "s", "", "Status (todo, in-progress, completed, blocked)")
	fl.StringVarP(&f.week, "week", "w", "", "Week (YYYY-MM-DD, default current)")
	fl.StringVar(&f.due, "due", "", "Due date (YYYY-MM-DD)")
	fl.StringVar(&f.project, "project", "", "Project id")
	fl.StringVar(&f.ticket, "ticket", "", "Ticket number")
	fl.StringVarP(&f.assignee, "user", "u", "", "Assignee user id")
	fl.Float64Var(&f.estimate, "estimate", 0, "Estimated hours")
	fl.Float64Var(&f.actual, "actual", 0, "Actual hours")
	fl.IntVar(&f.progress, "progress", 0, "Progress percent")
	fl.StringSliceVarP(&f.tags, "tag", "t", nil, "Tag (repeatable)")
}

// taskAddCmd implements 'weekly task add'.
func taskAddCmd() *cobra.Command {
	var f taskFields
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.assignee == "" {
				return errUserRequired
			}
			t := &models.Task{
				Title:          args[0],
				Description:    f.description,
				AssigneeID:     f.assignee,
				ProjectID:      f.project,
				DueDate:        f.due,
				EstimatedHours: f.estimate,
				ActualHours:    f.actual,
				Progress:       f.progress,
				TicketNumber:   f.ticket,
				Tags:           f.tags,
			}
			if f.week != "" {
				key, err := weekFlag(f.week)
				if err != nil {
					return err
				}
				t.WeekOf = key
			}
			if f.priority != "" {
				p, err := models.ParsePriority(f.priority)
				if err != nil {
					return err
				}
				t.Priority = p
			}
			if f.status != "" {
				s, err := models.ParseStatus(f.status)
				if err != nil {
					return err
				}
				t.Status = s
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				created, err := a.engine.CreateTask(ctx, t)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTask(created))
				return nil
			})
		},
	}
	f.register(cmd)
	return cmd
}

// taskEditCmd implements 'weekly task edit'. Only flags that are passed
// change the task.
func taskEditCmd() *cobra.Command {
	var f taskFields
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := f.update(cmd)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := a.engine.UpdateTask(ctx, args[0], u)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTask(t))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&f.title, "title", "", "Task title")
	f.register(cmd)
	return cmd
}

func (f *taskFields) update(cmd *cobra.Command) (models.TaskUpdate, error) {
	var u models.TaskUpdate
	changed := cmd.Flags().Changed

	if changed("title") {
		u.Title = &f.title
	}
	if changed("description") {
		u.Description = &f.description
	}
	if changed("priority") {
		p, err := models.ParsePriority(f.priority)
		if err != nil {
			return u, err
		}
		u.Priority = &p
	}
	if changed("status") {
		s, err := models.ParseStatus(f.status)
		if err != nil {
			return u, err
		}
		u.Status = &s
	}
	if changed("week") {
		key, err := weekFlag(f.week)
		if err != nil {
			return u, err
		}
		u.WeekOf = &key
	}
	if changed("due") {
		u.DueDate = &f.due
	}
	if changed("project") {
		u.ProjectID = &f.project
	}
	if changed("ticket") {
		u.TicketNumber = &f.ticket
	}
	if changed("user") {
		u.AssigneeID = &f.assignee
	}
	if changed("estimate") {
		u.EstimatedHours = &f.estimate
	}
	if changed("actual") {
		u.ActualHours = &f.actual
	}
	if changed("progress") {
		u.Progress = &f.progress
	}
	if changed("tag") {
		u.Tags = &f.tags
	}
	return u, nil
}

// taskListCmd implements 'weekly task list'.
func taskListCmd() *cobra.Command {
	var userID, priority, project, sortBy string
	var weeks, statuses []string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := models.Filter{AssigneeID: userID, ProjectID: project}
			for _, w := range weeks {
				key, err := weekFlag(w)
				if err != nil {
					return err
				}
				f.Weeks = append(f.Weeks, key)
			}
			for _, s := range statuses {
				st, err := models.ParseStatus(s)
				if err != nil {
					return err
				}
				f.Statuses = append(f.Statuses, st)
			}
			if priority != "" {
				p, err := models.ParsePriority(priority)
				if err != nil {
					return err
				}
				f.Priority = p
			}
			switch sortBy {
			case "", "newest":
			case "due":
				f.Sort = models.SortDueDate
			default:
				return wkerrors.InvalidArgumentError{Field: "sort", Reason: "must be newest or due"}
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				tasks, err := listTasks(ctx, a, f, cmd.Flags().Changed("sort"))
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTaskList(tasks))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Assignee user id")
	cmd.Flags().StringSliceVarP(&weeks, "week", "w", nil, "Week (repeatable)")
	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "Status (repeatable)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority")
	cmd.Flags().StringVar(&project, "project", "", "Project id")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort order: newest or due")
	return cmd
}

// listTasks uses the dedicated week and priority queries when the filter is
// exactly one of them
func listTasks(ctx context.Context, a *app, f models.Filter, customSort bool) ([]models.Task, error) {
	plain := f.ProjectID == "" && len(f.Statuses) == 0 && !customSort
	switch {
	case plain && len(f.Weeks) > 0 && f.Priority == "":
		return a.engine.TasksByWeeks(ctx, f.AssigneeID, f.Weeks)
	case plain && len(f.Weeks) == 0 && f.Priority != "":
		return a.engine.TasksByPriority(ctx, f.AssigneeID, f.Priority)
	default:
		return a.engine.Query(ctx, f)
	}
}

// taskSearchCmd implements 'weekly task search'.
func taskSearchCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Find tasks by title, description or ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				tasks, err := a.engine.Search(ctx, userID, args[0])
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTaskList(tasks))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Assignee user id")
	return cmd
}

// taskShowCmd implements 'weekly task show'.
func taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := a.engine.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTask(t))
				return nil
			})
		},
	}
}

// taskMoveCmd implements 'weekly task move'.
func taskMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <id> <status>",
		Short: "Move a task to another status column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := models.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := a.engine.MoveStatus(ctx, args[0], status)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTask(t))
				return nil
			})
		},
	}
}

// taskCopyCmd implements 'weekly task copy'. Settings flags override the
// configured copy defaults.
func taskCopyCmd() *cobra.Command {
	var reason, copiedBy string
	var comments, progress, actual, reset bool
	cmd := &cobra.Command{
		Use:   "copy <id> <week>",
		Short: "Copy a task into another week",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if copiedBy == "" {
				return wkerrors.InvalidArgumentError{Field: "by", Reason: "required"}
			}
			target, err := weekFlag(args[1])
			if err != nil {
				return err
			}

			settings := cfg.Copy
			changed := cmd.Flags().Changed
			if changed("comments") {
				settings.IncludeComments = comments
			}
			if changed("progress") {
				settings.IncludeProgress = progress
			}
			if changed("actual-hours") {
				settings.IncludeActualHours = actual
			}
			if changed("reset-status") {
				settings.ResetStatus = reset
			}

			return withApp(cmd, func(ctx context.Context, a *app) error {
				cp, err := a.engine.CopyTask(ctx, args[0], target, settings, reason, copiedBy)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTask(cp))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Why the task is copied")
	cmd.Flags().StringVar(&copiedBy, "by", "", "User id doing the copy")
	cmd.Flags().BoolVar(&comments, "comments", false, "Carry comments over")
	cmd.Flags().BoolVar(&progress, "progress", false, "Carry progress over (no effect, progress follows --reset-status)")
	cmd.Flags().BoolVar(&actual, "actual-hours", false, "Carry actual hours over")
	cmd.Flags().BoolVar(&reset, "reset-status", false, "Reset the copy to todo with no progress")
	return cmd
}

// taskRmCmd implements 'weekly task rm'.
func taskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if err := a.engine.DeleteTask(ctx, args[0]); err != nil {
					return err
				}
				printOutput(formatter.FormatMessage(fmt.Sprintf("Deleted task %s", args[0])))
				return nil
			})
		},
	}
}

// taskCommentCmd implements 'weekly task comment'.
func taskCommentCmd() *cobra.Command {
	var userID string
	cmd := &cobra.Command{
		Use:   "comment <id> <text>...",
		Short: "Comment on a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return errUserRequired
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				if _, err := a.engine.AddComment(ctx, args[0], userID, strings.Join(args[1:], " ")); err != nil {
					return err
				}
				t, err := a.engine.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				printOutput(formatter.FormatTask(t))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "Comment author user id")
	return cmd
}

// taskHistoryCmd implements 'weekly task history'.
func taskHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show the copy history of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := a.engine.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				printOutput(formatter.FormatHistory(t))
				return nil
			})
		},
	}
}

// taskLineageCmd implements 'weekly task lineage'. A deleted root still
// lists its copies.
func taskLineageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lineage <id>",
		Short: "Show the root of a task and every copy made from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				t, err := a.engine.GetTask(ctx, args[0])
				if err != nil {
					return err
				}
				rootID := t.LineageRoot()

				root := t
				if rootID != t.ID {
					root, err = a.engine.GetTask(ctx, rootID)
					if err != nil && !wkerrors.IsNotFound(err) {
						return err
					}
				}
				copies, err := a.engine.Lineage(ctx, rootID)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatLineage(root, copies))
				return nil
			})
		},
	}
}
