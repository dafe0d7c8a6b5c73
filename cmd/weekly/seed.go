package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/weekly/internal/models"
)

//nolint:gochecknoglobals // fixed demo data
var (
	seedUsers = []models.User{
		{ID: "1", Name: "Jacob Janson", LongName: "Jacob Alexander Janson", Email: "jacob.janson@taskie.com", Role: "Project Manager", Department: "Management"},
		{ID: "2", Name: "Sarah Wilson", LongName: "Sarah Michelle Wilson", Email: "sarah.wilson@taskie.com", Role: "UI/UX Designer", Department: "Design"},
		{ID: "3", Name: "Mike Johnson", LongName: "Michael Robert Johnson", Email: "mike.johnson@taskie.com", Role: "Full Stack Developer", Department: "Development"},
		{ID: "4", Name: "Emma Davis", LongName: "Emma Catherine Davis", Email: "emma.davis@taskie.com", Role: "Marketing Specialist", Department: "Marketing"},
	}

	seedProjects = []models.Project{
		{ID: "1", Name: "Product Design", Category: "UI/UX Design", Color: "blue"},
		{ID: "2", Name: "Visual Identity", Category: "Branding", Color: "purple"},
		{ID: "3", Name: "Web Development", Category: "Development", Color: "green"},
		{ID: "4", Name: "Mobile App Design", Category: "UI/UX Design", Color: "orange"},
	}

	seedTasks = []models.Task{
		{Title: "Review Project Proposals", Description: "Analyze and approve new project proposals from clients", Status: models.StatusInProgress, Priority: models.PriorityHigh, AssigneeID: "1", ProjectID: "1", DueDate: "2024-01-15", EstimatedHours: 4, ActualHours: 2, Progress: 50, Tags: []string{"management", "review"}},
		{Title: "Team Performance Meeting", Description: "Conduct weekly team performance review meeting", Status: models.StatusTodo, Priority: models.PriorityMedium, AssigneeID: "1", DueDate: "2024-01-16", EstimatedHours: 2, Tags: []string{"meeting", "team"}},
		{Title: "Budget Planning Q1", Description: "Plan budget allocation for Q1 projects", Status: models.StatusCompleted, Priority: models.PriorityHigh, AssigneeID: "1", DueDate: "2024-01-14", EstimatedHours: 6, ActualHours: 5, Progress: 100, Tags: []string{"planning", "budget"}},

		{Title: "Mobile App Wireframes", Description: "Create wireframes for the new mobile application", Status: models.StatusInProgress, Priority: models.PriorityHigh, AssigneeID: "2", ProjectID: "4", DueDate: "2024-01-17", EstimatedHours: 8, ActualHours: 4, Progress: 50, Tags: []string{"design", "wireframes"}},
		{Title: "User Research Analysis", Description: "Analyze user feedback from recent surveys", Status: models.StatusTodo, Priority: models.PriorityMedium, AssigneeID: "2", ProjectID: "1", DueDate: "2024-01-18", EstimatedHours: 4, Tags: []string{"research", "analysis"}},
		{Title: "Design System Updates", Description: "Update design system components and documentation", Status: models.StatusCompleted, Priority: models.PriorityLow, AssigneeID: "2", ProjectID: "2", DueDate: "2024-01-15", EstimatedHours: 3, ActualHours: 3, Progress: 100, Tags: []string{"design-system", "documentation"}},

		{Title: "API Integration", Description: "Integrate third-party payment API", Status: models.StatusInProgress, Priority: models.PriorityHigh, AssigneeID: "3", ProjectID: "3", DueDate: "2024-01-16", EstimatedHours: 12, ActualHours: 8, Progress: 65, Tags: []string{"development", "api"}},
		{Title: "Database Optimization", Description: "Optimize database queries for better performance", Status: models.StatusTodo, Priority: models.PriorityMedium, AssigneeID: "3", ProjectID: "3", DueDate: "2024-01-19", EstimatedHours: 6, Tags: []string{"database", "optimization"}},
		{Title: "Unit Tests Implementation", Description: "Write unit tests for new features", Status: models.StatusCompleted, Priority: models.PriorityMedium, AssigneeID: "3", ProjectID: "3", DueDate: "2024-01-14", EstimatedHours: 4, ActualHours: 5, Progress: 100, Tags: []string{"testing", "quality"}},

		{Title: "Social Media Campaign", Description: "Launch new product social media campaign", Status: models.StatusInProgress, Priority: models.PriorityHigh, AssigneeID: "4", ProjectID: "2", DueDate: "2024-01-17", EstimatedHours: 6, ActualHours: 3, Progress: 50, Tags: []string{"marketing", "social-media"}},
		{Title: "Content Calendar Planning", Description: "Plan content calendar for next month", Status: models.StatusTodo, Priority: models.PriorityMedium, AssigneeID: "4", DueDate: "2024-01-18", EstimatedHours: 3, Tags: []string{"content", "planning"}},
		{Title: "Market Research Report", Description: "Complete market research analysis report", Status: models.StatusCompleted, Priority: models.PriorityHigh, AssigneeID: "4", DueDate: "2024-01-15", EstimatedHours: 8, ActualHours: 7, Progress: 100, Tags: []string{"research", "report"}},
	}
)

// seedCmd implements 'weekly seed'. Users and projects are upserted; demo
// tasks go into the current week for users that have none there yet.
func seedCmd() *cobra.Command {
	var weekKey string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo team, projects and tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key, err := weekFlag(weekKey)
			if err != nil {
				return err
			}
			return withApp(cmd, func(ctx context.Context, a *app) error {
				created, err := seed(ctx, a, key)
				if err != nil {
					return err
				}
				printOutput(formatter.FormatMessage(fmt.Sprintf(
					"Seeded %d users, %d projects and %d tasks for week %s",
					len(seedUsers), len(seedProjects), created, key)))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&weekKey, "week", "w", "", "Week to fill (default current)")
	return cmd
}

func seed(ctx context.Context, a *app, weekKey string) (int, error) {
	for _, u := range seedUsers {
		if err := a.backend.PutUser(ctx, u); err != nil {
			return 0, fmt.Errorf("seed user %s: %w", u.ID, err)
		}
	}
	for _, p := range seedProjects {
		if err := a.backend.PutProject(ctx, p); err != nil {
			return 0, fmt.Errorf("seed project %s: %w", p.ID, err)
		}
	}

	skip := make(map[string]bool, len(seedUsers))
	for _, u := range seedUsers {
		existing, err := a.engine.TasksByWeek(ctx, u.ID, weekKey)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			a.log.WithField("user_id", u.ID).Info("user already has tasks this week, skipping")
			skip[u.ID] = true
		}
	}

	created := 0
	for i := range seedTasks {
		t := seedTasks[i]
		if skip[t.AssigneeID] {
			continue
		}
		t.WeekOf = weekKey
		if _, err := a.engine.CreateTask(ctx, &t); err != nil {
			return created, fmt.Errorf("seed task %q: %w", t.Title, err)
		}
		created++
	}
	return created, nil
}
