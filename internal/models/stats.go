package models

// WeekStats summarizes a set of tasks, usually one user's week.
type WeekStats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"inProgress"`
	Pending        int     `json:"pending"`
	Blocked        int     `json:"blocked"`
	EstimatedHours float64 `json:"estimatedHours"`
	ActualHours    float64 `json:"actualHours"`
}

// CompletionPercent is the share of completed tasks, 0 when there are none.
func (s WeekStats) CompletionPercent() int {
	if s.Total == 0 {
		return 0
	}
	return s.Completed * 100 / s.Total
}

// Summarize counts tasks per status and totals their hours.
func Summarize(tasks []Task) WeekStats {
	var s WeekStats
	for _, t := range tasks {
		s.Total++
		switch t.Status {
		case StatusCompleted:
			s.Completed++
		case StatusInProgress:
			s.InProgress++
		case StatusTodo:
			s.Pending++
		case StatusBlocked:
			s.Blocked++
		}
		s.EstimatedHours += t.EstimatedHours
		s.ActualHours += t.ActualHours
	}
	return s
}

// Column is one status lane of the board
type Column struct {
	Status Status `json:"status"`
	Title  string `json:"title"`
	Tasks  []Task `json:"tasks"`
}

// StatusTitle is the column heading for a status.
func StatusTitle(s Status) string {
	switch s {
	case StatusTodo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusBlocked:
		return "Blocked"
	default:
		return string(s)
	}
}

// Columns buckets tasks into the four status lanes, keeping their order.
func Columns(tasks []Task) []Column {
	cols := make([]Column, len(Statuses))
	index := make(map[Status]int, len(Statuses))
	for i, s := range Statuses {
		cols[i] = Column{Status: s, Title: StatusTitle(s), Tasks: []Task{}}
		index[s] = i
	}
	for _, t := range tasks {
		if i, ok := index[t.Status]; ok {
			cols[i].Tasks = append(cols[i].Tasks, t)
		}
	}
	return cols
}
