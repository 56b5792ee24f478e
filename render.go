package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Jupiter-12/kanban/domain"
)

const columnWidth = 28

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			Width(columnWidth)
	cardStyle  = lipgloss.NewStyle().Width(columnWidth - 2)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	priorityColors = map[domain.Priority]lipgloss.Color{
		domain.PriorityHigh:   lipgloss.Color("9"),
		domain.PriorityMedium: lipgloss.Color("11"),
		domain.PriorityLow:    lipgloss.Color("10"),
	}
)

// renderBoard draws the columns side by side, cards in list order.
func renderBoard(p *domain.ProjectDetail) string {
	if p == nil {
		return "No project loaded"
	}
	if len(p.Columns) == 0 {
		return titleStyle.Render(p.Name) + "\n" + mutedStyle.Render("No columns")
	}
	cols := make([]string, 0, len(p.Columns))
	for _, col := range p.Columns {
		lines := []string{headerStyle.Render(fmt.Sprintf("%s #%d (%d)", col.Name, col.ID, len(col.Tasks)))}
		for _, task := range col.Tasks {
			lines = append(lines, renderCard(task))
		}
		cols = append(cols, columnStyle.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(p.Name),
		lipgloss.JoinHorizontal(lipgloss.Top, cols...),
	)
}

func renderCard(task domain.Task) string {
	marker := lipgloss.NewStyle().Foreground(priorityColors[task.Priority]).Render("●")
	line := fmt.Sprintf("%s #%d %s", marker, task.ID, task.Title)
	if task.Assignee != nil {
		line += mutedStyle.Render(" @" + task.Assignee.Username)
	}
	if task.DueDate != nil {
		line += mutedStyle.Render(" due " + task.DueDate.Local().Format("Jan 2"))
	}
	return cardStyle.Render(line)
}

func renderProjects(projects []domain.Project) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		desc := ""
		if p.Description != nil {
			desc = *p.Description
		}
		rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name, desc, p.UpdatedAt.Local().Format("2006-01-02")})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "NAME", "DESCRIPTION", "UPDATED").
		Rows(rows...).
		String()
}

func renderUsers(users []domain.UserListItem) string {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{strconv.FormatInt(u.ID, 10), u.Username, displayName(u.Username, u.DisplayName), u.Role})
	}
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "USERNAME", "NAME", "ROLE").
		Rows(rows...).
		String()
}

func renderComments(comments []domain.Comment) string {
	blocks := make([]string, 0, len(comments))
	for _, cm := range comments {
		header := headerStyle.Render(displayName(cm.User.Username, cm.User.DisplayName)) +
			mutedStyle.Render(fmt.Sprintf(" #%d %s", cm.ID, cm.CreatedAt.Local().Format("2006-01-02 15:04")))
		blocks = append(blocks, header+"\n"+cm.Content)
	}
	return strings.Join(blocks, "\n\n")
}
