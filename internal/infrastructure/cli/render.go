package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dsamoylenko/snyksweep/internal/domain/inventory"
)

var (
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	markStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// consolePresenter renders workflow output to a terminal.
type consolePresenter struct {
	w io.Writer
}

func newConsolePresenter(w io.Writer) *consolePresenter {
	return &consolePresenter{w: w}
}

func (c *consolePresenter) Printf(format string, a ...any) {
	fmt.Fprintf(c.w, format, a...)
}

func (c *consolePresenter) OrgList(orgs []inventory.Org) {
	columns := []table.Column{
		{Title: "ID", Width: 38},
		{Title: "Slug", Width: 28},
		{Title: "Name", Width: 32},
	}

	rows := []table.Row{}
	for _, org := range orgs {
		rows = append(rows, table.Row{org.ID, org.Slug, org.Name})
	}

	fmt.Fprintln(c.w, staticTable(columns, rows))
}

// ProjectGroups renders one section per monitored date, newest first, each
// with a capped preview of project names. Groups on or before the cutoff are
// marked for deletion.
func (c *consolePresenter) ProjectGroups(buckets []inventory.Bucket, cutoff *time.Time) {
	fmt.Fprintf(c.w, "%s\n",
		headerStyle.Render(fmt.Sprintf("%-14s %-16s %s", "Monitored on", "Projects count", "Latest projects")))

	for _, bucket := range buckets {
		marked := cutoff != nil && bucket.Date != nil && !bucket.Date.After(*cutoff)

		date := "--"
		if bucket.Date != nil {
			date = bucket.Date.Format("2006-01-02")
		}

		preview, more := bucket.Preview()
		for i, p := range preview {
			line := fmt.Sprintf("%-14s %-16s %s", blankAfterFirst(date, i), blankAfterFirst(fmt.Sprintf("%d", bucket.Count()), i), p.Name)
			if marked {
				line = markStyle.Render(line + "  WILL BE DELETED")
			}
			fmt.Fprintln(c.w, line)
		}
		if more > 0 {
			line := fmt.Sprintf("%-14s %-16s %s", "", "", fmt.Sprintf("... (%d more) ...", more))
			if marked {
				line = markStyle.Render(line)
			} else {
				line = subtleStyle.Render(line)
			}
			fmt.Fprintln(c.w, line)
		}
	}
}

func blankAfterFirst(s string, i int) string {
	if i == 0 {
		return s
	}
	return ""
}

func (c *consolePresenter) DeletionWarning() {
	fmt.Fprintf(c.w, "\n%s\n",
		dangerStyle.Render("WARNING! ALL PROJECTS MARKED IN RED WILL BE DELETED! THIS ACTION CANNOT BE REVERTED!"))
}

func (c *consolePresenter) TicketWarning(ids []string) {
	fmt.Fprintf(c.w, "\n%s\n",
		warnStyle.Bold(true).Render(fmt.Sprintf("WARNING: there are %d Jira issues associated with the projects on the deletion list!", len(ids))))
	fmt.Fprintf(c.w, "%s\n",
		noteStyle.Render("These issues will remain in place and will require manual processing."))
	fmt.Fprintf(c.w, "JQL: id in (%s)\n", strings.Join(ids, ", "))
}

func (c *consolePresenter) TargetTable(targets []inventory.Target) {
	columns := []table.Column{
		{Title: "ID", Width: 38},
		{Title: "Name", Width: 40},
		{Title: "Created", Width: 12},
		{Title: "Private", Width: 7},
	}

	rows := []table.Row{}
	for _, t := range targets {
		rows = append(rows, table.Row{
			t.ID,
			t.DisplayName,
			t.CreatedAt.Format("2006-01-02"),
			fmt.Sprintf("%t", t.Private),
		})
	}

	fmt.Fprintln(c.w, staticTable(columns, rows))
}

func (c *consolePresenter) DeletionStart(name string, width int) {
	fmt.Fprintf(c.w, "Deleting %-*s ", width, name)
}

func (c *consolePresenter) CountdownTick(remaining int) {
	fmt.Fprintf(c.w, "%s ", warnStyle.Render(fmt.Sprintf("%d...", remaining)))
}

func (c *consolePresenter) DeletionDone() {
	fmt.Fprintln(c.w, "💀")
}

// staticTable renders a bubbles table once, without interactivity.
func staticTable(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Bold(true)
	s.Selected = lipgloss.NewStyle() // Disable selection style for static view
	t.SetStyles(s)
	return t.View()
}
