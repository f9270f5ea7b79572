package handlers

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/swarmup/internal/orchestration"
	"github.com/imamik/swarmup/internal/util/prerequisites"
)

// Colors matching the palette of the other swarmup output.
var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	changeStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	failStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	plainStyle = lipgloss.NewStyle()
)

// cell is a table cell rendered with style when output is styled.
type cell struct {
	text  string
	style lipgloss.Style
}

func plain(text string) cell {
	return cell{text: text, style: plainStyle}
}

// painter applies styles only when writing to a terminal.
type painter struct {
	styled bool
}

func (p painter) paint(style lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return style.Render(text)
}

// writeTable writes rows as aligned columns. Widths are display widths of
// the unstyled text so ANSI sequences do not break alignment.
func (p painter) writeTable(b *strings.Builder, header []string, rows [][]cell) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, c := range row {
			widths[i] = max(widths[i], lipgloss.Width(c.text))
		}
	}

	b.WriteString("  ")
	for i, h := range header {
		b.WriteString(p.paint(headerStyle, pad(h, widths[i], i == len(header)-1)))
	}
	b.WriteString("\n")

	for _, row := range rows {
		b.WriteString("  ")
		for i, c := range row {
			b.WriteString(p.paint(c.style, pad(c.text, widths[i], i == len(row)-1)))
		}
		b.WriteString("\n")
	}
}

func pad(text string, width int, last bool) string {
	if last {
		return text
	}
	return text + strings.Repeat(" ", width-lipgloss.Width(text)+2)
}

func (p painter) title(b *strings.Builder, text string) {
	b.WriteString("\n")
	b.WriteString(p.paint(titleStyle, "  "+text))
	b.WriteString("\n")
	b.WriteString(p.paint(dimStyle, "  "+strings.Repeat("═", lipgloss.Width(text))))
	b.WriteString("\n")
}

// renderSummary produces the table printed after apply.
func renderSummary(result *orchestration.Result, styled bool) string {
	p := painter{styled: styled}
	var b strings.Builder

	p.title(&b, "swarmup apply")

	rows := make([][]cell, 0, len(result.Nodes))
	for _, n := range result.Nodes {
		rows = append(rows, []cell{
			plain(n.Node.PublicIP),
			plain(roleText(string(n.Node.Role), n.Primary)),
			plain(string(n.StatusBefore)),
			actionCell(n.Action),
			plain(n.NodeID),
			plain(labelText(n.Node.Labels)),
		})
	}
	p.writeTable(&b, []string{"NODE", "ROLE", "BEFORE", "ACTION", "NODE ID", "LABELS"}, rows)

	b.WriteString("\n")
	if result.Changed() {
		b.WriteString(p.paint(okStyle, "  Swarm formed."))
	} else {
		b.WriteString(p.paint(dimStyle, "  Nothing to change, labels re-applied."))
	}
	b.WriteString("\n")
	return b.String()
}

// renderPlan produces the table printed by status.
func renderPlan(plan []orchestration.PlannedNode, styled bool) string {
	p := painter{styled: styled}
	var b strings.Builder

	p.title(&b, "swarmup status")

	rows := make([][]cell, 0, len(plan))
	for _, n := range plan {
		next := actionCell(n.Action)
		if n.Problem != "" {
			next = cell{text: "unsafe: " + n.Problem, style: failStyle}
		}
		id := n.Info.NodeID
		if id == "" {
			id = "-"
		}
		rows = append(rows, []cell{
			plain(n.Node.PublicIP),
			plain(roleText(string(n.Node.Role), n.Primary)),
			statusCell(string(n.Info.Status)),
			plain(id),
			next,
		})
	}
	p.writeTable(&b, []string{"NODE", "ROLE", "STATUS", "NODE ID", "APPLY WOULD"}, rows)
	return b.String()
}

// doctorReport is everything doctor found.
type doctorReport struct {
	Tools       []prerequisites.CheckResult
	ClusterFile string
	Nodes       int
	Managers    int
	Workers     int
	Primary     string
	ClusterErr  error
}

// renderDoctor produces the doctor checklist.
func renderDoctor(r doctorReport, styled bool) string {
	p := painter{styled: styled}
	var b strings.Builder

	p.title(&b, "swarmup doctor")

	b.WriteString("\n")
	b.WriteString(p.paint(headerStyle, "  Local tools"))
	b.WriteString("\n")
	if len(r.Tools) == 0 {
		b.WriteString(p.paint(dimStyle, "    none needed for this transport"))
		b.WriteString("\n")
	}
	for _, t := range r.Tools {
		switch {
		case t.Found:
			detail := t.Path
			if t.Version != "" {
				detail += "  " + t.Version
			}
			fmt.Fprintf(&b, "    %s %s  %s\n", p.paint(okStyle, "✓"), t.Tool.Name, p.paint(dimStyle, detail))
		case t.Tool.Required:
			fmt.Fprintf(&b, "    %s %s  %s\n", p.paint(failStyle, "✗"), t.Tool.Name,
				p.paint(dimStyle, "missing, see "+t.Tool.InstallURL))
		default:
			fmt.Fprintf(&b, "    %s %s  %s\n", p.paint(changeStyle, "-"), t.Tool.Name,
				p.paint(dimStyle, "not installed (optional)"))
		}
	}

	b.WriteString("\n")
	b.WriteString(p.paint(headerStyle, "  Cluster file "+r.ClusterFile))
	b.WriteString("\n")
	if r.Nodes > 0 {
		fmt.Fprintf(&b, "    %s %d nodes: %d managers, %d workers\n", p.paint(okStyle, "✓"), r.Nodes, r.Managers, r.Workers)
	}
	if r.ClusterErr != nil {
		fmt.Fprintf(&b, "    %s %s\n", p.paint(failStyle, "✗"), r.ClusterErr)
		return b.String()
	}
	fmt.Fprintf(&b, "    %s primary %s\n", p.paint(okStyle, "✓"), r.Primary)
	return b.String()
}

func roleText(role string, primary bool) string {
	if primary {
		return role + " (primary)"
	}
	return role
}

func labelText(labels []string) string {
	if len(labels) == 0 {
		return "-"
	}
	return strings.Join(labels, ",")
}

func actionCell(a orchestration.Action) cell {
	switch a {
	case orchestration.ActionInit:
		return cell{text: "init", style: changeStyle}
	case orchestration.ActionJoinManager:
		return cell{text: "join as manager", style: changeStyle}
	case orchestration.ActionJoinWorker:
		return cell{text: "join as worker", style: changeStyle}
	default:
		return cell{text: "none", style: okStyle}
	}
}

func statusCell(status string) cell {
	switch status {
	case "active":
		return cell{text: status, style: okStyle}
	case "pending", "inactive":
		return cell{text: status, style: changeStyle}
	default:
		return cell{text: status, style: failStyle}
	}
}
