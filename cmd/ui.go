package cmd

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/df07/go-bidi-raytracer/pkg/renderer"
	"github.com/df07/go-bidi-raytracer/pkg/scene"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// numbers formats counts with thousands separators
var numbers = message.NewPrinter(language.English)

func title(s string) string {
	return titleStyle.Render(s)
}

// progressPrinter writes one static progress bar line per merged task.
// Tasks are merged from worker goroutines.
type progressPrinter struct {
	mu  sync.Mutex
	out io.Writer
	job *renderer.Job
	bar progress.Model
}

func newProgressPrinter(out io.Writer, job *renderer.Job) *progressPrinter {
	return &progressPrinter{
		out: out,
		job: job,
		bar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
	}
}

func (p *progressPrinter) taskMerged(task renderer.Task, stats renderer.TaskStats) {
	done, total := p.job.Progress()

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s %3d/%d  %s\n",
		p.bar.ViewAs(float64(done)/float64(total)), done, total,
		footerStyle.Render(fmt.Sprintf("task %d: %d passes in %s", task.ID, task.Passes, stats.Elapsed.Round(time.Millisecond))))
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetAutoWrapText(false)
	return table
}

// writeStats prints the job totals
func writeStats(out io.Writer, stats renderer.TaskStats, wall time.Duration) {
	table := newTable(out, "Statistic", "Value")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})
	table.AppendBulk([][]string{
		{"Pixels", numbers.Sprintf("%d", stats.Pixels)},
		{"Eye paths", numbers.Sprintf("%d", stats.EyePaths)},
		{"Light paths", numbers.Sprintf("%d", stats.LightPaths)},
		{"Vertices per path", numbers.Sprintf("%.2f", stats.AverageVertices())},
		{"Connections", numbers.Sprintf("%d", stats.Connections)},
		{"Contributions", numbers.Sprintf("%d (%.1f%%)", stats.Contributions, 100*stats.ContributionRate())},
		{"Splats", numbers.Sprintf("%d", stats.Splats)},
		{"Anomalies", numbers.Sprintf("%d", stats.Anomalies)},
		{"Trace time", stats.Elapsed.Round(time.Millisecond).String()},
		{"Wall time", wall.Round(time.Millisecond).String()},
	})
	table.Render()
}

// writeScenes prints the built-in scene list
func writeScenes(out io.Writer, scenes []scene.SceneInfo) {
	table := newTable(out, "ID", "Name", "Description")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	for _, s := range scenes {
		table.Append([]string{s.ID, s.DisplayName, s.Description})
	}
	table.Render()
}
