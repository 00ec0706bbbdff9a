package deckcmder

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/papercomputeco/kiosk/pkg/cliui"
	"github.com/papercomputeco/kiosk/pkg/deck"
	"github.com/papercomputeco/kiosk/pkg/utils"
)

const (
	summaryWidth = 72
	barWidth     = 24
	labelWidth   = 22
)

var (
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	sparkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	sparkLevels = []rune("▁▂▃▄▅▆▇█")
)

// renderSummary prints the dashboard the way the web deck lays it out: main
// stats, activity, services, keywords and failures.
func renderSummary(w io.Writer, d *deck.Dashboard, filters deck.Filters) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderHeaderLine(summaryWidth,
		cliui.TitleStyle.Render("kiosk deck")+" "+cliui.DimStyle.Render(rangeTitle(filters)),
		cliui.DimStyle.Render(periodLabel(d.Period)),
	))
	fmt.Fprintln(w, renderRule(summaryWidth))

	stats := d.MainStats
	fmt.Fprintln(w, statRow("Total sessions", cliui.FormatNumber(stats.TotalSessions), stats.SessionsChange, false))
	fmt.Fprintln(w, statRow("Unique users", cliui.FormatNumber(stats.UniqueUsers), stats.UsersChange, false))
	fmt.Fprintln(w, statRow("Unresolved queries", cliui.FormatNumber(stats.UnresolvedQueries), stats.UnresolvedChange, true))
	fmt.Fprintln(w, statRow("Avg response time", cliui.FormatDecimal(stats.AvgResponseTime)+" ms", stats.ResponseTimeChange, true))

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderSectionDivider(summaryWidth, "activity"))
	fmt.Fprintln(w, "  "+sparkStyle.Render(sparkline(d.Series)))
	if len(d.Series) > 0 {
		fmt.Fprintln(w, renderHeaderLine(summaryWidth,
			"  "+cliui.DimStyle.Render(d.Series[0].Label),
			cliui.DimStyle.Render(d.Series[len(d.Series)-1].Label),
		))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderSectionDivider(summaryWidth, "services"))
	if len(d.Services) == 0 {
		fmt.Fprintln(w, "  "+cliui.DimStyle.Render("no chat logs in this period"))
	}
	peak := 0
	for _, s := range d.Services {
		peak = max(peak, s.Value)
	}
	for _, s := range d.Services {
		fmt.Fprintf(w, "  %s %s %s %s\n",
			fitCell(utils.Truncate(s.Name, labelWidth), labelWidth),
			cliui.Bar(s.Value, peak, barWidth, s.Color),
			cliui.ValueStyle.Render(fmt.Sprintf("%6s", cliui.FormatNumber(s.Value))),
			cliui.DimStyle.Render(cliui.FormatDecimal(s.Share)+"%"),
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderSectionDivider(summaryWidth, "keywords"))
	if len(d.Keywords) == 0 {
		fmt.Fprintln(w, "  "+cliui.DimStyle.Render("no keywords"))
	}
	for _, k := range d.Keywords {
		fmt.Fprintf(w, "  %s %s %s\n",
			fitCell(k.Keyword, labelWidth),
			cliui.ValueStyle.Render(fmt.Sprintf("%6s", cliui.FormatNumber(k.Count))),
			deltaStyle(k.Count-k.PrevCount, false).Render(k.Delta()),
		)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderSectionDivider(summaryWidth, "recent failures"))
	if len(d.Failures) == 0 {
		fmt.Fprintln(w, "  "+cliui.DimStyle.Render("no failed queries"))
	}
	for _, f := range d.Failures {
		fmt.Fprintf(w, "  %s %s %s\n",
			cliui.FailMark,
			cliui.DimStyle.Render(deck.FormatTimestamp(f.Timestamp)),
			utils.Truncate(f.Query, summaryWidth-30),
		)
	}
	fmt.Fprintln(w)
}

func rangeTitle(filters deck.Filters) string {
	switch filters.Range {
	case deck.Range30Days:
		return "last 30 days"
	case deck.RangeMonthDate:
		return "month to date"
	case deck.RangeYearly:
		return "last 12 months"
	case deck.RangeCustom:
		return "custom range"
	default:
		return "last 7 days"
	}
}

func periodLabel(p deck.Period) string {
	if p.Start.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d to %s %d",
		deck.FormatDayLabel(p.Start), p.Start.Year(),
		deck.FormatDayLabel(p.End), p.End.Year(),
	)
}

// statRow renders one main statistic. For lowerIsBetter metrics a decrease
// is colored as an improvement.
func statRow(label, value string, change deck.Change, lowerIsBetter bool) string {
	sign := 0
	switch change.Direction {
	case deck.DirectionIncrease:
		sign = 1
	case deck.DirectionDecrease:
		sign = -1
	}

	arrow := " "
	switch sign {
	case 1:
		arrow = "▲"
	case -1:
		arrow = "▼"
	}

	return fmt.Sprintf("  %s %s %s",
		cliui.KeyStyle.Render(fitCell(label, labelWidth)),
		cliui.ValueStyle.Render(fmt.Sprintf("%12s", value)),
		deltaStyle(sign, lowerIsBetter).Render(arrow+" "+change.Short()),
	)
}

func deltaStyle(delta int, lowerIsBetter bool) lipgloss.Style {
	if lowerIsBetter {
		delta = -delta
	}
	switch {
	case delta > 0:
		return cliui.UpStyle
	case delta < 0:
		return cliui.DownStyle
	default:
		return cliui.DimStyle
	}
}

func sparkline(points []deck.ChartPoint) string {
	peak := 0
	for _, p := range points {
		peak = max(peak, p.Value)
	}

	var b strings.Builder
	for _, p := range points {
		if peak == 0 {
			b.WriteRune(sparkLevels[0])
			continue
		}
		level := p.Value * (len(sparkLevels) - 1) / peak
		b.WriteRune(sparkLevels[level])
	}
	return b.String()
}

func renderHeaderLine(width int, left, right string) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	if leftWidth+rightWidth+1 >= width {
		return strings.TrimSpace(left + " " + right)
	}
	return left + strings.Repeat(" ", width-leftWidth-rightWidth) + right
}

func renderRule(width int) string {
	return dividerStyle.Render(strings.Repeat("─", width))
}

func renderSectionDivider(width int, title string) string {
	label := fmt.Sprintf("─── %s ", title)
	remaining := width - lipgloss.Width(label) - 2
	if remaining < 0 {
		return "  " + sectionStyle.Render(label)
	}
	return "  " + sectionStyle.Render(label) + dividerStyle.Render(strings.Repeat("─", remaining))
}

func fitCell(value string, width int) string {
	if lipgloss.Width(value) >= width {
		return value
	}
	return value + strings.Repeat(" ", width-lipgloss.Width(value))
}
