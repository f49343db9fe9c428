package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/drunkard"
	"github.com/aretw0/drunkard/internal/presentation/chart"
	"github.com/aretw0/drunkard/internal/presentation/tui"
	"github.com/aretw0/drunkard/pkg/domain"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Report collects everything one experiment produced. Empty sections are skipped.
type Report struct {
	Seed    uint64                   `json:"seed,omitempty" yaml:"seed,omitempty"`
	Sweeps  []drunkard.PolicySweep   `json:"sweeps,omitempty" yaml:"sweeps,omitempty"`
	Scatter []drunkard.LocationBatch `json:"scatter,omitempty" yaml:"scatter,omitempty"`
	Traces  []drunkard.WalkTrace     `json:"traces,omitempty" yaml:"traces,omitempty"`
}

// Format selects how a report is written.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatMarkdown, FormatText, FormatJSON, FormatYAML:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unknown output format %q (want markdown, text, json or yaml)", s)
}

// PlotSize is the character grid used for scatter and trace plots.
type PlotSize struct {
	Width  int
	Height int
}

// DefaultPlotSize fits an 80-column terminal.
var DefaultPlotSize = PlotSize{Width: 72, Height: 24}

// Encode writes r as JSON or YAML.
func Encode(w io.Writer, r Report, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("format %q is not a data encoding", f)
}

// Markdown renders r as a markdown document with tables, a Mermaid chart of
// the sweep and character plots of the scatter and traces.
func Markdown(r Report, size PlotSize) string {
	var sb strings.Builder
	sb.WriteString("# Random walk experiment\n\n")
	if r.Seed != 0 {
		sb.WriteString(fmt.Sprintf("Seed: `%d`\n\n", r.Seed))
	}

	if len(r.Sweeps) > 0 {
		sb.WriteString(fmt.Sprintf("## Mean distance from origin (%d trials)\n\n", r.Sweeps[0].Trials))
		for _, sweep := range r.Sweeps {
			sb.WriteString(fmt.Sprintf("### %s (mean CV = %s)\n\n", sweep.Policy, num(sweep.MeanCV)))
			sb.WriteString("| Steps | Mean | Std dev | CV | Min | Max |\n")
			sb.WriteString("|---:|---:|---:|---:|---:|---:|\n")
			for _, pt := range sweep.Points {
				s := pt.Summary
				sb.WriteString(fmt.Sprintf("| %d | %s | %s | %s | %s | %s |\n",
					pt.Steps, num(s.Mean), num(s.StdDev), num(s.CV), num(s.Min), num(s.Max)))
			}
			sb.WriteString("\n")
		}
		sb.WriteString("```mermaid\n")
		sb.WriteString(chart.GenerateMermaid(r.Sweeps))
		sb.WriteString("```\n\n")
	}

	if len(r.Scatter) > 0 {
		sb.WriteString(fmt.Sprintf("## Location at end of walks (%d steps)\n\n", r.Scatter[0].Steps))
		sb.WriteString("| Policy | Walks | Mean location | X range | Y range |\n")
		sb.WriteString("|---|---:|---|---|---|\n")
		styles := tui.NewStyleCycler(tui.ScatterStyles)
		series := make([]chart.Series, 0, len(r.Scatter))
		for _, b := range r.Scatter {
			lo, hi := bounds(b.Locations)
			sb.WriteString(fmt.Sprintf("| %s | %d | %s | [%s, %s] | [%s, %s] |\n",
				b.Policy, len(b.Locations), b.Mean, num(lo.X), num(hi.X), num(lo.Y), num(hi.Y)))
			series = append(series, chart.Series{Label: b.Policy.String(), Marker: styles.Next().Marker, Points: b.Locations})
		}
		sb.WriteString("\n```text\n")
		sb.WriteString(chart.Plot(series, size.Width, size.Height))
		sb.WriteString("```\n\n")
	}

	if len(r.Traces) > 0 {
		sb.WriteString(fmt.Sprintf("## Spots visited on walk (%d steps)\n\n", len(r.Traces[0].Locations)))
		sb.WriteString("| Walker | Policy | Final location | Distinct spots | Teleports |\n")
		sb.WriteString("|---|---|---|---:|---:|\n")
		styles := tui.NewStyleCycler(tui.TraceStyles)
		series := make([]chart.Series, 0, len(r.Traces))
		for _, tr := range r.Traces {
			final := domain.Origin
			if n := len(tr.Locations); n > 0 {
				final = tr.Locations[n-1]
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %d |\n",
				tr.Walker, tr.Policy, final, distinct(tr.Locations), tr.Teleports))
			series = append(series, chart.Series{Label: tr.Walker, Marker: styles.Next().Marker, Points: tr.Locations})
		}
		sb.WriteString("\n```text\n")
		sb.WriteString(chart.Plot(series, size.Width, size.Height))
		sb.WriteString("```\n")
	}

	return sb.String()
}

// WriteText prints the sweep the way a console run reports it: one block per
// batch with mean, CV and extrema, the policy name colored per profile.
func WriteText(w io.Writer, r Report, profile termenv.Profile) {
	styles := tui.NewStyleCycler(tui.SweepStyles)
	for _, sweep := range r.Sweeps {
		name := tui.Paint(profile, styles.Next(), sweep.Policy.String())
		for _, pt := range sweep.Points {
			s := pt.Summary
			fmt.Fprintf(w, "%s random walk of %d steps.\n", name, pt.Steps)
			fmt.Fprintf(w, " Mean = %s\n", num(s.Mean))
			fmt.Fprintf(w, " CV = %s\n", num(s.CV))
			fmt.Fprintf(w, " Max = %s Min = %s\n", num(s.Max), num(s.Min))
		}
		fmt.Fprintln(w)
	}

	styles = tui.NewStyleCycler(tui.ScatterStyles)
	for _, b := range r.Scatter {
		name := tui.Paint(profile, styles.Next(), b.Policy.String())
		fmt.Fprintf(w, "%s mean location after %d steps over %d walks = %s\n", name, b.Steps, len(b.Locations), b.Mean)
	}

	styles = tui.NewStyleCycler(tui.TraceStyles)
	for _, tr := range r.Traces {
		name := tui.Paint(profile, styles.Next(), tr.Walker)
		fmt.Fprintf(w, "%s visited %d distinct spots in %d steps (%d teleports)\n",
			name, distinct(tr.Locations), len(tr.Locations), tr.Teleports)
	}
}

func num(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func bounds(locs []domain.Location) (lo, hi domain.Location) {
	if len(locs) == 0 {
		return domain.Origin, domain.Origin
	}
	lo, hi = locs[0], locs[0]
	for _, l := range locs[1:] {
		lo = domain.NewLocation(math.Min(lo.X, l.X), math.Min(lo.Y, l.Y))
		hi = domain.NewLocation(math.Max(hi.X, l.X), math.Max(hi.Y, l.Y))
	}
	return lo, hi
}

func distinct(locs []domain.Location) int {
	seen := make(map[domain.Location]struct{}, len(locs))
	for _, l := range locs {
		seen[l] = struct{}{}
	}
	return len(seen)
}
