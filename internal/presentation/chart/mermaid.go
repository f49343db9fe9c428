package chart

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/drunkard"
)

// GenerateMermaid produces a Mermaid xychart with one line per policy,
// plotting mean distance against step count. Step counts become categorical
// x-axis labels, so a decade sweep reads as a log-scaled axis.
// All sweeps are expected to share the step counts of the first one.
func GenerateMermaid(sweeps []drunkard.PolicySweep) string {
	if len(sweeps) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("xychart-beta\n")
	sb.WriteString(fmt.Sprintf("    title \"Mean Distance from Origin (%d trials)\"\n", sweeps[0].Trials))

	labels := make([]string, 0, len(sweeps[0].Points))
	for _, steps := range sweeps[0].StepCounts() {
		labels = append(labels, strconv.Itoa(steps))
	}
	sb.WriteString(fmt.Sprintf("    x-axis \"Number of Steps\" [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString("    y-axis \"Distance from Origin\"\n")

	for _, sweep := range sweeps {
		// xychart has no legend; label each series with a comment.
		sb.WriteString(fmt.Sprintf("    %%%% %s\n", sweep.Policy))
		values := make([]string, 0, len(sweep.Points))
		for _, mean := range sweep.Means() {
			values = append(values, strconv.FormatFloat(mean, 'g', 6, 64))
		}
		sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(values, ", ")))
	}

	return sb.String()
}
