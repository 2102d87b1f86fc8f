package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/careeroai/careero/internal/artifact"
)

const noNegativePoints = "No negative points."

func renderEvaluation(w io.Writer, e *artifact.Evaluation) {
	fmt.Fprintf(w, "\n%s\n", e.Title)
	fmt.Fprintf(w, "Global score: %.1f/10\n\n", e.GlobalScore)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tSCORE")
	for _, m := range e.Metrics() {
		fmt.Fprintf(tw, "%s\t%.1f\n", m.Label, m.Value.Score)
	}
	tw.Flush()

	for _, m := range e.Metrics() {
		if !m.Value.Detailed() {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", m.Label)
		fmt.Fprintln(w, "  Positive:")
		for _, p := range m.Value.Positive {
			fmt.Fprintf(w, "    + %s\n", p)
		}
		fmt.Fprintln(w, "  Negative:")
		if !m.Value.HasNegative() {
			fmt.Fprintf(w, "    %s\n", noNegativePoints)
			continue
		}
		for _, n := range m.Value.Negative {
			fmt.Fprintf(w, "    - %s\n", n)
		}
	}

	if len(e.AreasToImprove) == 0 {
		return
	}

	fmt.Fprintln(w, "\nAreas to improve")
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "AREA\tIMPORTANCE\tCURRENT LEVEL\tTIME TO PREPARE")
	for _, a := range e.AreasToImprove {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", a.Area, a.Importance, a.CurrentLevel, a.TimeToPrepare)
	}
	tw.Flush()
}

func renderCareer(w io.Writer, c artifact.CareerSuggestion) {
	fmt.Fprintf(w, "\nInsights for: %s\n", c.CareerName)
	fmt.Fprintf(w, "\nReasoning\n  %s\n", c.Reasoning)
	fmt.Fprintf(w, "\nAverage starting salary\n  %s\n", c.AverageSalary)

	renderColleges(w, "Top government colleges", c.TopColleges.Government)
	renderColleges(w, "Top private colleges", c.TopColleges.Private)
}

func renderColleges(w io.Writer, title string, colleges []artifact.CollegeEntry) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(colleges) == 0 {
		fmt.Fprintln(w, "  No colleges found matching the criteria.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tLOCATION\tFEES\tENTRANCES\tDIFFICULTY\tAVG PACKAGE")
	for i, c := range colleges {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, c.Name, c.Location, c.FeesRange, c.EntrancesRequired, c.DifficultyLevel, c.AveragePackage)
	}
	tw.Flush()
}

func renderTranscript(w io.Writer, lines []string) {
	fmt.Fprintln(w, strings.Join(lines, "\n"))
}
