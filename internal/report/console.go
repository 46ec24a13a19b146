package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/display"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/failures"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Printer renders a Report as text tables.
type Printer struct {
	out     io.Writer
	verbose bool
}

func NewPrinter(out io.Writer, verbose bool) *Printer {
	return &Printer{out: out, verbose: verbose}
}

func (p *Printer) newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(p.out, 0, 8, 1, '\t', tabwriter.AlignRight)
}

func statusColor(status string) string {
	if status == display.StatusFailure {
		return red(status)
	}
	return green(status)
}

// Print writes every section of re.
func (p *Printer) Print(re *Report) error {
	if err := p.ShowSummary(re); err != nil {
		return err
	}
	if err := p.ShowFrameworks(re); err != nil {
		return err
	}
	if err := p.ShowDiagnostics(re); err != nil {
		return err
	}
	if p.verbose {
		if err := p.ShowFailures(re); err != nil {
			return err
		}
		if err := p.ShowRuntime(re); err != nil {
			return err
		}
	}
	return p.ShowChecks(re)
}

func (p *Printer) ShowSummary(re *Report) error {
	fmt.Fprintf(p.out, "\n> %s <\n\n", bold("Unified Test Report"))

	tbWriter := p.newTabWriter()
	fmt.Fprintf(tbWriter, " Status\t: %s\n", statusColor(re.View.Status))
	fmt.Fprintf(tbWriter, " Success Rate\t: %s\n", re.View.SuccessRate)
	fmt.Fprintf(tbWriter, " Summary\t: %s\n", re.View.Summary)
	s := re.Unified.Summary
	fmt.Fprintf(tbWriter, " Counters [Total/Passed/Failed/Skipped]\t: [%d/%d/%d/%d]\n", s.Total, s.Passed, s.Failed, s.Skipped)
	fmt.Fprintf(tbWriter, " Duration\t: %s\n", re.View.Duration)
	fmt.Fprintf(tbWriter, " Frameworks\t: %s\n", re.View.Framework)
	if c := re.Unified.Coverage; c != nil {
		fmt.Fprintf(tbWriter, " Coverage [Stmts/Branches/Funcs/Lines]\t: [%.2f/%.2f/%.2f/%.2f]\n",
			c.Statements, c.Branches, c.Functions, c.Lines)
	}
	if perf := re.Unified.Performance; perf != nil {
		fmt.Fprintf(tbWriter, " Performance:\t\n")
		fmt.Fprintf(tbWriter, " - Requests\t: %d\n", perf.TotalRequests)
		fmt.Fprintf(tbWriter, " - Requests/s\t: %.2f\n", perf.RequestsPerSecond)
		fmt.Fprintf(tbWriter, " - Response time avg/max\t: %.2fms/%.2fms\n", perf.AvgResponseTimeMs, perf.MaxResponseTimeMs)
		fmt.Fprintf(tbWriter, " - Error rate\t: %.2f%%\n", perf.ErrorRatePercent)
	}
	return tbWriter.Flush()
}

// ShowFrameworks lists one line per input record, in input order.
func (p *Printer) ShowFrameworks(re *Report) error {
	tbWriter := p.newTabWriter()
	fmt.Fprintf(tbWriter, "\t\n Reports by framework:\t  Status [Total/Passed/Failed/Skipped] (duration, p95 case)\n")
	for _, fw := range re.Frameworks {
		s := fw.Record.Summary
		fmt.Fprintf(tbWriter, " - %s/%s\t: %s [%d/%d/%d/%d] (%s, %s)\n",
			fw.View.Framework, fw.View.TestType, statusColor(fw.View.Status),
			s.Total, s.Passed, s.Failed, s.Skipped,
			fw.View.Duration, display.FormatDuration(fw.P95CaseDurationMs))
	}
	return tbWriter.Flush()
}

func (p *Printer) ShowDiagnostics(re *Report) error {
	if len(re.Diagnostics) == 0 {
		return nil
	}
	tbWriter := p.newTabWriter()
	fmt.Fprintf(tbWriter, "\t\n>> %s\t\n", yellow("Diagnostics"))
	for _, d := range re.Diagnostics {
		name := fmt.Sprintf("%s/%s", d.Framework, d.TestType)
		if d.SourcePath != "" {
			name = fmt.Sprintf("%s (%s)", name, d.SourcePath)
		}
		fmt.Fprintf(tbWriter, " - %s\t: %s: %s\n", name, d.Kind, d.Message)
	}
	return tbWriter.Flush()
}

// ShowFailures lists the failed cases of every framework, then the failure
// messages by error pattern and the failed cases by tag.
func (p *Printer) ShowFailures(re *Report) error {
	tbWriter := p.newTabWriter()
	fmt.Fprintf(tbWriter, "\t\n>> Failed cases:\t\n")
	for _, fw := range re.Frameworks {
		if len(fw.FailedCases) == 0 {
			continue
		}
		fmt.Fprintf(tbWriter, " %s/%s:\t\n", fw.Record.Framework, fw.Record.TestType)
		for _, c := range fw.FailedCases {
			msg := ""
			if len(c.FailureMessages) > 0 {
				msg = c.FailureMessages[0]
			}
			fmt.Fprintf(tbWriter, " - %s\t: %s\n", c.Name, msg)
		}
	}
	if err := tbWriter.Flush(); err != nil {
		return err
	}
	if re.Failures == nil {
		return nil
	}
	if len(re.Failures.ErrorCounters) > 0 {
		tbWriter = p.newTabWriter()
		fmt.Fprintf(tbWriter, "\t\n>> Failure messages by pattern:\t\n")
		counters := failures.TestTags(re.Failures.ErrorCounters)
		fmt.Fprintf(tbWriter, " - %s\t: %d\n", failures.TotalKey, counters[failures.TotalKey])
		for _, k := range counters.Sorted() {
			fmt.Fprintf(tbWriter, " - %s\t: %d\n", k.Key, k.Value)
		}
		if err := tbWriter.Flush(); err != nil {
			return err
		}
	}
	if re.Failures.Tags[failures.TotalKey] > 0 {
		fmt.Fprintf(p.out, "\n>> Failed cases by tag:\n%s\n", re.Failures.Tags.ShowSorted())
	}
	return nil
}

// ShowRuntime lists the stage timers of the batch.
func (p *Printer) ShowRuntime(re *Report) error {
	if len(re.Runtime) == 0 {
		return nil
	}
	tbWriter := p.newTabWriter()
	fmt.Fprintf(tbWriter, "\t\n>> Runtime:\t\n")
	for _, s := range re.Runtime {
		fmt.Fprintf(tbWriter, " - %s\t: %.3fs\n", s.Name, s.Seconds)
	}
	return tbWriter.Flush()
}

func (p *Printer) showCheckList(tbWriter io.Writer, title string, list []*SLOOutput, paint func(a ...interface{}) string) {
	fmt.Fprintf(tbWriter, "\t\n>> %s:\t\n", title)
	for _, check := range list {
		name := check.SLO
		if check.ID != "" {
			name = fmt.Sprintf("[%s] %s", check.ID, check.SLO)
		}
		result := paint(check.SLOResult)
		if check.SLIActual != "" {
			result = fmt.Sprintf("%s (want %s, got %s)", result, check.SLITarget, check.SLIActual)
		}
		if check.Message != "" {
			result = fmt.Sprintf("%s %s", result, check.Message)
		}
		fmt.Fprintf(tbWriter, " - %s\t: %s\n", name, result)
	}
}

func (p *Printer) ShowChecks(re *Report) error {
	if re.Checks == nil {
		return nil
	}
	tbWriter := p.newTabWriter()
	fmt.Fprintf(tbWriter, "\t\n> Validation Checks\t\n")
	p.showCheckList(tbWriter, "Failed checks", re.Checks.Fail, red)
	if len(re.Checks.Warn) > 0 {
		p.showCheckList(tbWriter, "Warnings", re.Checks.Warn, yellow)
	}
	p.showCheckList(tbWriter, "Passed checks", re.Checks.Pass, green)
	if p.verbose && len(re.Checks.Skip) > 0 {
		p.showCheckList(tbWriter, "Skipped checks", re.Checks.Skip, fmt.Sprint)
	}
	return tbWriter.Flush()
}
