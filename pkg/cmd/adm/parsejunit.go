package adm

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/display"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

type parseJUnitInput struct {
	skipFailed  bool
	skipPassed  bool
	skipSkipped bool
}

var parseJUnitArgs parseJUnitInput
var parseJUnitCmd = &cobra.Command{
	Use:     "parse-junit",
	Example: "utr adm parse-junit report.xml",
	Short:   "Parse JUnit file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("please provide the path to the JUnit file")
		}
		return parseJUnitRun(cmd.OutOrStdout(), args[0], &parseJUnitArgs)
	},
}

func init() {
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipFailed, "skip-failed", false, "Skip printing on stdout the failed test names.")
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipPassed, "skip-passed", false, "Skip printing on stdout the passed test names.")
	parseJUnitCmd.Flags().BoolVar(&parseJUnitArgs.skipSkipped, "skip-skipped", false, "Skip printing on stdout the skipped test names.")
}

func parseJUnitRun(out io.Writer, junitFile string, input *parseJUnitInput) error {
	parser, err := api.NewJUnitXMLParser(junitFile)
	if err != nil {
		return fmt.Errorf("error parsing JUnit file: %v", err)
	}

	// Printing summary
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "- File: %s\n", parser.XMLFile)
	fmt.Fprintf(out, "- Total: %d\n", parser.Counters.Total)
	fmt.Fprintf(out, "- Pass: %d\n", parser.Counters.Pass)
	fmt.Fprintf(out, "- Skipped: %d\n", parser.Counters.Skipped)
	fmt.Fprintf(out, "- Failures: %d\n", parser.Counters.Failures)
	fmt.Fprintf(out, "- Duration: %s\n", display.FormatDuration(parser.DurationMs))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "JUnit Suites:")
	for _, suite := range parser.Suites {
		fmt.Fprintf(out, "- %s: tests=%d failures=%d errors=%d skipped=%d time=%s\n",
			suite.Name, suite.Tests, suite.Failures, suite.Errors, suite.Skipped, suite.Time)
	}

	passed := []string{}
	skipped := []string{}
	for _, testcase := range parser.Cases {
		if testcase.Status == api.JUnitStatusPass {
			passed = append(passed, testcase.Name)
		}
		if testcase.Status == api.JUnitStatusSkipped {
			skipped = append(skipped, testcase.Name)
		}
	}

	if !input.skipPassed {
		fmt.Fprintf(out, "\n#> Passed tests (%d): \n%s\n", len(passed), strings.Join(passed, "\n"))
	}
	if !input.skipFailed {
		fmt.Fprintf(out, "\n#> Failed tests (%d): \n%s\n", len(parser.Failures), strings.Join(parser.Failures, "\n"))
	}
	if !input.skipSkipped {
		fmt.Fprintf(out, "\n#> Skipped tests (%d): \n%s\n", len(skipped), strings.Join(skipped, "\n"))
	}
	return nil
}
