package report

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/ingest"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/report"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg"
)

type Input struct {
	inputs        []string
	manifest      string
	saveTo        string
	serverAddress string
	serverSkip    bool
	saveOnly      bool
	verbose       bool
	json          bool
	failOnChecks  bool
	thresholds    report.Thresholds
}

func NewCmdReport() *cobra.Command {
	data := Input{}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Create a unified report from test tool reports.",
		Example: `  utr report -i vitest:unit:coverage/vitest.json -i k6:performance:k6-summary.json
  utr report -m reports.yaml --save-to ./results --save-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data.thresholds = report.Thresholds{
				MinSuccessRate:  viper.GetFloat64("min-success-rate"),
				MinLineCoverage: viper.GetFloat64("min-coverage"),
				MaxErrorRate:    viper.GetFloat64("max-error-rate"),
			}
			checkFlags(&data)
			return processResult(cmd.Context(), &data, pkg.NewConfigFromViper(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringArrayVarP(
		&data.inputs, "input", "i", []string{},
		"Report to process, in the format framework:testType:path. Example: -i tap:unit:tap.txt",
	)
	cmd.Flags().StringVarP(
		&data.manifest, "manifest", "m", "",
		"YAML file listing the reports to process. Example: -m reports.yaml",
	)
	cmd.Flags().StringVarP(
		&data.saveTo, "save-to", "s", "",
		"Save the report artifacts to disk. Example: -s ./results",
	)
	cmd.Flags().StringVarP(
		&data.serverAddress, "server-address", "", "0.0.0.0:9090",
		"HTTP server address to serve files when --save-to is used. Example: --server-address 0.0.0.0:9090",
	)
	cmd.Flags().BoolVarP(
		&data.serverSkip, "server-skip", "", false,
		"Do not serve the saved files when --save-to is used.",
	)
	cmd.Flags().BoolVarP(
		&data.saveOnly, "save-only", "", false,
		"Save data and exit. Requires --save-to. Example: -s ./results --save-only",
	)
	cmd.Flags().BoolVarP(
		&data.verbose, "verbose", "v", false,
		"Show test details of test failures",
	)
	cmd.Flags().BoolVarP(
		&data.json, "json", "", false,
		"Show report in json format",
	)
	cmd.Flags().BoolVarP(
		&data.failOnChecks, "fail-on-checks", "", false,
		"Exit with an error when a check fails",
	)
	cmd.Flags().Float64("min-success-rate", report.DefaultThresholds().MinSuccessRate, "Minimum success rate, in percent")
	cmd.Flags().Float64("min-coverage", report.DefaultThresholds().MinLineCoverage, "Minimum line coverage, in percent. 0 disables the check")
	cmd.Flags().Float64("max-error-rate", report.DefaultThresholds().MaxErrorRate, "Maximum load test error rate, in percent")
	for _, flag := range []string{"min-success-rate", "min-coverage", "max-error-rate"} {
		if err := viper.BindPFlag(flag, cmd.Flags().Lookup(flag)); err != nil {
			log.Warnf("Unable to bind flag %s\n", flag)
		}
	}

	return cmd
}

// checkFlags
func checkFlags(input *Input) {
	if input.saveOnly && input.saveTo == "" {
		log.Warnf("--save-only is set without --save-to, nothing will be saved.")
	}
	if input.json {
		input.serverSkip = true
	}
}

// loadSources merges the manifest entries and the --input values, in this
// order.
func loadSources(input *Input) ([]ingest.Source, error) {
	sources := []ingest.Source{}
	if input.manifest != "" {
		data, err := os.ReadFile(input.manifest)
		if err != nil {
			return nil, errors.Wrapf(err, "reading manifest %s", input.manifest)
		}
		list, err := ingest.LoadManifest(data)
		if err != nil {
			return nil, errors.Wrapf(err, "loading manifest %s", input.manifest)
		}
		// paths in the manifest are relative to it
		base := filepath.Dir(input.manifest)
		for i := range list {
			if !filepath.IsAbs(list[i].Path) {
				list[i].Path = filepath.Join(base, list[i].Path)
			}
		}
		sources = append(sources, list...)
	}
	for _, v := range input.inputs {
		src, err := ingest.ParseSource(v)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	if len(sources) == 0 {
		return nil, errors.New("no report to process, use --input or --manifest")
	}
	return sources, nil
}

// processResult reads the reports and shows them as a report.
func processResult(ctx context.Context, input *Input, cfg *pkg.Config, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	sources, err := loadSources(input)
	if err != nil {
		return err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}

	log.Debugf("Creating report from %d sources...", len(sources))
	res, err := ingest.Run(ctx, reg, sources, cfg.Workers)
	if err != nil {
		return errors.Wrap(err, "could not process reports")
	}
	re, err := report.NewReport(res, &report.Options{Thresholds: &input.thresholds})
	if err != nil {
		return err
	}

	if input.json {
		resReport, err := re.ShowJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, resReport)
		return checkResult(input, re)
	}

	if input.saveTo != "" {
		if err := re.SaveResults(input.saveTo); err != nil {
			return err
		}
		log.Infof("Report saved to %s", input.saveTo)
		if input.saveOnly {
			return checkResult(input, re)
		}
	}

	printer := report.NewPrinter(out, input.verbose)
	if err := printer.Print(re); err != nil {
		return err
	}

	// run http server to serve static report
	if input.saveTo != "" && !input.serverSkip {
		fs := http.FileServer(http.Dir(input.saveTo))
		mux := http.NewServeMux()
		mux.Handle("/", fs)

		log.Infof("The report server is available in http://%s, open your browser and navigate to results.", input.serverAddress)
		log.Infof("To get started open the report http://%s/%s.", input.serverAddress, report.ReportFileNameHTML)
		if err := http.ListenAndServe(input.serverAddress, mux); err != nil {
			return errors.Wrapf(err, "unable to start the report server at address %s", input.serverAddress)
		}
	}
	if input.saveTo != "" && input.serverSkip {
		log.Infof("To read the report open your browser and navigate to the path file://%s", input.saveTo)
	}

	return checkResult(input, re)
}

func checkResult(input *Input, re *report.Report) error {
	if input.failOnChecks && !re.Passed() {
		return errors.Errorf("%d checks failed", len(re.Checks.Fail))
	}
	return nil
}
