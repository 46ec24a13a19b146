package parse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/display"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/ingest"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/api"
)

type parseInput struct {
	display bool
	strict  bool
}

// output is the document printed by parse.
type output struct {
	Record     api.ResultRecord `json:"record"`
	View       *display.View    `json:"view,omitempty"`
	Diagnostic string           `json:"diagnostic,omitempty"`
}

func NewCmdParse() *cobra.Command {
	data := parseInput{}
	cmd := &cobra.Command{
		Use:     "parse framework testType file",
		Example: "utr parse vitest unit coverage/vitest-report.json --display",
		Short:   "Parse one report and print its canonical record.",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := ingest.ParseSource(fmt.Sprintf("%s:%s:%s", args[0], args[1], args[2]))
			if err != nil {
				return err
			}
			return parseRun(pkg.NewConfigFromViper(), &data, src, cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&data.display, "display", false, "Include the display view of the record.")
	cmd.Flags().BoolVar(&data.strict, "strict", false, "Fail when the framework is not listed in the catalog for the test type.")
	return cmd
}

func parseRun(cfg *pkg.Config, input *parseInput, src ingest.Source, out io.Writer) error {
	reg, err := cfg.Registry()
	if err != nil {
		return err
	}
	raw, err := ingest.ReadRaw(src)
	if err != nil {
		return err
	}
	if input.strict {
		cat, err := cfg.Catalog()
		if err != nil {
			return err
		}
		if err := cat.Validate(raw); err != nil {
			return err
		}
	}

	rec, diag := reg.ParseWithDiagnostic(raw)
	res := output{Record: rec}
	if input.display {
		v := display.Format(rec)
		res.View = &v
	}
	if diag != nil {
		res.Diagnostic = diag.Error()
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding record")
	}
	fmt.Fprintln(out, string(data))
	return nil
}
