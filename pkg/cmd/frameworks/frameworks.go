package frameworks

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/catalog"
	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/dialect"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg"
)

func NewCmdFrameworks() *cobra.Command {
	return &cobra.Command{
		Use:   "frameworks",
		Short: "List the supported frameworks per test type and the registered dialects.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := pkg.NewConfigFromViper()
			cat, err := cfg.Catalog()
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return err
			}
			return showFrameworks(cmd.OutOrStdout(), cat, reg)
		},
	}
}

// showFrameworks prints the catalog, flagging the frameworks without a
// registered dialect, then the dialects.
func showFrameworks(out io.Writer, cat *catalog.Catalog, reg *dialect.Registry) error {
	tbWriter := tabwriter.NewWriter(out, 0, 8, 1, '\t', tabwriter.AlignRight)
	fmt.Fprintf(tbWriter, " Test type\t: Frameworks\n")
	for _, tt := range cat.TestTypes() {
		names := []string{}
		for _, fw := range cat.Frameworks(tt) {
			if _, ok := reg.Lookup(fw); !ok {
				fw += " (no dialect)"
			}
			names = append(names, fw)
		}
		fmt.Fprintf(tbWriter, " - %s\t: %s\n", tt, strings.Join(names, ", "))
	}
	fmt.Fprintf(tbWriter, "\t\n Dialects\t: %s\n", strings.Join(reg.Names(), ", "))
	return tbWriter.Flush()
}
