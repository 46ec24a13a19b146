// Package version contains all identifiable versioning info for
// describing the unified test report project.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/unified-test-report/internal/dialect"
)

var (
	projectName = "utr"
	version     = "unknown"
	commit      = "unknown"
)

var Version = VersionContext{
	Name:    projectName,
	Version: version,
	Commit:  commit,
}

type VersionContext struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func (vc *VersionContext) String() string {
	return fmt.Sprintf("UTR CLI: %s+%s", vc.Version, vc.Commit)
}

// StringDialects lists the dialects compiled in the binary.
func (vc *VersionContext) StringDialects() string {
	return fmt.Sprintf("UTR Dialects: %d", len(dialect.Builtins()))
}

func NewCmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the unified test report tool version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version.String())
			fmt.Fprintln(cmd.OutOrStdout(), Version.StringDialects())
			fmt.Fprintf(cmd.OutOrStdout(), "Go: %s\n", runtime.Version())
		},
	}
}
