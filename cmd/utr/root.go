package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/cmd/adm"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/cmd/frameworks"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/cmd/parse"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/cmd/report"
	"github.com/redhat-openshift-ecosystem/unified-test-report/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "utr",
	Short: "Unified Test Report",
	Long: `Unified Test Report normalizes the reports of unit, integration, API, E2E
and performance testing tools into one canonical result model, and aggregates
them into a single report`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := pkg.NewConfigFromViper()

		logrusLevel, err := log.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		log.SetLevel(logrusLevel)
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})
		// stdout is reserved for reports
		log.SetOutput(os.Stderr)

		if cfg.LogFile == "" {
			return nil
		}
		fdLog, err := os.OpenFile(cfg.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Errorf("error opening file %s: %v", cfg.LogFile, err)
			return nil
		}
		log.AddHook(&logwriter.Hook{
			Writer: fdLog,
			LogLevels: []log.Level{
				log.PanicLevel,
				log.FatalLevel,
				log.ErrorLevel,
				log.WarnLevel,
				log.InfoLevel,
				log.DebugLevel,
			},
		})
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initBindFlag(flag string) {
	err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		log.Warnf("Unable to bind flag %s\n", flag)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("log-level", "info", "logging level")
	rootCmd.PersistentFlags().String("log-file", pkg.DefaultLogFile, "file receiving a copy of the logs, empty to disable")
	rootCmd.PersistentFlags().String("catalog", "", "YAML file listing the frameworks supported per test type")
	rootCmd.PersistentFlags().Int("workers", 0, "number of reports parsed in parallel, 0 uses the number of CPUs")
	initBindFlag("log-level")
	initBindFlag("log-file")
	initBindFlag("catalog")
	initBindFlag("workers")

	// Link in child commands
	rootCmd.AddCommand(report.NewCmdReport())
	rootCmd.AddCommand(parse.NewCmdParse())
	rootCmd.AddCommand(frameworks.NewCmdFrameworks())
	rootCmd.AddCommand(adm.NewCmdAdm())
	rootCmd.AddCommand(version.NewCmdVersion())
}

// initConfig reads in ENV variables if set, for example UTR_LOG_LEVEL.
func initConfig() {
	viper.SetEnvPrefix(pkg.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
