package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bountylynx/bountylynx/internal/reporting"
	"github.com/bountylynx/bountylynx/internal/storage"
)

func NewReportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report <session-file>",
		Short: "Generate text reports from a stored session",
		Long: `Render human-readable reports for every result in a stored research
session. Reports are printed to stdout or written under the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: runReport,
	}

	cmd.Flags().BoolP("write", "w", false, "Write report files instead of printing to stdout")
	_ = viper.BindPFlag("report.write", cmd.Flags().Lookup("write"))

	return cmd
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	store := storage.NewSessionStore(cfg.Storage, logrus.StandardLogger())
	generator := reporting.NewGenerator(cfg.Reporting, logrus.StandardLogger())

	results, err := store.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	written := 0
	for _, r := range results {
		if r.Denied() {
			logrus.Debugf("Skipping denied result for %s", r.Target)
			continue
		}
		if viper.GetBool("report.write") {
			path, werr := generator.WriteReport(r)
			if werr != nil {
				logrus.Warnf("Failed to write report for %s: %v", r.Target, werr)
				continue
			}
			logrus.Infof("Report written: %s", path)
			written++
			continue
		}
		fmt.Println(generator.Generate(r))
	}

	if viper.GetBool("report.write") && written == 0 {
		return fmt.Errorf("no reportable results in session")
	}
	return nil
}
