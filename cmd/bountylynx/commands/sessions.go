package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/bountylynx/bountylynx/internal/storage"
)

func NewSessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Manage stored research sessions",
		Long:  `List and inspect research sessions persisted by previous runs.`,
	}
	cmd.AddCommand(newSessionsListCommand())
	cmd.AddCommand(newSessionsShowCommand())
	return cmd
}

func newSessionsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored research sessions",
		RunE:  runSessionsList,
	}
}

func newSessionsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-file>",
		Short: "Show the results of a stored session",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionsShow,
	}
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	store := storage.NewSessionStore(cfg.Storage, logrus.StandardLogger())

	sessions, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(sessions) == 0 {
		logrus.Info("No stored sessions found.")
		logrus.Info("Run 'bountylynx research <target>' to create one.")
		return nil
	}

	fmt.Println("Stored research sessions:")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tRESULTS\tMODIFIED\tFILE")
	for _, s := range sessions {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.SessionID, s.Results, s.Modified.Format("2006-01-02 15:04:05"), s.Path)
	}
	return w.Flush()
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	store := storage.NewSessionStore(cfg.Storage, logrus.StandardLogger())

	results, err := store.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	for i, r := range results {
		fmt.Printf("Result %d: %s\n", i+1, r.Target)
		if r.Denied() {
			fmt.Printf("  denied: %s\n", r.Error)
			continue
		}
		fmt.Printf("  vulnerabilities: %d\n", r.VulnerabilityCount)
		fmt.Printf("  estimated bounty: %s - %s (%s confidence)\n",
			r.EstimatedBounty.Min, r.EstimatedBounty.Max, r.EstimatedBounty.Confidence)
		if r.SandboxTesting != nil {
			fmt.Printf("  sandbox: %d tests, %d confirmed\n",
				r.SandboxTesting.TestsExecuted, len(r.SandboxTesting.VulnerabilitiesConfirmed))
		}
	}
	return nil
}
