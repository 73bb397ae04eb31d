package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bountylynx/bountylynx/internal/deploy"
)

func NewDeployCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Generate AWS Bedrock deployment steps",
		Long: `Generate the aws-cli command sequence for hosting the research agent
behind an AWS Bedrock agent endpoint, validate the local policy files and
estimate running costs. Nothing is executed against AWS.`,
	}

	cmd.PersistentFlags().String("policy-dir", "", "Directory holding the agent config and IAM policy files")
	_ = viper.BindPFlag("deploy.policy_dir", cmd.PersistentFlags().Lookup("policy-dir"))

	cmd.AddCommand(newDeployCommandsCommand())
	cmd.AddCommand(newDeployValidateCommand())
	cmd.AddCommand(newDeployCostsCommand())
	cmd.AddCommand(newDeployGuideCommand())
	return cmd
}

func newDeployGuideCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "guide",
		Short: "Write a markdown deployment guide next to the policy files",
		RunE:  runDeployGuide,
	}
}

func runDeployGuide(cmd *cobra.Command, args []string) error {
	helper := newDeployHelper()

	agentCfg, err := helper.LoadAgentConfig()
	if err != nil {
		return fmt.Errorf("failed to load agent config: %w", err)
	}

	path, err := helper.WriteGuide(agentCfg)
	if err != nil {
		return err
	}
	fmt.Printf("Deployment guide written: %s\n", path)
	return nil
}

func newDeployCommandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Print the deployment command sequence",
		RunE:  runDeployCommands,
	}
}

func newDeployValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate agent config and IAM policy files",
		RunE:  runDeployValidate,
	}
}

func newDeployCostsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "costs",
		Short: "Print the estimated deployment and usage costs",
		RunE:  runDeployCosts,
	}
}

func newDeployHelper() *deploy.Helper {
	cfg := buildConfig()
	if dir := viper.GetString("deploy.policy_dir"); dir != "" {
		cfg.Deploy.PolicyDir = dir
	}
	return deploy.NewHelper(cfg.Deploy, logrus.StandardLogger())
}

func runDeployCommands(cmd *cobra.Command, args []string) error {
	helper := newDeployHelper()

	agentCfg, err := helper.LoadAgentConfig()
	if err != nil {
		return fmt.Errorf("failed to load agent config: %w", err)
	}

	fmt.Println("AWS Bedrock deployment sequence:")
	fmt.Println("═══════════════════════════════════════════════════════════════")
	for i, step := range helper.Commands(agentCfg) {
		fmt.Printf("\nStep %d: %s\n", i+1, step.Step)
		fmt.Printf("  %s\n", step.Description)
		fmt.Printf("  $ %s\n", step.Command)
		if step.Validation != "" {
			fmt.Printf("  verify: %s\n", step.Validation)
		}
	}
	return nil
}

func runDeployValidate(cmd *cobra.Command, args []string) error {
	helper := newDeployHelper()

	issues := helper.ValidatePolicyFiles()
	if _, err := helper.LoadAgentConfig(); err != nil {
		issues = append(issues, deploy.ValidationIssue{File: "bedrock-agent-config.json", Message: err.Error()})
	}

	if len(issues) == 0 {
		logrus.Info("All deployment files validated successfully")
		return nil
	}

	for _, issue := range issues {
		fmt.Printf("%s: %s\n", issue.File, issue.Message)
	}
	return fmt.Errorf("%d validation issue(s) found", len(issues))
}

func runDeployCosts(cmd *cobra.Command, args []string) error {
	helper := newDeployHelper()
	estimate := helper.EstimateCosts()

	fmt.Println("Deployment costs:")
	for item, cost := range estimate.Deployment {
		fmt.Printf("  %-30s %s\n", item, cost)
	}
	fmt.Println("\nUsage costs:")
	for item, cost := range estimate.Usage {
		fmt.Printf("  %-30s %s\n", item, cost)
	}
	fmt.Println("\nCost optimization tips:")
	for _, tip := range estimate.Tips {
		fmt.Printf("  - %s\n", tip)
	}
	return nil
}
