package commands

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
)

func NewVersionCommand(version, commit, buildDate string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information about BountyLynx.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("BountyLynx Version: %s\n", version)
			fmt.Printf("Git Commit: %s\n", commit)
			fmt.Printf("Build Date: %s\n", buildDate)
			fmt.Printf("Go Version: %s\n", runtime.Version())
			fmt.Printf("Platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)

			v, err := semver.NewVersion(version)
			if err != nil {
				fmt.Println("Channel: development build")
				return nil
			}
			if v.Prerelease() != "" {
				fmt.Printf("Channel: pre-release (%s)\n", v.Prerelease())
			} else {
				fmt.Println("Channel: stable")
			}

			constraint, _ := cmd.Flags().GetString("satisfies")
			if constraint != "" {
				c, err := semver.NewConstraint(constraint)
				if err != nil {
					return fmt.Errorf("invalid version constraint %q: %w", constraint, err)
				}
				if !c.Check(v) {
					return fmt.Errorf("version %s does not satisfy constraint %q", version, constraint)
				}
				fmt.Printf("Version %s satisfies %q\n", version, constraint)
			}
			return nil
		},
	}
	cmd.Flags().String("satisfies", "", "Exit non-zero unless the version satisfies this semver constraint (e.g. \">= 1.0.0\")")
	return cmd
}
