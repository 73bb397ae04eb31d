package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bountylynx/bountylynx/cmd/bountylynx/commands"
	"github.com/bountylynx/bountylynx/pkg/utils"
)

var (
	version   = "1.0.0"
	commit    = "unknown"
	buildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "bountylynx",
	Short:   "BountyLynx - AI-Assisted Bug Bounty Research Agent",
	Long:    "BountyLynx plans bug bounty research end to end: reconnaissance through public intelligence tools, vulnerability analysis, execution planning, bounty estimation and optional isolated testing in disposable containers.",
	Version: version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if err := initLogging(); err != nil {
			return err
		}

		if err := ensureDirs(); err != nil {
			logrus.Warnf("Failed to ensure directories: %v", err)
		}

		if !viper.GetBool("quiet") {
			printBanner()
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.bountylynx/config.yaml)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet mode (no banner output)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (text, json)")
	rootCmd.PersistentFlags().String("log-file", "", "log file path")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	rootCmd.AddCommand(commands.NewResearchCommand())
	rootCmd.AddCommand(commands.NewSessionsCommand())
	rootCmd.AddCommand(commands.NewReportCommand())
	rootCmd.AddCommand(commands.NewDeployCommand())
	rootCmd.AddCommand(commands.NewConfigureCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, buildDate))

	rootCmd.InitDefaultCompletionCmd()

	rootCmd.SetVersionTemplate(fmt.Sprintf("BountyLynx %s (commit %s, built %s)\n", version, commit, buildDate))
}

func initConfig() error {
	setDefaults()
	viper.SetEnvPrefix("BOUNTYLYNX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home dir: %w", err)
		}
		viper.AddConfigPath(filepath.Join(home, ".bountylynx"))
		viper.AddConfigPath("/etc/bountylynx/")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logrus.Warnf("Failed reading config file: %v", err)
		}
	} else {
		logrus.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}

	return nil
}

func setDefaults() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("log_format", "json")
	viper.SetDefault("quiet", false)
	viper.SetDefault("session_directory", "./sessions")
	viper.SetDefault("output_directory", "./reports")
	viper.SetDefault("data_directory", "./data")
	viper.SetDefault("access.free_tier_limit", 3)
	viper.SetDefault("sandbox.image", "kalilinux/kali-rolling")
}

func initLogging() error {
	logConfig := utils.LogConfig{
		Level:         viper.GetString("log_level"),
		Format:        viper.GetString("log_format"),
		FileLocation:  viper.GetString("log_file"),
		EnableConsole: true,
	}

	logger, err := utils.NewLogger(logConfig, "bountylynx", version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize structured logger, falling back: %v\n", err)
		basic := logrus.New()
		basic.SetFormatter(&logrus.JSONFormatter{})
		logrus.SetOutput(basic.Out)
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(basic.Formatter)
		return nil
	}

	logrus.SetOutput(logger.Out)
	logrus.SetLevel(logger.Level)
	logrus.SetFormatter(logger.Formatter)

	for _, hooks := range logger.Hooks {
		for _, h := range hooks {
			logrus.AddHook(h)
		}
	}
	return nil
}

func ensureDirs() error {
	dirs := []string{
		viper.GetString("session_directory"),
		viper.GetString("output_directory"),
		viper.GetString("data_directory"),
	}
	for _, d := range dirs {
		if d == "" {
			continue
		}
		if err := utils.EnsureDir(d); err != nil {
			return fmt.Errorf("ensure dir %s: %w", d, err)
		}
	}
	return nil
}

func printBanner() {
	const banner = `
  ____                    _         _
 | __ )  ___  _   _ _ __ | |_ _   _| |    _   _ _ __ __  __
 |  _ \ / _ \| | | | '_ \| __| | | | |   | | | | '_ \\ \/ /
 | |_) | (_) | |_| | | | | |_| |_| | |___| |_| | | | |>  <
 |____/ \___/ \__,_|_| |_|\__|\__, |_____|\__, |_| |_/_/\_\
                              |___/       |___/

            AI-Assisted Bug Bounty Research Agent
     ______________________________________________________
`
	fmt.Print(banner)
	fmt.Printf("Version: %s | Build: %s (%s) | %s/%s\n\n", version, commit, buildDate, runtime.GOOS, runtime.GOARCH)
}

func main() {
	startTime := time.Now()
	Execute()
	if strings.EqualFold(viper.GetString("log_level"), "debug") {
		logrus.Debugf("Execution completed in %v", time.Since(startTime))
	}
}
