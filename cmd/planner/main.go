package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"recipe-planner/internal/client"
	"recipe-planner/internal/pkg/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	settings = viper.New()
	logger   = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Search recipes and build a consolidated grocery checklist",
	Long: `planner talks to the recipe API: search and generate recipes, pick up to four of them
and print one deduplicated grocery checklist. The import command loads a CSV of recipes
straight into MongoDB.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = common.NewConsoleLogger(settings.GetString("log-level"))
		common.Logger = logger
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("server", "http://localhost:8000", "Recipe API base URL")
	flags.String("token", "", "Bearer token (session token or Google access token)")
	flags.Duration("timeout", 15*time.Second, "Per-request timeout")
	flags.String("log-level", "warn", "Log level (debug, info, warn, error)")

	settings.SetEnvPrefix("PLANNER")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	cobra.CheckErr(settings.BindPFlags(flags))

	rootCmd.AddCommand(searchCmd, listCmd, showCmd, generateCmd, groceriesCmd, importCmd)
}

// newClient 依全域旗標建立 API 用戶端
func newClient() *client.Client {
	return client.New(
		settings.GetString("server"),
		settings.GetString("token"),
		settings.GetDuration("timeout"),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
