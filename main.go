package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cppla/qaboard/config"
	"github.com/cppla/qaboard/routes"
	"github.com/cppla/qaboard/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "qaboard",
	Short: "Q&A board HTTP API",
	Long: `qaboard serves questions, answers and votes over HTTP.

Configuration is read from config/config.json (or --config) and can be
overridden with environment variables such as APP_PORT and DATABASE_URI.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Print the route table",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Defaults()
		cfg.GinPath = ""
		cfg.LogLevel = "error"
		config.Set(cfg)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		for _, rt := range routes.SetupRouter(nil).Routes() {
			fmt.Fprintf(w, "%s\t%s\n", rt.Method, rt.Path)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "Path to the JSON config file")
	rootCmd.AddCommand(routesCmd)
}

func serve() error {
	cfg := config.Load(configPath)

	if err := utils.InitLogger(cfg); err != nil {
		return err
	}
	defer utils.SyncLogger()

	db := config.InitDatabase()
	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful, driver=%s)", cfg.AppPort, cfg.DBDriver)
	return utils.GraceServer(":"+cfg.AppPort, r, config.CloseDatabase, utils.CloseRedis)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
