// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/seclens/riskboard/internal/bundle"
	"github.com/seclens/riskboard/internal/config"
	"github.com/seclens/riskboard/internal/observability"
	"github.com/seclens/riskboard/internal/riskapi"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "riskboard",
	Short:   "Riskboard materializes supplier cyber-risk bundles from the scoring API.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Runs before any command, setting up config and logging.
		if err := initializeConfig(); err != nil {
			return err
		}

		var cfg config.Config
		if err := viper.Unmarshal(&cfg); err != nil {
			// Fall back to a default logger so the error itself is visible.
			observability.InitializeLogger(config.LoggerConfig{
				Level: "info", Format: "console", ServiceName: "riskboard",
			})
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}

		observability.InitializeLogger(cfg.Logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. The context is cancelled on SIGINT/SIGTERM so in-flight
// rebuilds stop cleanly.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil {
			logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newRebuildCmd())
	rootCmd.AddCommand(newBundlesCmd())
	rootCmd.AddCommand(newCompaniesCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newDomainCmd())
	rootCmd.AddCommand(newMaturityCmd())
}

// initializeConfig reads in the config file and ENV variables if set.
func initializeConfig() error {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults and env vars.
	}
	return nil
}

// app bundles the wired components every subcommand needs.
type app struct {
	cfg    *config.Config
	client *riskapi.Client
	store  *bundle.Store
	log    *zap.Logger
}

// newApp resolves the final configuration and wires the client, builder and
// store together.
func newApp() (*app, error) {
	cfg, err := config.NewConfigFromViper(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger := observability.GetLogger()

	client := riskapi.New(cfg.RiskAPI, logger)
	builder := bundle.NewBuilder(client, logger,
		bundle.WithConcurrency(cfg.Builder.Concurrency))
	store := bundle.NewStore(cfg.Cache.Dir, client, builder, logger)

	return &app{cfg: cfg, client: client, store: store, log: logger}, nil
}
