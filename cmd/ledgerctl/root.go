package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"expensert/internal/config"
	"expensert/internal/logger"
	"expensert/internal/validator"
)

// Config keys. Every key can also be set as LEDGER_<KEY> with dots and
// dashes replaced by underscores.
const (
	keyNamespace = "namespace"
	keyStorage   = "storage"
	keyBoltPath  = "bolt-path"
	keyDBDriver  = "db.driver"
	keyDBPath    = "db.path"
	keyAMQPURL   = "amqp.url"
	keyExchange  = "amqp.exchange"
	keyLogLevel  = "log-level"
)

// cli carries the state shared by all subcommands of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
}

func newRootCmd() *cobra.Command {
	app := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer Expensert ledgers offline",
		Long: `ledgerctl reads and writes Expensert ledgers directly in the configured
storage backend: export and import snapshots, clear a ledger, print reports
and budget status.`,
		SilenceUsage:      true,
		PersistentPreRunE: app.initConfig,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.cfgFile, "config", "", "config file (default: $HOME/.config/expensert/ledgerctl.yaml)")
	flags.StringP(keyNamespace, "n", "default", "ledger namespace")
	flags.String(keyStorage, config.BackendBolt, "storage backend (bolt, sql)")
	flags.String(keyBoltPath, "expensert.db", "bolt database file")
	flags.String("db-driver", "sqlite", "SQL driver when --storage=sql (sqlite, postgres)")
	flags.String("db-path", "expensert.sqlite", "SQLite file when --db-driver=sqlite")
	flags.String("amqp-url", "", "broker URL to announce changes to running servers")
	flags.String(keyLogLevel, "warn", "log level (debug, info, warn, error)")

	_ = app.v.BindPFlag(keyNamespace, flags.Lookup(keyNamespace))
	_ = app.v.BindPFlag(keyStorage, flags.Lookup(keyStorage))
	_ = app.v.BindPFlag(keyBoltPath, flags.Lookup(keyBoltPath))
	_ = app.v.BindPFlag(keyDBDriver, flags.Lookup("db-driver"))
	_ = app.v.BindPFlag(keyDBPath, flags.Lookup("db-path"))
	_ = app.v.BindPFlag(keyAMQPURL, flags.Lookup("amqp-url"))
	_ = app.v.BindPFlag(keyLogLevel, flags.Lookup(keyLogLevel))
	app.v.SetDefault(keyExchange, "ledger.changes")

	root.AddCommand(app.exportCmd())
	root.AddCommand(app.importCmd())
	root.AddCommand(app.clearCmd())
	root.AddCommand(app.reportCmd())
	root.AddCommand(app.budgetsCmd())
	root.AddCommand(app.categoriesCmd())

	return root
}

func (app *cli) initConfig(_ *cobra.Command, _ []string) error {
	if app.cfgFile != "" {
		app.v.SetConfigFile(app.cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			app.v.AddConfigPath(filepath.Join(home, ".config", "expensert"))
		}
		app.v.AddConfigPath(".")
		app.v.SetConfigName("ledgerctl")
		app.v.SetConfigType("yaml")
	}

	app.v.SetEnvPrefix("LEDGER")
	app.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	app.v.AutomaticEnv()

	if err := app.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logger.Init(os.Getenv("ENV"), app.v.GetString(keyLogLevel))
	validator.Register()

	if ns := app.namespace(); !validator.IsNamespace(ns) {
		return fmt.Errorf("invalid namespace %q", ns)
	}
	return nil
}

func (app *cli) namespace() string {
	return strings.TrimSpace(app.v.GetString(keyNamespace))
}
