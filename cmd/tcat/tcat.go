package main

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dacapoday/trace/internal/log"
	"github.com/dacapoday/trace/pebblebatch"
)

const (
	configF   = "config"
	logLevelF = "log-level"
	dbF       = "db"
	noSyncF   = "no-sync"
	limitF    = "limit"
	batchF    = "batch"

	defaultLogLevel = "warn"

	configUsage   = "The yaml configuration file."
	logLevelUsage = "Log level: debug, info, warn or error."
	dbUsage       = "Location of the database files."
	noSyncUsage   = "Do not fsync appended batches."
	limitUsage    = "Print at most this many updates (0 = all)."
	batchUsage    = "Print only the batch with this id (-1 = merged trace)."
)

// Config is the resolved configuration of a tcat invocation.
type Config struct {
	DB       string `mapstructure:"db"`
	LogLevel string `mapstructure:"log-level"`
	NoSync   bool   `mapstructure:"no-sync"`
	Limit    int    `mapstructure:"limit"`
	Batch    int64  `mapstructure:"batch"`
}

type app struct {
	cfg Config
	log *zap.SugaredLogger
}

// NewCmd returns the tcat root command.
func NewCmd() *cobra.Command {
	a := new(app)
	var cfgFile string

	tcatCmd := &cobra.Command{
		Use:           "tcat",
		Short:         "Load and print traces of update tuples.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := viper.New()
			if cfgFile != "" {
				v.SetConfigType("yaml")
				v.SetConfigFile(cfgFile)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "read config %q", cfgFile)
				}
			}
			v.SetEnvPrefix("TCAT")
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if err := v.Unmarshal(&a.cfg); err != nil {
				return errors.Wrap(err, "decode config")
			}

			var err error
			a.log, err = log.New(a.cfg.LogLevel)
			return err
		},
	}

	flags := tcatCmd.PersistentFlags()
	flags.StringVar(&cfgFile, configF, "", configUsage)
	flags.String(logLevelF, defaultLogLevel, logLevelUsage)
	flags.String(dbF, "", dbUsage)

	tcatCmd.AddCommand(a.loadCmd(), a.dumpCmd(), a.batchesCmd())
	return tcatCmd
}

func (a *app) openStore() (*pebblebatch.Store, error) {
	if a.cfg.DB == "" {
		return nil, errors.Newf("--%s is required", dbF)
	}
	return pebblebatch.Open(a.cfg.DB, pebblebatch.Options{
		Logger: a.log,
		NoSync: a.cfg.NoSync,
	})
}
