/*
Copyright © 2026 shinnku-nikaidou
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shinnku-nikaidou/AutoBTD6/internal/catalog"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/config"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/data"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/economy"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/playthrough"
	"github.com/shinnku-nikaidou/AutoBTD6/internal/stats"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "autobtd6",
	Short: "Plan, price and pick BTD6 playthroughs",
	Long: `autobtd6 reads playthrough instruction files, prices every step for the
target gamemode, tracks attempts and wins per resolution and picks the most
valuable playthrough to run next on a map.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.autobtd6.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("resolution", "1920x1080", "display resolution the playthroughs run on")
	rootCmd.PersistentFlags().StringSlice("data-dir", nil, "directories searched for static tables before the built-in ones")
	rootCmd.PersistentFlags().StringSlice("playthrough-dir", nil, "directories searched for playthrough files")
	rootCmd.PersistentFlags().Bool("monkey-knowledge", false, "monkey knowledge is enabled in game")
	rootCmd.PersistentFlags().Bool("prefer-no-mk", true, "prefer playthroughs that need no monkey knowledge on value ties")
	rootCmd.PersistentFlags().String("stats-backend", "", "where run stats are kept (file, redis, postgres)")

	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("resolution", rootCmd.PersistentFlags().Lookup("resolution"))
	_ = viper.BindPFlag("data_dirs", rootCmd.PersistentFlags().Lookup("data-dir"))
	_ = viper.BindPFlag("playthrough_dirs", rootCmd.PersistentFlags().Lookup("playthrough-dir"))
	_ = viper.BindPFlag("monkey_knowledge", rootCmd.PersistentFlags().Lookup("monkey-knowledge"))
	_ = viper.BindPFlag("prefer_no_mk", rootCmd.PersistentFlags().Lookup("prefer-no-mk"))
	_ = viper.BindPFlag("stats.backend", rootCmd.PersistentFlags().Lookup("stats-backend"))

	config.SetDefaults(viper.GetViper())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".autobtd6")
	}

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "file", viper.ConfigFileUsed())
	}
}

// env is everything a command needs, built from the loaded configuration.
type env struct {
	cfg     *config.Config
	tables  *data.Tables
	user    *data.User
	parser  *playthrough.Parser
	ledger  *stats.Ledger
	journal *stats.Journal
	library *catalog.Library
	close   func()
}

// loadEnv reads the tables, the user state and the ledger.
func loadEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}

	tables, err := data.NewLoader(cfg.DataDirs).LoadTables()
	if err != nil {
		return nil, fmt.Errorf("failed to load tables: %w", err)
	}
	user, err := data.LoadUser(cfg.UserConfig)
	if err != nil {
		return nil, err
	}
	user.MonkeyKnowledgeEnabled = cfg.MonkeyKnowledge

	backend, closeFn, err := cfg.Stats.OpenBackend(ctx)
	if err != nil {
		return nil, err
	}
	version := cfg.Version
	if version == "" {
		version = readBuildMeta(debug.ReadBuildInfo()).Version
	}
	ledger, err := stats.Open(ctx, backend, version, slog.Default())
	if err != nil {
		closeFn()
		return nil, err
	}

	closeAll := closeFn
	var journal *stats.Journal
	if cfg.Stats.Journal != "" {
		journal, err = stats.OpenJournal(cfg.Stats.Journal)
		if err != nil {
			closeFn()
			return nil, err
		}
		ledger.SetJournal(journal)
		closeAll = func() {
			_ = journal.Close()
			closeFn()
		}
	}

	parser := playthrough.NewParser(tables, economy.NewModel(user), slog.Default())
	return &env{
		cfg:     cfg,
		tables:  tables,
		user:    user,
		parser:  parser,
		ledger:  ledger,
		journal: journal,
		library: catalog.NewLibrary(parser, user, ledger, slog.Default()),
		close:   closeAll,
	}, nil
}
