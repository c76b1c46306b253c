package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/cli/backups"
	"github.com/julianstephens/tally/internal/cli/habits"
	"github.com/julianstephens/tally/internal/cli/system"
	"github.com/julianstephens/tally/internal/config"
	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/errors"
	"github.com/julianstephens/tally/internal/keyring"
	"github.com/julianstephens/tally/internal/logger"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/storage/postgres"
	"github.com/julianstephens/tally/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"SQLite database path or PostgreSQL connection string. PostgreSQL passwords must NOT be embedded here; use TALLY_DB_CONNECTION, .pgpass, or the OS keyring instead." type:"string" default:"${default_config}"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize tally storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Habit   habits.HabitCmd   `cmd:"" help:"Manage habits and record completions."`
	Backup  backups.BackupCmd `cmd:"" help:"Manage SQLite database backups."`
	Keyring system.KeyringCmd `cmd:"" help:"Manage the database connection string stored in the OS keyring."`
	Inspect system.DebugCmd   `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with daily completion targets"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
		},
	)

	cfg, err := config.Load()
	if err != nil {
		errors.Fatalf("failed to load configuration: %v", err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		ConfigDir: cfg.ConfigDir,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	connStr, source := config.ResolveConnection(CLI.Config, cfg, keyring.LookupConnectionString)
	store, err := newStore(connStr, source)
	if err != nil {
		errors.Fatal(err)
	}
	logger.Debug("Resolved database", "driver", store.Driver(), "source", source)

	loc, err := cfg.Location()
	if err != nil {
		errors.Fatalf("invalid %s: %v", constants.EnvDayZone, err)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	appCtx := cli.NewContext(store, loc).WithContext(runCtx)

	err = ctx.Run(appCtx)
	stop()
	if closeErr := store.Close(); closeErr != nil {
		logger.Warn("Failed to close database", "error", closeErr)
	}
	errors.Fatal(err)
}

// newStore picks the storage backend for connStr. Embedded passwords are
// only accepted from the environment or the keyring.
func newStore(connStr string, source config.Source) (storage.Provider, error) {
	if !storage.IsPostgresConnString(connStr) {
		return sqlite.NewStore(connStr), nil
	}
	if source == config.SourceFlag && storage.HasEmbeddedCredentials(connStr) {
		return nil, fmt.Errorf("%w: use TALLY_DB_CONNECTION, .pgpass, or 'tally keyring set' instead", postgres.ErrEmbeddedCredentials)
	}
	return postgres.New(connStr), nil
}
