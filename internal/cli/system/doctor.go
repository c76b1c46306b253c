package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/tally/internal/backup"
	"github.com/julianstephens/tally/internal/cli"
	"github.com/julianstephens/tally/internal/migration"
)

type DoctorCmd struct{}

type check struct {
	name string
	// needsDB checks are skipped when the database cannot be reached.
	needsDB bool
	// warnOnly failures are reported without failing the run.
	warnOnly bool
	run      func(*cli.Context) error
}

var checks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Clock/timezone", run: checkClockTimezone},
	{name: "Duplicate completions", needsDB: true, run: checkDuplicateCompletions},
	{name: "Lifetime totals", needsDB: true, run: checkLifetimeTotals},
	{name: "Backups present", warnOnly: true, run: checkBackupsPresent},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Database reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
	}

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		if err := c.run(ctx); err != nil {
			if c.warnOnly {
				ctx.Printf("⚠ %s: WARNING\n", c.name)
				ctx.Printf("   %v\n", err)
				continue
			}
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			continue
		}
		ctx.Printf("✓ %s: OK\n", c.name)
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return errors.New("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if err := ctx.Store.Ping(ctx.Context()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'tally migrate')", current, latest)
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	if ctx.Location == nil {
		return errors.New("no reference zone configured for completion days")
	}
	ctx.Printf("   Completion day %s in %s\n", ctx.Recorder.Today(), ctx.Location)
	return nil
}

func checkDuplicateCompletions(ctx *cli.Context) error {
	n, err := ctx.Store.CountDuplicateCompletions(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to check duplicate completions: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("found %d habit+day+slot combinations held by more than one completion", n)
	}
	return nil
}

func checkLifetimeTotals(ctx *cli.Context) error {
	n, err := ctx.Store.CountUndercountedHabits(ctx.Context())
	if err != nil {
		return fmt.Errorf("failed to check lifetime totals: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("found %d habits whose total is lower than their recorded completions", n)
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if ctx.Store.Driver() != string(migration.DriverSQLite) {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return errors.New("no backups found - consider creating one with 'tally backup create'")
	}
	return nil
}
