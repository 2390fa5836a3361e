package db

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrUnknownMigrateAction is returned for an unrecognised migrate subcommand.
var ErrUnknownMigrateAction = errors.New("unknown migrate action")

// RunMigrateCommand dispatches a migrate subcommand (up, down, status,
// force <N>) against database and reports the resulting version on out.
func RunMigrateCommand(database *DB, args []string, out io.Writer) error {
	if len(args) < 1 {
		PrintMigrateHelp(out)
		return ErrUnknownMigrateAction
	}

	switch action := args[0]; action {
	case "up":
		if err := database.MigrateUp(); err != nil {
			return err
		}
		fmt.Fprintln(out, "all migrations applied")

	case "down":
		if err := database.MigrateDown(); err != nil {
			return err
		}
		fmt.Fprintln(out, "rolled back one migration")

	case "status":
		// reported below

	case "force":
		if len(args) < 2 {
			return fmt.Errorf("usage: migrate force <version>")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version number %q: %w", args[1], err)
		}
		if err := database.MigrateForce(v); err != nil {
			return err
		}
		fmt.Fprintf(out, "migration version forced to %d\n", v)

	case "help":
		PrintMigrateHelp(out)
		return nil

	default:
		PrintMigrateHelp(out)
		return fmt.Errorf("%w: %s", ErrUnknownMigrateAction, action)
	}

	return printStatus(database, out)
}

func printStatus(database *DB, out io.Writer) error {
	version, dirty, err := database.MigrateVersion()
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	fmt.Fprintf(out, "schema version: %d of %d (dirty: %v)\n", version, LatestVersion, dirty)
	if dirty {
		fmt.Fprintln(out, "a migration failed mid-execution; inspect the database, then run: measlog migrate force <version>")
	}
	return nil
}

// PrintMigrateHelp writes the migrate subcommand usage to out.
func PrintMigrateHelp(out io.Writer) {
	fmt.Fprintln(out, "Usage: measlog [-db path] migrate <command>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  up          Apply all pending migrations")
	fmt.Fprintln(out, "  down        Roll back one migration")
	fmt.Fprintln(out, "  status      Show the current schema version")
	fmt.Fprintln(out, "  force <N>   Force the recorded version to N (recovery only)")
	fmt.Fprintln(out, "  help        Show this message")
}
