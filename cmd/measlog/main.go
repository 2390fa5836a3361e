// Command measlog imports, summarises and prunes measurement logs.
//
// Usage:
//
//	measlog -config config/estimation.defaults.json -import drive.jsonl
//	measlog -summary
//	measlog -retire-before 1700000000.5
//	measlog -list 1700000000,1700000060 > replay.jsonl
//	measlog migrate status
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/hyper/internal/config"
	"github.com/banshee-data/hyper/internal/version"
)

func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "path to estimation config JSON")
	dbPath := flag.String("db", "", "database path (overrides database_path in config)")
	importPath := flag.String("import", "", "JSON lines file of measurements to import")
	retireBefore := flag.Float64("retire-before", math.NaN(), "delete stored measurements whose latest time (seconds) is before this")
	summary := flag.Bool("summary", false, "print a summary of stored measurements")
	list := flag.String("list", "", "print stored measurements overlapping `from,to` seconds as JSON lines")
	metrics := flag.Bool("metrics", false, "print window metrics in Prometheus text format after the run")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("measlog", version.String())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{
		Migrate:      migrateArgs(flag.Args()),
		ConfigPath:   *configPath,
		DBPath:       *dbPath,
		ImportPath:   *importPath,
		RetireBefore: *retireBefore,
		Summary:      *summary,
		Metrics:      *metrics,
		List:         *list,
	}
	if err := run(ctx, opts, os.Stdout); err != nil {
		log.Fatalf("measlog: %v", err)
	}
}

// migrateArgs returns the arguments after a leading "migrate" positional.
func migrateArgs(args []string) []string {
	if len(args) == 0 || args[0] != "migrate" {
		return nil
	}
	if len(args) == 1 {
		return []string{"status"}
	}
	return args[1:]
}
