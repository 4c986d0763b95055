package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yigit/unimanage/internal/app/migrations"
	"github.com/yigit/unimanage/internal/bootstrap"
	"github.com/yigit/unimanage/internal/pkg/logger"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	command := args[0]

	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	migrator, err := migrations.Open(ctx, cfg.GetPostgresConnectionString(), lgr)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer migrator.Close()

	switch command {
	case "up":
		err = migrator.Up(ctx)
	case "down":
		err = migrator.Down(ctx)
	case "reset":
		err = migrator.Reset(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "version":
		var version int64
		if version, err = migrator.Version(ctx); err == nil {
			fmt.Println(version)
		}
	default:
		fmt.Printf("Unknown command: %s\n", command)
		flag.Usage()
		migrator.Close()
		os.Exit(2)
	}

	if err != nil {
		migrator.Close()
		logger.Fatal().Err(err).Str("command", command).Msg("Migration command failed")
	}
	lgr.Info().Str("command", command).Msg("Migration command completed")
}

func usage() {
	fmt.Println("Usage: migrator <command>")
	fmt.Println("Commands:")
	fmt.Println("  up       - Apply all pending migrations")
	fmt.Println("  down     - Roll back the last migration")
	fmt.Println("  reset    - Roll back every migration")
	fmt.Println("  status   - Show migration status")
	fmt.Println("  version  - Print the current schema version")
	fmt.Println("")
	fmt.Println("The config file is read from CONFIG_PATH (default configs/config.yaml).")
}
