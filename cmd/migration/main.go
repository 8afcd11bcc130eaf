package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/bet-pool/internal/platform/logging"
)

var errUsage = errors.New("usage")

type command struct {
	usage string
	run   func(m *migrate.Migrate, args []string, logger *logging.Logger) error
}

var commands = map[string]command{
	"up":      {usage: "up", run: migrateUp},
	"down":    {usage: "down [steps]", run: migrateDown},
	"version": {usage: "version", run: printVersion},
	"force":   {usage: "force <version>", run: forceVersion},
	"goto":    {usage: "goto <version>", run: gotoVersion},
}

var commandOrder = []string{"up", "down", "version", "force", "goto"}

func main() {
	_ = godotenv.Load()

	logger := logging.New(logging.LevelInfo, logging.FormatConsole)
	err := run(os.Args[1:], logger)
	switch {
	case errors.Is(err, errUsage):
		printUsage()
		os.Exit(2)
	case err != nil:
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// run resolves the command before touching the database so usage errors
// need no DB_URL.
func run(args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := commands[strings.ToLower(strings.TrimSpace(args[0]))]
	if !ok {
		return errUsage
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return errors.New("DB_URL is required")
	}
	dir, err := migrationsDir()
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(dir), dbURL)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err := errors.Join(srcErr, dbErr); err != nil {
			logger.Warn("close migrator", "error", err)
		}
	}()

	logger.Info("running migration command", "command", cmd.usage, "dir", dir)
	return cmd.run(m, args[1:], logger)
}

func migrateUp(m *migrate.Migrate, _ []string, logger *logging.Logger) error {
	if err := ignoreNoChange(m.Up(), logger); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("migrations applied")
	return nil
}

func migrateDown(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	steps, err := parseSteps(args)
	if err != nil {
		return err
	}
	if err := ignoreNoChange(m.Steps(-steps), logger); err != nil {
		return fmt.Errorf("roll back %d steps: %w", steps, err)
	}
	logger.Info("migrations rolled back", "steps", steps)
	return nil
}

func printVersion(m *migrate.Migrate, _ []string, _ *logging.Logger) error {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("version: none\ndirty: false")
		return nil
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
	return nil
}

func forceVersion(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	version, err := parseVersion(args[0])
	if err != nil {
		return err
	}
	if err := m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	logger.Info("migration version forced", "version", version)
	return nil
}

func gotoVersion(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	target, err := parseTarget(args[0])
	if err != nil {
		return err
	}
	if err := ignoreNoChange(m.Migrate(target), logger); err != nil {
		return fmt.Errorf("migrate to %d: %w", target, err)
	}
	logger.Info("migrated to version", "version", target)
	return nil
}

// parseSteps defaults to rolling back a single migration.
func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, errors.New("down steps must be > 0")
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	if value < 0 {
		return 0, errors.New("version must be >= 0")
	}
	return value, nil
}

func parseTarget(raw string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil {
		return 0, fmt.Errorf("invalid target version %q: %w", raw, err)
	}
	return uint(value), nil
}

func ignoreNoChange(err error, logger *logging.Logger) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

// migrationsDir prefers MIGRATIONS_DIR, then the repo layout, then the
// container layout.
func migrationsDir() (string, error) {
	for _, candidate := range []string{os.Getenv("MIGRATIONS_DIR"), "./db/migrations", "/app/db/migrations"} {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", errors.New("migrations directory not found (checked MIGRATIONS_DIR, ./db/migrations, /app/db/migrations)")
}

func printUsage() {
	name := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "usage: %s <command> [args]\n\ncommands:\n", name)
	for _, key := range commandOrder {
		fmt.Fprintf(os.Stderr, "  %s %s\n", name, commands[key].usage)
	}
}
