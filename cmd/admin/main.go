// Command admin is the operator CLI: user creation, backups, point
// summarization, old-task purging and course-catalog imports. Database and
// S3 settings come from the same flags/JSON config as the server.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/planwise/planwise/internal/flagx"
	"github.com/planwise/planwise/internal/server/config"
	"github.com/planwise/planwise/internal/server/repositories/repomanager"
	"github.com/planwise/planwise/internal/server/services"
	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "create-user":
		err = createUser(ctx, db, rm, cfg)
	case "backup":
		err = backup(ctx, db, rm, cfg)
	case "purge-tasks":
		err = purgeTasks(ctx, db, rm)
	case "points":
		err = points(ctx, db, rm)
	case "import-courses":
		err = importCourses(ctx, db, rm)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: admin <command> [flags]

commands:
  create-user     -email <addr>         create an account, password prompted
  backup          [-user <id>]          export snapshots to S3 (all users by default)
  purge-tasks     [-days <n>]           hard-delete old soft-deleted tasks
  points          [-days <n>]           award points for unscored actions
  import-courses  <file.json> [...]     merge course catalog files`)
}

// subFlags parses only the flags the subcommand recognizes, so the shared
// config flags (-d, -s, ...) pass through untouched.
func subFlags(fs *flag.FlagSet, names []string) error {
	return fs.Parse(flagx.FilterArgs(os.Args[2:], names))
}

func createUser(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)
	email := fs.String("email", "", "email address of the new account")
	if err := subFlags(fs, []string{"-email"}); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("create-user: -email is required")
	}

	fmt.Fprint(os.Stderr, "password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("error reading password: %w", err)
	}

	user, err := services.NewUserService(db, rm, cfg).Register(ctx, *email, string(password))
	if err != nil {
		return fmt.Errorf("error creating user: %w", err)
	}

	fmt.Printf("created user %s (%s)\n", user.Email, user.ID)
	return nil
}

func backup(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager, cfg *config.Config) error {
	fs := flag.NewFlagSet("backup", flag.ExitOnError)
	userID := fs.String("user", "", "export only this user")
	if err := subFlags(fs, []string{"-user"}); err != nil {
		return err
	}

	svc := services.NewBackupService(db, rm, cfg)

	if *userID != "" {
		key, url, err := svc.ExportUser(ctx, *userID)
		if err != nil {
			return err
		}
		fmt.Printf("exported %s\n%s\n", key, url)
		return nil
	}

	n, err := svc.ExportAll(ctx)
	fmt.Printf("exported %d users\n", n)
	return err
}

func purgeTasks(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager) error {
	fs := flag.NewFlagSet("purge-tasks", flag.ExitOnError)
	days := fs.Int("days", 90, "purge soft-deleted tasks ending more than this many days ago")
	if err := subFlags(fs, []string{"-days"}); err != nil {
		return err
	}

	cutoff := time.Now().AddDate(0, 0, -*days)
	n, err := services.NewTaskService(db, rm).Purge(ctx, cutoff)
	if err != nil {
		return err
	}

	fmt.Printf("purged %d tasks\n", n)
	return nil
}

func points(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager) error {
	fs := flag.NewFlagSet("points", flag.ExitOnError)
	days := fs.Int("days", 1, "score actions recorded within this many days")
	if err := subFlags(fs, []string{"-days"}); err != nil {
		return err
	}

	to := time.Now()
	from := to.AddDate(0, 0, -*days)

	n, err := services.NewAnalyticsService(db, rm).SummarizePoints(ctx, from, to)
	if err != nil {
		return err
	}

	fmt.Printf("awarded %d points\n", n)
	return nil
}

func importCourses(ctx context.Context, db *sql.DB, rm repomanager.RepositoryManager) error {
	files := flagx.FilterPositional(os.Args[2:])
	if len(files) == 0 {
		return fmt.Errorf("import-courses: at least one JSON file is required")
	}

	svc := services.NewCourseService(db, rm)

	total := 0
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("error opening %s: %w", path, err)
		}
		n, err := svc.Import(ctx, f)
		f.Close()
		if err != nil {
			return fmt.Errorf("error importing %s: %w", path, err)
		}
		total += n
	}

	fmt.Printf("imported %d courses\n", total)
	return nil
}
