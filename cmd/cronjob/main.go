package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hazel-marketplace/internal/config"
	"hazel-marketplace/internal/jobs"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/repository/postgres"
	"hazel-marketplace/internal/scheduler"
	"hazel-marketplace/internal/seed"
	"hazel-marketplace/internal/service"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hazel-cron",
	Short: "HAZEL scheduled jobs",
	Long: `Runs the HAZEL rental jobs on their cron schedules, or once on demand.

Jobs:
  mark-overdue-rentals    flag active rentals past their end date
  send-return-reminders   email renters whose rental ends tomorrow
  all-nightly             both of the above`,
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		s, err := scheduler.NewScheduler(newJobRunner(cfg, db), cfg.Scheduler)
		if err != nil {
			return err
		}
		s.Start()
		logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

		<-cmd.Context().Done()
		s.Stop()
		logger.Info("Cronjob scheduler stopped. Goodbye!")
		return nil
	},
}

var runOnceCmd = &cobra.Command{
	Use:       "run-once <job>",
	Short:     "Run a single job and exit",
	Args:      cobra.ExactArgs(1),
	ValidArgs: jobNames(),
	RunE: func(cmd *cobra.Command, args []string) error {
		job, ok := jobTable[args[0]]
		if !ok {
			return fmt.Errorf("unknown job %q, available: %v", args[0], jobNames())
		}
		cfg, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		logger.Info("Running job once", "job", args[0])
		job(newJobRunner(cfg, db))
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		return postgres.Migrate(cmd.Context(), db)
	},
}

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create bootstrap accounts and demo listings",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := seed.Load(seedFile)
		if err != nil {
			return err
		}
		_, db, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		store := postgres.NewStore(db)
		res, err := seed.NewSeeder(store.UserRepository, store.CategoryRepository, store.ListingRepository).Apply(cmd.Context(), data)
		if err != nil {
			return err
		}
		fmt.Printf("Seed complete: %d users, %d listings created\n", res.UsersCreated, res.ListingsCreated)
		return nil
	},
}

var jobTable = map[string]func(*jobs.JobRunner){
	"mark-overdue-rentals":  (*jobs.JobRunner).MarkOverdueRentals,
	"send-return-reminders": (*jobs.JobRunner).SendReturnReminders,
	"all-nightly":           (*jobs.JobRunner).RunAllNightlyJobs,
}

func jobNames() []string {
	names := make([]string, 0, len(jobTable))
	for name := range jobTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func bootstrap(ctx context.Context) (*config.Config, *sql.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting HAZEL cronjob runner...", "log_level", cfg.Log.Level)

	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)
	return cfg, db, nil
}

// newJobRunner wires the rental service the jobs need. Emails are sent
// synchronously since run-once exits as soon as the job returns.
func newJobRunner(cfg *config.Config, db *sql.DB) *jobs.JobRunner {
	store := postgres.NewStore(db)

	mailer := service.NewLogMailer()
	if cfg.SendGrid.APIKey != "" {
		mailer = service.NewSendGridMailer(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	}

	push := service.NewNoopPush()
	if cfg.Firebase.CredentialsFile != "" {
		p, err := service.NewFirebasePush(context.Background(), cfg.Firebase.CredentialsFile)
		if err != nil {
			logger.Warn("Push disabled", "error", err)
		} else {
			push = p
		}
	}

	noteSvc := service.NewNotificationService(store.NotificationRepository, push)
	rentalSvc := service.NewRentalService(store.TransactionRepository, store.UserRepository, noteSvc, service.NewEmailService(mailer))
	return jobs.NewJobRunner(rentalSvc, 10*time.Minute)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")
	seedCmd.Flags().StringVar(&seedFile, "file", "config/seed.dev.yaml", "Seed data file")
	rootCmd.AddCommand(serveCmd, runOnceCmd, migrateCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
