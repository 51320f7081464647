package cli

import (
	"fmt"
	"os"

	"hiring_backend/internal/app"
	"hiring_backend/internal/config"
	"hiring_backend/internal/database"
	"hiring_backend/internal/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "hiring",
	Short: "Hiring portal backend",
	Long: `Hiring portal backend: HR creates candidates and assigns them to managers,
managers submit feedback, board members follow the whole pipeline.
Without a subcommand the HTTP server is started.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.InitWithLevel(cfg.Server.Env, os.Getenv("LOG_LEVEL"))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(config.AppConfig)
	},
}

// Execute запускает корневую команду
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedAdminCmd, statsCmd, reconcileCmd)
}

// openDatabase подключается к базе и накатывает миграции
func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// openApplication - приложение без HTTP сервера и без отправки писем
func openApplication(cfg *config.Config) (*gorm.DB, *app.Application, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	application, err := app.New(cfg, db, app.Overrides{EmailProvider: app.DisabledEmailProvider{}})
	if err != nil {
		return nil, nil, err
	}
	return db, application, nil
}
