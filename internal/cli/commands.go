package cli

import (
	"fmt"

	"hiring_backend/internal/app"
	"hiring_backend/internal/config"
	"hiring_backend/internal/services/dto"
	"hiring_backend/internal/validator"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(config.AppConfig)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := openDatabase(config.AppConfig); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Migrations applied"))
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create an admin account if it does not exist yet",
	Long: `Create an admin portal account. Flags fall back to
admin.first_admin_* from the configuration.`,
	Example: `  hiring seed-admin --email admin@example.com --password 'S3cure-pass' --name "Jane Admin"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		emailFlag, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")

		req := &dto.SeedAdminRequest{
			Name:     firstNonEmpty(name, cfg.Admin.FirstAdminName),
			Email:    firstNonEmpty(emailFlag, cfg.Admin.FirstAdminEmail),
			Password: firstNonEmpty(password, cfg.Admin.FirstAdminPassword),
		}
		if err := validator.New().Validate(req); err != nil {
			return err
		}

		db, application, err := openApplication(cfg)
		if err != nil {
			return err
		}
		defer application.Close()

		admin, created, err := application.Services.AdminService.SeedFirstAdmin(db.WithContext(cmd.Context()), req)
		if err != nil {
			return err
		}
		if !created {
			fmt.Println(labelStyle.Render("Admin already exists: ") + valueStyle.Render(admin.Email))
			return nil
		}
		fmt.Println(successStyle.Render("✓ Admin created: ") + valueStyle.Render(admin.Email))
		return nil
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Align candidate statuses with their assignments once",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, application, err := openApplication(config.AppConfig)
		if err != nil {
			return err
		}
		defer application.Close()

		fixed := application.Worker.RunOnce(cmd.Context())
		fmt.Println(labelStyle.Render("Candidates fixed: ") + valueStyle.Render(fmt.Sprint(fixed)))
		return nil
	},
}

func init() {
	seedAdminCmd.Flags().String("email", "", "Admin email")
	seedAdminCmd.Flags().String("password", "", "Admin password (min 8 characters)")
	seedAdminCmd.Flags().String("name", "", "Admin display name")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
