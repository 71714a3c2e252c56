package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/prodtrack/auth-service/internal/config"
	"github.com/prodtrack/auth-service/internal/database"
	"github.com/prodtrack/auth-service/internal/repository"
	"github.com/prodtrack/auth-service/internal/tools/common"
	"github.com/prodtrack/auth-service/internal/tools/ui"
)

type options struct {
	envFile                 string
	bootstrapSuperuserEmail string
	ci                      bool
}

func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{Use: "seed", Short: "Database seed tooling"}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.PersistentFlags().StringVar(&opts.bootstrapSuperuserEmail, "bootstrap-superuser-email", "", "override bootstrap superuser email")
	cmd.PersistentFlags().BoolVar(&opts.ci, "ci", false, "non-interactive machine-readable output")
	cmd.AddCommand(newApplyCommand(opts), newDryRunCommand(opts), newRolesCommand(opts))
	return cmd
}

func newApplyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Apply default seed data",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed apply", func(ctx context.Context) ([]string, error) {
				cfg, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				email := cfg.BootstrapSuperuserEmail
				if opts.bootstrapSuperuserEmail != "" {
					email = opts.bootstrapSuperuserEmail
				}
				report, err := database.SeedSync(db, email)
				if err != nil {
					return nil, err
				}
				details := []string{
					fmt.Sprintf("created %d roles, %d permissions, %d bindings", report.CreatedRoles, report.CreatedPermissions, report.BoundPermissions),
				}
				if report.Noop {
					details = append(details, "seed data already present")
				}
				if email != "" {
					details = append(details, "superuser promotion attempted for: "+email)
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "seed apply", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newDryRunCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dry-run",
		Short: "Show what seeding would do",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed dry-run", func(ctx context.Context) ([]string, error) {
				cfg, _, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				email := cfg.BootstrapSuperuserEmail
				if opts.bootstrapSuperuserEmail != "" {
					email = opts.bootstrapSuperuserEmail
				}
				details := []string{
					"would ensure permissions: users, roles, permissions (read/write)",
					"would ensure roles: user, admin",
					"would map admin role to all default permissions",
				}
				if email != "" {
					details = append(details, fmt.Sprintf("would promote superuser if present: %s", email))
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "seed dry-run", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func newRolesCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List roles currently in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			details, err := run(opts, "seed roles", func(ctx context.Context) ([]string, error) {
				_, db, err := loadConfigDB(opts.envFile)
				if err != nil {
					return nil, err
				}
				roles, err := repository.NewRoleRepository(db).List()
				if err != nil {
					return nil, err
				}
				if len(roles) == 0 {
					return []string{"no roles found; run seed apply first"}, nil
				}
				details := make([]string, 0, len(roles))
				for _, role := range roles {
					state := "active"
					if !role.IsActive {
						state = "inactive"
					}
					details = append(details, fmt.Sprintf("%s (%s)", role.Name, state))
				}
				return details, nil
			})
			if opts.ci {
				common.PrintCIResult(err == nil, "seed roles", details, err)
			}
			if err != nil {
				os.Exit(3)
			}
			return nil
		},
	}
}

func run(opts *options, title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	if opts.ci {
		return fn(context.Background())
	}
	return ui.Run(title, fn)
}

func loadConfigDB(envFile string) (*config.Config, *gorm.DB, error) {
	if err := common.LoadEnvFile(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}
