package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"projecttracker/config"
	"projecttracker/migrations"
	"projecttracker/models"
	"projecttracker/reports"
	"projecttracker/repository"
	"projecttracker/utils"
)

// cliEnv is what the operator commands need from the outside world.
type cliEnv struct {
	out io.Writer
	// openRepos connects to the store; the returned func releases it.
	openRepos func() (*repository.Repositories, func(), error)
	// databaseURL resolves the migration target.
	databaseURL func() (string, error)
}

func defaultEnv() *cliEnv {
	return &cliEnv{
		out: os.Stdout,
		openRepos: func() (*repository.Repositories, func(), error) {
			if err := config.LoadConfig(); err != nil {
				return nil, nil, err
			}
			if err := config.ConnectDB(); err != nil {
				return nil, nil, err
			}
			return repository.NewGormRepositories(config.DB), config.CloseDB, nil
		},
		databaseURL: func() (string, error) {
			if err := config.LoadConfig(); err != nil {
				return "", err
			}
			return config.AppConfig.DatabaseURL(), nil
		},
	}
}

func (e *cliEnv) withRepos(fn func(ctx context.Context, repos *repository.Repositories) error) error {
	repos, closeFn, err := e.openRepos()
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return fn(ctx, repos)
}

func newMigrateCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := env.databaseURL()
			if err != nil {
				return err
			}
			if err := migrations.Down(url, steps); err != nil {
				return err
			}
			fmt.Fprintf(env.out, "Rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				url, err := env.databaseURL()
				if err != nil {
					return err
				}
				if err := migrations.Up(url); err != nil {
					return err
				}
				fmt.Fprintln(env.out, "Migrations applied")
				return nil
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				url, err := env.databaseURL()
				if err != nil {
					return err
				}
				version, dirty, ok, err := migrations.Version(url)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(env.out, "No migrations applied")
					return nil
				}
				fmt.Fprintf(env.out, "Schema version %d (dirty: %t)\n", version, dirty)
				return nil
			},
		},
	)
	return cmd
}

func newAdminCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Inspect and repair admin accounts",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List admin users, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return env.withRepos(func(ctx context.Context, repos *repository.Repositories) error {
				users, err := repos.AdminUsers.List(ctx)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "USERNAME\tROLE\tACTIVE\tID\tCREATED")
				for _, u := range users {
					fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", u.Username, u.Role, u.IsActive, u.ID, u.CreatedAt.Format(time.RFC3339))
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(env.out, "Total: %d\n", len(users))
				return nil
			})
		},
	}

	var resetPassword string
	reset := &cobra.Command{
		Use:   "reset",
		Short: "Delete every admin user and create a single superadmin",
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(resetPassword)
			if err != nil {
				return err
			}
			return env.withRepos(func(ctx context.Context, repos *repository.Repositories) error {
				removed, err := repos.AdminUsers.DeleteAll(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(env.out, "Deleted %d admin user(s)\n", removed)

				user := &models.AdminUser{
					Username:     "superadmin",
					PasswordHash: hash,
					Role:         models.AdminRoleSuperAdmin,
					IsActive:     true,
				}
				if err := repos.AdminUsers.Create(ctx, user); err != nil {
					return err
				}
				fmt.Fprintf(env.out, "Created %s (%s) with id %s\n", user.Username, user.Role, user.ID)
				return nil
			})
		},
	}
	reset.Flags().StringVar(&resetPassword, "password", "", "Password for the new superadmin")
	_ = reset.MarkFlagRequired("password")

	setPassword := &cobra.Command{
		Use:   "set-password <username> <password>",
		Short: "Replace one admin user's password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := utils.HashPassword(args[1])
			if err != nil {
				return err
			}
			return env.withRepos(func(ctx context.Context, repos *repository.Repositories) error {
				user, err := repos.AdminUsers.GetByUsername(ctx, args[0])
				if errors.Is(err, repository.ErrNotFound) {
					return fmt.Errorf("admin user %q not found", args[0])
				}
				if err != nil {
					return err
				}
				if err := repos.AdminUsers.SetPassword(ctx, user.ID, hash); err != nil {
					return err
				}
				fmt.Fprintf(env.out, "Password updated for %s\n", user.Username)
				return nil
			})
		},
	}

	cmd.AddCommand(list, reset, setPassword)
	return cmd
}

func newAllocationsCmd(env *cliEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocations",
		Short: "Allocation maintenance",
	}

	var (
		month string
		year  int
	)
	check := &cobra.Command{
		Use:   "check",
		Short: "Report people allocated above 100% in a month",
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" && models.MonthIndex(month) < 0 {
				return fmt.Errorf("unknown month %q", month)
			}
			return env.withRepos(func(ctx context.Context, repos *repository.Repositories) error {
				allocations, err := repos.Allocations.List(ctx, repository.AllocationFilter{Month: month, Year: year})
				if err != nil {
					return err
				}
				over := reports.FindOverAllocated(allocations)
				if len(over) == 0 {
					fmt.Fprintf(env.out, "Checked %d allocation(s): nobody is over-allocated\n", len(allocations))
					return nil
				}

				w := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "EMPLOYEE\tMONTH\tYEAR\tTOTAL")
				for _, g := range over {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s%%\n", g.EmployeeName, g.Month, g.Year, g.TotalPercentage.String())
				}
				if err := w.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(env.out, "Checked %d allocation(s): %d over-allocated\n", len(allocations), len(over))
				return nil
			})
		},
	}
	check.Flags().StringVar(&month, "month", "", "Only check this month (full English name)")
	check.Flags().IntVar(&year, "year", 0, "Only check this year")

	cmd.AddCommand(check)
	return cmd
}
