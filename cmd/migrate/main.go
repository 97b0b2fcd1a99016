package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"taskboard/internal/config"
	"taskboard/internal/migration"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var transactional bool

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the task board database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVar(&transactional, "tx", false, "wrap each migration file in a transaction")

	engine := func() (*migration.Engine, error) {
		cfg := config.Load()
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
		)
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		e := migration.NewEngine(db, cfg.MigrationsDir)
		e.Transactional = transactional
		return e, nil
	}

	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engine()
			if err != nil {
				return err
			}
			if err := e.Run(cmd.Context()); err != nil {
				return err
			}
			log.Println("✅ Migrations up to date")
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "rollback",
		Short: "Undo the single most recently applied migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engine()
			if err != nil {
				return err
			}
			filename, err := e.RollbackLast(cmd.Context())
			if errors.Is(err, migration.ErrNoRollbackFile) {
				log.Printf("⚠️  %v — ledger left untouched", err)
				return nil
			}
			if err != nil {
				return err
			}
			if filename == "" {
				log.Println("Nothing to roll back")
				return nil
			}
			log.Printf("✅ Rolled back %s", filename)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "List executed migrations in order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engine()
			if err != nil {
				return err
			}
			records, err := e.Executed(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations executed")
				return nil
			}
			for _, rec := range records {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", rec.Filename, rec.ExecutedAt.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Drop all core tables including the migration ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := engine()
			if err != nil {
				return err
			}
			if err := e.Reset(cmd.Context()); err != nil {
				return err
			}
			log.Println("✅ All tables dropped")
			return nil
		},
	})

	return root
}
