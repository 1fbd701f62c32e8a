package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Raymond9734/crm-backend/internal/config"
	"github.com/Raymond9734/crm-backend/internal/db"
	"github.com/Raymond9734/crm-backend/internal/seed"
	"github.com/Raymond9734/crm-backend/internal/service"
)

type seedOptions struct {
	File     string
	Orders   int
	RandSeed uint64
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo customers, products and orders",
		Long: `Get or create the fixture customers (by email) and products (by name)
through the regular validation rules, then place random orders.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("rand-seed") {
				opts.RandSeed = uint64(time.Now().UnixNano())
			}
			return runSeed(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "fixtures YAML file (defaults to the built-in demo data)")
	cmd.Flags().IntVar(&opts.Orders, "orders", 5, "number of random orders to create")
	cmd.Flags().Uint64Var(&opts.RandSeed, "rand-seed", 0, "seed for the random order generator")

	return cmd
}

func runSeed(cmd *cobra.Command, rootOpts *RootOptions, opts *seedOptions) error {
	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr(), rootOpts.Verbose)

	if opts.Orders < 0 {
		return fmt.Errorf("--orders must not be negative")
	}

	fixtures, err := loadFixtures(opts.File)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	database, err := db.New(databaseConfig(cfg.Database))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}

	seeder := seed.NewSeeder(service.New(database, logger), cmd.OutOrStdout(), opts.RandSeed, logger)
	_, err = seeder.Run(ctx, fixtures, opts.Orders)
	return err
}

func loadFixtures(path string) (*seed.Fixtures, error) {
	if path == "" {
		return seed.DefaultFixtures()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open fixtures: %w", err)
	}
	defer f.Close()

	return seed.LoadFixtures(f)
}
