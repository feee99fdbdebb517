// Package cli implements the rentalctl command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"rental-manager/internal/clock"
	"rental-manager/internal/config"
	"rental-manager/internal/logger"
	"rental-manager/internal/service"
	"rental-manager/internal/storage"
)

// app carries what the commands share: flags, configuration and, while a
// command runs, the open backend.
type app struct {
	clock      clock.Clock
	configPath string
	dataFile   string

	cfg     *config.Config
	backend *storage.Backend
}

// NewRootCommand builds the rentalctl command tree. The clock decides what
// "today" is for status derivation, prompts and the default calendar month.
func NewRootCommand(clk clock.Clock) *cobra.Command {
	a := &app{clock: clk}

	root := &cobra.Command{
		Use:           "rentalctl",
		Short:         "数码设备租赁管理 CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "配置文件路径 (YAML)")
	root.PersistentFlags().StringVar(&a.dataFile, "data", "", "数据文件路径，默认为 data/rentals.json")

	root.AddCommand(
		a.initCommand(),
		a.seedCommand(),
		a.addDeviceCommand(),
		a.addCustomerCommand(),
		a.rentCommand(),
		a.autoScheduleCommand(),
		a.aiRentCommand(),
		a.returnCommand(),
		a.listDevicesCommand(),
		a.listCustomersCommand(),
		a.listRentalsCommand(),
		a.calendarCommand(),
		a.maintenanceCommand(),
		a.refreshStatusCommand(),
	)
	return root
}

func (a *app) loadConfig() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dataFile != "" {
		cfg.Storage.DataFile = a.dataFile
	}
	a.cfg = cfg

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Debug("Configuration loaded", "storage", cfg.Storage.Type, "dataFile", cfg.Storage.DataFile)
	return nil
}

func (a *app) open(ctx context.Context) (*storage.Backend, error) {
	backend, err := storage.Open(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	a.backend = backend
	return backend, nil
}

func (a *app) close() {
	if a.backend == nil {
		return
	}
	if err := a.backend.Close(); err != nil {
		logger.Warn("Failed to close storage", "error", err)
	}
	a.backend = nil
}

// withServices opens the store, loads the records and hands the wired
// services to fn, closing the store afterwards.
func (a *app) withServices(fn func(cmd *cobra.Command, args []string, svcs *service.Services) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		backend, err := a.open(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		reg, err := service.LoadRegistry(ctx, backend.Store)
		if err != nil {
			return err
		}

		svcs := service.NewServices(reg, a.clock, service.Options{
			MaxSearchDays:      a.cfg.Scheduling.MaxSearchDays,
			PromptFallbackDays: a.cfg.Scheduling.PromptFallbackDays,
		})
		return fn(cmd, args, svcs)
	}
}
