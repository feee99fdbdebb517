package cli

import (
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"rental-manager/internal/config"
	"rental-manager/internal/domain"
	"rental-manager/internal/service"
)

func (a *app) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "初始化空的数据文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			backend, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if backend.Type == config.StorageTypePostgres {
				fmt.Fprintf(cmd.OutOrStdout(), "已初始化数据库: %s\n", backend.Location)
				return nil
			}

			if _, err := os.Stat(a.cfg.Storage.DataFile); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "数据文件已存在: %s\n", a.cfg.Storage.DataFile)
				return nil
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			if err := backend.Store.Save(ctx, domain.EmptySnapshot()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已创建数据文件: %s\n", a.cfg.Storage.DataFile)
			return nil
		},
	}
}

func (a *app) seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "初始化并生成示例数据",
		Args:  cobra.NoArgs,
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			seeded, err := svcs.Seed(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if seeded {
				fmt.Fprintf(out, "示例数据已写入: %s\n", a.backend.Location)
			} else {
				fmt.Fprintf(out, "已有数据，未写入示例数据: %s\n", a.backend.Location)
			}
			return printSummary(cmd, svcs)
		}),
	}
}

func (a *app) addDeviceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-device <name> <category> <daily_rate>",
		Short: "新增设备",
		Args:  cobra.ExactArgs(3),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			rate, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return domain.InvalidInputf("invalid daily rate %q", args[2])
			}

			device, err := svcs.Devices.AddDevice(cmd.Context(), args[0], args[1], rate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已添加设备 %s (ID: %s)\n", device.Name, device.ID)
			return nil
		}),
	}
}

func (a *app) addCustomerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-customer <name> <phone> <email>",
		Short: "新增客户",
		Args:  cobra.ExactArgs(3),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			customer, err := svcs.Customers.AddCustomer(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已添加客户 %s (ID: %s)\n", customer.Name, customer.ID)
			return nil
		}),
	}
}

func (a *app) listDevicesCommand() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list-devices",
		Short: "查看设备列表",
		Args:  cobra.NoArgs,
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			filter, err := domain.ParseDeviceStatus(status)
			if err != nil {
				return err
			}
			return printDevices(cmd, svcs, filter)
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "按状态过滤 (available|rented|scheduled|maintenance)")
	return cmd
}

func (a *app) listCustomersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list-customers",
		Short: "查看客户列表",
		Args:  cobra.NoArgs,
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			return printCustomers(cmd, svcs)
		}),
	}
}

func (a *app) listRentalsCommand() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list-rentals",
		Short: "查看租赁记录",
		Args:  cobra.NoArgs,
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			filter, err := domain.ParseRentalStatus(status)
			if err != nil {
				return err
			}
			return printRentals(cmd, svcs, filter)
		}),
	}
	cmd.Flags().StringVar(&status, "status", "", "按状态过滤 (active|closed)")
	return cmd
}

func (a *app) maintenanceCommand() *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "maintenance <device_id>",
		Short: "设置设备维护状态",
		Args:  cobra.ExactArgs(1),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			device, err := svcs.Devices.SetMaintenance(cmd.Context(), args[0], !off)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "设备 %s 当前状态: %s\n", device.Name, device.Status)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&off, "off", false, "结束维护并按租赁重新计算状态")
	return cmd
}
