package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"rental-manager/internal/clock"
	"rental-manager/internal/domain"
	"rental-manager/internal/service"
)

func (a *app) rentCommand() *cobra.Command {
	var (
		endDate string
		days    int
		address string
		notes   string
	)
	cmd := &cobra.Command{
		Use:   "rent <device_id> <customer_id> <start_date>",
		Short: "创建租赁订单",
		Args:  cobra.ExactArgs(3),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			start, err := domain.ParseDate(args[2])
			if err != nil {
				return err
			}
			req := service.RentRequest{
				DeviceID:   args[0],
				CustomerID: args[1],
				Start:      start,
				Days:       days,
				Notes:      notes,
				Address:    address,
			}
			if endDate != "" {
				end, err := domain.ParseDate(endDate)
				if err != nil {
					return err
				}
				req.End = &end
			}

			rental, err := svcs.Rentals.RentDevice(cmd.Context(), req)
			if err != nil {
				return err
			}

			printRentalDetails(cmd, "创建租赁成功:", []detail{
				{"订单 ID", rental.ID},
				{"设备 ID", rental.DeviceID},
				{"客户 ID", rental.CustomerID},
				{"起止时间", rental.StartDate.String() + " ~ " + rental.PlannedEndDate.String()},
				{"地址", orDash(rental.Address)},
			})
			return nil
		}),
	}
	cmd.Flags().StringVar(&endDate, "end-date", "", "结束日期 YYYY-MM-DD")
	cmd.Flags().IntVar(&days, "days", 0, "租期天数，与结束日期二选一")
	cmd.Flags().StringVar(&address, "address", "", "交付/收货地址")
	cmd.Flags().StringVar(&notes, "notes", "", "备注")
	return cmd
}

func (a *app) autoScheduleCommand() *cobra.Command {
	var (
		address string
		notes   string
	)
	cmd := &cobra.Command{
		Use:   "auto-schedule <device_id> <customer_id> <desired_start> <days>",
		Short: "自动排期创建租赁",
		Args:  cobra.ExactArgs(4),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			desired, err := domain.ParseDate(args[2])
			if err != nil {
				return err
			}
			days, err := parseDays(args[3])
			if err != nil {
				return err
			}

			rental, err := svcs.Rentals.AutoSchedule(cmd.Context(), service.AutoScheduleRequest{
				DeviceID:     args[0],
				CustomerID:   args[1],
				DesiredStart: desired,
				Days:         days,
				Notes:        notes,
				Address:      address,
			})
			if err != nil {
				return err
			}

			printRentalDetails(cmd, "自动排期成功:", []detail{
				{"订单 ID", rental.ID},
				{"设备", deviceName(cmd, svcs, rental.DeviceID)},
				{"客户", customerName(cmd, svcs, rental.CustomerID)},
				{"安排", rental.StartDate.String() + " ~ " + rental.PlannedEndDate.String()},
				{"地址", orDash(rental.Address)},
			})
			return nil
		}),
	}
	cmd.Flags().StringVar(&address, "address", "", "交付/收货地址")
	cmd.Flags().StringVar(&notes, "notes", "", "备注")
	return cmd
}

func (a *app) aiRentCommand() *cobra.Command {
	var fallbackDays int
	cmd := &cobra.Command{
		Use:   "ai-rent <device_id> <customer_id> <prompt>",
		Short: "识别自然语言描述创建租赁",
		Args:  cobra.ExactArgs(3),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			if fallbackDays < 0 {
				return domain.InvalidInputf("fallback days must not be negative: %d", fallbackDays)
			}

			rental, fields, err := svcs.Rentals.RentFromPrompt(cmd.Context(), service.PromptRentRequest{
				DeviceID:     args[0],
				CustomerID:   args[1],
				Prompt:       args[2],
				FallbackDays: fallbackDays,
			})
			if err != nil {
				return err
			}

			notes := rental.Notes
			if notes == "" {
				notes = fields.Notes
			}
			if notes == "" {
				notes = "无"
			}
			printRentalDetails(cmd, "AI 识别租赁成功:", []detail{
				{"订单 ID", rental.ID},
				{"设备", deviceName(cmd, svcs, rental.DeviceID)},
				{"客户", customerName(cmd, svcs, rental.CustomerID)},
				{"起止", rental.StartDate.String() + " ~ " + rental.PlannedEndDate.String()},
				{"地址", orDash(rental.Address)},
				{"备注", notes},
			})
			return nil
		}),
	}
	cmd.Flags().IntVar(&fallbackDays, "fallback-days", 0, "未识别到结束信息时使用的租期天数，默认取配置 scheduling.prompt_fallback_days")
	return cmd
}

func (a *app) returnCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "return <rental_id> <return_date>",
		Short: "归还设备并计算费用",
		Args:  cobra.ExactArgs(2),
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			returnDate, err := domain.ParseDate(args[1])
			if err != nil {
				return err
			}

			rental, err := svcs.Rentals.ReturnDevice(cmd.Context(), args[0], returnDate)
			if err != nil {
				return err
			}

			printRentalDetails(cmd, "已归还，订单结算:", []detail{
				{"订单 ID", rental.ID},
				{"设备 ID", rental.DeviceID},
				{"客户 ID", rental.CustomerID},
				{"起止时间", rental.StartDate.String() + " ~ " + rental.EndDate.String()},
				{"总计费用", formatMoney(*rental.TotalCost)},
			})
			return nil
		}),
	}
}

func (a *app) calendarCommand() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "输出当月设备排期日历",
		Args:  cobra.NoArgs,
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			year, mon, err := a.parseMonth(month)
			if err != nil {
				return err
			}

			cal, err := svcs.Calendar.CalendarMatrix(cmd.Context(), year, mon)
			if err != nil {
				return err
			}
			return printCalendar(cmd, cal)
		}),
	}
	cmd.Flags().StringVar(&month, "month", "", "目标月份，格式 YYYY-MM，默认本月")
	return cmd
}

func (a *app) refreshStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-status",
		Short: "按今天的日期重新计算设备状态",
		Args:  cobra.NoArgs,
		RunE: a.withServices(func(cmd *cobra.Command, args []string, svcs *service.Services) error {
			changed, err := svcs.Rentals.RefreshDeviceStatuses(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已更新 %d 台设备状态\n", changed)
			return printDevices(cmd, svcs, "")
		}),
	}
}

// parseMonth reads YYYY-MM, defaulting to the clock's current month.
func (a *app) parseMonth(value string) (int, time.Month, error) {
	if value == "" {
		today := clock.Today(a.clock)
		return today.Year(), today.Month(), nil
	}
	t, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, domain.InvalidInputf("invalid month %q, expected YYYY-MM", value)
	}
	return t.Year(), t.Month(), nil
}
