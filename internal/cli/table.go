package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"rental-manager/internal/domain"
	"rental-manager/internal/service"
)

// emptyCell marks a free day in the calendar.
const emptyCell = "·"

type detail struct {
	label string
	value string
}

func printRentalDetails(cmd *cobra.Command, title string, details []detail) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	for _, d := range details {
		fmt.Fprintf(out, "- %s: %s\n", d.label, d.value)
	}
}

// printTable writes a header, a divider and the rows as aligned columns.
func printTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	dividers := make([]string, len(headers))
	for i, h := range headers {
		dividers[i] = strings.Repeat("-", utf8.RuneCountInString(h))
	}
	fmt.Fprintln(tw, strings.Join(dividers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

func printDevices(cmd *cobra.Command, svcs *service.Services, status domain.DeviceStatus) error {
	devices, err := svcs.Devices.ListDevices(cmd.Context(), status)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(devices))
	for _, d := range devices {
		rows = append(rows, []string{d.ID, d.Name, d.Category, formatMoney(d.DailyRate) + "/天", string(d.Status)})
	}
	return printTable(cmd.OutOrStdout(), []string{"ID", "名称", "类型", "日租金", "状态"}, rows)
}

func printCustomers(cmd *cobra.Command, svcs *service.Services) error {
	customers, err := svcs.Customers.ListCustomers(cmd.Context())
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []string{c.ID, c.Name, c.Phone, c.Email})
	}
	return printTable(cmd.OutOrStdout(), []string{"ID", "客户名", "电话", "邮箱"}, rows)
}

func printRentals(cmd *cobra.Command, svcs *service.Services, status domain.RentalStatus) error {
	rentals, err := svcs.Rentals.ListRentals(cmd.Context(), status)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(rentals))
	for _, r := range rentals {
		returned := "-"
		if r.EndDate != nil {
			returned = r.EndDate.String()
		}
		cost := "-"
		if r.TotalCost != nil {
			cost = formatMoney(*r.TotalCost)
		}
		rows = append(rows, []string{
			r.ID,
			deviceName(cmd, svcs, r.DeviceID),
			customerName(cmd, svcs, r.CustomerID),
			r.StartDate.String(),
			r.PlannedEndDate.String(),
			returned,
			orDash(r.Address),
			string(r.Status),
			cost,
			r.Notes,
		})
	}
	headers := []string{"订单ID", "设备", "客户", "开始", "计划归还", "实际归还", "地址", "状态", "总费用", "备注"}
	return printTable(cmd.OutOrStdout(), headers, rows)
}

func printCalendar(cmd *cobra.Command, cal *service.Calendar) error {
	headers := []string{"设备"}
	for _, d := range cal.Days {
		headers = append(headers, fmt.Sprintf("%02d", d))
	}

	rows := make([][]string, 0, len(cal.Rows))
	for _, row := range cal.Rows {
		cells := []string{row.DeviceName}
		for _, cell := range row.Cells {
			if cell == "" {
				cell = emptyCell
			}
			cells = append(cells, cell)
		}
		rows = append(rows, cells)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d-%02d\n", cal.Year, int(cal.Month))
	return printTable(cmd.OutOrStdout(), headers, rows)
}

func printSummary(cmd *cobra.Command, svcs *service.Services) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "\n设备列表:")
	if err := printDevices(cmd, svcs, ""); err != nil {
		return err
	}
	fmt.Fprintln(out, "\n客户列表:")
	if err := printCustomers(cmd, svcs); err != nil {
		return err
	}
	fmt.Fprintln(out, "\n租赁记录:")
	return printRentals(cmd, svcs, "")
}

func deviceName(cmd *cobra.Command, svcs *service.Services, id string) string {
	if d, err := svcs.Devices.GetDevice(cmd.Context(), id); err == nil {
		return d.Name
	}
	return id
}

func customerName(cmd *cobra.Command, svcs *service.Services, id string) string {
	if c, err := svcs.Customers.GetCustomer(cmd.Context(), id); err == nil {
		return c.Name
	}
	return id
}

func formatMoney(amount float64) string {
	return "¥" + decimal.NewFromFloat(amount).StringFixed(2)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func parseDays(value string) (int, error) {
	days, err := strconv.Atoi(value)
	if err != nil {
		return 0, domain.InvalidInputf("invalid number of days %q", value)
	}
	return days, nil
}
