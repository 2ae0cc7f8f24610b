package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vsinha/mrpcore/pkg/application/dto"
	"github.com/vsinha/mrpcore/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	RunTime   time.Duration
	// Writer receives text and json output; nil means stdout
	Writer io.Writer
}

func (c Config) writer() io.Writer {
	if c.Writer == nil {
		return os.Stdout
	}
	return c.Writer
}

// Generate creates output in the specified format
func Generate(result dto.RunResult, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTextOutput(result, config)
	case "json":
		return generateJSONOutput(result, config)
	case "csv":
		return generateCSVOutput(result, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(result dto.RunResult, config Config) error {
	w := config.writer()

	fmt.Fprintf(w, "📊 MRP Results Summary\n")
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Result: %s (%d)\n", result.Code, int(result.Code))
	if result.Message != "" {
		fmt.Fprintf(w, "Message: %s\n", result.Message)
	}

	plan := result.Plan
	if plan != nil {
		fmt.Fprintf(w, "Plan: %s\n", plan.PlanID)
		fmt.Fprintf(w, "Facility: %s\n", plan.FacilityID)
		fmt.Fprintf(w, "Mode: %s\n", plan.Mode)
		fmt.Fprintf(w, "Horizon: %s (bucket %d days)\n", plan.Horizon, plan.BucketDays)
		fmt.Fprintf(w, "Planned Orders: %d\n", len(plan.PlannedOrders))
	}
	fmt.Fprintf(w, "Exceptions: %d\n", len(result.Exceptions))
	if config.RunTime > 0 {
		fmt.Fprintf(w, "Run Time: %v\n", config.RunTime)
	}
	fmt.Fprintln(w)

	if plan != nil && len(plan.PlannedOrders) > 0 {
		fmt.Fprintf(w, "📋 Planned Orders:\n")
		fmt.Fprintf(w, "%-5s %-15s %-10s %-12s %-12s %-11s %-5s\n",
			"Line", "Product", "Qty", "Start Date", "Due Date", "Order Type", "Level")
		fmt.Fprintf(w, "%-5s %-15s %-10s %-12s %-12s %-11s %-5s\n",
			"-----", "---------------", "----------", "------------", "------------", "-----------", "-----")

		for _, order := range plan.PlannedOrders {
			start := order.SuggestedStartDate.Format(entities.DateLayout)
			if order.Clamped {
				start += "*"
			}
			fmt.Fprintf(w, "%-5d %-15s %-10s %-12s %-12s %-11s %-5d\n",
				order.Line,
				order.ProductID,
				order.Quantity.String(),
				start,
				order.SuggestedDueDate.Format(entities.DateLayout),
				order.OrderType.String(),
				order.Level)
		}
		fmt.Fprintln(w)
	}

	if len(result.Exceptions) > 0 {
		fmt.Fprintf(w, "⚠️  Exceptions:\n")
		for _, exc := range result.Exceptions {
			product := exc.ProductID
			if product == "" {
				product = "-"
			}
			fmt.Fprintf(w, "  %-22s %-15s %s\n", exc.Kind, product, exc.Message)
		}
		fmt.Fprintln(w)
	}

	if plan != nil && plan.Mode == entities.NetChange {
		fmt.Fprintf(w, "🔁 Changes since %s: %d\n", previousLabel(plan), len(plan.Changes))
		for _, change := range plan.Changes {
			fmt.Fprintf(w, "  %-8s %-15s %-12s %s -> %s\n",
				change.Kind,
				change.ProductID,
				change.DueDate.Format(entities.DateLayout),
				change.OldQuantity.String(),
				change.NewQuantity.String())
		}
		fmt.Fprintln(w)
	}

	if config.OutputDir != "" {
		if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		filename := filepath.Join(config.OutputDir, "mrp_results.txt")
		var text strings.Builder
		copied := config
		copied.OutputDir = ""
		copied.Writer = &text
		if err := generateTextOutput(result, copied); err != nil {
			return err
		}
		if err := os.WriteFile(filename, []byte(text.String()), 0644); err != nil {
			return fmt.Errorf("failed to write text file: %w", err)
		}
		if config.Verbose {
			fmt.Fprintf(w, "💾 Results saved to: %s\n", filename)
		}
	}

	return nil
}

func previousLabel(plan *entities.MrpPlan) string {
	if plan.PreviousPlanID == "" {
		return "no previous plan"
	}
	return plan.PreviousPlanID
}

// generateJSONOutput creates JSON output
func generateJSONOutput(result dto.RunResult, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Fprintln(config.writer(), string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "mrp_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.writer(), "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput creates CSV output
func generateCSVOutput(result dto.RunResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	var orders []entities.PlannedOrder
	var changes []entities.PlanChange
	if result.Plan != nil {
		orders = result.Plan.PlannedOrders
		changes = result.Plan.Changes
	}

	ordersFile := filepath.Join(config.OutputDir, "planned_orders.csv")
	if err := writeOrdersCSV(orders, ordersFile); err != nil {
		return fmt.Errorf("failed to write planned orders CSV: %w", err)
	}

	exceptionsFile := filepath.Join(config.OutputDir, "exceptions.csv")
	if err := writeExceptionsCSV(result.Exceptions, exceptionsFile); err != nil {
		return fmt.Errorf("failed to write exceptions CSV: %w", err)
	}

	changesFile := filepath.Join(config.OutputDir, "changes.csv")
	if err := writeChangesCSV(changes, changesFile); err != nil {
		return fmt.Errorf("failed to write changes CSV: %w", err)
	}

	if config.Verbose {
		w := config.writer()
		fmt.Fprintf(w, "💾 CSV results saved to:\n")
		fmt.Fprintf(w, "  Planned Orders: %s\n", ordersFile)
		fmt.Fprintf(w, "  Exceptions: %s\n", exceptionsFile)
		fmt.Fprintf(w, "  Changes: %s\n", changesFile)
	}

	return nil
}

func writeOrdersCSV(orders []entities.PlannedOrder, filename string) error {
	rows := make([][]string, 0, len(orders))
	for _, order := range orders {
		rows = append(rows, []string{
			strconv.Itoa(order.Line),
			order.ProductID,
			order.FacilityID,
			order.Quantity.String(),
			order.SuggestedStartDate.Format(entities.DateLayout),
			order.SuggestedDueDate.Format(entities.DateLayout),
			order.OrderType.String(),
			order.Status.String(),
			strconv.Itoa(order.Level),
			strconv.FormatBool(order.Clamped),
		})
	}
	header := []string{"line", "product_id", "facility_id", "quantity", "start_date", "due_date", "order_type", "status", "level", "clamped"}
	return writeCSV(filename, header, rows)
}

func writeExceptionsCSV(exceptions []entities.PlanException, filename string) error {
	rows := make([][]string, 0, len(exceptions))
	for _, exc := range exceptions {
		rows = append(rows, []string{
			string(exc.Kind),
			exc.ProductID,
			exc.Message,
			strings.Join(exc.Path, " -> "),
		})
	}
	return writeCSV(filename, []string{"kind", "product_id", "message", "path"}, rows)
}

func writeChangesCSV(changes []entities.PlanChange, filename string) error {
	rows := make([][]string, 0, len(changes))
	for _, change := range changes {
		rows = append(rows, []string{
			string(change.Kind),
			change.ProductID,
			change.DueDate.Format(entities.DateLayout),
			change.OldQuantity.String(),
			change.NewQuantity.String(),
		})
	}
	return writeCSV(filename, []string{"kind", "product_id", "due_date", "old_quantity", "new_quantity"}, rows)
}

func writeCSV(filename string, header []string, rows [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}
