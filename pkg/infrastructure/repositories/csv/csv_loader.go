package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/mrpcore/pkg/domain/entities"
	"github.com/vsinha/mrpcore/pkg/infrastructure/repositories/memory"
)

// File names read by LoadDirectory. Only products.csv is required.
const (
	ProductsFile  = "products.csv"
	EdgesFile     = "components.csv"
	InventoryFile = "inventory.csv"
	ReceiptsFile  = "receipts.csv"
	DemandFile    = "demand.csv"
)

var (
	productsHeader  = []string{"facility_id", "product_id", "description", "lead_time_days", "lot_size_rule", "lot_size", "min_qty", "max_qty", "increment", "safety_stock", "procurement"}
	edgesHeader     = []string{"facility_id", "parent_id", "child_id", "qty_per", "effective_from", "effective_to"}
	inventoryHeader = []string{"facility_id", "product_id", "on_hand"}
	receiptsHeader  = []string{"facility_id", "product_id", "quantity", "available_date", "reference"}
	demandHeader    = []string{"facility_id", "product_id", "quantity", "due_date", "kind", "reference"}
)

// OnHandRecord is one row of inventory.csv
type OnHandRecord struct {
	FacilityID string
	ProductID  string
	Quantity   decimal.Decimal
}

// Dataset is a facility data set loaded into in-memory sources
type Dataset struct {
	Catalog   *memory.CatalogRepository
	Inventory *memory.InventoryRepository
	Demand    *memory.DemandRepository
}

// Loader handles loading planning data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadDirectory reads every known file in dir into fresh in-memory sources
func (l *Loader) LoadDirectory(dir string) (*Dataset, error) {
	dataset := &Dataset{
		Catalog:   memory.NewCatalogRepository(),
		Inventory: memory.NewInventoryRepository(),
		Demand:    memory.NewDemandRepository(),
	}

	products, err := l.LoadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}
	if err := dataset.Catalog.LoadProducts(products); err != nil {
		return nil, err
	}

	edges, err := optional(l.LoadEdges(filepath.Join(dir, EdgesFile)))
	if err != nil {
		return nil, err
	}
	for facilityID, facilityEdges := range edges {
		if err := dataset.Catalog.LoadEdges(facilityID, facilityEdges); err != nil {
			return nil, err
		}
	}

	onHand, err := optional(l.LoadOnHand(filepath.Join(dir, InventoryFile)))
	if err != nil {
		return nil, err
	}
	for _, record := range onHand {
		dataset.Inventory.SetOnHand(record.ProductID, record.FacilityID, record.Quantity)
	}

	receipts, err := optional(l.LoadReceipts(filepath.Join(dir, ReceiptsFile)))
	if err != nil {
		return nil, err
	}
	if err := dataset.Inventory.LoadReceipts(receipts); err != nil {
		return nil, err
	}

	demands, err := optional(l.LoadDemand(filepath.Join(dir, DemandFile)))
	if err != nil {
		return nil, err
	}
	if err := dataset.Demand.LoadDemands(demands); err != nil {
		return nil, err
	}

	return dataset, nil
}

// optional turns a missing file into an empty result
func optional[T any](value T, err error) (T, error) {
	if errors.Is(err, fs.ErrNotExist) {
		var zero T
		return zero, nil
	}
	return value, err
}

// LoadProducts loads products from a CSV file. Blank lead_time_days or
// lot_size_rule leave the product without a planning policy.
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readRecords(filename, "products", productsHeader)
	if err != nil {
		return nil, err
	}

	products := make([]*entities.Product, 0, len(records))
	for i, record := range records {
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}
	return products, nil
}

// LoadEdges loads component edges from a CSV file, grouped by facility
func (l *Loader) LoadEdges(filename string) (map[string][]*entities.ComponentEdge, error) {
	records, err := readRecords(filename, "components", edgesHeader)
	if err != nil {
		return nil, err
	}

	edges := make(map[string][]*entities.ComponentEdge)
	for i, record := range records {
		facilityID := strings.TrimSpace(record[0])
		if facilityID == "" {
			return nil, fmt.Errorf("components CSV row %d: facility id cannot be empty", i+2)
		}
		edge, err := parseEdge(record)
		if err != nil {
			return nil, fmt.Errorf("components CSV row %d: %w", i+2, err)
		}
		edges[facilityID] = append(edges[facilityID], edge)
	}
	return edges, nil
}

// LoadOnHand loads on-hand balances from a CSV file
func (l *Loader) LoadOnHand(filename string) ([]OnHandRecord, error) {
	records, err := readRecords(filename, "inventory", inventoryHeader)
	if err != nil {
		return nil, err
	}

	balances := make([]OnHandRecord, 0, len(records))
	for i, record := range records {
		quantity, err := parseQuantity("on_hand", record[2])
		if err != nil {
			return nil, fmt.Errorf("inventory CSV row %d: %w", i+2, err)
		}
		balances = append(balances, OnHandRecord{
			FacilityID: strings.TrimSpace(record[0]),
			ProductID:  strings.TrimSpace(record[1]),
			Quantity:   quantity,
		})
	}
	return balances, nil
}

// LoadReceipts loads scheduled receipts from a CSV file
func (l *Loader) LoadReceipts(filename string) ([]*entities.SupplyEvent, error) {
	records, err := readRecords(filename, "receipts", receiptsHeader)
	if err != nil {
		return nil, err
	}

	receipts := make([]*entities.SupplyEvent, 0, len(records))
	for i, record := range records {
		quantity, err := parseQuantity("quantity", record[2])
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: %w", i+2, err)
		}
		available, err := parseDate("available_date", record[3])
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: %w", i+2, err)
		}
		receipt, err := entities.NewSupplyEvent(
			strings.TrimSpace(record[1]),
			strings.TrimSpace(record[0]),
			quantity,
			available,
			entities.ScheduledReceipt,
			strings.TrimSpace(record[4]))
		if err != nil {
			return nil, fmt.Errorf("receipts CSV row %d: %w", i+2, err)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

// LoadDemand loads sales orders and forecasts from a CSV file
func (l *Loader) LoadDemand(filename string) ([]*entities.DemandEvent, error) {
	records, err := readRecords(filename, "demand", demandHeader)
	if err != nil {
		return nil, err
	}

	demands := make([]*entities.DemandEvent, 0, len(records))
	for i, record := range records {
		quantity, err := parseQuantity("quantity", record[2])
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}
		due, err := parseDate("due_date", record[3])
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}
		kind, err := parseDemandKind(record[4])
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}
		demand, err := entities.NewDemandEvent(
			strings.TrimSpace(record[1]),
			strings.TrimSpace(record[0]),
			quantity,
			due,
			kind,
			strings.TrimSpace(record[5]))
		if err != nil {
			return nil, fmt.Errorf("demand CSV row %d: %w", i+2, err)
		}
		demands = append(demands, demand)
	}
	return demands, nil
}

// readRecords reads a CSV file, checks its header and returns the data rows
func readRecords(filename, name string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", name, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = len(expectedHeader)
	reader.Comment = '#'
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", name, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", name)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", name, expectedHeader, records[0])
	}
	return records[1:], nil
}

// Helper functions for parsing CSV records

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseProduct(record []string) (*entities.Product, error) {
	var leadTime *int
	if s := strings.TrimSpace(record[3]); s != "" {
		days, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid lead_time_days: %s", record[3])
		}
		leadTime = entities.Days(days)
	}

	var policy *entities.LotSizingPolicy
	if s := strings.TrimSpace(record[4]); s != "" {
		rule, err := entities.ParseLotSizeRule(s)
		if err != nil {
			return nil, err
		}
		policy = &entities.LotSizingPolicy{Rule: rule}
		fields := []struct {
			name   string
			raw    string
			target *decimal.Decimal
		}{
			{"lot_size", record[5], &policy.LotSize},
			{"min_qty", record[6], &policy.MinQty},
			{"max_qty", record[7], &policy.MaxQty},
			{"increment", record[8], &policy.Increment},
		}
		for _, field := range fields {
			value, err := parseOptionalQuantity(field.name, field.raw)
			if err != nil {
				return nil, err
			}
			*field.target = value
		}
	}

	safetyStock, err := parseOptionalQuantity("safety_stock", record[9])
	if err != nil {
		return nil, err
	}

	procurement, err := parseProcurement(record[10])
	if err != nil {
		return nil, err
	}

	return entities.NewProduct(
		strings.TrimSpace(record[1]),
		strings.TrimSpace(record[0]),
		record[2],
		leadTime,
		policy,
		safetyStock,
		procurement)
}

func parseEdge(record []string) (*entities.ComponentEdge, error) {
	qtyPer, err := parseQuantity("qty_per", record[3])
	if err != nil {
		return nil, err
	}

	var from, to time.Time
	if s := strings.TrimSpace(record[4]); s != "" {
		if from, err = parseDate("effective_from", s); err != nil {
			return nil, err
		}
	}
	if s := strings.TrimSpace(record[5]); s != "" {
		if to, err = parseDate("effective_to", s); err != nil {
			return nil, err
		}
	}

	return entities.NewComponentEdge(strings.TrimSpace(record[1]), strings.TrimSpace(record[2]), qtyPer, from, to)
}

func parseQuantity(field, s string) (decimal.Decimal, error) {
	quantity, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return quantity, nil
}

func parseOptionalQuantity(field, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return parseQuantity(field, s)
}

func parseDate(field, s string) (time.Time, error) {
	date, err := time.Parse(entities.DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", field, s)
	}
	return date, nil
}

func parseDemandKind(s string) (entities.DemandKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sales", "sales_order", "salesorder":
		return entities.SalesOrder, nil
	case "forecast":
		return entities.Forecast, nil
	default:
		return entities.SalesOrder, fmt.Errorf("invalid kind: %s (expected: sales or forecast)", s)
	}
}

func parseProcurement(s string) (entities.Procurement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return entities.ProcurementUnspecified, nil
	case "make":
		return entities.ProcurementMake, nil
	case "buy":
		return entities.ProcurementBuy, nil
	default:
		return entities.ProcurementUnspecified, fmt.Errorf("invalid procurement: %s (expected: make or buy)", s)
	}
}
