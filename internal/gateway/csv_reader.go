package gateway

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"budget-reconciler/internal/domain"

	"github.com/shopspring/decimal"
)

var csvHeader = []string{"id", "date", "amount", "category", "notes"}

// CSVTransactionRepository reads transaction exports in id,date,amount,category,notes form.
type CSVTransactionRepository struct{}

// NewCSVTransactionRepository creates a new repository instance.
func NewCSVTransactionRepository() *CSVTransactionRepository {
	return &CSVTransactionRepository{}
}

// GetTransactions reads and parses the CSV file at path. Amounts are in major
// units and converted to minor units.
func (r *CSVTransactionRepository) GetTransactions(ctx context.Context, path string) ([]domain.ImportRow, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction file %s: %w", path, err)
	}
	defer file.Close()
	return r.ReadTransactions(ctx, file)
}

// ReadTransactions parses rows from rd. The header row is required.
func (r *CSVTransactionRepository) ReadTransactions(ctx context.Context, rd io.Reader) ([]domain.ImportRow, error) {
	reader := csv.NewReader(rd)
	reader.FieldsPerRecord = len(csvHeader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, col := range csvHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("unexpected header column %d %q, want %q", i+1, header[i], col)
		}
	}

	var rows []domain.ImportRow
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		date, err := domain.ParseDate(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: could not parse date '%s': %w", line, record[1], err)
		}
		amount, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: could not parse amount '%s': %w", line, record[2], err)
		}

		rows = append(rows, domain.ImportRow{
			ID:       record[0],
			Date:     date,
			Amount:   domain.ToMinorUnits(amount),
			Category: record[3],
			Notes:    record[4],
		})
	}
	return rows, nil
}
