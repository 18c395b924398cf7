// Package importer reads ingredient unit mappings from spreadsheets.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/zlatanpham/exploro-sub001/internal/dto"
	"github.com/zlatanpham/exploro-sub001/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Header names expected in the first row of the sheet. Column order is free.
const (
	ColIngredientID   = "ingredient_id"
	ColCountUnit      = "count_unit"
	ColMeasurableUnit = "measurable_unit"
	ColQuantity       = "quantity"
)

var requiredColumns = []string{ColIngredientID, ColCountUnit, ColMeasurableUnit, ColQuantity}

// MappingRow is one raw data row. Line is the 1-based spreadsheet row number.
type MappingRow struct {
	Line           int
	IngredientID   string
	CountUnit      string
	MeasurableUnit string
	Quantity       string
}

// RowError describes a row that could not be turned into a request.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string { return fmt.Sprintf("row %d: %s", e.Line, e.Reason) }

// ReadMappingRows parses the first sheet of an xlsx workbook. Blank rows are
// skipped.
func ReadMappingRows(r io.Reader) ([]MappingRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("unable to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, errors.New("sheet is empty")
	}

	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	cell := func(row []string, name string) string {
		i := cols[name]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]MappingRow, 0, len(rows)-1)
	for idx, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		out = append(out, MappingRow{
			Line:           idx + 2,
			IngredientID:   cell(row, ColIngredientID),
			CountUnit:      cell(row, ColCountUnit),
			MeasurableUnit: cell(row, ColMeasurableUnit),
			Quantity:       cell(row, ColQuantity),
		})
	}
	return out, nil
}

// UnitLookup is the part of the unit catalog Resolve needs.
type UnitLookup interface {
	FindBySymbol(ctx context.Context, symbol string) (*model.Unit, error)
}

// Resolve turns raw rows into mapping requests, looking unit symbols up in the
// catalog. Rows that cannot be resolved are returned as RowErrors and left out
// of the request slice; the remaining requests keep their sheet order.
func Resolve(ctx context.Context, units UnitLookup, rows []MappingRow) ([]dto.SetMappingRequest, []RowError, error) {
	symbols := map[string]uuid.UUID{}
	lookup := func(symbol string) (uuid.UUID, bool, error) {
		if id, ok := symbols[symbol]; ok {
			return id, true, nil
		}
		u, err := units.FindBySymbol(ctx, symbol)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, false, nil
		}
		if err != nil {
			return uuid.Nil, false, err
		}
		symbols[symbol] = u.ID
		return u.ID, true, nil
	}

	var (
		reqs    []dto.SetMappingRequest
		rowErrs []RowError
	)
	for _, row := range rows {
		ingredientID, err := uuid.Parse(row.IngredientID)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: row.Line, Reason: fmt.Sprintf("invalid ingredient id %q", row.IngredientID)})
			continue
		}
		qty, err := decimal.NewFromString(row.Quantity)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: row.Line, Reason: fmt.Sprintf("invalid quantity %q", row.Quantity)})
			continue
		}
		countID, ok, err := lookup(row.CountUnit)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			rowErrs = append(rowErrs, RowError{Line: row.Line, Reason: fmt.Sprintf("unknown unit %q", row.CountUnit)})
			continue
		}
		measurableID, ok, err := lookup(row.MeasurableUnit)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			rowErrs = append(rowErrs, RowError{Line: row.Line, Reason: fmt.Sprintf("unknown unit %q", row.MeasurableUnit)})
			continue
		}
		reqs = append(reqs, dto.SetMappingRequest{
			IngredientID:     ingredientID,
			CountUnitID:      countID,
			MeasurableUnitID: measurableID,
			Quantity:         qty,
		})
	}
	return reqs, rowErrs, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
