package service

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/zlatanpham/exploro-sub001/internal/dto"
	"github.com/zlatanpham/exploro-sub001/internal/model"
	"github.com/zlatanpham/exploro-sub001/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

// LegacyService moves ingredients off the free-text default_unit column onto
// normalised unit references. The caller supplies the string->symbol table;
// the conversion engine never sees legacy strings.
type LegacyService interface {
	NormalizeIngredients(ctx context.Context, table map[string]string) (*dto.LegacyReport, error)
}

type legacyService struct {
	ingredients repository.IngredientRepository
	units       repository.UnitRepository
}

func NewLegacyService(ingredients repository.IngredientRepository, units repository.UnitRepository) LegacyService {
	return &legacyService{ingredients: ingredients, units: units}
}

// NormalizeLegacyUnit lower-cases, trims and strips Vietnamese diacritics so
// "Quả", "quả " and "qua" share one table key.
func NormalizeLegacyUnit(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		out = strings.ToLower(strings.TrimSpace(s))
	}
	return strings.ReplaceAll(out, "đ", "d")
}

func (s *legacyService) NormalizeIngredients(ctx context.Context, table map[string]string) (*dto.LegacyReport, error) {
	lookup := make(map[string]string, len(table))
	for k, v := range table {
		lookup[NormalizeLegacyUnit(k)] = v
	}

	list, err := s.ingredients.ListWithLegacyUnit(ctx)
	if err != nil {
		return nil, err
	}

	report := &dto.LegacyReport{Scanned: len(list), Rows: make([]dto.LegacyRow, 0, len(list))}
	symbols := make(map[string]*model.Unit)

	for _, ing := range list {
		raw := ""
		if ing.DefaultUnit != nil {
			raw = *ing.DefaultUnit
		}
		row := dto.LegacyRow{IngredientID: ing.ID, Name: ing.NameVi, LegacyUnit: raw}

		symbol, ok := lookup[NormalizeLegacyUnit(raw)]
		if !ok {
			// A legacy string that already is a catalog symbol needs no table entry.
			symbol = strings.TrimSpace(raw)
		}

		unit, cached := symbols[symbol]
		if !cached {
			unit, err = s.units.FindBySymbol(ctx, symbol)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				unit = nil
			case err != nil:
				return nil, err
			}
			symbols[symbol] = unit
		}

		switch {
		case unit == nil:
			row.Status = dto.LegacyUnresolved
			row.Reason = "no unit for legacy string"
			report.Unresolved++
		default:
			if err := s.ingredients.SetUnit(ctx, ing.ID, unit.ID); err != nil {
				row.Status = dto.LegacyFailed
				row.Reason = err.Error()
				report.Failed++
				break
			}
			id := unit.ID
			row.Status = dto.LegacyUpdated
			row.UnitID = &id
			report.Updated++
		}
		report.Rows = append(report.Rows, row)
	}

	log.Info().
		Int("scanned", report.Scanned).
		Int("updated", report.Updated).
		Int("unresolved", report.Unresolved).
		Int("failed", report.Failed).
		Msg("legacy unit normalisation finished")
	return report, nil
}
