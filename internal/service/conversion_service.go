package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"
	"github.com/zlatanpham/exploro-sub001/internal/dto"
	"github.com/zlatanpham/exploro-sub001/internal/model"
	"github.com/zlatanpham/exploro-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ConversionService converts quantities between catalog units.
//
// Business failures (no path, missing density, missing ingredient mapping)
// are reported through dto.ConversionResult with Success=false. A non-nil
// error means the input itself was unusable (unknown unit, negative
// quantity) or storage failed.
type ConversionService interface {
	// Convert uses same-category factors, then curated unit_conversions rows.
	Convert(ctx context.Context, qty decimal.Decimal, fromUnitID, toUnitID uuid.UUID) (*dto.ConversionResult, error)
	// ConvertWithDensity bridges mass and volume with a density in g/ml.
	// Any other unit pair is handed to Convert.
	ConvertWithDensity(ctx context.Context, qty decimal.Decimal, fromUnitID, toUnitID uuid.UUID, density *decimal.Decimal) (*dto.ConversionResult, error)
	// ConvertWithIngredientMapping resolves count units through the
	// ingredient's mapping rows.
	ConvertWithIngredientMapping(ctx context.Context, qty decimal.Decimal, fromUnitID, toUnitID, ingredientID uuid.UUID) (*dto.ConversionResult, error)
	// ConvertForIngredient applies the full dispatch policy: mappings for
	// count units, stored factors, then the ingredient's density.
	ConvertForIngredient(ctx context.Context, qty decimal.Decimal, fromUnitID, toUnitID, ingredientID uuid.UUID) (*dto.ConversionResult, error)
	CanConvert(ctx context.Context, fromUnitID, toUnitID uuid.UUID) (bool, error)
	CompatibleUnits(ctx context.Context, unitID uuid.UUID) ([]model.Unit, error)
}

// ConversionOptions names the reference units density is expressed in.
type ConversionOptions struct {
	MassReferenceSymbol   string // density numerator, "g"
	VolumeReferenceSymbol string // density denominator, "ml"
}

func DefaultConversionOptions() ConversionOptions {
	return ConversionOptions{MassReferenceSymbol: "g", VolumeReferenceSymbol: "ml"}
}

type conversionService struct {
	units       repository.UnitRepository
	factors     repository.UnitConversionRepository
	mappings    repository.MappingRepository
	ingredients repository.IngredientRepository
	opts        ConversionOptions
}

func NewConversionService(
	units repository.UnitRepository,
	factors repository.UnitConversionRepository,
	mappings repository.MappingRepository,
	ingredients repository.IngredientRepository,
	opts ConversionOptions,
) ConversionService {
	def := DefaultConversionOptions()
	if opts.MassReferenceSymbol == "" {
		opts.MassReferenceSymbol = def.MassReferenceSymbol
	}
	if opts.VolumeReferenceSymbol == "" {
		opts.VolumeReferenceSymbol = def.VolumeReferenceSymbol
	}
	return &conversionService{
		units:       units,
		factors:     factors,
		mappings:    mappings,
		ingredients: ingredients,
		opts:        opts,
	}
}

// ── Public operations ─────────────────────────────────────────────────────────

func (s *conversionService) Convert(ctx context.Context, qty decimal.Decimal, fromUnitID, toUnitID uuid.UUID) (*dto.ConversionResult, error) {
	if fromUnitID == toUnitID {
		return identity(qty, fromUnitID)
	}
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	from, to, err := s.loadPair(ctx, fromUnitID, toUnitID)
	if err != nil {
		return nil, err
	}
	return logged(s.convertUnits(ctx, qty, from, to))
}

func (s *conversionService) ConvertWithDensity(ctx context.Context, qty decimal.Decimal, fromUnitID, toUnitID uuid.UUID, density *decimal.Decimal) (*dto.ConversionResult, error) {
	if fromUnitID == toUnitID {
		return identity(qty, fromUnitID)
	}
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	from, to, err := s.loadPair(ctx, fromUnitID, toUnitID)
	if err != nil {
		return nil, err
	}
	if !model.IsMassVolumePair(from.Kind(), to.Kind()) {
		return logged(s.convertUnits(ctx, qty, from, to))
	}
	return logged(s.viaDensity(ctx, qty, from, to, density))
}

func (s *conversionService) ConvertWithIngredientMapping(ctx context.Context, qty decimal.Decimal, fromUnitID, toUnitID, ingredientID uuid.UUID) (*dto.ConversionResult, error) {
	if fromUnitID == toUnitID {
		return identity(qty, fromUnitID)
	}
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	from, to, err := s.loadPair(ctx, fromUnitID, toUnitID)
	if err != nil {
		return nil, err
	}

	// The ingredient's density only helps when the mapped unit and the target
	// straddle mass and volume; an unknown ingredient simply has none.
	var density *decimal.Decimal
	ing, err := s.loadIngredient(ctx, ingredientID)
	switch {
	case err == nil:
		density = ing.Density
	case !apperror.Is(err, apperror.KindIngredientNotFound):
		return nil, err
	}
	return logged(s.viaMapping(ctx, qty, from, to, ingredientID, density))
}

func (s *conversionService) ConvertForIngredient(ctx context.Context, qty decimal.Decimal, fromUnitID, toUnitID, ingredientID uuid.UUID) (*dto.ConversionResult, error) {
	if fromUnitID == toUnitID {
		return identity(qty, fromUnitID)
	}
	if err := checkQuantity(qty); err != nil {
		return nil, err
	}
	ing, err := s.loadIngredient(ctx, ingredientID)
	if err != nil {
		return nil, err
	}
	from, to, err := s.loadPair(ctx, fromUnitID, toUnitID)
	if err != nil {
		return nil, err
	}
	if from.Kind() == model.KindCount || to.Kind() == model.KindCount {
		return logged(s.viaMapping(ctx, qty, from, to, ing.ID, ing.Density))
	}
	return logged(s.measurable(ctx, qty, from, to, ing.Density))
}

func (s *conversionService) CanConvert(ctx context.Context, fromUnitID, toUnitID uuid.UUID) (bool, error) {
	res, err := s.Convert(ctx, decimal.NewFromInt(1), fromUnitID, toUnitID)
	if err != nil {
		return false, err
	}
	return res.Success, nil
}

func (s *conversionService) CompatibleUnits(ctx context.Context, unitID uuid.UUID) ([]model.Unit, error) {
	u, err := s.loadUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	return s.units.ListByCategory(ctx, u.CategoryID)
}

// ── Strategies ────────────────────────────────────────────────────────────────

// convertUnits handles strategies (a) same-category factors and (b) curated
// cross-category rows. Anything else is a designed NO_CONVERSION_PATH.
func (s *conversionService) convertUnits(ctx context.Context, qty decimal.Decimal, from, to *model.Unit) (*dto.ConversionResult, error) {
	if from.ID == to.ID {
		return dto.Converted(qty, from.ID), nil
	}
	if from.CategoryID == to.CategoryID {
		if !to.FactorToBase.IsPositive() || !from.FactorToBase.IsPositive() {
			return nil, fmt.Errorf("unit %s or %s has a non-positive factor_to_base", from.Symbol, to.Symbol)
		}
		return dto.Converted(qty.Mul(from.FactorToBase).Div(to.FactorToBase), from.ID, to.ID), nil
	}

	c, err := s.factors.Find(ctx, from.ID, to.ID)
	if err == nil {
		return dto.Converted(qty.Mul(c.Factor), from.ID, to.ID), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find conversion %s->%s: %w", from.Symbol, to.Symbol, err)
	}
	return dto.Failed(apperror.KindNoConversionPath,
		fmt.Sprintf("No conversion path between categories %s and %s", from.CategoryName(), to.CategoryName())), nil
}

// measurable tries the category engine first and falls back to density for
// a mass/volume pair.
func (s *conversionService) measurable(ctx context.Context, qty decimal.Decimal, from, to *model.Unit, density *decimal.Decimal) (*dto.ConversionResult, error) {
	res, err := s.convertUnits(ctx, qty, from, to)
	if err != nil || res.Success || !model.IsMassVolumePair(from.Kind(), to.Kind()) {
		return res, err
	}
	return s.viaDensity(ctx, qty, from, to, density)
}

// viaDensity converts between a mass unit and a volume unit. Quantities are
// first normalised to the reference units density is expressed in (g, ml):
// mass->volume divides by density, volume->mass multiplies.
func (s *conversionService) viaDensity(ctx context.Context, qty decimal.Decimal, from, to *model.Unit, density *decimal.Decimal) (*dto.ConversionResult, error) {
	if density == nil || !density.IsPositive() {
		return dto.Failed(apperror.KindMissingDensity,
			fmt.Sprintf("density (g/ml) required to convert %s to %s", from.Symbol, to.Symbol)), nil
	}
	mass, volume := from, to
	if from.Kind() == model.KindVolume {
		mass, volume = to, from
	}
	gram, err := s.referenceFactor(ctx, mass, s.opts.MassReferenceSymbol)
	if err != nil {
		return nil, err
	}
	ml, err := s.referenceFactor(ctx, volume, s.opts.VolumeReferenceSymbol)
	if err != nil {
		return nil, err
	}

	var value decimal.Decimal
	if from.Kind() == model.KindMass {
		grams := qty.Mul(from.FactorToBase).Div(gram)
		mls := grams.Div(*density)
		value = mls.Mul(ml).Div(to.FactorToBase)
	} else {
		mls := qty.Mul(from.FactorToBase).Div(ml)
		grams := mls.Mul(*density)
		value = grams.Mul(gram).Div(to.FactorToBase)
	}
	return dto.Converted(value, from.ID, to.ID), nil
}

// referenceFactor returns factor_to_base of the unit named symbol inside u's
// category. When the catalog has no such unit the category base is the
// reference.
func (s *conversionService) referenceFactor(ctx context.Context, u *model.Unit, symbol string) (decimal.Decimal, error) {
	if u.Symbol == symbol {
		return u.FactorToBase, nil
	}
	ref, err := s.units.FindBySymbolInCategory(ctx, u.CategoryID, symbol)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.NewFromInt(1), nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("load reference unit %q: %w", symbol, err)
	}
	if !ref.FactorToBase.IsPositive() {
		return decimal.Zero, fmt.Errorf("reference unit %q has a non-positive factor_to_base", symbol)
	}
	return ref.FactorToBase, nil
}

// viaMapping resolves count units through ingredient mappings. With a count
// source the quantity is multiplied into the mapped unit; with a count target
// it is divided out of it. Both sides may be count units.
func (s *conversionService) viaMapping(ctx context.Context, qty decimal.Decimal, from, to *model.Unit, ingredientID uuid.UUID, density *decimal.Decimal) (*dto.ConversionResult, error) {
	fromCount := from.Kind() == model.KindCount
	toCount := to.Kind() == model.KindCount
	if !fromCount && !toCount {
		return s.measurable(ctx, qty, from, to, density)
	}

	var src, dst *model.IngredientUnitMapping
	var err error
	if fromCount {
		if src, err = s.findMapping(ctx, ingredientID, from.ID); err != nil {
			return nil, err
		}
	}
	if toCount {
		if dst, err = s.findMapping(ctx, ingredientID, to.ID); err != nil {
			return nil, err
		}
	}

	if (fromCount && src == nil) || (toCount && dst == nil) {
		// Without a mapping only a curated row can help, and only when one
		// side is measurable. Count-to-count factors are not physical.
		if !fromCount || !toCount {
			fallback, err := s.convertUnits(ctx, qty, from, to)
			if err != nil || fallback.Success {
				return fallback, err
			}
		}
		missing := to
		if fromCount && src == nil {
			missing = from
		}
		return dto.Failed(apperror.KindMissingIngredientMapping,
			fmt.Sprintf("ingredient %s has no mapping for count unit %q", ingredientID, missing.Symbol)), nil
	}

	value := qty
	current := from
	path := []uuid.UUID{from.ID}
	var details *dto.MappingDetails

	if src != nil {
		value = qty.Mul(src.Quantity)
		if current, err = s.loadUnit(ctx, src.MeasurableUnitID); err != nil {
			return nil, err
		}
		path = append(path, current.ID)
		details = &dto.MappingDetails{OriginalUnitID: from.ID, MappedUnitID: current.ID, MappingQuantity: src.Quantity}
	}

	target := to
	if dst != nil {
		if !dst.Quantity.IsPositive() {
			return nil, fmt.Errorf("mapping %s/%s has a non-positive quantity", ingredientID, to.Symbol)
		}
		if target, err = s.loadUnit(ctx, dst.MeasurableUnitID); err != nil {
			return nil, err
		}
		if details == nil {
			details = &dto.MappingDetails{OriginalUnitID: to.ID, MappedUnitID: target.ID, MappingQuantity: dst.Quantity}
		}
	}

	if current.ID != target.ID {
		bridged, err := s.measurable(ctx, value, current, target, density)
		if err != nil {
			return nil, err
		}
		if !bridged.Success {
			bridged.MappingDetails = details
			return bridged, nil
		}
		value = bridged.Value()
		path = append(path, target.ID)
	}

	if dst != nil {
		value = value.Div(dst.Quantity)
		path = append(path, to.ID)
	} else if path[len(path)-1] != to.ID {
		path = append(path, to.ID)
	}

	res := dto.Converted(value, path...)
	res.UsedIngredientMapping = true
	res.MappingDetails = details
	return res, nil
}

// ── Loaders ───────────────────────────────────────────────────────────────────

func (s *conversionService) loadUnit(ctx context.Context, id uuid.UUID) (*model.Unit, error) {
	u, err := s.units.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.KindUnitNotFound, "unit %s not found", id)
		}
		return nil, fmt.Errorf("load unit %s: %w", id, err)
	}
	return u, nil
}

func (s *conversionService) loadPair(ctx context.Context, fromUnitID, toUnitID uuid.UUID) (*model.Unit, *model.Unit, error) {
	from, err := s.loadUnit(ctx, fromUnitID)
	if err != nil {
		return nil, nil, err
	}
	to, err := s.loadUnit(ctx, toUnitID)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}

func (s *conversionService) loadIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	ing, err := s.ingredients.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.KindIngredientNotFound, "ingredient %s not found", id)
		}
		return nil, fmt.Errorf("load ingredient %s: %w", id, err)
	}
	return ing, nil
}

// findMapping returns nil, nil when the ingredient has no mapping for the unit.
func (s *conversionService) findMapping(ctx context.Context, ingredientID, countUnitID uuid.UUID) (*model.IngredientUnitMapping, error) {
	m, err := s.mappings.Find(ctx, ingredientID, countUnitID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find mapping %s/%s: %w", ingredientID, countUnitID, err)
	}
	return m, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// checkQuantity rejects negative quantities and zero outside the identity
// conversion.
func checkQuantity(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return apperror.Newf(apperror.KindNegativeOrZeroQuantity, "quantity must be positive, got %s", qty)
	}
	return nil
}

func identity(qty decimal.Decimal, unitID uuid.UUID) (*dto.ConversionResult, error) {
	if qty.IsNegative() {
		return nil, apperror.Newf(apperror.KindNegativeOrZeroQuantity, "quantity must not be negative, got %s", qty)
	}
	return dto.Converted(qty, unitID), nil
}

func logged(res *dto.ConversionResult, err error) (*dto.ConversionResult, error) {
	if err != nil {
		log.Error().Err(err).Msg("conversion failed unexpectedly")
		return nil, err
	}
	if !res.Success {
		log.Debug().Str("kind", string(res.Kind)).Str("reason", res.Error).Msg("no conversion")
	}
	return res, nil
}
