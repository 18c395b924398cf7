package service_test

import (
	"context"
	"testing"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"
	"github.com/zlatanpham/exploro-sub001/internal/dto"
	"github.com/zlatanpham/exploro-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConversionService(c *catalog) service.ConversionService {
	return service.NewConversionService(c.units, c.factors, c.mappings, c.ingredients, service.DefaultConversionOptions())
}

func requireValue(t *testing.T, res *dto.ConversionResult, want string) {
	t.Helper()
	require.NotNil(t, res)
	require.True(t, res.Success, "conversion failed: %s %s", res.Kind, res.Error)
	assert.True(t, res.Value().Equal(dec(want)), "got %s, want %s", res.Value(), want)
}

func requireApprox(t *testing.T, res *dto.ConversionResult, want float64) {
	t.Helper()
	require.NotNil(t, res)
	require.True(t, res.Success, "conversion failed: %s %s", res.Kind, res.Error)
	got, _ := res.Value().Float64()
	assert.InDelta(t, want, got, 1e-6)
}

func requireFailure(t *testing.T, res *dto.ConversionResult, kind apperror.Kind) {
	t.Helper()
	require.NotNil(t, res)
	assert.False(t, res.Success)
	assert.Nil(t, res.ConvertedValue)
	assert.Equal(t, kind, res.Kind)
	assert.NotEmpty(t, res.Error)
}

// ── Convert ──────────────────────────────────────────────────────────────────

func TestConvert_SameCategory(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)
	ctx := context.Background()

	res, err := svc.Convert(ctx, dec("100"), c.g.ID, c.kg.ID)
	require.NoError(t, err)
	requireValue(t, res, "0.1")
	assert.Equal(t, []uuid.UUID{c.g.ID, c.kg.ID}, res.Path)

	res, err = svc.Convert(ctx, dec("0.1"), c.kg.ID, c.g.ID)
	require.NoError(t, err)
	requireValue(t, res, "100")

	res, err = svc.Convert(ctx, dec("2"), c.tbsp.ID, c.tsp.ID)
	require.NoError(t, err)
	requireValue(t, res, "6")
}

func TestConvert_Identity(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)

	for _, q := range []string{"0", "1", "37.125"} {
		res, err := svc.Convert(context.Background(), dec(q), c.g.ID, c.g.ID)
		require.NoError(t, err)
		requireValue(t, res, q)
		assert.Equal(t, []uuid.UUID{c.g.ID}, res.Path)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)
	ctx := context.Background()

	pairs := [][2]uuid.UUID{
		{c.kg.ID, c.g.ID},
		{c.tbsp.ID, c.ml.ID},
		{c.tsp.ID, c.l.ID},
	}
	for _, p := range pairs {
		there, err := svc.Convert(ctx, dec("37.5"), p[0], p[1])
		require.NoError(t, err)
		back, err := svc.Convert(ctx, there.Value(), p[1], p[0])
		require.NoError(t, err)
		requireApprox(t, back, 37.5)
	}
}

func TestConvert_Composition(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)
	ctx := context.Background()

	direct, err := svc.Convert(ctx, dec("3"), c.tbsp.ID, c.l.ID)
	require.NoError(t, err)

	step, err := svc.Convert(ctx, dec("3"), c.tbsp.ID, c.ml.ID)
	require.NoError(t, err)
	chained, err := svc.Convert(ctx, step.Value(), c.ml.ID, c.l.ID)
	require.NoError(t, err)

	want, _ := direct.Value().Float64()
	requireApprox(t, chained, want)
	requireValue(t, direct, "0.045")
}

func TestConvert_StoredFactor(t *testing.T) {
	c := newCatalog()
	c.factors.add(c.lon, c.g, "400")
	svc := newConversionService(c)

	res, err := svc.Convert(context.Background(), dec("2"), c.lon.ID, c.g.ID)
	require.NoError(t, err)
	requireValue(t, res, "800")
	assert.False(t, res.UsedIngredientMapping)
}

func TestConvert_NoPath(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)

	res, err := svc.Convert(context.Background(), dec("15"), c.g.ID, c.ml.ID)
	require.NoError(t, err)
	requireFailure(t, res, apperror.KindNoConversionPath)
	assert.Contains(t, res.Error, "mass")
	assert.Contains(t, res.Error, "volume")
}

func TestConvert_UnitNotFound(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)

	_, err := svc.Convert(context.Background(), dec("1"), uuid.New(), c.g.ID)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.KindUnitNotFound))

	_, err = svc.Convert(context.Background(), dec("1"), c.g.ID, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindUnitNotFound))
}

func TestConvert_RejectsNonPositiveQuantity(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)
	ctx := context.Background()

	_, err := svc.Convert(ctx, dec("-1"), c.g.ID, c.kg.ID)
	assert.True(t, apperror.Is(err, apperror.KindNegativeOrZeroQuantity))

	_, err = svc.Convert(ctx, decimal.Zero, c.g.ID, c.kg.ID)
	assert.True(t, apperror.Is(err, apperror.KindNegativeOrZeroQuantity))

	_, err = svc.Convert(ctx, dec("-1"), c.g.ID, c.g.ID)
	assert.True(t, apperror.Is(err, apperror.KindNegativeOrZeroQuantity))
}

// ── ConvertWithDensity ───────────────────────────────────────────────────────

func TestConvertWithDensity_MassToVolume(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)

	// 15 g of oil at 0.94 g/ml is 15.957 ml, not 15 * 0.94.
	res, err := svc.ConvertWithDensity(context.Background(), dec("15"), c.g.ID, c.ml.ID, decPtr("0.94"))
	require.NoError(t, err)
	requireApprox(t, res, 15.0/0.94)
}

func TestConvertWithDensity_VolumeToMass(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)
	ctx := context.Background()

	res, err := svc.ConvertWithDensity(ctx, dec("100"), c.ml.ID, c.g.ID, decPtr("1.03"))
	require.NoError(t, err)
	requireValue(t, res, "103")

	// 2 tbsp of honey at 1.42 g/ml -> 30 ml -> 42.6 g -> 0.0426 kg
	res, err = svc.ConvertWithDensity(ctx, dec("2"), c.tbsp.ID, c.kg.ID, decPtr("1.42"))
	require.NoError(t, err)
	requireValue(t, res, "0.0426")
}

func TestConvertWithDensity_RoundTrip(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)
	ctx := context.Background()
	density := decPtr("0.94")

	there, err := svc.ConvertWithDensity(ctx, dec("250"), c.g.ID, c.tbsp.ID, density)
	require.NoError(t, err)
	back, err := svc.ConvertWithDensity(ctx, there.Value(), c.tbsp.ID, c.g.ID, density)
	require.NoError(t, err)
	requireApprox(t, back, 250)
}

func TestConvertWithDensity_MissingDensity(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)
	ctx := context.Background()

	res, err := svc.ConvertWithDensity(ctx, dec("15"), c.g.ID, c.ml.ID, nil)
	require.NoError(t, err)
	requireFailure(t, res, apperror.KindMissingDensity)

	res, err = svc.ConvertWithDensity(ctx, dec("15"), c.g.ID, c.ml.ID, decPtr("0"))
	require.NoError(t, err)
	requireFailure(t, res, apperror.KindMissingDensity)
}

func TestConvertWithDensity_NonMassVolumeDelegates(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)
	ctx := context.Background()

	res, err := svc.ConvertWithDensity(ctx, dec("500"), c.g.ID, c.kg.ID, decPtr("0.5"))
	require.NoError(t, err)
	requireValue(t, res, "0.5")

	res, err = svc.ConvertWithDensity(ctx, dec("1"), c.qua.ID, c.g.ID, decPtr("1"))
	require.NoError(t, err)
	requireFailure(t, res, apperror.KindNoConversionPath)
}

func TestConvertWithDensity_BaseFallbackWithoutReferenceUnit(t *testing.T) {
	units := newMemUnitRepo()
	mass := units.addCategory("mass")
	volume := units.addCategory("volume")
	g := units.addUnit(mass, "gram", "1", true)
	ml := units.addUnit(volume, "millilitre", "1", true)
	svc := service.NewConversionService(units, newMemFactorRepo(), newMemMappingRepo(), newMemIngredientRepo(), service.DefaultConversionOptions())

	res, err := svc.ConvertWithDensity(context.Background(), dec("50"), g.ID, ml.ID, decPtr("0.5"))
	require.NoError(t, err)
	requireValue(t, res, "100")
}

// ── ConvertWithIngredientMapping ─────────────────────────────────────────────

func TestConvertWithIngredientMapping_CountToMass(t *testing.T) {
	c := newCatalog()
	egg := c.ingredients.add("trứng gà")
	c.mappings.add(egg.ID, c.qua, "60", c.g)
	svc := newConversionService(c)

	res, err := svc.ConvertWithIngredientMapping(context.Background(), dec("2"), c.qua.ID, c.g.ID, egg.ID)
	require.NoError(t, err)
	requireValue(t, res, "120")
	assert.True(t, res.UsedIngredientMapping)
	require.NotNil(t, res.MappingDetails)
	assert.Equal(t, c.qua.ID, res.MappingDetails.OriginalUnitID)
	assert.Equal(t, c.g.ID, res.MappingDetails.MappedUnitID)
	assert.True(t, res.MappingDetails.MappingQuantity.Equal(dec("60")))
	assert.Equal(t, []uuid.UUID{c.qua.ID, c.g.ID}, res.Path)
}

func TestConvertWithIngredientMapping_MassToCount(t *testing.T) {
	c := newCatalog()
	egg := c.ingredients.add("trứng gà")
	c.mappings.add(egg.ID, c.qua, "60", c.g)
	svc := newConversionService(c)
	ctx := context.Background()

	res, err := svc.ConvertWithIngredientMapping(ctx, dec("120"), c.g.ID, c.qua.ID, egg.ID)
	require.NoError(t, err)
	requireValue(t, res, "2")

	// Chained through the ordinary engine: kg -> g -> quả.
	res, err = svc.ConvertWithIngredientMapping(ctx, dec("0.12"), c.kg.ID, c.qua.ID, egg.ID)
	require.NoError(t, err)
	requireValue(t, res, "2")
	assert.Equal(t, []uuid.UUID{c.kg.ID, c.g.ID, c.qua.ID}, res.Path)
}

func TestConvertWithIngredientMapping_ChainsIntoTarget(t *testing.T) {
	c := newCatalog()
	egg := c.ingredients.add("trứng gà")
	c.mappings.add(egg.ID, c.qua, "60", c.g)
	svc := newConversionService(c)

	res, err := svc.ConvertWithIngredientMapping(context.Background(), dec("5"), c.qua.ID, c.kg.ID, egg.ID)
	require.NoError(t, err)
	requireValue(t, res, "0.3")
	assert.Equal(t, []uuid.UUID{c.qua.ID, c.g.ID, c.kg.ID}, res.Path)
}

func TestConvertWithIngredientMapping_CountToCount(t *testing.T) {
	c := newCatalog()
	onion := c.ingredients.add("hành lá")
	c.mappings.add(onion.ID, c.bo, "100", c.g)
	c.mappings.add(onion.ID, c.cay, "10", c.g)
	svc := newConversionService(c)

	res, err := svc.ConvertWithIngredientMapping(context.Background(), dec("2"), c.bo.ID, c.cay.ID, onion.ID)
	require.NoError(t, err)
	requireValue(t, res, "20")
}

func TestConvertWithIngredientMapping_MissingMapping(t *testing.T) {
	c := newCatalog()
	egg := c.ingredients.add("trứng gà")
	svc := newConversionService(c)
	ctx := context.Background()

	res, err := svc.ConvertWithIngredientMapping(ctx, dec("2"), c.qua.ID, c.g.ID, egg.ID)
	require.NoError(t, err)
	requireFailure(t, res, apperror.KindMissingIngredientMapping)
	assert.Contains(t, res.Error, "quả")

	// Count units share a category but never convert through it.
	res, err = svc.ConvertWithIngredientMapping(ctx, dec("2"), c.qua.ID, c.bo.ID, egg.ID)
	require.NoError(t, err)
	requireFailure(t, res, apperror.KindMissingIngredientMapping)
}

func TestConvertWithIngredientMapping_StoredFactorFallback(t *testing.T) {
	c := newCatalog()
	milk := c.ingredients.add("sữa đặc")
	c.factors.add(c.lon, c.g, "380")
	svc := newConversionService(c)

	res, err := svc.ConvertWithIngredientMapping(context.Background(), dec("1"), c.lon.ID, c.g.ID, milk.ID)
	require.NoError(t, err)
	requireValue(t, res, "380")
	assert.False(t, res.UsedIngredientMapping)
}

func TestConvertWithIngredientMapping_MappedUnitNeedsDensity(t *testing.T) {
	c := newCatalog()
	egg := c.ingredients.add("trứng gà")
	c.mappings.add(egg.ID, c.qua, "60", c.g)
	svc := newConversionService(c)

	res, err := svc.ConvertWithIngredientMapping(context.Background(), dec("1"), c.qua.ID, c.ml.ID, egg.ID)
	require.NoError(t, err)
	requireFailure(t, res, apperror.KindMissingDensity)
	assert.NotNil(t, res.MappingDetails)
}

// ── ConvertForIngredient ─────────────────────────────────────────────────────

func TestConvertForIngredient_UsesDensity(t *testing.T) {
	c := newCatalog()
	oil := c.ingredients.add("dầu ăn")
	oil.Density = decPtr("0.92")
	svc := newConversionService(c)

	res, err := svc.ConvertForIngredient(context.Background(), dec("1"), c.tbsp.ID, c.g.ID, oil.ID)
	require.NoError(t, err)
	requireValue(t, res, "13.8")
}

func TestConvertForIngredient_MappingThenDensity(t *testing.T) {
	c := newCatalog()
	egg := c.ingredients.add("trứng gà")
	egg.Density = decPtr("1.03")
	c.mappings.add(egg.ID, c.qua, "60", c.g)
	svc := newConversionService(c)

	res, err := svc.ConvertForIngredient(context.Background(), dec("1"), c.qua.ID, c.ml.ID, egg.ID)
	require.NoError(t, err)
	requireApprox(t, res, 60/1.03)
	assert.True(t, res.UsedIngredientMapping)
}

func TestConvertForIngredient_MissingDensity(t *testing.T) {
	c := newCatalog()
	flour := c.ingredients.add("bột mì")
	svc := newConversionService(c)

	res, err := svc.ConvertForIngredient(context.Background(), dec("100"), c.g.ID, c.ml.ID, flour.ID)
	require.NoError(t, err)
	requireFailure(t, res, apperror.KindMissingDensity)
}

func TestConvertForIngredient_IngredientNotFound(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)

	_, err := svc.ConvertForIngredient(context.Background(), dec("1"), c.g.ID, c.kg.ID, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindIngredientNotFound))
}

// ── CanConvert / CompatibleUnits ─────────────────────────────────────────────

func TestCanConvert(t *testing.T) {
	c := newCatalog()
	c.factors.add(c.lon, c.g, "400")
	svc := newConversionService(c)
	ctx := context.Background()

	ok, err := svc.CanConvert(ctx, c.g.ID, c.kg.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CanConvert(ctx, c.g.ID, c.ml.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.CanConvert(ctx, c.lon.ID, c.g.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.CanConvert(ctx, uuid.New(), c.g.ID)
	assert.True(t, apperror.Is(err, apperror.KindUnitNotFound))
}

func TestCompatibleUnits(t *testing.T) {
	c := newCatalog()
	svc := newConversionService(c)

	units, err := svc.CompatibleUnits(context.Background(), c.g.ID)
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "kg", units[0].Symbol)
	assert.Equal(t, "g", units[1].Symbol)
}
