package service_test

import (
	"context"
	"sort"

	"github.com/zlatanpham/exploro-sub001/internal/model"
	"github.com/zlatanpham/exploro-sub001/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory UnitRepository ─────────────────────────────────────────────────

type memUnitRepo struct {
	categories map[uuid.UUID]*model.UnitCategory
	units      map[uuid.UUID]*model.Unit
}

var _ repository.UnitRepository = (*memUnitRepo)(nil)

func newMemUnitRepo() *memUnitRepo {
	return &memUnitRepo{
		categories: make(map[uuid.UUID]*model.UnitCategory),
		units:      make(map[uuid.UUID]*model.Unit),
	}
}

func (r *memUnitRepo) addCategory(name string) *model.UnitCategory {
	c := &model.UnitCategory{ID: uuid.New(), Name: name}
	r.categories[c.ID] = c
	return c
}

func (r *memUnitRepo) addUnit(c *model.UnitCategory, symbol, factor string, base bool) *model.Unit {
	u := &model.Unit{
		ID:           uuid.New(),
		CategoryID:   c.ID,
		Symbol:       symbol,
		NameVi:       symbol,
		NameEn:       symbol,
		FactorToBase: decimal.RequireFromString(factor),
		IsBaseUnit:   base,
		Category:     c,
	}
	r.units[u.ID] = u
	return u
}

func (r *memUnitRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Unit, error) {
	u, ok := r.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUnitRepo) FindBySymbol(_ context.Context, symbol string) (*model.Unit, error) {
	for _, u := range r.units {
		if u.Symbol == symbol {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUnitRepo) FindBySymbolInCategory(_ context.Context, categoryID uuid.UUID, symbol string) (*model.Unit, error) {
	for _, u := range r.units {
		if u.CategoryID == categoryID && u.Symbol == symbol {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUnitRepo) FindBaseUnit(_ context.Context, categoryID uuid.UUID) (*model.Unit, error) {
	for _, u := range r.units {
		if u.CategoryID == categoryID && u.IsBaseUnit {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUnitRepo) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]model.Unit, error) {
	var out []model.Unit
	for _, u := range r.units {
		if u.CategoryID == categoryID {
			out = append(out, *u)
		}
	}
	sortUnits(out)
	return out, nil
}

func (r *memUnitRepo) List(_ context.Context) ([]model.Unit, error) {
	out := make([]model.Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, *u)
	}
	sortUnits(out)
	return out, nil
}

func (r *memUnitRepo) FindCategoryByID(_ context.Context, id uuid.UUID) (*model.UnitCategory, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memUnitRepo) ListCategories(ctx context.Context) ([]model.UnitCategory, error) {
	out := make([]model.UnitCategory, 0, len(r.categories))
	for _, c := range r.categories {
		cp := *c
		cp.Units, _ = r.ListByCategory(ctx, c.ID)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memUnitRepo) CountUnitsInCategory(_ context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, u := range r.units {
		if u.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (r *memUnitRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *memUnitRepo) CreateUnit(_ context.Context, u *model.Unit) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.IsBaseUnit {
		for _, other := range r.units {
			if other.CategoryID == u.CategoryID {
				other.IsBaseUnit = false
			}
		}
	}
	cp := *u
	cp.Category = r.categories[u.CategoryID]
	r.units[u.ID] = &cp
	return nil
}

func sortUnits(list []model.Unit) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].IsBaseUnit != list[j].IsBaseUnit {
			return list[i].IsBaseUnit
		}
		return list[i].Symbol < list[j].Symbol
	})
}

// ── In-memory UnitConversionRepository ───────────────────────────────────────

type memFactorRepo struct {
	rows map[[2]uuid.UUID]*model.UnitConversion
}

var _ repository.UnitConversionRepository = (*memFactorRepo)(nil)

func newMemFactorRepo() *memFactorRepo {
	return &memFactorRepo{rows: make(map[[2]uuid.UUID]*model.UnitConversion)}
}

func (r *memFactorRepo) add(from, to *model.Unit, factor string) {
	r.rows[[2]uuid.UUID{from.ID, to.ID}] = &model.UnitConversion{
		ID: uuid.New(), FromUnitID: from.ID, ToUnitID: to.ID,
		Factor: decimal.RequireFromString(factor), IsDirect: true,
	}
}

func (r *memFactorRepo) Find(_ context.Context, fromUnitID, toUnitID uuid.UUID) (*model.UnitConversion, error) {
	c, ok := r.rows[[2]uuid.UUID{fromUnitID, toUnitID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memFactorRepo) CreatePair(_ context.Context, forward, inverse *model.UnitConversion) error {
	for _, c := range []*model.UnitConversion{forward, inverse} {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		cp := *c
		r.rows[[2]uuid.UUID{c.FromUnitID, c.ToUnitID}] = &cp
	}
	return nil
}

// ── In-memory MappingRepository ──────────────────────────────────────────────

type memMappingRepo struct {
	rows    map[[2]uuid.UUID]*model.IngredientUnitMapping
	upserts int
}

var _ repository.MappingRepository = (*memMappingRepo)(nil)

func newMemMappingRepo() *memMappingRepo {
	return &memMappingRepo{rows: make(map[[2]uuid.UUID]*model.IngredientUnitMapping)}
}

func (r *memMappingRepo) add(ingredientID uuid.UUID, count *model.Unit, qty string, measurable *model.Unit) {
	r.rows[[2]uuid.UUID{ingredientID, count.ID}] = &model.IngredientUnitMapping{
		ID:               uuid.New(),
		IngredientID:     ingredientID,
		CountUnitID:      count.ID,
		MeasurableUnitID: measurable.ID,
		Quantity:         decimal.RequireFromString(qty),
	}
}

func (r *memMappingRepo) Find(_ context.Context, ingredientID, countUnitID uuid.UUID) (*model.IngredientUnitMapping, error) {
	m, ok := r.rows[[2]uuid.UUID{ingredientID, countUnitID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMappingRepo) Upsert(_ context.Context, m *model.IngredientUnitMapping) error {
	r.upserts++
	key := [2]uuid.UUID{m.IngredientID, m.CountUnitID}
	if existing, ok := r.rows[key]; ok {
		m.ID = existing.ID
	} else if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	cp := *m
	r.rows[key] = &cp
	return nil
}

func (r *memMappingRepo) Delete(_ context.Context, ingredientID, countUnitID uuid.UUID) error {
	delete(r.rows, [2]uuid.UUID{ingredientID, countUnitID})
	return nil
}

func (r *memMappingRepo) ListByIngredient(_ context.Context, ingredientID uuid.UUID) ([]model.IngredientUnitMapping, error) {
	var out []model.IngredientUnitMapping
	for _, m := range r.rows {
		if m.IngredientID == ingredientID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMappingRepo) ListAll(_ context.Context) ([]model.IngredientUnitMapping, error) {
	out := make([]model.IngredientUnitMapping, 0, len(r.rows))
	for _, m := range r.rows {
		out = append(out, *m)
	}
	return out, nil
}

// ── In-memory IngredientRepository ───────────────────────────────────────────

type memIngredientRepo struct {
	rows map[uuid.UUID]*model.Ingredient
	// failSetUnit makes SetUnit fail for the listed ingredients.
	failSetUnit map[uuid.UUID]error
}

var _ repository.IngredientRepository = (*memIngredientRepo)(nil)

func newMemIngredientRepo() *memIngredientRepo {
	return &memIngredientRepo{
		rows:        make(map[uuid.UUID]*model.Ingredient),
		failSetUnit: make(map[uuid.UUID]error),
	}
}

func (r *memIngredientRepo) add(name string) *model.Ingredient {
	ing := &model.Ingredient{ID: uuid.New(), NameVi: name}
	r.rows[ing.ID] = ing
	return ing
}

func (r *memIngredientRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Ingredient, error) {
	ing, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *ing
	return &cp, nil
}

func (r *memIngredientRepo) ListWithLegacyUnit(_ context.Context) ([]model.Ingredient, error) {
	var out []model.Ingredient
	for _, ing := range r.rows {
		if ing.UnitID == nil && ing.DefaultUnit != nil && *ing.DefaultUnit != "" {
			out = append(out, *ing)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NameVi < out[j].NameVi })
	return out, nil
}

func (r *memIngredientRepo) SetUnit(_ context.Context, id, unitID uuid.UUID) error {
	if err, ok := r.failSetUnit[id]; ok {
		return err
	}
	ing, ok := r.rows[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ing.UnitID = &unitID
	return nil
}

// ── Catalog fixture ──────────────────────────────────────────────────────────

// catalog mirrors the seeded unit data: kg and l are category bases, so the
// density path has to go through the g and ml reference units.
type catalog struct {
	units       *memUnitRepo
	factors     *memFactorRepo
	mappings    *memMappingRepo
	ingredients *memIngredientRepo

	mass, volume, count *model.UnitCategory

	kg, g, l, ml, tbsp, tsp *model.Unit
	qua, bo, cay, lon       *model.Unit
}

func newCatalog() *catalog {
	c := &catalog{
		units:       newMemUnitRepo(),
		factors:     newMemFactorRepo(),
		mappings:    newMemMappingRepo(),
		ingredients: newMemIngredientRepo(),
	}
	c.mass = c.units.addCategory(model.CategoryMass)
	c.volume = c.units.addCategory(model.CategoryVolume)
	c.count = c.units.addCategory(model.CategoryCount)

	c.kg = c.units.addUnit(c.mass, "kg", "1", true)
	c.g = c.units.addUnit(c.mass, "g", "0.001", false)
	c.l = c.units.addUnit(c.volume, "l", "1", true)
	c.ml = c.units.addUnit(c.volume, "ml", "0.001", false)
	c.tbsp = c.units.addUnit(c.volume, "tbsp", "0.015", false)
	c.tsp = c.units.addUnit(c.volume, "tsp", "0.005", false)
	c.qua = c.units.addUnit(c.count, "quả", "1", true)
	c.bo = c.units.addUnit(c.count, "bó", "1", false)
	c.cay = c.units.addUnit(c.count, "cây", "1", false)
	c.lon = c.units.addUnit(c.count, "lon", "1", false)
	return c
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}
