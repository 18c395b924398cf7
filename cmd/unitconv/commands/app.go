package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zlatanpham/exploro-sub001/internal/apperror"
	"github.com/zlatanpham/exploro-sub001/internal/infra"
	"github.com/zlatanpham/exploro-sub001/internal/repository"
	"github.com/zlatanpham/exploro-sub001/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// app is the composition root shared by every subcommand.
type app struct {
	db  *gorm.DB
	rdb *redis.Client

	units repository.UnitRepository

	conversion service.ConversionService
	mappings   service.MappingService
	unitsSvc   service.UnitService
	cost       service.CostService
	legacy     service.LegacyService
}

func openApp() (*app, error) {
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	if rdb == nil {
		log.Debug().Msg("redis not configured; conversion cache disabled")
	}

	unitRepo := repository.NewUnitRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)
	factorRepo := repository.NewCachedConversionRepository(repository.NewUnitConversionRepository(db), rdb, cfg.ConversionCacheTTL)
	mappingRepo := repository.NewCachedMappingRepository(repository.NewMappingRepository(db), rdb, cfg.ConversionCacheTTL)

	conversion := service.NewConversionService(unitRepo, factorRepo, mappingRepo, ingredientRepo, service.ConversionOptions{
		MassReferenceSymbol:   cfg.MassReferenceSymbol,
		VolumeReferenceSymbol: cfg.VolumeReferenceSymbol,
	})

	return &app{
		db:         db,
		rdb:        rdb,
		units:      unitRepo,
		conversion: conversion,
		mappings:   service.NewMappingService(mappingRepo, unitRepo, ingredientRepo),
		unitsSvc:   service.NewUnitService(unitRepo, factorRepo),
		cost:       service.NewCostService(ingredientRepo, conversion),
		legacy:     service.NewLegacyService(ingredientRepo, unitRepo),
	}, nil
}

func (a *app) Close() {
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// withApp opens the app for the duration of fn.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// resolveUnit accepts a unit id or a catalog symbol.
func (a *app) resolveUnit(ctx context.Context, ref string) (uuid.UUID, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id, nil
	}
	u, err := a.units.FindBySymbol(ctx, ref)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, apperror.Newf(apperror.KindUnitNotFound, "unit %q not found", ref)
	}
	if err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}

func parseID(what, ref string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(ref))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q", what, ref)
	}
	return id, nil
}
