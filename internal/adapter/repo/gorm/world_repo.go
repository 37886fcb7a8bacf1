// Package gormrepo stores generated worlds in Postgres.
package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/OCharnyshevich/isoterrain/internal/adapter/repo/gorm/model"
	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
)

type worldStats struct {
	Water       terrain.WaterStats      `json:"water"`
	Transitions terrain.TransitionStats `json:"transitions"`
	Embankments terrain.EmbankmentStats `json:"embankments"`
}

// WorldRepo satisfies the world cache's Store.
type WorldRepo struct {
	db *gorm.DB
}

func NewWorldRepo(db *gorm.DB) WorldRepo {
	return WorldRepo{db: db}
}

func (r WorldRepo) LoadWorld(ctx context.Context, name string) (*terrain.World, bool, error) {
	var row model.World
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	w, err := decodeWorld(row)
	if err != nil {
		return nil, false, fmt.Errorf("decode world %s: %w", name, err)
	}
	return w, true, nil
}

func (r WorldRepo) SaveWorld(ctx context.Context, name string, w *terrain.World) error {
	row, err := encodeWorld(name, w)
	if err != nil {
		return fmt.Errorf("encode world %s: %w", name, err)
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"seed", "width", "height", "enhanced", "water_tier",
			"tiles", "corners", "statics", "stats", "options", "updated_at",
		}),
	}).Create(&row).Error
}

// ListWorlds returns stored world names, newest first.
func (r WorldRepo) ListWorlds(ctx context.Context, limit int) ([]string, error) {
	var names []string
	q := r.db.WithContext(ctx).Model(&model.World{}).Order("updated_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r WorldRepo) DeleteWorld(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Where("name = ?", name).Delete(&model.World{}).Error
}

func encodeWorld(name string, w *terrain.World) (model.World, error) {
	if w == nil || w.Map == nil {
		return model.World{}, errors.New("world has no map")
	}
	tiles, err := json.Marshal(w.Map)
	if err != nil {
		return model.World{}, err
	}
	corners, err := json.Marshal(w.Corners)
	if err != nil {
		return model.World{}, err
	}
	statics, err := json.Marshal(w.Statics)
	if err != nil {
		return model.World{}, err
	}
	stats, err := json.Marshal(worldStats{Water: w.Water, Transitions: w.Transitions, Embankments: w.Embankments})
	if err != nil {
		return model.World{}, err
	}
	opts, err := json.Marshal(w.Options)
	if err != nil {
		return model.World{}, err
	}

	now := time.Now()
	return model.World{
		Name:        name,
		Seed:        w.Seed,
		Width:       int32(w.Map.Width),
		Height:      int32(w.Map.Height),
		Enhanced:    w.Options.EnhancedWater,
		WaterTier:   w.Water.Budget.Distribution,
		Tiles:       tiles,
		Corners:     corners,
		Statics:     statics,
		Stats:       stats,
		Options:     opts,
		GeneratedAt: now,
		UpdatedAt:   now,
	}, nil
}

func decodeWorld(row model.World) (*terrain.World, error) {
	w := &terrain.World{Seed: row.Seed, Statics: []terrain.StaticObject{}}
	if err := json.Unmarshal(row.Tiles, &w.Map); err != nil {
		return nil, fmt.Errorf("tiles: %w", err)
	}
	if err := json.Unmarshal(row.Corners, &w.Corners); err != nil {
		return nil, fmt.Errorf("corners: %w", err)
	}
	if len(row.Statics) > 0 {
		if err := json.Unmarshal(row.Statics, &w.Statics); err != nil {
			return nil, fmt.Errorf("statics: %w", err)
		}
	}
	var stats worldStats
	if err := json.Unmarshal(row.Stats, &stats); err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	w.Water, w.Transitions, w.Embankments = stats.Water, stats.Transitions, stats.Embankments
	if err := json.Unmarshal(row.Options, &w.Options); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	return w, nil
}
