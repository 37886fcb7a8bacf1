package storage

import (
	"time"

	"github.com/OCharnyshevich/isoterrain/pkg/world/terrain"
)

// worldFormat is bumped when the saved world layout changes incompatibly.
const worldFormat = 1

// WorldFile is the on-disk envelope of a generated world.
type WorldFile struct {
	Format  int            `json:"format"`
	Name    string         `json:"name"`
	SavedAt time.Time      `json:"saved_at"`
	World   *terrain.World `json:"world"`
}

// WorldInfo summarizes a saved world without its grids.
type WorldInfo struct {
	Name    string    `json:"name"`
	Seed    int64     `json:"seed"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	SavedAt time.Time `json:"saved_at"`
}
