package model

import "time"

type World struct {
	Name        string    `gorm:"column:name;primaryKey"`
	Seed        int64     `gorm:"column:seed"`
	Width       int32     `gorm:"column:width"`
	Height      int32     `gorm:"column:height"`
	Enhanced    bool      `gorm:"column:enhanced"`
	WaterTier   string    `gorm:"column:water_tier"`
	Tiles       []byte    `gorm:"column:tiles;type:jsonb"`
	Corners     []byte    `gorm:"column:corners;type:jsonb"`
	Statics     []byte    `gorm:"column:statics;type:jsonb"`
	Stats       []byte    `gorm:"column:stats;type:jsonb"`
	Options     []byte    `gorm:"column:options;type:jsonb"`
	GeneratedAt time.Time `gorm:"column:generated_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (World) TableName() string { return "worlds" }
