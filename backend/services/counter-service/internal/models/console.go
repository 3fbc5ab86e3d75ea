package models

import (
	"time"

	"gorm.io/datatypes"
)

// MaxConsolePlayers bounds the player count of a console session.
const MaxConsolePlayers = 4

// ConsoleGame is a catalog entry for the console stations.
type ConsoleGame struct {
	ID            int64                    `gorm:"primaryKey" json:"id"`
	Name          string                   `gorm:"size:100;not null" json:"name"`
	Icon          string                   `gorm:"size:16" json:"icon"`
	PlayerOptions datatypes.JSONSlice[int] `json:"player_options"`
	IsActive      bool                     `gorm:"not null" json:"is_active"`
	TimeOptions   []ConsoleTimeOption      `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE" json:"time_options,omitempty"`
}

func (ConsoleGame) TableName() string { return "console_games" }

// AllowsPlayers reports whether n players may book this game. An empty option list allows any
// count up to MaxConsolePlayers.
func (g ConsoleGame) AllowsPlayers(n int) bool {
	if n < 1 || n > MaxConsolePlayers {
		return false
	}
	if len(g.PlayerOptions) == 0 {
		return true
	}
	for _, p := range g.PlayerOptions {
		if p == n {
			return true
		}
	}
	return false
}

// ConsoleTimeOption is a priced duration tier for a game.
type ConsoleTimeOption struct {
	ID      int64  `gorm:"primaryKey" json:"id"`
	GameID  int64  `gorm:"not null;index" json:"game_id"`
	Label   string `gorm:"size:20;not null" json:"label"`
	Minutes int    `gorm:"not null" json:"minutes"`
	Players int    `gorm:"not null" json:"players"`
	Price   int64  `gorm:"not null" json:"price"`
}

func (ConsoleTimeOption) TableName() string { return "console_time_options" }

// ConsoleSession is a flat-fee rental. Price and duration are copied from the catalog at creation.
type ConsoleSession struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	GameID          *int64    `gorm:"index" json:"game_id"`
	Kind            string    `gorm:"column:game_name;size:100;not null" json:"game_name"`
	ClientName      string    `gorm:"size:100;not null;index" json:"client_name"`
	Players         int       `gorm:"not null" json:"players"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`
	Price           int64     `gorm:"not null" json:"price"`
	Date            string    `gorm:"size:10;not null;index" json:"date"`
	Timestamp       time.Time `gorm:"not null" json:"timestamp"`
	IsPaid          bool      `gorm:"not null" json:"is_paid"`
}

func (ConsoleSession) TableName() string { return "console_sessions" }
