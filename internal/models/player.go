package models

import "time"

// Player is a ranked ATP player. Rank and points track the most recent
// ranked-match data seen by the loader.
type Player struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Country       *string    `json:"country,omitempty"`
	CurrentRank   *int       `json:"current_rank,omitempty"`
	CurrentPoints *int       `json:"current_points,omitempty"`
	IsActive      bool       `json:"is_active"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

type Tournament struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Series   *string `json:"series,omitempty"`
	IsActive bool    `json:"is_active"`
}

// Surface, CourtType and Round are small reference tables. Their ids double
// as the categorical encodings consumed by the feature engineer.
type Surface struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CourtType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Round struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
