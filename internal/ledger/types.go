package ledger

import (
	"database/sql"
	"sync"
)

// store handles all database operations for the league ledger.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSeason is the payload for creating a season.
type NewSeason struct {
	Name        string  `json:"name"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate"`
	IsActive    bool    `json:"isActive"`
	Description string  `json:"description"`
}

// SeasonPatch carries the optional fields of a season update. Nil fields are
// left untouched. Patches are applied field-by-field; update statements are
// never assembled from caller-controlled key sets. An empty EndDate string
// clears the end date back to NULL.
type SeasonPatch struct {
	Name        *string `json:"name"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// PlayerPatch carries the optional fields of a player update.
type PlayerPatch struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`
}

// DeleteCheck reports whether a player can be deleted and why not.
type DeleteCheck struct {
	CanDelete bool    `json:"canDelete"`
	GameCount int     `json:"gameCount"`
	Reason    *string `json:"reason"`
}
