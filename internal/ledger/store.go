package ledger

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/riichi-league/scorekeeper/internal/league"
)

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
// Both the mattn and libsql drivers surface the constraint in the message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

const seasonColumns = `
	s.id, s.name, s.start_date, s.end_date, s.is_active, s.description, s.created_date,
	(SELECT COUNT(*) FROM games g WHERE g.season_id = s.id) AS game_count,
	(SELECT COUNT(DISTINCT gr.player_id) FROM game_results gr
		JOIN games g ON gr.game_id = g.id WHERE g.season_id = s.id) AS player_count`

func scanSeason(scanner interface{ Scan(...any) error }) (*league.Season, error) {
	var season league.Season
	var endDate sql.NullString
	var isActive int
	err := scanner.Scan(
		&season.ID, &season.Name, &season.StartDate, &endDate, &isActive,
		&season.Description, &season.CreatedDate, &season.GameCount, &season.PlayerCount,
	)
	if err != nil {
		return nil, err
	}
	if endDate.Valid {
		season.EndDate = &endDate.String
	}
	season.IsActive = isActive != 0
	return &season, nil
}

func (s *store) ListSeasons() ([]league.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT ` + seasonColumns + ` FROM seasons s ORDER BY s.created_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()

	var seasons []league.Season
	for rows.Next() {
		season, err := scanSeason(rows)
		if err != nil {
			log.Error("Failed to scan season row", "error", err)
			continue
		}
		seasons = append(seasons, *season)
	}
	return seasons, nil
}

func (s *store) GetSeason(seasonID int64) (*league.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getSeasonLocked(seasonID)
}

func (s *store) getSeasonLocked(seasonID int64) (*league.Season, error) {
	season, err := scanSeason(s.db.QueryRow(`SELECT `+seasonColumns+` FROM seasons s WHERE s.id = ?`, seasonID))
	if err == sql.ErrNoRows {
		return nil, league.NotFoundf("season %d", seasonID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query season: %w", err)
	}
	return season, nil
}

func (s *store) GetActiveSeason() (*league.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	season, err := scanSeason(s.db.QueryRow(`SELECT ` + seasonColumns + ` FROM seasons s WHERE s.is_active = 1 LIMIT 1`))
	if err == sql.ErrNoRows {
		return nil, league.NotFoundf("no active season")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query active season: %w", err)
	}
	return season, nil
}

// CreateSeason inserts a season together with its default scoring rule.
func (s *store) CreateSeason(season NewSeason) (*league.Season, error) {
	if season.Name == "" || season.StartDate == "" {
		return nil, league.Validationf("name and startDate are required")
	}
	if !league.ValidDate(season.StartDate) {
		return nil, league.Validationf("startDate %q is not a YYYY-MM-DD date", season.StartDate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if season.IsActive {
		if _, err := tx.Exec(`UPDATE seasons SET is_active = 0`); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to deactivate seasons: %w", err)
		}
	}

	res, err := tx.Exec(`
		INSERT INTO seasons (name, start_date, end_date, is_active, description)
		VALUES (?, ?, ?, ?, ?)`,
		season.Name, season.StartDate, season.EndDate, season.IsActive, season.Description,
	)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, league.Conflictf("season name %q already exists", season.Name)
		}
		return nil, fmt.Errorf("failed to insert season: %w", err)
	}

	seasonID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read season id: %w", err)
	}

	rule := league.DefaultScoringRule()
	_, err = tx.Exec(`
		INSERT INTO league_settings
			(season_id, game_start_chip_count, calculation_base_chip_count, uma_1st, uma_2nd, uma_3rd, points_divisor)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seasonID, rule.GameStartChipCount, rule.CalculationBaseChipCount,
		rule.Uma1st, rule.Uma2nd, rule.Uma3rd, rule.PointsDivisor,
	)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to insert default settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit season: %w", err)
	}
	log.Info("Created season", "seasonID", seasonID, "name", season.Name)
	return s.getSeasonLocked(seasonID)
}

// UpdateSeason applies a patch field-by-field via read-modify-write.
func (s *store) UpdateSeason(seasonID int64, patch SeasonPatch) (*league.Season, error) {
	if patch.StartDate != nil && !league.ValidDate(*patch.StartDate) {
		return nil, league.Validationf("startDate %q is not a YYYY-MM-DD date", *patch.StartDate)
	}
	if patch.EndDate != nil && *patch.EndDate != "" && !league.ValidDate(*patch.EndDate) {
		return nil, league.Validationf("endDate %q is not a YYYY-MM-DD date", *patch.EndDate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var name, startDate, description string
	var endDate sql.NullString
	var isActive int
	err = tx.QueryRow(`SELECT name, start_date, end_date, description, is_active FROM seasons WHERE id = ?`, seasonID).
		Scan(&name, &startDate, &endDate, &description, &isActive)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, league.NotFoundf("season %d", seasonID)
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load season: %w", err)
	}

	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.StartDate != nil {
		startDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		// An empty string clears the end date so a season can be reopened.
		endDate = sql.NullString{String: *patch.EndDate, Valid: *patch.EndDate != ""}
	}
	if patch.Description != nil {
		description = *patch.Description
	}
	if patch.IsActive != nil {
		if *patch.IsActive {
			isActive = 1
			if _, err := tx.Exec(`UPDATE seasons SET is_active = 0 WHERE id != ?`, seasonID); err != nil {
				tx.Rollback()
				return nil, fmt.Errorf("failed to deactivate seasons: %w", err)
			}
		} else {
			isActive = 0
		}
	}

	_, err = tx.Exec(`
		UPDATE seasons SET name = ?, start_date = ?, end_date = ?, description = ?, is_active = ?
		WHERE id = ?`,
		name, startDate, endDate, description, isActive, seasonID,
	)
	if err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, league.Conflictf("season name %q already exists", name)
		}
		return nil, fmt.Errorf("failed to update season: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit season update: %w", err)
	}
	return s.getSeasonLocked(seasonID)
}

// ActivateSeason marks one season active and deactivates all others.
func (s *store) ActivateSeason(seasonID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM seasons WHERE id = ?)`, seasonID).Scan(&exists); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to check season: %w", err)
	}
	if !exists {
		tx.Rollback()
		return league.NotFoundf("season %d", seasonID)
	}

	if _, err := tx.Exec(`UPDATE seasons SET is_active = 0`); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to deactivate seasons: %w", err)
	}
	if _, err := tx.Exec(`UPDATE seasons SET is_active = 1 WHERE id = ?`, seasonID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to activate season: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit activation: %w", err)
	}
	log.Info("Activated season", "seasonID", seasonID)
	return nil
}

func scanScoringRule(scanner interface{ Scan(...any) error }) (*league.ScoringRule, error) {
	var rule league.ScoringRule
	err := scanner.Scan(
		&rule.GameStartChipCount, &rule.CalculationBaseChipCount,
		&rule.Uma1st, &rule.Uma2nd, &rule.Uma3rd, &rule.PointsDivisor,
	)
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (s *store) GetScoringRule(seasonID int64) (*league.ScoringRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getScoringRuleLocked(s.db, seasonID)
}

// querier lets rule lookups run inside or outside a transaction.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *store) getScoringRuleLocked(q querier, seasonID int64) (*league.ScoringRule, error) {
	rule, err := scanScoringRule(q.QueryRow(`
		SELECT game_start_chip_count, calculation_base_chip_count, uma_1st, uma_2nd, uma_3rd, points_divisor
		FROM league_settings WHERE season_id = ?`, seasonID))
	if err == sql.ErrNoRows {
		return nil, league.NotFoundf("league settings for season %d", seasonID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query league settings: %w", err)
	}
	return rule, nil
}

// UpdateScoringRule replaces a season's scoring configuration. The rank-4 uma
// is derived, never stored.
func (s *store) UpdateScoringRule(seasonID int64, rule league.ScoringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	divisor := rule.PointsDivisor
	if divisor == 0 {
		divisor = league.DefaultPointsDivisor
	}

	res, err := s.db.Exec(`
		UPDATE league_settings SET
			game_start_chip_count = ?,
			calculation_base_chip_count = ?,
			uma_1st = ?,
			uma_2nd = ?,
			uma_3rd = ?,
			points_divisor = ?
		WHERE season_id = ?`,
		rule.GameStartChipCount, rule.CalculationBaseChipCount,
		rule.Uma1st, rule.Uma2nd, rule.Uma3rd, divisor, seasonID,
	)
	if err != nil {
		return fmt.Errorf("failed to update league settings: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return league.NotFoundf("league settings for season %d", seasonID)
	}
	return nil
}

func scanPlayer(scanner interface{ Scan(...any) error }) (*league.Player, error) {
	var player league.Player
	var avatarURL sql.NullString
	if err := scanner.Scan(&player.ID, &player.Name, &avatarURL, &player.CreatedDate); err != nil {
		return nil, err
	}
	if avatarURL.Valid {
		player.AvatarURL = &avatarURL.String
	}
	return &player, nil
}

func (s *store) ListPlayers() ([]league.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`SELECT id, name, avatar_url, created_date FROM players ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	var players []league.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			log.Error("Failed to scan player row", "error", err)
			continue
		}
		players = append(players, *player)
	}
	return players, nil
}

func (s *store) GetPlayer(playerID string) (*league.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.getPlayerLocked(playerID)
}

func (s *store) getPlayerLocked(playerID string) (*league.Player, error) {
	player, err := scanPlayer(s.db.QueryRow(
		`SELECT id, name, avatar_url, created_date FROM players WHERE id = ?`, playerID))
	if err == sql.ErrNoRows {
		return nil, league.NotFoundf("player %s", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player: %w", err)
	}
	return player, nil
}

func (s *store) CreatePlayer(name string, avatarURL *string) (*league.Player, error) {
	if name == "" {
		return nil, league.Validationf("name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	playerID := uuid.New().String()
	_, err := s.db.Exec(`INSERT INTO players (id, name, avatar_url) VALUES (?, ?, ?)`, playerID, name, avatarURL)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, league.Conflictf("player name %q already exists", name)
		}
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}
	log.Info("Created player", "playerID", playerID, "name", name)
	return s.getPlayerLocked(playerID)
}

func (s *store) UpdatePlayer(playerID string, patch PlayerPatch) (*league.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	var name string
	var avatarURL sql.NullString
	err = tx.QueryRow(`SELECT name, avatar_url FROM players WHERE id = ?`, playerID).Scan(&name, &avatarURL)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return nil, league.NotFoundf("player %s", playerID)
	}
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	if patch.Name != nil {
		name = *patch.Name
	}
	if patch.AvatarURL != nil {
		avatarURL = sql.NullString{String: *patch.AvatarURL, Valid: true}
	}

	if _, err := tx.Exec(`UPDATE players SET name = ?, avatar_url = ? WHERE id = ?`, name, avatarURL, playerID); err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, league.Conflictf("player name %q already exists", name)
		}
		return nil, fmt.Errorf("failed to update player: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit player update: %w", err)
	}
	return s.getPlayerLocked(playerID)
}

// CanDeletePlayer reports whether a player has any recorded results across
// all seasons. Deletion is blocked while any exist.
func (s *store) CanDeletePlayer(playerID string) (*DeleteCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.deleteCheckLocked(playerID)
}

func (s *store) deleteCheckLocked(playerID string) (*DeleteCheck, error) {
	var name string
	err := s.db.QueryRow(`SELECT name FROM players WHERE id = ?`, playerID).Scan(&name)
	if err == sql.ErrNoRows {
		return nil, league.NotFoundf("player %s", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query player: %w", err)
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM game_results WHERE player_id = ?`, playerID).Scan(&count); err != nil {
		return nil, fmt.Errorf("failed to count game results: %w", err)
	}

	check := &DeleteCheck{CanDelete: count == 0, GameCount: count}
	if count > 0 {
		reason := fmt.Sprintf("player %q has %d recorded games across all seasons", name, count)
		check.Reason = &reason
	}
	return check, nil
}

// DeletePlayer removes a player, but only when no game results reference
// them in any season.
func (s *store) DeletePlayer(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	check, err := s.deleteCheckLocked(playerID)
	if err != nil {
		return err
	}
	if !check.CanDelete {
		return league.Conflictf("%s", *check.Reason)
	}

	if _, err := s.db.Exec(`DELETE FROM players WHERE id = ?`, playerID); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	log.Info("Deleted player", "playerID", playerID)
	return nil
}
