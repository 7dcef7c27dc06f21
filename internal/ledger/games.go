package ledger

import (
	"database/sql"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/riichi-league/scorekeeper/internal/league"
)

// windowClause translates a window into a WHERE fragment over the games
// table (aliased g). The all-time window matches everything.
func windowClause(w league.Window) (string, []any) {
	switch w.Kind {
	case league.WindowSeason:
		return "g.season_id = ?", []any{w.SeasonID}
	case league.WindowDate:
		return "g.game_date = ?", []any{w.Date}
	case league.WindowRange:
		return "g.game_date BETWEEN ? AND ?", []any{w.Start, w.End}
	}
	return "1 = 1", nil
}

// insertResults writes a game's four results, recomputing calculated points
// from the season's scoring rule. Submitted calculatedPoints are ignored.
func insertResults(tx *sql.Tx, gameID string, rule *league.ScoringRule, results []league.GameResult) error {
	seats := make([]league.Seat, len(results))
	for i, res := range results {
		seats[i] = league.Seat{Rank: res.Rank, RawScore: res.RawScore}
	}
	points, err := rule.CalculatePoints(seats)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO game_results
			(game_id, player_id, rank, raw_score, calculated_points, agari_count, riichi_count, houjuu_count, furo_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer stmt.Close()

	for i, res := range results {
		_, err := stmt.Exec(
			gameID, res.PlayerID, res.Rank, res.RawScore, points[i],
			res.AgariCount, res.RiichiCount, res.HoujuuCount, res.FuroCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert result for player %s: %w", res.PlayerID, err)
		}
	}
	return nil
}

// checkPlayersExist verifies every submitted player id against the players
// table inside the write transaction.
func checkPlayersExist(tx *sql.Tx, results []league.GameResult) error {
	for _, res := range results {
		var exists bool
		if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM players WHERE id = ?)`, res.PlayerID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check player %s: %w", res.PlayerID, err)
		}
		if !exists {
			return league.NotFoundf("player %s", res.PlayerID)
		}
	}
	return nil
}

// RecordGame validates a submission and writes the game row plus its four
// results in a single transaction. Either everything commits or nothing does.
func (s *store) RecordGame(seasonID int64, sub league.GameSubmission) (string, error) {
	if err := league.ValidateSubmission(sub); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM seasons WHERE id = ?)`, seasonID).Scan(&exists); err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to check season: %w", err)
	}
	if !exists {
		tx.Rollback()
		return "", league.NotFoundf("season %d", seasonID)
	}

	if err := checkPlayersExist(tx, sub.Results); err != nil {
		tx.Rollback()
		return "", err
	}

	rule, err := s.getScoringRuleLocked(tx, seasonID)
	if err != nil {
		tx.Rollback()
		return "", err
	}

	gameID := uuid.New().String()
	_, err = tx.Exec(`
		INSERT INTO games (id, season_id, game_date, round_name, total_hands_in_game)
		VALUES (?, ?, ?, ?, ?)`,
		gameID, seasonID, sub.GameDate, sub.RoundName, sub.TotalHandsInGame,
	)
	if err != nil {
		tx.Rollback()
		return "", fmt.Errorf("failed to insert game: %w", err)
	}

	if err := insertResults(tx, gameID, rule, sub.Results); err != nil {
		tx.Rollback()
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit game: %w", err)
	}
	log.Info("Recorded game", "gameID", gameID, "seasonID", seasonID, "gameDate", sub.GameDate)
	return gameID, nil
}

// UpdateGame replaces a game's metadata and its entire four-result batch
// atomically. Points are recomputed from the owning season's current rule.
func (s *store) UpdateGame(gameID string, sub league.GameSubmission) error {
	if err := league.ValidateSubmission(sub); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	var seasonID int64
	err = tx.QueryRow(`SELECT season_id FROM games WHERE id = ?`, gameID).Scan(&seasonID)
	if err == sql.ErrNoRows {
		tx.Rollback()
		return league.NotFoundf("game %s", gameID)
	}
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to load game: %w", err)
	}

	if err := checkPlayersExist(tx, sub.Results); err != nil {
		tx.Rollback()
		return err
	}

	rule, err := s.getScoringRuleLocked(tx, seasonID)
	if err != nil {
		tx.Rollback()
		return err
	}

	_, err = tx.Exec(`
		UPDATE games SET game_date = ?, round_name = ?, total_hands_in_game = ?
		WHERE id = ?`,
		sub.GameDate, sub.RoundName, sub.TotalHandsInGame, gameID,
	)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update game: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM game_results WHERE game_id = ?`, gameID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete old results: %w", err)
	}

	if err := insertResults(tx, gameID, rule, sub.Results); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit game update: %w", err)
	}
	log.Info("Updated game", "gameID", gameID)
	return nil
}

// DeleteGame removes a game and, by cascade, its results.
func (s *store) DeleteGame(gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM games WHERE id = ?`, gameID)
	if err != nil {
		return fmt.Errorf("failed to delete game: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return league.NotFoundf("game %s", gameID)
	}
	log.Info("Deleted game", "gameID", gameID)
	return nil
}

func (s *store) GetGame(gameID string) (*league.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games, err := s.queryGames(`g.id = ?`, []any{gameID})
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, league.NotFoundf("game %s", gameID)
	}
	return &games[0], nil
}

// GamesByWindow returns the qualifying games with their four results,
// ordered most-recent-first.
func (s *store) GamesByWindow(w league.Window) ([]league.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := windowClause(w)
	games, err := s.queryGames(clause, args)
	if err != nil {
		return nil, err
	}
	return league.OrderGames(games), nil
}

// queryGames loads games matching a WHERE clause plus their results.
func (s *store) queryGames(clause string, args []any) ([]league.Game, error) {
	rows, err := s.db.Query(`
		SELECT g.id, g.season_id, s.name, g.game_date, g.round_name, g.total_hands_in_game, g.recorded_date
		FROM games g
		JOIN seasons s ON g.season_id = s.id
		WHERE `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []league.Game
	index := make(map[string]int)
	for rows.Next() {
		var game league.Game
		var roundName sql.NullString
		var totalHands sql.NullInt64
		err := rows.Scan(&game.ID, &game.SeasonID, &game.SeasonName, &game.GameDate, &roundName, &totalHands, &game.RecordedDate)
		if err != nil {
			log.Error("Failed to scan game row", "error", err)
			continue
		}
		if roundName.Valid {
			game.RoundName = &roundName.String
		}
		if totalHands.Valid {
			hands := int(totalHands.Int64)
			game.TotalHandsInGame = &hands
		}
		game.Results = []league.GameResult{}
		index[game.ID] = len(games)
		games = append(games, game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}
	if len(games) == 0 {
		return games, nil
	}

	resultRows, err := s.db.Query(`
		SELECT gr.game_id, gr.player_id, gr.raw_score, gr.rank, gr.calculated_points,
		       gr.agari_count, gr.riichi_count, gr.houjuu_count, gr.furo_count
		FROM game_results gr
		JOIN games g ON gr.game_id = g.id
		WHERE `+clause+`
		ORDER BY gr.rank`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer resultRows.Close()

	for resultRows.Next() {
		var gameID string
		var res league.GameResult
		err := resultRows.Scan(&gameID, &res.PlayerID, &res.RawScore, &res.Rank, &res.CalculatedPoints,
			&res.AgariCount, &res.RiichiCount, &res.HoujuuCount, &res.FuroCount)
		if err != nil {
			log.Error("Failed to scan game result row", "error", err)
			continue
		}
		if i, ok := index[gameID]; ok {
			games[i].Results = append(games[i].Results, res)
		}
	}
	return games, resultRows.Err()
}

// ResultRows materializes the window's result rows joined with their game
// and player, the aggregator's input.
func (s *store) ResultRows(w league.Window) ([]league.ResultRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	clause, args := windowClause(w)
	rows, err := s.db.Query(`
		SELECT g.id, g.season_id, g.game_date, g.recorded_date, COALESCE(g.total_hands_in_game, 0),
		       p.id, p.name, p.avatar_url,
		       gr.rank, gr.raw_score, gr.calculated_points,
		       gr.agari_count, gr.riichi_count, gr.houjuu_count, gr.furo_count
		FROM game_results gr
		JOIN games g ON gr.game_id = g.id
		JOIN players p ON gr.player_id = p.id
		WHERE `+clause, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query result rows: %w", err)
	}
	defer rows.Close()

	var out []league.ResultRow
	for rows.Next() {
		var row league.ResultRow
		var avatarURL sql.NullString
		err := rows.Scan(
			&row.GameID, &row.SeasonID, &row.GameDate, &row.RecordedDate, &row.TotalHands,
			&row.PlayerID, &row.PlayerName, &avatarURL,
			&row.Rank, &row.RawScore, &row.CalculatedPoints,
			&row.AgariCount, &row.RiichiCount, &row.HoujuuCount, &row.FuroCount,
		)
		if err != nil {
			log.Error("Failed to scan result row", "error", err)
			continue
		}
		if avatarURL.Valid {
			row.AvatarURL = &avatarURL.String
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
