package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(seasonsCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(standingsCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(metricsCmd)

	standingsCmd.Flags().Int64Var(&standingsSeasonID, "season", 0, "Limit standings to one season by id")
	standingsCmd.Flags().StringVar(&standingsDate, "date", "", "Limit standings to one date (YYYY-MM-DD)")
	gamesCmd.Flags().StringVar(&gamesDate, "date", "", "Limit games to one date (YYYY-MM-DD)")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var seasonsCmd = &cobra.Command{
	Use:   "seasons",
	Short: "List the league's seasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/seasons")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the league's players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/api/players")
	},
}

var (
	standingsSeasonID int64
	standingsDate     string
)

var standingsCmd = &cobra.Command{
	Use:   "standings",
	Short: "Show the leaderboard (all-time by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if standingsSeasonID != 0 {
			return performGetRequest(fmt.Sprintf("/api/seasons/%d/standings", standingsSeasonID))
		}
		if standingsDate != "" {
			return performGetRequest("/api/standings/daily?date=" + url.QueryEscape(standingsDate))
		}
		return performGetRequest("/api/standings/all")
	},
}

var gamesDate string

var gamesCmd = &cobra.Command{
	Use:   "games",
	Short: "List recorded games (all by default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if gamesDate != "" {
			return performGetRequest("/api/games/daily?date=" + url.QueryEscape(gamesDate))
		}
		return performGetRequest("/api/games/all")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
