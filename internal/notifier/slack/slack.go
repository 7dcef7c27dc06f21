package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/riichi-league/scorekeeper/internal/league"
	"github.com/riichi-league/scorekeeper/internal/metrics"
	"github.com/riichi-league/scorekeeper/internal/notifier"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	disabled  bool
}

// NewNotifier creates a new Notifier. An empty token disables sending; the
// notifier then only logs what it would have sent.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	if token == "" {
		log.Info("Slack token not configured, notifications disabled")
		return &Notifier{channelID: channelID, metrics: metrics, disabled: true}
	}
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if s.disabled {
		return "", "", nil
	}
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendGameResult posts a recorded game's final scores. The players map
// resolves player ids to display names.
func (s *Notifier) SendGameResult(game *league.Game, players map[string]string, dryRun bool) error {
	msg := s.formatGameResult(game, players)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// SendStandings posts a leaderboard snapshot.
func (s *Notifier) SendStandings(title string, entries []league.StandingsEntry, dryRun bool) error {
	msg := s.formatStandings(title, entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatStandingsResponse formats a standings message without sending it.
func (s *Notifier) FormatStandingsResponse(title string, entries []league.StandingsEntry) (any, error) {
	return s.formatStandings(title, entries), nil
}

// formatGameResult creates the Slack message for a recorded game using Block Kit.
func (s *Notifier) formatGameResult(game *league.Game, players map[string]string) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🀄 Game recorded! 🀄", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	details := game.GameDate
	if game.SeasonName != "" {
		details = fmt.Sprintf("%s — %s", game.SeasonName, game.GameDate)
	}
	if game.RoundName != nil && *game.RoundName != "" {
		details = fmt.Sprintf("%s (%s)", details, *game.RoundName)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", details, false, false), nil, nil))

	results := make([]league.GameResult, len(game.Results))
	copy(results, game.Results)
	sort.Slice(results, func(i, j int) bool { return results[i].Rank < results[j].Rank })

	medals := []string{"🥇", "🥈", "🥉", "4️⃣"}
	var lines []string
	for _, res := range results {
		name := players[res.PlayerID]
		if name == "" {
			name = res.PlayerID
		}
		medal := ""
		if res.Rank >= 1 && res.Rank <= len(medals) {
			medal = medals[res.Rank-1]
		}
		lines = append(lines, fmt.Sprintf("%s %s: %d (%+.1f)", medal, name, res.RawScore, res.CalculatedPoints))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatStandings creates the Slack message for a leaderboard using Block Kit.
func (s *Notifier) formatStandings(title string, entries []league.StandingsEntry) slack.Message {
	blocks := make([]slack.Block, 0)

	if title == "" {
		title = "League standings"
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s 🏆", title), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(entries) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No games recorded yet.", false, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, entry := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s — %+.1f pts (%d games, avg rank %.2f)",
			i+1, entry.Player.Name, entry.TotalPoints, entry.GamesPlayed, entry.AverageRank))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), false, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
