package quality

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"platecheck/internal/errs"
)

const insightSystemContext = "You are a food-quality analyst for a restaurant chain. " +
	"You get the raw quality-check table (tab separated: created_at, branch, chef, dish, score 1-10, notes). " +
	"Answer concisely, in the language of the question, grounded only in the table."

const defaultInsightQuestion = "Summarize the quality checks: strongest and weakest branches, standout chefs and dishes, and any trend worth flagging."

// Insight asks the assistant about the current table. The serialized snapshot
// is bounded to the first InsightMaxRows rows to cap payload size. Invoked on
// demand only; failures surface to the caller and are never retried.
func (s *Service) Insight(ctx context.Context, question string) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if s.assistant == nil {
		return "", errs.Wrap(errors.New("no assistant wired"), "insight unavailable")
	}

	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return "", errs.Wrap(err, "load snapshot for insight")
	}

	prompt := buildInsightPrompt(snapshot, s.settings.InsightMaxRows, question)

	answer, err := s.assistant.Ask(ctx, insightSystemContext, prompt)
	if err != nil {
		return "", errs.Wrap(err, "ask assistant")
	}
	return answer, nil
}

// InsightPing is a liveness check against the assistant, no table attached.
func (s *Service) InsightPing(ctx context.Context) (string, error) {
	if ctx == nil {
		return "", errors.New("context is required")
	}
	if s.assistant == nil {
		return "", errs.Wrap(errors.New("no assistant wired"), "insight unavailable")
	}

	answer, err := s.assistant.Ping(ctx)
	if err != nil {
		return "", errs.Wrap(err, "ping assistant")
	}
	return answer, nil
}

func buildInsightPrompt(snapshot []CheckItem, maxRows int, question string) string {
	trimmedQuestion := strings.TrimSpace(question)
	if trimmedQuestion == "" {
		trimmedQuestion = defaultInsightQuestion
	}

	rows := snapshot
	truncated := false
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
		truncated = true
	}

	var b strings.Builder
	b.WriteString(trimmedQuestion)
	b.WriteString("\n\ncreated_at\tbranch\tchef\tdish\tscore\tnotes\n")
	for _, row := range rows {
		fmt.Fprintf(&b, "%s\t%s\t%s\t%s\t%d\t%s\n",
			row.CreatedAt, row.Branch, row.ChefName, row.DishName, row.Score, row.Notes)
	}
	if truncated {
		fmt.Fprintf(&b, "\n(only the %d most recent of %d rows are shown)\n", maxRows, len(snapshot))
	}
	return b.String()
}
