package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cbonnaire/tidyquest/internal/model"
)

// Field quoting (commas, quotes, newlines) is handled by encoding/csv.

func writeAll(w io.Writer, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// Ranking writes the ranking table as CSV.
func Ranking(w io.Writer, entries []model.RankingEntry) error {
	records := [][]string{{"name", "weekly_points", "total_points", "previous_points"}}
	for _, e := range entries {
		records = append(records, []string{
			e.Name,
			strconv.Itoa(e.WeeklyPoints),
			strconv.Itoa(e.TotalPoints),
			strconv.Itoa(e.PreviousPoints),
		})
	}
	return writeAll(w, records)
}

// Completions writes the completion ledger as CSV.
func Completions(w io.Writer, completions []model.Completion) error {
	records := [][]string{{"completed_at", "user", "task", "category", "points"}}
	for _, c := range completions {
		records = append(records, []string{
			c.CompletedAt.Format(time.RFC3339),
			c.UserName,
			c.TaskName,
			c.Category,
			strconv.Itoa(c.Points),
		})
	}
	return writeAll(w, records)
}

// Tasks writes the task catalog as CSV.
func Tasks(w io.Writer, tasks []model.Task) error {
	records := [][]string{{"name", "description", "points", "recurrence", "urgency", "category", "parent_id"}}
	for _, t := range tasks {
		parent := ""
		if t.ParentID != nil {
			parent = strconv.FormatInt(*t.ParentID, 10)
		}
		records = append(records, []string{
			t.Name,
			t.Description,
			strconv.Itoa(t.Points),
			string(t.Recurrence),
			string(t.Urgency),
			t.Category,
			parent,
		})
	}
	return writeAll(w, records)
}

// Objectives writes objectives with their derived progress as CSV.
func Objectives(w io.Writer, objectives []model.ObjectiveProgress) error {
	records := [][]string{{"name", "target_points", "target_type", "target_category", "current_points", "achieved"}}
	for _, o := range objectives {
		records = append(records, []string{
			o.Name,
			strconv.Itoa(o.TargetPoints),
			string(o.TargetType),
			o.TargetCategory,
			strconv.Itoa(o.CurrentPoints),
			strconv.FormatBool(o.Achieved),
		})
	}
	return writeAll(w, records)
}
