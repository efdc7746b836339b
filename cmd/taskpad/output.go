package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phrazzld/taskpad/internal/domain"
	"github.com/phrazzld/taskpad/internal/service"
	"gopkg.in/yaml.v3"
)

type outputFormat string

// Supported list output formats
const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// listItem is one row of "taskpad list". Position is the reference accepted
// by the other commands and does not change with the filter.
type listItem struct {
	Position  int    `json:"position" yaml:"position"`
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Completed bool   `json:"completed" yaml:"completed"`
	CreatedAt string `json:"created_at" yaml:"created_at"`
	ShortID   string `json:"-" yaml:"-"`
}

type listSummary struct {
	Total     int `json:"total" yaml:"total"`
	Completed int `json:"completed" yaml:"completed"`
	Active    int `json:"active" yaml:"active"`
}

type listView struct {
	Filter  string      `json:"filter" yaml:"filter"`
	Tasks   []listItem  `json:"tasks" yaml:"tasks"`
	Summary listSummary `json:"summary" yaml:"summary"`

	summaryText string
}

// newListView collects the tasks matching filter, numbered by their
// position in the full list.
func newListView(tasks *service.TaskStore, filter domain.Filter) listView {
	view := listView{
		Filter: filter.String(),
		Tasks:  []listItem{},
	}

	position := 0
	for t := range tasks.List(domain.FilterAll) {
		position++
		if !filter.Match(t) {
			continue
		}
		view.Tasks = append(view.Tasks, listItem{
			Position:  position,
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.UTC().Format(time.RFC3339),
			ShortID:   t.ShortID(),
		})
	}

	summary := tasks.Summary()
	view.Summary = listSummary{
		Total:     summary.Total,
		Completed: summary.Completed,
		Active:    summary.Active(),
	}
	view.summaryText = summary.String()
	return view
}

func writeList(w io.Writer, format outputFormat, view listView) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeListText(w, view)
	}
}

func writeListText(w io.Writer, view listView) error {
	if len(view.Tasks) == 0 && view.Summary.Total > 0 {
		if _, err := fmt.Fprintf(w, "No %s tasks.\n", view.Filter); err != nil {
			return err
		}
	}

	for _, item := range view.Tasks {
		mark := " "
		if item.Completed {
			mark = "x"
		}
		if _, err := fmt.Fprintf(w, "%4d  [%s] %s  (%s)\n", item.Position, mark, normalizeText(item.Text), item.ShortID); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, view.summaryText)
	return err
}

// normalizeText keeps multi-line task text on a single output line.
func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
