// Package report turns search outcomes into the messages and row sets shown to the user.
package report

import (
	"strconv"
	"strings"

	"github.com/gcbaptista/go-voter-search/config"
	"github.com/gcbaptista/go-voter-search/model"
	"github.com/gcbaptista/go-voter-search/services"
)

// Level tells the presentation layer how to style a message.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// DisplayPayload is everything the output area needs to render a search result.
type DisplayPayload struct {
	Message string         `json:"message"`
	Level   Level          `json:"level"`
	Count   int            `json:"count"`
	Empty   bool           `json:"empty"`
	Columns []string       `json:"columns"`
	Rows    []model.Record `json:"rows"`
}

// Notice is a message with no row set, such as a partition summary or a warning.
type Notice struct {
	Message string `json:"message"`
	Level   Level  `json:"level"`
}

// Reporter formats results using the configured messages.
type Reporter struct {
	messages config.Messages
}

// NewReporter creates a reporter using messages.
func NewReporter(messages config.Messages) *Reporter {
	return &Reporter{messages: messages}
}

// Summarize describes a match result. Rows are passed through unchanged.
func (r *Reporter) Summarize(result services.MatchResult) DisplayPayload {
	rows := result.Rows
	if rows == nil {
		rows = []model.Record{}
	}
	columns := result.Columns
	if columns == nil {
		columns = []string{}
	}

	if result.Count == 0 {
		return DisplayPayload{
			Message: r.messages.NoMatches,
			Level:   LevelError,
			Count:   0,
			Empty:   true,
			Columns: columns,
			Rows:    rows,
		}
	}

	return DisplayPayload{
		Message: expand(r.messages.MatchesFound, "", result.Count),
		Level:   LevelSuccess,
		Count:   result.Count,
		Empty:   false,
		Columns: columns,
		Rows:    rows,
	}
}

// PartitionLoaded reports that label was selected and holds rowCount rows.
func (r *Reporter) PartitionLoaded(label string, rowCount int) Notice {
	return Notice{Message: expand(r.messages.PartitionRows, label, rowCount), Level: LevelSuccess}
}

// PartitionUnavailable reports that the selected partition could not be loaded.
func (r *Reporter) PartitionUnavailable() Notice {
	return Notice{Message: r.messages.PartitionUnavailable, Level: LevelError}
}

// EmptyQuery warns that neither name field was filled in.
func (r *Reporter) EmptyQuery() Notice {
	return Notice{Message: r.messages.EmptyQuery, Level: LevelWarning}
}

func expand(template, label string, count int) string {
	return strings.NewReplacer(
		"{label}", label,
		"{count}", strconv.Itoa(count),
	).Replace(template)
}
