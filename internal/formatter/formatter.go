// package formatter renders the task list for export (CSV, Markdown, JSON, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/desertthunder/taskly/internal/models"
	"github.com/desertthunder/taskly/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatText     Format = "txt"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatCSV, FormatMarkdown, FormatJSON, FormatText}

// ParseFormat resolves a user-supplied format name. "md" and "text" are accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q (want csv, markdown, json or txt)", shared.ErrInvalidArgument, name)
	}
}

// Extension returns the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

// TaskExport is a snapshot of one user's task list.
type TaskExport struct {
	Owner      string        `json:"owner,omitempty"`
	ExportedAt time.Time     `json:"exported_at"`
	Tasks      []models.Task `json:"tasks"`
}

// Completed returns how many tasks are marked done.
func (e *TaskExport) Completed() int {
	n := 0
	for _, t := range e.Tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// Export renders export in the given format.
func Export(export *TaskExport, format Format) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(export)
	case FormatMarkdown:
		return ExportToMarkdown(export)
	case FormatJSON:
		return ExportToJSON(export)
	case FormatText:
		return ExportToText(export)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV writes one row per task with columns: ID, Task, Completed
func ExportToCSV(export *TaskExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Task", "Completed"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, task := range export.Tasks {
		record := []string{string(task.ID), task.Text, strconv.FormatBool(task.Completed)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a checklist, completed tasks checked
func ExportToMarkdown(export *TaskExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Your Tasks\n\n")
	if export.Owner != "" {
		fmt.Fprintf(&buf, "**Owner**: %s\n", export.Owner)
	}
	if !export.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", export.ExportedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&buf, "**Tasks**: %d (%d completed)\n\n", len(export.Tasks), export.Completed())

	for _, task := range export.Tasks {
		box := " "
		if task.Completed {
			box = "x"
		}
		fmt.Fprintf(&buf, "- [%s] %s\n", box, escapeMarkdown(task.Text))
	}

	return buf.Bytes(), nil
}

// RenderMarkdown renders the Markdown export for a terminal using a glamour style ("dark", "light",
// "notty", ...).
func RenderMarkdown(export *TaskExport, style string) (string, error) {
	md, err := ExportToMarkdown(export)
	if err != nil {
		return "", err
	}

	out, err := glamour.Render(string(md), style)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

// ExportToJSON renders the export as indented JSON
func ExportToJSON(export *TaskExport) ([]byte, error) {
	out := *export
	if out.Tasks == nil {
		out.Tasks = []models.Task{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToText renders a numbered list
func ExportToText(export *TaskExport) ([]byte, error) {
	var buf bytes.Buffer

	if export.Owner != "" {
		fmt.Fprintf(&buf, "Tasks for %s\n", export.Owner)
	}
	fmt.Fprintf(&buf, "Tasks: %d\n\n", len(export.Tasks))

	for i, task := range export.Tasks {
		done := ""
		if task.Completed {
			done = " (done)"
		}
		fmt.Fprintf(&buf, "%d. %s%s\n", i+1, task.Text, done)
	}

	return buf.Bytes(), nil
}

// WriteExport renders export and writes it to path. An empty path defaults to tasks.{ext}.
func WriteExport(export *TaskExport, format Format, path string) (string, error) {
	if path == "" {
		path = "tasks." + format.Extension()
	}

	data, err := Export(export, format)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}

var markdownEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
