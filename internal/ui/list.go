package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/taskly/internal/models"
)

// renderRow draws one task line. editView replaces the text while the task is being edited.
func renderRow(n int, task models.Task, selected bool, editView string) string {
	marker := "  "
	if selected {
		marker = styles.cursor.Render("> ")
	}

	if editView != "" {
		return fmt.Sprintf("%s%d. %s", marker, n, editView)
	}

	text := task.Text
	if task.Completed {
		text = styles.done.Render(text)
	} else if selected {
		text = styles.cursor.Render(text)
	}
	return fmt.Sprintf("%s%d. %s", marker, n, text)
}

// renderPager draws "‹ prev  Page X of Y  next ›", dimming the arrows at the bounds.
func renderPager(page, total int, hasPrev, hasNext bool) string {
	prev, next := "‹ prev", "next ›"
	if !hasPrev {
		prev = styles.disabled.Render(prev)
	}
	if !hasNext {
		next = styles.disabled.Render(next)
	}
	return strings.Join([]string{prev, fmt.Sprintf("Page %d of %d", page, total), next}, "  ")
}
