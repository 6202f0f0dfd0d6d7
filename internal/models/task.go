package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TaskID is the opaque, server-assigned identifier of a [Task].
//
// The remote service may encode it as a JSON number or string; both decode to the same textual form.
type TaskID string

// UnmarshalJSON accepts a JSON string, number, or null.
func (id *TaskID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*id = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = TaskID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("task id must be a string or number: %s", raw)
	}
	*id = TaskID(n.String())
	return nil
}

func (id TaskID) String() string { return string(id) }

// Task is a single to-do item. ID is empty until the remote service confirms creation.
type Task struct {
	ID        TaskID `json:"id"`
	Text      string `json:"task"`
	Completed bool   `json:"completed"`
}
