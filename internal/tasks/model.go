package tasks

import "time"

// Task is a stored task. Completed is always false on create; nothing
// in the API sets it yet.
type Task struct {
	ID        string    `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}
