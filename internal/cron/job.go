package cron

import (
	"fmt"
	"time"
)

// Schedule kinds: "cron" uses a 6-field cron expression (with seconds),
// "every" re-runs on a fixed interval, "at" fires once at a wall-clock
// millisecond timestamp.
type Schedule struct {
	Kind    string `json:"kind"`
	Expr    string `json:"expr,omitempty"`
	EveryMs int64  `json:"everyMs,omitempty"`
	AtMs    int64  `json:"atMs,omitempty"`
}

// Payload names the maintenance task a job runs. Tasks are dispatched by the
// gateway's OnJob handler.
type Payload struct {
	Task string `json:"task"`
}

type JobState struct {
	LastRunAtMs int64  `json:"lastRunAtMs,omitempty"`
	LastStatus  string `json:"lastStatus,omitempty"`
	LastError   string `json:"lastError,omitempty"`
}

type Job struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Enabled        bool     `json:"enabled"`
	DeleteAfterRun bool     `json:"deleteAfterRun,omitempty"`
	Schedule       Schedule `json:"schedule"`
	Payload        Payload  `json:"payload"`
	State          JobState `json:"state"`
	CreatedAtMs    int64    `json:"createdAtMs"`
}

func NewJob(name string, schedule Schedule, payload Payload) Job {
	now := time.Now()
	return Job{
		ID:          fmt.Sprintf("job-%d", now.UnixNano()),
		Name:        name,
		Enabled:     true,
		Schedule:    schedule,
		Payload:     payload,
		CreatedAtMs: now.UnixMilli(),
	}
}
