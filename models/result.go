package models

import "time"

type Result struct {
	Executed   []string
	Suppressed []SuppressedAction
	Failed     []FailedAction
	Duration   time.Duration
}

type SuppressedAction struct {
	Name      string
	Remaining time.Duration
}

type FailedAction struct {
	Name  string
	Error error
}

func (r *Result) Ok() bool {
	return len(r.Failed) == 0
}
