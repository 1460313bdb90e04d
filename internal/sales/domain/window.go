package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Window string

const (
	WindowAll       Window = "all"
	WindowToday     Window = "today"
	WindowLast7Days Window = "last7days"
)

var ErrUnknownWindow = errors.New("unknown time window")

// ParseWindow accepts the window names plus "week" for last7days. An empty
// string is all.
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return WindowAll, nil
	case "today":
		return WindowToday, nil
	case "last7days", "week":
		return WindowLast7Days, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
}

// Start returns the inclusive lower bound of w relative to now. Today starts
// at local midnight in now's location; last7days is a rolling 168 hours.
func (w Window) Start(now time.Time) (time.Time, bool) {
	switch w {
	case WindowToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case WindowLast7Days:
		return now.Add(-7 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

func (w Window) Contains(t, now time.Time) bool {
	start, bounded := w.Start(now)
	if !bounded {
		return true
	}
	return !t.Before(start) && !t.After(now)
}

// FilterByWindow keeps the transactions inside w, preserving order.
func FilterByWindow(txns []Transaction, w Window, now time.Time) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if w.Contains(t.CreatedAt, now) {
			out = append(out, t)
		}
	}
	return out
}
