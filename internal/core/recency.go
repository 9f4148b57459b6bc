package core

import (
	"strconv"
	"strings"

	"github.com/amityadav/newsdigest/internal/feed"
)

var (
	minuteIndicators = []string{"minutes ago", "minute ago"}
	hourIndicators   = []string{"hours ago", "hour ago"}
)

// RecencyClassifier decides whether a provider timestamp string such as
// "3 hours ago" falls inside the recency window.
//
// The heuristic is permissive: a matching hour indicator with an unparseable
// count ("several hours ago", "an hour ago") counts as recent.
type RecencyClassifier struct {
	WindowHours int
}

// NewRecencyClassifier creates a classifier; non-positive windows use the default
func NewRecencyClassifier(windowHours int) RecencyClassifier {
	if windowHours <= 0 {
		windowHours = feed.DefaultRecencyWindowHours
	}
	return RecencyClassifier{WindowHours: windowHours}
}

// IsRecent applies the indicator rules in order: minutes, then hours
func (c RecencyClassifier) IsRecent(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	lower := strings.ToLower(text)
	if containsAny(lower, minuteIndicators) {
		return true
	}
	if !containsAny(lower, hourIndicators) {
		return false
	}

	fields := strings.Fields(text)
	hours, err := strconv.Atoi(fields[0])
	if err != nil {
		return true
	}
	return hours <= c.window()
}

func (c RecencyClassifier) window() int {
	if c.WindowHours <= 0 {
		return feed.DefaultRecencyWindowHours
	}
	return c.WindowHours
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
