package domain

import (
	"fmt"
	"strings"
)

// Command is an application action that a recognized phrase maps to.
type Command string

const (
	// CommandReposition moves the content in front of the user on the next Update.
	CommandReposition Command = "reposition"
	// CommandPlace positions content that has never been placed. It is only
	// recognized until the first placement.
	CommandPlace Command = "place"
	// CommandReset returns the content to its default placement.
	CommandReset Command = "reset"
)

// Moves reports whether the command asks for the content to be brought in front of the user.
func (c Command) Moves() bool {
	return c == CommandReposition || c == CommandPlace
}

// Confidence is the recognizer's confidence in a result. Higher is better.
type Confidence int

const (
	ConfidenceRejected Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

var confidenceNames = map[Confidence]string{
	ConfidenceRejected: "rejected",
	ConfidenceLow:      "low",
	ConfidenceMedium:   "medium",
	ConfidenceHigh:     "high",
}

func (c Confidence) String() string {
	if name, ok := confidenceNames[c]; ok {
		return name
	}
	return fmt.Sprintf("confidence(%d)", int(c))
}

// ParseConfidence converts a configuration string into a Confidence.
func ParseConfidence(s string) (Confidence, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	for c, name := range confidenceNames {
		if name == norm {
			return c, nil
		}
	}
	return ConfidenceRejected, fmt.Errorf("unknown confidence %q", s)
}

// SpeechResult is one continuous-recognition result.
type SpeechResult struct {
	Text       string     `json:"text"`
	Confidence Confidence `json:"confidence"`
}

// QualityProblem names the reason the recognizer reported degraded audio.
type QualityProblem string

const (
	QualityTooNoisy QualityProblem = "too_noisy"
	QualityTooQuiet QualityProblem = "too_quiet"
	QualityTooLoud  QualityProblem = "too_loud"
	QualityTooFast  QualityProblem = "too_fast"
	QualityTooSlow  QualityProblem = "too_slow"
	QualityNoSignal QualityProblem = "no_signal"
	QualityUnknown  QualityProblem = "unknown"
)

// NormalizePhrase canonicalises a phrase for grammar lookups.
func NormalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
