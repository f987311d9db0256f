package domain

import (
	"fmt"
	"strings"
)

// Locatability is the quality/availability level of positional tracking.
type Locatability int

const (
	LocatabilityUnavailable Locatability = iota
	LocatabilityOrientationOnly
	LocatabilityPositionalTrackingActive
	LocatabilityDegraded
)

var locatabilityNames = map[Locatability]string{
	LocatabilityUnavailable:              "unavailable",
	LocatabilityOrientationOnly:          "orientation_only",
	LocatabilityPositionalTrackingActive: "positional_tracking_active",
	LocatabilityDegraded:                 "degraded",
}

func (l Locatability) String() string {
	if name, ok := locatabilityNames[l]; ok {
		return name
	}
	return fmt.Sprintf("locatability(%d)", int(l))
}

// HasPose reports whether pose queries are meaningful at this level.
func (l Locatability) HasPose() bool {
	return l != LocatabilityUnavailable
}

// ParseLocatability converts a configuration string into a Locatability.
func ParseLocatability(s string) (Locatability, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, "-", "_")
	for l, name := range locatabilityNames {
		if name == norm {
			return l, nil
		}
	}
	return LocatabilityUnavailable, fmt.Errorf("unknown locatability %q", s)
}
