package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/hololoop"
	"github.com/aretw0/hololoop/pkg/adapters/sim"
	"github.com/aretw0/hololoop/pkg/domain"
)

// ScriptOptions lists simulated host events as "frame" or "frame:argument" entries.
type ScriptOptions struct {
	Say          []string // "30:move molecule" or "30:move molecule@low"
	Press        []string // "10"
	Lose         []string // "20"
	Restore      []string // "25"
	Track        []string // "40:degraded"
	Degrade      []string // "50:too_noisy"
	AddCamera    []string // "60:secondary"
	RemoveCamera []string // "70:primary"
}

type action struct {
	desc  string
	apply func(host *sim.Host, app *hololoop.App)
}

// Script schedules simulated host events at frame numbers.
type Script struct {
	steps map[uint64][]action
}

// ParseScript validates every entry up front so a typo fails before the loop starts.
func ParseScript(o ScriptOptions) (*Script, error) {
	s := &Script{steps: make(map[uint64][]action)}

	for _, entry := range o.Say {
		frame, arg, err := splitEntry(entry, true)
		if err != nil {
			return nil, fmt.Errorf("--say %q: %w", entry, err)
		}
		text, confidence := arg, domain.ConfidenceHigh
		if i := strings.LastIndex(arg, "@"); i >= 0 {
			c, err := domain.ParseConfidence(arg[i+1:])
			if err != nil {
				return nil, fmt.Errorf("--say %q: %w", entry, err)
			}
			text, confidence = arg[:i], c
		}
		s.add(frame, action{
			desc: fmt.Sprintf("say %q (%s)", text, confidence),
			apply: func(h *sim.Host, _ *hololoop.App) {
				h.Recognizer.Say(text, confidence)
			},
		})
	}

	for _, entry := range o.Press {
		frame, _, err := splitEntry(entry, false)
		if err != nil {
			return nil, fmt.Errorf("--press %q: %w", entry, err)
		}
		s.add(frame, action{
			desc:  "press",
			apply: func(_ *sim.Host, app *hololoop.App) { app.Activate("script") },
		})
	}

	for _, entry := range o.Lose {
		frame, _, err := splitEntry(entry, false)
		if err != nil {
			return nil, fmt.Errorf("--lose %q: %w", entry, err)
		}
		s.add(frame, action{
			desc:  "lose device",
			apply: func(h *sim.Host, _ *hololoop.App) { h.Device.Lose() },
		})
	}

	for _, entry := range o.Restore {
		frame, _, err := splitEntry(entry, false)
		if err != nil {
			return nil, fmt.Errorf("--restore %q: %w", entry, err)
		}
		s.add(frame, action{
			desc:  "restore device",
			apply: func(h *sim.Host, _ *hololoop.App) { h.Device.Restore() },
		})
	}

	for _, entry := range o.Track {
		frame, arg, err := splitEntry(entry, true)
		if err != nil {
			return nil, fmt.Errorf("--track %q: %w", entry, err)
		}
		l, err := domain.ParseLocatability(arg)
		if err != nil {
			return nil, fmt.Errorf("--track %q: %w", entry, err)
		}
		s.add(frame, action{
			desc:  "tracking " + l.String(),
			apply: func(h *sim.Host, _ *hololoop.App) { h.Locator.SetLocatability(l) },
		})
	}

	for _, entry := range o.Degrade {
		frame, arg, err := splitEntry(entry, true)
		if err != nil {
			return nil, fmt.Errorf("--degrade %q: %w", entry, err)
		}
		problem := domain.QualityProblem(arg)
		s.add(frame, action{
			desc:  "speech quality " + arg,
			apply: func(h *sim.Host, _ *hololoop.App) { h.Recognizer.Degrade(problem) },
		})
	}

	for _, entry := range o.AddCamera {
		frame, arg, err := splitEntry(entry, true)
		if err != nil {
			return nil, fmt.Errorf("--add-camera %q: %w", entry, err)
		}
		id := domain.CameraID(arg)
		s.add(frame, action{
			desc:  "add camera " + arg,
			apply: func(h *sim.Host, _ *hololoop.App) { h.Space.AddCamera(id) },
		})
	}

	for _, entry := range o.RemoveCamera {
		frame, arg, err := splitEntry(entry, true)
		if err != nil {
			return nil, fmt.Errorf("--remove-camera %q: %w", entry, err)
		}
		id := domain.CameraID(arg)
		s.add(frame, action{
			desc:  "remove camera " + arg,
			apply: func(h *sim.Host, _ *hololoop.App) { h.Space.RemoveCamera(id) },
		})
	}

	return s, nil
}

func (s *Script) add(frame uint64, a action) {
	s.steps[frame] = append(s.steps[frame], a)
}

// Len returns the number of scheduled events.
func (s *Script) Len() int {
	n := 0
	for _, steps := range s.steps {
		n += len(steps)
	}
	return n
}

// Last returns the highest frame with a scheduled event, or 0.
func (s *Script) Last() uint64 {
	var last uint64
	for f := range s.steps {
		if f > last {
			last = f
		}
	}
	return last
}

// Describe lists the schedule in frame order.
func (s *Script) Describe() []string {
	frames := make([]uint64, 0, len(s.steps))
	for f := range s.steps {
		frames = append(frames, f)
	}
	sort.Slice(frames, func(i, j int) bool { return frames[i] < frames[j] })

	var out []string
	for _, f := range frames {
		for _, a := range s.steps[f] {
			out = append(out, fmt.Sprintf("frame %d: %s", f, a.desc))
		}
	}
	return out
}

// BeforeFrame returns a hook for hololoop.Runner that applies the events of each frame.
func (s *Script) BeforeFrame(host *sim.Host, app *hololoop.App) func(uint64) {
	return func(frame uint64) {
		for _, a := range s.steps[frame] {
			a.apply(host, app)
		}
	}
}

func splitEntry(entry string, needArg bool) (uint64, string, error) {
	head, arg, found := strings.Cut(entry, ":")
	frame, err := strconv.ParseUint(strings.TrimSpace(head), 10, 64)
	if err != nil || frame == 0 {
		return 0, "", fmt.Errorf("frame must be a positive integer")
	}
	arg = strings.TrimSpace(arg)
	if needArg && (!found || arg == "") {
		return 0, "", fmt.Errorf("expected frame:value")
	}
	if !needArg && found {
		return 0, "", fmt.Errorf("unexpected value after frame")
	}
	return frame, arg, nil
}
