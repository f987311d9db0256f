package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/hololoop/pkg/domain"
)

// Report formats a snapshot as a markdown document suitable for NewRenderer
// or for plain output when stdout is not a terminal.
func Report(name string, snap domain.Snapshot) string {
	var sb strings.Builder

	if name == "" {
		name = "hololoop"
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)

	space := snap.SpaceID
	if space == "" {
		space = "_none_"
	}
	fmt.Fprintf(&sb, "| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Space | %s |\n", space)
	fmt.Fprintf(&sb, "| Tracking | %s |\n", snap.Locatability)
	fmt.Fprintf(&sb, "| Frames | %d |\n", snap.Frames)
	fmt.Fprintf(&sb, "| FPS | %d |\n", snap.Timing.FPS)
	fmt.Fprintf(&sb, "| Device lost | %t |\n", snap.DeviceLost)
	fmt.Fprintf(&sb, "| Registrations | %d |\n\n", snap.Registrations)

	sb.WriteString("## Cameras\n\n")
	if len(snap.KnownCameras) == 0 {
		sb.WriteString("_No holographic cameras attached._\n\n")
	} else {
		ready := make(map[domain.CameraID]bool, len(snap.ReadyCameras))
		for _, id := range snap.ReadyCameras {
			ready[id] = true
		}
		for _, id := range snap.KnownCameras {
			status := "pending"
			if ready[id] {
				status = "ready"
			}
			fmt.Fprintf(&sb, "- `%s` %s\n", id, status)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Content\n\n")
	p := snap.State.Placement
	if p.Placed {
		fmt.Fprintf(&sb, "Placed at (%.2f, %.2f, %.2f).", p.Position.X, p.Position.Y, p.Position.Z)
	} else {
		fmt.Fprintf(&sb, "Default placement at (%.2f, %.2f, %.2f).", p.Position.X, p.Position.Y, p.Position.Z)
	}
	fmt.Fprintf(&sb, " Repositioned %d times.", snap.State.Repositions)
	if snap.State.RepositionPending {
		sb.WriteString(" **Reposition pending.**")
	}
	sb.WriteString("\n\n")

	sb.WriteString("## Voice commands\n\n")
	if len(snap.Grammar) == 0 {
		sb.WriteString("_No grammar installed._\n")
	} else {
		for _, phrase := range snap.Grammar {
			fmt.Fprintf(&sb, "- \"%s\"\n", phrase)
		}
	}

	return sb.String()
}
