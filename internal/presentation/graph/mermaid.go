package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/hololoop/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of a session snapshot.
// It applies semantic styling:
// - Space: ((Circle))
// - Tracking: {{Hexagon}}
// - Camera: [Rectangle], styled ready or pending
// - Content: [[Subroutine]]
// - Grammar: [/Parallelogram/] (input)
func GenerateMermaid(snap domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	spaceLabel := "no space"
	if snap.SpaceID != "" {
		spaceLabel = "space " + shortID(snap.SpaceID)
	}
	sb.WriteString(fmt.Sprintf("    space((\"%s\"))\n", spaceLabel))
	sb.WriteString(fmt.Sprintf("    tracking{{\"tracking: %s\"}}\n", snap.Locatability))
	sb.WriteString("    space --> tracking\n")

	ready := make(map[domain.CameraID]bool, len(snap.ReadyCameras))
	for _, id := range snap.ReadyCameras {
		ready[id] = true
	}
	for _, id := range snap.KnownCameras {
		safeID := "cam_" + sanitizeMermaidID(string(id))
		sb.WriteString(fmt.Sprintf("    %s[\"%s\"]\n", safeID, id))
		sb.WriteString(fmt.Sprintf("    space --> %s\n", safeID))
		sb.WriteString(fmt.Sprintf("    %s --> content\n", safeID))
	}

	placement := "default placement"
	if snap.State.Placement.Placed {
		p := snap.State.Placement.Position
		placement = fmt.Sprintf("placed at %.2f, %.2f, %.2f", p.X, p.Y, p.Z)
	}
	sb.WriteString(fmt.Sprintf("    content[[\"content <br/> %s\"]]\n", placement))

	sb.WriteString(fmt.Sprintf("    grammar[/\"%d phrases\"/]\n", len(snap.Grammar)))
	arrow := "-->"
	if snap.State.RepositionPending {
		arrow = "-. \"reposition pending\" .->"
	}
	sb.WriteString(fmt.Sprintf("    grammar %s content\n", arrow))

	if len(snap.KnownCameras) > 0 {
		sb.WriteString("\n    %% Camera Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef ready fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef pending fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		for _, id := range snap.KnownCameras {
			class := "pending"
			if ready[id] {
				class = "ready"
			}
			sb.WriteString(fmt.Sprintf("    class cam_%s %s;\n", sanitizeMermaidID(string(id)), class))
		}
	}

	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
