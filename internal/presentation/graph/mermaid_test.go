package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/hololoop/internal/presentation/graph"
	"github.com/aretw0/hololoop/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		snap        domain.Snapshot
		contains    []string
		notContains []string
	}{
		{
			name: "Empty Session",
			snap: domain.Snapshot{Locatability: "unavailable"},
			contains: []string{
				"space((\"no space\"))",
				"tracking{{\"tracking: unavailable\"}}",
				"content[[\"content <br/> default placement\"]]",
				"grammar[/\"0 phrases\"/]",
			},
			notContains: []string{"classDef"},
		},
		{
			name: "Camera Styles",
			snap: domain.Snapshot{
				SpaceID:      "0123456789abcdef",
				KnownCameras: []domain.CameraID{"left-eye", "right.eye"},
				ReadyCameras: []domain.CameraID{"left-eye"},
			},
			contains: []string{
				"space((\"space 01234567\"))",
				"cam_left_eye[\"left-eye\"]",
				"space --> cam_right_eye",
				"class cam_left_eye ready;",
				"class cam_right_eye pending;",
			},
		},
		{
			name: "Placement And Pending Reposition",
			snap: domain.Snapshot{
				State: domain.SessionState{
					RepositionPending: true,
					Placement:         domain.Placement{Position: domain.Vec3{X: 1, Y: 1.5, Z: -2}, Placed: true},
				},
				Grammar: []string{"reset molecule"},
			},
			contains: []string{
				"placed at 1.00, 1.50, -2.00",
				"grammar[/\"1 phrases\"/]",
				"grammar -. \"reposition pending\" .-> content",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.snap)
			if !strings.HasPrefix(got, "graph TD\n") {
				t.Errorf("missing header in:\n%s", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}
			for _, unwanted := range tt.notContains {
				if strings.Contains(got, unwanted) {
					t.Errorf("expected output to not contain %q, got:\n%s", unwanted, got)
				}
			}
		})
	}
}
