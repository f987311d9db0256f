package ports

import (
	"context"

	"github.com/aretw0/hololoop/pkg/domain"
)

// Recognizer is a continuous speech recognition session.
type Recognizer interface {
	// InstallGrammar compiles phrases into the active constraint set and starts listening.
	InstallGrammar(ctx context.Context, phrases []string) error

	// UninstallGrammar stops listening and removes the active constraint set.
	UninstallGrammar(ctx context.Context) error

	// Subscribe registers for results and audio quality notices.
	Subscribe(onResult func(domain.SpeechResult), onQuality func(domain.QualityProblem)) Token
	Unsubscribe(token Token)
}

// AudioEngine plays short audio cues.
type AudioEngine interface {
	Play(cue string) error
	Suspend()
	Resume()
}
