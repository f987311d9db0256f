package sim

import (
	"context"
	"sync"

	"github.com/aretw0/hololoop/pkg/domain"
	"github.com/aretw0/hololoop/pkg/ports"
)

// Recognizer simulates a continuous recognition session constrained by a phrase list.
type Recognizer struct {
	mu         sync.Mutex
	grammar    map[string]bool
	installed  bool
	installs   int
	uninstalls int
	overlaps   int
	installErr error

	results map[ports.Token]func(domain.SpeechResult)
	quality map[ports.Token]func(domain.QualityProblem)
}

var _ ports.Recognizer = (*Recognizer)(nil)

// NewRecognizer creates a recognizer with no grammar.
func NewRecognizer() *Recognizer {
	return &Recognizer{
		results: make(map[ports.Token]func(domain.SpeechResult)),
		quality: make(map[ports.Token]func(domain.QualityProblem)),
	}
}

// InstallGrammar replaces the active grammar. Installing over an active grammar is
// recorded as an overlap.
func (r *Recognizer) InstallGrammar(ctx context.Context, phrases []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.installErr != nil {
		return r.installErr
	}
	if r.installed {
		r.overlaps++
	}
	r.grammar = make(map[string]bool, len(phrases))
	for _, p := range phrases {
		r.grammar[domain.NormalizePhrase(p)] = true
	}
	r.installed = true
	r.installs++
	return nil
}

func (r *Recognizer) UninstallGrammar(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.grammar = nil
	r.installed = false
	r.uninstalls++
	return nil
}

func (r *Recognizer) Subscribe(onResult func(domain.SpeechResult), onQuality func(domain.QualityProblem)) ports.Token {
	token := newToken()
	r.mu.Lock()
	defer r.mu.Unlock()
	if onResult != nil {
		r.results[token] = onResult
	}
	if onQuality != nil {
		r.quality[token] = onQuality
	}
	return token
}

func (r *Recognizer) Unsubscribe(token ports.Token) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.results, token)
	delete(r.quality, token)
}

// Say delivers a result for text. Phrases outside the active grammar are delivered
// with rejected confidence, the way a constrained recognizer reports them.
func (r *Recognizer) Say(text string, confidence domain.Confidence) {
	r.mu.Lock()
	if !r.grammar[domain.NormalizePhrase(text)] {
		confidence = domain.ConfidenceRejected
	}
	handlers := collect(r.results)
	r.mu.Unlock()

	result := domain.SpeechResult{Text: text, Confidence: confidence}
	for _, h := range handlers {
		h(result)
	}
}

// Degrade reports an audio quality problem to subscribers.
func (r *Recognizer) Degrade(problem domain.QualityProblem) {
	r.mu.Lock()
	handlers := collect(r.quality)
	r.mu.Unlock()

	for _, h := range handlers {
		h(problem)
	}
}

// FailInstall makes InstallGrammar return err. A nil err clears the failure.
func (r *Recognizer) FailInstall(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.installErr = err
}

// Grammar returns the active phrases.
func (r *Recognizer) Grammar() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.grammar))
	for p := range r.grammar {
		out = append(out, p)
	}
	return out
}

// Installed reports whether a grammar is active.
func (r *Recognizer) Installed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.installed
}

// Installs counts successful InstallGrammar calls.
func (r *Recognizer) Installs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.installs
}

// Overlaps counts installs that happened while another grammar was active.
func (r *Recognizer) Overlaps() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.overlaps
}

// Subscriptions counts live result subscriptions.
func (r *Recognizer) Subscriptions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

// Audio records played cues.
type Audio struct {
	mu        sync.Mutex
	played    []string
	suspended bool
}

var _ ports.AudioEngine = (*Audio)(nil)

func NewAudio() *Audio {
	return &Audio{}
}

// Play records cue. Cues played while suspended are dropped.
func (a *Audio) Play(cue string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.suspended {
		return nil
	}
	a.played = append(a.played, cue)
	return nil
}

func (a *Audio) Suspend() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suspended = true
}

func (a *Audio) Resume() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.suspended = false
}

// Played returns the cues played so far.
func (a *Audio) Played() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.played...)
}

// Suspended reports whether audio is suspended.
func (a *Audio) Suspended() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.suspended
}
