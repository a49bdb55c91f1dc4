package verify

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"ghostjob-engine/internal/domain"
)

// Local runs verification against an Ollama instance on this machine.
// Preferred over the remote backend when the runtime supports it.
type Local struct {
	ServerURL string
	Model     string

	llm *ollama.LLM
	hc  *http.Client
}

func NewLocal(serverURL, model string) (*Local, error) {
	if serverURL == "" {
		serverURL = "http://127.0.0.1:11434"
	}
	if model == "" {
		model = "llama3.1"
	}
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("local validator init: %w", err)
	}
	return &Local{
		ServerURL: serverURL,
		Model:     model,
		llm:       llm,
		hc:        &http.Client{Timeout: 3 * time.Second},
	}, nil
}

func (l *Local) Name() string { return "local" }

// Available probes the Ollama server with a short-deadline tags request.
// Called by the chain before each escalation so a stopped daemon routes to
// the remote backend instead of erroring.
func (l *Local) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.ServerURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := l.hc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

const verifyPromptTemplate = `You verify job posting field extraction. Given a page excerpt and the extractor's current guesses, confirm or correct the title, company, and location.

Rules:
- Only include a field when the excerpt supports an opinion on it. Omit fields entirely when unsure.
- Never invent values that are not grounded in the excerpt.
- Return ONLY a JSON object with this exact shape, no markdown, no commentary:
{"validated": true, "fields": {"title": {"value": "...", "confidence": 0.0}, "company": {"value": "...", "confidence": 0.0}, "location": {"value": "...", "confidence": 0.0}}, "notes": "..."}
- "validated" is true when the guesses are usable as-is or after your corrections.
- "confidence" is your own trust in each value, between 0 and 1.

Current guesses:
title: %q
company: %q
location: %q

Page URL: %s

Excerpt:
%s`

func (l *Local) Verify(ctx context.Context, req Request) (domain.AgentOutput, error) {
	prompt := fmt.Sprintf(verifyPromptTemplate,
		req.Guess.Title, req.Guess.Company, req.Guess.Location, req.URL, req.Excerpt)

	start := time.Now()
	resp, err := llms.GenerateFromSinglePrompt(ctx, l.llm, prompt,
		llms.WithTemperature(0),
		llms.WithJSONMode(),
	)
	if err != nil {
		return domain.AgentOutput{}, domain.Errf(domain.ErrBackendDown, "local validator: %w", err)
	}
	log.Printf("[verify:local] model=%s bytes=%d elapsed_ms=%d",
		l.Model, len(resp), time.Since(start).Milliseconds())

	return DecodeAgentOutput([]byte(strings.TrimSpace(resp)))
}
