package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

// Remote calls a hosted verification service:
// POST {url, contentExcerpt, parserOutput} -> {out, model, source}.
type Remote struct {
	Endpoint string
	APIKey   string
	HC       *http.Client
	Limiter  *textutil.HostLimiter
}

func NewRemote(endpoint, apiKey string, limiter *textutil.HostLimiter) *Remote {
	return &Remote{
		Endpoint: endpoint,
		APIKey:   apiKey,
		HC:       &http.Client{Timeout: 30 * time.Second},
		Limiter:  limiter,
	}
}

func (r *Remote) Name() string { return "remote" }

func (r *Remote) Available(ctx context.Context) bool {
	return r.Endpoint != ""
}

type remoteEnvelope struct {
	Out    json.RawMessage `json:"out"`
	Model  string          `json:"model"`
	Source string          `json:"source"`
}

func (r *Remote) Verify(ctx context.Context, vreq Request) (domain.AgentOutput, error) {
	if r.Endpoint == "" {
		return domain.AgentOutput{}, domain.Errf(domain.ErrBackendDown, "remote validator not configured")
	}
	if r.Limiter != nil {
		if err := r.Limiter.WaitURL(ctx, r.Endpoint); err != nil {
			return domain.AgentOutput{}, domain.Errf(domain.ErrRateLimit, "remote validator limiter: %w", err)
		}
	}

	reqID := uuid.New().String()
	body, err := json.Marshal(vreq)
	if err != nil {
		return domain.AgentOutput{}, domain.Errf(domain.ErrValidation, "encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.Endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.AgentOutput{}, domain.Errf(domain.ErrNetwork, "build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if r.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.APIKey)
	}

	start := time.Now()
	resp, err := r.HC.Do(req)
	if err != nil {
		return domain.AgentOutput{}, domain.Errf(domain.ErrNetwork, "remote validator: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	log.Printf("[verify:remote] req=%s status=%d bytes=%d elapsed_ms=%d",
		reqID, resp.StatusCode, len(raw), time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.AgentOutput{}, domain.Errf(domain.ErrRateLimit, "remote validator throttled")
	case resp.StatusCode/100 != 2:
		return domain.AgentOutput{}, domain.Errf(domain.ErrBackendDown, "remote validator status %d", resp.StatusCode)
	}

	var env remoteEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Out) == 0 {
		return domain.AgentOutput{}, domain.Errf(domain.ErrValidation, "remote validator envelope: %v", err)
	}
	return DecodeAgentOutput(env.Out)
}
