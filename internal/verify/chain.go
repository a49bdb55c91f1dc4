package verify

import (
	"context"
	"log"

	"ghostjob-engine/internal/domain"
)

// Chain owns backend selection so the coordinator stays backend-agnostic:
// local when its capability probe passes, otherwise remote, with exactly one
// local→remote substitution on engine failure inside a single escalation.
type Chain struct {
	Local  Backend
	Remote Backend
}

func NewChain(local, remote Backend) *Chain {
	return &Chain{Local: local, Remote: remote}
}

// Verify runs one escalation attempt. A schema-invalid response means the
// engine answered but uselessly: that is "no correction", not grounds for
// burning the substitution on another engine.
func (c *Chain) Verify(ctx context.Context, req Request) (domain.AgentOutput, error) {
	primary, fallback := c.pick(ctx)
	if primary == nil {
		return domain.AgentOutput{}, domain.Errf(domain.ErrBackendDown, "no verification backend available")
	}

	out, err := primary.Verify(ctx, req)
	if err == nil {
		return out, nil
	}
	if domain.IsKind(err, domain.ErrValidation) {
		log.Printf("[verify] %s returned invalid output, treating as no correction: %v", primary.Name(), err)
		return domain.AgentOutput{Validated: false}, nil
	}

	if fallback == nil {
		return domain.AgentOutput{}, err
	}
	log.Printf("[verify] %s failed (%v), substituting %s", primary.Name(), err, fallback.Name())

	out, err = fallback.Verify(ctx, req)
	if err == nil {
		return out, nil
	}
	if domain.IsKind(err, domain.ErrValidation) {
		return domain.AgentOutput{Validated: false}, nil
	}
	return domain.AgentOutput{}, err
}

// pick prefers local when the runtime supports it; the remote backend is the
// substitution target only when distinct from the primary.
func (c *Chain) pick(ctx context.Context) (primary, fallback Backend) {
	if c.Local != nil && c.Local.Available(ctx) {
		if c.Remote != nil && c.Remote.Available(ctx) {
			return c.Local, c.Remote
		}
		return c.Local, nil
	}
	if c.Remote != nil && c.Remote.Available(ctx) {
		return c.Remote, nil
	}
	return nil, nil
}
