package llm

import "context"

// UsageRecorder receives token counts from completed chat calls.
type UsageRecorder interface {
	RecordTokens(input, output int)
}

type metered struct {
	inner Provider
	rec   UsageRecorder
}

// WithUsage wraps a provider so token usage from every chat call is
// reported to rec. A nil recorder returns the provider unchanged.
func WithUsage(p Provider, rec UsageRecorder) Provider {
	if rec == nil {
		return p
	}
	return &metered{inner: p, rec: rec}
}

func (m *metered) Name() string {
	return m.inner.Name()
}

func (m *metered) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := m.inner.Chat(ctx, req)
	if err != nil {
		return nil, err
	}
	m.rec.RecordTokens(resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return resp, nil
}
