package render

import (
	"context"
	"graph-paper-service/internal/domain"
	"io"
)

// MockRenderer records the plots it receives and writes a fixed payload.
type MockRenderer struct {
	Payload []byte
	Err     error
	Plots   []*domain.Plot
}

func NewMockRenderer(payload []byte) *MockRenderer {
	return &MockRenderer{Payload: payload}
}

func (r *MockRenderer) Render(ctx context.Context, plot *domain.Plot, w io.Writer) error {
	r.Plots = append(r.Plots, plot)
	if r.Err != nil {
		return r.Err
	}
	_, err := w.Write(r.Payload)
	return err
}

func (r *MockRenderer) ContentType() string { return "application/octet-stream" }
