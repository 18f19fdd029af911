package ordergateway

import (
	"context"

	"github.com/google/uuid"
)

// Stub accepts every order locally. Used for single-binary development runs
// where no remote order service is available.
type Stub struct{}

// NewStub returns an always-accepting gateway.
func NewStub() *Stub {
	return &Stub{}
}

// Submit acknowledges the order without leaving the process.
func (s *Stub) Submit(_ context.Context, req OrderRequest) (*OrderConfirmation, error) {
	return &OrderConfirmation{
		OrderID:   uuid.NewString(),
		Reference: req.Reference,
		Status:    "ACCEPTED",
	}, nil
}
