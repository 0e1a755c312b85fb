package receipts

import (
	"context"

	"stayvia/backend"
)

// Sender delivers a receipt by email.
type Sender interface {
	Send(ctx context.Context, r Receipt, to string) error
}

// BackendSender asks the marketplace backend to send the receipt.
type BackendSender struct {
	Client *backend.Client
}

func (s BackendSender) Send(ctx context.Context, r Receipt, to string) error {
	return s.Client.For(ctx).SendReceipt(ctx, to, r.Booking.ID)
}
