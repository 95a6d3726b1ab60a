package tracker

import "context"

// Client is the narrow tracker facade consumed by the orchestrator.
//
// ClaimNext atomically assigns the next claimable ticket of the configured
// type to this worker and returns its identifier; the second return is false
// when no ticket is available, which is not an error. All other calls fail
// with an error wrapping services.ErrTracker on transport or protocol
// failure, which the orchestrator treats as fatal for the current ticket
// only.
type Client interface {
	ClaimNext(ctx context.Context, filter map[string]string) (int64, bool, error)
	GetProperties(ctx context.Context, ticketID int64) (RawProperties, error)
	SetProperties(ctx context.Context, ticketID int64, properties map[string]string) error
	SetDone(ctx context.Context, ticketID int64, message string) error
	SetFailed(ctx context.Context, ticketID int64, message string) error
}
