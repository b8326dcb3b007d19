package email

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Fallback tries the primary sender and, on failure, the secondary one.
// Either may be nil.
type Fallback struct {
	primary   Sender
	secondary Sender
	logger    *zap.Logger
}

// NewFallback creates a sender chain.
func NewFallback(primary, secondary Sender, logger *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Send delivers msg via the first sender that accepts it.
func (f *Fallback) Send(ctx context.Context, msg Message) (Result, error) {
	if f.primary == nil && f.secondary == nil {
		return Result{}, ErrNoProvider
	}

	var primaryErr error
	if f.primary != nil {
		res, err := f.primary.Send(ctx, msg)
		if err == nil {
			return res, nil
		}
		primaryErr = err
		if f.secondary == nil {
			return Result{}, err
		}
		f.logger.Warn("primary email provider failed, falling back",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
			zap.Error(err),
		)
	}

	res, err := f.secondary.Send(ctx, msg)
	if err != nil {
		return Result{}, errors.Join(primaryErr, err)
	}
	return res, nil
}
