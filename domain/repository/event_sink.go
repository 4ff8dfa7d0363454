package repository

import (
	"context"

	"creative-assigner/domain/model"
)

// IEventSink forwards engine events outside the process.
type IEventSink interface {
	Publish(ctx context.Context, evt model.Event) error
}
