// Package services wraps the wire protocol in typed operations for the CLI.
package services

import (
	"context"

	"github.com/dmitrijs2005/smartlearn/internal/protocol"
)

// Caller is the slice of the connection client the services need. Tests
// substitute a stub.
type Caller interface {
	Call(ctx context.Context, msg *protocol.Message) (*protocol.Message, error)
	CallMarker(ctx context.Context, msg *protocol.Message) (*protocol.Message, error)
}
