package source

import (
	"context"
	"fmt"
	"log"
	"syscall"
	"time"

	"github.com/pebbe/zmq4"

	"github.com/banshee-data/scanview/internal/scan"
)

// ZMQSource pulls CBOR-encoded scan messages from a ZeroMQ PUSH endpoint.
// Sensors or bridges that publish over ZeroMQ connect here instead of UDP.
type ZMQSource struct {
	endpoint string
	handler  Handler
}

// NewZMQSource creates a source that connects to the given endpoint,
// e.g. "tcp://localhost:5555".
func NewZMQSource(endpoint string, handler Handler) *ZMQSource {
	return &ZMQSource{endpoint: endpoint, handler: handler}
}

// Run receives scan messages until the context is cancelled. Receive and
// decode errors are logged and skipped.
func (s *ZMQSource) Run(ctx context.Context) error {
	socket, err := zmq4.NewSocket(zmq4.PULL)
	if err != nil {
		return fmt.Errorf("failed to create ZMQ socket: %w", err)
	}
	defer socket.Close()

	if err := socket.Connect(s.endpoint); err != nil {
		return fmt.Errorf("failed to connect to %s: %w", s.endpoint, err)
	}

	// Receive timeout so context cancellation is noticed promptly.
	if err := socket.SetRcvtimeo(100 * time.Millisecond); err != nil {
		return fmt.Errorf("failed to set receive timeout: %w", err)
	}

	log.Printf("ZMQ scan source connected to %s", s.endpoint)

	for {
		select {
		case <-ctx.Done():
			log.Print("ZMQ scan source stopping due to context cancellation")
			return ctx.Err()
		default:
		}

		payload, err := socket.RecvBytes(0)
		if err != nil {
			if zmq4.AsErrno(err) == zmq4.Errno(syscall.EAGAIN) {
				continue // receive timed out, check context again
			}
			log.Printf("ZMQ receive error: %v", err)
			continue
		}

		msg, err := scan.Decode(payload)
		if err != nil {
			log.Printf("Skipping malformed scan message: %v", err)
			continue
		}
		s.handler(msg)
	}
}
