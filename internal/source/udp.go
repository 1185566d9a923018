package source

import (
	"context"
	"fmt"
	"log"
	"net"
	"sync"
	"time"

	"github.com/banshee-data/scanview/internal/scan"
)

// UDPConfig contains configuration options for the UDP scan listener.
type UDPConfig struct {
	Address string // bind address, e.g. ":2368"
	RcvBuf  int    // socket receive buffer size, bytes
	Handler Handler
}

// UDPSource receives one CBOR-encoded scan message per datagram. Decode
// failures are logged and skipped; they never stop the listener.
type UDPSource struct {
	address string
	rcvBuf  int
	handler Handler

	mu   sync.Mutex
	conn *net.UDPConn
}

// NewUDPSource creates a UDP listener with the provided configuration.
func NewUDPSource(cfg UDPConfig) *UDPSource {
	rcvBuf := cfg.RcvBuf
	if rcvBuf == 0 {
		rcvBuf = 4 << 20
	}
	return &UDPSource{
		address: cfg.Address,
		rcvBuf:  rcvBuf,
		handler: cfg.Handler,
	}
}

// Run listens for scan datagrams until the context is cancelled.
func (s *UDPSource) Run(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp", s.address)
	if err != nil {
		return fmt.Errorf("failed to resolve UDP address: %w", err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on UDP address: %w", err)
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	defer conn.Close()

	if err := conn.SetReadBuffer(s.rcvBuf); err != nil {
		log.Printf("Warning: failed to set UDP receive buffer to %d bytes: %v", s.rcvBuf, err)
	}

	log.Printf("Scan listener started on %s with receive buffer %d bytes", s.address, s.rcvBuf)

	// Scan messages with a few thousand ranges fit comfortably in 64KB,
	// the maximum UDP payload.
	buffer := make([]byte, 65536)

	for {
		select {
		case <-ctx.Done():
			log.Print("Scan listener stopping due to context cancellation")
			return ctx.Err()
		default:
			// Read deadline so context cancellation is noticed promptly.
			conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))

			n, from, err := conn.ReadFromUDP(buffer)
			if err != nil {
				if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
					continue
				}
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("UDP read error: %v", err)
				continue
			}

			msg, err := scan.Decode(buffer[:n])
			if err != nil {
				log.Printf("Skipping malformed scan message from %v: %v", from, err)
				continue
			}
			s.handler(msg)
		}
	}
}

// LocalAddr returns the bound socket address, or nil before Run has started
// listening. Lets callers bind port 0 and discover the assigned port.
func (s *UDPSource) LocalAddr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	return s.conn.LocalAddr()
}

// Close closes the UDP socket if open.
func (s *UDPSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
