package source

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log"

	"go.bug.st/serial"

	"github.com/banshee-data/scanview/internal/scan"
)

// maxSerialFrame bounds a length-prefixed serial frame. Anything larger is
// treated as a framing error and the stream is resynchronised.
const maxSerialFrame = 1 << 20

// SerialConfig contains configuration options for the serial scan source.
type SerialConfig struct {
	Port     string // e.g. "/dev/ttyUSB0"
	BaudRate int    // defaults to 115200
	Handler  Handler
}

// SerialSource reads scan messages from a serial port carrying
// length-prefixed CBOR frames: a 4-byte little-endian payload length followed
// by the payload. Tethered scanners and bridge adapters use this transport.
type SerialSource struct {
	port     string
	baudRate int
	handler  Handler
}

// NewSerialSource creates a serial source with the provided configuration.
func NewSerialSource(cfg SerialConfig) *SerialSource {
	baud := cfg.BaudRate
	if baud == 0 {
		baud = 115200
	}
	return &SerialSource{port: cfg.Port, baudRate: baud, handler: cfg.Handler}
}

// Run reads frames from the port until the context is cancelled or the port
// fails. Malformed frames are logged and skipped.
func (s *SerialSource) Run(ctx context.Context) error {
	mode := &serial.Mode{BaudRate: s.baudRate}
	port, err := serial.Open(s.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}
	defer port.Close()

	// Close the port on cancellation to unblock any in-flight read.
	go func() {
		<-ctx.Done()
		port.Close()
	}()

	log.Printf("Serial scan source reading %s at %d baud", s.port, s.baudRate)

	lenBuf := make([]byte, 4)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if _, err := io.ReadFull(port, lenBuf); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("serial read failed: %w", err)
		}

		frameLen := binary.LittleEndian.Uint32(lenBuf)
		if frameLen == 0 || frameLen > maxSerialFrame {
			log.Printf("Skipping serial frame with implausible length %d", frameLen)
			continue
		}

		payload := make([]byte, frameLen)
		if _, err := io.ReadFull(port, payload); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("serial read failed: %w", err)
		}

		msg, err := scan.Decode(payload)
		if err != nil {
			log.Printf("Skipping malformed scan message: %v", err)
			continue
		}
		s.handler(msg)
	}
}
