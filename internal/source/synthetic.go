package source

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/banshee-data/scanview/internal/scan"
)

// SyntheticSource generates scan messages for demos and tests: a square room
// around the sensor with a moving target, swept at a fixed message rate.
type SyntheticSource struct {
	handler Handler

	// Configuration
	FrameID    string
	Rate       float64 // messages per second
	Beams      int     // samples per sweep
	RoomHalf   float64 // metres, half-width of the square room
	RangeMin   float64
	RangeMax   float64
	NoiseSigma float64 // metres, gaussian range noise

	rng *rand.Rand
}

// NewSyntheticSource creates a generator with sensible defaults.
func NewSyntheticSource(handler Handler) *SyntheticSource {
	return &SyntheticSource{
		handler:    handler,
		FrameID:    "synthetic",
		Rate:       10.0,
		Beams:      360,
		RoomHalf:   4.0,
		RangeMin:   0.1,
		RangeMax:   10.0,
		NoiseSigma: 0.01,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run emits scans at the configured rate until the context is cancelled.
func (s *SyntheticSource) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.Rate))
	defer ticker.Stop()

	log.Printf("Synthetic scan source emitting %d-beam sweeps at %.1f Hz", s.Beams, s.Rate)

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			log.Print("Synthetic scan source stopping due to context cancellation")
			return ctx.Err()
		case <-ticker.C:
			s.handler(s.NextScan(time.Since(start).Seconds()))
		}
	}
}

// NextScan builds one sweep. elapsed parameterises the moving target so
// consecutive frames animate.
func (s *SyntheticSource) NextScan(elapsed float64) *scan.Message {
	increment := 2 * math.Pi / float64(s.Beams)
	msg := &scan.Message{
		FrameID:        s.FrameID,
		AngleMin:       -math.Pi,
		AngleMax:       math.Pi,
		AngleIncrement: increment,
		TimeIncrement:  1.0 / (s.Rate * float64(s.Beams)),
		ScanTime:       1.0 / s.Rate,
		RangeMin:       s.RangeMin,
		RangeMax:       s.RangeMax,
		Ranges:         make([]float64, s.Beams),
	}

	// Target orbiting the sensor at 2m.
	targetAngle := math.Mod(elapsed*0.5, 2*math.Pi) - math.Pi

	for i := 0; i < s.Beams; i++ {
		angle := msg.Angle(i)
		r := s.roomRange(angle)
		if math.Abs(angleDiff(angle, targetAngle)) < 0.15 {
			r = 2.0
		}
		r += s.rng.NormFloat64() * s.NoiseSigma
		if r < s.RangeMin {
			r = s.RangeMin
		}
		msg.Ranges[i] = r
	}
	return msg
}

// roomRange returns the distance from the centre of a square room to its wall
// along the given bearing.
func (s *SyntheticSource) roomRange(angle float64) float64 {
	c, si := math.Cos(angle), math.Sin(angle)
	r := math.Inf(1)
	if c != 0 {
		r = math.Min(r, s.RoomHalf/math.Abs(c))
	}
	if si != 0 {
		r = math.Min(r, s.RoomHalf/math.Abs(si))
	}
	return r
}

// angleDiff returns the signed smallest difference between two angles.
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b+math.Pi, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}
