package sink

import (
	"fmt"
	"io"
	"log"
	"os/exec"

	"github.com/banshee-data/scanview/internal/render"
)

// VideoConfig configures the session recording. Fixed at construction; there
// is no runtime reconfiguration and no mid-run open/close cycling.
type VideoConfig struct {
	Path      string // output file, e.g. "lidar_scan.avi"
	Codec     string // ffmpeg video codec identifier
	FrameRate int    // presentation rate; independent of scan arrival rate
	ImageSize int
}

// DefaultVideoConfig returns the standard MJPEG/AVI recording at 10 fps.
func DefaultVideoConfig(imageSize int) VideoConfig {
	return VideoConfig{
		Path:      "lidar_scan.avi",
		Codec:     "mjpeg",
		FrameRate: 10,
		ImageSize: imageSize,
	}
}

// VideoWriter appends frames to a video file by piping raw rgb24 video into an
// ffmpeg child process. If the encoder fails to start, the writer logs one
// warning and becomes a permanent no-op: recording failure is never fatal and
// never reported per frame.
type VideoWriter struct {
	pipe    io.WriteCloser
	cmd     *exec.Cmd
	enabled bool
}

// NewVideoWriter opens the recording. The returned writer is always usable;
// check Enabled to find out whether frames are actually being recorded.
func NewVideoWriter(cfg VideoConfig) *VideoWriter {
	w := &VideoWriter{}

	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		log.Printf("Warning: ffmpeg not found, video will not be saved: %v", err)
		return w
	}

	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", cfg.ImageSize, cfg.ImageSize),
		"-framerate", fmt.Sprintf("%d", cfg.FrameRate),
		"-i", "-",
		"-c:v", cfg.Codec,
		"-q:v", "3",
		"-loglevel", "error",
		cfg.Path,
	}

	cmd := exec.Command(ffmpegPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		log.Printf("Warning: failed to open encoder pipe, video will not be saved: %v", err)
		return w
	}
	if err := cmd.Start(); err != nil {
		log.Printf("Warning: failed to start video encoder, video will not be saved: %v", err)
		return w
	}

	log.Printf("Recording video to %s (%s, %d fps)", cfg.Path, cfg.Codec, cfg.FrameRate)
	w.pipe = stdin
	w.cmd = cmd
	w.enabled = true
	return w
}

// Enabled reports whether the recording actually opened.
func (w *VideoWriter) Enabled() bool { return w.enabled }

// Consume appends one frame to the recording in arrival order. A disabled
// writer returns nil; a write failure disables the writer for the rest of the
// session after a single warning.
func (w *VideoWriter) Consume(f *render.Frame) error {
	if !w.enabled {
		return nil
	}
	if _, err := w.pipe.Write(rgb24Bytes(f.Image)); err != nil {
		log.Printf("Warning: video write failed, disabling recording: %v", err)
		w.enabled = false
	}
	return nil
}

// Close finalises the recording. Safe to call on a disabled writer.
func (w *VideoWriter) Close() error {
	if w.pipe == nil {
		return nil
	}
	w.pipe.Close()
	if err := w.cmd.Wait(); err != nil {
		return fmt.Errorf("video encoder exited with error: %w", err)
	}
	return nil
}
