package sink

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"github.com/banshee-data/scanview/internal/render"
)

// Display presents frames in an interactive window by piping raw rgb24 video
// into an ffplay child process. ffplay owns the window lifecycle: created once
// at startup, torn down at process exit. Failure to start is fatal to the
// caller by contract; there is no headless fallback.
type Display struct {
	pipe io.WriteCloser
	cmd  *exec.Cmd
	size int
}

// NewDisplay launches ffplay configured for our frame size and returns a sink
// writing into its stdin.
func NewDisplay(imageSize int, title string) (*Display, error) {
	ffplayPath, err := exec.LookPath("ffplay")
	if err != nil {
		return nil, fmt.Errorf("ffplay not found in PATH: %w", err)
	}

	args := []string{
		"-f", "rawvideo",
		"-pixel_format", "rgb24",
		"-video_size", fmt.Sprintf("%dx%d", imageSize, imageSize),
		"-i", "-",
		"-window_title", title,
		"-fflags", "nobuffer",
		"-flags", "low_delay",
		"-loglevel", "error",
	}

	cmd := exec.Command(ffplayPath, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open ffplay stdin: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffplay: %w", err)
	}

	log.Printf("Display window %q started (ffplay pid %d)", title, cmd.Process.Pid)
	return &Display{pipe: stdin, cmd: cmd, size: imageSize}, nil
}

// Consume writes one frame to the display. The write is a bounded pipe write,
// never a wait on user input, so the ingestion path is not stalled.
func (d *Display) Consume(f *render.Frame) error {
	if _, err := d.pipe.Write(rgb24Bytes(f.Image)); err != nil {
		return fmt.Errorf("display write failed: %w", err)
	}
	return nil
}

// Close shuts down the ffplay process.
func (d *Display) Close() error {
	d.pipe.Close()
	if d.cmd.Process != nil {
		d.cmd.Process.Kill()
	}
	return d.cmd.Wait()
}
