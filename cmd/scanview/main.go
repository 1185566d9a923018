// Command scanview renders planar range scans into a live 2D top-down view
// and records the session to video, one frame per incoming scan message.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/scanview/internal/geom"
	"github.com/banshee-data/scanview/internal/pipeline"
	"github.com/banshee-data/scanview/internal/render"
	"github.com/banshee-data/scanview/internal/scan"
	"github.com/banshee-data/scanview/internal/sink"
	"github.com/banshee-data/scanview/internal/source"
	"github.com/banshee-data/scanview/internal/stats"
	"github.com/banshee-data/scanview/internal/version"
	"github.com/banshee-data/scanview/internal/web"
)

var (
	sourceKind = flag.String("source", "udp", "Scan source: udp, zmq, serial, synthetic or pcap")
	udpAddr    = flag.String("udp-addr", ":2368", "UDP bind address for scan datagrams")
	zmqAddr    = flag.String("zmq-addr", "tcp://localhost:5555", "ZMQ endpoint for scan messages")
	serialPort = flag.String("serial-port", "/dev/ttyUSB0", "Serial port for tethered scanners")
	serialBaud = flag.Int("serial-baud", 115200, "Serial baud rate")
	pcapFile   = flag.String("pcap", "", "PCAP capture file to replay (with -source pcap)")
	pcapPort   = flag.Int("pcap-port", 2368, "UDP port filter for PCAP replay")

	imageSize      = flag.Int("image-size", 500, "Raster image side in pixels")
	metersPerPixel = flag.Float64("meters-per-pixel", 0.02, "Ground distance per pixel in metres")
	hud            = flag.Bool("hud", false, "Overlay frame statistics on the rendered image")

	videoPath = flag.String("video", "lidar_scan.avi", "Video output path")
	videoFPS  = flag.Int("fps", 10, "Video presentation frame rate")
	noVideo   = flag.Bool("no-video", false, "Disable video recording")
	noDisplay = flag.Bool("no-display", false, "Disable the interactive display window")

	dbFile   = flag.String("db", "", "SQLite file for session statistics (empty disables)")
	plotsDir = flag.String("plots", "", "Directory for shutdown summary plots (empty disables)")
	listen   = flag.String("listen", "", "HTTP status server address (empty disables)")

	windowTitle = flag.String("window-title", "Lidar Scan", "Display window title")
)

func main() {
	flag.Parse()

	log.Printf("scanview %s (%s, built %s)", version.Version, version.GitSHA, version.BuildTime)

	view := geom.ViewConfig{ImageSize: *imageSize, MetersPerPixel: *metersPerPixel}
	if view.ImageSize <= 0 || view.MetersPerPixel <= 0 {
		log.Fatalf("Invalid view configuration: image size %d, meters per pixel %f", view.ImageSize, view.MetersPerPixel)
	}

	renderer := render.NewRenderer(view)
	renderer.SetHUD(*hud)

	// Sinks. Display failure is fatal: there is no headless fallback unless
	// the operator asked for one. Recording failure is a one-time warning.
	var sinks []sink.Sink
	if !*noDisplay {
		display, err := sink.NewDisplay(view.ImageSize, *windowTitle)
		if err != nil {
			log.Fatalf("Failed to open display: %v", err)
		}
		sinks = append(sinks, display)
	}
	if !*noVideo {
		cfg := sink.DefaultVideoConfig(view.ImageSize)
		cfg.Path = *videoPath
		cfg.FrameRate = *videoFPS
		sinks = append(sinks, sink.NewVideoWriter(cfg))
	}

	var websink *sink.WebSink
	var statusServer *web.Server
	if *listen != "" {
		websink = sink.NewWebSink()
		sinks = append(sinks, websink)
		statusServer = web.NewServer(websink)
	}

	// Session statistics store (optional).
	var store pipeline.FrameStore
	var statsStore *stats.Store
	if *dbFile != "" {
		var err error
		statsStore, err = stats.NewStore(*dbFile, view)
		if err != nil {
			log.Fatalf("Failed to open stats database: %v", err)
		}
		defer statsStore.Close()
		store = statsStore
	}

	var observer pipeline.Observer = pipeline.LogObserver{}
	if statusServer != nil {
		observer = pipeline.MultiObserver{pipeline.LogObserver{}, statusServer}
	}

	multi := sink.NewMulti(sinks...)
	defer multi.Close()

	p := pipeline.New(pipeline.Config{
		Renderer: renderer,
		Sinks:    multi,
		Observer: observer,
		Store:    store,
	})

	src, err := buildSource(p.HandleScan)
	if err != nil {
		log.Fatalf("Failed to configure scan source: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Scan ingestion routine: the single pipeline thread.
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stop()
		if err := src.Run(ctx); err != nil && err != context.Canceled {
			log.Printf("Scan source error: %v", err)
		}
		log.Print("Scan source routine terminated")
	}()

	// HTTP status server routine (optional).
	if statusServer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := statusServer.Run(ctx, *listen); err != nil {
				log.Printf("Status server error: %v", err)
			}
			log.Print("Status server routine terminated")
		}()
	}

	wg.Wait()

	if statsStore != nil && *plotsDir != "" {
		n, err := statsStore.GenerateSummaryPlots(*plotsDir)
		if err != nil {
			log.Printf("Failed to generate summary plots: %v", err)
		} else if n > 0 {
			log.Printf("Wrote %d summary plot(s) to %s", n, *plotsDir)
		}
	}

	log.Printf("Graceful shutdown complete")
}

// buildSource constructs the configured ingestion adapter around the pipeline
// handler.
func buildSource(handler func(*scan.Message)) (source.Source, error) {
	switch *sourceKind {
	case "udp":
		return source.NewUDPSource(source.UDPConfig{Address: *udpAddr, Handler: handler}), nil
	case "zmq":
		return source.NewZMQSource(*zmqAddr, handler), nil
	case "serial":
		return source.NewSerialSource(source.SerialConfig{
			Port:     *serialPort,
			BaudRate: *serialBaud,
			Handler:  handler,
		}), nil
	case "synthetic":
		return source.NewSyntheticSource(handler), nil
	case "pcap":
		if *pcapFile == "" {
			return nil, fmt.Errorf("-pcap file is required with -source pcap")
		}
		return pcapSource{file: *pcapFile, port: *pcapPort, handler: handler}, nil
	default:
		return nil, fmt.Errorf("unknown source %q", *sourceKind)
	}
}

// pcapSource adapts the replay function to the Source interface.
type pcapSource struct {
	file    string
	port    int
	handler source.Handler
}

func (p pcapSource) Run(ctx context.Context) error {
	return source.ReplayPCAPFile(ctx, p.file, p.port, p.handler)
}
