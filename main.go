// ABOUTME: Entry point for the i2splay tool
// ABOUTME: Plays a test tone or an MP3 file through the I2S output pipeline
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Pewter-Audio/i2sout-go/internal/source"
	"github.com/Pewter-Audio/i2sout-go/internal/ui"
	"github.com/Pewter-Audio/i2sout-go/pkg/i2s"
	"github.com/Pewter-Audio/i2sout-go/pkg/i2s/output"
	"golang.org/x/sync/errgroup"
)

var (
	filePath     = flag.String("file", "", "MP3 file to play (default: 440Hz test tone)")
	toneFreq     = flag.Float64("tone", 440.0, "Test tone frequency in Hz")
	rate         = flag.Int("rate", 0, "Sample rate in Hz (default: source rate)")
	fuzzWordlen  = flag.Bool("fuzz-wordlen", false, "Allow word lengths beyond 16 bits for closer rates")
	bufferCount  = flag.Int("buffers", 4, "Number of DMA sample buffers")
	bufferFrames = flag.Int("buffer-frames", 128, "Length of each buffer in frames")
	backend      = flag.String("backend", "oto", "Output backend: oto or sim")
	logFile      = flag.String("log-file", "i2splay.log", "Log file path (TUI mode)")
	noTUI        = flag.Bool("no-tui", false, "Disable TUI, log stats to stderr instead")
)

func main() {
	flag.Parse()

	useTUI := !*noTUI

	// In TUI mode the terminal belongs to bubbletea, so logs go to a file.
	if useTUI {
		f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("error opening log file: %v", err)
		}
		defer func() { _ = f.Close() }()
		log.SetOutput(f)
	}

	src, name, err := openSource()
	if err != nil {
		log.Fatalf("failed to open source: %v", err)
	}
	defer src.Close()

	sampleRate := *rate
	if sampleRate == 0 {
		sampleRate = src.SampleRate()
	}

	var hw i2s.Peripheral
	switch *backend {
	case "oto":
		hw = output.NewOto()
	case "sim":
		hw = output.NewSim()
	default:
		log.Fatalf("unknown backend %q (want oto or sim)", *backend)
	}

	dev, err := i2s.New(hw, i2s.Config{
		BufferCount:  *bufferCount,
		BufferFrames: *bufferFrames,
		SampleRate:   sampleRate,
		// Bounded so a shutdown signal can interrupt a blocked push.
		PushTimeout: time.Second,
	})
	if err != nil {
		log.Fatalf("failed to initialize pipeline: %v", err)
	}
	defer dev.Close()

	if *fuzzWordlen {
		dev.SetSampleRate(sampleRate, true)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	var framesPushed atomic.Int64

	g.Go(func() error {
		// End of stream stops the monitor loops too; a nil return alone
		// would not cancel the group context.
		defer stop()
		return produce(ctx, dev, src, &framesPushed)
	})

	stats := func() ui.StatsMsg {
		return ui.StatsMsg{
			Clock:         dev.Clock(),
			QueueDepth:    dev.QueueDepth(),
			QueueCapacity: dev.QueueCapacity(),
			FramesPushed:  framesPushed.Load(),
			Underruns:     dev.UnderrunCount(),
			Playing:       true,
			SourceName:    name,
			SourceRate:    src.SampleRate(),
		}
	}

	if useTUI {
		p := ui.Run(dev.ID(), *backend)
		g.Go(func() error {
			ticker := time.NewTicker(200 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					p.Quit()
					return nil
				case <-ticker.C:
					p.Send(stats())
				}
			}
		})
		if _, err := p.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
		stop() // quitting the TUI ends playback too
	} else {
		g.Go(func() error {
			ticker := time.NewTicker(time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					s := stats()
					log.Printf("pushed %d frames, %d/%d buffers ready, %d underruns",
						s.FramesPushed, s.QueueDepth, s.QueueCapacity, s.Underruns)
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("playback failed: %v", err)
	}

	log.Printf("done: pushed %d frames, %d underruns", framesPushed.Load(), dev.UnderrunCount())
}

// openSource builds the frame source selected by the CLI flags.
func openSource() (source.Source, string, error) {
	if *filePath != "" {
		src, err := source.OpenMP3(*filePath)
		return src, *filePath, err
	}
	return source.NewTone(*toneFreq, *rate), fmt.Sprintf("%g Hz tone", *toneFreq), nil
}

// produce pulls frames from the source and pushes them into the device,
// letting PushSample's backpressure set the pace.
func produce(ctx context.Context, dev *i2s.Device, src source.Source, pushed *atomic.Int64) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frame, err := src.NextFrame()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("source error: %w", err)
		}

		for {
			err := dev.PushSample(frame)
			if err == nil {
				break
			}
			if errors.Is(err, i2s.ErrPushTimeout) {
				if ctx.Err() != nil {
					return nil
				}
				continue
			}
			return fmt.Errorf("push failed: %w", err)
		}
		pushed.Add(1)
	}
}
