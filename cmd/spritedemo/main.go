// Command spritedemo builds a small animation with the sprite package,
// exercises undo and redo, and writes every frame as a PNG.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"math"
	"os"

	"github.com/fogleman/gg"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/sprite"
	"github.com/gogpu/sprite/raster"
	"github.com/gogpu/sprite/undo"
)

func main() {
	var (
		width   = flag.Int("width", 96, "sprite width")
		height  = flag.Int("height", 96, "sprite height")
		frames  = flag.Int("frames", 6, "number of frames")
		output  = flag.String("output", "frame", "output file prefix")
		limit   = flag.Int64("undo-limit", undo.DefaultLimit, "undo memory limit in bytes")
		verbose = flag.Bool("v", false, "log journal activity")
		tui     = flag.Bool("tui", false, "open the interactive timeline instead of writing files")
	)
	flag.Parse()

	if *verbose {
		sprite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if *tui {
		if err := runTimeline(*width, *height); err != nil {
			log.Fatal(err)
		}
		return
	}

	reg := prometheus.NewRegistry()
	s, err := sprite.NewWithLayer(raster.ModeRGBA, *width, *height,
		sprite.WithUndoLimit(*limit),
		sprite.WithUndoMetrics(undo.NewMetrics(reg)),
		sprite.WithStatusSink(func(msg string) { log.Println(msg) }),
	)
	if err != nil {
		log.Fatalf("Failed to create sprite: %v", err)
	}
	defer s.Release()

	s.Lock()
	err = buildAnimation(s, *frames)
	s.Unlock()
	if err != nil {
		log.Fatalf("Failed to build animation: %v", err)
	}

	s.Lock()
	err = exerciseHistory(s)
	s.Unlock()
	if err != nil {
		log.Fatalf("Undo/redo failed: %v", err)
	}

	s.Lock()
	err = writeFrames(s, *output)
	s.Unlock()
	if err != nil {
		log.Fatalf("Failed to save: %v", err)
	}

	reportMetrics(reg)
	log.Printf("Saved %d frames to %s-*.png (%dx%d)\n", s.Frames(), *output, *width, *height)
}

// buildAnimation paints a ball on frame 0, then appends frames, repainting
// each one. Every step is one undo group.
func buildAnimation(s *sprite.Sprite, frames int) error {
	if err := paintFrame(s, frames); err != nil {
		return err
	}
	for s.Frames() < frames {
		if err := s.NewFrame(); err != nil {
			return err
		}
		if err := paintFrame(s, frames); err != nil {
			return err
		}
	}
	return nil
}

// paintFrame replaces the current cel's image with a freshly painted one.
func paintFrame(s *sprite.Sprite, frames int) error {
	layer, ok := s.CurrentLayer().(*sprite.ImageLayer)
	if !ok {
		return sprite.ErrNotImageLayer
	}
	cel := layer.Cel(s.Frame())
	if cel == nil {
		return sprite.ErrNoCel
	}

	img, err := raster.FromImage(drawBall(s.Width(), s.Height(), s.Frame(), frames))
	if err != nil {
		return err
	}
	return s.Transaction("Paint", func() error {
		if err := s.ReplaceImage(cel.Image(), img); err != nil {
			return err
		}
		return s.SetFrameDuration(s.Frame(), 60+20*s.Frame())
	})
}

// drawBall paints a ball bouncing across the canvas.
func drawBall(w, h, frame, frames int) image.Image {
	dc := gg.NewContext(w, h)
	dc.SetRGBA(0, 0, 0, 0)
	dc.Clear()

	t := float64(frame) / float64(max(frames-1, 1))
	r := float64(min(w, h)) / 8
	x := r + t*(float64(w)-2*r)
	y := float64(h) - r - math.Abs(math.Sin(t*math.Pi*2))*(float64(h)-2*r)

	dc.SetRGB(0.2, 0.2, 0.25)
	dc.DrawEllipse(x, float64(h)-r/4, r, r/4)
	dc.Fill()

	dc.SetHexColor("#ff6f3c")
	dc.DrawCircle(x, y, r)
	dc.Fill()
	return dc.Image()
}

// exerciseHistory undoes the last two groups and redoes them.
func exerciseHistory(s *sprite.Sprite) error {
	for range 2 {
		if _, err := s.Undo(); err != nil {
			return err
		}
	}
	for s.CanRedo() {
		if _, err := s.Redo(); err != nil {
			return err
		}
	}
	return nil
}

// writeFrames renders every frame to prefix-NN.png, then restores the
// current frame.
func writeFrames(s *sprite.Sprite, prefix string) error {
	current := s.Frame()
	defer func() { _ = s.SetFrame(current) }()

	dst, err := raster.New(raster.ModeRGBA, s.Width(), s.Height())
	if err != nil {
		return err
	}
	for f := range s.Frames() {
		if err := s.SetFrame(f); err != nil {
			return err
		}
		dst.Clear(0)
		if err := s.Render(dst, 0, 0); err != nil {
			return err
		}
		if err := savePNG(fmt.Sprintf("%s-%02d.png", prefix, f), dst); err != nil {
			return err
		}
	}

	thumb, err := s.Thumbnail(s.Width()/4, s.Height()/4)
	if err != nil {
		return err
	}
	file, err := os.Create(prefix + "-thumb.png")
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, thumb)
}

func savePNG(path string, img *raster.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return png.Encode(file, img.ToNRGBA(nil))
}

// reportMetrics logs the journal counters.
func reportMetrics(reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		log.Printf("Failed to gather metrics: %v", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				log.Printf("%s%v = %v", mf.GetName(), m.GetLabel(), m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				log.Printf("%s = %v", mf.GetName(), m.GetGauge().GetValue())
			}
		}
	}
}
