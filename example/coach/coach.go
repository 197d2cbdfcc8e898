package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/swdee/go-posecoach"
	"github.com/swdee/go-posecoach/coach"
	"github.com/swdee/go-posecoach/config"
	"github.com/swdee/go-posecoach/logging"
	"github.com/swdee/go-posecoach/render"
	"github.com/swdee/go-posecoach/session"
	"github.com/swdee/go-posecoach/store"
	"gocv.io/x/gocv"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"time"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	cfgFile := flag.String("c", "../data/posecoach.toml", "Configuration file (TOML or YAML)")
	framesFile := flag.String("f", "../data/help-pose.jsonl", "JSON lines file of recorded frames")
	motionID := flag.Int("m", 1, "Motion ID to practice")
	modeName := flag.String("mode", "instant", "Practice mode, instant or classifier")
	holdGoal := flag.Float64("g", 0, "Hold goal in seconds, 0 uses the configured goal")
	outDir := flag.String("o", "", "Directory to save annotated frames to, empty disables")
	width := flag.Int("width", 640, "Width of annotated frames")
	height := flag.Int("height", 480, "Height of annotated frames")
	realtime := flag.Bool("realtime", false, "Replay frames at their recorded pace")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)

	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)

	mode, err := coach.ParseMode(*modeName)

	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	frames, err := posecoach.LoadFrames(*framesFile)

	if err != nil {
		log.Fatalf("Error reading frames: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	st, err := store.Open(ctx, cfg.Store, logger)

	if err != nil {
		log.Fatalf("Error opening store: %v", err)
	}

	defer st.Close()

	c := coach.New(cfg, st, logger)

	if err := c.LoadClassifiers(ctx); err != nil {
		log.Fatalf("Error loading classifiers: %v", err)
	}

	if err := c.LoadJournal(ctx); err != nil {
		log.Fatalf("Error loading journal: %v", err)
	}

	// pick up samples recorded by another process while replaying
	if fs, ok := st.(*store.File); ok {
		follow(ctx, c, fs)
	}

	p, err := c.Start(*motionID, mode, *holdGoal)

	if err != nil {
		log.Fatalf("Error starting practice: %v", err)
	}

	m := p.Session().Motion()
	log.Printf("Practicing %d %s (%s), %s mode, %d frames\n", m.ID, m.Name, m.LocalName,
		mode, len(frames))

	var annotator *annotate

	if *outDir != "" {
		annotator, err = newAnnotate(*outDir, *width, *height, cfg.Render)

		if err != nil {
			log.Fatalf("Error setting up annotation: %v", err)
		}

		defer annotator.Close()
	}

	start := time.Now()

	for i, fr := range frames {
		if ctx.Err() != nil {
			break
		}

		if *realtime {
			time.Sleep(time.Until(start.Add(time.Duration(fr.Timestamp * float64(time.Second)))))
		}

		res := p.Process(fr.Joints, fr.Timestamp)

		for _, ev := range res.Events {
			log.Printf("%7.2fs  [%s] %s\n", fr.Timestamp, ev.Kind, ev.Message)
		}

		if annotator != nil {
			if err := annotator.Frame(i, res, p); err != nil {
				log.Fatalf("Error annotating frame %d: %v", i, err)
			}
		}

		if p.Session().Done() {
			break
		}
	}

	summary(p.Session())

	entry, err := c.Finish(ctx, p)

	if err != nil {
		log.Printf("Not recorded: %v\n", err)
		return
	}

	stats := c.Journal().Stats()
	log.Printf("Recorded %s, %d sessions across %d motions, average score %d\n",
		entry.ID, stats.Total, stats.Motions, stats.AverageScore)
}

// follow reloads classifiers changed in a file store
func follow(ctx context.Context, c *coach.Coach, fs *store.File) {

	keys, err := fs.Watch(ctx)

	if err != nil {
		log.Printf("Not watching store: %v\n", err)
		return
	}

	go func() {
		for key := range keys {
			if ok, err := c.Reload(ctx, key); ok && err != nil {
				log.Printf("Error reloading %s: %v\n", key, err)
			}
		}
	}()
}

// summary prints the session result
func summary(s *session.Session) {

	log.Println(" --- Result ---")
	log.Printf("state:  %s\n", s.State())
	log.Printf("score:  %d/%d\n", s.Score(), session.MaxScore)

	if s.Mode() == session.Hold {
		log.Printf("hold:   %.1f/%gs\n", s.HoldSeconds(), s.HoldGoal())
	} else {
		log.Printf("cycles: %d/%d\n", s.CyclesDone(), s.Motion().TargetCycles)
	}
}

// annotate renders practice frames to image files
type annotate struct {
	dir    string
	canvas gocv.Mat
	font   render.Font
	ttf    *render.TextFace
	// flash is the last event message, kept on screen until the next one
	flash string
}

// newAnnotate creates the output directory and the optional TTF face
func newAnnotate(dir string, width, height int, cfg config.Render) (*annotate, error) {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating output directory: %w", err)
	}

	a := &annotate{
		dir:    dir,
		canvas: gocv.NewMatWithSize(height, width, gocv.MatTypeCV8UC3),
		font:   render.DefaultFont(),
	}

	if cfg.Font != "" {
		face, err := render.LoadTextFace(cfg.Font, cfg.FontSize)

		if err != nil {
			a.canvas.Close()
			return nil, err
		}

		a.ttf = face
		a.font.TTF = face
	}

	return a, nil
}

// Frame draws the frame result and writes it as a JPEG
func (a *annotate) Frame(i int, res coach.FrameResult, p *coach.Practice) error {

	img := a.canvas.Clone()
	defer img.Close()

	render.WristTrail(&img, p.History(), render.DefaultTrailStyle())
	render.Skeleton(&img, res.Joints, render.DefaultSkeletonStyle())
	render.Feedback(&img, res.Feedback, a.font)
	render.Progress(&img, p.Session(), a.font)

	if len(res.Events) > 0 {
		a.flash = res.Events[len(res.Events)-1].Message
	}

	switch {
	case !p.Session().ReadyDetected() && res.Readiness.Message != "":
		render.Banner(&img, res.Readiness.Message, a.font)
	case a.flash != "":
		render.Banner(&img, a.flash, a.font)
	}

	file := filepath.Join(a.dir, fmt.Sprintf("frame-%05d.jpg", i))

	if ok := gocv.IMWrite(file, img); !ok {
		return fmt.Errorf("error writing %s", file)
	}

	return nil
}

// Close releases the canvas and font
func (a *annotate) Close() {
	a.canvas.Close()

	if a.ttf != nil {
		a.ttf.Close()
	}
}
