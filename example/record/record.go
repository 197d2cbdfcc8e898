package main

import (
	"context"
	"flag"
	"github.com/swdee/go-posecoach"
	"github.com/swdee/go-posecoach/coach"
	"github.com/swdee/go-posecoach/config"
	"github.com/swdee/go-posecoach/logging"
	"github.com/swdee/go-posecoach/motion"
	"github.com/swdee/go-posecoach/store"
	"log"
	"os"
)

func main() {
	// disable logging timestamps
	log.SetFlags(0)

	// read in cli flags
	cfgFile := flag.String("c", "../data/posecoach.toml", "Configuration file (TOML or YAML)")
	framesFile := flag.String("f", "../data/help-pose.jsonl", "JSON lines file of labeled frames")
	motionID := flag.Int("m", 1, "Motion ID to record samples for")
	step := flag.Int("s", -1, "Step index to record every frame as, -1 uses each frame's label")
	every := flag.Int("n", 1, "Record every nth frame")
	reset := flag.Bool("delete", false, "Delete the motion's samples before recording")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)

	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := logging.New(cfg.Log, os.Stderr)
	ctx := context.Background()

	m, ok := motion.Lookup(*motionID)

	if !ok {
		log.Fatalf("Unknown motion %d, valid IDs are %v", *motionID, motion.IDs())
	}

	frames, err := posecoach.LoadFrames(*framesFile)

	if err != nil {
		log.Fatalf("Error reading frames: %v", err)
	}

	st, err := store.Open(ctx, cfg.Store, logger)

	if err != nil {
		log.Fatalf("Error opening store: %v", err)
	}

	defer st.Close()

	c := coach.New(cfg, st, logger)

	if *reset {
		if err := c.DeleteSamples(ctx, m.ID); err != nil {
			log.Fatalf("Error deleting samples: %v", err)
		}
	} else if err := c.LoadClassifiers(ctx); err != nil {
		log.Fatalf("Error loading classifiers: %v", err)
	}

	// map labels to step indexes
	stepIdx := make(map[string]int, len(m.Steps))

	for i, s := range m.Steps {
		stepIdx[s] = i
	}

	recorded, skipped := 0, 0

	for i, fr := range frames {
		if *every > 1 && i%*every != 0 {
			continue
		}

		idx := *step

		if idx < 0 {
			labeled, found := stepIdx[fr.Label]

			if !found {
				skipped++
				continue
			}

			idx = labeled
		}

		if _, err := c.RecordSample(ctx, m.ID, idx, fr.Joints); err != nil {
			log.Printf("Frame %d not recorded: %v\n", i, err)
			skipped++
			continue
		}

		recorded++
	}

	counts, err := c.SampleCounts(m.ID)

	if err != nil {
		log.Fatalf("Error reading sample counts: %v", err)
	}

	log.Printf("Recorded %d frames, skipped %d\n", recorded, skipped)
	log.Printf(" --- %s ---\n", m.Name)

	for _, lc := range counts {
		log.Printf("%-16s %4d\n", lc.Label, lc.Count)
	}

	if !c.Trained(m.ID) {
		log.Println("At least two steps need samples before classifier practice")
	}
}
