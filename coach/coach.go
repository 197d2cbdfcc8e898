// Package coach ties the pose pipeline together.  A Coach owns one k-NN
// classifier per catalog motion, persisted in a store, and the practice
// journal.  Practice runs a single attempt at a motion over a stream of
// frames.
package coach

import (
	"context"
	"errors"
	"fmt"
	"github.com/swdee/go-posecoach"
	"github.com/swdee/go-posecoach/config"
	"github.com/swdee/go-posecoach/features"
	"github.com/swdee/go-posecoach/journal"
	"github.com/swdee/go-posecoach/knn"
	"github.com/swdee/go-posecoach/motion"
	"github.com/swdee/go-posecoach/store"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrUnknownMotion is returned for a motion id missing from the catalog
	ErrUnknownMotion = errors.New("unknown motion")
	// ErrUnknownStep is returned for a step index outside the motion's steps
	ErrUnknownStep = errors.New("unknown step")
	// ErrInvalidPose is returned when a joint set cannot be featurized
	ErrInvalidPose = errors.New("invalid pose")
)

// Coach manages the classifiers and journal shared by practice sessions
type Coach struct {
	cfg         *config.Config
	store       store.Store
	logger      *slog.Logger
	classifiers map[int]*knn.Classifier
	journal     *journal.Journal
	sync.RWMutex
}

// New returns a Coach with an empty classifier for every catalog motion
func New(cfg *config.Config, st store.Store, logger *slog.Logger) *Coach {

	c := &Coach{
		cfg:         cfg,
		store:       st,
		logger:      logger.With("system", "coach"),
		classifiers: make(map[int]*knn.Classifier),
		journal:     journal.New(cfg.JournalSize),
	}

	for _, id := range motion.IDs() {
		c.classifiers[id] = knn.New(cfg.K)
	}

	return c
}

// LoadClassifiers loads every motion's classifier from the store
// concurrently.  Absent keys leave the classifier empty, a corrupt blob is
// logged and the classifier keeps its current samples
func (c *Coach) LoadClassifiers(ctx context.Context) error {

	ids := motion.IDs()
	loaded := make([]*knn.Classifier, len(ids))

	g, ctx := errgroup.WithContext(ctx)

	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			clf, err := c.loadClassifier(ctx, id)

			if err != nil {
				return err
			}

			loaded[i] = clf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	c.Lock()
	defer c.Unlock()

	for i, id := range ids {
		if loaded[i] != nil {
			c.classifiers[id] = loaded[i]
		}
	}

	return nil
}

// Reload loads a single classifier by its store key.  It returns false when
// the key does not belong to a catalog motion
func (c *Coach) Reload(ctx context.Context, key string) (bool, error) {

	id, ok := c.motionOfKey(key)

	if !ok {
		return false, nil
	}

	clf, err := c.loadClassifier(ctx, id)

	if err != nil {
		return true, err
	}

	c.Lock()
	defer c.Unlock()

	if clf == nil {
		// deleted from the store
		c.classifiers[id] = knn.New(c.cfg.K)
	} else {
		c.classifiers[id] = clf
	}

	return true, nil
}

// loadClassifier returns the stored classifier of a motion, nil when the key
// is absent or the blob is rejected
func (c *Coach) loadClassifier(ctx context.Context, id int) (*knn.Classifier, error) {

	key := c.cfg.ClassifierKey(id)
	blob, err := c.store.Load(ctx, key)

	if errors.Is(err, store.ErrNotFound) {
		c.logger.Debug("No stored classifier", "motion", id, "key", key)
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("error loading classifier %s: %w", key, err)
	}

	clf := knn.New(c.cfg.K)

	if err := clf.Import(blob); err != nil {
		c.logger.Warn("Ignoring corrupt classifier", "motion", id, "key", key, "error", err)
		return nil, nil
	}

	c.logger.Info("Loaded classifier", "motion", id, "samples", clf.TotalSamples(),
		"classes", clf.NumClasses())

	return clf, nil
}

// motionOfKey returns the motion id a classifier key is stored for
func (c *Coach) motionOfKey(key string) (int, bool) {

	if !strings.HasPrefix(key, c.cfg.KeyPrefix) {
		return 0, false
	}

	id, err := strconv.Atoi(strings.TrimPrefix(key, c.cfg.KeyPrefix))

	if err != nil {
		return 0, false
	}

	_, ok := motion.Lookup(id)
	return id, ok
}

// RecordSample adds the joint set as a training sample for the motion step
// at stepIndex and saves the classifier.  It returns the number of samples
// now stored for that step
func (c *Coach) RecordSample(ctx context.Context, motionID, stepIndex int,
	js posecoach.JointSet) (int, error) {

	m, ok := motion.Lookup(motionID)

	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownMotion, motionID)
	}

	step, ok := m.Step(stepIndex)

	if !ok {
		return 0, fmt.Errorf("%w: %d of motion %d", ErrUnknownStep, stepIndex, motionID)
	}

	if !js.Valid() {
		return 0, ErrInvalidPose
	}

	vec := features.Extract(js)

	if !vec.Valid() {
		return 0, ErrInvalidPose
	}

	c.Lock()
	defer c.Unlock()

	clf := c.classifiers[motionID]

	if err := clf.AddSample(step, vec); err != nil {
		return 0, fmt.Errorf("error adding sample: %w", err)
	}

	blob, err := clf.Export()

	if err != nil {
		return 0, fmt.Errorf("error exporting classifier: %w", err)
	}

	if err := c.store.Save(ctx, c.cfg.ClassifierKey(motionID), blob); err != nil {
		return 0, fmt.Errorf("error saving classifier: %w", err)
	}

	count := clf.Count(step)
	c.logger.Debug("Recorded sample", "motion", motionID, "step", step, "count", count)

	return count, nil
}

// DeleteSamples clears the motion's classifier and removes it from the store
func (c *Coach) DeleteSamples(ctx context.Context, motionID int) error {

	c.Lock()
	defer c.Unlock()

	clf, ok := c.classifiers[motionID]

	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownMotion, motionID)
	}

	clf.Clear()

	if err := c.store.Delete(ctx, c.cfg.ClassifierKey(motionID)); err != nil {
		return fmt.Errorf("error deleting classifier: %w", err)
	}

	c.logger.Info("Deleted samples", "motion", motionID)
	return nil
}

// SampleCounts returns the number of samples per label of a motion's
// classifier
func (c *Coach) SampleCounts(motionID int) ([]knn.LabelCount, error) {

	c.RLock()
	defer c.RUnlock()

	clf, ok := c.classifiers[motionID]

	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMotion, motionID)
	}

	return clf.SampleCounts(), nil
}

// Trained reports whether the motion's classifier can make predictions
func (c *Coach) Trained(motionID int) bool {

	c.RLock()
	defer c.RUnlock()

	clf, ok := c.classifiers[motionID]
	return ok && clf.NumClasses() >= 2
}

// predict classifies a feature vector with the motion's classifier
func (c *Coach) predict(motionID int, vec features.Vector) knn.Prediction {

	c.RLock()
	defer c.RUnlock()

	clf, ok := c.classifiers[motionID]

	if !ok {
		return knn.Prediction{}
	}

	return clf.Predict(vec)
}

// LoadJournal loads the practice journal from the store
func (c *Coach) LoadJournal(ctx context.Context) error {
	return c.journal.Load(ctx, c.store, c.cfg.JournalKey)
}

// Journal returns the practice journal
func (c *Coach) Journal() *journal.Journal {
	return c.journal
}

// Finish records the practice outcome in the journal and saves it.  Practice
// that did not complete returns journal.ErrNotDone
func (c *Coach) Finish(ctx context.Context, p *Practice) (journal.Entry, error) {

	entry, err := c.journal.Record(p.session.Outcome())

	if err != nil {
		return journal.Entry{}, err
	}

	if err := c.journal.Save(ctx, c.store, c.cfg.JournalKey); err != nil {
		return journal.Entry{}, err
	}

	c.logger.Info("Practice recorded", "motion", entry.MotionID, "score", entry.Score,
		"cycles", entry.Cycles, "id", entry.ID)

	return entry, nil
}
