// Package knn provides a weighted k-nearest neighbour classifier trained
// incrementally from labeled feature vectors.
package knn

import (
	"errors"
	"gonum.org/v1/gonum/floats"
	"math"
	"sort"
)

const (
	// DefaultK is the number of neighbours voting on a prediction
	DefaultK = 5
	// weightEpsilon avoids infinite vote weight on an exact match
	weightEpsilon = 1e-4
)

var (
	// ErrDimension is returned when a vector length differs from the vectors
	// already stored in the classifier
	ErrDimension = errors.New("feature vector dimension mismatch")
	// ErrEmptyLabel is returned when adding a sample without a label
	ErrEmptyLabel = errors.New("sample label must not be empty")
)

// Prediction is the result of classifying a feature vector.  An empty Label
// with zero Confidence means no prediction could be made
type Prediction struct {
	Label      string
	Confidence float64
}

// Ok reports whether the prediction carries a label
func (p Prediction) Ok() bool {
	return p.Label != ""
}

// LabelCount is the number of samples stored under a label
type LabelCount struct {
	Label string
	Count int
}

// Classifier is a weighted k-NN classifier.  Labels are kept in insertion
// order.  The Classifier is not safe for concurrent mutation, callers must
// serialize AddSample, Import and Clear with Predict.
type Classifier struct {
	// k is the number of nearest neighbours that vote
	k int
	// labels in the order they were first seen
	labels []string
	// samples per label
	samples map[string][][]float64
	// dim is the vector dimension, zero until the first sample
	dim int
}

// New returns a Classifier using k neighbours.  A k below 1 uses DefaultK
func New(k int) *Classifier {
	if k < 1 {
		k = DefaultK
	}

	return &Classifier{
		k:       k,
		samples: make(map[string][][]float64),
	}
}

// K returns the number of voting neighbours
func (c *Classifier) K() int {
	return c.k
}

// AddSample stores a copy of features under label
func (c *Classifier) AddSample(label string, features []float64) error {

	if label == "" {
		return ErrEmptyLabel
	}

	if c.dim != 0 && len(features) != c.dim {
		return ErrDimension
	}

	if len(features) == 0 {
		return ErrDimension
	}

	if _, exists := c.samples[label]; !exists {
		c.labels = append(c.labels, label)
	}

	vec := make([]float64, len(features))
	copy(vec, features)

	c.samples[label] = append(c.samples[label], vec)
	c.dim = len(features)

	return nil
}

// Labels returns the labels in insertion order, including any without samples
func (c *Classifier) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// SampleCounts returns the number of samples per label in insertion order
func (c *Classifier) SampleCounts() []LabelCount {
	counts := make([]LabelCount, 0, len(c.labels))

	for _, l := range c.labels {
		counts = append(counts, LabelCount{Label: l, Count: len(c.samples[l])})
	}

	return counts
}

// Count returns the number of samples stored under label
func (c *Classifier) Count(label string) int {
	return len(c.samples[label])
}

// TotalSamples returns the number of samples across all labels
func (c *Classifier) TotalSamples() int {
	total := 0

	for _, s := range c.samples {
		total += len(s)
	}

	return total
}

// NumClasses returns the number of labels holding at least one sample
func (c *Classifier) NumClasses() int {
	n := 0

	for _, s := range c.samples {
		if len(s) > 0 {
			n++
		}
	}

	return n
}

// Clear removes all samples
func (c *Classifier) Clear() {
	c.labels = nil
	c.samples = make(map[string][][]float64)
	c.dim = 0
}

// neighbour is a stored sample's distance to the query
type neighbour struct {
	label string
	dist  float64
}

// Predict classifies features by a distance weighted vote of the k nearest
// stored samples.  Confidence is the winning label's share of the total vote
// weight of the k neighbours.  A classifier with fewer than two trained
// labels, or a query of the wrong dimension or holding non finite values,
// returns an empty Prediction.  Repeated calls with the same query return
// identical predictions.
func (c *Classifier) Predict(features []float64) Prediction {

	if c.TotalSamples() == 0 || c.NumClasses() < 2 {
		return Prediction{}
	}

	if len(features) != c.dim || !finite(features) {
		return Prediction{}
	}

	// brute force distance to every sample
	neighbours := make([]neighbour, 0, c.TotalSamples())

	for _, label := range c.labels {
		for _, sample := range c.samples[label] {
			neighbours = append(neighbours, neighbour{
				label: label,
				dist:  floats.Distance(features, sample, 2),
			})
		}
	}

	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].dist < neighbours[j].dist
	})

	topK := neighbours

	if len(topK) > c.k {
		topK = topK[:c.k]
	}

	votes := make(map[string]float64)

	for _, n := range topK {
		votes[n.label] += 1 / (n.dist + weightEpsilon)
	}

	var bestLabel string
	var bestScore, totalScore float64

	// sum in insertion order so the total does not depend on map iteration
	for _, label := range c.labels {
		score, voted := votes[label]

		if !voted {
			continue
		}

		totalScore += score

		// equal weights resolve to the lexicographically smaller label
		if score > bestScore || (score == bestScore && label < bestLabel) {
			bestScore = score
			bestLabel = label
		}
	}

	if !(totalScore > 0) || math.IsInf(totalScore, 0) {
		return Prediction{}
	}

	return Prediction{
		Label:      bestLabel,
		Confidence: bestScore / totalScore,
	}
}

// finite reports whether every value is neither NaN nor infinite
func finite(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}

	return true
}
