package knn

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidState is returned by Import when the blob is not a valid
// serialized classifier
var ErrInvalidState = errors.New("invalid classifier state")

// stateSchema describes the serialized form, a JSON object mapping each label
// to its list of feature vectors
const stateSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"propertyNames": {"minLength": 1},
	"additionalProperties": {
		"type": "array",
		"items": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "number"}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("knn-state.schema.json", stateSchema)

// Export serializes all samples as a JSON object of label to vectors, with
// labels written in insertion order
func (c *Classifier) Export() ([]byte, error) {

	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, label := range c.labels {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(label)

		if err != nil {
			return nil, fmt.Errorf("error encoding label %q: %w", label, err)
		}

		vecs := c.samples[label]

		if vecs == nil {
			vecs = [][]float64{}
		}

		val, err := json.Marshal(vecs)

		if err != nil {
			return nil, fmt.Errorf("error encoding samples for %q: %w", label, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Import replaces all samples with those in blob, as produced by Export.  On
// any error the existing samples are left untouched
func (c *Classifier) Import(blob []byte) error {

	var doc interface{}

	if err := json.Unmarshal(blob, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	labels, samples, err := decodeOrdered(blob)

	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	// all vectors must share one dimension
	dim := 0

	for _, label := range labels {
		for _, vec := range samples[label] {
			if dim == 0 {
				dim = len(vec)
			}

			if len(vec) != dim {
				return fmt.Errorf("%w: %v", ErrInvalidState, ErrDimension)
			}
		}
	}

	c.labels = labels
	c.samples = samples
	c.dim = dim

	return nil
}

// decodeOrdered decodes the label to vectors object keeping key order
func decodeOrdered(blob []byte) ([]string, map[string][][]float64, error) {

	dec := json.NewDecoder(bytes.NewReader(blob))

	tok, err := dec.Token()

	if err != nil {
		return nil, nil, err
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, errors.New("expected object")
	}

	var labels []string
	samples := make(map[string][][]float64)

	for dec.More() {
		tok, err := dec.Token()

		if err != nil {
			return nil, nil, err
		}

		label, ok := tok.(string)

		if !ok {
			return nil, nil, errors.New("expected label key")
		}

		var vecs [][]float64

		if err := dec.Decode(&vecs); err != nil {
			return nil, nil, fmt.Errorf("label %q: %w", label, err)
		}

		if _, exists := samples[label]; !exists {
			labels = append(labels, label)
		}

		samples[label] = append(samples[label], vecs...)
	}

	return labels, samples, nil
}
