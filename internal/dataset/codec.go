// Package dataset reads and writes experiment datasets in their JSON form:
// an object mapping experiment IDs to {"inputs": {...}, "outputs": {...}}.
// Key order is significant and preserved in both directions.
package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
)

type rawExperiment struct {
	id          string
	inputNames  []string
	inputs      map[string]float64
	outputNames []string
	outputs     map[string]float64
}

// Decode reads a dataset from r. The schema is taken from the key order of the
// first experiment; any experiment that deviates from it makes the whole
// dataset malformed.
func Decode(r io.Reader) (*domain.Dataset, error) {
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}

	var raws []rawExperiment
	for dec.More() {
		id, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		raw, err := readExperiment(dec, id)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedDataset, err)
		}
		return nil, fmt.Errorf("%w: unexpected %v after dataset", domain.ErrMalformedDataset, tok)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("%w: dataset has no experiments", domain.ErrMalformedDataset)
	}

	schema, err := domain.NewSchema(raws[0].inputNames, raws[0].outputNames)
	if err != nil {
		return nil, err
	}

	experiments := make([]*domain.Experiment, 0, len(raws))
	for _, raw := range raws {
		e, err := domain.NewExperiment(raw.id, schema, raw.inputs, raw.outputs)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, e)
	}

	return domain.NewDataset(schema, experiments)
}

func readExperiment(dec *json.Decoder, id string) (rawExperiment, error) {
	raw := rawExperiment{
		id:      id,
		inputs:  map[string]float64{},
		outputs: map[string]float64{},
	}

	if err := expectDelim(dec, '{'); err != nil {
		return raw, fmt.Errorf("experiment %s: %w", id, err)
	}
	for dec.More() {
		section, err := readKey(dec)
		if err != nil {
			return raw, err
		}
		switch section {
		case "inputs":
			raw.inputNames, err = readValues(dec, id, raw.inputs)
		case "outputs":
			raw.outputNames, err = readValues(dec, id, raw.outputs)
		default:
			return raw, fmt.Errorf("%w: experiment %s has unknown section %q", domain.ErrMalformedDataset, id, section)
		}
		if err != nil {
			return raw, err
		}
	}
	if err := expectDelim(dec, '}'); err != nil {
		return raw, fmt.Errorf("experiment %s: %w", id, err)
	}
	return raw, nil
}

func readValues(dec *json.Decoder, id string, into map[string]float64) ([]string, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return nil, fmt.Errorf("experiment %s: %w", id, err)
	}

	var names []string
	for dec.More() {
		name, err := readKey(dec)
		if err != nil {
			return nil, err
		}
		var v *float64
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: experiment %s property %q: %v", domain.ErrMalformedDataset, id, name, err)
		}
		if v == nil {
			return nil, fmt.Errorf("%w: experiment %s property %q is null", domain.ErrMalformedDataset, id, name)
		}
		if _, dup := into[name]; dup {
			return nil, fmt.Errorf("%w: experiment %s repeats property %q", domain.ErrMalformedDataset, id, name)
		}
		into[name] = *v
		names = append(names, name)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, fmt.Errorf("experiment %s: %w", id, err)
	}
	return names, nil
}

func readKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedDataset, err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("%w: expected object key, got %v", domain.ErrMalformedDataset, tok)
	}
	return key, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedDataset, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", domain.ErrMalformedDataset, want, tok)
	}
	return nil
}

// Encode writes ds as indented JSON, preserving experiment and property order.
func Encode(w io.Writer, ds *domain.Dataset) error {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range ds.Experiments() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.ID)
		if err != nil {
			return err
		}
		body, err := e.MarshalJSON()
		if err != nil {
			return fmt.Errorf("failed to encode experiment %s: %w", e.ID, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(body)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return fmt.Errorf("failed to indent dataset: %w", err)
	}
	out.WriteByte('\n')
	_, err := out.WriteTo(w)
	return err
}
