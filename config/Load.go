package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"

	pkgerrors "github.com/pkg/errors"
	"github.com/samuelfneumann/rlconf/agent"
	"github.com/samuelfneumann/rlconf/environment/envconfig"
	"github.com/samuelfneumann/rlconf/spec"
	"gopkg.in/yaml.v3"
)

// Format is a serialization format of a training document
type Format string

const (
	YAML Format = "yaml"
	JSON Format = "json"
)

// Formats returns the names of all supported formats
func Formats() []string {
	return []string{string(YAML), string(JSON)}
}

var lineNumber = regexp.MustCompile(`line (\d+)`)

// parseError converts a YAML syntax error to a *ParseError
func parseError(err error) *ParseError {
	pe := &ParseError{Err: err}
	if m := lineNumber.FindStringSubmatch(err.Error()); m != nil {
		pe.Line, _ = strconv.Atoi(m[1])
	}
	return pe
}

// Parse parses a single YAML or JSON training document.
//
// A *ParseError is returned if the document is not well formed, is
// empty, or holds more than one document. Otherwise the whole document
// is decoded and every violation found is returned, joined into a single
// error. Each joined error is a *ValidationError or a *SchemaError.
func Parse(data []byte) (Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))

	var root yaml.Node
	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, &ParseError{Err: errors.New("empty document")}
		}
		return Config{}, parseError(err)
	}

	var next yaml.Node
	if err := dec.Decode(&next); err == nil {
		return Config{}, &ParseError{
			Line: next.Line,
			Err:  errors.New("multiple documents, want exactly one"),
		}
	} else if !errors.Is(err, io.EOF) {
		return Config{}, parseError(err)
	}

	if len(root.Content) == 0 || root.Content[0].ShortTag() == "!!null" {
		return Config{}, &ParseError{Err: errors.New("empty document")}
	}

	d := spec.NewDecoder()
	c := decode(d, &root)
	if err := d.Err(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadFile reads and parses the training document at path
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, pkgerrors.Wrap(err, "load")
	}
	return Parse(data)
}

func decode(d *spec.Decoder, root *yaml.Node) Config {
	m := d.Mapping(root, spec.Root)

	c := Config{
		Env:   envconfig.Decode(d, m, "env"),
		Model: agent.Decode(d, m, "model"),
	}

	c.ReplayMemorySize = m.RequireInt("replay_memory_size")
	c.TrainEveryTS = m.RequireInt("train_every_ts")
	c.TrainAfterTS = m.RequireInt("train_after_ts")
	c.NumTrainEpisodes = m.RequireInt("num_train_episodes")
	c.NumEvalEpisodes = m.RequireInt("num_eval_episodes")
	c.PassingScoreBar = m.RequireFloat("passing_score_bar")
	c.UseGPU = m.Bool("use_gpu", false)
	c.MinibatchSize = m.RequireInt("minibatch_size")
	c.MaxSteps = m.OptionalInt("max_steps")
	c.Seed = m.OptionalInt("seed")
	m.Done()
	d.Check(spec.Root, c.validate())

	return c
}

// Marshal serializes c in the format f. Parsing the output yields a
// Config equal to c.
func Marshal(c Config, f Format) ([]byte, error) {
	switch f {
	case YAML, "":
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return nil, fmt.Errorf("marshal: %v", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal: %v", err)
		}
		return buf.Bytes(), nil

	case JSON:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal: %v", err)
		}
		return append(data, '\n'), nil
	}

	return nil, fmt.Errorf("marshal: unknown format %q, want one of %v",
		string(f), Formats())
}
