package specfile

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
	"github.com/quantresi/dialctl/internal/override"
	"github.com/quantresi/dialctl/pkg/fileutil"
)

// Spec is one resolved override spec: the batch plus optional run settings.
// File values are defaults; CLI flags override them.
type Spec struct {
	Input     string              `json:"input,omitempty"`
	Output    string              `json:"output,omitempty"`
	Overrides []override.Override `json:"overrides,omitempty"`
	Version   string              `json:"version,omitempty"`
}

// Load reads a spec file. The raw bytes are kept so the caller can list
// models or resolve one by key.
func Load(path string) ([]byte, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading spec %s", path)
	}
	return data, nil
}

// ModelKeys returns the sorted model keys of a multi-model spec, or nil
// when the file is a single spec (a list or a plain object).
func ModelKeys(raw []byte) ([]string, error) {
	models, ok, err := modelsSection(raw)
	if err != nil || !ok {
		return nil, err
	}
	keys := make([]string, 0, len(models))
	for k := range models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Resolve selects and parses one spec out of the file. A
// `{"models": {...}}` file needs a model key unless it holds exactly one
// model; a list or plain object ignores the key. The error for an ambiguous
// or unknown key lists what is available.
func Resolve(raw []byte, model string) (*Spec, error) {
	models, ok, err := modelsSection(raw)
	if err != nil {
		return nil, err
	}
	if ok {
		if len(models) == 0 {
			return nil, errors.New("spec.models must be a non-empty object")
		}
		if model == "" {
			if len(models) != 1 {
				return nil, errors.Newf("spec has multiple models, select one with --model (available: %s)",
					availableList(models))
			}
			for k := range models {
				model = k
			}
		}
		entry, found := models[model]
		if !found {
			return nil, errors.Newf("unknown model %q (available: %s)", model, availableList(models))
		}
		raw = entry
	}
	return parseSpec(raw)
}

// RequireOverrides validates a spec for the run direction: the batch must
// be non-empty.
func (s *Spec) RequireOverrides() error {
	if len(s.Overrides) == 0 {
		return errors.Wrap(dialerrors.ErrEmptySpec, "spec overrides is empty, add entries before running")
	}
	return nil
}

func parseSpec(raw []byte) (*Spec, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.Wrap(dialerrors.ErrEmptySpec, "spec file is empty")
	}

	switch trimmed[0] {
	case '[':
		var overrides []override.Override
		if err := json.Unmarshal(raw, &overrides); err != nil {
			return nil, errors.Wrap(err, "parsing spec overrides list")
		}
		return &Spec{Overrides: overrides}, nil
	case '{':
		var spec Spec
		if err := json.Unmarshal(raw, &spec); err != nil {
			return nil, errors.Wrap(err, "parsing spec object")
		}
		return &spec, nil
	default:
		return nil, errors.New("spec must be a list or an object")
	}
}

func modelsSection(raw []byte) (map[string]json.RawMessage, bool, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, false, nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, false, errors.Wrap(err, "parsing spec file")
	}
	section, present := top["models"]
	if !present {
		return nil, false, nil
	}
	var models map[string]json.RawMessage
	if err := json.Unmarshal(section, &models); err != nil {
		return nil, true, errors.New("spec.models must be a non-empty object")
	}
	return models, true, nil
}

func availableList(models map[string]json.RawMessage) string {
	keys := make([]string, 0, len(models))
	for k := range models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
