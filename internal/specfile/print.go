package specfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/quantresi/dialctl/pkg/fileutil"
)

// Marshal renders a spec with the reviewable layout: input, output,
// overrides, version in that fixed order, and each override as one compact
// JSON object per line so diffs stay per-override.
func Marshal(s *Spec) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	var fields []string
	if s.Input != "" {
		fields = append(fields, fmt.Sprintf("    %q: %s", "input", compactJSON(s.Input)))
	}
	if s.Output != "" {
		fields = append(fields, fmt.Sprintf("    %q: %s", "output", compactJSON(s.Output)))
	}

	var overridesBuf bytes.Buffer
	overridesBuf.WriteString("    \"overrides\": [\n")
	for i, o := range s.Overrides {
		line, err := json.Marshal(o)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding override %d", i)
		}
		overridesBuf.WriteString("        ")
		overridesBuf.Write(line)
		if i < len(s.Overrides)-1 {
			overridesBuf.WriteByte(',')
		}
		overridesBuf.WriteByte('\n')
	}
	overridesBuf.WriteString("    ]")
	fields = append(fields, overridesBuf.String())

	if s.Version != "" {
		fields = append(fields, fmt.Sprintf("    %q: %s", "version", compactJSON(s.Version)))
	}

	for i, f := range fields {
		buf.WriteString(f)
		if i < len(fields)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

// Save writes the spec atomically with the reviewable layout.
func Save(s *Spec, path string) error {
	data, err := Marshal(s)
	if err != nil {
		return err
	}
	return fileutil.AtomicWriteFile(path, data, 0o644)
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(data)
}
