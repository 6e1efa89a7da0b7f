package specfile

import (
	"path/filepath"
	"strings"

	"github.com/quantresi/dialctl/internal/version"
)

// DefaultOutputPath derives where a dialed model document lands when the
// caller supplies no output. With a version the first version-shaped
// substring of the input filename is replaced; a filename with no version
// gets the version suffixed before the extension. With no version at all
// the output is an example file next to the input.
func DefaultOutputPath(inputPath, ver string) string {
	dir := filepath.Dir(inputPath)
	name := filepath.Base(inputPath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	if ver != "" {
		if replaced, ok, err := version.ReplaceInFilename(name, ver); err == nil && ok {
			return filepath.Join(dir, replaced)
		}
		return filepath.Join(dir, stem+"_"+ver+ext)
	}
	return filepath.Join(dir, stem+"_dial_all_example.json")
}
