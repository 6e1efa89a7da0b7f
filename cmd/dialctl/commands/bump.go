package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	dialerrors "github.com/quantresi/dialctl/internal/errors"
	"github.com/quantresi/dialctl/internal/version"
)

func init() {
	rootCmd.AddCommand(bumpCmd)
}

var bumpCmd = &cobra.Command{
	Use:   "bump VERSION",
	Short: "Print the bumped version string",
	Long: `Bump a version string of the form [v]MAJOR.MINOR.[v]PATCH[.[v]EXTRA].

The extra segment is incremented when present, otherwise the patch
segment. Any v prefixes are preserved per segment.`,
	Example: `  dialctl bump v1.8.0     # v1.8.1
  dialctl bump 1.2.3.4    # 1.2.3.5
  dialctl bump 1.2.v3     # 1.2.v4`,
	Args: cobra.ExactArgs(1),
	RunE: runBump,
}

func runBump(_ *cobra.Command, args []string) error {
	return runBumpWithWriter(os.Stdout, args[0])
}

func runBumpWithWriter(w io.Writer, v string) error {
	bumped, err := version.Bump(v)
	if err != nil {
		return dialerrors.NewUserError(err, "Versions look like v1.8.0, 1.2.3.4, or 1.2.v3")
	}
	fmt.Fprintln(w, bumped)
	return nil
}
