package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"duckup/internal/fsutil"
	"duckup/internal/paths"
	"duckup/internal/toolchain"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [args...]",
		Short: "Run the active dargo with the given arguments",
		// Everything after "run" belongs to dargo, including flags.
		DisableFlagParsing: true,
		RunE:               runRun,
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	dirs, err := paths.Resolve()
	if err != nil {
		return err
	}

	active := filepath.Join(dirs.BinDir, toolchain.BinaryName)
	exists, err := fsutil.FileExists(active)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no active toolchain selected; run %q first", "duckup update")
	}

	child := exec.Command(active, args...)
	child.Stdin = os.Stdin
	child.Stdout = cmd.OutOrStdout()
	child.Stderr = cmd.ErrOrStderr()

	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &exitCodeError{code: exitErr.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", toolchain.BinaryName, err)
	}
	return nil
}
