package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"duckup/internal/paths"
	"duckup/internal/tui"
)

// The variables duckup reads, in the order env reports them.
var envVars = []string{"DUCKUP_HOME", "XDG_DATA_HOME", "XDG_BIN_HOME", "DUCK_HOME"}

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "Show resolved directories and environment state",
		Args:  cobra.NoArgs,
		RunE:  runEnv,
	}
}

func runEnv(cmd *cobra.Command, _ []string) error {
	dirs, err := paths.Resolve()
	if err != nil {
		return err
	}
	onPath := binDirOnPath(dirs.BinDir)

	out := cmd.OutOrStdout()
	if outputJSON {
		return writeEnvJSON(out, dirs, onPath)
	}

	fmt.Fprintln(out, tui.HeaderStyle.Render("duckup environment"))

	anyUnset := false
	for _, name := range envVars {
		value := os.Getenv(name)
		if value == "" {
			value = tui.FaintStyle.Render("(not set)")
			anyUnset = true
		}
		fmt.Fprintf(out, "  %-14s %s\n", name+":", value)
	}
	if anyUnset {
		fmt.Fprintln(out, tui.FaintStyle.Render("  duckup prefers XDG base directories when set"+
			" (https://wiki.archlinux.org/title/XDG_Base_Directory)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "  %-12s %s\n", "data:", dirs.DataDir)
	fmt.Fprintf(out, "  %-12s %s\n", "bin:", dirs.BinDir)
	fmt.Fprintf(out, "  %-12s %s\n", "toolchains:", dirs.ToolchainsDir)
	fmt.Fprintf(out, "  %-12s %s\n", "cache:", dirs.CacheDir)
	fmt.Fprintf(out, "  %-12s %s\n", "staging:", dirs.StageDir)
	fmt.Fprintf(out, "  %-12s %s\n", "logs:", dirs.LogsDir)
	fmt.Fprintln(out)

	if onPath {
		fmt.Fprintln(out, tui.GoodStyle.Render("  bin directory is on PATH"))
	} else {
		fmt.Fprintln(out, tui.WarnStyle.Render("  bin directory is not on PATH"))
		fmt.Fprintln(out, "  add this to your shell profile:")
		fmt.Fprintf(out, "    export PATH=\"$PATH:%s\"\n", dirs.BinDir)
	}
	return nil
}

// binDirOnPath reports whether dir is one of the PATH entries.
func binDirOnPath(dir string) bool {
	for _, entry := range filepath.SplitList(os.Getenv("PATH")) {
		if entry != "" && filepath.Clean(entry) == filepath.Clean(dir) {
			return true
		}
	}
	return false
}

func writeEnvJSON(out io.Writer, dirs paths.Dirs, onPath bool) error {
	vars := make(map[string]string, len(envVars))
	for _, name := range envVars {
		vars[name] = os.Getenv(name)
	}

	payload := struct {
		Vars          map[string]string `json:"vars"`
		DataDir       string            `json:"data_dir"`
		BinDir        string            `json:"bin_dir"`
		ToolchainsDir string            `json:"toolchains_dir"`
		CacheDir      string            `json:"cache_dir"`
		StageDir      string            `json:"stage_dir"`
		LogsDir       string            `json:"logs_dir"`
		BinOnPath     bool              `json:"bin_on_path"`
	}{
		Vars:          vars,
		DataDir:       dirs.DataDir,
		BinDir:        dirs.BinDir,
		ToolchainsDir: dirs.ToolchainsDir,
		CacheDir:      dirs.CacheDir,
		StageDir:      dirs.StageDir,
		LogsDir:       dirs.LogsDir,
		BinOnPath:     onPath,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode env json: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
