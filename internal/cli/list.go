package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"duckup/internal/toolchain"
	"duckup/internal/tui"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List installed toolchains",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, closer, err := setupService("list")
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	installed, err := svc.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if outputJSON {
		if installed == nil {
			installed = []toolchain.Installed{}
		}
		data, err := json.MarshalIndent(installed, "", "  ")
		if err != nil {
			return fmt.Errorf("encode list json: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	fmt.Fprintln(out, tui.HeaderStyle.Render("installed toolchains:"))
	if len(installed) == 0 {
		fmt.Fprintln(out, "  (none; run \"duckup install latest\")")
		return nil
	}
	for _, entry := range installed {
		if entry.Active {
			fmt.Fprintf(out, "  %s %s\n", tui.GoodStyle.Render(entry.Tag), tui.FaintStyle.Render("(active)"))
		} else {
			fmt.Fprintf(out, "  %s\n", entry.Tag)
		}
	}
	return nil
}
