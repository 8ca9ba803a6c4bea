package cli

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"duckup/internal/toolchain"
	"duckup/internal/tui"
)

func newUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <version>",
		Short: "Switch the active toolchain",
		Long: "Use points the active dargo link at an installed version, then " +
			"refreshes the staged dependencies to match it.",
		Args: cobra.ExactArgs(1),
		RunE: runUse,
	}
}

func runUse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, closer, err := setupService("use")
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	mode := tui.DetectMode(cmd.OutOrStdout(), noProgress, outputJSON)

	var (
		tag  string
		boot toolchain.BootstrapResult
	)

	steps := make([]string, 0, len(bootstrapSteps)+2)
	steps = append(steps, stepResolve, stepActivate)
	steps = append(steps, bootstrapSteps...)

	work := func(send func(tea.Msg)) error {
		r := &stepSender{send: send}

		r.StepStart(stepResolve, args[0])
		resolved, err := svc.Resolve(ctx, args[0])
		if err != nil {
			r.Fail(err)
			return err
		}
		tag = resolved
		r.StepDone(stepResolve, tag)

		// Switch first; the staged dependencies follow the new active tag.
		r.StepStart(stepActivate, tag)
		if err = svc.Activate(tag); err != nil {
			r.Fail(err)
			return err
		}
		r.StepDone(stepActivate, "switched to "+tag)

		if boot, err = svc.Bootstrap(ctx, tag, r); err != nil {
			r.Fail(err)
			return err
		}
		return nil
	}

	if err := runSteps(cmd.OutOrStdout(), mode, steps, work); err != nil {
		return err
	}
	if tag == "" {
		return nil
	}

	if mode == tui.ModeJSON {
		payload := struct {
			Tag       string                    `json:"tag"`
			Activated bool                      `json:"activated"`
			Bootstrap toolchain.BootstrapResult `json:"bootstrap"`
		}{
			Tag:       tag,
			Activated: true,
			Bootstrap: boot,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode use json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return nil
}
