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

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Install the latest release and switch to it",
		Args:  cobra.NoArgs,
		RunE:  runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, closer, err := setupService("update")
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
		inst toolchain.InstallResult
	)

	steps := make([]string, 0, len(bootstrapSteps)+3)
	steps = append(steps, stepResolve)
	steps = append(steps, bootstrapSteps...)
	steps = append(steps, stepInstall, stepActivate)

	work := func(send func(tea.Msg)) error {
		r := &stepSender{send: send}

		r.StepStart(stepResolve, "checking for updates")
		latest, err := svc.Resolve(ctx, toolchain.Latest)
		if err != nil {
			r.Fail(err)
			return err
		}
		tag = latest
		r.StepDone(stepResolve, tag)

		if boot, err = svc.Bootstrap(ctx, tag, r); err != nil {
			r.Fail(err)
			return err
		}

		r.StepStart(stepInstall, tag)
		if inst, err = svc.Install(ctx, tag); err != nil {
			r.Fail(err)
			return err
		}
		reportInstall(r, inst)

		r.StepStart(stepActivate, tag)
		if err = svc.Activate(tag); err != nil {
			r.Fail(err)
			return err
		}
		r.StepDone(stepActivate, "switched to "+tag)
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
			Bootstrap toolchain.BootstrapResult `json:"bootstrap"`
			Install   toolchain.InstallResult   `json:"install"`
			Activated bool                      `json:"activated"`
		}{
			Tag:       tag,
			Bootstrap: boot,
			Install:   inst,
			Activated: true,
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("encode update json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}
	return nil
}
