package cli

import (
	"context"
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"duckup/internal/toolchain"
	"duckup/internal/tui"
)

func newInstallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "install <version>",
		Short: "Install a duck toolchain release",
		Long: "Install downloads the release binary for a tag (or \"latest\") and " +
			"prepares its dependencies: the tag's source tree, the Go runtime it " +
			"pins, and the staged go-compiler and std trees.",
		Args: cobra.ExactArgs(1),
		RunE: runInstall,
	}
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, closer, err := setupService("install")
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

	steps := make([]string, 0, len(bootstrapSteps)+2)
	steps = append(steps, stepResolve)
	steps = append(steps, bootstrapSteps...)
	steps = append(steps, stepInstall)

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
		return nil
	}

	if err := runSteps(cmd.OutOrStdout(), mode, steps, work); err != nil {
		return err
	}
	if tag == "" {
		// The display quit before the work finished.
		return nil
	}

	if mode == tui.ModeJSON {
		return writeInstallJSON(cmd, tag, boot, inst)
	}
	return nil
}

// reportInstall turns an install outcome into its step event.
func reportInstall(r *stepSender, inst toolchain.InstallResult) {
	if inst.AlreadyInstalled {
		r.StepSkip(stepInstall, "already installed")
		return
	}
	r.StepDone(stepInstall, fmt.Sprintf("%s (%s)", inst.Tag, humanize.Bytes(uint64(inst.SizeBytes))))
}

func writeInstallJSON(cmd *cobra.Command, tag string, boot toolchain.BootstrapResult, inst toolchain.InstallResult) error {
	payload := struct {
		Tag       string                    `json:"tag"`
		Bootstrap toolchain.BootstrapResult `json:"bootstrap"`
		Install   toolchain.InstallResult   `json:"install"`
	}{
		Tag:       tag,
		Bootstrap: boot,
		Install:   inst,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode install json: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
