package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/hexthorne/airwave/internal/shared"
	"github.com/urfave/cli/v3"
)

// Now prints the currently playing track.
func (r *Runner) Now(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	resp := r.orch.NowPlaying(ctx, store)

	if cmd.Bool("json") {
		return r.writeJSON(resp, cmd.Bool("pretty"))
	}

	switch {
	case !resp.Configured:
		return r.writePlain("✗ Spotify credentials not configured\n")
	case resp.Error != "":
		return r.writePlain("✗ %s\n", resp.Error)
	case !resp.LoggedIn:
		return r.writePlain("✗ Not logged in — run: airwave auth login\n")
	case resp.Title == "":
		return r.writePlain("Nothing playing right now\n")
	}

	icon := "⏸"
	if resp.IsPlaying {
		icon = "▶"
	}

	r.writePlain("%s %s — %s\n", icon, resp.Title, resp.Artist)
	if resp.Album != "" {
		r.writePlain("  %s\n", resp.Album)
	}
	if resp.Progress != nil && resp.Duration != nil {
		r.writePlain("  %s / %s\n", formatMS(*resp.Progress), formatMS(*resp.Duration))
	}

	return nil
}

// VolumeGet prints the active device's volume.
func (r *Runner) VolumeGet(ctx context.Context, cmd *cli.Command) error {
	store, err := r.store()
	if err != nil {
		return err
	}

	state, err := r.orch.Volume(ctx, store)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"volume":         state.Percent,
			"deviceName":     state.DeviceName,
			"deviceType":     state.DeviceType,
			"noActiveDevice": !state.HasActiveDevice,
		}, true)
	}

	if !state.HasActiveDevice {
		return r.writePlain("Volume: %d%% (no active device)\n", state.Percent)
	}

	return r.writePlain("Volume: %d%% on %s (%s)\n", state.Percent, state.DeviceName, state.DeviceType)
}

// VolumeSet sets the active device's volume.
func (r *Runner) VolumeSet(ctx context.Context, cmd *cli.Command) error {
	arg := cmd.StringArg("percent")
	if arg == "" {
		return fmt.Errorf("%w: percent", shared.ErrMissingArgument)
	}

	volume, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", shared.ErrInvalidArgument, arg)
	}

	store, err := r.store()
	if err != nil {
		return err
	}

	percent, err := r.orch.SetVolume(ctx, store, volume)
	if err != nil {
		return err
	}

	return r.writePlain("✓ Volume set to %d%%\n", percent)
}

// formatMS renders a millisecond duration as m:ss.
func formatMS(ms int) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
