// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	internal_audio "github.com/rapidaai/celpip-practice/internal/audio"
)

func newPlayCommand(cli *cliContext) *cobra.Command {
	var volume float64
	var rate float64

	cmd := &cobra.Command{
		Use:   "play <file-or-url>",
		Short: "Play an audio file or URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			var source internal_audio.Source
			if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
				source = internal_audio.URLSource(target)
			} else {
				data, err := os.ReadFile(target)
				if err != nil {
					return fmt.Errorf("cannot read %s: %w", target, err)
				}
				source = internal_audio.BlobSource(data, "")
			}

			player := internal_audio.NewPlayer(cli.logger, internal_audio.NewPortaudioOpener(cli.logger))
			defer player.Dispose()
			player.SetVolume(volume)
			player.SetPlaybackRate(rate)

			observer := &playbackObserver{done: make(chan struct{})}
			player.SetListener(observer)

			ctx := cmd.Context()
			if !player.Load(ctx, source) {
				return fmt.Errorf("cannot load %s: %v", target, player.State().Err)
			}
			state := player.State()
			fmt.Printf("Playing %s (%.1fs)\n", target, state.Duration)
			if !player.Play() {
				return fmt.Errorf("cannot play %s: %v", target, player.State().Err)
			}

			select {
			case <-observer.done:
			case <-ctx.Done():
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&volume, "volume", 1.0, "playback volume, 0 to 1")
	cmd.Flags().Float64Var(&rate, "rate", 1.0, "playback rate, 0.25 to 4")
	return cmd
}
