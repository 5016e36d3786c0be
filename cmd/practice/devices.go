// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	internal_audio "github.com/rapidaai/celpip-practice/internal/audio"
)

func newDevicesCommand(cli *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "List the host's audio devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			devices, err := internal_audio.ListDevices(cli.logger)
			if err != nil {
				return fmt.Errorf("cannot enumerate audio devices: %w", err)
			}
			if len(devices) == 0 {
				fmt.Println("no audio devices found")
				return nil
			}
			for i, d := range devices {
				marker := " "
				switch {
				case d.IsDefaultInput && d.IsDefaultOutput:
					marker = "*"
				case d.IsDefaultInput:
					marker = "i"
				case d.IsDefaultOutput:
					marker = "o"
				}
				fmt.Printf("%s %2d: %-40s in=%d out=%d %.0f Hz\n",
					marker, i, d.Name, d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
			}
			fmt.Println("\n(i = default input, o = default output)")
			return nil
		},
	}
}
