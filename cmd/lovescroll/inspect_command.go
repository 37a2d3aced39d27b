package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ramedia/lovescroll/capture/soft"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "inspect <reaction-file>",
		Short:       "Summarise a saved reaction recording",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open recording: %w", err)
			}
			defer f.Close()

			rec, err := soft.Decode(f)
			if err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}

			m := rec.Manifest
			rows := [][]string{
				{"Format", m.MIMEType},
				{"Size", fmt.Sprintf("%dx%d", m.Width, m.Height)},
				{"Frame rate", strconv.Itoa(m.FPS) + " fps"},
				{"Frames", strconv.Itoa(rec.Frames)},
				{"Duration", rec.Duration.String()},
				{"Audio", fmt.Sprintf("%d segments, %d samples", rec.AudioSegments, rec.AudioSamples)},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}
