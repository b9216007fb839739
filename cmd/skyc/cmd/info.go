package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/skybrush-io/skyb-go/pkg/container"
	"github.com/skybrush-io/skyb-go/pkg/errkind"
	"github.com/skybrush-io/skyb-go/pkg/trajectory"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print a summary of a show file",
	Long: `Print the container version, checksum state, block counts and the
trajectory duration of a show file.

Example:
  skyc --file show.skyb info`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := readerFromContext(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("Version:  %d\n", reader.Version())
		fmt.Printf("Checksum: %v\n", reader.HasChecksum())

		counts := map[container.BlockType]int{}
		for {
			block, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to traverse blocks: %w", err)
			}
			counts[block.Type]++
		}
		for _, bt := range []container.BlockType{
			container.BlockTrajectory,
			container.BlockLightProgram,
			container.BlockComment,
			container.BlockYawControl,
		} {
			if counts[bt] > 0 {
				fmt.Printf("%-14s %d\n", bt.String()+":", counts[bt])
			}
		}

		block, err := reader.Find(container.BlockTrajectory)
		if err != nil {
			if errors.Is(err, errkind.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("failed to locate trajectory block: %w", err)
		}
		body, err := reader.ReadBodyBytes(block)
		if err != nil {
			return fmt.Errorf("failed to read trajectory block: %w", err)
		}
		traj, err := trajectory.FromBlock(body)
		if err != nil {
			return fmt.Errorf("failed to parse trajectory: %w", err)
		}
		total, err := traj.TotalDurationMsec()
		if err != nil {
			return fmt.Errorf("failed to walk trajectory: %w", err)
		}
		fmt.Printf("Duration: %v\n", time.Duration(total)*time.Millisecond)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
