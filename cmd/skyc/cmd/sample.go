package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Sample the trajectory of a show file",
	Long: `Sample the trajectory of a show file at a fixed time step and print
position, velocity and acceleration for each sample.

Example:
  skyc --file show.skyb sample --step 0.5`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		traj, err := loadTrajectory(cmd)
		if err != nil {
			return err
		}

		from, _ := cmd.Flags().GetFloat64("from")
		to, _ := cmd.Flags().GetFloat64("to")
		step, _ := cmd.Flags().GetFloat64("step")
		if step <= 0 {
			return fmt.Errorf("sample step must be positive, got %v", step)
		}
		if to <= 0 {
			total, err := traj.TotalDurationMsec()
			if err != nil {
				return fmt.Errorf("failed to walk trajectory: %w", err)
			}
			to = float64(total) / 1000
		}

		player := traj.NewPlayer()
		fmt.Printf("%-10s %-10s %-10s %-10s %-8s %-10s %-10s %-10s\n",
			"T", "X", "Y", "Z", "YAW", "VX", "VY", "VZ")
		for t := from; t <= to; t += step {
			pos, err := player.PositionAt(t)
			if err != nil {
				return fmt.Errorf("failed to sample at t=%v: %w", t, err)
			}
			vel, err := player.VelocityAt(t)
			if err != nil {
				return fmt.Errorf("failed to sample at t=%v: %w", t, err)
			}
			fmt.Printf("%-10.2f %-10.0f %-10.0f %-10.0f %-8.1f %-10.0f %-10.0f %-10.0f\n",
				t, pos.X, pos.Y, pos.Z, pos.Yaw, vel.X, vel.Y, vel.Z)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().Float64("from", 0, "Start of the sampled range in seconds")
	sampleCmd.Flags().Float64("to", 0, "End of the sampled range in seconds (defaults to the show duration)")
	sampleCmd.Flags().Float64("step", 1, "Sampling step in seconds")
}
