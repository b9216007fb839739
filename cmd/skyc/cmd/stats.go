package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/skybrush-io/skyb-go/pkg/trajectory"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Compute trajectory statistics for a show file",
	Long: `Compute duration, bounding box and proposed takeoff and landing
times for the trajectory of a show file. The vertical motion model is
taken from the configuration file.

Example:
  skyc --file show.skyb stats`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		traj, err := loadTrajectory(cmd)
		if err != nil {
			return err
		}

		cfg := configFromContext(cmd)
		calc := trajectory.NewStatsCalculator()
		calc.TakeoffSpeed = cfg.Stats.TakeoffSpeed
		calc.Acceleration = cfg.Stats.Acceleration
		calc.MinAscent = cfg.Stats.MinAscent
		calc.PreferredDescent = cfg.Stats.PreferredDescent
		calc.VerticalityThreshold = cfg.Stats.VerticalityThreshold

		stats, err := calc.Run(traj)
		if err != nil {
			return fmt.Errorf("failed to compute statistics: %w", err)
		}

		fmt.Printf("Duration:         %v\n", stats.Duration)
		fmt.Printf("Bounds X:         %.0f .. %.0f mm\n", stats.Bounds.Min.X, stats.Bounds.Max.X)
		fmt.Printf("Bounds Y:         %.0f .. %.0f mm\n", stats.Bounds.Min.Y, stats.Bounds.Max.Y)
		fmt.Printf("Bounds Z:         %.0f .. %.0f mm\n", stats.Bounds.Min.Z, stats.Bounds.Max.Z)
		fmt.Printf("Takeoff:          %s (vertical: %v)\n",
			formatSeconds(stats.ProposedTakeoffTime), stats.TakeoffVertical)
		fmt.Printf("Landing:          %s (vertical: %v)\n",
			formatSeconds(stats.ProposedLandingTime), stats.LandingVertical)
		fmt.Printf("Start-end dist:   %.0f mm\n", stats.StartEndDistanceXY)
		return nil
	},
}

func formatSeconds(t float64) string {
	if math.IsInf(t, 0) {
		return "not feasible"
	}
	return fmt.Sprintf("%.2f s", t)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
