package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// blocksCmd represents the blocks command
var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "List the blocks of a show file",
	Long: `List every block of a show file with its type, offset and length.

Example:
  skyc --file show.skyb blocks`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := readerFromContext(cmd)
		if err != nil {
			return err
		}

		fmt.Printf("%-4s %-14s %-10s %s\n", "#", "TYPE", "OFFSET", "LENGTH")
		index := 0
		for {
			block, err := reader.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to traverse blocks: %w", err)
			}
			fmt.Printf("%-4d %-14s %-10d %d\n", index, block.Type, block.BodyOffset, block.Length)
			index++
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(blocksCmd)
}
