package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all learner data",
	RunE:  runReset,
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}

func runReset(cmd *cobra.Command, args []string) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		fmt.Printf("This deletes %s. Re-run with --yes to confirm.\n", dbPath)
		return nil
	}

	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Nothing to reset.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Println("Learner data deleted.")
	return nil
}
