package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thanida/engbee/internal/progress"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	p, err := st.Profiles().Load(cmd.Context(), localUser)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}

	info := progress.ComputeLevel(p.XP)
	fmt.Printf("Level %d (%d XP, %d to next level)\n", info.Level, p.XP, info.XPToNext)
	fmt.Printf("Streak: %d day(s)\n", p.StreakCount)
	fmt.Printf("Lessons completed: %d\n", p.LessonsCompleted)
	return nil
}
