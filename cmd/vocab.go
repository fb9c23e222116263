package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/thanida/engbee/internal/dict"
	"github.com/thanida/engbee/internal/vocab"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Track vocabulary practice",
}

var vocabOutcomeCmd = &cobra.Command{
	Use:   "outcome <term>",
	Short: "Record a practice outcome for a term",
	Args:  cobra.ExactArgs(1),
	RunE:  runVocabOutcome,
}

var vocabDueCmd = &cobra.Command{
	Use:   "due",
	Short: "Show terms due for review",
	RunE:  runVocabDue,
}

func init() {
	vocabOutcomeCmd.Flags().Bool("wrong", false, "Record an incorrect outcome (default is correct)")
	vocabDueCmd.Flags().Int("limit", 20, "Maximum terms to show")

	vocabCmd.AddCommand(vocabOutcomeCmd)
	vocabCmd.AddCommand(vocabDueCmd)
}

func runVocabOutcome(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	term := args[0]
	wrong, _ := cmd.Flags().GetBool("wrong")

	existing, err := st.Vocab().Get(ctx, localUser, term)
	if err != nil {
		return fmt.Errorf("load vocab entry: %w", err)
	}
	entry := vocab.RecordOutcome(term, !wrong, existing, time.Now().UTC())
	if err := st.Vocab().Save(ctx, localUser, entry); err != nil {
		return fmt.Errorf("save vocab entry: %w", err)
	}

	if th, ok := dict.Lookup(entry.Term); ok {
		fmt.Printf("%s (%s): mastery %d/%d, next review %s\n",
			entry.Term, th, entry.Mastery, vocab.MaxMastery,
			entry.NextReviewAt.Format("2006-01-02"))
		return nil
	}
	fmt.Printf("%s: mastery %d/%d, next review %s\n",
		entry.Term, entry.Mastery, vocab.MaxMastery,
		entry.NextReviewAt.Format("2006-01-02"))
	return nil
}

func runVocabDue(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.Vocab().Load(cmd.Context(), localUser)
	if err != nil {
		return fmt.Errorf("load vocab: %w", err)
	}
	all := make([]*vocab.Entry, 0, len(entries))
	for _, e := range entries {
		all = append(all, e)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	due := vocab.DueEntries(all, time.Now().UTC(), limit)
	if len(due) == 0 {
		fmt.Println("Nothing due for review.")
		return nil
	}
	for _, e := range due {
		fmt.Printf("%-20s mastery %d/%d, due since %s\n",
			e.Term, e.Mastery, vocab.MaxMastery, e.NextReviewAt.Format("2006-01-02"))
	}
	return nil
}
