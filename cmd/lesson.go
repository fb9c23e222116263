package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thanida/engbee/internal/fingerprint"
	"github.com/thanida/engbee/internal/lesson"
	"github.com/thanida/engbee/internal/lessongen"
	"github.com/thanida/engbee/internal/llm"
	"github.com/thanida/engbee/internal/logger"
	"github.com/thanida/engbee/internal/store"
	"github.com/thanida/engbee/internal/textsim"
)

// localUser is the identity used for all CLI practice.
const localUser = "local"

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Generate and inspect lessons",
}

var lessonNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a new lesson",
	RunE:  runLessonNew,
}

var lessonListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored lessons, newest first",
	RunE:  runLessonList,
}

func init() {
	lessonNewCmd.Flags().Int("count", 0, "Number of items (4-12, default 10)")
	lessonNewCmd.Flags().String("level", "", "Difficulty tag (A0-B2)")
	lessonNewCmd.Flags().String("topic", "", "Lesson topic")
	lessonListCmd.Flags().Int("limit", 10, "Maximum lessons to show")

	lessonCmd.AddCommand(lessonNewCmd)
	lessonCmd.AddCommand(lessonListCmd)
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func runLessonNew(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()
	ctx := cmd.Context()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	log, err := logger.New(os.Getenv("ENGBEE_LOG_MODE"))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	provider, err := llm.NewProvider(ctx, llm.ConfigFromEnv(), log)
	if err != nil {
		return fmt.Errorf("configure LLM provider: %w", err)
	}
	gen := lessongen.NewService(provider, lessongen.DefaultConfig(), log)

	count, _ := cmd.Flags().GetInt("count")
	level, _ := cmd.Flags().GetString("level")
	topic, _ := cmd.Flags().GetString("topic")

	known, err := st.Fingerprints().LoadKnown(ctx, localUser)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: could not load history:", err)
	}

	l, err := gen.Generate(ctx, lessongen.Request{
		UserID:            localUser,
		Count:             count,
		Level:             lesson.LevelTag(level),
		Topic:             topic,
		AvoidFingerprints: known,
	})
	if err != nil {
		return fmt.Errorf("generate lesson: %w", err)
	}

	if err := st.Lessons().Save(ctx, localUser, l); err != nil {
		return fmt.Errorf("save lesson: %w", err)
	}
	fps := st.Fingerprints()
	if err := fps.Record(ctx, localUser, l.Fingerprint); err != nil {
		return fmt.Errorf("record fingerprint: %w", err)
	}
	for _, it := range l.Items {
		fp := fingerprint.Sentence(textsim.Normalize(it.Term))
		if err := fps.Record(ctx, localUser, fp); err != nil {
			return fmt.Errorf("record fingerprint: %w", err)
		}
	}

	return printJSON(l)
}

func runLessonList(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	lessons, err := st.Lessons().List(cmd.Context(), localUser, limit)
	if err != nil {
		return fmt.Errorf("list lessons: %w", err)
	}

	for _, l := range lessons {
		status := " "
		if l.Status == lesson.StatusCompleted {
			status = "x"
		}
		fmt.Printf("[%s] %s  %-6s %-22s %2d items  %s\n",
			status, l.CreatedAt.Format("2006-01-02"), l.LevelTag, l.Title, len(l.Items), l.ID)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
