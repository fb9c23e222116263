package lessongen

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/thanida/engbee/internal/classify"
	"github.com/thanida/engbee/internal/fingerprint"
	"github.com/thanida/engbee/internal/lesson"
	"github.com/thanida/engbee/internal/llm"
	"github.com/thanida/engbee/internal/logger"
	"github.com/thanida/engbee/internal/textsim"
)

func batchJSON(t *testing.T, sentences ...string) json.RawMessage {
	t.Helper()
	out := batchOutput{}
	for _, s := range sentences {
		out.Items = append(out.Items, batchItem{Type: "s", En: s, Th: "คำแปล"})
	}
	raw, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal batch: %v", err)
	}
	return raw
}

func newTestService(provider llm.Provider, cfg Config) *Service {
	return NewService(provider, cfg, logger.NewNop())
}

var batchA = []string{
	"My sister cooks rice and vegetables for dinner every evening.",
	"Where do you usually buy fresh fruit in the morning?",
	"Please help me carry these heavy bags to the car.",
	"The weather in Bangkok is very hot during April and May.",
}

var batchB = []string{
	"Our teacher reads a short story to the class every Friday.",
	"How often do you visit your grandmother in the countryside?",
	"Please turn off the lights before you leave the room.",
	"Somchai walks to school with his friends every single day.",
}

func TestGenerate_SingleBatch(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: batchJSON(t, batchA...)},
	)
	svc := newTestService(mock, DefaultConfig())

	l, err := svc.Generate(context.Background(), Request{Count: 4, Level: lesson.LevelA1, Topic: "routines"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(l.Items))
	}
	if mock.CallCount() != 1 {
		t.Errorf("made %d generator calls, want 1", mock.CallCount())
	}
	if l.ID == "" || l.Fingerprint == "" {
		t.Errorf("missing id or fingerprint: %+v", l)
	}
	if l.Status != lesson.StatusIncomplete {
		t.Errorf("status = %q", l.Status)
	}
	if l.Title != "Routines Sentences" {
		t.Errorf("title = %q", l.Title)
	}
	for _, it := range l.Items {
		if it.Kind != lesson.KindSentence {
			t.Errorf("item kind = %q", it.Kind)
		}
		if it.Translation == "" {
			t.Errorf("item %q lost its translation", it.Term)
		}
	}
}

// Feeding 20 valid candidates split across categories must fill a 10-item
// lesson in one call, honoring the configured caps and pairwise diversity.
func TestGenerate_FullLessonRespectsCaps(t *testing.T) {
	statements := []string{
		"My father drives a small truck to the market every morning.",
		"The children play football in the park after school today.",
		"Our neighbors grow many green vegetables behind their wooden house.",
		"Somchai studies English with his younger sister every single evening.",
		"This restaurant serves very good noodles at a fair price.",
		"Her grandmother tells old stories about the village at night.",
		"We watch the evening news together after dinner most days.",
		"That tall building near the river is a famous hotel.",
		"His uncle sells sweet mangoes at the floating market daily.",
		"Many students ride yellow bicycles along the quiet river road.",
	}
	questions := []string{
		"Where can I find a good place to eat tonight?",
		"How much does this red umbrella cost at your shop?",
		"When does the last bus leave for the city center?",
		"Who teaches the morning class at the language school now?",
		"Which fruit do you like best during the hot season?",
		"Why are the streets so crowded on Saturday evenings here?",
	}
	requests := []string{
		"Please bring me a glass of cold water with ice.",
		"Please wait for me outside the main gate after class.",
	}
	negations := []string{
		"I don't eat spicy food because my stomach hurts sometimes.",
		"She can't come to the party because she works tonight.",
	}

	var all []string
	all = append(all, statements...)
	all = append(all, questions...)
	all = append(all, requests...)
	all = append(all, negations...)

	cfg := DefaultConfig()
	cfg.Caps = classify.Caps{
		classify.Statement: 5,
		classify.Question:  3,
		classify.Request:   1,
		classify.Negation:  1,
	}

	mock := llm.NewMockProvider(llm.MockResponse{Content: batchJSON(t, all...)})
	svc := newTestService(mock, cfg)

	l, err := svc.Generate(context.Background(), Request{Count: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Items) != 10 {
		t.Fatalf("got %d items, want 10", len(l.Items))
	}
	if mock.CallCount() != 1 {
		t.Errorf("made %d generator calls, want 1", mock.CallCount())
	}

	counts := map[classify.Kind]int{}
	for _, it := range l.Items {
		counts[classify.Classify(it.Term)]++
	}
	for kind, cap := range cfg.Caps {
		if counts[kind] > cap {
			t.Errorf("%s count %d exceeds cap %d", kind, counts[kind], cap)
		}
	}

	// No accepted pair may cross the similarity thresholds.
	for i := 0; i < len(l.Items); i++ {
		for j := i + 1; j < len(l.Items); j++ {
			a := textsim.Tokenize(l.Items[i].Term)
			b := textsim.Tokenize(l.Items[j].Term)
			if textsim.TooSimilar(a, b) {
				t.Errorf("accepted near-duplicates: %q / %q", l.Items[i].Term, l.Items[j].Term)
			}
		}
	}
}

func TestGenerate_ExhaustedWithinBudget(t *testing.T) {
	repeated := "My sister cooks rice and vegetables for dinner every evening."
	fp := fingerprint.Sentence(textsim.Normalize(repeated))

	cfg := DefaultConfig()
	total := cfg.StrictAttempts + cfg.RelaxedAttempts

	var canned []llm.MockResponse
	for i := 0; i < total; i++ {
		canned = append(canned, llm.MockResponse{Content: batchJSON(t, repeated)})
	}
	mock := llm.NewMockProvider(canned...)
	svc := newTestService(mock, cfg)

	_, err := svc.Generate(context.Background(), Request{
		Count:             4,
		AvoidFingerprints: []string{fp},
	})
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("err = %v, want ErrGenerationExhausted", err)
	}
	if mock.CallCount() != total {
		t.Errorf("made %d generator calls, want %d", mock.CallCount(), total)
	}
}

func TestGenerate_RepairRoundTrip(t *testing.T) {
	badOutput := json.RawMessage(`{"items": "not an array"}`)
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrInvalidResponse{Content: badOutput, Err: errors.New("schema validation failed")}},
		llm.MockResponse{Content: batchJSON(t, batchA...)},
	)
	svc := newTestService(mock, DefaultConfig())

	l, err := svc.Generate(context.Background(), Request{Count: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(l.Items))
	}
	if mock.CallCount() != 2 {
		t.Fatalf("made %d generator calls, want 2", mock.CallCount())
	}

	repair := mock.Calls[1]
	if repair.PriorOutput != string(badOutput) {
		t.Errorf("repair call did not carry prior output: %q", repair.PriorOutput)
	}
	last := repair.Messages[len(repair.Messages)-1]
	if last.Content != repairPrompt {
		t.Errorf("repair call does not end with the repair instruction: %q", last.Content)
	}
}

func TestGenerate_AbsorbsUpstreamFailures(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: batchJSON(t, batchA...)},
	)
	svc := newTestService(mock, DefaultConfig())

	l, err := svc.Generate(context.Background(), Request{Count: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(l.Items))
	}
	if mock.CallCount() != 2 {
		t.Errorf("made %d generator calls, want 2", mock.CallCount())
	}
}

// The relaxed attempts only shrink the fetch size; the word band and the
// structural check reject sub-band sentences in every pass.
func TestGenerate_RelaxedPassKeepsValidators(t *testing.T) {
	shorts := []string{
		"We eat rice every day.",
		"They play football after school.",
		"I like cold green tea.",
		"She reads books at night.",
	}

	cfg := DefaultConfig()
	total := cfg.StrictAttempts + cfg.RelaxedAttempts
	var canned []llm.MockResponse
	for i := 0; i < total; i++ {
		canned = append(canned, llm.MockResponse{Content: batchJSON(t, shorts...)})
	}
	mock := llm.NewMockProvider(canned...)
	svc := newTestService(mock, cfg)

	_, err := svc.Generate(context.Background(), Request{Count: 4})
	if !errors.Is(err, ErrGenerationExhausted) {
		t.Fatalf("err = %v, want ErrGenerationExhausted", err)
	}
	if mock.CallCount() != total {
		t.Errorf("made %d generator calls, want %d", mock.CallCount(), total)
	}
}

// A lesson left short by the strict attempts still fills during the relaxed
// attempts when valid sentences finally arrive.
func TestGenerate_RelaxedAttemptsFillShortLesson(t *testing.T) {
	shorts := []string{
		"We eat rice every day.",
		"They play football after school.",
	}

	cfg := DefaultConfig()
	var canned []llm.MockResponse
	for i := 0; i < cfg.StrictAttempts; i++ {
		canned = append(canned, llm.MockResponse{Content: batchJSON(t, shorts...)})
	}
	canned = append(canned, llm.MockResponse{Content: batchJSON(t, batchA...)})
	mock := llm.NewMockProvider(canned...)
	svc := newTestService(mock, cfg)

	l, err := svc.Generate(context.Background(), Request{Count: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(l.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(l.Items))
	}
	for _, it := range l.Items {
		if n := len(textsim.Tokenize(it.Term)); n < MinSentenceWords {
			t.Errorf("accepted sub-band sentence %q (%d words)", it.Term, n)
		}
	}
	if mock.CallCount() != cfg.StrictAttempts+1 {
		t.Errorf("made %d generator calls, want %d", mock.CallCount(), cfg.StrictAttempts+1)
	}
}

func TestGenerate_RegeneratesDuplicateLesson(t *testing.T) {
	// Precompute the fingerprint the first batch would assemble into.
	expected := &lesson.Lesson{
		Title:    lessonTitle(DefaultTopic),
		LevelTag: lesson.LevelA1,
		Topic:    DefaultTopic,
	}
	for _, s := range batchA {
		expected.Items = append(expected.Items, lesson.Item{Kind: lesson.KindSentence, Term: s})
	}
	dupFP := fingerprint.Lesson(expected)

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: batchJSON(t, batchA...)},
		llm.MockResponse{Content: batchJSON(t, batchB...)},
	)
	svc := newTestService(mock, DefaultConfig())

	l, err := svc.Generate(context.Background(), Request{
		Count:             4,
		AvoidFingerprints: []string{dupFP},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Fingerprint == dupFP {
		t.Fatalf("served a lesson with a known fingerprint")
	}
	if mock.CallCount() != 2 {
		t.Errorf("made %d generator calls, want 2", mock.CallCount())
	}
	if l.Items[0].Term != batchB[0] {
		t.Errorf("second batch not used: %q", l.Items[0].Term)
	}
}

func TestLessonTitle(t *testing.T) {
	cases := []struct {
		topic string
		want  string
	}{
		{"", "Sentences"},
		{"market", "Market Sentences"},
		{"at the airport", "At the airport Sentences"},
		// A multibyte first rune must survive intact.
		{"ตลาด", "ตลาด Sentences"},
	}
	for _, tc := range cases {
		got := lessonTitle(tc.topic)
		if got != tc.want {
			t.Errorf("lessonTitle(%q) = %q, want %q", tc.topic, got, tc.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("lessonTitle(%q) produced invalid UTF-8", tc.topic)
		}
	}
}

func TestGenerate_CountClampAndDefaults(t *testing.T) {
	if got := clampCount(0); got != DefaultItems {
		t.Errorf("clampCount(0) = %d", got)
	}
	if got := clampCount(1); got != MinItems {
		t.Errorf("clampCount(1) = %d", got)
	}
	if got := clampCount(99); got != MaxItems {
		t.Errorf("clampCount(99) = %d", got)
	}
	if got := clampCount(7); got != 7 {
		t.Errorf("clampCount(7) = %d", got)
	}
}

func TestFallbackLesson(t *testing.T) {
	l := FallbackLesson("", "")
	if len(l.Items) != 10 {
		t.Fatalf("got %d items, want 10", len(l.Items))
	}
	if l.LevelTag != lesson.LevelA1 || l.Topic != DefaultTopic {
		t.Errorf("defaults not applied: %s %s", l.LevelTag, l.Topic)
	}
	if l.Fingerprint == "" || l.ID == "" {
		t.Errorf("missing id or fingerprint")
	}

	counts := map[classify.Kind]int{}
	for _, it := range l.Items {
		counts[classify.Classify(it.Term)]++
	}
	want := classify.DefaultCaps()
	for kind, cap := range want {
		if counts[kind] != cap {
			t.Errorf("%s count = %d, want %d", kind, counts[kind], cap)
		}
	}
}
