package lessongen

import (
	"fmt"
	"strings"

	"github.com/thanida/engbee/internal/lesson"
)

const systemPromptBase = `You generate short English practice sentences for Thai learners.

Rules:
- Respond with JSON only: {"items":[{"type":"s","en":"...","th":"..."}]}. No prose, no markdown.
- Each English sentence is 8-14 words, a complete sentence starting with a capital letter and ending with ., ? or !.
- English text must be plain ASCII. No smart quotes, no Thai in the "en" field.
- Each item has a polite Thai translation in the "th" field.
- Include about 4 statements, 3 questions, 2 polite requests, and 1 negation.
- Everyday topics only; avoid slang and rare words.
- Do not repeat any sentence from the avoid list.`

// levelRules adds per-tier vocabulary guidance to the system prompt.
var levelRules = map[lesson.LevelTag]string{
	lesson.LevelA0: "Use only very common words (A0). Prefer the simplest possible grammar.",
	lesson.LevelA1: "Use common everyday words (A1). Simple present-tense sentences.",
	lesson.LevelA2: "Use frequent A2 vocabulary and collocations. Basic present and past tense.",
	lesson.LevelB1: "Use B1 vocabulary and common patterns. Light variation in structure.",
	lesson.LevelB2: "Use B2 vocabulary and natural phrasing.",
}

func systemPrompt(level lesson.LevelTag) string {
	rule, ok := levelRules[level]
	if !ok {
		rule = levelRules[lesson.LevelA1]
	}
	return systemPromptBase + "\n- " + rule
}

// buildUserMessage constructs the per-call user instruction. The avoid lists
// are advisory hints; the generator is not trusted to honor them and every
// candidate is still checked locally.
func buildUserMessage(topic string, count int, avoidSentences, avoidTokens []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s. Count: %d.", topic, count)
	fmt.Fprintf(&b, " Avoid sentences: %s.", joinOrNone(avoidSentences, " | "))
	fmt.Fprintf(&b, " Discourage tokens: %s.", joinOrNone(avoidTokens, ", "))
	return b.String()
}

// repairPrompt asks the generator to re-emit its prior output as strict JSON.
const repairPrompt = "Your previous output was not valid JSON per the schema. Re-output JSON ONLY. Do not include commentary or markdown."

func joinOrNone(items []string, sep string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, sep)
}
