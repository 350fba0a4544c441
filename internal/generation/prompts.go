package generation

import (
	"fmt"
	"strings"
)

const outlineSystemPrompt = `You are an expert instructional designer. You turn study material into a gamified course
made of chapters and short levels, in the style of Duolingo. Always answer with a single JSON object and nothing else.`

const levelSystemPrompt = `You are an expert tutor who writes short interactive lessons. Each lesson is a sequence of
steps: informational cards and single-choice quizzes. Formulas may use $inline$ or $$block$$ LaTeX markup.
Always answer with a single JSON object and nothing else.`

const assistantSystemPrompt = `You are a friendly learning assistant. Keep answers short, encouraging and precise.`

func buildOutlinePrompt(material, title string, d Difficulty) string {
	lo, hi := xpRange(d)

	var b strings.Builder
	b.WriteString("Design a course from the study material below.\n\n")
	if title != "" {
		fmt.Fprintf(&b, "Suggested course title: %s\n", title)
	}
	fmt.Fprintf(&b, "Target difficulty: %s\n\n", d)
	b.WriteString("Requirements:\n")
	b.WriteString("- 3 to 5 chapters, each with 2 to 4 levels\n")
	b.WriteString("- every level has a short title and a one sentence description\n")
	b.WriteString("- chapterIndex is the 0-based index of the chapter the level belongs to\n")
	fmt.Fprintf(&b, "- xpReward between %d and %d\n", lo, hi)
	b.WriteString("- pick a single emoji as icon\n\n")
	b.WriteString(`Answer with JSON shaped like:
{"title":"...","description":"...","icon":"📘",
 "chapters":[{"title":"...","description":"..."}],
 "levels":[{"title":"...","description":"...","chapterIndex":0,"order":1,"xpReward":80}]}`)
	b.WriteString("\n\nStudy material:\n")
	b.WriteString(material)
	return b.String()
}

func buildLevelPrompt(req LevelRequest, d Difficulty) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the lesson for the level %q.\n", req.LevelTitle)
	if req.LevelDescription != "" {
		fmt.Fprintf(&b, "Level description: %s\n", req.LevelDescription)
	}
	if req.ChapterTitle != "" {
		fmt.Fprintf(&b, "Chapter: %s\n", req.ChapterTitle)
	}
	fmt.Fprintf(&b, "Difficulty: %s\n\n", d)

	if req.Feedback != nil && req.Feedback.Text != "" {
		fmt.Fprintf(&b, "The learner said about the previous version: %s\n", req.Feedback.Text)
	}
	if len(req.PreviousAnswers) > 0 {
		b.WriteString("The learner's previous answers:\n")
		for _, a := range req.PreviousAnswers {
			verdict := "wrong"
			if a.IsCorrect {
				verdict = "correct"
			}
			fmt.Fprintf(&b, "- step %s: %q (%s)\n", a.StepID, a.Answer, verdict)
		}
		b.WriteString("Focus on the concepts the learner got wrong.\n")
	}
	if req.GenerateNext {
		b.WriteString("This is a follow-up lesson: do not repeat the previous one, go one step further.\n")
	}

	b.WriteString(`
Requirements:
- 2 to 4 steps
- the first step is "info"; middle steps are "info" or "multiple_choice"; the last step is "multiple_choice"
- every multiple_choice step has a question, 3 or 4 options and exactly one option with isCorrect true
- a hint is welcome on quiz steps

Answer with JSON shaped like:
{"steps":[{"id":"step-1","type":"info","title":"...","content":"..."},
 {"id":"step-2","type":"multiple_choice","content":"...","question":"...","hint":"...",
  "options":[{"id":"a","text":"...","isCorrect":true},{"id":"b","text":"...","isCorrect":false}]}]}`)
	b.WriteString("\n\nReference material:\n")
	b.WriteString(req.Material)
	return b.String()
}

func buildHintPrompt(question, attempt string) string {
	if attempt == "" {
		return fmt.Sprintf("Give a one or two sentence hint for this question without revealing the answer:\n%s", question)
	}
	return fmt.Sprintf("The learner answered %q to the question below. Give a one or two sentence hint that nudges them "+
		"toward the right answer without revealing it:\n%s", attempt, question)
}

func buildExplainPrompt(content string) string {
	return fmt.Sprintf("Explain the following in simple words, with one short example:\n%s", content)
}
