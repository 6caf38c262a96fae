package study

import (
	"fmt"
)

// notesSystem is the fixed instruction for notes mode. The wording is part of
// the behavioral contract — do not edit casually.
const notesSystem = "You are a strict study tutor. " +
	"Based on the Context provided, generate concise bullet-point study notes. " +
	"If the information is missing, state that clearly."

// quizSystem is the fixed instruction for quiz mode. It demands exactly one
// multiple-choice question as raw JSON with no markdown fencing; the
// dispatcher still strips fences defensively because models add them anyway.
const quizSystem = `You are a quiz generator. Based on the Context provided, generate ONE multiple-choice question.
You MUST output strictly valid JSON in this format:
{
  "question": "The question text?",
  "options": ["Option A", "Option B", "Option C", "Option D"],
  "answer": "Option A",
  "explanation": "Why A is correct."
}
Do not include markdown formatting like ` + "```json" + `. Just raw JSON.`

// BuildPrompt assembles the full generation prompt: the mode's system
// instruction, a labeled Context section with the retrieved passages, and a
// labeled Topic section with the raw topic string, in that order.
// Only notes and quiz have prompts — video mode never reaches the model.
func BuildPrompt(mode Mode, context, topic string) (string, error) {
	var system string
	switch mode {
	case ModeNotes:
		system = notesSystem
	case ModeQuiz:
		system = quizSystem
	default:
		return "", fmt.Errorf("study: no prompt template for mode %q", mode)
	}

	return fmt.Sprintf("%s\n\nContext:\n%s\n\nTopic: %s", system, context, topic), nil
}
