package study

import (
	"strings"
	"testing"
)

func Test_BuildPrompt_Notes(t *testing.T) {
	t.Parallel()

	got, err := BuildPrompt(ModeNotes, "Mars is red.\n\nJupiter is large.", "Mars")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !strings.HasPrefix(got, "You are a strict study tutor.") {
		t.Errorf("prompt must open with the notes instruction, got %q", got)
	}
	if !strings.Contains(got, "\n\nContext:\nMars is red.\n\nJupiter is large.") {
		t.Errorf("prompt missing labeled context section: %q", got)
	}
	if !strings.HasSuffix(got, "\n\nTopic: Mars") {
		t.Errorf("prompt must close with the labeled topic: %q", got)
	}
}

func Test_BuildPrompt_Quiz(t *testing.T) {
	t.Parallel()

	got, err := BuildPrompt(ModeQuiz, "ctx", "gravity")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if !strings.HasPrefix(got, "You are a quiz generator.") {
		t.Errorf("prompt must open with the quiz instruction, got %q", got)
	}
	// The JSON contract and the no-fencing directive are part of the prompt.
	for _, want := range []string{`"question"`, `"options"`, `"answer"`, `"explanation"`, "Just raw JSON."} {
		if !strings.Contains(got, want) {
			t.Errorf("quiz prompt missing %q", want)
		}
	}
	if !strings.HasSuffix(got, "\n\nTopic: gravity") {
		t.Errorf("prompt must close with the labeled topic: %q", got)
	}
}

func Test_BuildPrompt_EmptyContextStillLabeled(t *testing.T) {
	t.Parallel()

	got, err := BuildPrompt(ModeNotes, "", "anything")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(got, "\n\nContext:\n\n\nTopic: anything") {
		t.Errorf("empty corpus keeps the section labels: %q", got)
	}
}

func Test_BuildPrompt_VideoHasNoPrompt(t *testing.T) {
	t.Parallel()

	if _, err := BuildPrompt(ModeVideo, "ctx", "topic"); err == nil {
		t.Fatal("video mode must not build a prompt")
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"notes", "quiz", "video"} {
		if _, err := ParseMode(valid); err != nil {
			t.Errorf("ParseMode(%q): unexpected error %v", valid, err)
		}
	}
	for _, invalid := range []string{"", "Notes", "flashcards"} {
		if _, err := ParseMode(invalid); err == nil {
			t.Errorf("ParseMode(%q): expected error", invalid)
		}
	}
}
