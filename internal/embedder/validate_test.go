package embedder

import (
	"io"
	"log/slog"
	"os"
	"testing"
)

func TestLooksLikeChatModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		model string
		want  bool
	}{
		{"gpt-4o", true},
		{"llama3", true},
		{"Mistral-7B", true},
		{"nomic-embed-text", false},
		{"text-embedding-3-small", false},
		{"all-minilm", false},
	}

	for _, tc := range tests {
		t.Run(tc.model, func(t *testing.T) {
			t.Parallel()
			if got := looksLikeChatModel(tc.model); got != tc.want {
				t.Errorf("looksLikeChatModel(%q) = %v, want %v", tc.model, got, tc.want)
			}
		})
	}
}

func TestValidateEnv(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	clear := func(t *testing.T) {
		t.Helper()
		for _, k := range []string{
			"MODEL_PROVIDER", "EMBEDDING_PROVIDER", "EMBEDDING_API_KEY",
			"EMBEDDING_ENDPOINT", "EMBEDDING_MODEL",
			"OPENAI_API_KEY", "AZURE_OPENAI_API_KEY", "AZURE_OPENAI_ENDPOINT",
		} {
			t.Setenv(k, "")
			os.Unsetenv(k)
		}
	}

	t.Run("ollama default needs nothing", func(t *testing.T) {
		clear(t)
		if err := ValidateEnv(log); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("openai without key fails", func(t *testing.T) {
		clear(t)
		t.Setenv("EMBEDDING_PROVIDER", "openai")
		if err := ValidateEnv(log); err == nil {
			t.Error("expected error for missing OpenAI key")
		}
	})

	t.Run("openai with inherited key passes", func(t *testing.T) {
		clear(t)
		t.Setenv("EMBEDDING_PROVIDER", "openai")
		t.Setenv("OPENAI_API_KEY", "sk-test")
		if err := ValidateEnv(log); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("azure without endpoint fails", func(t *testing.T) {
		clear(t)
		t.Setenv("EMBEDDING_PROVIDER", "azure")
		t.Setenv("AZURE_OPENAI_API_KEY", "key")
		if err := ValidateEnv(log); err == nil {
			t.Error("expected error for missing Azure endpoint")
		}
	})

	t.Run("inherited gemini backend fails", func(t *testing.T) {
		clear(t)
		t.Setenv("MODEL_PROVIDER", "gemini")
		if err := ValidateEnv(log); err == nil {
			t.Error("expected error for non-embedding backend")
		}
	})
}
