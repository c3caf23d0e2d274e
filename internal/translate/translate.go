// Package translate produces a machine-translated companion track with an
// LLM provider, so a single-language SRT can be merged into a bilingual one.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Item is one caption sent for translation. Text keeps its line breaks.
type Item struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type Result struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type Translator interface {
	Translate(ctx context.Context, items []Item) ([]Result, error)
}

// ConcurrentTranslator spreads batches over several workers.
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []Item,
		concurrency int,
	) ([]Result, error)
}

type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// APIKeyEnv is the environment variable each provider reads its key from.
func (p Provider) APIKeyEnv() string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "API_KEY"
	}
}

const (
	DefaultBatchSize   = 50
	DefaultConcurrency = 3
)

type Options struct {
	InputLanguage  string
	TargetLanguage string
	Model          string
	Prompt         string
	BatchSize      int // items per request, DefaultBatchSize when zero
}

func (o Options) batchSize() int {
	if o.BatchSize > 0 {
		return o.BatchSize
	}
	return DefaultBatchSize
}

// Factory builds the translator for provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (ConcurrentTranslator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	var (
		c   completer
		err error
	)
	switch provider {
	case ProviderGemini:
		c, err = newGeminiCompleter(ctx, apiKey, opts.Model)
	case ProviderOpenAI:
		c = newOpenAICompleter(apiKey, opts.Model)
	case ProviderAnthropic:
		c = newAnthropicCompleter(apiKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}
	return newBatchTranslator(c, opts), nil
}

// BuildPrompt asks for a JSON array with one translated caption per input
// index.
func BuildPrompt(opts Options, items []Item) string {
	var sb strings.Builder

	if opts.InputLanguage != "" {
		fmt.Fprintf(&sb, "Translate the following %s subtitle captions to %s.\n\n",
			opts.InputLanguage, opts.TargetLanguage)
	} else {
		fmt.Fprintf(&sb, "Translate the following subtitle captions to %s.\n\n",
			opts.TargetLanguage)
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the caption text, preserving the meaning.\n")
	sb.WriteString("2. Keep the same number of lines in each caption; lines are separated by \\n.\n")
	sb.WriteString("3. Keep markup such as <i> or {\\an8} unchanged.\n")
	sb.WriteString("4. Return ONLY a JSON array of objects with 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}
