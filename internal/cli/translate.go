package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/mergesub/internal/pipeline"
	"github.com/mgpai22/mergesub/internal/subtitle"
	"github.com/mgpai22/mergesub/internal/translate"
)

func addTranslateFlags(cmd *cobra.Command) {
	cmd.Flags().
		StringP("translate-to", "t", "", "Add a machine translation of the first track in this language")
	cmd.Flags().
		String("provider", "gemini", "Translation provider (gemini, openai, anthropic)")
	cmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	cmd.Flags().
		String("model", "", "Model to use for translation (provider-specific, uses sensible defaults)")
	cmd.Flags().
		String("prompt", "", "Extra instructions for the translation model")
	cmd.Flags().
		Int("concurrency", translate.DefaultConcurrency, "Number of parallel translation workers")
	cmd.Flags().
		Int("batch-size", translate.DefaultBatchSize, "Number of captions per API request")
}

// addTranslatedTrack appends a translation of the first source when
// --translate-to is set. The first source is re-created since reading it
// consumes it.
func addTranslatedTrack(
	ctx context.Context,
	cmd *cobra.Command,
	sources []pipeline.Source,
) ([]pipeline.Source, error) {
	targetLang, _ := cmd.Flags().GetString("translate-to")
	if targetLang == "" {
		return sources, nil
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	prompt, _ := cmd.Flags().GetString("prompt")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	inputLang, _ := cmd.Flags().GetString("language")

	if inputLang != "" && strings.EqualFold(strings.TrimSpace(inputLang), strings.TrimSpace(targetLang)) {
		return nil, fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}
	if concurrency <= 0 {
		return nil, fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	provider := translate.Provider(providerStr)
	if apiKey == "" {
		apiKey = os.Getenv(provider.APIKeyEnv())
	}
	if apiKey == "" {
		return nil, fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			provider.APIKeyEnv(),
		)
	}

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		Prompt:         prompt,
		BatchSize:      batchSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create translator: %w", err)
	}

	first := sources[0]
	text, err := io.ReadAll(first.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read track %s: %w", first.Name, err)
	}
	sources[0] = pipeline.FromString(first.Name, string(text))

	entries, err := subtitle.ReadAll(first.Name, bytes.NewReader(text))
	if err != nil {
		return nil, err
	}

	logger.Infow("Translating first track",
		"file", first.Name,
		"entries", len(entries),
		"target_language", targetLang,
		"provider", provider,
		"concurrency", concurrency,
	)

	translated, err := translate.Track(ctx, translator, entries, concurrency)
	if err != nil {
		return nil, fmt.Errorf("translation failed: %w", err)
	}

	var buf bytes.Buffer
	if err := subtitle.WriteEntries(&buf, translated); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("%s (%s)", first.Name, targetLang)
	return append(sources, pipeline.FromString(name, buf.String())), nil
}
