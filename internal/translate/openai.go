package translate

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultOpenAIModel = "gpt-5-mini"

type openAICompleter struct {
	client openai.Client
	model  string
}

func newOpenAICompleter(apiKey, model string) *openAICompleter {
	if model == "" {
		model = defaultOpenAIModel
	}
	return &openAICompleter{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (c *openAICompleter) provider() Provider {
	return ProviderOpenAI
}

func (c *openAICompleter) complete(ctx context.Context, prompt string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: c.model,
	})
	if err != nil {
		return "", err
	}
	if completion == nil || len(completion.Choices) == 0 {
		return "", errors.New("empty response from OpenAI")
	}
	return completion.Choices[0].Message.Content, nil
}
