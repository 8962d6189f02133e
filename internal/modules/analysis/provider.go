package analysis

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"

	"github.com/clausewise/core/internal/config"
)

const (
	defaultAnthropicModel = "claude-haiku-4-5-20251001"
	defaultOpenAIModel    = "gpt-4o-mini"
)

// providerGenerator wraps a jetify language model behind the
// textGenerator seam the session manager caches.
type providerGenerator struct {
	model     jetapi.LanguageModel
	maxTokens int
}

// newProviderGenerator builds the handle for the first enabled
// provider. A key from the credentials file wins over the one in the
// provider block.
func newProviderGenerator(cfg config.AnalysisConfig, creds Credentials) (textGenerator, error) {
	providers := cfg.EnabledProviders()
	if len(providers) == 0 {
		return nil, errors.New("no enabled providers")
	}
	provider := providers[0]

	apiKey := creds.APIKey
	if apiKey == "" {
		apiKey = provider.APIKey
	}
	if apiKey == "" {
		return nil, fmt.Errorf("provider %q has no api key", provider.Name)
	}

	model, err := buildLanguageModel(provider, apiKey)
	if err != nil {
		return nil, err
	}

	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}
	return &providerGenerator{model: model, maxTokens: maxTokens}, nil
}

func (g *providerGenerator) GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 || maxTokens > g.maxTokens {
		maxTokens = g.maxTokens
	}
	resp, err := jetai.GenerateText(
		ctx,
		buildPromptMessages(system, prompt),
		jetai.WithModel(g.model),
		jetai.WithMaxOutputTokens(maxTokens),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromResponse(resp)
}

func buildLanguageModel(provider config.ProviderConfig, apiKey string) (jetapi.LanguageModel, error) {
	modelID := strings.TrimSpace(provider.Model)

	if provider.Name == "anthropic" {
		if modelID == "" {
			modelID = defaultAnthropicModel
		}
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if provider.BaseURL != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(provider.BaseURL, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client)), nil
	}

	if modelID == "" {
		modelID = defaultOpenAIModel
	}
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(provider.BaseURL); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client)), nil
}

func buildPromptMessages(system, prompt string) []jetapi.Message {
	messages := make([]jetapi.Message, 0, 2)
	if strings.TrimSpace(system) != "" {
		messages = append(messages, &jetapi.SystemMessage{Content: system})
	}
	messages = append(messages, &jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)})
	return messages
}

func extractTextFromResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from model backend")
	}

	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}

	text := full.String()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("empty response from model backend")
	}
	return text, nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		if path == "" {
			path = "/v1"
		} else {
			path += "/v1"
		}
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
