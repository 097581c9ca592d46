package client

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	log "github.com/sirupsen/logrus"
)

func NewOpenaiClient(apiKey string, model string, proxy string) (LLMClient, error) {
	var opts []option.RequestOption
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	} else {
		return nil, errors.New("openai: api key is required")
	}

	if proxy != "" {
		opts = append(opts, option.WithBaseURL(proxy))
	}

	var openAIModel openai.ChatModel
	if model != "" {
		openAIModel = model
	} else {
		openAIModel = openai.ChatModelGPT5
	}

	tr := http.Transport{
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: true},
		TLSHandshakeTimeout:   time.Second * 300,
		IdleConnTimeout:       time.Second * 300,
		ResponseHeaderTimeout: time.Second * 300,
		ExpectContinueTimeout: time.Second * 300,
	}
	cl := http.Client{Transport: &tr, Timeout: time.Second * 300}

	opts = append(opts, option.WithHTTPClient(&cl))

	return &oaiClientImpl{
		client: openai.NewClient(opts...),
		model:  openAIModel,
	}, nil
}

type oaiClientImpl struct {
	client openai.Client
	model  openai.ChatModel
}

var suggestionAnswerResponseSchema = GenerateSchema[view.SuggestionAnswer]()

func (l oaiClientImpl) Suggest(ctx context.Context, message string, language string) (*view.SuggestionAnswer, error) {
	start := time.Now()
	prompt, err := renderSuggestPrompt(message, language)
	if err != nil {
		return nil, fmt.Errorf("failed to render suggest prompt: %w", err)
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(prompt),
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   "suggestion_result",
		Schema: suggestionAnswerResponseSchema,
		Strict: openai.Bool(true),
	}

	chat, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: l.model,
	})
	log.Debugf("openai suggest took %dms", time.Since(start).Milliseconds())
	if err != nil {
		return nil, err
	}

	var answer view.SuggestionAnswer
	err = json.Unmarshal([]byte(chat.Choices[0].Message.Content), &answer)
	if err != nil {
		return nil, err
	}
	return &answer, nil
}

func (l oaiClientImpl) DescribeImage(ctx context.Context, imageData []byte, mimeType string, language string) (string, error) {
	start := time.Now()
	prompt, err := renderImageAuditPrompt(language)
	if err != nil {
		return "", fmt.Errorf("failed to render image audit prompt: %w", err)
	}

	dataUrl := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageData))
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataUrl}),
	}
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.UserMessage(parts),
	}

	chat, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    l.model,
	})
	log.Debugf("openai describe image took %dms", time.Since(start).Milliseconds())
	if err != nil {
		return "", err
	}

	return chat.Choices[0].Message.Content, nil
}

func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}
