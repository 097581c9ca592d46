package client

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	log "github.com/sirupsen/logrus"
	"gopkg.in/resty.v1"
)

const defaultGeminiModel = "gemini-2.5-flash"
const defaultGeminiBaseUrl = "https://generativelanguage.googleapis.com"

func NewGeminiClient(apiKey string, model string, baseUrl string) (LLMClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	if baseUrl == "" {
		baseUrl = defaultGeminiBaseUrl
	}

	tr := http.Transport{TLSClientConfig: &tls.Config{InsecureSkipVerify: true}}
	cl := http.Client{Transport: &tr, Timeout: time.Second * 300}
	client := resty.NewWithClient(&cl)

	return &geminiClientImpl{baseUrl: baseUrl, apiKey: apiKey, model: model, client: client}, nil
}

type geminiClientImpl struct {
	baseUrl string
	apiKey  string
	model   string
	client  *resty.Client
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiGenerateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiGenerateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

var jsonBlockRegexp = regexp.MustCompile(`\{[\s\S]*\}`)

func (g geminiClientImpl) Suggest(ctx context.Context, message string, language string) (*view.SuggestionAnswer, error) {
	prompt, err := renderSuggestPrompt(message, language)
	if err != nil {
		return nil, fmt.Errorf("failed to render suggest prompt: %w", err)
	}

	text, err := g.generateContent(ctx, []geminiPart{{Text: prompt}})
	if err != nil {
		return nil, err
	}

	block := jsonBlockRegexp.FindString(text)
	if block == "" {
		return nil, fmt.Errorf("gemini completion contains no JSON object: %s", text)
	}
	var answer view.SuggestionAnswer
	if err := json.Unmarshal([]byte(block), &answer); err != nil {
		return nil, fmt.Errorf("failed to decode gemini completion: %w", err)
	}
	return &answer, nil
}

func (g geminiClientImpl) DescribeImage(ctx context.Context, imageData []byte, mimeType string, language string) (string, error) {
	prompt, err := renderImageAuditPrompt(language)
	if err != nil {
		return "", fmt.Errorf("failed to render image audit prompt: %w", err)
	}

	parts := []geminiPart{
		{InlineData: &geminiInlineData{MimeType: mimeType, Data: base64.StdEncoding.EncodeToString(imageData)}},
		{Text: prompt},
	}
	return g.generateContent(ctx, parts)
}

func (g geminiClientImpl) generateContent(ctx context.Context, parts []geminiPart) (string, error) {
	start := time.Now()
	body := geminiGenerateRequest{Contents: []geminiContent{{Parts: parts}}}

	req := g.client.R()
	req.SetContext(ctx)
	req.SetHeader("Content-Type", "application/json")
	req.SetBody(body)

	resp, err := req.Post(fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.baseUrl, url.PathEscape(g.model), url.QueryEscape(g.apiKey)))
	if err != nil {
		return "", fmt.Errorf("gemini generateContent request failed: %w", err)
	}
	log.Debugf("gemini generateContent took %dms", time.Since(start).Milliseconds())

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("gemini generateContent failed: status code %d %s", resp.StatusCode(), resp.Body())
	}

	var result geminiGenerateResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("gemini response contains no candidates")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
