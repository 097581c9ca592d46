package service

import (
	"context"
	"fmt"

	"github.com/Netcracker/qubership-weblogic-audit-service/client"
	"github.com/Netcracker/qubership-weblogic-audit-service/view"
	log "github.com/sirupsen/logrus"
)

// SuggestionService wraps the LLM client with the never-fail contract: any
// internal failure (missing credentials, transport error, malformed
// completion) degrades into human-readable fallback strings, so the report
// pipeline cannot fail because of enrichment.
type SuggestionService interface {
	Suggest(ctx context.Context, message string, language string) view.SuggestionAnswer
}

// NewSuggestionService accepts a nil llmClient; in that case every call
// returns the disabled fallback.
func NewSuggestionService(llmClient client.LLMClient) SuggestionService {
	return &suggestionServiceImpl{llmClient: llmClient}
}

type suggestionServiceImpl struct {
	llmClient client.LLMClient
}

func (s suggestionServiceImpl) Suggest(ctx context.Context, message string, language string) view.SuggestionAnswer {
	if s.llmClient == nil {
		return view.SuggestionAnswer{
			Reformulated: "LLM enrichment is disabled, unable to reformulate the message.",
			Solution:     "Check the LLM_API_KEY configuration.",
		}
	}

	answer, err := s.llmClient.Suggest(ctx, message, language)
	if err != nil {
		log.Warnf("LLM suggestion failed, falling back to degraded answer: %s", err.Error())
		return view.SuggestionAnswer{
			Reformulated: fmt.Sprintf("LLM suggestion failed: %v", err),
			Solution:     "Review the original message and its context manually.",
		}
	}
	if answer == nil || (answer.Reformulated == "" && answer.Solution == "") {
		return view.SuggestionAnswer{
			Reformulated: "No reformulation received from the LLM.",
			Solution:     "Review the original message and its context manually.",
		}
	}
	return *answer
}
