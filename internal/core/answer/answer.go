// Package answer generates a grounded Korean answer from retrieved
// work-log context.
package answer

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"work-report-rag/config"
	"work-report-rag/pkg/logger"
)

// Generator turns a query plus formatted context into a final answer.
type Generator interface {
	Generate(ctx context.Context, query, contextBlock string, unresolved bool) (string, error)
}

const systemPrompt = `당신은 업무일지 검색 어시스턴트입니다. 아래 규칙을 반드시 지키세요.
1. 제공된 검색 결과(컨텍스트)에 있는 내용만 사용해 답변합니다.
2. 컨텍스트에 없는 내용은 추측하거나 지어내지 않습니다.
3. 날짜가 여러 개인 경우 날짜순으로 정리해 답변합니다.
4. 답변은 한국어로 간결하게 작성합니다.`

const unresolvedRule = `
5. 미종결 업무 질문입니다. 각 항목의 날짜와 내용을 명시하고, 컨텍스트에 없는 항목은 언급하지 않습니다.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// OpenAI generates answers through the chat completions endpoint.
type OpenAI struct{}

// Generate implements Generator.
func (OpenAI) Generate(ctx context.Context, query, contextBlock string, unresolved bool) (string, error) {
	key := config.Cfg.OpenAI.Key
	if key == "" {
		return "", errors.New("missing openai key")
	}
	client := openai.NewClient(option.WithAPIKey(key))

	system := systemPrompt
	if unresolved {
		system += unresolvedRule
	}
	user := "[검색 결과]\n" + contextBlock + "\n\n[질문]\n" + query

	req := chatCompletionRequest{
		Model: config.Cfg.OpenAI.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		MaxTokens:   2000,
	}
	var out chatCompletionResponse
	if err := client.Post(ctx, "/chat/completions", req, &out); err != nil {
		logger.WithFields(map[string]interface{}{
			"module": config.ModuleChat,
			"model":  config.Cfg.OpenAI.Model,
			"error":  err,
		}).Errorf("openai: chat completion failed")
		return "", err
	}
	if out.Error != nil {
		return "", errors.New(out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return out.Choices[0].Message.Content, nil
}
