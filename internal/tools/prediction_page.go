package tools

import (
	"context"
	"html"
	"log/slog"
	"net/url"
	"strings"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// PredictionPageToolName is the name the model calls the prediction page tool by
const PredictionPageToolName = "open_usage_prediction_page"

const (
	predictionPagePath   = "/prediction/analysis/prediction"
	predictionGuide      = "상세 분석을 위해 예측 페이지로 이동합니다."
	maxInitPromptLength  = 500
	initPromptQueryParam = "init_prompt"
)

// Verify interface compliance
var _ driven.Tool = (*PredictionPageTool)(nil)

// PredictionPageTool builds a deep link into the usage prediction page,
// carrying the user's question as the page's initial prompt.
type PredictionPageTool struct {
	frontendBaseURL string
	logger          *slog.Logger
}

// NewPredictionPageTool creates the prediction page tool
func NewPredictionPageTool(frontendBaseURL string, logger *slog.Logger) *PredictionPageTool {
	if logger == nil {
		logger = slog.Default()
	}
	return &PredictionPageTool{frontendBaseURL: frontendBaseURL, logger: logger}
}

func (t *PredictionPageTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        PredictionPageToolName,
		Description: "사용자가 물품의 수명 예측, 고장 시점 분석, 또는 사용 주기와 관련된 구체적인 데이터를 보고 싶어 할 때 사용주기 예측 분석 화면을 엽니다.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_question_context": map[string]any{
					"type":        "string",
					"description": "사용자가 언급한 질문 내용 또는 물품명 (자연어 그대로 전달, 예: '서버실 에어컨 수명')",
				},
			},
			"required": []string{},
		},
	}
}

func (t *PredictionPageTool) Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error) {
	prompt := stringArg(args, "user_question_context")
	if prompt == "" {
		prompt = stringArg(args, "keyword")
	}

	cleaned, truncated := SanitizeInitPrompt(prompt)
	if truncated {
		t.logger.Warn("prediction page prompt truncated", "length", len([]rune(prompt)), "limit", maxInitPromptLength)
	}

	return domain.NewNavigationResult(buildPredictionURL(t.frontendBaseURL, cleaned), predictionGuide), nil
}

// SanitizeInitPrompt prepares free text for the init_prompt query parameter:
// trims it, strips control characters, HTML-escapes it and cuts it to 500
// characters without leaving a partial entity at the end.
func SanitizeInitPrompt(s string) (cleaned string, truncated bool) {
	s = strings.TrimSpace(s)
	s = strings.Map(func(r rune) rune {
		if isStrippedControl(r) {
			return -1
		}
		return r
	}, s)
	s = html.EscapeString(s)

	runes := []rune(s)
	if len(runes) <= maxInitPromptLength {
		return s, false
	}

	s = string(runes[:maxInitPromptLength])
	lastAmp := strings.LastIndex(s, "&")
	lastSemi := strings.LastIndex(s, ";")
	if lastAmp > lastSemi {
		s = s[:lastAmp]
	}
	return s, true
}

// isStrippedControl matches C0 controls except tab, newline and carriage return
func isStrippedControl(r rune) bool {
	switch {
	case r <= 0x08:
		return true
	case r == 0x0b || r == 0x0c:
		return true
	case r >= 0x0e && r <= 0x1f:
		return true
	default:
		return false
	}
}

func buildPredictionURL(frontendBaseURL, initPrompt string) string {
	base := strings.TrimRight(frontendBaseURL, "/") + predictionPagePath
	if initPrompt == "" {
		return base
	}
	params := url.Values{}
	params.Set(initPromptQueryParam, initPrompt)
	return base + "?" + params.Encode()
}
