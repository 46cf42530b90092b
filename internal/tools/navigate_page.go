package tools

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// NavigatePageToolName is the name the model calls the page navigation tool by
const NavigatePageToolName = "navigate_to_page"

// PageType is a frontend screen the assistant can send the user to
type PageType string

const (
	PageAssetDetail        PageType = "ASSET_DETAIL"
	PageUsagePrediction    PageType = "USAGE_PREDICTION"
	PageDisposalManagement PageType = "DISPOSAL_MANAGEMENT"
)

type page struct {
	path  string
	guide string
}

var pages = map[PageType]page{
	PageAssetDetail:        {path: "/assets/detail", guide: "물품 상세 정보 화면으로 이동합니다."},
	PageUsagePrediction:    {path: predictionPagePath, guide: "사용주기 예측 화면으로 이동합니다."},
	PageDisposalManagement: {path: "/disposal/management", guide: "불용(폐기) 관리 화면으로 이동합니다."},
}

// Verify interface compliance
var _ driven.Tool = (*NavigatePageTool)(nil)

// NavigatePageTool sends the user to one of the fixed frontend screens
type NavigatePageTool struct {
	frontendBaseURL string
}

// NewNavigatePageTool creates the page navigation tool
func NewNavigatePageTool(frontendBaseURL string) *NavigatePageTool {
	return &NavigatePageTool{frontendBaseURL: frontendBaseURL}
}

func (t *NavigatePageTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        NavigatePageToolName,
		Description: "사용자가 물품 상세 정보 확인, 수명 예측 분석, 또는 불용(폐기) 관리 등의 작업을 원할 때 적절한 시스템 화면으로 이동하거나 안내합니다.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"page_type": map[string]any{
					"type":        "string",
					"enum":        []string{string(PageAssetDetail), string(PageUsagePrediction), string(PageDisposalManagement)},
					"description": "이동할 페이지 유형 (ASSET_DETAIL: 물품 상세, USAGE_PREDICTION: 수명/사용주기 예측, DISPOSAL_MANAGEMENT: 불용/폐기 관리)",
				},
				"asset_id": map[string]any{
					"type":        "string",
					"description": "ASSET_DETAIL 이동 시 표시할 G2B목록번호 (선택)",
				},
			},
			"required": []string{"page_type"},
		},
	}
}

func (t *NavigatePageTool) Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error) {
	pageType := PageType(strings.ToUpper(stringArg(args, "page_type")))
	p, ok := pages[pageType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown page_type %q", domain.ErrInvalidInput, pageType)
	}

	target := strings.TrimRight(t.frontendBaseURL, "/") + p.path
	if assetID := stringArg(args, "asset_id"); assetID != "" && pageType == PageAssetDetail {
		target += "?" + url.Values{"asset_id": {assetID}}.Encode()
	}

	return domain.NewNavigationResult(target, p.guide), nil
}
