package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

// AssetLookupToolName is the name the model calls the asset lookup by
const AssetLookupToolName = "get_item_detail_info"

// User-facing messages returned in tool payloads
const (
	msgLookupFieldRequired = "검색할 G2B목록명, G2B목록번호, 또는 물품고유번호 중 하나는 필수로 입력해야 합니다."
	msgAssetNotFound       = "조건에 맞는 물품을 찾을 수 없습니다."
	msgLookupTimeout       = "요청 시간이 초과되었습니다. 잠시 후 다시 시도해 주세요."
	msgLookupUnreachable   = "자산 조회 시스템에 연결할 수 없습니다."
	msgLookupServerError   = "서버 오류가 발생했습니다."
	msgLookupMalformed     = "서버 응답 형식이 올바르지 않습니다."
	msgLookupFailed        = "데이터 조회 중 문제가 발생했습니다."
)

// Verify interface compliance
var _ driven.Tool = (*AssetLookupTool)(nil)

// AssetLookupTool queries the backend asset API for item details.
// Backend failures come back as error payloads for the generator to explain,
// not as Go errors.
type AssetLookupTool struct {
	api      driven.AssetAPI
	synonyms *SynonymResolver
	logger   *slog.Logger
}

// NewAssetLookupTool creates the asset lookup tool
func NewAssetLookupTool(api driven.AssetAPI, synonyms *SynonymResolver, logger *slog.Logger) *AssetLookupTool {
	if synonyms == nil {
		synonyms = NewSynonymResolver(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetLookupTool{api: api, synonyms: synonyms, logger: logger}
}

func (t *AssetLookupTool) Spec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        AssetLookupToolName,
		Description: "물품의 G2B목록명, 목록번호, 고유번호를 통해 현재 상태, 운용 부서, 취득 일자 등의 상세 정보를 조회합니다. 사용자가 필드를 잘못 입력해도 자동 보정을 수행합니다.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"asset_name": map[string]any{
					"type":        "string",
					"description": "사용자가 언급한 물품의 이름 또는 G2B목록명 (예: '맥북 프로', '13층 복합기')",
				},
				"asset_id": map[string]any{
					"type":        "string",
					"description": "G2B목록번호 (식별 가능한 경우, 예: 'A-1234')",
				},
				"identification_num": map[string]any{
					"type":        "string",
					"description": "물품고유번호",
				},
			},
			"required": []string{},
		},
	}
}

// Invoke runs: smart correction, required-field check, synonym standardisation, backend search.
func (t *AssetLookupTool) Invoke(ctx context.Context, args map[string]any) (*domain.ToolResult, error) {
	query := domain.AssetQuery{
		AssetName:         stringArg(args, "asset_name"),
		AssetID:           stringArg(args, "asset_id"),
		IdentificationNum: stringArg(args, "identification_num"),
	}

	query = ApplySmartCorrection(query, t.synonyms, t.logger)

	if query.IsEmpty() {
		return errorPayload(msgLookupFieldRequired), nil
	}

	requestedName := query.AssetName
	if canonical, ok := t.synonyms.Normalize(query.AssetName); ok {
		t.logger.Info("synonym match", "from", query.AssetName, "to", canonical)
		query.AssetName = canonical
	}

	resp, err := t.api.Search(ctx, query)
	if err != nil {
		return t.failure(err), nil
	}

	if !resp.Found() {
		msg := msgAssetNotFound
		if requestedName != "" && requestedName != query.AssetName {
			msg += fmt.Sprintf(" (참고: '%s' -> '%s' 변환 검색)", requestedName, query.AssetName)
		}
		return domain.NewDataResult(encodeJSON(map[string]string{"message": msg})), nil
	}

	if len(resp.Raw) > 0 {
		return domain.NewDataResult(string(resp.Raw)), nil
	}
	return domain.NewDataResult(encodeJSON(resp)), nil
}

// failure maps a backend error to the payload shown to the generator
func (t *AssetLookupTool) failure(err error) *domain.ToolResult {
	var statusErr *domain.StatusError
	switch {
	case errors.Is(err, domain.ErrTimeout):
		t.logger.Error("asset api timed out", "error", err)
		return errorPayload(msgLookupTimeout)
	case errors.As(err, &statusErr):
		t.logger.Error("asset api returned an error status", "status", statusErr.StatusCode, "error", err)
		return errorPayload(msgLookupServerError)
	case errors.Is(err, domain.ErrServiceUnavailable):
		t.logger.Error("asset api unreachable", "error", err)
		return errorPayload(msgLookupUnreachable)
	case errors.Is(err, domain.ErrMalformedOutput):
		t.logger.Error("asset api returned malformed json", "error", err)
		return errorPayload(fmt.Sprintf("%s (%v)", msgLookupMalformed, err))
	default:
		t.logger.Error("asset api request failed", "error", err)
		return errorPayload(msgLookupFailed)
	}
}

func errorPayload(msg string) *domain.ToolResult {
	r := domain.NewDataResult(encodeJSON(map[string]string{"error": msg}))
	r.IsError = true
	return r
}
