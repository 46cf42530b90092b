package services

import (
	"strings"

	"github.com/custodia-labs/campus-assist/internal/core/domain"
	"github.com/custodia-labs/campus-assist/internal/core/ports/driven"
)

const sectionSeparator = "\n\n"

// personaPrompt is the system message of every generation call
const personaPrompt = `당신은 대학교 행정 업무를 지원하는 전문적인 AI 어시스턴트입니다.
제공된 문맥(Context)을 바탕으로 사용자의 질문에 답변하세요.

[답변 가이드라인]
1. 답변 끝에 불필요한 이모지나 사족을 달지 마세요.
2. 반드시 격식 있고 정중한 존댓말(하십시오체)을 사용하세요.
3. 모르는 내용은 솔직히 모른다고 답변하세요.`

const systemSection = `[시스템 정체성]
- 본 AI는 대학 물품 관리 시스템 전용 AI 챗봇이다.

[권한]
- 제공된 Context(매뉴얼, 문서) 내 정보만 사용한다.

[한계]
- Context에 없는 정보는 추측하지 않는다.
- 외부 지식, 일반 상식 사용을 금지한다.`

const roleSection = `[역할]
- 대학 행정 담당자를 보조하는 AI 비서 역할

[응답 규칙]
- 공손하고 간결한 존댓말 사용
- 불필요한 설명, 이모지 사용 금지`

const safetySection = `[안전 지침]
- Context 외 정보 사용 금지
- 모호한 질문에 대해 임의 해석 금지
- 함수 실행을 직접 시도하지 않는다
- 필요 시 '함수 호출이 필요함'까지만 판단한다`

const functionDecisionSection = `[Function Calling 판단 기준]

다음 경우에는 함수 호출이 필요하다고 판단한다.
- 특정 물품, 자산, 자산번호, 물품ID가 질문에 포함된 경우
- '조회', '확인', '상태 알려줘' 등 데이터 요청 표현이 있는 경우

다음 경우에는 자연어로 응답한다.
- 매뉴얼 설명
- 제도, 절차, 정책 설명

함수 호출이 필요하다고 판단되면,
실제 실행은 하지 말고 호출 의도만 명확히 표현한다.`

const (
	faqFullListHeader = "[FAQ 전체 내용 목록]"
	faqMatchedHeader  = "[관련 FAQ]"
	contextHeader     = "[참고 자료]"
	questionHeader    = "[질문]"
	toolResultHeader  = "[조회 결과: "
)

// PromptAssembler builds the generator's instruction text.
// Section order is fixed: identity, role, safety, FAQ, function-calling policy,
// context, question. Only the role section cannot be disabled.
type PromptAssembler struct {
	toggles domain.PromptToggles
	faq     driven.FAQStore
}

// NewPromptAssembler creates a new PromptAssembler. faq may be nil.
func NewPromptAssembler(toggles domain.PromptToggles, faq driven.FAQStore) *PromptAssembler {
	return &PromptAssembler{toggles: toggles, faq: faq}
}

// Assemble returns the user prompt for question with the given context block
func (p *PromptAssembler) Assemble(context, question string) string {
	sections := make([]string, 0, 7)

	if p.toggles.System {
		sections = append(sections, systemSection)
	}
	sections = append(sections, roleSection)
	if p.toggles.Safety {
		sections = append(sections, safetySection)
	}
	if p.toggles.FAQ {
		if faq := p.faqSection(question); faq != "" {
			sections = append(sections, faq)
		}
	}
	if p.toggles.FunctionDecision {
		sections = append(sections, functionDecisionSection)
	}

	sections = append(sections,
		contextHeader+"\n"+context,
		questionHeader+"\n"+question,
	)
	return strings.Join(sections, sectionSeparator)
}

// Messages returns the full generation request: persona plus assembled prompt
func (p *PromptAssembler) Messages(context, question string) []domain.Message {
	return []domain.Message{
		domain.SystemMessage(personaPrompt),
		domain.UserMessage(p.Assemble(context, question)),
	}
}

func (p *PromptAssembler) faqSection(question string) string {
	if p.faq == nil {
		return ""
	}
	match := p.faq.Match(question)
	if match.Empty() {
		return ""
	}

	header := faqMatchedHeader
	if match.FullList {
		header = faqFullListHeader
	}
	blocks := make([]string, 0, len(match.Entries)+1)
	blocks = append(blocks, header)
	for _, e := range match.Entries {
		blocks = append(blocks, "Q: "+e.Question+"\nA: "+e.Answer)
	}
	return strings.Join(blocks, sectionSeparator)
}

// ToolContext renders tool results as a context block, one section per result
func ToolContext(results []domain.ToolResult) string {
	blocks := make([]string, 0, len(results))
	for _, r := range results {
		blocks = append(blocks, toolResultHeader+r.Name+"]\n"+r.Content)
	}
	return strings.Join(blocks, sectionSeparator)
}
