package domain

import "strings"

// Decision is the branch the orchestrator takes for a question
type Decision int

const (
	// DecisionNeedsRetrieval searches the knowledge base. It is the zero value.
	DecisionNeedsRetrieval Decision = iota
	// DecisionDirectAnswer skips retrieval and answers with an empty context
	DecisionDirectAnswer
	// DecisionNeedsTool answers from tool results
	DecisionNeedsTool
)

func (d Decision) String() string {
	switch d {
	case DecisionDirectAnswer:
		return "direct_answer"
	case DecisionNeedsTool:
		return "needs_tool"
	default:
		return "needs_retrieval"
	}
}

// Classification labels the classifier model is asked to emit
const (
	LabelRetrieval = "RETRIEVAL"
	LabelDirect    = "DIRECT"
)

// ParseClassification maps raw classifier output to a decision.
// ok is false when the output matched neither label; the decision is then
// DecisionNeedsRetrieval.
func ParseClassification(raw string) (decision Decision, ok bool) {
	label := strings.ToUpper(strings.TrimSpace(raw))
	label = strings.Trim(label, "\"'`.[]")
	switch label {
	case LabelRetrieval:
		return DecisionNeedsRetrieval, true
	case LabelDirect:
		return DecisionDirectAnswer, true
	default:
		return DecisionNeedsRetrieval, false
	}
}

// Label returns the classifier label for d. DecisionNeedsTool has no label
// and maps to LabelRetrieval.
func (d Decision) Label() string {
	if d == DecisionDirectAnswer {
		return LabelDirect
	}
	return LabelRetrieval
}
