package domain

import "testing"

func TestParseClassification(t *testing.T) {
	tests := []struct {
		raw      string
		decision Decision
		ok       bool
	}{
		{"RETRIEVAL", DecisionNeedsRetrieval, true},
		{"DIRECT", DecisionDirectAnswer, true},
		{"  direct\n", DecisionDirectAnswer, true},
		{"\"RETRIEVAL\".", DecisionNeedsRetrieval, true},
		{"[DIRECT]", DecisionDirectAnswer, true},
		{"", DecisionNeedsRetrieval, false},
		{"I think this needs a search", DecisionNeedsRetrieval, false},
		{"NONE", DecisionNeedsRetrieval, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			decision, ok := ParseClassification(tt.raw)
			if decision != tt.decision {
				t.Errorf("decision = %s, want %s", decision, tt.decision)
			}
			if ok != tt.ok {
				t.Errorf("ok = %v, want %v", ok, tt.ok)
			}
		})
	}
}

func TestDecision_String(t *testing.T) {
	if DecisionDirectAnswer.String() != "direct_answer" {
		t.Errorf("unexpected %s", DecisionDirectAnswer)
	}
	if DecisionNeedsTool.String() != "needs_tool" {
		t.Errorf("unexpected %s", DecisionNeedsTool)
	}
	var zero Decision
	if zero != DecisionNeedsRetrieval {
		t.Error("zero decision should be needs retrieval")
	}
}

func TestDecision_LabelRoundTrip(t *testing.T) {
	for _, d := range []Decision{DecisionNeedsRetrieval, DecisionDirectAnswer} {
		got, ok := ParseClassification(d.Label())
		if !ok || got != d {
			t.Errorf("ParseClassification(%q) = %s, %v", d.Label(), got, ok)
		}
	}
	if DecisionNeedsTool.Label() != LabelRetrieval {
		t.Errorf("needs_tool label = %s", DecisionNeedsTool.Label())
	}
}
