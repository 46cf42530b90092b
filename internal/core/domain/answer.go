package domain

// Outcome labels which branch of the pipeline produced an answer
type Outcome string

const (
	OutcomeDirect         Outcome = "direct"
	OutcomeRetrieval      Outcome = "retrieval"
	OutcomeTool           Outcome = "tool"
	OutcomeNavigate       Outcome = "navigate"
	OutcomeNoContext      Outcome = "no_context"
	OutcomeTechnicalError Outcome = "technical_error"
)

// Answer is the final response for one question
type Answer struct {
	Answer       string        `json:"answer"`
	Attribution  []Attribution `json:"attribution"`
	Action       string        `json:"action,omitempty"`
	TargetURL    string        `json:"target_url,omitempty"`
	GuideMessage string        `json:"guide_message,omitempty"`
	Outcome      Outcome       `json:"outcome"`
}

// NewAnswer creates a text answer with the given attribution
func NewAnswer(text string, outcome Outcome, attribution []Attribution) *Answer {
	if attribution == nil {
		attribution = []Attribution{}
	}
	return &Answer{
		Answer:      text,
		Attribution: attribution,
		Outcome:     outcome,
	}
}

// NewNavigateAnswer creates an answer that instructs the client to navigate
func NewNavigateAnswer(text string, nav Navigation) *Answer {
	return &Answer{
		Answer:       text,
		Attribution:  []Attribution{},
		Action:       ActionNavigate,
		TargetURL:    nav.TargetURL,
		GuideMessage: nav.GuideMessage,
		Outcome:      OutcomeNavigate,
	}
}
