package domain

// ActionNavigate marks a tool result that sends the user to a frontend page
const ActionNavigate = "navigate"

// ToolSpec describes a callable tool to the language model
type ToolSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON schema object
}

// ToolCall is a tool invocation requested by the language model during routing.
// RawArguments keeps the model's argument text; Arguments is nil when it did not parse.
type ToolCall struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Arguments    map[string]any `json:"arguments"`
	RawArguments string         `json:"-"`
}

// Malformed reports whether the model produced arguments that could not be decoded
func (c ToolCall) Malformed() bool {
	return c.Arguments == nil && c.RawArguments != ""
}

// Navigation is an instruction for the client to open a frontend page
type Navigation struct {
	Action       string `json:"action"`
	TargetURL    string `json:"target_url"`
	GuideMessage string `json:"guide_msg"`
}

// ToolResult is the outcome of one tool invocation.
// A result carries either a data payload (Content) or a Navigation, never both.
type ToolResult struct {
	CallID     string      `json:"call_id"`
	Name       string      `json:"name"`
	Content    string      `json:"content,omitempty"`
	Navigation *Navigation `json:"navigation,omitempty"`
	IsError    bool        `json:"is_error,omitempty"`
}

// IsNavigation reports whether the result is a navigation instruction
func (r ToolResult) IsNavigation() bool {
	return r.Navigation != nil
}

// NewDataResult creates a data payload result
func NewDataResult(content string) *ToolResult {
	return &ToolResult{Content: content}
}

// NewNavigationResult creates a navigation result
func NewNavigationResult(targetURL, guide string) *ToolResult {
	return &ToolResult{
		Navigation: &Navigation{
			Action:       ActionNavigate,
			TargetURL:    targetURL,
			GuideMessage: guide,
		},
	}
}
