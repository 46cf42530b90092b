package domain

import "testing"

func TestToolCall_Malformed(t *testing.T) {
	tests := []struct {
		name string
		call ToolCall
		want bool
	}{
		{"parsed", ToolCall{Name: "x", Arguments: map[string]any{"a": "b"}, RawArguments: `{"a":"b"}`}, false},
		{"no arguments", ToolCall{Name: "x"}, false},
		{"unparseable", ToolCall{Name: "x", RawArguments: `{"a":`}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.call.Malformed(); got != tt.want {
				t.Errorf("Malformed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestToolResult_Kinds(t *testing.T) {
	data := NewDataResult(`{"results":[]}`)
	if data.IsNavigation() {
		t.Error("data result should not be navigation")
	}

	nav := NewNavigationResult("https://assets.example.edu/prediction", "Opening the prediction page.")
	if !nav.IsNavigation() {
		t.Fatal("expected navigation result")
	}
	if nav.Navigation.Action != ActionNavigate {
		t.Errorf("expected action %s, got %s", ActionNavigate, nav.Navigation.Action)
	}
	if nav.Content != "" {
		t.Error("navigation result should not carry a data payload")
	}
}
