package toolcall

import (
	"testing"
)

func TestParseToolCalls(t *testing.T) {
	t.Run("single call with params", func(t *testing.T) {
		text := "I'll read that file.\n<read_file><path>main.go</path><offset>10</offset></read_file>"
		calls := ParseToolCalls(text)
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		if calls[0].ID != "call_1" {
			t.Errorf("expected id call_1, got %q", calls[0].ID)
		}
		if calls[0].Function.Name != "read_file" {
			t.Errorf("expected name read_file, got %q", calls[0].Function.Name)
		}
		if got := calls[0].Function.Arguments["path"]; got != "main.go" {
			t.Errorf("expected path main.go, got %v", got)
		}
		// Numeric literal coerced.
		if got := calls[0].Function.Arguments["offset"]; got != float64(10) {
			t.Errorf("expected offset 10, got %v (%T)", got, got)
		}
	})

	t.Run("multiple calls get incrementing ids", func(t *testing.T) {
		text := "<glob><pattern>*.go</pattern></glob>\n<glob><pattern>*.md</pattern></glob>"
		calls := ParseToolCalls(text)
		if len(calls) != 2 {
			t.Fatalf("expected 2 calls, got %d", len(calls))
		}
		if calls[0].ID != "call_1" || calls[1].ID != "call_2" {
			t.Errorf("expected call_1/call_2, got %q/%q", calls[0].ID, calls[1].ID)
		}
	})

	t.Run("multiline value kept raw", func(t *testing.T) {
		text := "<write_file><path>a.txt</path><content>line one\nline two</content></write_file>"
		calls := ParseToolCalls(text)
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		if got := calls[0].Function.Arguments["content"]; got != "line one\nline two" {
			t.Errorf("unexpected content: %q", got)
		}
	})

	t.Run("boolean and object literals coerced", func(t *testing.T) {
		text := `<edit_file><replace_all>true</replace_all><meta>{"k":1}</meta></edit_file>`
		calls := ParseToolCalls(text)
		if len(calls) != 1 {
			t.Fatalf("expected 1 call, got %d", len(calls))
		}
		if got := calls[0].Function.Arguments["replace_all"]; got != true {
			t.Errorf("expected true, got %v", got)
		}
		m, ok := calls[0].Function.Arguments["meta"].(map[string]any)
		if !ok || m["k"] != float64(1) {
			t.Errorf("expected parsed object, got %v", calls[0].Function.Arguments["meta"])
		}
	})

	t.Run("unterminated tag ignored", func(t *testing.T) {
		if calls := ParseToolCalls("<read_file><path>x"); calls != nil {
			t.Errorf("expected no calls, got %v", calls)
		}
	})

	t.Run("no tags", func(t *testing.T) {
		if calls := ParseToolCalls("just prose, no tools here"); calls != nil {
			t.Errorf("expected no calls, got %v", calls)
		}
	})
}

func TestHasToolCalls(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"complete block", "<shell><command>ls</command></shell>", true},
		{"prose only", "nothing to see", false},
		{"open tag only", "<shell><command>ls", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasToolCalls(tt.text); got != tt.want {
				t.Errorf("HasToolCalls(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRemoveToolCalls(t *testing.T) {
	t.Run("strips block keeps prose", func(t *testing.T) {
		text := "Let me check.\n<read_file><path>a.go</path></read_file>\nDone."
		got := RemoveToolCalls(text)
		if got != "Let me check.\n\nDone." {
			t.Errorf("unexpected remainder: %q", got)
		}
	})

	t.Run("text without blocks unchanged", func(t *testing.T) {
		text := "  plain text  "
		if got := RemoveToolCalls(text); got != text {
			t.Errorf("expected unchanged text, got %q", got)
		}
	})
}
