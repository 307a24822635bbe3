package toolcall

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// openTagRe matches an opening fallback tag at any position. Tag names follow
// tool naming rules: lowercase identifier with underscores.
var openTagRe = regexp.MustCompile(`<([a-z_][a-z0-9_]*)>`)

// ParseToolCalls extracts tool invocations written in the textual fallback
// syntax:
//
//	<tool_name><param>value</param>...</tool_name>
//
// Models with native tool calling bypass this entirely. Each extracted call
// gets a synthesized incrementing ID ("call_1", "call_2", ...), unique only
// within this parse.
//
// Matching pairs an open tag with the next identical close tag and is not
// nesting-aware: a tool or parameter name repeated inside its own block
// breaks extraction. Known limitation, kept deliberately.
func ParseToolCalls(text string) []ToolCall {
	var calls []ToolCall
	seq := 0
	for _, block := range findTagBlocks(text) {
		seq++
		calls = append(calls, ToolCall{
			ID: fmt.Sprintf("call_%d", seq),
			Function: FunctionCall{
				Name:      block.name,
				Arguments: parseParams(block.body),
			},
		})
	}
	return calls
}

// HasToolCalls is a fast pre-check for whether text contains at least one
// complete fallback tag block.
func HasToolCalls(text string) bool {
	return len(findTagBlocks(text)) > 0
}

// RemoveToolCalls strips matched tag blocks from text, leaving surrounding
// prose intact for display.
func RemoveToolCalls(text string) string {
	blocks := findTagBlocks(text)
	if len(blocks) == 0 {
		return text
	}
	var sb strings.Builder
	pos := 0
	for _, b := range blocks {
		sb.WriteString(text[pos:b.start])
		pos = b.end
	}
	sb.WriteString(text[pos:])
	return strings.TrimSpace(sb.String())
}

type tagBlock struct {
	name  string
	body  string
	start int // offset of the opening '<'
	end   int // offset just past the closing tag
}

// findTagBlocks scans text for <name>...</name> blocks. RE2 has no
// backreferences, so the close tag is located by substring search after each
// regex-matched open tag.
func findTagBlocks(text string) []tagBlock {
	var blocks []tagBlock
	offset := 0
	for {
		loc := openTagRe.FindStringSubmatchIndex(text[offset:])
		if loc == nil {
			break
		}
		name := text[offset+loc[2] : offset+loc[3]]
		bodyStart := offset + loc[1]
		closeTag := "</" + name + ">"
		rel := strings.Index(text[bodyStart:], closeTag)
		if rel < 0 {
			// Unterminated tag; skip past the open tag and keep scanning.
			offset += loc[1]
			continue
		}
		blocks = append(blocks, tagBlock{
			name:  name,
			body:  text[bodyStart : bodyStart+rel],
			start: offset + loc[0],
			end:   bodyStart + rel + len(closeTag),
		})
		offset = bodyStart + rel + len(closeTag)
	}
	return blocks
}

// parseParams extracts nested <param>value</param> pairs from a block body.
// Each value is attempted as a JSON literal (number, bool, object, array,
// quoted string); anything that does not parse stays raw text.
func parseParams(body string) map[string]any {
	args := make(map[string]any)
	for _, p := range findTagBlocks(body) {
		args[p.name] = coerceValue(p.body)
	}
	return args
}

func coerceValue(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err == nil {
		return v
	}
	return trimmed
}
