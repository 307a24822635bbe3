package agentcore

import (
	"fmt"
	"strings"
)

// EditMode selects the editing strategy for one edit_file invocation.
type EditMode string

const (
	EditInsert      EditMode = "insert"
	EditReplace     EditMode = "replace"
	EditDelete      EditMode = "delete"
	EditMove        EditMode = "move"
	EditFindReplace EditMode = "find_replace"
)

// EditArgs are the validated arguments of one edit_file invocation. Line
// numbers are 1-indexed. EndLine defaults to LineNumber for range modes.
type EditArgs struct {
	Path       string
	Mode       EditMode
	LineNumber int
	EndLine    int
	Content    string
	TargetLine int
	OldText    string
	NewText    string
	ReplaceAll bool
}

// excerptContext is the number of unchanged lines shown on each side of the
// affected range in the post-edit excerpt.
const excerptContext = 4

// ParseEditArgs validates the raw argument map for edit_file. All argument
// validation happens here, before any file is touched.
func ParseEditArgs(args map[string]any) (EditArgs, error) {
	var out EditArgs

	path, ok := getString(args, "path")
	if !ok || path == "" {
		return out, validationErr("path is required")
	}
	out.Path = path

	modeStr, ok := getString(args, "mode")
	if !ok {
		return out, validationErr("mode is required")
	}
	out.Mode = EditMode(modeStr)

	switch out.Mode {
	case EditInsert, EditReplace, EditDelete, EditMove:
		n, ok := getInt(args, "line_number")
		if !ok {
			return out, validationErr("line_number is required and must be an integer for mode %s", out.Mode)
		}
		if n < 1 {
			return out, validationErr("line_number must be >= 1, got %d", n)
		}
		out.LineNumber = n

		out.EndLine = n
		if _, present := args["end_line"]; present {
			e, ok := getInt(args, "end_line")
			if !ok {
				return out, validationErr("end_line must be an integer")
			}
			if e < n {
				return out, validationErr("end_line (%d) must be >= line_number (%d)", e, n)
			}
			out.EndLine = e
		}
	case EditFindReplace:
		// Addressed by text, not by line.
	default:
		return out, validationErr("invalid mode %q: must be one of insert, replace, delete, move, find_replace", modeStr)
	}

	switch out.Mode {
	case EditInsert, EditReplace:
		content, ok := getString(args, "content")
		if !ok {
			return out, validationErr("content is required for mode %s", out.Mode)
		}
		out.Content = content
	case EditMove:
		t, ok := getInt(args, "target_line")
		if !ok {
			return out, validationErr("target_line is required and must be an integer for mode move")
		}
		if t < 1 {
			return out, validationErr("target_line must be >= 1, got %d", t)
		}
		out.TargetLine = t
	case EditFindReplace:
		oldText, ok := getString(args, "old_text")
		if !ok || oldText == "" {
			return out, validationErr("old_text is required for mode find_replace")
		}
		out.OldText = oldText
		out.NewText, _ = getString(args, "new_text")
		out.ReplaceAll, _ = getBool(args, "replace_all")
	}

	return out, nil
}

// EditOutcome is the in-memory result of applying an edit. AffectedStart and
// AffectedCount describe the changed range under the NEW content, already
// compensated for insertion and deletion shifts.
type EditOutcome struct {
	Content       string
	Summary       string
	AffectedStart int
	AffectedCount int
	NoChange      bool
}

// ApplyEdit transforms content according to args without touching any file.
// Validation is complete before the first mutation; an error means content
// was not transformed at all.
func ApplyEdit(content string, args EditArgs) (EditOutcome, error) {
	if args.Mode == EditFindReplace {
		return applyFindReplace(content, args)
	}

	lines := splitLines(content)
	newLines, start, count, summary, err := applyLineEdit(lines, args)
	if err != nil {
		return EditOutcome{}, err
	}
	return EditOutcome{
		Content:       strings.Join(newLines, "\n"),
		Summary:       summary,
		AffectedStart: start,
		AffectedCount: count,
	}, nil
}

// splitLines splits file content for 1-indexed line addressing. A trailing
// newline yields a final empty line, matching how editors display the file.
func splitLines(content string) []string {
	return strings.Split(content, "\n")
}

func applyLineEdit(lines []string, args EditArgs) (newLines []string, start, count int, summary string, err error) {
	total := len(lines)
	l, e := args.LineNumber, args.EndLine

	switch args.Mode {
	case EditInsert:
		// line_number may be total+1 to append at end of file.
		if l > total+1 {
			return nil, 0, 0, "", validationErr("line_number %d is out of range: file has %d lines", l, total)
		}
		inserted := splitLines(args.Content)
		newLines = spliceLines(lines, l-1, 0, inserted)
		summary = fmt.Sprintf("Inserted %d line(s) at line %d", len(inserted), l)
		return newLines, l, len(inserted), summary, nil

	case EditReplace:
		if err := checkRange(l, e, total); err != nil {
			return nil, 0, 0, "", err
		}
		replacement := splitLines(args.Content)
		newLines = spliceLines(lines, l-1, e-l+1, replacement)
		summary = fmt.Sprintf("Replaced lines %d-%d with %d line(s)", l, e, len(replacement))
		return newLines, l, len(replacement), summary, nil

	case EditDelete:
		if err := checkRange(l, e, total); err != nil {
			return nil, 0, 0, "", err
		}
		newLines = spliceLines(lines, l-1, e-l+1, nil)
		summary = fmt.Sprintf("Deleted lines %d-%d", l, e)
		return newLines, l, 0, summary, nil

	case EditMove:
		if err := checkRange(l, e, total); err != nil {
			return nil, 0, 0, "", err
		}
		if args.TargetLine > total+1 {
			return nil, 0, 0, "", validationErr("target_line %d is out of range: file has %d lines", args.TargetLine, total)
		}
		block := append([]string(nil), lines[l-1:e]...)
		remaining := spliceLines(lines, l-1, e-l+1, nil)
		target := args.TargetLine
		// Removal shifted everything after the block up; compensate when the
		// destination sits below the extracted range. A destination inside the
		// block itself collapses to the block's own position.
		if target > l {
			target -= len(block)
			if target < l {
				target = l
			}
		}
		if target > len(remaining)+1 {
			target = len(remaining) + 1
		}
		newLines = spliceLines(remaining, target-1, 0, block)
		summary = fmt.Sprintf("Moved lines %d-%d to line %d", l, e, args.TargetLine)
		return newLines, target, len(block), summary, nil
	}

	return nil, 0, 0, "", validationErr("unsupported edit mode %q", args.Mode)
}

func checkRange(l, e, total int) error {
	if l > total {
		return validationErr("line_number %d is out of range: file has %d lines", l, total)
	}
	if e > total {
		return validationErr("end_line %d is out of range: file has %d lines", e, total)
	}
	return nil
}

// spliceLines removes deleteCount lines at index start and inserts the given
// lines in their place.
func spliceLines(lines []string, start, deleteCount int, insert []string) []string {
	out := make([]string, 0, len(lines)-deleteCount+len(insert))
	out = append(out, lines[:start]...)
	out = append(out, insert...)
	out = append(out, lines[start+deleteCount:]...)
	return out
}

func applyFindReplace(content string, args EditArgs) (EditOutcome, error) {
	if !strings.Contains(content, args.OldText) {
		return EditOutcome{}, notFoundErr("old_text not found in %s", args.Path)
	}

	var newContent string
	var replaced int
	if args.ReplaceAll {
		replaced = strings.Count(content, args.OldText)
		newContent = strings.ReplaceAll(content, args.OldText, args.NewText)
	} else {
		replaced = 1
		newContent = strings.Replace(content, args.OldText, args.NewText, 1)
	}

	if newContent == content {
		return EditOutcome{
			Content:  content,
			Summary:  "No changes made: replacement text is identical to the original",
			NoChange: true,
		}, nil
	}

	// Affected range under the new content: from the line holding the first
	// occurrence through the end of the last replacement. The last
	// replacement's position is derived from the original occurrence plus the
	// cumulative length shift of the replacements before it, so a natural
	// occurrence of new_text elsewhere cannot skew the range.
	firstIdx := strings.Index(content, args.OldText)
	start := strings.Count(content[:firstIdx], "\n") + 1
	count := strings.Count(args.NewText, "\n") + 1
	if args.ReplaceAll && replaced > 1 {
		lastOld := strings.LastIndex(content, args.OldText)
		delta := len(args.NewText) - len(args.OldText)
		lastNew := lastOld + (replaced-1)*delta
		end := strings.Count(newContent[:lastNew], "\n") + strings.Count(args.NewText, "\n") + 1
		count = end - start + 1
	}

	return EditOutcome{
		Content:       newContent,
		Summary:       fmt.Sprintf("Replaced %d occurrence(s) of old_text", replaced),
		AffectedStart: start,
		AffectedCount: count,
	}, nil
}

// EditFile applies args.Path's edit as one read-modify-write unit: the whole
// file is read, transformed in memory, and written back. There is no
// cross-process lock; concurrent external modification during the window is
// a known race, not handled here.
func EditFile(env ExecutionEnvironment, args EditArgs) (string, error) {
	if !env.FileExists(args.Path) {
		return "", notFoundErr("file not found: %s", args.Path)
	}
	content, err := env.ReadFile(args.Path)
	if err != nil {
		return "", executionErr(err, "failed to read %s", args.Path)
	}

	outcome, err := ApplyEdit(content, args)
	if err != nil {
		return "", err
	}
	if outcome.NoChange {
		return outcome.Summary, nil
	}

	if err := env.WriteFile(args.Path, outcome.Content); err != nil {
		return "", executionErr(err, "failed to write %s", args.Path)
	}

	excerpt := contextExcerpt(outcome.Content, outcome.AffectedStart, outcome.AffectedCount)
	return fmt.Sprintf("%s in %s\n\n%s", outcome.Summary, args.Path, excerpt), nil
}

// contextExcerpt returns a line-numbered window around the affected range of
// the new content, so a caller can verify the edit without rereading the
// whole file.
func contextExcerpt(content string, affectedStart, affectedCount int) string {
	lines := splitLines(content)
	if len(lines) == 0 {
		return ""
	}

	from := affectedStart - excerptContext
	if from < 1 {
		from = 1
	}
	to := affectedStart + affectedCount - 1 + excerptContext
	if affectedCount == 0 {
		to = affectedStart + excerptContext
	}
	if to > len(lines) {
		to = len(lines)
	}
	if from > len(lines) {
		from = len(lines)
	}

	var sb strings.Builder
	for i := from; i <= to; i++ {
		fmt.Fprintf(&sb, "%4d | %s\n", i, lines[i-1])
	}
	return strings.TrimRight(sb.String(), "\n")
}
