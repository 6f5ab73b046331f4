package browser

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed js/*.js
var scriptFS embed.FS

// Script is a named DOM snippet run when structured locators are not enough.
// Only scripts embedded in this package can be evaluated.
type Script struct {
	Name   string
	Source string
}

// Registered scripts
var (
	ClickButtonByText     = mustLoadScript("click_button_by_text")
	VisibleCandidates     = mustLoadScript("visible_candidates")
	PageContainsText      = mustLoadScript("page_contains_text")
	ScrollContainerBottom = mustLoadScript("scroll_container_bottom")
)

func mustLoadScript(name string) Script {
	source, err := scriptFS.ReadFile(path.Join("js", name+".js"))
	if err != nil {
		panic(fmt.Sprintf("script %s is not embedded: %v", name, err))
	}
	return Script{Name: name, Source: strings.TrimSpace(string(source))}
}

// Scripts lists every registered script by name
func Scripts() []Script {
	entries, err := scriptFS.ReadDir("js")
	if err != nil {
		return nil
	}
	scripts := make([]Script, 0, len(entries))
	for _, entry := range entries {
		scripts = append(scripts, mustLoadScript(strings.TrimSuffix(entry.Name(), ".js")))
	}
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Name < scripts[j].Name })
	return scripts
}

// QueryArgs turns q into the argument object the scripts expect
func QueryArgs(q Query) map[string]any {
	scope := ""
	if q.Within != nil {
		scope = q.Within.CSS()
	}
	return map[string]any{
		"scope":    scope,
		"selector": q.CSS(),
		"role":     string(q.Role),
		"text":     q.Text,
	}
}

// TextArgs is the argument object for PageContainsText
func TextArgs(text string) map[string]any {
	return map[string]any{
		"selector": "td, div, span",
		"text":     text,
	}
}

// EvalBool converts a script result to a bool
func EvalBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("script returned %T, want bool", v)
	}
	return b, nil
}

// EvalCandidates converts a script result to candidates
func EvalCandidates(v any) ([]Candidate, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode script result: %w", err)
	}
	var candidates []Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, fmt.Errorf("script result is not a candidate list: %w", err)
	}
	return candidates, nil
}
