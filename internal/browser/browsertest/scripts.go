package browsertest

import (
	"strings"

	"github.com/cloudshop/uisuite/internal/browser"
)

var builtinScripts = map[string]ScriptFunc{
	browser.ClickButtonByText.Name:     clickButtonByText,
	browser.VisibleCandidates.Name:     visibleCandidates,
	browser.PageContainsText.Name:      pageContainsText,
	browser.ScrollContainerBottom.Name: scrollContainerBottom,
}

func argString(arg any, key string) string {
	args, ok := arg.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := args[key].(string)
	return s
}

// scriptRoleMatches widens button to links, as the CSS for buttons includes a.button
func scriptRoleMatches(have browser.Role, want browser.Role) bool {
	if want == browser.RoleAny {
		switch have {
		case browser.RoleButton, browser.RoleLink, browser.RoleCheckbox, browser.RoleOption:
			return true
		}
		return false
	}
	if want == browser.RoleButton && have == browser.RoleLink {
		return true
	}
	return roleMatches(have, want)
}

func clickButtonByText(d *DOM, arg any) (any, error) {
	role := browser.Role(argString(arg, "role"))
	text := argString(arg, "text")

	var target *Element
	d.walk(func(e *Element) {
		if target == nil && scriptRoleMatches(e.Role, role) && visible(e) && containsFold(textContent(e), text) {
			target = e
		}
	})
	if target == nil {
		return false, nil
	}
	if err := d.click(target); err != nil {
		return false, nil
	}
	return true, nil
}

func visibleCandidates(d *DOM, arg any) (any, error) {
	role := browser.Role(argString(arg, "role"))

	found := []any{}
	d.walk(func(e *Element) {
		if scriptRoleMatches(e.Role, role) && visible(e) {
			found = append(found, map[string]any{
				"tag":  tagOf(e.Role),
				"text": strings.TrimSpace(textContent(e)),
			})
		}
	})
	return found, nil
}

func pageContainsText(d *DOM, arg any) (any, error) {
	text := argString(arg, "text")
	if text == "" {
		return false, nil
	}
	found := false
	d.walk(func(e *Element) {
		if !found && visible(e) && strings.Contains(textContent(e), text) {
			found = true
		}
	})
	return found, nil
}

func scrollContainerBottom(d *DOM, arg any) (any, error) {
	found := false
	d.walk(func(e *Element) {
		if !found && e.Role == browser.RoleModal {
			found = true
			d.record(ActionScroll, e, "bottom")
		}
	})
	return found, nil
}

func tagOf(role browser.Role) string {
	switch {
	case role == browser.RoleButton:
		return "button"
	case role == browser.RoleLink:
		return "a"
	case role == browser.RoleTextArea:
		return "textarea"
	case role == browser.RoleRow:
		return "tr"
	case role.IsInput():
		return "input"
	default:
		return "div"
	}
}
