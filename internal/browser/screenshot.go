package browser

import "strings"

// ScreenshotName is the file name a failing test's screenshot is written to
func ScreenshotName(testName string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, testName)
	return "screenshot_fail_" + sanitized + ".png"
}
