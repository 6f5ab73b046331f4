package browsertest

import (
	"path/filepath"
	"testing"

	"github.com/cloudshop/uisuite/internal/browser"
)

// CaptureOnFailure saves a screenshot of page into dir when t has failed by the end of the test
func CaptureOnFailure(t testing.TB, page browser.Page, dir string) {
	t.Helper()
	t.Cleanup(func() {
		if !t.Failed() {
			return
		}
		path := filepath.Join(dir, browser.ScreenshotName(t.Name()))
		if err := page.Screenshot(path); err != nil {
			t.Logf("Failed to capture screenshot: %v", err)
			return
		}
		t.Logf("Screenshot saved to %s", path)
	})
}
