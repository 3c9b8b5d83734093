package view

import (
	"regexp"
	"strings"
	"testing"

	"github.com/glabrego/headlines-cli/internal/settings"
	tuitheme "github.com/glabrego/headlines-cli/internal/tui/theme"
)

var ansiStrip = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiStrip.ReplaceAllString(s, "")
}

func testTheme() tuitheme.Theme {
	return tuitheme.ForMode(settings.ThemeDark, true)
}

func TestToolbar(t *testing.T) {
	if got := Toolbar(ScreenFeed, false); !strings.Contains(got, "/ search") {
		t.Fatalf("unexpected feed toolbar: %q", got)
	}
	if got := Toolbar(ScreenFeed, true); !strings.Contains(got, "esc: clear search") {
		t.Fatalf("unexpected search toolbar: %q", got)
	}
	if got := Toolbar(ScreenDetail, false); !strings.Contains(got, "s share") {
		t.Fatalf("unexpected detail toolbar: %q", got)
	}
	if got := Toolbar(ScreenSettings, false); !strings.Contains(got, "enter select") {
		t.Fatalf("unexpected settings toolbar: %q", got)
	}
}

func TestScreenString(t *testing.T) {
	if ScreenDetail.String() != "detail" || Screen(99).String() != "unknown" {
		t.Fatal("unexpected screen names")
	}
}

func TestFooter(t *testing.T) {
	got := stripANSI(Footer(FooterParams{Mode: "top", Page: 2, Shown: 40, Exhausted: true}, testTheme()))
	for _, want := range []string{"mode top", "page 2", "40 shown", "end of feed"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in footer, got %q", want, got)
		}
	}
	if strings.Contains(got, "search pending") {
		t.Fatalf("did not expect pending search marker: %q", got)
	}
	if got := stripANSI(Footer(FooterParams{Mode: "search:go", Page: 1, SearchPending: true}, testTheme())); !strings.Contains(got, "search pending") {
		t.Fatalf("expected pending search marker, got %q", got)
	}
}

func TestStatusLine(t *testing.T) {
	th := testTheme()
	if got := stripANSI(StatusLine(false, "", "", "", th)); got != "state: idle | Ready" {
		t.Fatalf("unexpected idle status: %q", got)
	}
	if got := stripANSI(StatusLine(true, "*", "", "", th)); !strings.HasPrefix(got, "* state: loading") {
		t.Fatalf("unexpected loading status: %q", got)
	}
	if got := stripANSI(StatusLine(false, "", "", "offline", th)); got != "state: warning | offline" {
		t.Fatalf("unexpected warning status: %q", got)
	}
	if got := stripANSI(StatusLine(false, "", "Saved", "", th)); !strings.HasSuffix(got, "| Saved") {
		t.Fatalf("unexpected status text: %q", got)
	}
}

func TestHeader(t *testing.T) {
	if got := stripANSI(Header("headlines", "top", testTheme())); !strings.Contains(got, "headlines") || !strings.Contains(got, "top") {
		t.Fatalf("unexpected header: %q", got)
	}
}
