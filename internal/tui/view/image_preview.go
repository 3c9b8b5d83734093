package view

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const imagePreviewRows = 18

// RenderImagePreview draws image data as terminal graphics through chafa.
// Kitty graphics are used when the terminal supports them.
func RenderImagePreview(data []byte, width int) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	if width < 30 {
		width = 40
	}

	chafaPath, err := exec.LookPath("chafa")
	if err != nil {
		return "", fmt.Errorf("chafa is not installed")
	}

	kitty := SupportsKittyGraphics()
	cmd := exec.Command(chafaPath, chafaArgs(width, kitty)...)
	cmd.Stdin = bytes.NewReader(data)
	output, err := cmd.CombinedOutput()
	raw := string(output)
	trimmed := strings.TrimSpace(raw)

	if err != nil {
		return "", fmt.Errorf("render image via chafa: %w: %s", err, trimmed)
	}
	if kitty && ContainsKittyGraphicsEscape(raw) {
		return strings.TrimRight(raw, "\r\n"), nil
	}
	if trimmed == "" {
		return "", fmt.Errorf("empty output")
	}
	return trimmed, nil
}

func chafaArgs(width int, kitty bool) []string {
	size := fmt.Sprintf("%dx%d", width, imagePreviewRows)
	args := []string{"--size", size, "--view-size", size, "--align", "top,center"}
	if kitty {
		args = append(args, "--format", "kitty", "--passthrough", KittyPassthroughMode(), "--relative", "on")
	} else {
		args = append(args, "--format", "symbols")
	}
	return append(args, "-")
}

func SupportsKittyGraphics() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	termProgram := strings.ToLower(strings.TrimSpace(os.Getenv("TERM_PROGRAM")))
	if strings.Contains(termProgram, "ghostty") || strings.Contains(termProgram, "kitty") {
		return true
	}
	term := strings.ToLower(strings.TrimSpace(os.Getenv("TERM")))
	return strings.Contains(term, "xterm-kitty") || strings.Contains(term, "ghostty")
}

func ContainsKittyGraphicsEscape(s string) bool {
	return strings.Contains(s, "\x1b_G")
}

// ClearKittyGraphicsSequence deletes every placed image, wrapped for tmux
// passthrough when needed.
func ClearKittyGraphicsSequence() string {
	base := "\x1b_Ga=d,d=A\x1b\\"
	if os.Getenv("TMUX") == "" {
		return base
	}
	escaped := strings.ReplaceAll(base, "\x1b", "\x1b\x1b")
	return "\x1bPtmux;\x1b" + escaped + "\x1b\\"
}

func KittyPassthroughMode() string {
	if os.Getenv("TMUX") != "" {
		return "screen"
	}
	return "none"
}
