package platform

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

var ErrNoNotifier = errors.New("no desktop notifier available")

// ValidateArticleURL accepts absolute http(s) URLs only.
func ValidateArticleURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("article has no URL")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid URL format")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("invalid URL host")
	}
	return trimmed, nil
}

func browserCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

func OpenURLInBrowser(url string) error {
	name, args := browserCommand(runtime.GOOS, url)
	return exec.Command(name, args...).Run()
}

var clipboardCommands = [][]string{
	{"pbcopy"},
	{"xclip", "-selection", "clipboard"},
	{"wl-copy"},
}

func selectClipboardCommand(lookPath func(string) (string, error)) ([]string, error) {
	for _, c := range clipboardCommands {
		if _, err := lookPath(c[0]); err == nil {
			return c, nil
		}
	}
	return nil, fmt.Errorf("no clipboard command available")
}

// CopyToClipboard is the share action: the link is placed on the clipboard.
func CopyToClipboard(text string) error {
	c, err := selectClipboardCommand(exec.LookPath)
	if err != nil {
		return err
	}
	cmd := exec.Command(c[0], c[1:]...)
	cmd.Stdin = bytes.NewBufferString(text)
	return cmd.Run()
}

func notifierCommand(goos string, lookPath func(string) (string, error), title, body string) ([]string, error) {
	var c []string
	switch goos {
	case "darwin":
		c = []string{"osascript", "-e", fmt.Sprintf("display notification %q with title %q", body, title)}
	case "windows":
		return nil, ErrNoNotifier
	default:
		c = []string{"notify-send", title, body}
	}
	if _, err := lookPath(c[0]); err != nil {
		return nil, ErrNoNotifier
	}
	return c, nil
}

// RequestNotificationAuthorization reports whether desktop notifications can
// be delivered. Terminals have no permission prompt, so this checks for a
// notifier binary.
func RequestNotificationAuthorization() (bool, error) {
	_, err := notifierCommand(runtime.GOOS, exec.LookPath, "", "")
	if errors.Is(err, ErrNoNotifier) {
		return false, nil
	}
	return err == nil, err
}

func Notify(title, body string) error {
	c, err := notifierCommand(runtime.GOOS, exec.LookPath, title, body)
	if err != nil {
		return err
	}
	return exec.Command(c[0], c[1:]...).Run()
}
