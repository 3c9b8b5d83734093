package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	tuitheme "github.com/glabrego/headlines-cli/internal/tui/theme"
)

const appName = "headlines"

// Splash centers the app name and a greeting in a width x height box.
func Splash(username string, width, height int, th tuitheme.Theme) string {
	greeting := "Top stories from around the world"
	if name := strings.TrimSpace(username); name != "" {
		greeting = "Welcome back, " + name
	}
	body := lipgloss.JoinVertical(lipgloss.Center, th.Title.Render(appName), "", th.MetaValue.Render(greeting))
	return lipgloss.Place(max(width, 1), max(height, 1), lipgloss.Center, lipgloss.Center, body)
}

// Onboarding asks for a name. input is the rendered text field.
func Onboarding(input string, canContinue bool, th tuitheme.Theme) string {
	hint := th.MetaLabel.Render("enter a name to continue")
	if canContinue {
		hint = th.StateIdle.Render("press enter to start reading")
	}
	return strings.Join([]string{
		th.Title.Render("Welcome to " + appName),
		"",
		"What should we call you?",
		"",
		input,
		"",
		hint,
	}, "\n")
}
