// Package settings describes the settings screen: the theme selector, the
// notification switch and the outbound links.
package settings

// ThemeMode is persisted as its integer value.
type ThemeMode int

const (
	ThemeSystem ThemeMode = iota
	ThemeLight
	ThemeDark
)

var themeNames = []string{"system", "light", "dark"}

// ThemeFromInt maps a stored value to a mode. Unknown values fall back to system.
func ThemeFromInt(v int) ThemeMode {
	if v < int(ThemeSystem) || v > int(ThemeDark) {
		return ThemeSystem
	}
	return ThemeMode(v)
}

func (m ThemeMode) String() string {
	return themeNames[ThemeFromInt(int(m))]
}

// Next cycles system -> light -> dark -> system.
func (m ThemeMode) Next() ThemeMode {
	return ThemeFromInt((int(ThemeFromInt(int(m))) + 1) % len(themeNames))
}

type ItemKind int

const (
	ItemTheme ItemKind = iota
	ItemNotification
	ItemRateApp
	ItemPrivacyPolicy
	ItemTermsOfUse
)

type Item struct {
	Title string
	Kind  ItemKind
}

type Section struct {
	Title string
	Items []Item
}

// Links are the URLs opened by the link items.
type Links struct {
	RateApp       string
	PrivacyPolicy string
	TermsOfUse    string
}

// URL returns the link bound to kind, or "" for items that are not links.
func (l Links) URL(kind ItemKind) string {
	switch kind {
	case ItemRateApp:
		return l.RateApp
	case ItemPrivacyPolicy:
		return l.PrivacyPolicy
	case ItemTermsOfUse:
		return l.TermsOfUse
	}
	return ""
}

func (k ItemKind) IsLink() bool {
	return k == ItemRateApp || k == ItemPrivacyPolicy || k == ItemTermsOfUse
}

func Sections() []Section {
	return []Section{
		{Title: "App theme", Items: []Item{{Title: "App theme", Kind: ItemTheme}}},
		{Title: "Notifications", Items: []Item{{Title: "Notifications", Kind: ItemNotification}}},
		{Title: "Rate us", Items: []Item{{Title: "Rate us", Kind: ItemRateApp}}},
		{Title: "Legal", Items: []Item{
			{Title: "Privacy policy", Kind: ItemPrivacyPolicy},
			{Title: "Terms of use", Kind: ItemTermsOfUse},
		}},
	}
}

// Items flattens Sections in display order.
func Items() []Item {
	var out []Item
	for _, s := range Sections() {
		out = append(out, s.Items...)
	}
	return out
}
