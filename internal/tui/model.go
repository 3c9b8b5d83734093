package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glabrego/headlines-cli/internal/app"
	"github.com/glabrego/headlines-cli/internal/feed"
	"github.com/glabrego/headlines-cli/internal/newsapi"
	"github.com/glabrego/headlines-cli/internal/settings"
	"github.com/glabrego/headlines-cli/internal/tui/actions"
	"github.com/glabrego/headlines-cli/internal/tui/platform"
	"github.com/glabrego/headlines-cli/internal/tui/state"
	tuitheme "github.com/glabrego/headlines-cli/internal/tui/theme"
	"github.com/glabrego/headlines-cli/internal/tui/view"
)

const (
	appTitle           = "headlines"
	DefaultSplashDelay = 1500 * time.Millisecond
	statusTimeout      = 4 * time.Second
	chromeLines        = 6
)

type splashDoneMsg struct{}

type clearStatusMsg struct {
	id int
}

type Options struct {
	Service     actions.Service
	Feed        feed.Controller
	Images      actions.ImageLoader
	Links       settings.Links
	SystemDark  bool
	SplashDelay time.Duration
	Logger      *slog.Logger
	// Tick schedules the splash and status timers. Defaults to tea.Tick.
	Tick feed.TickFunc
}

type Model struct {
	service actions.Service
	feed    feed.Controller
	images  actions.ImageLoader
	links   settings.Links
	logger  *slog.Logger
	keys    KeyMap
	tick    feed.TickFunc

	screen view.Screen
	width  int
	height int

	theme      tuitheme.Theme
	themeMode  settings.ThemeMode
	systemDark bool

	username      string
	notifications bool
	prefsLoaded   bool
	splashDone    bool
	splashDelay   time.Duration

	cursor int
	end    state.EndTrigger

	search     textinput.Model
	searching  bool
	onboarding textinput.Model

	detail        viewport.Model
	detailArticle newsapi.Article
	kittyPlaced   bool

	spinner       spinner.Model
	spinnerActive bool

	settingsCursor int

	status   string
	warning  string
	statusID int

	openURLFn     func(string) error
	copyURLFn     func(string) error
	authorizeFn   func() (bool, error)
	notifyFn      func(title, body string) error
	renderImageFn func([]byte, int) (string, error)
	nowFn         func() time.Time

	imagePreview        map[string]string
	imagePreviewErr     map[string]string
	imagePreviewLoading map[string]bool
}

func NewModel(opts Options) Model {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search articles"
	search.CharLimit = 200

	onboarding := textinput.New()
	onboarding.Prompt = "> "
	onboarding.Placeholder = "Your name"
	onboarding.CharLimit = 40

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	tick := opts.Tick
	if tick == nil {
		tick = tea.Tick
	}
	delay := opts.SplashDelay
	if delay <= 0 {
		delay = DefaultSplashDelay
	}

	return Model{
		service:             opts.Service,
		feed:                opts.Feed,
		images:              opts.Images,
		links:               opts.Links,
		logger:              logger,
		keys:                DefaultKeyMap,
		tick:                tick,
		screen:              view.ScreenSplash,
		theme:               tuitheme.ForMode(settings.ThemeSystem, opts.SystemDark),
		themeMode:           settings.ThemeSystem,
		systemDark:          opts.SystemDark,
		prefsLoaded:         opts.Service == nil,
		splashDelay:         delay,
		end:                 state.NewEndTrigger(),
		search:              search,
		onboarding:          onboarding,
		detail:              viewport.New(100, 16),
		spinner:             spin,
		openURLFn:           platform.OpenURLInBrowser,
		copyURLFn:           platform.CopyToClipboard,
		authorizeFn:         platform.RequestNotificationAuthorization,
		notifyFn:            platform.Notify,
		renderImageFn:       view.RenderImagePreview,
		nowFn:               time.Now,
		imagePreview:        make(map[string]string),
		imagePreviewErr:     make(map[string]string),
		imagePreviewLoading: make(map[string]bool),
	}
}

// Init loads preferences and cached headlines while the splash is shown. The
// first network fetch starts once the cache has been read.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.tick(m.splashDelay, func(time.Time) tea.Msg { return splashDoneMsg{} })}
	if m.service != nil {
		cmds = append(cmds,
			actions.LoadPreferencesCmd(m.service),
			actions.LoadCachedCmd(m.service, m.feed.PageSize()),
		)
	} else {
		cmds = append(cmds, func() tea.Msg { return actions.CachedLoadedMsg{} })
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	feedCmd := m.feed.Update(msg)
	next, cmd := m.update(msg)
	cmd = tea.Batch(feedCmd, cmd)
	if next.feed.Loading() && !next.spinnerActive {
		next.spinnerActive = true
		cmd = tea.Batch(cmd, next.spinner.Tick)
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeDetail()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		if !m.feed.Loading() {
			m.spinnerActive = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case splashDoneMsg:
		m.splashDone = true
		return m.leaveSplash()
	case clearStatusMsg:
		if msg.id == m.statusID {
			m.status = ""
			m.warning = ""
		}
		return m, nil

	case actions.PreferencesLoadedMsg:
		m.applyPreferences(msg.Prefs)
		return m.leaveSplash()
	case actions.PreferencesLoadErrorMsg:
		m.prefsLoaded = true
		m.logger.Warn("load preferences failed", "err", msg.Err)
		warn := m.setWarning("Could not load preferences: " + msg.Err.Error())
		next, cmd := m.leaveSplash()
		return next, tea.Batch(warn, cmd)
	case actions.CachedLoadedMsg:
		m.feed.Seed(msg.Articles)
		m.logger.Debug("cached headlines loaded", "articles", len(msg.Articles), "duration", msg.Duration)
		return m, m.feed.FetchInitial()
	case actions.CachedLoadErrorMsg:
		m.logger.Warn("load cached headlines failed", "err", msg.Err)
		return m, m.feed.FetchInitial()

	case feed.DataChangedMsg:
		return m.dataChanged(msg)
	case feed.FetchFailedMsg:
		warning := "Could not load headlines: " + msg.Err.Error()
		if newsapi.IsRetryable(msg.Err) {
			warning += " (r to retry)"
		}
		return m, m.setWarning(warning)

	case actions.PreferenceSavedMsg:
		return m, m.setStatus(msg.Status)
	case actions.PreferenceSaveErrorMsg:
		m.logger.Warn("save preference failed", "err", msg.Err)
		return m, m.setWarning("Could not save setting: " + msg.Err.Error())
	case actions.NotificationAuthMsg:
		return m.notificationAuthorized(msg)
	case actions.OpenURLSuccessMsg:
		return m, m.setStatus(msg.Status)
	case actions.OpenURLErrorMsg:
		return m, m.setWarning(msg.Err.Error())

	case actions.ImagePreviewSuccessMsg:
		delete(m.imagePreviewLoading, msg.URL)
		delete(m.imagePreviewErr, msg.URL)
		m.imagePreview[msg.URL] = msg.Preview
		m.refreshDetail()
		return m, nil
	case actions.ImagePreviewErrorMsg:
		delete(m.imagePreviewLoading, msg.URL)
		m.imagePreviewErr[msg.URL] = msg.Err.Error()
		m.logger.Debug("image preview failed", "url", msg.URL, "err", msg.Err)
		m.refreshDetail()
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case m.searching:
		m.search, cmd = m.search.Update(msg)
	case m.screen == view.ScreenOnboarding:
		m.onboarding, cmd = m.onboarding.Update(msg)
	}
	return m, cmd
}

func (m Model) dataChanged(msg feed.DataChangedMsg) (Model, tea.Cmd) {
	if msg.Reset {
		m.cursor = 0
		m.end.Reset()
	}
	m.cursor = state.ClampCursor(m.cursor, msg.Total)

	var status string
	switch {
	case msg.Reset && msg.Mode.IsTop():
		status = fmt.Sprintf("Loaded %d headlines", msg.Total)
	case msg.Reset:
		status = fmt.Sprintf("%d results for %q", msg.Total, msg.Mode.Query())
	case msg.Added == 0:
		status = "No more articles"
	default:
		status = fmt.Sprintf("Loaded %d more (page %d)", msg.Added, msg.Page)
	}
	return m, m.setStatus(status)
}

func (m Model) notificationAuthorized(msg actions.NotificationAuthMsg) (Model, tea.Cmd) {
	if !msg.Granted {
		m.notifications = false
		if msg.Err != nil {
			m.logger.Warn("notification authorization failed", "err", msg.Err)
		}
		return m, m.setWarning("Notifications are not available on this system")
	}
	m.notifications = true
	return m, tea.Batch(
		m.save(func(s actions.Service) tea.Cmd { return actions.SaveNotificationsCmd(s, true) }),
		notifyCmd(m.notifyFn, m.logger),
	)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}
	switch m.screen {
	case view.ScreenSplash:
		m.splashDone = true
		return m.leaveSplash()
	case view.ScreenOnboarding:
		return m.onboardingKey(msg)
	case view.ScreenDetail:
		return m.detailKey(msg)
	case view.ScreenSettings:
		return m.settingsKey(msg)
	}
	if m.searching {
		return m.searchKey(msg)
	}
	return m.feedKey(msg)
}

func (m Model) onboardingKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.quit()
	case tea.KeyEnter:
		name := strings.TrimSpace(m.onboarding.Value())
		if name == "" {
			return m, nil
		}
		m.username = name
		m.onboarding.Blur()
		m.screen = view.ScreenFeed
		return m, m.save(func(s actions.Service) tea.Cmd { return actions.SaveUsernameCmd(s, name) })
	}
	var cmd tea.Cmd
	m.onboarding, cmd = m.onboarding.Update(msg)
	return m, cmd
}

func (m Model) feedKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	articles := m.feed.Articles()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Up):
		return m.moveCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		return m.moveCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.PageUp):
		return m.moveCursor(m.cursor - m.pageStep())
	case key.Matches(msg, m.keys.PageDown):
		return m.moveCursor(m.cursor + m.pageStep())
	case key.Matches(msg, m.keys.Home):
		return m.moveCursor(0)
	case key.Matches(msg, m.keys.End):
		return m.moveCursor(len(articles) - 1)
	case key.Matches(msg, m.keys.Select):
		if len(articles) == 0 {
			return m, nil
		}
		return m.openDetail(articles[state.ClampCursor(m.cursor, len(articles))])
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.Refresh):
		cmd := m.feed.FetchInitial()
		if cmd == nil {
			return m, m.setStatus("A request is already in progress")
		}
		return m, cmd
	case key.Matches(msg, m.keys.Settings):
		m.screen = view.ScreenSettings
		m.settingsCursor = 0
		return m, nil
	case key.Matches(msg, m.keys.Back):
		if m.search.Value() == "" {
			return m, nil
		}
		m.search.SetValue("")
		return m, m.feed.Search("")
	}
	return m, nil
}

// searchKey feeds the search box. Every edit is handed to the controller,
// which owns the debounce.
func (m Model) searchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		if m.search.Value() == "" {
			return m, nil
		}
		m.search.SetValue("")
		return m, m.feed.Search("")
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.feed.Search(m.search.Value()))
}

func (m Model) moveCursor(target int) (Model, tea.Cmd) {
	n := len(m.feed.Articles())
	m.cursor = state.ClampCursor(target, n)
	if m.end.Observe(m.cursor, n) {
		return m, m.feed.LoadMore()
	}
	return m, nil
}

func (m Model) openDetail(a newsapi.Article) (Model, tea.Cmd) {
	m.screen = view.ScreenDetail
	m.detailArticle = a
	m.resizeDetail()
	m.detail.GotoTop()
	return m, m.ensureImagePreviewCmd()
}

func (m Model) detailKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Back):
		m.screen = view.ScreenFeed
		return m, nil
	case key.Matches(msg, m.keys.Open):
		return m, m.articleURLCmd(false)
	case key.Matches(msg, m.keys.Share):
		return m, m.articleURLCmd(true)
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m *Model) articleURLCmd(share bool) tea.Cmd {
	url, err := platform.ValidateArticleURL(m.detailArticle.URL)
	if err != nil {
		return m.setWarning("Cannot open article: " + err.Error())
	}
	if share {
		return actions.ShareURLCmd(url, m.copyURLFn)
	}
	return actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
}

func (m Model) settingsKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	items := settings.Items()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Back):
		m.screen = view.ScreenFeed
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.settingsCursor = state.ClampCursor(m.settingsCursor-1, len(items))
	case key.Matches(msg, m.keys.Down):
		m.settingsCursor = state.ClampCursor(m.settingsCursor+1, len(items))
	case key.Matches(msg, m.keys.Select):
		return m.selectSetting(items[state.ClampCursor(m.settingsCursor, len(items))])
	}
	return m, nil
}

func (m Model) selectSetting(item settings.Item) (Model, tea.Cmd) {
	switch item.Kind {
	case settings.ItemTheme:
		next := m.themeMode.Next()
		m.applyTheme(next)
		return m, m.save(func(s actions.Service) tea.Cmd { return actions.SaveThemeCmd(s, next) })
	case settings.ItemNotification:
		if m.notifications {
			m.notifications = false
			return m, m.save(func(s actions.Service) tea.Cmd { return actions.SaveNotificationsCmd(s, false) })
		}
		// Shown as on until the platform answers.
		m.notifications = true
		return m, actions.RequestNotificationsCmd(m.authorizeFn)
	}

	url := m.links.URL(item.Kind)
	if url == "" {
		return m, m.setWarning(item.Title + " link is not configured")
	}
	return m, actions.OpenURLCmd(url, m.openURLFn, m.copyURLFn)
}

func (m Model) leaveSplash() (Model, tea.Cmd) {
	if m.screen != view.ScreenSplash || !m.splashDone || !m.prefsLoaded {
		return m, nil
	}
	if m.username != "" {
		m.screen = view.ScreenFeed
		return m, nil
	}
	m.screen = view.ScreenOnboarding
	return m, m.onboarding.Focus()
}

func (m Model) quit() (Model, tea.Cmd) {
	m.feed.Close()
	return m, tea.Quit
}

func (m *Model) applyPreferences(p app.Preferences) {
	m.prefsLoaded = true
	if p.HasUsername {
		m.username = p.Username
	}
	m.notifications = p.Notifications
	m.applyTheme(p.Theme)
}

func (m *Model) applyTheme(mode settings.ThemeMode) {
	m.themeMode = mode
	m.theme = tuitheme.ForMode(mode, m.systemDark)
	m.refreshDetail()
}

func (m *Model) save(cmd func(actions.Service) tea.Cmd) tea.Cmd {
	if m.service == nil {
		return nil
	}
	return cmd(m.service)
}

func (m *Model) setStatus(status string) tea.Cmd {
	m.status = status
	m.warning = ""
	m.statusID++
	return m.clearStatusCmd(m.statusID)
}

func (m *Model) setWarning(warning string) tea.Cmd {
	m.warning = warning
	m.status = ""
	m.statusID++
	return m.clearStatusCmd(m.statusID)
}

func (m *Model) ensureImagePreviewCmd() tea.Cmd {
	url := strings.TrimSpace(m.detailArticle.ImageURL)
	if url == "" || m.images == nil || m.renderImageFn == nil {
		return nil
	}
	if _, ok := m.imagePreview[url]; ok {
		return nil
	}
	if _, ok := m.imagePreviewErr[url]; ok || m.imagePreviewLoading[url] {
		return nil
	}
	m.imagePreviewLoading[url] = true
	m.refreshDetail()
	return actions.ImagePreviewCmd(m.images, url, m.contentWidth(), m.renderImageFn)
}

func (m Model) previewState() view.ImagePreviewState {
	url := strings.TrimSpace(m.detailArticle.ImageURL)
	if url == "" || m.images == nil {
		return view.ImagePreviewState{}
	}
	return view.ImagePreviewState{
		Enabled: true,
		Loading: m.imagePreviewLoading[url],
		Raw:     m.imagePreview[url],
		Err:     m.imagePreviewErr[url],
	}
}

func (m *Model) resizeDetail() {
	m.detail.Width = m.contentWidth()
	m.detail.Height = m.bodyHeight()
	m.refreshDetail()
}

func (m *Model) refreshDetail() {
	if m.screen != view.ScreenDetail {
		return
	}
	preview := m.previewState()
	if view.ContainsKittyGraphicsEscape(preview.Raw) {
		m.kittyPlaced = true
	}
	lines := view.DetailLines(m.detailArticle, m.contentWidth(), m.theme, preview)
	m.detail.SetContent(strings.Join(lines, "\n"))
}

func (m Model) contentWidth() int {
	if m.width > 0 {
		return max(20, m.width-2)
	}
	return 100
}

func (m Model) bodyHeight() int {
	if m.height > 0 {
		return max(3, m.height-chromeLines)
	}
	return 16
}

func (m Model) pageStep() int {
	return state.PageStep(m.height, m.status != "" || m.warning != "")
}

func (m Model) View() string {
	switch m.screen {
	case view.ScreenSplash:
		return view.Splash(m.username, m.width, m.height, m.theme)
	case view.ScreenOnboarding:
		return view.Onboarding(m.onboarding.View(), strings.TrimSpace(m.onboarding.Value()) != "", m.theme) + "\n"
	}

	var b strings.Builder
	if m.kittyPlaced && m.screen != view.ScreenDetail {
		b.WriteString(view.ClearKittyGraphicsSequence())
	}
	b.WriteString(view.Header(appTitle, m.pill(), m.theme))
	b.WriteString("\n")
	b.WriteString(view.Toolbar(m.screen, m.searching))
	b.WriteString("\n\n")
	switch m.screen {
	case view.ScreenDetail:
		b.WriteString(m.detail.View())
	case view.ScreenSettings:
		b.WriteString(strings.Join(view.SettingsLines(view.SettingsState{
			Theme:         m.themeMode,
			Notifications: m.notifications,
			Cursor:        m.settingsCursor,
			Width:         m.contentWidth(),
		}, m.theme), "\n"))
	default:
		b.WriteString(m.feedView())
	}
	b.WriteString("\n\n")
	b.WriteString(view.StatusLine(m.feed.Loading(), m.spinner.View(), m.status, m.warning, m.theme))
	b.WriteString("\n")
	b.WriteString(view.Footer(view.FooterParams{
		Mode:          m.feed.Mode().String(),
		Page:          m.feed.Page(),
		Shown:         len(m.feed.Articles()),
		Exhausted:     m.feed.Exhausted(),
		SearchPending: m.feed.SearchPending(),
	}, m.theme))
	b.WriteString("\n")
	return b.String()
}

func (m Model) feedView() string {
	var b strings.Builder
	height := m.bodyHeight()
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
		height = max(1, height-1)
	}

	articles := m.feed.Articles()
	if len(articles) == 0 {
		b.WriteString(view.EmptyFeedMessage(m.feed.Loading(), m.feed.Mode().Query()))
		return b.String()
	}

	start, end := state.CenteredWindow(len(articles), m.cursor, height)
	now := m.nowFn()
	for i := start; i < end; i++ {
		if i > start {
			b.WriteString("\n")
		}
		b.WriteString(view.RenderArticleLine(view.ArticleLineParams{
			Article: articles[i],
			Now:     now,
			Index:   i,
			Active:  i == m.cursor,
			Width:   m.contentWidth(),
		}, m.theme))
	}
	return b.String()
}

func (m Model) pill() string {
	switch m.screen {
	case view.ScreenDetail:
		if name := strings.TrimSpace(m.detailArticle.Source.Name); name != "" {
			return name
		}
		return "article"
	case view.ScreenSettings:
		return "settings"
	}
	if mode := m.feed.Mode(); !mode.IsTop() {
		return "search: " + mode.Query()
	}
	return "top headlines"
}

func (m Model) clearStatusCmd(id int) tea.Cmd {
	return m.tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{id: id}
	})
}

func notifyCmd(notify func(title, body string) error, logger *slog.Logger) tea.Cmd {
	if notify == nil {
		return nil
	}
	return func() tea.Msg {
		if err := notify(appTitle, "Notifications are on"); err != nil {
			logger.Debug("send notification failed", "err", err)
		}
		return nil
	}
}
