// Package tui is the Bubble Tea front end: home feeds, the watch page,
// search results and channel pages.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/youhub/internal/config"
	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/feed"
	"github.com/mmcdole/youhub/internal/i18n"
	"github.com/mmcdole/youhub/internal/player"
	"github.com/mmcdole/youhub/internal/prefs"
	"github.com/mmcdole/youhub/internal/search"
	"github.com/mmcdole/youhub/internal/stream"
	"github.com/mmcdole/youhub/internal/vote"
)

// loadAheadRows triggers the next page when the cursor gets this close to
// the end of a list
const loadAheadRows = 3

// statusTimeout is how long status messages stay visible
const statusTimeout = 3 * time.Second

// InputMode is what the keyboard is currently driving
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeSearch
	ModeFilter
	ModeHelp
)

// Deps are the services the UI talks to
type Deps struct {
	Videos   domain.VideoSource
	Prefs    *prefs.Store
	Resume   *player.ResumeStore
	Launcher *player.Launcher
	Ladder   *stream.Ladder
	Config   *config.Config
	Reloads  *ConfigObserver // optional
	Logger   *slog.Logger
}

type homeState struct {
	feedIdx int
	pillIdx int
	pager   *feed.Pager[domain.Video]
	cursor  int
	err     error

	filter  string
	matches []search.Match
}

type searchState struct {
	query    string
	loading  bool
	err      error
	videos   []domain.SearchItem
	channels []domain.SearchItem
	window   search.Window
	cursor   int

	dominant search.Dominant
	hasPanel bool
	panel    search.Panel
}

type watchState struct {
	videoID    string
	details    *domain.VideoDetails
	detailsErr error
	expanded   bool

	related    *feed.Pager[domain.Video]
	relatedErr error
	cursor     int

	comments      *feed.Pager[domain.Comment]
	commentsErr   error
	board         *vote.Board
	sort          vote.SortMode
	commentCursor int
	focusComments bool

	reaction vote.Reaction
	toggles  vote.Toggles

	session   *watchSession
	starting  bool
	playback  domain.PlaybackState
	offer     player.ResumeOffer
	qualities []stream.Quality
}

type channelState struct {
	id      string
	info    *domain.ChannelInfo
	err     error
	loading bool
	cursor  int
}

// Model is the main Bubble Tea model for the application
type Model struct {
	deps    Deps
	cfg     *config.Config
	timeout time.Duration
	logger  *slog.Logger

	route   Route
	history []Route

	settings    prefs.Settings
	tr          i18n.Translator
	showWarning bool

	mode  InputMode
	input textinput.Model

	home    homeState
	search  searchState
	watch   watchState
	channel channelState

	Width        int
	Height       int
	Ready        bool
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int
}

// NewModel creates the application model starting at route
func NewModel(deps Deps, route Route) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	timeout := cfg.API.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx := context.Background()
	settings := prefs.Defaults()
	showWarning := true
	if deps.Prefs != nil {
		if deps.Config != nil {
			deps.Prefs.Seed(cfg.UI.Language, cfg.UI.SafeMode)
		}
		settings = deps.Prefs.Load(ctx)
		showWarning = !deps.Prefs.WarningShown(ctx)
	}

	input := textinput.New()
	input.CharLimit = 200

	m := Model{
		deps:        deps,
		cfg:         cfg,
		timeout:     timeout,
		logger:      deps.Logger,
		route:       route,
		settings:    settings,
		tr:          i18n.New(settings.Language),
		showWarning: showWarning,
		input:       input,
	}
	m.input.Placeholder = m.tr.T("search.placeholder")
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(100 * time.Millisecond), NavigateCmd(m.route)}
	if m.deps.Reloads != nil {
		cmds = append(cmds, m.deps.Reloads.Wait())
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.input.Width = max(10, msg.Width/2)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case NavigateMsg:
		return m.navigate(msg.Route, true)

	case NavigateBackMsg:
		if len(m.history) == 0 {
			return m, nil
		}
		prev := m.history[len(m.history)-1]
		m.history = m.history[:len(m.history)-1]
		return m.navigate(prev, false)

	case FeedPageMsg:
		if m.home.pager == nil || msg.FeedID != i18n.Feeds[m.home.feedIdx].ID {
			return m, nil
		}
		m.home.err = msg.Err
		m.refreshFilter()
		return m, nil

	case SearchResultsMsg:
		return m.handleSearchResults(msg)

	case PanelLoadedMsg:
		if msg.Query != m.search.query || msg.ChannelID != m.search.dominant.ID {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Debug("channel panel unavailable", "channelID", msg.ChannelID, "error", msg.Err)
		}
		m.search.panel, m.search.hasPanel = search.MergePanel(msg.Info, search.Primary(m.search.channels))
		return m, nil

	case DetailsLoadedMsg:
		return m.handleDetails(msg)

	case QualitiesMsg:
		if msg.VideoID != m.watch.videoID {
			return m, nil
		}
		m.watch.qualities = msg.Qualities
		if s := m.watch.session; s != nil {
			s.proc.MPV.SetQualities(stream.Labels(msg.Qualities))
		}
		return m, nil

	case RecommendationsMsg:
		if msg.VideoID == m.watch.videoID {
			m.watch.relatedErr = msg.Err
		}
		return m, nil

	case CommentsPageMsg:
		if msg.VideoID != m.watch.videoID || m.watch.comments == nil {
			return m, nil
		}
		m.watch.commentsErr = msg.Err
		m.watch.board.Add(m.watch.comments.Items())
		return m, nil

	case ChannelLoadedMsg:
		if msg.ChannelID != m.channel.id {
			return m, nil
		}
		m.channel.loading = false
		m.channel.info, m.channel.err = msg.Info, msg.Err
		return m, nil

	case PlayerStartedMsg:
		m.watch.starting = false
		if m.route.Kind != RouteWatch || msg.VideoID != m.watch.videoID {
			s := msg.Session
			return m, func() tea.Msg { s.stop(); return nil }
		}
		m.watch.session = msg.Session
		if len(m.watch.qualities) > 0 {
			msg.Session.proc.MPV.SetQualities(stream.Labels(m.watch.qualities))
		}
		m.watch.playback = msg.Session.ctrl.Snapshot()
		m.watch.offer = msg.Session.ctrl.ResumeOffer()
		return m, tea.Batch(msg.Session.obs.Wait(), msg.Session.closed())

	case PlayerStateMsg:
		s := m.watch.session
		if s == nil {
			return m, nil
		}
		m.watch.playback = msg.State
		m.watch.offer = s.ctrl.ResumeOffer()
		return m, s.obs.Wait()

	case PlayerClosedMsg:
		if s := m.watch.session; s != nil && s == msg.Session {
			m.watch.session = nil
			m.watch.playback.Ready = false
			m.watch.playback.IsPlaying = false
			return m, func() tea.Msg { s.stop(); return nil }
		}
		return m, nil

	case ConfigChangedMsg:
		m.applyConfig(msg.Config)
		return m, m.deps.Reloads.Wait()

	case ErrMsg:
		m.logger.Error("tui error", "context", msg.Context, "error", msg.Err)
		m.watch.starting = false
		m.StatusMsg = msg.Error()
		if hint := domain.Suggestion(msg.Err); hint != "" {
			m.StatusMsg += " (" + hint + ")"
		}
		m.StatusIsErr = true
		return m, ClearStatusCmd(2 * statusTimeout)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(statusTimeout)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	if m.mode == ModeSearch || m.mode == ModeFilter {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// navigate switches pages. The watch session only survives while the
// route stays on the same video.
func (m Model) navigate(route Route, push bool) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	leavingWatch := m.route.Kind == RouteWatch &&
		(route.Kind != RouteWatch || route.ID != m.watch.videoID)
	if leavingWatch && m.watch.session != nil {
		s := m.watch.session
		m.watch.session = nil
		cmds = append(cmds, func() tea.Msg { s.stop(); return nil })
	}

	prev := m.route
	if push && prev.Path() != route.Path() {
		m.history = append(m.history, prev)
	}
	m.route = route
	m.mode = ModeNormal
	m.input.Blur()

	switch route.Kind {
	case RouteHome:
		if m.home.pager == nil {
			cmds = append(cmds, m.selectFeed(m.home.feedIdx))
		}
	case RouteSearch:
		cmds = append(cmds, m.startSearch(route.Query))
	case RouteWatch:
		if prev.Kind != RouteWatch || route.ID != m.watch.videoID {
			cmds = append(cmds, m.openVideo(route.ID, true))
		}
	case RouteChannel:
		m.channel = channelState{id: route.ID, loading: true}
		cmds = append(cmds, LoadChannelCmd(m.deps.Videos, route.ID, m.timeout))
	}
	return m, tea.Batch(cmds...)
}

// selectFeed switches the home tab and loads its first page
func (m *Model) selectFeed(idx int) tea.Cmd {
	n := len(i18n.Feeds)
	idx = ((idx % n) + n) % n
	f := i18n.Feeds[idx]
	m.home.feedIdx = idx
	m.home.pager = feed.Browse(m.deps.Videos, f.ID, f.Region)
	m.home.cursor = 0
	m.home.err = nil
	m.home.filter = ""
	m.home.matches = nil
	return LoadFeedCmd(m.home.pager, f.ID, m.timeout)
}

// homeItems returns the feed rows, narrowed by the filter when one is set
func (m Model) homeItems() []domain.Video {
	if m.home.pager == nil {
		return nil
	}
	items := m.home.pager.Items()
	if m.home.filter == "" {
		return items
	}
	out := make([]domain.Video, 0, len(m.home.matches))
	for _, match := range m.home.matches {
		out = append(out, items[match.Index])
	}
	return out
}

func (m *Model) refreshFilter() {
	if m.home.pager == nil || m.home.filter == "" {
		m.home.matches = nil
		return
	}
	items := m.home.pager.Items()
	titles := make([]string, len(items))
	for i, v := range items {
		titles[i] = v.Title
	}
	m.home.matches = search.Filter(m.home.filter, titles)
	if m.home.cursor >= len(m.home.matches) {
		m.home.cursor = max(0, len(m.home.matches)-1)
	}
}

// maybeLoadMoreHome requests the next page when the cursor nears the end
func (m Model) maybeLoadMoreHome() tea.Cmd {
	p := m.home.pager
	if p == nil || m.home.filter != "" || !p.HasMore() || p.Loading() {
		return nil
	}
	if m.home.cursor < p.Len()-loadAheadRows {
		return nil
	}
	return LoadFeedCmd(p, i18n.Feeds[m.home.feedIdx].ID, m.timeout)
}

func (m *Model) startSearch(query string) tea.Cmd {
	if query == m.search.query && !m.search.loading && m.search.err == nil && m.search.videos != nil {
		return nil
	}
	m.search = searchState{query: query, loading: query != ""}
	m.search.window.Sync(query)
	if query == "" {
		return nil
	}
	return SearchCmd(m.deps.Videos, query, m.timeout)
}

func (m Model) handleSearchResults(msg SearchResultsMsg) (Model, tea.Cmd) {
	if msg.Query != m.search.query {
		return m, nil
	}
	m.search.loading = false
	m.search.err = msg.Err
	if msg.Err != nil {
		return m, nil
	}
	m.search.videos, m.search.channels = search.Partition(msg.Items)
	if m.search.videos == nil {
		m.search.videos = []domain.SearchItem{}
	}
	m.search.window.Sync(msg.Query)

	d, ok := search.DominantChannel(m.search.videos, m.search.channels)
	m.search.dominant = d
	if !ok {
		m.search.hasPanel = false
		return m, nil
	}
	// show the search-result card until the profile arrives
	m.search.panel, m.search.hasPanel = search.MergePanel(nil, search.Primary(m.search.channels))
	return m, LoadPanelCmd(m.deps.Videos, msg.Query, d.ID, m.timeout)
}

// openVideo resets the watch page for id. With spawn set the player is
// started; otherwise an existing session is reused.
func (m *Model) openVideo(id string, spawn bool) tea.Cmd {
	session := m.watch.session
	qualities := m.watch.qualities
	m.watch = watchState{
		videoID:  id,
		sort:     vote.SortPopular,
		board:    vote.NewBoard(nil),
		comments: feed.Comments(m.deps.Videos, id),
		related:  feed.Trending(m.deps.Videos),
		session:  session,
	}
	if session != nil {
		m.watch.playback = session.ctrl.Snapshot()
		m.watch.qualities = qualities
	}

	cmds := []tea.Cmd{
		LoadDetailsCmd(m.deps.Videos, id, m.timeout),
		LoadCommentsCmd(m.watch.comments, id, m.timeout),
		LoadRecommendationsCmd(m.watch.related, id, m.timeout),
	}
	if spawn && session == nil && m.deps.Launcher != nil {
		m.watch.starting = true
		cmds = append(cmds, StartPlayerCmd(m.deps.Launcher, m.deps.Resume, id, sessionOptions{
			pollInterval: m.cfg.Player.PollInterval,
			autoplay:     m.cfg.Player.Autoplay,
			logger:       m.logger,
		}))
	}
	return tea.Batch(cmds...)
}

func (m Model) handleDetails(msg DetailsLoadedMsg) (Model, tea.Cmd) {
	if msg.VideoID != m.watch.videoID {
		return m, nil
	}
	m.watch.details, m.watch.detailsErr = msg.Details, msg.Err
	if msg.Err != nil {
		return m, nil
	}
	return m, LoadQualitiesCmd(m.deps.Ladder, msg.Details, m.timeout)
}

// upNext returns the candidates for the next video: related videos from
// the watch payload, else the trending recommendations.
func (m Model) upNext() []domain.Video {
	var src []domain.Video
	if m.watch.details != nil && len(m.watch.details.Related) > 0 {
		src = m.watch.details.Related
	} else if m.watch.related != nil {
		src = m.watch.related.Items()
	}
	out := make([]domain.Video, 0, len(src))
	for _, v := range src {
		if v.ID != "" && v.ID != m.watch.videoID {
			out = append(out, v)
		}
	}
	return out
}

// playNext loads id into the running player, or opens it fresh
func (m Model) playNext(id string) (Model, tea.Cmd) {
	if m.route.Kind == RouteWatch {
		m.history = append(m.history, m.route)
	}
	m.route = WatchRoute(id)

	s := m.watch.session
	cmd := m.openVideo(id, s == nil)
	if s == nil {
		return m, cmd
	}
	s.videoID = id
	next := s.command(func(c *player.Controller) { c.Next(context.Background(), id) })
	return m, tea.Batch(cmd, next)
}

// sortedComments returns the loaded comments in the selected order
func (m Model) sortedComments() []domain.Comment {
	if m.watch.comments == nil {
		return nil
	}
	return m.watch.board.Sort(m.watch.comments.Items(), m.watch.sort)
}

func (m *Model) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	old := m.cfg
	m.cfg = cfg
	if cfg.API.Timeout > 0 {
		m.timeout = cfg.API.Timeout
	}
	ctx := context.Background()
	if cfg.UI.Language != "" && cfg.UI.Language != old.UI.Language {
		if lang, ok := i18n.Parse(cfg.UI.Language); ok {
			m.setLanguage(ctx, lang)
		}
	}
	if cfg.UI.SafeMode != old.UI.SafeMode {
		m.setSafeMode(ctx, cfg.UI.SafeMode)
	}
}

func (m *Model) setLanguage(ctx context.Context, lang i18n.Lang) {
	if m.deps.Prefs != nil {
		m.settings = m.deps.Prefs.SetLanguage(ctx, m.settings, lang)
	} else {
		m.settings = m.settings.WithLanguage(lang)
	}
	m.tr = i18n.New(lang)
	m.input.Placeholder = m.tr.T("search.placeholder")
}

func (m *Model) setSafeMode(ctx context.Context, on bool) {
	if m.deps.Prefs != nil {
		m.settings = m.deps.Prefs.SetSafeMode(ctx, m.settings, on)
	} else {
		m.settings = m.settings.WithSafeMode(on)
	}
}

// Shutdown stops any running player. Call it after the program exits.
func (m Model) Shutdown() {
	m.watch.session.stop()
}
