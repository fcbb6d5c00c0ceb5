package tui

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/youhub/internal/i18n"
	"github.com/mmcdole/youhub/internal/player"
	"github.com/mmcdole/youhub/internal/vote"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, Keys.Quit) {
		return m, tea.Quit
	}

	// The age warning blocks everything until acknowledged
	if m.showWarning {
		if key.Matches(msg, Keys.Confirm) {
			m.showWarning = false
			if m.deps.Prefs != nil {
				m.deps.Prefs.AcknowledgeWarning(context.Background())
			}
		}
		return m, nil
	}

	switch m.mode {
	case ModeHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help) {
			m.mode = ModeNormal
		}
		return m, nil
	case ModeSearch, ModeFilter:
		return m.handleInputKey(msg)
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, Keys.Search):
		m.mode = ModeSearch
		m.input.SetValue(m.search.query)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, Keys.Language):
		idx := slices.Index(i18n.Supported, m.settings.Language)
		next := i18n.Supported[(idx+1)%len(i18n.Supported)]
		m.setLanguage(context.Background(), next)
		return m, nil

	case key.Matches(msg, Keys.SafeMode):
		m.setSafeMode(context.Background(), !m.settings.SafeMode)
		return m, nil

	case key.Matches(msg, Keys.AcceptCookies):
		if !m.settings.CookieConsent {
			if m.deps.Prefs != nil {
				m.settings = m.deps.Prefs.AcceptCookies(context.Background(), m.settings)
			} else {
				m.settings = m.settings.WithCookieConsent()
			}
		}
		return m, nil

	case key.Matches(msg, Keys.Home):
		if m.route.Kind == RouteHome {
			return m, nil
		}
		return m.navigate(Route{Kind: RouteHome}, true)

	case key.Matches(msg, Keys.Back):
		return m, func() tea.Msg { return NavigateBackMsg{} }
	}

	switch m.route.Kind {
	case RouteHome:
		return m.handleHomeKey(msg)
	case RouteSearch:
		return m.handleSearchKey(msg)
	case RouteWatch:
		return m.handleWatchKey(msg)
	case RouteChannel:
		return m.handleChannelKey(msg)
	case RouteNotFound:
		if key.Matches(msg, Keys.Enter) {
			return m.navigate(Route{Kind: RouteHome}, true)
		}
	}
	return m, nil
}

// handleInputKey drives the search box and the home filter
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape):
		if m.mode == ModeFilter {
			m.home.filter = ""
			m.refreshFilter()
		}
		m.mode = ModeNormal
		m.input.Blur()
		m.input.SetValue("")
		return m, nil

	case msg.Type == tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.mode = ModeNormal
		m.input.Blur()
		if mode == ModeFilter {
			return m, nil
		}
		m.input.SetValue("")
		if value == "" {
			return m, nil
		}
		return m.navigate(SearchRoute(value), true)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == ModeFilter {
		m.home.filter = m.input.Value()
		m.refreshFilter()
	}
	return m, cmd
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.homeItems()
	switch {
	case key.Matches(msg, Keys.NextTab):
		return m, m.selectFeed(m.home.feedIdx + 1)
	case key.Matches(msg, Keys.PrevTab):
		return m, m.selectFeed(m.home.feedIdx - 1)

	case key.Matches(msg, Keys.NextPill):
		m.home.pillIdx = (m.home.pillIdx + 1) % len(i18n.Categories)
	case key.Matches(msg, Keys.PrevPill):
		m.home.pillIdx = (m.home.pillIdx + len(i18n.Categories) - 1) % len(i18n.Categories)

	case key.Matches(msg, Keys.Filter):
		m.mode = ModeFilter
		m.input.SetValue(m.home.filter)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, Keys.Escape):
		if m.home.filter != "" {
			m.home.filter = ""
			m.refreshFilter()
		}

	case key.Matches(msg, Keys.Up):
		if m.home.cursor > 0 {
			m.home.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.home.cursor < len(items)-1 {
			m.home.cursor++
		}
		return m, m.maybeLoadMoreHome()

	case key.Matches(msg, Keys.Enter):
		if m.home.cursor < len(items) {
			return m.navigate(WatchRoute(items[m.home.cursor].ID), true)
		}
		// retry a failed first page
		if m.home.err != nil && m.home.pager != nil {
			m.home.err = nil
			return m, LoadFeedCmd(m.home.pager, i18n.Feeds[m.home.feedIdx].ID, m.timeout)
		}

	case key.Matches(msg, Keys.Channel):
		if m.home.cursor < len(items) {
			if id := items[m.home.cursor].ChannelID(); id != "" {
				return m.navigate(ChannelRoute(id), true)
			}
		}
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.search.window.Visible(len(m.search.videos))
	switch {
	case key.Matches(msg, Keys.Up):
		if m.search.cursor > 0 {
			m.search.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.search.cursor < visible-1 {
			m.search.cursor++
		}
		if m.search.cursor >= visible-1 {
			m.search.window.Grow(len(m.search.videos))
		}

	case key.Matches(msg, Keys.Enter):
		if m.search.err != nil {
			query := m.search.query
			m.search.query = ""
			return m, m.startSearch(query)
		}
		if m.search.cursor < visible {
			return m.navigate(WatchRoute(m.search.videos[m.search.cursor].ID), true)
		}

	case key.Matches(msg, Keys.Channel):
		if m.search.hasPanel && m.search.panel.ID != "" {
			return m.navigate(ChannelRoute(m.search.panel.ID), true)
		}
		if m.search.cursor < visible {
			if id := m.search.videos[m.search.cursor].ChannelID(); id != "" {
				return m.navigate(ChannelRoute(id), true)
			}
		}
	}
	return m, nil
}

func (m Model) handleChannelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.channel.info == nil {
		if key.Matches(msg, Keys.Enter) && m.channel.err != nil {
			return m.navigate(ChannelRoute(m.channel.id), false)
		}
		return m, nil
	}
	videos := m.channel.info.Videos
	switch {
	case key.Matches(msg, Keys.Up):
		if m.channel.cursor > 0 {
			m.channel.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.channel.cursor < len(videos)-1 {
			m.channel.cursor++
		}
	case key.Matches(msg, Keys.Enter):
		if m.channel.cursor < len(videos) {
			return m.navigate(WatchRoute(videos[m.channel.cursor].ID), true)
		}
	}
	return m, nil
}

func (m Model) handleWatchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.watch.session

	// The resume prompt takes r and x while visible
	if m.watch.offer.Visible {
		switch {
		case key.Matches(msg, Keys.Resume):
			m.watch.offer.Visible = false
			return m, s.command((*player.Controller).Resume)
		case key.Matches(msg, Keys.Dismiss):
			m.watch.offer.Visible = false
			return m, s.command((*player.Controller).DismissResume)
		}
	}

	switch {
	// Player
	case key.Matches(msg, Keys.PlayPause):
		return m, s.command((*player.Controller).TogglePlay)
	case key.Matches(msg, Keys.Mute):
		return m, s.command((*player.Controller).ToggleMute)
	case key.Matches(msg, Keys.Fullscreen):
		return m, s.command((*player.Controller).Fullscreen)
	case key.Matches(msg, Keys.SeekBack):
		return m, s.command(func(c *player.Controller) { c.SeekBy(-5) })
	case key.Matches(msg, Keys.SeekForward):
		return m, s.command(func(c *player.Controller) { c.SeekBy(5) })
	case key.Matches(msg, Keys.Slower):
		return m, s.command(func(c *player.Controller) { c.StepRate(-1) })
	case key.Matches(msg, Keys.Faster):
		return m, s.command(func(c *player.Controller) { c.StepRate(1) })
	case key.Matches(msg, Keys.QualityUp):
		return m, s.command(func(c *player.Controller) { c.CycleQuality(1) })
	case key.Matches(msg, Keys.QualityDown):
		return m, s.command(func(c *player.Controller) { c.CycleQuality(-1) })
	case key.Matches(msg, Keys.Next):
		if next := m.upNext(); len(next) > 0 {
			return m.playNext(next[0].ID)
		}
		return m, nil
	case key.Matches(msg, Keys.Share):
		link := strings.TrimRight(m.cfg.UI.ShareOrigin, "/") + WatchRoute(m.watch.videoID).Path()
		return m, CopyLinkCmd(link, m.tr.T("watch.share"))

	// Reactions
	case key.Matches(msg, Keys.Like):
		m.watch.reaction = m.watch.reaction.ToggleLike()
	case key.Matches(msg, Keys.Dislike):
		m.watch.reaction = m.watch.reaction.ToggleDislike()
	case key.Matches(msg, Keys.Favorite):
		m.watch.toggles.Favorite = !m.watch.toggles.Favorite
	case key.Matches(msg, Keys.Subscribe):
		m.watch.toggles.Subscribed = !m.watch.toggles.Subscribed
	case key.Matches(msg, Keys.Expand):
		m.watch.expanded = !m.watch.expanded
	case key.Matches(msg, Keys.SortToggle):
		if m.watch.sort == vote.SortPopular {
			m.watch.sort = vote.SortRecent
		} else {
			m.watch.sort = vote.SortPopular
		}
		m.watch.commentCursor = 0
	case key.Matches(msg, Keys.VoteUp, Keys.VoteDown):
		comments := m.sortedComments()
		if m.watch.focusComments && m.watch.commentCursor < len(comments) {
			id := comments[m.watch.commentCursor].ID
			if key.Matches(msg, Keys.VoteUp) {
				m.watch.board.Up(id)
			} else {
				m.watch.board.Down(id)
			}
		}

	// Lists
	case key.Matches(msg, Keys.FocusNext):
		m.watch.focusComments = !m.watch.focusComments
	case key.Matches(msg, Keys.Up):
		if m.watch.focusComments {
			if m.watch.commentCursor > 0 {
				m.watch.commentCursor--
			}
		} else if m.watch.cursor > 0 {
			m.watch.cursor--
		}
	case key.Matches(msg, Keys.Down):
		if m.watch.focusComments {
			return m, m.moveCommentCursor()
		}
		if m.watch.cursor < len(m.upNext())-1 {
			m.watch.cursor++
		}
	case key.Matches(msg, Keys.Enter):
		if m.watch.detailsErr != nil {
			return m, m.openVideo(m.watch.videoID, m.watch.session == nil)
		}
		if next := m.upNext(); !m.watch.focusComments && m.watch.cursor < len(next) {
			return m.playNext(next[m.watch.cursor].ID)
		}
	case key.Matches(msg, Keys.Channel):
		if d := m.watch.details; d != nil && d.ChannelID() != "" {
			return m.navigate(ChannelRoute(d.ChannelID()), true)
		}
	}
	return m, nil
}

// moveCommentCursor advances the comment cursor and loads the next page
// when it nears the end.
func (m *Model) moveCommentCursor() tea.Cmd {
	p := m.watch.comments
	if p == nil {
		return nil
	}
	if m.watch.commentCursor < p.Len()-1 {
		m.watch.commentCursor++
	}
	if p.HasMore() && !p.Loading() && m.watch.commentCursor >= p.Len()-loadAheadRows {
		return LoadCommentsCmd(p, m.watch.videoID, m.timeout)
	}
	return nil
}

// handleMouse seeks when the timeline row of the watch page is clicked
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showWarning || m.mode == ModeHelp || m.route.Kind != RouteWatch || m.watch.session == nil {
		return m, nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if msg.Y != m.timelineRow() {
		return m, nil
	}
	bar := m.timelineBar()
	x := float64(msg.X)
	return m, m.watch.session.command(func(c *player.Controller) {
		player.Timeline{Bar: bar, Target: c}.Click(x)
	})
}
