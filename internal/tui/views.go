package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/youhub/internal/domain"
	"github.com/mmcdole/youhub/internal/format"
	"github.com/mmcdole/youhub/internal/i18n"
	"github.com/mmcdole/youhub/internal/player"
	"github.com/mmcdole/youhub/internal/stream"
	"github.com/mmcdole/youhub/internal/tui/styles"
	"github.com/mmcdole/youhub/internal/vote"
)

// headerHeight is the number of rows above the page body
const headerHeight = 2

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// View renders the UI
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}
	if m.showWarning {
		return m.renderWarning()
	}

	var body string
	switch {
	case m.mode == ModeHelp:
		body = m.renderHelp()
	case m.route.Kind == RouteHome:
		body = m.renderHome()
	case m.route.Kind == RouteSearch:
		body = m.renderSearch()
	case m.route.Kind == RouteWatch:
		body = m.renderWatch()
	case m.route.Kind == RouteChannel:
		body = m.renderChannel()
	default:
		body = m.renderNotFound()
	}

	footer := m.renderStatus()
	if !m.settings.CookieConsent {
		footer = m.renderCookieBanner() + "\n" + footer
	}

	bodyHeight := max(1, m.Height-headerHeight-lipgloss.Height(footer))
	body = lipgloss.NewStyle().Height(bodyHeight).MaxHeight(bodyHeight).Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, footer)
}

func (m Model) renderHeader() string {
	logo := styles.LogoStyle.Render("YouHub")

	var box string
	switch m.mode {
	case ModeSearch:
		box = styles.FilterPromptStyle.Render("search: ") + m.input.View()
	case ModeFilter:
		box = styles.FilterPromptStyle.Render("/") + m.input.View()
	default:
		box = styles.DimStyle.Render(m.tr.T("search.placeholder") + " (S)")
	}

	lang := styles.DimStyle.Render(i18n.Names[m.settings.Language])
	if m.settings.SafeMode {
		lang = styles.DimBadgeStyle.Render("safe") + " " + lang
	}

	top := lipgloss.JoinHorizontal(lipgloss.Top, logo, "  ", box)
	gap := max(1, m.Width-lipgloss.Width(top)-lipgloss.Width(lang))
	top += strings.Repeat(" ", gap) + lang

	var sub string
	switch m.route.Kind {
	case RouteHome:
		var tabs []string
		for i, f := range i18n.Feeds {
			style := styles.TabStyle
			if i == m.home.feedIdx {
				style = styles.ActiveTabStyle
			}
			tabs = append(tabs, style.Render(f.Label))
		}
		sub = strings.Join(tabs, "")
	case RouteSearch:
		sub = styles.SubtitleStyle.Render(m.tr.T("search.results") + ": " + m.search.query)
	case RouteWatch:
		sub = styles.SubtitleStyle.Render(m.tr.T("header.home") + " › " + m.watch.videoID)
	case RouteChannel:
		sub = styles.SubtitleStyle.Render(m.tr.T("header.home") + " › " + m.channel.id)
	default:
		sub = styles.SubtitleStyle.Render(m.route.Path())
	}
	return top + "\n" + sub
}

func (m Model) renderHome() string {
	var b strings.Builder

	var pills []string
	for i, c := range i18n.Categories {
		style := styles.PillStyle
		if i == m.home.pillIdx {
			style = styles.ActivePillStyle
		}
		pills = append(pills, style.Render(c.Label(m.settings.Language)))
	}
	b.WriteString(lipgloss.NewStyle().MaxWidth(m.Width).Render(strings.Join(pills, "")))
	b.WriteString("\n\n")

	items := m.homeItems()
	p := m.home.pager
	switch {
	case len(items) == 0 && m.home.err != nil:
		b.WriteString(m.renderLoadError(m.home.err))
		return b.String()
	case len(items) == 0 && (p == nil || p.Loading() || p.HasMore()):
		b.WriteString(m.renderLoading())
		return b.String()
	case len(items) == 0:
		b.WriteString(styles.DimStyle.Render(m.tr.T("search.empty")))
		return b.String()
	}

	rows := max(1, (m.Height-headerHeight-6)/2)
	start, end := visibleRange(m.home.cursor, len(items), rows)
	for i := start; i < end; i++ {
		var idx []int
		if m.home.filter != "" && i < len(m.home.matches) {
			idx = m.home.matches[i].MatchedIndexes
		}
		b.WriteString(m.renderVideoRow(items[i], i == m.home.cursor, idx))
		b.WriteString("\n")
	}

	switch {
	case m.home.filter != "":
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d/%d", len(items), p.Len())))
	case p.Loading():
		b.WriteString(m.renderLoading())
	case m.home.err != nil:
		b.WriteString(m.renderLoadError(m.home.err))
	case p.HasMore():
		b.WriteString(styles.DimStyle.Render(m.tr.T("status.load_more")))
	}
	return b.String()
}

// renderVideoRow renders a two-line video entry
func (m Model) renderVideoRow(v domain.Video, selected bool, matched []int) string {
	style := styles.NormalItemStyle
	if selected {
		style = styles.SelectedItemStyle
	}
	width := max(20, m.Width-4)

	title := format.Truncate(v.Title, width-12)
	var line1 string
	if matched != nil && len([]rune(title)) == len([]rune(v.Title)) {
		line1 = styles.Highlight(title, matched, style)
	} else {
		line1 = style.Render(title)
	}
	if v.IsLive {
		line1 += " " + styles.LiveBadgeStyle.Render("LIVE")
	} else if v.LengthText != "" {
		line1 += " " + styles.DimBadgeStyle.Render(v.LengthText)
	}

	var meta []string
	if m.settings.SafeMode {
		meta = append(meta, styles.MaskedThumb)
	}
	if name := v.ChannelName(); name != "" {
		if v.Channel.Verified() {
			name += " ✓"
		}
		meta = append(meta, name)
	}
	if views := format.ViewsLabel(v.Views); views != "" {
		meta = append(meta, views)
	}
	if age := format.AgeLabel(v.UploadDate, time.Now()); age != "" {
		meta = append(meta, age)
	}
	return line1 + "\n" + styles.DimStyle.Render("  "+strings.Join(meta, " • "))
}

func (m Model) renderSearch() string {
	if m.search.query == "" {
		return styles.DimStyle.Render(m.tr.T("search.placeholder"))
	}
	if m.search.loading {
		return m.renderLoading()
	}
	if m.search.err != nil {
		return m.renderLoadError(m.search.err)
	}
	if len(m.search.videos) == 0 && !m.search.hasPanel {
		return styles.DimStyle.Render(m.tr.T("search.empty"))
	}

	listWidth := m.Width
	var panel string
	if m.search.hasPanel && m.Width >= 80 {
		panelWidth := m.Width / 3
		listWidth = m.Width - panelWidth - 1
		panel = m.renderPanel(panelWidth)
	}

	var b strings.Builder
	visible := m.search.window.Visible(len(m.search.videos))
	rows := max(1, (m.Height-headerHeight-3)/2)
	start, end := visibleRange(m.search.cursor, visible, rows)
	for i := start; i < end; i++ {
		b.WriteString(m.renderVideoRow(m.search.videos[i].Video, i == m.search.cursor, nil))
		b.WriteString("\n")
	}
	if visible < len(m.search.videos) {
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("%d/%d", visible, len(m.search.videos))))
	}

	list := lipgloss.NewStyle().Width(listWidth).Render(b.String())
	if panel == "" {
		if m.search.hasPanel {
			return m.renderPanel(m.Width-2) + "\n" + list
		}
		return list
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", panel)
}

// renderPanel renders the dominant channel card
func (m Model) renderPanel(width int) string {
	p := m.search.panel
	var b strings.Builder

	name := p.Name
	if p.Verified {
		name += " ✓"
	}
	b.WriteString(styles.TitleStyle.Render(name))
	b.WriteString("\n")
	if m.settings.SafeMode {
		b.WriteString(styles.DimStyle.Render(styles.MaskedThumb) + "\n")
	}

	var stats []string
	if s := format.CountLabel(p.Subscribers, m.tr.T("watch.subscribers")); s != "" {
		stats = append(stats, s)
	}
	if s := format.CountLabel(p.VideoCount, m.tr.T("watch.videos")); s != "" {
		stats = append(stats, s)
	}
	if s := format.CountLabel(p.ViewCount, m.tr.T("watch.views")); s != "" {
		stats = append(stats, s)
	}
	if len(stats) > 0 {
		b.WriteString(styles.DimStyle.Render(strings.Join(stats, " • ")) + "\n")
	}
	if p.Description != "" {
		b.WriteString(styles.SubtitleStyle.Render(format.Truncate(p.Description, width*2)) + "\n")
	}
	for _, v := range p.Videos {
		b.WriteString("\n" + styles.NormalItemStyle.Render(format.Truncate(v.Title, width-4)))
	}
	b.WriteString("\n\n" + styles.HelpKeyStyle.Render("c") + " " + styles.HelpDescStyle.Render("channel"))

	return styles.PanelStyle.Width(width - 2).Render(b.String())
}

func (m Model) renderWatch() string {
	var b strings.Builder
	w := m.watch
	width := max(20, m.Width)

	// Row 0: title, row 1: timeline
	title := w.videoID
	if w.details != nil && w.details.Title != "" {
		title = w.details.Title
	}
	b.WriteString(styles.TitleStyle.Render(format.Truncate(title, width-2)))
	b.WriteString("\n")
	b.WriteString(m.renderTimeline())
	b.WriteString("\n")
	b.WriteString(m.renderPlayerBar())
	b.WriteString("\n")

	if w.offer.Visible {
		prompt := fmt.Sprintf("%s %s  [r] %s  [x] %s",
			m.tr.T("resume.prompt"), format.FormatTime(w.offer.Seconds),
			m.tr.T("resume.resume"), m.tr.T("resume.restart"))
		b.WriteString(styles.BannerStyle.Render(prompt))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case w.detailsErr != nil:
		b.WriteString(m.renderLoadError(w.detailsErr))
		b.WriteString("\n")
	case w.details == nil:
		b.WriteString(m.renderLoading())
		b.WriteString("\n")
	default:
		b.WriteString(m.renderDetails(w.details, width))
	}
	b.WriteString("\n")

	left := m.renderUpNext(width/2 - 1)
	right := m.renderComments(width - width/2 - 1)
	if m.Width < 80 {
		b.WriteString(left + "\n\n" + right)
	} else {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))
	}
	return b.String()
}

// timelineRow is the screen row of the seek bar on the watch page
func (m Model) timelineRow() int {
	return headerHeight + 1
}

// timelineBar is the pointer extent of the seek bar
func (m Model) timelineBar() player.Bar {
	return player.Bar{Left: 2, Width: float64(max(3, m.Width-4))}
}

func (m Model) renderTimeline() string {
	pct := m.watch.playback.ProgressPercent()
	return "  " + styles.RenderProgressBar(pct, max(3, m.Width-4))
}

// renderPlayerBar shows the playback clock and engine options
func (m Model) renderPlayerBar() string {
	w := m.watch
	if w.session == nil {
		if w.starting {
			return styles.DimStyle.Render("  " + m.spinner() + " starting player")
		}
		return styles.DimStyle.Render("  player not running")
	}
	s := w.playback
	state := "▶"
	switch {
	case s.HasEnded:
		state = "■"
	case s.IsBuffering:
		state = m.spinner()
	case !s.IsPlaying:
		state = "⏸"
	}
	parts := []string{
		state,
		format.FormatTime(s.CurrentTimeSeconds) + " / " + format.FormatTime(s.DurationSeconds),
	}
	if s.PlaybackRate != 0 && s.PlaybackRate != 1 {
		parts = append(parts, fmt.Sprintf("%gx", s.PlaybackRate))
	}
	if s.IsMuted {
		parts = append(parts, "muted")
	}
	quality := s.QualityLevel
	if quality == "" && len(w.qualities) > 0 {
		quality = strings.Join(stream.Labels(w.qualities), ",")
	}
	if quality != "" {
		parts = append(parts, quality)
	}
	return "  " + styles.AccentStyle.Render(parts[0]) + " " + styles.SubtitleStyle.Render(strings.Join(parts[1:], "  "))
}

func (m Model) renderDetails(d *domain.VideoDetails, width int) string {
	var b strings.Builder

	channel := d.ChannelName()
	if d.Channel.Verified() {
		channel += " ✓"
	}
	sub := "[u] subscribe"
	if m.watch.toggles.Subscribed {
		sub = styles.SuccessStyle.Render("subscribed")
	}
	b.WriteString(styles.TitleStyle.Render(channel) + "  " + styles.DimStyle.Render(sub) + "\n")

	likes, dislikes := m.watch.reaction.Display(d.Likes.Int(), 0)
	like := fmt.Sprintf("👍 %s", format.CompactCount(likes))
	if m.watch.reaction.Liked {
		like = styles.AccentStyle.Render(like)
	}
	dislike := fmt.Sprintf("👎 %s", format.CompactCount(dislikes))
	if m.watch.reaction.Disliked {
		dislike = styles.AccentStyle.Render(dislike)
	}
	fav := "☆"
	if m.watch.toggles.Favorite {
		fav = styles.AccentStyle.Render("★")
	}

	views := d.Views
	if views.IsZero() {
		views = d.Stats.ViewCount
	}
	meta := []string{like, dislike, fav}
	if v := format.CountLabel(views, m.tr.T("watch.views")); v != "" {
		meta = append(meta, v)
	}
	if age := format.AgeLabel(firstNonEmpty(d.Publish.PublishDate, d.UploadDate), time.Now()); age != "" {
		meta = append(meta, age)
	}
	b.WriteString(strings.Join(meta, "  ") + "\n")

	desc := d.Description
	toggle := m.tr.T("watch.show_less")
	if !m.watch.expanded {
		lines := strings.SplitN(desc, "\n", 4)
		if len(lines) > 3 {
			desc = strings.Join(lines[:3], "\n")
		}
		if len([]rune(desc)) > width*2 {
			desc = format.Truncate(desc, width*2)
		}
		toggle = m.tr.T("watch.show_more")
	}
	if desc != "" {
		b.WriteString(styles.SubtitleStyle.Width(width - 2).Render(desc))
		b.WriteString("\n" + styles.DimStyle.Render("[e] "+toggle) + "\n")
	}
	return b.String()
}

func (m Model) renderUpNext(width int) string {
	var b strings.Builder
	heading := styles.TitleStyle
	if !m.watch.focusComments {
		heading = styles.AccentStyle.Bold(true)
	}
	b.WriteString(heading.Render(m.tr.T("watch.related")) + "\n")

	next := m.upNext()
	switch {
	case len(next) == 0 && m.watch.relatedErr != nil:
		b.WriteString(m.renderLoadError(m.watch.relatedErr))
	case len(next) == 0:
		b.WriteString(m.renderLoading())
	}
	start, end := visibleRange(m.watch.cursor, len(next), 8)
	for i := start; i < end; i++ {
		selected := !m.watch.focusComments && i == m.watch.cursor
		style := styles.NormalItemStyle
		if selected {
			style = styles.SelectedItemStyle
		}
		v := next[i]
		b.WriteString(style.Render(format.Truncate(v.Title, width-4)) + "\n")
		meta := v.ChannelName()
		if views := format.ViewsLabel(v.Views); views != "" {
			meta += " • " + views
		}
		b.WriteString(styles.DimStyle.Render("  "+format.Truncate(meta, width-4)) + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) renderComments(width int) string {
	var b strings.Builder
	heading := styles.TitleStyle
	if m.watch.focusComments {
		heading = styles.AccentStyle.Bold(true)
	}
	order := m.tr.T("comments.popular")
	if m.watch.sort == vote.SortRecent {
		order = m.tr.T("comments.recent")
	}
	b.WriteString(heading.Render(m.tr.T("comments.title")) + "  " + styles.DimStyle.Render("[o] "+order) + "\n")

	p := m.watch.comments
	comments := m.sortedComments()
	switch {
	case len(comments) == 0 && m.watch.commentsErr != nil:
		b.WriteString(m.renderLoadError(m.watch.commentsErr))
	case len(comments) == 0 && p != nil && (p.Loading() || p.HasMore()):
		b.WriteString(m.renderLoading())
	case len(comments) == 0:
		b.WriteString(styles.DimStyle.Render(m.tr.T("comments.empty")))
	}

	start, end := visibleRange(m.watch.commentCursor, len(comments), 6)
	for i := start; i < end; i++ {
		c := comments[i]
		selected := m.watch.focusComments && i == m.watch.commentCursor
		style := styles.NormalItemStyle
		if selected {
			style = styles.SelectedItemStyle
		}
		v := m.watch.board.Get(c.ID)
		mark := " "
		switch v.User {
		case vote.Up:
			mark = styles.AccentStyle.Render("▲")
		case vote.Down:
			mark = styles.AccentStyle.Render("▼")
		}
		head := fmt.Sprintf("%s %s · %s", mark, c.Author, c.Published)
		b.WriteString(style.Render(format.Truncate(head, width-2)) + "\n")
		b.WriteString(styles.SubtitleStyle.Width(width-2).Render("  "+format.Truncate(c.Content, width*2)) + "\n")
		b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  👍 %s", format.CompactCount(v.Likes))) + "\n")
	}
	if p != nil && p.Loading() && len(comments) > 0 {
		b.WriteString(m.renderLoading())
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) renderChannel() string {
	c := m.channel
	switch {
	case c.loading:
		return m.renderLoading()
	case c.err != nil:
		return m.renderLoadError(c.err)
	case c.info == nil:
		return styles.DimStyle.Render(m.tr.T("search.empty"))
	}

	info := c.info
	var b strings.Builder
	name := info.Name
	if info.Verified != nil && *info.Verified {
		name += " ✓"
	}
	b.WriteString(styles.TitleStyle.Render(name) + "\n")
	if m.settings.SafeMode {
		b.WriteString(styles.DimStyle.Render(styles.MaskedThumb) + "\n")
	}
	var stats []string
	for _, s := range []string{
		format.CountLabel(info.SubscriberCount, m.tr.T("watch.subscribers")),
		format.CountLabel(info.VideoCount, m.tr.T("watch.videos")),
		format.CountLabel(info.ViewCount, m.tr.T("watch.views")),
	} {
		if s != "" {
			stats = append(stats, s)
		}
	}
	if len(stats) > 0 {
		b.WriteString(styles.DimStyle.Render(strings.Join(stats, " • ")) + "\n")
	}
	if info.Description != "" {
		b.WriteString(styles.SubtitleStyle.Width(max(20, m.Width-2)).Render(format.Truncate(info.Description, m.Width*2)) + "\n")
	}
	b.WriteString("\n")

	rows := max(1, (m.Height-headerHeight-8)/2)
	start, end := visibleRange(c.cursor, len(info.Videos), rows)
	for i := start; i < end; i++ {
		b.WriteString(m.renderVideoRow(info.Videos[i], i == c.cursor, nil) + "\n")
	}
	return b.String()
}

func (m Model) renderNotFound() string {
	title := lipgloss.NewStyle().Foreground(styles.BrandOrange).Bold(true).Render(m.tr.T("notfound.title"))
	text := styles.SubtitleStyle.Render(m.tr.T("notfound.text"))
	back := styles.HelpKeyStyle.Render("enter") + " " + styles.HelpDescStyle.Render(m.tr.T("notfound.return"))
	box := lipgloss.JoinVertical(lipgloss.Center, title, "", text, "", back)
	return lipgloss.Place(m.Width, max(5, m.Height-headerHeight-2), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderWarning() string {
	width := min(70, max(30, m.Width-4))
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render("YouHub"),
		lipgloss.NewStyle().Width(width-6).Render(m.tr.T("warning.text")),
		"",
		styles.DimStyle.Width(width-6).Render(m.tr.T("warning.terms")),
		"",
		styles.ActivePillStyle.Render("⏎ "+m.tr.T("warning.enter")),
		styles.DimStyle.Render(m.tr.T("warning.parental")),
	)
	modal := styles.ModalStyle.Width(width).Render(content)
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) renderCookieBanner() string {
	text := m.tr.T("cookies.text") + m.tr.T("cookies.notice") + "."
	action := styles.ActivePillStyle.Render("A " + m.tr.T("cookies.ok"))
	return styles.BannerStyle.Width(max(10, m.Width)).Render(format.Truncate(text, max(10, m.Width-16)) + " " + action)
}

func (m Model) renderHelp() string {
	groups := [][]key.Binding{
		{Keys.Up, Keys.Down, Keys.Enter, Keys.Back, Keys.Home, Keys.NextTab, Keys.PrevTab, Keys.NextPill, Keys.PrevPill, Keys.Channel},
		{Keys.Search, Keys.Filter, Keys.Language, Keys.SafeMode, Keys.AcceptCookies, Keys.Help, Keys.Quit},
		{Keys.PlayPause, Keys.SeekBack, Keys.SeekForward, Keys.Slower, Keys.Faster, Keys.QualityUp, Keys.QualityDown, Keys.Mute, Keys.Fullscreen, Keys.Resume, Keys.Dismiss, Keys.Next, Keys.Share},
		{Keys.Like, Keys.Dislike, Keys.Favorite, Keys.Subscribe, Keys.Expand, Keys.FocusNext, Keys.SortToggle, Keys.VoteUp, Keys.VoteDown},
	}
	var cols []string
	for _, g := range groups {
		var b strings.Builder
		for _, k := range g {
			h := k.Help()
			b.WriteString(styles.HelpKeyStyle.Width(8).Render(h.Key) + styles.HelpDescStyle.Render(h.Desc) + "\n")
		}
		cols = append(cols, lipgloss.NewStyle().Width(28).Render(b.String()))
	}
	return styles.ModalTitleStyle.Render("Keys") + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (m Model) renderStatus() string {
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.SuccessStyle.Render(m.StatusMsg)
	}
	return styles.HelpKeyStyle.Render("?") + " " + styles.HelpDescStyle.Render("help") + "  " +
		styles.HelpKeyStyle.Render("S") + " " + styles.HelpDescStyle.Render("search") + "  " +
		styles.HelpKeyStyle.Render("L") + " " + styles.HelpDescStyle.Render("language")
}

func (m Model) renderLoading() string {
	return styles.DimStyle.Render(m.spinner() + " " + m.tr.T("status.loading"))
}

func (m Model) renderLoadError(err error) string {
	msg := m.tr.T("status.load_failed")
	if hint := domain.Suggestion(err); hint != "" {
		msg += ": " + hint
	}
	return styles.ErrorStyle.Render(msg) + " " + styles.DimStyle.Render("(enter to retry)")
}

func (m Model) spinner() string {
	return spinnerFrames[m.SpinnerFrame%len(spinnerFrames)]
}

// visibleRange returns the slice of n rows to show so the cursor stays
// on screen.
func visibleRange(cursor, n, rows int) (int, int) {
	if n <= rows {
		return 0, n
	}
	start := max(0, cursor-rows/2)
	end := start + rows
	if end > n {
		end = n
		start = n - rows
	}
	return start, end
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
