package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/popcorn/internal/formatter"
	"github.com/desertthunder/popcorn/internal/models"
	"github.com/desertthunder/popcorn/internal/shared"
	"github.com/desertthunder/popcorn/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	SearchView ViewState = iota
	DetailView
	WatchedView
)

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	session   *tasks.Session
	width     int
	height    int
	input     textinput.Model
	results   list.Model
	watched   list.Model
	spinner   spinner.Model
	search    tasks.SearchState
	detail    tasks.DetailState
	status    string
	statusErr bool
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model around session.
func NewModel(ctx context.Context, session *tasks.Session) *Model {
	input := textinput.New()
	input.Placeholder = "Search movies..."
	input.Prompt = "🍿 "
	input.CharLimit = 120
	input.Focus()

	m := &Model{
		ctx:     ctx,
		view:    SearchView,
		session: session,
		input:   input,
		results: newList("Results"),
		watched: newList("Watched"),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.refreshWatched()
	return m
}

func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.DisableQuitKeybindings()
	return l
}

// Init starts the cursor blinking.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-8, 10)
		m.results.SetSize(msg.Width-4, msg.Height-10)
		m.watched.SetSize(msg.Width-4, msg.Height-12)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.exit) {
			m.session.Close()
			return m, tea.Quit
		}
		switch m.view {
		case SearchView:
			return m.handleSearchKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		case WatchedView:
			return m.handleWatchedKeys(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgSearchDone:
			out := msg.data.(tasks.SearchOutcome)
			if m.search.Apply(out) {
				m.results.SetItems(movieItems(m.search.Movies, m.watchlistContains))
				m.results.ResetSelected()
			}
			return m, nil
		case MsgDetailLoaded:
			out := msg.data.(tasks.DetailOutcome)
			m.detail.Apply(out)
			return m, nil
		}
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var body string
	switch m.view {
	case SearchView:
		body = m.renderSearch()
	case DetailView:
		body = m.renderDetail()
	case WatchedView:
		body = m.renderWatched()
	}

	if m.status != "" {
		style := styles.ok
		if m.statusErr {
			style = styles.err
		}
		body = fmt.Sprintf("%s\n%s", body, style.Render(m.status))
	}
	return body
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.tab):
		m.view = WatchedView
		m.refreshWatched()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.results.SelectedItem().(movieItem); ok {
			return m, m.openDetail(item.movie.ID)
		}
		return m, nil
	case msg.Type == tea.KeyUp || msg.Type == tea.KeyDown || msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		m.results, cmd = m.results.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.back):
		m.input.SetValue("")
		return m, m.startSearch("")
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.startSearch(m.input.Value()))
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.quit):
		m.session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.closeDetail()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		// Selecting the open movie again closes it.
		return m, m.openDetail(m.detail.ID)
	case key.Matches(msg, m.keys.tab):
		m.closeDetail()
		m.view = WatchedView
		m.refreshWatched()
		return m, nil
	case key.Matches(msg, m.keys.rate):
		n, _ := strconv.Atoi(msg.String())
		if n == 0 {
			n = models.MaxRating
		}
		m.detail.SetRating(float64(n))
	case key.Matches(msg, m.keys.more):
		m.detail.AdjustRating(1)
	case key.Matches(msg, m.keys.less):
		m.detail.AdjustRating(-1)
	case key.Matches(msg, m.keys.add):
		m.addSelected()
	}
	return m, nil
}

func (m *Model) handleWatchedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch {
	case key.Matches(msg, m.keys.quit):
		m.session.Close()
		return m, tea.Quit
	case key.Matches(msg, m.keys.tab), key.Matches(msg, m.keys.back):
		m.view = SearchView
		m.input.Focus()
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.watched.SelectedItem().(watchedItem); ok {
			return m, m.openDetail(item.movie.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.remove):
		if item, ok := m.watched.SelectedItem().(watchedItem); ok {
			m.removeWatched(item.movie)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.watched, cmd = m.watched.Update(msg)
	return m, cmd
}

// startSearch supersedes the previous search synchronously and runs the new one as a command.
func (m *Model) startSearch(query string) tea.Cmd {
	m.detail.Clear()
	m.status = ""
	run := m.session.StartSearch(m.ctx, query)

	m.search.Begin(query)
	if len([]rune(strings.TrimSpace(query))) < m.session.MinQueryLength() {
		// Short queries resolve without a request.
		m.search.Apply(run())
		m.results.SetItems(nil)
		return nil
	}

	return func() tea.Msg {
		return searchDoneMsg(run())
	}
}

func (m *Model) openDetail(id string) tea.Cmd {
	fetch, ok := m.session.Open(m.ctx, id)
	if !ok {
		m.closeDetail()
		return nil
	}

	m.detail.Begin(id)
	m.input.Blur()
	m.view = DetailView
	return func() tea.Msg {
		return detailLoadedMsg(fetch())
	}
}

func (m *Model) closeDetail() {
	m.session.CloseDetail()
	m.detail.Clear()
	m.view = SearchView
	m.input.Focus()
}

func (m *Model) addSelected() {
	if m.detail.Detail == nil {
		return
	}
	if m.detail.Rating <= 0 {
		m.setStatus("Pick a rating first (1-0, +/-)", true)
		return
	}

	title := m.detail.Detail.Title
	added, err := m.session.AddToWatchlist(*m.detail.Detail, m.detail.Rating)
	switch {
	case err != nil && errors.Is(err, shared.ErrPersistFailed):
		m.setStatus(fmt.Sprintf("Added %s, but saving the list failed", title), true)
	case err != nil:
		m.setStatus(err.Error(), true)
		return
	case !added:
		m.setStatus(fmt.Sprintf("%s is already on your list", title), true)
		return
	default:
		m.setStatus(fmt.Sprintf("Added %s", title), false)
	}

	m.closeDetail()
	m.refreshWatched()
}

func (m *Model) removeWatched(movie models.WatchedMovie) {
	if _, err := m.session.RemoveFromWatchlist(movie.ID); err != nil {
		m.setStatus(fmt.Sprintf("Removed %s, but saving the list failed", movie.Title), true)
	} else {
		m.setStatus(fmt.Sprintf("Removed %s", movie.Title), false)
	}
	m.refreshWatched()
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *Model) refreshWatched() {
	if store := m.session.Watchlist(); store != nil {
		m.watched.SetItems(watchedItems(store.List()))
	}
}

func (m *Model) watchlistContains(id string) bool {
	_, ok := m.watchedEntry(id)
	return ok
}

func (m *Model) watchedEntry(id string) (models.WatchedMovie, bool) {
	store := m.session.Watchlist()
	if store == nil {
		return models.WatchedMovie{}, false
	}
	return store.Get(id)
}

func (m *Model) renderSearch() string {
	title := styles.title.Render("popcorn")

	var body string
	switch {
	case m.search.Loading:
		body = fmt.Sprintf("%s Loading...", m.spinner.View())
	case m.search.Err != "":
		body = styles.err.Render("⛔️ " + m.search.Err)
	case len(m.search.Movies) == 0:
		body = styles.help.Render(fmt.Sprintf("Type at least %d characters to search.", m.session.MinQueryLength()))
	default:
		m.results.Title = fmt.Sprintf("Found %d results", len(m.search.Movies))
		body = m.results.View()
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.tab, m.keys.back, m.keys.exit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, m.input.View(), body, helpView)
}

func (m *Model) renderDetail() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.rate, m.keys.more, m.keys.less, m.keys.add, m.keys.back, m.keys.quit})

	switch {
	case m.detail.Loading:
		return fmt.Sprintf("%s Loading...\n\n%s", m.spinner.View(), helpView)
	case m.detail.Err != "":
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("⛔️ "+m.detail.Err), helpView)
	case m.detail.Detail == nil:
		return helpView
	}

	d := m.detail.Detail
	var b strings.Builder
	b.WriteString(styles.title.Render(fmt.Sprintf("%s (%s)", d.Title, d.Year)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s • %s\n", styles.label.Render("Released"), orDash(d.ReleaseDate), formatter.FormatRuntime(d.RuntimeMinutes))
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Genre"), orDash(d.Genre))
	fmt.Fprintf(&b, "⭐️ %s IMDb rating\n\n", formatter.FormatRating(d.CatalogRating))
	fmt.Fprintf(&b, "%s\n\n", lipgloss.NewStyle().Width(max(m.width-8, 20)).Italic(true).Render(orDash(d.Plot)))
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Starring"), orDash(d.Actors))
	fmt.Fprintf(&b, "%s %s\n", styles.label.Render("Directed by"), orDash(d.Director))

	var rating string
	if watched, ok := m.watchedEntry(d.ID); ok {
		rating = styles.ok.Render(fmt.Sprintf("You rated this movie %s ⭐️", formatter.FormatRating(watched.UserRating)))
	} else {
		rating = fmt.Sprintf("%s %s", styles.stars(m.detail.Rating), formatter.FormatRating(m.detail.Rating))
	}

	return fmt.Sprintf("%s\n%s\n\n%s", b.String(), styles.border.Render(rating), helpView)
}

func (m *Model) renderWatched() string {
	var stats models.WatchlistStats
	if store := m.session.Watchlist(); store != nil {
		stats = store.Stats()
	}

	summary := styles.border.Render(fmt.Sprintf(
		"#️⃣ %d movies  ⭐️ %s  🌟 %s  ⏳ %s",
		stats.Count,
		formatter.FormatRating(stats.AvgCatalogRating),
		formatter.FormatRating(stats.AvgUserRating),
		formatter.FormatRuntime(int(stats.AvgRuntime+0.5)),
	))

	body := m.watched.View()
	if stats.Count == 0 {
		body = styles.help.Render("Nothing here yet. Rate a movie and press a to add it.")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.remove, m.keys.tab, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", styles.title.Render("Movies you watched"), summary, body, helpView)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
