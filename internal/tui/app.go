package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/jfmyers9/gnlookup/internal/tagger"
	"github.com/jfmyers9/gnlookup/pkg/gracenote"
	"github.com/rivo/tview"
)

// OETLoader fetches artist origin, era and type for an album ID
type OETLoader func(ctx context.Context, gnID string) (gracenote.OET, error)

// Config holds TUI configuration options
type Config struct {
	Title      string        // Shown in the album list border
	LoadOET    OETLoader     // Optional: bound to the 'o' key
	OETTimeout time.Duration // Timeout for one OET load
}

// DefaultConfig returns the default TUI configuration
func DefaultConfig() Config {
	return Config{
		Title:      " Albums ",
		OETTimeout: 15 * time.Second,
	}
}

// App is the TUI for browsing album search results
type App struct {
	app     *tview.Application
	list    *tview.List
	details *tview.TextView
	status  *tview.TextView

	config Config

	// mu guards albums, which OET loads update in the background
	mu     sync.Mutex
	albums []gracenote.Album

	// loading is set while an OET load is in flight. Only touched on the
	// event goroutine.
	loading bool

	// Context cancel function
	cancelFunc context.CancelFunc
}

// New creates a new album browser with default config
func New(albums []gracenote.Album) *App {
	return NewWithConfig(albums, DefaultConfig())
}

// NewWithConfig creates a new album browser with the given config
func NewWithConfig(albums []gracenote.Album, cfg Config) *App {
	if cfg.OETTimeout <= 0 {
		cfg.OETTimeout = DefaultConfig().OETTimeout
	}
	a := &App{
		app:    tview.NewApplication(),
		config: cfg,
		albums: albums,
	}
	a.setupUI()
	return a
}

// setupUI creates the UI layout
func (a *App) setupUI() {
	// Album list
	a.list = tview.NewList().
		ShowSecondaryText(true).
		SetHighlightFullLine(true)
	a.list.SetBorder(true).
		SetTitle(a.config.Title).
		SetTitleAlign(tview.AlignLeft)

	for _, album := range a.albums {
		a.list.AddItem(albumLabel(album), albumSubtitle(album), 0, nil)
	}

	// Details panel
	a.details = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true)
	a.details.SetBorder(true).
		SetTitle(" Details ").
		SetTitleAlign(tview.AlignLeft)

	// Status bar
	a.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText(statusText(a.config.LoadOET != nil, ""))

	a.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		a.showAlbum(index)
	})

	// Layout: album list | details, status bar footer
	body := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(a.list, 0, 1, true).
		AddItem(a.details, 0, 2, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(a.status, 1, 1, false)

	// Handle keyboard input
	a.app.SetInputCapture(a.handleKeyEvent)

	a.app.SetRoot(flex, true).SetFocus(a.list)

	if len(a.albums) > 0 {
		a.showAlbum(0)
	} else {
		a.details.SetText("\n[gray]No albums found[-]")
	}
}

// handleKeyEvent processes keyboard input
func (a *App) handleKeyEvent(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q', 'Q':
		a.app.Stop()
		return nil
	case 'o', 'O':
		a.loadOET(a.list.GetCurrentItem())
		return nil
	}
	return event
}

// Run starts the TUI and blocks until it exits
func (a *App) Run(ctx context.Context) error {
	// Create cancellable context
	ctx, a.cancelFunc = context.WithCancel(ctx)
	defer a.cancelFunc()

	go func() {
		<-ctx.Done()
		a.app.Stop()
	}()

	// Run application
	if err := a.app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// showAlbum renders the album at index into the details panel
func (a *App) showAlbum(index int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if index < 0 || index >= len(a.albums) {
		return
	}
	a.details.SetText(renderDetails(a.albums[index]))
	a.details.ScrollToBeginning()
}

// loadOET fetches OET data for the album at index in the background and
// redraws the details panel when it arrives. Only one load runs at a time.
func (a *App) loadOET(index int) {
	if a.config.LoadOET == nil || a.cancelFunc == nil || a.loading {
		return
	}

	a.mu.Lock()
	if index < 0 || index >= len(a.albums) {
		a.mu.Unlock()
		return
	}
	gnID := a.albums[index].ID
	a.mu.Unlock()

	a.loading = true
	a.status.SetText(statusText(true, "Loading origin, era and type..."))

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.config.OETTimeout)
		defer cancel()

		oet, err := a.config.LoadOET(ctx, gnID)

		a.app.QueueUpdateDraw(func() {
			a.finishOET(index, oet, err)
		})
	}()
}

// finishOET applies a completed OET load. Runs on the event goroutine.
func (a *App) finishOET(index int, oet gracenote.OET, err error) {
	a.loading = false

	if err != nil {
		a.status.SetText(statusText(true, "[red]"+tview.Escape(err.Error())+"[-]"))
		return
	}

	a.mu.Lock()
	a.albums[index] = applyOET(a.albums[index], oet)
	a.mu.Unlock()

	a.status.SetText(statusText(true, ""))
	if a.list.GetCurrentItem() == index {
		a.showAlbum(index)
	}
}

// applyOET replaces the album's OET taxonomies
func applyOET(album gracenote.Album, oet gracenote.OET) gracenote.Album {
	album.ArtistOrigin = oet.Origin
	album.ArtistEra = oet.Era
	album.ArtistType = oet.Type
	return album
}

func statusText(canLoadOET bool, message string) string {
	keys := "[gray]q:quit  up/down:select"
	if canLoadOET {
		keys += "  o:reload origin/era/type"
	}
	keys += "[-]"
	if message != "" {
		return message + "  " + keys
	}
	return keys
}

// albumLabel is the list entry for an album, e.g. "Muse - Absolution"
func albumLabel(album gracenote.Album) string {
	return tview.Escape(album.ArtistName + " - " + album.Title)
}

// albumSubtitle is the secondary list line, e.g. "2003  Rock"
func albumSubtitle(album gracenote.Album) string {
	parts := make([]string, 0, 2)
	if album.Year != "" {
		parts = append(parts, album.Year)
	}
	if genre := tagger.MostSpecific(album.Genre); genre != "" {
		parts = append(parts, genre)
	}
	return tview.Escape(strings.Join(parts, "  "))
}

// renderDetails builds the details panel text with tview color tags
func renderDetails(album gracenote.Album) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[white::b]%s[-:-:-]\n", tview.Escape(album.Title)))
	sb.WriteString(fmt.Sprintf("[yellow]%s[-]\n", tview.Escape(album.ArtistName)))
	if album.Year != "" {
		sb.WriteString(fmt.Sprintf("[gray]%s[-]\n", tview.Escape(album.Year)))
	}
	sb.WriteString("\n")

	rows := []struct {
		label   string
		entries []gracenote.TaxonomyEntry
	}{
		{"Genre", album.Genre},
		{"Origin", album.ArtistOrigin},
		{"Era", album.ArtistEra},
		{"Type", album.ArtistType},
	}
	for _, r := range rows {
		if len(r.entries) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("[aqua]%-7s[-] %s\n", r.label, tview.Escape(tagger.JoinTaxonomy(r.entries))))
	}

	if album.CoverArtURL != "" {
		sb.WriteString(fmt.Sprintf("[aqua]%-7s[-] %s\n", "Cover", tview.Escape(album.CoverArtURL)))
	}

	if len(album.Tracks) > 0 {
		sb.WriteString("\n")
		for _, t := range album.Tracks {
			line := fmt.Sprintf("%2d. %s", t.Number, tview.Escape(t.Title))
			if t.ArtistName != "" && t.ArtistName != album.ArtistName {
				line += fmt.Sprintf(" [gray](%s)[-]", tview.Escape(t.ArtistName))
			}
			if mood := tagger.MostSpecific(t.Mood); mood != "" {
				line += fmt.Sprintf(" [green]%s[-]", tview.Escape(mood))
			}
			sb.WriteString(line + "\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\n[gray]%s[-]", tview.Escape(album.ID)))
	return sb.String()
}
