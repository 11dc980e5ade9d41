// Package welcome is the splash screen shown at launch.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/coursematch/internal/router"
	"github.com/abhisek/coursematch/internal/screen"
	"github.com/abhisek/coursematch/internal/ui/theme"
)

const (
	frameInterval = 80 * time.Millisecond

	// The splash plays in three stages: the cap alone, the cap with
	// sparkles, then the banner with a typed-out tagline.
	sparkleAt = 400 * time.Millisecond
	bannerAt  = 1200 * time.Millisecond

	// typeSpeed is the time per tagline character.
	typeSpeed = 40 * time.Millisecond

	// autoAdvance moves on to home without a keypress.
	autoAdvance = 6 * time.Second
)

const tagline = "Find the course that fits you"

const capArt = `      ╱╲
    ╱    ╲
  ╱   ◆    ╲
  ╲        ╱│
    ╲    ╱  │
      ╲╱    ●`

var sparkles = [...]string{"✦", "★", "✧"}

type frameMsg struct{}

type stage int

const (
	stageCap stage = iota
	stageSparkle
	stageBanner
)

// WelcomeScreen plays the splash, then replaces itself with the screen
// built by next.
type WelcomeScreen struct {
	next  func() screen.Screen
	clock time.Duration
	frame int
	done  bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string { return "" }

func (w *WelcomeScreen) Init() tea.Cmd { return nextFrame() }

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case frameMsg:
		if w.done {
			return w, nil
		}
		w.clock += frameInterval
		w.frame++
		if w.clock >= autoAdvance {
			return w, w.leave()
		}
		return w, nextFrame()

	case tea.KeyPressMsg:
		return w, w.leave()
	}
	return w, nil
}

// leave builds the next screen at most once.
func (w *WelcomeScreen) leave() tea.Cmd {
	if w.done {
		return nil
	}
	w.done = true
	next := w.next()
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (w *WelcomeScreen) stage() stage {
	switch {
	case w.clock >= bannerAt:
		return stageBanner
	case w.clock >= sparkleAt:
		return stageSparkle
	}
	return stageCap
}

// typed returns the part of the tagline revealed so far.
func (w *WelcomeScreen) typed() string {
	n := int((w.clock - bannerAt) / typeSpeed)
	runes := []rune(tagline)
	if n > len(runes) {
		n = len(runes)
	}
	if n < 0 {
		n = 0
	}
	return string(runes[:n])
}

func (w *WelcomeScreen) View(width, height int) string {
	lines := strings.Split(lipgloss.NewStyle().Foreground(theme.Highlight).Render(capArt), "\n")

	st := w.stage()
	if st >= stageSparkle {
		a := lipgloss.NewStyle().Foreground(theme.Accent).Render(sparkles[w.frame%len(sparkles)])
		b := lipgloss.NewStyle().Foreground(theme.Secondary).Render(sparkles[(w.frame+1)%len(sparkles)])
		last := len(lines) - 1
		lines[0] = a + "  " + lines[0] + "  " + b
		lines[last] = b + "  " + lines[last] + "  " + a
	}

	parts := []string{strings.Join(lines, "\n")}
	if st == stageBanner {
		parts = append(parts,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(w.typed()),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(parts, "\n"))
}
