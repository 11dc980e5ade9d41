package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/coursematch/internal/adaptive"
	"github.com/abhisek/coursematch/internal/assessment"
	"github.com/abhisek/coursematch/internal/logging"
	"github.com/abhisek/coursematch/internal/screens/home"
	"github.com/abhisek/coursematch/internal/screens/welcome"
)

func TestNewAppModel_StartsOnWelcome(t *testing.T) {
	m := newAppModel(Options{UserID: 7, Logger: logging.Discard()})
	if _, ok := m.router.Active().(*welcome.WelcomeScreen); !ok {
		t.Errorf("initial screen = %T, want welcome", m.router.Active())
	}
}

func TestNewAppModel_SkipWelcome(t *testing.T) {
	m := newAppModel(Options{UserID: 7, SkipWelcome: true, Logger: logging.Discard()})
	if _, ok := m.router.Active().(*home.HomeScreen); !ok {
		t.Errorf("initial screen = %T, want home", m.router.Active())
	}
}

func TestHomeConfig_AssessmentNeedsNavigator(t *testing.T) {
	cfg := homeConfig(Options{UserID: 7, Logger: logging.Discard()})
	if cfg.NewAssessment != nil {
		t.Error("assessment factory should be nil without a navigator")
	}

	nav := assessment.NewNavigator(adaptive.NewMockClient())
	cfg = homeConfig(Options{UserID: 7, Navigator: nav, Logger: logging.Discard()})
	if cfg.NewAssessment == nil {
		t.Fatal("expected assessment factory")
	}
	if got := cfg.NewAssessment().Title(); got != "Assessment" {
		t.Errorf("factory built %q", got)
	}
}

func TestAppModel_ViewNeedsSize(t *testing.T) {
	m := newAppModel(Options{UserID: 7, SkipWelcome: true, Logger: logging.Discard()})
	if v := m.View(); !v.AltScreen {
		t.Error("expected alt screen")
	}

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	am := updated.(AppModel)
	if am.width != 100 || am.height != 40 {
		t.Errorf("size = %dx%d", am.width, am.height)
	}
	if am.View().Content == nil {
		t.Error("expected content once the size is known")
	}
	if !strings.Contains(am.router.View(100, 30), "USER #7") {
		t.Error("expected home stats to show the user")
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := newAppModel(Options{SkipWelcome: true, Logger: logging.Discard()})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
