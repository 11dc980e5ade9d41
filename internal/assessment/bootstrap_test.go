package assessment

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/coursematch/internal/profile"
)

func TestBootstrap_Check(t *testing.T) {
	lookupErr := errors.New("profile service down")

	tests := []struct {
		name      string
		userID    int64
		checker   *profile.Static
		wantErr   error
		wantCalls int
	}{
		{"complete", 7, &profile.Static{Complete: true}, nil, 1},
		{"no user", 0, &profile.Static{Complete: true}, ErrMissingUser, 0},
		{"negative user", -3, &profile.Static{Complete: true}, ErrMissingUser, 0},
		{"incomplete", 7, &profile.Static{Complete: false}, ErrProfileIncomplete, 1},
		{"lookup error", 7, &profile.Static{Err: lookupErr}, lookupErr, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBootstrap(tt.checker)
			err := b.Check(context.Background(), tt.userID)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Check = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Check = %v, want %v", err, tt.wantErr)
			}
			if tt.checker.Calls != tt.wantCalls {
				t.Errorf("profile calls = %d, want %d", tt.checker.Calls, tt.wantCalls)
			}
		})
	}
}

func TestBootstrap_NilChecker(t *testing.T) {
	var b *Bootstrap
	if err := b.Check(context.Background(), 7); err != nil {
		t.Errorf("nil Bootstrap Check = %v, want nil", err)
	}
	if err := b.Check(context.Background(), 0); !errors.Is(err, ErrPrecondition) {
		t.Errorf("nil Bootstrap Check(0) = %v, want precondition error", err)
	}
}
