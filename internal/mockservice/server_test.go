package mockservice_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursematch/internal/adaptive"
	"github.com/abhisek/coursematch/internal/assessment"
	"github.com/abhisek/coursematch/internal/logging"
	"github.com/abhisek/coursematch/internal/mockservice"
	"github.com/abhisek/coursematch/internal/profile"
)

func newServer(t *testing.T, opts mockservice.Options) *httptest.Server {
	t.Helper()
	svc := mockservice.New(opts)
	server := httptest.NewServer(mockservice.NewRouter(svc, logging.Discard()))
	t.Cleanup(server.Close)
	return server
}

func newNavigator(server *httptest.Server) *assessment.Navigator {
	client := adaptive.NewHTTPClient(server.URL, adaptive.WithTimeout(2*time.Second))
	checker := profile.NewHTTPChecker(server.URL, 2*time.Second)
	return assessment.NewNavigator(client,
		assessment.WithBootstrap(assessment.NewBootstrap(checker)),
		assessment.WithTransitionDelay(0),
		assessment.WithLogger(logging.Discard()),
	)
}

func TestFullAssessment(t *testing.T) {
	server := newServer(t, mockservice.Options{})
	nav := newNavigator(server)
	ctx := context.Background()

	s, err := nav.Start(ctx, 7, 6)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentRound)
	assert.Equal(t, 6, s.MaxRounds)
	assert.Equal(t, 3, s.MinRounds)
	assert.NotEmpty(t, s.ID)

	for s.CurrentRound < 6 && !s.Complete {
		s, err = nav.Answer(ctx, s.Question.ID, s.Question.Options[0].ID)
		require.NoError(t, err)
	}
	require.False(t, s.Complete)
	assert.Equal(t, 6, s.CurrentRound)
	assert.True(t, s.CanFinishEarly)

	s, err = nav.Answer(ctx, s.Question.ID, s.Question.Options[0].ID)
	require.NoError(t, err)
	require.True(t, s.Complete)
	require.NotNil(t, s.Result)
	assert.Equal(t, 8, s.Result.Len())

	for _, c := range s.Result.Courses() {
		assert.GreaterOrEqual(t, c.Score, 0.0)
		assert.LessOrEqual(t, c.Score, 100.0)
	}
	assert.NotEmpty(t, s.Result.TraitSummary())
}

func TestPreviousAndFinishEarly(t *testing.T) {
	server := newServer(t, mockservice.Options{})
	nav := newNavigator(server)
	ctx := context.Background()

	s, err := nav.Start(ctx, 7, 4)
	require.NoError(t, err)

	_, err = nav.Finish(ctx)
	assert.ErrorIs(t, err, assessment.ErrFinishNotAllowed)

	s, err = nav.Answer(ctx, s.Question.ID, "2")
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentRound)
	assert.True(t, s.CanFinishEarly)

	s, err = nav.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s.CurrentRound)
	assert.Equal(t, "q1", s.Question.ID)
	assert.False(t, s.CanFinishEarly)

	s, err = nav.Answer(ctx, s.Question.ID, "1")
	require.NoError(t, err)
	require.True(t, s.CanFinishEarly)

	s, err = nav.Finish(ctx)
	require.NoError(t, err)
	assert.True(t, s.Complete)
	top, ok := s.Result.Top()
	require.True(t, ok)
	assert.NotEmpty(t, top.Name)
}

func TestIncompleteProfileBlocksStart(t *testing.T) {
	server := newServer(t, mockservice.Options{IncompleteProfiles: []int64{9}})
	nav := newNavigator(server)

	_, err := nav.Start(context.Background(), 9, 10)
	assert.ErrorIs(t, err, assessment.ErrProfileIncomplete)
	assert.Nil(t, nav.Snapshot())
}

func TestServiceErrorsSurfaceVerbatim(t *testing.T) {
	server := newServer(t, mockservice.Options{})
	client := adaptive.NewHTTPClient(server.URL)

	_, err := client.Previous(context.Background(), adaptive.PreviousRequest{SessionID: "nope"})
	var svc *adaptive.ServiceError
	require.True(t, errors.As(err, &svc))
	assert.Equal(t, http.StatusNotFound, svc.StatusCode)
	assert.Equal(t, "Session not found", err.Error())
}

func TestHealthAndRequestID(t *testing.T) {
	server := newServer(t, mockservice.Options{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 8)
}
