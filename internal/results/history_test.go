package results

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/coursematch/internal/adaptive"
	"github.com/abhisek/coursematch/internal/store"
)

func TestSaveAndLoad(t *testing.T) {
	s, err := store.Open("file:results_history?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	rec := Aggregate("s-42", adaptive.Completion{
		TraitsDiscovered: adaptive.TallyOf(3),
		Recommendations: []adaptive.Recommendation{
			{CourseName: "BS CS", MatchPercentage: rawJSON(`92`)},
			{CourseName: "BS IT", MatchPercentage: rawJSON(`"N/A"`)},
		},
	})

	id, err := Save(ctx, s.ResultRepo(), 7, rec)
	require.NoError(t, err)

	list, err := s.ResultRepo().List(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "BS CS", list[0].TopCourse)
	assert.Equal(t, 2, list[0].CourseCount)

	got, err := Load(ctx, s.ResultRepo(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "s-42", got.SessionID())
	assert.Equal(t, 75.0, got.Course(1).Score)

	missing, err := Load(ctx, s.ResultRepo(), id+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
