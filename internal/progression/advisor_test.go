package progression_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/fittrack/internal/progression"
	"github.com/2beens/fittrack/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener"),
	)
}

func fixedNow(date string) func() time.Time {
	return func() time.Time {
		d, err := pkg.ParseDate(date)
		if err != nil {
			panic(err)
		}
		return d.Add(15 * time.Hour)
	}
}

func mustDate(t *testing.T, s string) pkg.Date {
	t.Helper()
	d, err := pkg.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestRecommend(t *testing.T) {
	for _, tc := range []struct {
		name   string
		weight float64
		reps   int
		rpe    int
		want   float64
	}{
		{"easy ten", 100, 10, 7, 105},
		{"very easy ten", 100, 10, 5, 105},
		{"rpe 8 ten", 100, 10, 8, 102.5},
		{"rpe 9 keeps weight", 100, 5, 9, 100},
		{"rpe 9 ten keeps weight", 100, 10, 9, 100},
		{"rpe 10 drops", 100, 10, 10, 97.5},
		{"many reps fallback", 100, 12, 8, 102.5},
		{"eight reps fallback", 100, 8, 6, 100},
		{"few reps fallback", 100, 5, 6, 97.5},
		{"rounded", 60.123, 10, 7, 65.12},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, progression.Recommend(tc.weight, tc.reps, tc.rpe))
		})
	}
}

func TestAdvisor_AverageRepsLastWeek(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, fixedNow("2024-05-10"))

	repoMock.EXPECT().
		ListByExercise(gomock.Any(), "bench").
		Return([]progression.Session{
			{Exercise: "bench", Weight: 80, Reps: 10, RPE: 8, Date: mustDate(t, "2024-05-10")},
			{Exercise: "bench", Weight: 80, Reps: 7, RPE: 9, Date: mustDate(t, "2024-05-03")},
			// older than 7 days
			{Exercise: "bench", Weight: 75, Reps: 2, RPE: 9, Date: mustDate(t, "2024-05-02")},
			// exact name match only
			{Exercise: "Bench", Weight: 75, Reps: 1, RPE: 9, Date: mustDate(t, "2024-05-09")},
		}, nil).
		Times(1)

	avg, ok, err := advisor.AverageRepsLastWeek(context.Background(), "bench")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 8.5, avg)
}

func TestAdvisor_AverageRepsLastWeek_NoData(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, fixedNow("2024-05-10"))

	repoMock.EXPECT().
		ListByExercise(gomock.Any(), "squat").
		Return([]progression.Session{
			{Exercise: "squat", Weight: 100, Reps: 5, RPE: 8, Date: mustDate(t, "2024-04-01")},
		}, nil)

	avg, ok, err := advisor.AverageRepsLastWeek(context.Background(), "squat")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, avg)
}

func TestAdvisor_AverageRepsLastWeek_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, fixedNow("2024-05-10"))

	repoErr := errors.New("disk gone")
	repoMock.EXPECT().ListByExercise(gomock.Any(), "squat").Return(nil, repoErr)

	_, _, err := advisor.AverageRepsLastWeek(context.Background(), "squat")
	require.ErrorIs(t, err, repoErr)
}

func TestAdvisor_LogSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, fixedNow("2024-05-10"))

	expected := progression.Session{
		Exercise: "bench",
		Weight:   100,
		Reps:     10,
		RPE:      7,
		Date:     mustDate(t, "2024-05-10"),
	}

	gomock.InOrder(
		repoMock.EXPECT().Add(gomock.Any(), expected).Return(nil),
		repoMock.EXPECT().
			ListByExercise(gomock.Any(), "bench").
			Return([]progression.Session{expected}, nil),
	)

	result, err := advisor.LogSession(context.Background(), progression.SessionInput{
		Exercise: "  bench ",
		Weight:   100,
		Reps:     10,
		RPE:      7,
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, expected, result.Session)
	assert.Equal(t, 105.0, result.NextWeight)
	require.NotNil(t, result.AvgRepsLastWeek)
	assert.Equal(t, 10.0, *result.AvgRepsLastWeek)
}

func TestAdvisor_LogSession_GivenDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, fixedNow("2024-05-10"))

	repoMock.EXPECT().
		Add(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s progression.Session) error {
			assert.Equal(t, "2024-01-02", s.Date.String())
			return nil
		})
	repoMock.EXPECT().ListByExercise(gomock.Any(), "row").Return(nil, nil)

	result, err := advisor.LogSession(context.Background(), progression.SessionInput{
		Exercise: "row",
		Weight:   50,
		Reps:     6,
		RPE:      8,
		Date:     "2024-01-02",
	})
	require.NoError(t, err)
	assert.Equal(t, 47.5, result.NextWeight)
	assert.Nil(t, result.AvgRepsLastWeek)
}

func TestAdvisor_LogSession_AverageErrorIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, fixedNow("2024-05-10"))

	repoMock.EXPECT().Add(gomock.Any(), gomock.Any()).Return(nil)
	repoMock.EXPECT().ListByExercise(gomock.Any(), "row").Return(nil, errors.New("read failed"))

	result, err := advisor.LogSession(context.Background(), progression.SessionInput{
		Exercise: "row",
		Weight:   50,
		Reps:     8,
		RPE:      9,
	})
	require.NoError(t, err)
	assert.Equal(t, 50.0, result.NextWeight)
	assert.Nil(t, result.AvgRepsLastWeek)
}

func TestAdvisor_LogSession_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	// no repo calls expected
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, nil)

	_, err := advisor.LogSession(context.Background(), progression.SessionInput{
		Exercise: " ",
		Weight:   0,
		Reps:     0,
		RPE:      11,
		Date:     "10/05/2024",
	})
	require.Error(t, err)

	var vErr *pkg.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Fields, 5)
	for _, field := range []string{"exercise", "weight", "reps", "rpe", "date"} {
		assert.Contains(t, vErr.Fields, field)
	}
}

func TestAdvisor_LogSession_AddError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, fixedNow("2024-05-10"))

	repoMock.EXPECT().Add(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	result, err := advisor.LogSession(context.Background(), progression.SessionInput{
		Exercise: "bench",
		Weight:   80,
		Reps:     5,
		RPE:      8,
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "disk full")
}

func TestAdvisor_History(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := NewMockSessionsRepo(ctrl)
	advisor := progression.NewAdvisor(repoMock, nil)

	all := []progression.Session{
		{Exercise: "bench", Weight: 70, Reps: 10, RPE: 7, Date: mustDate(t, "2024-05-01")},
		{Exercise: "bench", Weight: 75, Reps: 10, RPE: 8, Date: mustDate(t, "2024-05-05")},
		{Exercise: "bench", Weight: 77.5, Reps: 9, RPE: 9, Date: mustDate(t, "2024-05-09")},
	}
	repoMock.EXPECT().ListByExercise(gomock.Any(), "bench").Return(all, nil).Times(2)

	sessions, err := advisor.History(context.Background(), progression.HistoryParams{Exercise: "bench"})
	require.NoError(t, err)
	assert.Equal(t, all, sessions)

	from := mustDate(t, "2024-05-05")
	to := mustDate(t, "2024-05-05")
	sessions, err = advisor.History(context.Background(), progression.HistoryParams{
		Exercise: "bench",
		From:     &from,
		To:       &to,
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 75.0, sessions[0].Weight)
}
