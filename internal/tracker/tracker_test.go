package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/spboyer/kcal/internal/estimator"
	"github.com/spboyer/kcal/internal/ledger"
	"github.com/spboyer/kcal/internal/models"
)

func bento() *models.NutritionRecord {
	return &models.NutritionRecord{
		Name:     "雞腿便當",
		Calories: models.Float(700),
		Protein:  models.Float(35),
		Fat:      models.Float(25),
		Carbs:    models.Float(80),
	}
}

func malformed() error {
	return &estimator.EstimationError{Kind: estimator.MalformedResponse, Err: errors.New("content is not JSON")}
}

func TestSubmit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)
	est.EXPECT().Estimate(gomock.Any(), "雞腿便當").Return(bento(), nil)

	tr := New(est)
	out, err := tr.Submit(context.Background(), " 雞腿便當 ")
	require.NoError(t, err)

	assert.Equal(t, StatusAccepted, out.Status)
	assert.Equal(t, "雞腿便當", out.Record.Name)
	assert.Empty(t, out.Draft)
	assert.Empty(t, out.Notice)
	assert.Equal(t, Idle, tr.State())
	assert.Empty(t, tr.Draft())
	assert.Equal(t, 1, tr.Ledger().Len())
	assert.Equal(t, 700.0, tr.Ledger().Aggregate().Calories)
}

func TestSubmit_BlankInputIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl) // any call fails the test

	tr := New(est)
	for _, input := range []string{"", "  ", "\t\n"} {
		out, err := tr.Submit(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, StatusIgnored, out.Status)
		assert.Empty(t, out.Notice)
		assert.Nil(t, out.Record)
	}
	assert.Equal(t, 0, tr.Ledger().Len())
	assert.Equal(t, Idle, tr.State())
}

func TestSubmit_MalformedReplyKeepsDraft(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)
	est.EXPECT().Estimate(gomock.Any(), "牛肉麵").Return(nil, malformed()).Times(1)

	tr := New(est)
	out, err := tr.Submit(context.Background(), "牛肉麵")
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, "無法解析回傳結果，請再試一次", out.Notice)
	assert.Equal(t, "牛肉麵", out.Draft)
	assert.ErrorIs(t, out.Err, estimator.ErrMalformedResponse)
	assert.Equal(t, Failed, tr.State())
	assert.Equal(t, "牛肉麵", tr.Draft())
	assert.Equal(t, 0, tr.Ledger().Len())
}

func TestSubmit_TransportAndParseFailuresShareNotice(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)
	gomock.InOrder(
		est.EXPECT().Estimate(gomock.Any(), "a").Return(nil, malformed()),
		est.EXPECT().Estimate(gomock.Any(), "a").Return(nil, &estimator.EstimationError{
			Kind: estimator.TransportFailure,
			Err:  errors.New("status code: 401"),
		}),
	)

	tr := New(est, WithNotice("try again"))
	first, err := tr.Submit(context.Background(), "a")
	require.NoError(t, err)
	second, err := tr.Submit(context.Background(), "a")
	require.NoError(t, err)

	assert.Equal(t, "try again", first.Notice)
	assert.Equal(t, first.Notice, second.Notice)
	assert.ErrorIs(t, first.Err, estimator.ErrMalformedResponse)
	assert.ErrorIs(t, second.Err, estimator.ErrTransportFailure)
}

func TestSubmit_RetryAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)
	gomock.InOrder(
		est.EXPECT().Estimate(gomock.Any(), "雞腿便當").Return(nil, malformed()),
		est.EXPECT().Estimate(gomock.Any(), "雞腿便當").Return(bento(), nil),
	)

	tr := New(est)
	out, err := tr.Submit(context.Background(), "雞腿便當")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, out.Status)

	out, err = tr.Submit(context.Background(), tr.Draft())
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
	assert.Equal(t, Idle, tr.State())
	assert.Empty(t, tr.Draft())
	assert.Equal(t, 1, tr.Ledger().Len())
}

func TestSubmit_PreservesOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)
	est.EXPECT().Estimate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d string) (*models.NutritionRecord, error) {
			return &models.NutritionRecord{Name: d}, nil
		}).
		Times(3)

	l := ledger.New()
	tr := New(est, WithLedger(l))
	for _, name := range []string{"A", "B", "C"} {
		_, err := tr.Submit(context.Background(), name)
		require.NoError(t, err)
	}

	records := l.Records()
	require.Len(t, records, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{records[0].Name, records[1].Name, records[2].Name})
}

func TestSubmit_AggregateAfterMixedRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)
	gomock.InOrder(
		est.EXPECT().Estimate(gomock.Any(), "A").Return(&models.NutritionRecord{
			Name: "A", Calories: models.Float(500), Protein: models.Float(20), Fat: models.Float(10), Carbs: models.Float(60),
		}, nil),
		est.EXPECT().Estimate(gomock.Any(), "B").Return(&models.NutritionRecord{
			Name: "B", Calories: models.Float(300), Protein: models.Float(10), Fat: models.Float(5),
		}, nil),
	)

	tr := New(est)
	_, err := tr.Submit(context.Background(), "A")
	require.NoError(t, err)
	_, err = tr.Submit(context.Background(), "B")
	require.NoError(t, err)

	assert.Equal(t, models.Totals{Entries: 2, Calories: 800, Protein: 30, Fat: 15, Carbs: 60}, tr.Ledger().Aggregate())
}

func TestSubmit_RejectsSecondSubmissionWhileInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)

	started := make(chan struct{})
	release := make(chan struct{})
	est.EXPECT().Estimate(gomock.Any(), "slow").
		DoAndReturn(func(context.Context, string) (*models.NutritionRecord, error) {
			close(started)
			<-release
			return &models.NutritionRecord{Name: "slow"}, nil
		}).
		Times(1)

	tr := New(est)

	done := make(chan *Outcome, 1)
	go func() {
		out, err := tr.Submit(context.Background(), "slow")
		assert.NoError(t, err)
		done <- out
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("estimator was never called")
	}
	assert.Equal(t, Submitting, tr.State())

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			out, err := tr.Submit(context.Background(), "slow")
			if !errors.Is(err, ErrSubmissionInFlight) {
				return errors.New("expected ErrSubmissionInFlight")
			}
			if out != nil {
				return errors.New("expected no outcome")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	close(release)
	out := <-done
	assert.Equal(t, StatusAccepted, out.Status)
	assert.Equal(t, Idle, tr.State())
	assert.Equal(t, 1, tr.Ledger().Len())
}

func TestSubmit_PanicReleasesGuard(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)
	gomock.InOrder(
		est.EXPECT().Estimate(gomock.Any(), "boom").
			DoAndReturn(func(context.Context, string) (*models.NutritionRecord, error) {
				panic("kaboom")
			}),
		est.EXPECT().Estimate(gomock.Any(), "boom").Return(bento(), nil),
	)

	tr := New(est)
	out, err := tr.Submit(context.Background(), "boom")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Contains(t, out.Err.Error(), "kaboom")
	assert.Equal(t, Failed, tr.State())

	out, err = tr.Submit(context.Background(), "boom")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, out.Status)
}

func TestSubmit_NilRecordIsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	est := NewMockEstimator(ctrl)
	est.EXPECT().Estimate(gomock.Any(), "x").Return(nil, nil)

	tr := New(est)
	out, err := tr.Submit(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, out.Status)
	assert.Equal(t, 0, tr.Ledger().Len())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "submitting", Submitting.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "state(7)", State(7).String())
}
