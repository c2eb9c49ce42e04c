package job

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookheaven-backend/internal/domains/like/model"
	"bookheaven-backend/internal/shared"
)

type MockLikeService struct {
	mock.Mock
}

func (m *MockLikeService) GetStatus(ctx context.Context, userID string, subject model.Subject) (*model.Status, error) {
	args := m.Called(ctx, userID, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Status), args.Error(1)
}

func (m *MockLikeService) Toggle(ctx context.Context, userID string, subject model.Subject) (*model.Status, error) {
	args := m.Called(ctx, userID, subject)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Status), args.Error(1)
}

func (m *MockLikeService) Reconcile(ctx context.Context, kinds ...model.SubjectKind) ([]model.ReconcileResult, error) {
	args := m.Called(ctx, kinds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReconcileResult), args.Error(1)
}

func TestProcessTask_ReconcilesRequestedKinds(t *testing.T) {
	t.Parallel()

	// Arrange
	svc := new(MockLikeService)
	svc.On("Reconcile", mock.Anything, []model.SubjectKind{model.SubjectShelf}).
		Return([]model.ReconcileResult{{Kind: model.SubjectShelf, Updated: 2}}, nil)
	task, err := NewReconcileCountsTask(model.SubjectShelf)
	require.NoError(t, err)

	// Act
	err = NewReconcileCountsHandler(svc).ProcessTask(context.Background(), task)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, shared.TypeReconcileLikeCounts, task.Type())
	svc.AssertExpectations(t)
}

func TestProcessTask_EmptyPayloadMeansAllKinds(t *testing.T) {
	t.Parallel()

	svc := new(MockLikeService)
	svc.On("Reconcile", mock.Anything, []model.SubjectKind{}).Return([]model.ReconcileResult{}, nil)
	task, err := NewReconcileCountsTask()
	require.NoError(t, err)

	require.NoError(t, NewReconcileCountsHandler(svc).ProcessTask(context.Background(), task))
	svc.AssertExpectations(t)
}

func TestProcessTask_BadPayloadSkipsRetry(t *testing.T) {
	t.Parallel()

	svc := new(MockLikeService)
	h := NewReconcileCountsHandler(svc)

	err := h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeReconcileLikeCounts, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	err = h.ProcessTask(context.Background(), asynq.NewTask(shared.TypeReconcileLikeCounts, []byte(`{"kinds":["author"]}`)))
	assert.ErrorIs(t, err, asynq.SkipRetry)

	svc.AssertNotCalled(t, "Reconcile", mock.Anything, mock.Anything)
}

func TestProcessTask_ServiceErrorRetries(t *testing.T) {
	t.Parallel()

	svc := new(MockLikeService)
	svc.On("Reconcile", mock.Anything, []model.SubjectKind{}).Return(nil, errors.New("db down"))
	task, _ := NewReconcileCountsTask()

	err := NewReconcileCountsHandler(svc).ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}
