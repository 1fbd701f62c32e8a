package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/Raymond9734/crm-backend/internal/models"
	"github.com/Raymond9734/crm-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRunner struct {
	err   error
	kinds []string
}

func (m *mockRunner) Run(ctx context.Context, kind string) error {
	m.kinds = append(m.kinds, kind)
	return m.err
}

type mockPublisher struct {
	err  error
	jobs []*models.JobMessage
}

func (m *mockPublisher) Publish(ctx context.Context, job *models.JobMessage) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func TestProcess_Success(t *testing.T) {
	runner := &mockRunner{}
	pub := &mockPublisher{}
	p := NewJobProcessor(runner, pub, 3, testutil.Logger(t))

	err := p.Process(context.Background(), &models.JobMessage{ID: "1", Kind: models.JobHeartbeat})
	require.NoError(t, err)
	assert.Equal(t, []string{models.JobHeartbeat}, runner.kinds)
	assert.Empty(t, pub.jobs)
}

func TestProcess_UnknownKindDropped(t *testing.T) {
	runner := &mockRunner{}
	p := NewJobProcessor(runner, &mockPublisher{}, 3, testutil.Logger(t))

	require.NoError(t, p.Process(context.Background(), &models.JobMessage{ID: "1", Kind: "reboot"}))
	assert.Empty(t, runner.kinds)
}

func TestProcess_FailureRequeues(t *testing.T) {
	runErr := errors.New("api down")
	pub := &mockPublisher{}
	p := NewJobProcessor(&mockRunner{err: runErr}, pub, 3, testutil.Logger(t))

	job := &models.JobMessage{ID: "1", Kind: models.JobOrderReminders, Attempt: 0}
	err := p.Process(context.Background(), job)
	require.Error(t, err)
	assert.ErrorIs(t, err, runErr)

	require.Len(t, pub.jobs, 1)
	assert.Equal(t, 1, pub.jobs[0].Attempt)
	assert.Equal(t, "1", pub.jobs[0].ID)
	assert.Equal(t, 0, job.Attempt)
}

func TestProcess_MaxRetriesExhausted(t *testing.T) {
	pub := &mockPublisher{}
	p := NewJobProcessor(&mockRunner{err: errors.New("api down")}, pub, 3, testutil.Logger(t))

	err := p.Process(context.Background(), &models.JobMessage{ID: "1", Kind: models.JobLowStock, Attempt: 2})
	assert.NoError(t, err)
	assert.Empty(t, pub.jobs)
}

func TestProcess_RequeueFails(t *testing.T) {
	pub := &mockPublisher{err: errors.New("redis down")}
	p := NewJobProcessor(&mockRunner{err: errors.New("api down")}, pub, 3, testutil.Logger(t))

	err := p.Process(context.Background(), &models.JobMessage{ID: "1", Kind: models.JobLowStock})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to requeue job")
}
