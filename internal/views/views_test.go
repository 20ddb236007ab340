package views_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/service"
	"taskman/internal/testutil"
	"taskman/internal/views"
)

func ids(tasks []service.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func seeded() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask(3, "Three", "")
	svc.AddTask(7, "Seven", "")
	svc.AddTask(9, "Nine", "")
	return svc
}

func TestTaskList_DeleteSuccess(t *testing.T) {
	svc := seeded()
	v := views.NewTaskList(context.Background(), svc)
	defer v.Close()

	require.NoError(t, v.Load())
	assert.Equal(t, []int{3, 7, 9}, ids(v.Tasks()))

	require.NoError(t, v.Delete(7))
	assert.Equal(t, []int{3, 9}, ids(v.Tasks()))
	assert.Equal(t, []int{3, 9}, ids(svc.Tasks()))
}

func TestTaskList_DeleteFailureKeepsList(t *testing.T) {
	svc := seeded()
	svc.DeleteTaskErr = fmt.Errorf("%w: HTTP 500", service.ErrDelete)
	v := views.NewTaskList(context.Background(), svc)
	defer v.Close()

	require.NoError(t, v.Load())
	err := v.Delete(7)
	assert.ErrorIs(t, err, service.ErrDelete)
	assert.Equal(t, []int{3, 7, 9}, ids(v.Tasks()))
}

func TestTaskList_LoadError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.ListTasksErr = fmt.Errorf("%w: HTTP 401", service.ErrFetch)
	v := views.NewTaskList(context.Background(), svc)
	defer v.Close()

	assert.ErrorIs(t, v.Load(), service.ErrFetch)
	assert.Empty(t, v.Tasks())
}

func TestTaskList_Find(t *testing.T) {
	v := views.NewTaskList(context.Background(), seeded())
	defer v.Close()
	require.NoError(t, v.Load())

	task, ok := v.Find(9)
	assert.True(t, ok)
	assert.Equal(t, "Nine", task.Title)

	_, ok = v.Find(4)
	assert.False(t, ok)
}

// blockingService holds ListTasks and DeleteTask until release is closed.
type blockingService struct {
	*testutil.FakeService
	started chan struct{}
	release chan struct{}
}

func (b *blockingService) ListTasks(ctx context.Context) ([]service.Task, error) {
	close(b.started)
	<-b.release
	return b.FakeService.ListTasks(ctx)
}

func TestTaskList_LateResponseAfterClose(t *testing.T) {
	svc := &blockingService{FakeService: seeded(), started: make(chan struct{}), release: make(chan struct{})}
	v := views.NewTaskList(context.Background(), svc)

	done := make(chan error, 1)
	go func() { done <- v.Load() }()

	<-svc.started
	v.Close()
	close(svc.release)

	assert.ErrorIs(t, <-done, views.ErrViewClosed)
	assert.Empty(t, v.Tasks(), "late response must not populate a closed view")
}

func TestScope_CloseCancelsContext(t *testing.T) {
	s := views.NewScope(context.Background())
	assert.False(t, s.Closed())
	s.Close()
	s.Close()
	assert.True(t, s.Closed())
	assert.True(t, errors.Is(s.Context().Err(), context.Canceled))
}

func TestTaskDetail_Load(t *testing.T) {
	v := views.NewTaskDetail(context.Background(), seeded())
	defer v.Close()

	task, err := v.Load(7)
	require.NoError(t, err)
	assert.Equal(t, "Seven", task.Title)
	loaded, ok := v.Task()
	assert.True(t, ok)
	assert.Equal(t, task, loaded)

	_, err = v.Load(8)
	assert.ErrorIs(t, err, service.ErrFetch)
}

func TestTaskForm_Submit(t *testing.T) {
	svc := testutil.NewFakeService()
	v := views.NewTaskForm(context.Background(), svc)
	defer v.Close()

	task, err := v.Submit("Buy milk", "2 litres")
	require.NoError(t, err)
	assert.Equal(t, service.Task{ID: 1, Title: "Buy milk", Description: "2 litres"}, task)

	_, err = v.Submit("  ", "x")
	assert.ErrorIs(t, err, views.ErrTitleRequired)
	assert.Equal(t, 1, svc.Calls["CreateTask"])
}

func TestTaskForm_SubmitError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateTaskErr = fmt.Errorf("%w: HTTP 400", service.ErrSubmit)
	v := views.NewTaskForm(context.Background(), svc)
	defer v.Close()

	_, err := v.Submit("Buy milk", "")
	assert.ErrorIs(t, err, service.ErrSubmit)
}

func TestTaskEdit_Save(t *testing.T) {
	svc := seeded()
	v := views.NewTaskEdit(context.Background(), svc)
	defer v.Close()

	_, err := v.Load(7)
	require.NoError(t, err)

	done := true
	desc := "now with details"
	updated, err := v.Save(views.TaskChanges{Description: &desc, Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, service.Task{ID: 7, Title: "Seven", Description: "now with details", Completed: true}, updated)
	assert.Contains(t, svc.Tasks(), updated)
}

func TestTaskEdit_SaveWithoutLoad(t *testing.T) {
	svc := seeded()
	v := views.NewTaskEdit(context.Background(), svc)
	defer v.Close()

	_, err := v.Save(views.TaskChanges{})
	assert.ErrorIs(t, err, service.ErrSubmit)
	assert.Equal(t, 0, svc.Calls["UpdateTask"])
}

func TestTaskEdit_EmptyTitle(t *testing.T) {
	v := views.NewTaskEdit(context.Background(), seeded())
	defer v.Close()
	_, err := v.Load(3)
	require.NoError(t, err)

	empty := ""
	_, err = v.Save(views.TaskChanges{Title: &empty})
	assert.ErrorIs(t, err, views.ErrTitleRequired)
}

func TestTaskChanges_Empty(t *testing.T) {
	assert.True(t, views.TaskChanges{}.Empty())
	done := false
	assert.False(t, views.TaskChanges{Completed: &done}.Empty())
}
