package taskapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskman/internal/backend/taskapi"
	"taskman/internal/service"
	"taskman/internal/testutil"
)

func newClient(t *testing.T, api *testutil.FakeAPI) *taskapi.Client {
	t.Helper()
	c, err := taskapi.New(api.URL())
	require.NoError(t, err)
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path", "://bad"} {
		_, err := taskapi.New(raw)
		assert.Error(t, err, "url %q", raw)
	}
}

func TestLogin_ReturnsToken(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddUser("alice", "secret")
	api.SetToken("alice", "h.p.s")
	c := newClient(t, api)

	token, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "h.p.s", token)

	// Login itself never installs the credential.
	assert.Equal(t, "", c.Credential())
}

func TestLogin_Rejected(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddUser("alice", "secret")
	c := newClient(t, api)

	_, err := c.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrAuthentication)

	var statusErr *taskapi.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
	assert.Equal(t, "Invalid credentials", statusErr.Message)
	assert.Contains(t, err.Error(), "Invalid credentials (HTTP 401)")
}

func TestLogin_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"ok"}`))
	}))
	defer srv.Close()

	c, err := taskapi.New(srv.URL)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, service.ErrAuthentication)
}

func TestLogin_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := taskapi.New(url)
	require.NoError(t, err)

	_, err = c.Login(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, service.ErrAuthentication)
}

func TestCredential_SetAndClear(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddTask(1, "Buy milk", "2 litres")
	c := newClient(t, api)
	ctx := context.Background()

	_, err := c.ListTasks(ctx)
	assert.ErrorIs(t, err, service.ErrFetch, "request without credential should be rejected")
	assert.Equal(t, "", api.LastAuthHeader())

	token := api.Mint("alice")
	c.SetCredential(token)
	assert.Equal(t, token, c.Credential())

	tasks, err := c.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Equal(t, "Bearer "+token, api.LastAuthHeader())

	c.ClearCredential()
	assert.Equal(t, "", c.Credential())
	_, err = c.ListTasks(ctx)
	assert.ErrorIs(t, err, service.ErrFetch)
	assert.Equal(t, "", api.LastAuthHeader())
}

func TestRegister(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, api)

	err := c.Register(context.Background(), service.Registration{Username: "bob", Email: "bob@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, api.HasUser("bob"))
	assert.Equal(t, "bob@example.com", api.Email("bob"))

	err = c.Register(context.Background(), service.Registration{Username: "", Password: ""})
	assert.ErrorIs(t, err, service.ErrRegistration)
}

func TestTaskCRUD(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, api)
	c.SetCredential(api.Mint("alice"))
	ctx := context.Background()

	created, err := c.CreateTask(ctx, service.TaskInput{Title: "Write report", Description: "Q3"})
	require.NoError(t, err)
	assert.Equal(t, service.Task{ID: 1, Title: "Write report", Description: "Q3"}, created)

	got, err := c.GetTask(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	done := true
	updated, err := c.UpdateTask(ctx, created.ID, service.TaskInput{Title: "Write report", Description: "Q3 final", Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, service.Task{ID: 1, Title: "Write report", Description: "Q3 final", Completed: true}, updated)
	assert.Equal(t, []service.Task{updated}, api.Tasks())

	require.NoError(t, c.DeleteTask(ctx, created.ID))
	assert.Empty(t, api.Tasks())

	_, err = c.GetTask(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrFetch)
	assert.Contains(t, err.Error(), "Task not found! (HTTP 404)")
}

func TestUpdateTask_RequiresCompleted(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, api)

	_, err := c.UpdateTask(context.Background(), 1, service.TaskInput{Title: "x"})
	assert.ErrorIs(t, err, service.ErrSubmit)
	assert.Empty(t, api.AuthHeaders(), "no request should be sent")
}

func TestErrorKinds(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.AddTask(7, "t", "d")
	c := newClient(t, api)
	c.SetCredential(api.Mint("alice"))
	ctx := context.Background()

	api.Fail(testutil.RouteCreateTask, http.StatusInternalServerError)
	_, err := c.CreateTask(ctx, service.TaskInput{Title: "t"})
	assert.ErrorIs(t, err, service.ErrSubmit)

	api.Fail(testutil.RouteDeleteTask, http.StatusBadRequest)
	err = c.DeleteTask(ctx, 7)
	assert.ErrorIs(t, err, service.ErrDelete)
	assert.Len(t, api.Tasks(), 1)
}

func TestStatusError_NotClassified(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	c := newClient(t, api)
	c.SetCredential(api.Mint("alice"))

	_, err := c.GetTask(context.Background(), 99)
	assert.ErrorIs(t, err, service.ErrFetch)

	var se *taskapi.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, "Task not found! (HTTP 404)", se.Error())
}

func TestRequestID(t *testing.T) {
	var (
		mu  sync.Mutex
		ids []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(taskapi.RequestIDHeader))
		mu.Unlock()
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := taskapi.New(srv.URL)
	require.NoError(t, err)
	_, err = c.ListTasks(context.Background())
	require.NoError(t, err)
	_, err = c.ListTasks(context.Background())
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, ids, 2)
	assert.NotEmpty(t, ids[0])
	assert.NotEqual(t, ids[0], ids[1])
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c, err := taskapi.New(srv.URL, taskapi.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrFetch)
	assert.Contains(t, err.Error(), "request timed out")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWithTransport(t *testing.T) {
	called := false
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		called = true
		return nil, errors.New("offline")
	})
	c, err := taskapi.New("https://api.example.com", taskapi.WithTransport(rt))
	require.NoError(t, err)

	_, err = c.ListTasks(context.Background())
	assert.ErrorIs(t, err, service.ErrFetch)
	assert.True(t, called)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
