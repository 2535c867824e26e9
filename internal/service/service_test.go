package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"task-manager/internal/cache"
	"task-manager/internal/models"
	"task-manager/internal/repository"
	"task-manager/pkg/database/pgtest"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	name    string
	payload interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{name: event, payload: payload})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var names []string
	for _, e := range p.events {
		names = append(names, e.name)
	}
	return names
}

type env struct {
	store    *repository.PostgresStore
	cache    *cache.Memory
	events   *recordingPublisher
	users    *UserService
	statuses *TaskStatusService
	labels   *LabelService
	tasks    *TaskService
	auth     *AuthService
	authz    *Authorizer
	tokens   *TokenService
}

func TestMain(m *testing.M) {
	pgtest.Main(m, pgtest.Schema{
		Create: repository.CreateTableIfNotExists,
		Reset:  repository.TruncateAllTables,
		Drop:   repository.DeleteAllTable,
	})
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := repository.NewPostgresStore(pgtest.Open(t))
	c := cache.NewMemory()
	v := validator.New()
	events := &recordingPublisher{}
	tokens := NewTokenService("test-secret", time.Hour)
	return &env{
		store:    store,
		cache:    c,
		events:   events,
		users:    NewUserService(store, c, v),
		statuses: NewTaskStatusService(store, c, v),
		labels:   NewLabelService(store, c, v),
		tasks:    NewTaskService(store, c, v, events),
		auth:     NewAuthService(store, tokens),
		authz:    NewAuthorizer(store),
		tokens:   tokens,
	}
}

func (e *env) createUser(t *testing.T, email string) models.User {
	t.Helper()
	u, err := e.users.Create(context.Background(), UserDto{
		Email: email, FirstName: "First", LastName: "Last", Password: "pwd123",
	})
	require.NoError(t, err)
	return u
}

func (e *env) createStatus(t *testing.T, name string) models.TaskStatus {
	t.Helper()
	s, err := e.statuses.Create(context.Background(), TaskStatusDto{Name: name})
	require.NoError(t, err)
	return s
}

func (e *env) createLabel(t *testing.T, name string) models.Label {
	t.Helper()
	l, err := e.labels.Create(context.Background(), LabelDto{Name: name})
	require.NoError(t, err)
	return l
}

func (e *env) createTask(t *testing.T, as models.User, dto TaskDto) models.Task {
	t.Helper()
	task, err := e.tasks.Create(WithIdentity(context.Background(), as.Email), dto)
	require.NoError(t, err)
	return task
}

func id(v int64) *int64 { return &v }

func TestCacheDeleteDropsEntriesStoredAfterTheWrite(t *testing.T) {
	old := evictAgainAfter
	evictAgainAfter = 20 * time.Millisecond
	t.Cleanup(func() { evictAgainAfter = old })

	ctx := context.Background()
	c := cache.NewMemory()
	stale := models.Task{ID: 1, Name: "before update"}

	require.NoError(t, c.Set(ctx, cache.TaskKey(1), stale))
	cacheDelete(ctx, c, cache.TaskKey(1))
	// a concurrent Get that loaded the old row stores it again
	require.NoError(t, c.Set(ctx, cache.TaskKey(1), stale))
	require.NoError(t, c.Set(ctx, cache.TaskKey(2), stale))
	evictTasks(ctx, c)
	require.NoError(t, c.Set(ctx, cache.TaskKey(2), stale))

	require.Eventually(t, func() bool {
		var got models.Task
		found1, _ := c.Get(ctx, cache.TaskKey(1), &got)
		found2, _ := c.Get(ctx, cache.TaskKey(2), &got)
		return !found1 && !found2
	}, time.Second, 5*time.Millisecond)
}
