package repository

import (
	"context"
	"errors"
	"testing"

	"task-manager/internal/models"
	"task-manager/pkg/database/pgtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pgtest.Main(m, pgtest.Schema{
		Create: CreateTableIfNotExists,
		Reset:  TruncateAllTables,
		Drop:   DeleteAllTable,
	})
}

func newTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	return NewPostgresStore(pgtest.Open(t))
}

type fixture struct {
	author, executor models.User
	status           models.TaskStatus
	feature, bug     models.Label
}

func seedFixture(t *testing.T, s Store) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		author:   models.User{Email: "author@example.com", FirstName: "Ann", LastName: "Author", Password: "hash"},
		executor: models.User{Email: "exec@example.com", FirstName: "Ed", LastName: "Exec", Password: "hash"},
		status:   models.TaskStatus{Name: "new"},
		feature:  models.Label{Name: "feature"},
		bug:      models.Label{Name: "bug"},
	}
	require.NoError(t, s.Users().Create(ctx, &f.author))
	require.NoError(t, s.Users().Create(ctx, &f.executor))
	require.NoError(t, s.TaskStatuses().Create(ctx, &f.status))
	require.NoError(t, s.Labels().Create(ctx, &f.feature))
	require.NoError(t, s.Labels().Create(ctx, &f.bug))
	return f
}

func TestPostgresUserRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)

	got, err := s.Users().FindByEmail(ctx, "author@example.com")
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	dup := models.User{Email: "author@example.com", FirstName: "x", LastName: "y", Password: "z"}
	assert.ErrorIs(t, s.Users().Create(ctx, &dup), ErrDuplicate)

	_, err = s.Users().FindByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	f.author.FirstName = "Anna"
	require.NoError(t, s.Users().Update(ctx, &f.author))
	got, err = s.Users().FindByID(ctx, f.author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.FirstName)

	assert.ErrorIs(t, s.Users().Delete(ctx, 999), ErrNotFound)
}

func TestPostgresTaskRepository(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)

	task := models.Task{
		Name:        "write docs",
		Description: "all of them",
		TaskStatus:  f.status,
		Author:      f.author,
		Executor:    &f.executor,
		Labels:      []models.Label{f.feature, f.bug},
	}
	require.NoError(t, s.Tasks().Create(ctx, &task))
	other := models.Task{Name: "unassigned", TaskStatus: f.status, Author: f.executor}
	require.NoError(t, s.Tasks().Create(ctx, &other))

	got, err := s.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "write docs", got.Name)
	assert.Equal(t, f.status.ID, got.TaskStatus.ID)
	require.NotNil(t, got.Executor)
	assert.Equal(t, f.executor.Email, got.Executor.Email)
	assert.ElementsMatch(t, []int64{f.feature.ID, f.bug.ID}, got.LabelIDs())

	byAuthor, err := s.Tasks().FindAll(ctx, models.TaskFilter{AuthorID: &f.author.ID})
	require.NoError(t, err)
	require.Len(t, byAuthor, 1)
	assert.Equal(t, task.ID, byAuthor[0].ID)

	byLabel, err := s.Tasks().FindAll(ctx, models.TaskFilter{LabelID: &f.bug.ID, ExecutorID: &f.executor.ID})
	require.NoError(t, err)
	require.Len(t, byLabel, 1)

	all, err := s.Tasks().FindAll(ctx, models.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	inUse, err := s.Tasks().ExistsByLabelID(ctx, f.feature.ID)
	require.NoError(t, err)
	assert.True(t, inUse)
	inUse, err = s.Tasks().ExistsByUserID(ctx, f.executor.ID)
	require.NoError(t, err)
	assert.True(t, inUse)

	task.Executor = nil
	task.Labels = []models.Label{f.bug}
	require.NoError(t, s.Tasks().Update(ctx, &task))
	got, err = s.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Executor)
	assert.Equal(t, []int64{f.bug.ID}, got.LabelIDs())

	assert.ErrorIs(t, s.Labels().Delete(ctx, f.bug.ID), ErrInUse)
	require.NoError(t, s.Tasks().Delete(ctx, task.ID))
	assert.NoError(t, s.Labels().Delete(ctx, f.bug.ID))
}

func TestPostgresWithinTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(tx Store) error {
		st := models.TaskStatus{Name: "draft"}
		if err := tx.TaskStatuses().Create(ctx, &st); err != nil {
			return err
		}
		_, err := tx.Users().FindByID(ctx, 12345)
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)

	statuses, err := s.TaskStatuses().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestPostgresWithinTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithinTx(ctx, func(tx Store) error {
		st := models.TaskStatus{Name: "draft"}
		return tx.TaskStatuses().Create(ctx, &st)
	})
	require.NoError(t, err)

	statuses, err := s.TaskStatuses().FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.Equal(t, "draft", statuses[0].Name)
}

func TestPostgresNestedTxJoinsOuter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithinTx(ctx, func(tx Store) error {
		if err := tx.WithinTx(ctx, func(inner Store) error {
			st := models.TaskStatus{Name: "draft"}
			return inner.TaskStatuses().Create(ctx, &st)
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	statuses, err := s.TaskStatuses().FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, statuses)
}

func TestPostgresTaskIsResolvedOnRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)

	task := models.Task{Name: "t", TaskStatus: f.status, Author: f.author, Labels: []models.Label{f.bug}}
	require.NoError(t, s.Tasks().Create(ctx, &task))

	f.status.Name = "renamed"
	require.NoError(t, s.TaskStatuses().Update(ctx, &f.status))

	got, err := s.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.TaskStatus.Name)
	assert.Equal(t, f.author.Email, got.Author.Email)
	assert.Nil(t, got.Executor)
	assert.Equal(t, []int64{f.bug.ID}, got.LabelIDs())
}

func TestPostgresReferencedRowsCannotBeDeleted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)
	task := models.Task{Name: "t", TaskStatus: f.status, Author: f.author, Executor: &f.executor}
	require.NoError(t, s.Tasks().Create(ctx, &task))

	assert.ErrorIs(t, s.Users().Delete(ctx, f.author.ID), ErrInUse)
	assert.ErrorIs(t, s.Users().Delete(ctx, f.executor.ID), ErrInUse)
	assert.ErrorIs(t, s.TaskStatuses().Delete(ctx, f.status.ID), ErrInUse)

	require.NoError(t, s.Tasks().Delete(ctx, task.ID))
	assert.NoError(t, s.TaskStatuses().Delete(ctx, f.status.ID))
	assert.ErrorIs(t, s.TaskStatuses().Delete(ctx, f.status.ID), ErrNotFound)
}

func TestPostgresFindAllByIDSkipsUnknown(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)

	labels, err := s.Labels().FindAllByID(ctx, []int64{f.bug.ID, 99, f.bug.ID})
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, f.bug.ID, labels[0].ID)

	labels, err = s.Labels().FindAllByID(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestPostgresTaskUpdateKeepsAuthor(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, s)

	task := models.Task{Name: "t", TaskStatus: f.status, Author: f.author}
	require.NoError(t, s.Tasks().Create(ctx, &task))

	task.Author = f.executor
	task.Executor = &f.executor
	require.NoError(t, s.Tasks().Update(ctx, &task))

	got, err := s.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, f.author.ID, got.Author.ID)
	require.NotNil(t, got.Executor)
	assert.Equal(t, f.executor.ID, got.Executor.ID)
}

func TestSeedDefaultStatusesRunsOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, SeedDefaultStatuses(ctx, s))
	require.NoError(t, SeedDefaultStatuses(ctx, s))

	statuses, err := s.TaskStatuses().FindAll(ctx)
	require.NoError(t, err)
	var names []string
	for _, st := range statuses {
		names = append(names, st.Name)
	}
	assert.Equal(t, []string{"new", "in progress", "testing", "finished"}, names)
}
