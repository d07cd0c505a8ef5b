package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/repository/unitofwork"
	"ai-crm-be/pkg/contactstore"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupBackend(t *testing.T) (*contactBackend, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return NewContactBackend(unitofwork.NewRepositoryFactory(db), nil).(*contactBackend), mock
}

type warnEntry struct {
	message string
	details map[string]interface{}
}

type recordingLogger struct {
	mu    sync.Mutex
	warns []warnEntry
}

func (l *recordingLogger) Debug(string, string, map[string]interface{}) {}
func (l *recordingLogger) Info(string, string, map[string]interface{})  {}
func (l *recordingLogger) Error(string, string, map[string]interface{}) {}
func (l *recordingLogger) Sync() error                                  { return nil }

func (l *recordingLogger) Warn(module, message string, details map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, warnEntry{message: message, details: details})
}

func TestBackendUpdateWritesHistory(t *testing.T) {
	backend, mock := setupBackend(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "contacts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "contact_history"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String()))

	ctx := ContextWithActor(context.Background(), "user-42")
	err := backend.Update(ctx, id, entity.ContactPatch{Priority: entity.Some(1), ActionTag: entity.Some("call")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackendUpdateSucceedsWhenHistoryTableMissing(t *testing.T) {
	backend, mock := setupBackend(t)
	log := &recordingLogger{}
	backend.logger = log
	id := uuid.New()

	mock.ExpectExec(`UPDATE "contacts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "contact_history"`).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "contact_history" does not exist`})

	err := backend.Update(context.Background(), id, entity.ContactPatch{Notes: entity.Some("x")})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, log.warns, 1)
	assert.Equal(t, id.String(), log.warns[0].details["contact_id"])
	assert.Contains(t, log.warns[0].details["error"], "contact_history")
}

func TestStoreUpdateKeepsPatchWhenHistoryInsertFails(t *testing.T) {
	backend, mock := setupBackend(t)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "contacts"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "summary", "created_at"}).
			AddRow(id.String(), "Jane", "CTO", now))
	mock.ExpectExec(`UPDATE "contacts" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "contact_history"`).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "contact_history" does not exist`})

	store := contactstore.New(backend, nil)
	require.NoError(t, store.Load(context.Background()))
	updated, err := store.Update(context.Background(), id, entity.ContactPatch{ActionTag: entity.Some("call")})
	require.NoError(t, err)
	require.NotNil(t, updated.ActionTag)
	assert.Equal(t, "call", *updated.ActionTag)

	got, ok := store.Get(id)
	require.True(t, ok)
	assert.Equal(t, updated, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBackendInsertManyIsAtomic(t *testing.T) {
	backend, mock := setupBackend(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "contacts"`).WillReturnError(errors.New("value too long"))
	mock.ExpectRollback()

	created, err := backend.InsertMany(context.Background(), []entity.ContactInsert{{Name: "Jane", Summary: "CTO"}})
	require.Error(t, err)
	assert.Nil(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActorDefaults(t *testing.T) {
	assert.Equal(t, "crm-api", actorFrom(context.Background()))
	assert.Equal(t, "crm-api", actorFrom(ContextWithActor(context.Background(), "")))
	assert.Equal(t, "u1", actorFrom(ContextWithActor(context.Background(), "u1")))
}

func TestChangeReasonListsFieldsSorted(t *testing.T) {
	reason := changeReason(entity.ContactPatch{Notes: entity.Null[string](), ActionTag: entity.Some("x"), Priority: entity.Some(2)})
	assert.Equal(t, "updated action_tag, notes, priority", reason)
}
