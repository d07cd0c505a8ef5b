package implementation

import (
	"context"
	"os"
	"testing"

	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/repository/specification"
	"ai-crm-be/pkg/database"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestContactRoundTripAgainstPostgres runs only when DB_CONNECTION_STRING
// points at a migrated database. Everything happens in a rolled back
// transaction.
func TestContactRoundTripAgainstPostgres(t *testing.T) {
	_ = godotenv.Load("../../../.env")
	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	db, err := database.NewGormDBFromDSN(dsn, database.PoolConfig{MaxIdleConns: 1, MaxOpenConns: 2, LogLevel: "silent"})
	require.NoError(t, err)

	ctx := context.Background()
	tx := db.WithContext(ctx).Begin()
	require.NoError(t, tx.Error)
	defer tx.Rollback()

	contacts := NewContactRepository(tx)
	history := NewContactHistoryRepository(tx)

	created, err := contacts.CreateMany(ctx, []entity.ContactInsert{
		{Name: "Integration Jane", Summary: "CTO", KeyPoints: []string{"golf"}},
		{Name: "Integration John", Summary: "Dev"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.False(t, created[0].CreatedAt.IsZero())

	require.NoError(t, contacts.Update(ctx, created[1].Id, entity.ContactPatch{
		Priority:    entity.Some(1),
		ContactInfo: entity.Some(entity.ContactInfo{Email: "john@example.com"}),
	}))
	require.NoError(t, history.Create(ctx, &entity.ContactHistory{
		ContactId:     created[1].Id,
		ChangedBy:     "integration",
		Reason:        "updated contact_info, priority",
		ChangedFields: []byte(`{"priority":1}`),
	}))

	all, err := contacts.FindAll(ctx, specification.ContactDisplayOrder{})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	var john *entity.Contact
	for i := range all {
		if all[i].Id == created[1].Id {
			john = &all[i]
		}
	}
	require.NotNil(t, john)
	assert.Equal(t, 1, *john.Priority)
	assert.Equal(t, "john@example.com", john.ContactInfo.Email)

	entries, err := history.FindAll(ctx, specification.ByContactID{ContactID: john.Id})
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, contacts.Delete(ctx, created[0].Id))
}
