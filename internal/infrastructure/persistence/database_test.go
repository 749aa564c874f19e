package persistence

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/normx-ai/backend/tests/testutil"
)

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, *testutil.MockDB) {
	mock := testutil.NewMockDB(t)
	return &Database{DB: mock.DB}, mock
}

func TestConnectionStats_Struct(t *testing.T) {
	t.Run("InUse plus Idle equals OpenConnections", func(t *testing.T) {
		stats := ConnectionStats{
			OpenConnections: 10,
			InUse:           6,
			Idle:            4,
		}

		assert.Equal(t, stats.OpenConnections, stats.InUse+stats.Idle)
	})
}

// TestDatabase_WithTenant tests the WithTenant method
func TestDatabase_WithTenant(t *testing.T) {
	t.Run("returns scoped GORM DB with tenant filter", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		tenantID := "tenant-123"

		type Journal struct {
			ID       uint
			TenantID string
			Code     string
		}

		// Expect a query with tenant_id filter
		mock.Mock.ExpectQuery(`SELECT \* FROM "journals" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "code"}).
				AddRow(1, tenantID, "VT"))

		scopedDB := db.WithTenant(tenantID)
		require.NotNil(t, scopedDB)

		var results []Journal
		err := scopedDB.Find(&results).Error
		require.NoError(t, err)

		mock.ExpectationsWereMet(t)
	})

	t.Run("WithTenant does not modify original DB", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		originalDB := db.DB

		scopedDB := db.WithTenant("tenant-456")

		assert.NotEqual(t, originalDB, scopedDB)
		assert.Equal(t, originalDB, db.DB)
	})

	t.Run("WithTenant with empty tenant ID panics", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		assert.Panics(t, func() {
			db.WithTenant("")
		})
	})

	t.Run("WithTenant with special characters in tenant ID", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		// The parameterized query must handle a hostile tenant ID safely
		tenantID := "tenant'; DROP TABLE accounts; --"

		type Account struct {
			ID       uint
			TenantID string
		}

		mock.Mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}))

		scopedDB := db.WithTenant(tenantID)
		var results []Account
		err := scopedDB.Find(&results).Error
		require.NoError(t, err)

		mock.ExpectationsWereMet(t)
	})
}

// TestDatabase_Stats tests the Stats method
func TestDatabase_Stats(t *testing.T) {
	t.Run("returns ConnectionStats from underlying DB", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		stats, err := db.Stats()

		assert.NoError(t, err)
		assert.IsType(t, ConnectionStats{}, stats)
		assert.GreaterOrEqual(t, stats.OpenConnections, 0)
		assert.GreaterOrEqual(t, stats.WaitDuration, time.Duration(0))
	})
}

// TestDatabase_Ping tests the Ping method
func TestDatabase_Ping(t *testing.T) {
	t.Run("successful ping", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		mock.Mock.ExpectPing()

		err := db.Ping()
		assert.NoError(t, err)

		mock.ExpectationsWereMet(t)
	})

	t.Run("ping with MonitorPingsOption enabled", func(t *testing.T) {
		mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer mockDB.Close()

		// GORM may ping during Open, so expect it first
		mock.ExpectPing()

		dialector := postgres.New(postgres.Config{
			Conn:       mockDB,
			DriverName: "postgres",
		})

		gormDB, err := gorm.Open(dialector, &gorm.Config{
			SkipDefaultTransaction: true,
		})
		require.NoError(t, err)

		db := &Database{DB: gormDB}

		mock.ExpectPing()

		err = db.Ping()
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

// TestDatabase_Close tests the Close method
func TestDatabase_Close(t *testing.T) {
	t.Run("successful close", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		// db.Close() closes the underlying connection

		mock.Mock.ExpectClose()

		err := db.Close()
		assert.NoError(t, err)

		mock.ExpectationsWereMet(t)
	})
}

// TestDatabase_Transaction tests the Transaction method
func TestDatabase_Transaction(t *testing.T) {
	t.Run("successful transaction", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		type Journal struct {
			ID   uint
			Code string
		}

		mock.Mock.ExpectBegin()
		// PostgreSQL GORM uses Query with RETURNING clause instead of Exec
		mock.Mock.ExpectQuery(`INSERT INTO "journals"`).
			WithArgs("OD").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.Mock.ExpectCommit()

		err := db.Transaction(func(tx *gorm.DB) error {
			return tx.Create(&Journal{Code: "OD"}).Error
		})

		assert.NoError(t, err)
		mock.ExpectationsWereMet(t)
	})

	t.Run("transaction rollback on error", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		mock.Mock.ExpectBegin()
		mock.Mock.ExpectRollback()

		err := db.Transaction(func(tx *gorm.DB) error {
			return assert.AnError
		})

		assert.Error(t, err)
		mock.ExpectationsWereMet(t)
	})
}

// TestDatabase_WithTenant_ChainedQueries tests chaining WithTenant with other query methods
func TestDatabase_WithTenant_ChainedQueries(t *testing.T) {
	t.Run("WithTenant can be chained with other Where clauses", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		tenantID := "tenant-789"

		type Account struct {
			ID       uint
			TenantID string
			Code     string
			Active   bool
		}

		mock.Mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE tenant_id = \$1 AND active = \$2`).
			WithArgs(tenantID, true).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "code", "active"}).
				AddRow(1, tenantID, "41110000", true))

		scopedDB := db.WithTenant(tenantID)
		var results []Account
		err := scopedDB.Where("active = ?", true).Find(&results).Error
		require.NoError(t, err)

		mock.ExpectationsWereMet(t)
	})

	t.Run("WithTenant preserves ordering", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		tenantID := "tenant-order"

		type Account struct {
			ID       uint
			TenantID string
			Code     string
		}

		mock.Mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE tenant_id = \$1 ORDER BY code ASC`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "code"}).
				AddRow(1, tenantID, "40110000").
				AddRow(2, tenantID, "41110000"))

		scopedDB := db.WithTenant(tenantID)
		var results []Account
		err := scopedDB.Order("code ASC").Find(&results).Error
		require.NoError(t, err)

		mock.ExpectationsWereMet(t)
	})

	t.Run("WithTenant with limit and offset", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		tenantID := "tenant-pagination"

		type JournalEntry struct {
			ID       uint
			TenantID string
		}

		mock.Mock.ExpectQuery(`SELECT \* FROM "journal_entries" WHERE tenant_id = \$1 LIMIT \$2 OFFSET \$3`).
			WithArgs(tenantID, 10, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}).
				AddRow(6, tenantID))

		scopedDB := db.WithTenant(tenantID)
		var results []JournalEntry
		err := scopedDB.Limit(10).Offset(5).Find(&results).Error
		require.NoError(t, err)

		mock.ExpectationsWereMet(t)
	})
}

// TestDatabase_MultiTenant tests multi-tenant isolation scenarios
func TestDatabase_MultiTenant(t *testing.T) {
	t.Run("different tenants get isolated scopes", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		tenant1DB := db.WithTenant("tenant-1")
		tenant2DB := db.WithTenant("tenant-2")

		assert.NotEqual(t, tenant1DB, tenant2DB)
	})

	t.Run("WithTenant with UUID format tenant ID", func(t *testing.T) {
		db, mock := newMockDatabase(t)
		defer mock.Close()

		tenantID := "550e8400-e29b-41d4-a716-446655440000"

		type Counterparty struct {
			ID       uint
			TenantID string
		}

		mock.Mock.ExpectQuery(`SELECT \* FROM "counterparties" WHERE tenant_id = \$1`).
			WithArgs(tenantID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id"}).
				AddRow(1, tenantID))

		scopedDB := db.WithTenant(tenantID)
		var results []Counterparty
		err := scopedDB.Find(&results).Error
		require.NoError(t, err)

		mock.ExpectationsWereMet(t)
	})
}
