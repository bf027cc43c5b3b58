package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/anycompany/carmarket/internal/domain/entity"
)

// newTestStore opens a private in-memory sqlite database with the schema applied.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return NewStore(db)
}

func mustUser(t *testing.T, s *Store, email string, role entity.Role) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, PasswordHash: "hash", Role: role}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func mustSeller(t *testing.T, s *Store, email, firstName string) *entity.Seller {
	t.Helper()
	u := mustUser(t, s, email, entity.RoleSeller)
	seller := &entity.Seller{UserID: u.ID, Profile: entity.Profile{FirstName: firstName}}
	require.NoError(t, s.Sellers().Create(context.Background(), seller))
	return seller
}

func mustBuyer(t *testing.T, s *Store, email, firstName string) *entity.Buyer {
	t.Helper()
	u := mustUser(t, s, email, entity.RoleBuyer)
	b := &entity.Buyer{UserID: u.ID, Profile: entity.Profile{FirstName: firstName}}
	require.NoError(t, s.Buyers().Create(context.Background(), b))
	return b
}
