package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/testdb"
)

func setup(t *testing.T) (*gorm.DB, *Repositories) {
	t.Helper()
	db := testdb.Open(t)
	return db, NewRepositories(db)
}

func seedUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	u := &models.User{Name: name, MemberID: "M-" + name}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedProgram(t *testing.T, db *gorm.DB, name string, active bool) *models.GoldProgram {
	t.Helper()
	p := &models.GoldProgram{Name: name, IsActive: active}
	if active {
		p.ActiveLock = models.ActiveLockValue()
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedLot(t *testing.T, db *gorm.DB, programID, userID uint) *models.GoldLot {
	t.Helper()
	l := &models.GoldLot{ProgramID: programID, UserID: userID}
	require.NoError(t, db.Create(l).Error)
	return l
}
