package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/testutil"
	"github.com/iliyamo/restaurant-reservation/internal/utils"
)

func TestUserRepo_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepo(testutil.NewSQLiteDB(t))

	id, err := repo.Create(ctx, model.User{FirstName: " Ana ", LastName: "García", Email: " Ana@Example.com "}, "secreto1", 4)
	require.NoError(t, err)

	u, err := repo.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "Ana", u.FirstName)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, model.RoleCustomer, u.Role)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "secreto1"))

	_, err = repo.Create(ctx, model.User{FirstName: "Otra", LastName: "Ana", Email: "ana@example.com"}, "x", 4)
	assert.ErrorIs(t, err, repository.ErrEmailExists)

	_, err = repo.GetByID(ctx, 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestResetTokenRepo_SingleUse(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewResetTokenRepo(db)
	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Store(ctx, user, "live", now.Add(time.Hour)))
	require.NoError(t, repo.Store(ctx, user, "stale", now.Add(-time.Hour)))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	got, err := repo.ConsumeTx(ctx, tx, "live", now)
	require.NoError(t, err)
	assert.Equal(t, user, got)
	_, err = repo.ConsumeTx(ctx, tx, "live", now)
	assert.ErrorIs(t, err, repository.ErrNotFound, "tokens are single use")
	_, err = repo.ConsumeTx(ctx, tx, "stale", now)
	assert.ErrorIs(t, err, repository.ErrNotFound, "expired tokens are rejected")
	require.NoError(t, tx.Commit())
}

func TestResetTokenRepo_RevokeAll(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewResetTokenRepo(db)
	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	now := time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Store(ctx, user, "a", now.Add(time.Hour)))
	require.NoError(t, repo.RevokeAllForUser(ctx, db, user, now))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	_, err = repo.ConsumeTx(ctx, tx, "a", now)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTimeSlotRepo(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewTimeSlotRepo(db)

	slots, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 9)
	assert.Equal(t, "12:00:00", slots[0].StartTime)

	id, err := repo.IDByStartTime(ctx, db, "19:00:00")
	require.NoError(t, err)
	assert.NotZero(t, id)
	_, err = repo.IDByStartTime(ctx, db, "18:30:00")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	table := testutil.InsertTable(t, db, "T1", "salon", 4, model.TableAvailable)
	testutil.InsertReservation(t, db, user, table, id, "2030-07-07", 2, model.StatusConfirmed)

	free, err := repo.FreeOnDate(ctx, "2030-07-07")
	require.NoError(t, err)
	assert.Len(t, free, 8)
	assert.NotContains(t, free, "19:00")
	assert.Equal(t, "12:00", free[0])
}

func TestConfigRepo_SaveCreatesMissingRow(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewConfigRepo(db)

	c, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Mi Restaurante", c.Name)

	_, err = db.Exec("DELETE FROM configuracion")
	require.NoError(t, err)
	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	want := model.RestaurantConfig{Name: "La Tasca", Address: "Calle 1", Phone: "911", OpeningTime: "13:00", ClosingTime: "23:00"}
	require.NoError(t, repo.Save(ctx, want))
	require.NoError(t, repo.Save(ctx, want))
	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStatsRepo_Daily(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewStatsRepo(db)

	empty, err := repo.Daily(ctx, "2030-08-08")
	require.NoError(t, err)
	assert.Equal(t, model.DailyStats{}, empty)

	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	t1 := testutil.InsertTable(t, db, "T1", "salon", 4, model.TableAvailable)
	testutil.InsertTable(t, db, "T2", "salon", 4, model.TableAvailable)
	testutil.InsertTable(t, db, "T3", "salon", 4, model.TableAvailable)
	s13 := testutil.SlotID(t, db, "13:00:00")
	s20 := testutil.SlotID(t, db, "20:00:00")
	testutil.InsertReservation(t, db, user, t1, s13, "2030-08-08", 2, model.StatusConfirmed)
	testutil.InsertReservation(t, db, user, t1, s20, "2030-08-08", 2, model.StatusConfirmed)
	testutil.InsertReservation(t, db, user, t1, s20, "2030-08-09", 2, model.StatusPending)

	s, err := repo.Daily(ctx, "2030-08-08")
	require.NoError(t, err)
	assert.Equal(t, model.DailyStats{
		ReservationsToday: 2,
		TotalTables:       3,
		OccupiedTables:    1,
		AvailableTables:   2,
		PendingToday:      0,
		OccupancyPercent:  33,
	}, s)
}
