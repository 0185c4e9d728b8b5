package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
	"github.com/iliyamo/restaurant-reservation/internal/testutil"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestTableRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewTableRepo(db)

	id, err := repo.Create(ctx, model.Table{Zone: "terraza", Capacity: 4, Label: "T1"})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "terraza", got.Zone)
	assert.Equal(t, model.TableAvailable, got.Status, "status defaults to available")
	assert.Nil(t, got.Notes)

	n, err := repo.Update(ctx, id, repository.TableUpdate{Capacity: intPtr(6), Notes: strPtr("ventana")})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Capacity)
	assert.Equal(t, "terraza", got.Zone, "unset fields are untouched")
	require.NotNil(t, got.Notes)
	assert.Equal(t, "ventana", *got.Notes)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, id))
	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTableRepo_MissingRows(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewTableRepo(testutil.NewSQLiteDB(t))

	_, err := repo.Update(ctx, 99, repository.TableUpdate{Zone: strPtr("salon")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, 99), repository.ErrNotFound)

	_, err = repo.Update(ctx, 1, repository.TableUpdate{})
	assert.Error(t, err)
}

func TestTableRepo_DeleteReferencedTable(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewTableRepo(db)

	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	table := testutil.InsertTable(t, db, "T1", "salon", 4, model.TableAvailable)
	testutil.InsertReservation(t, db, user, table, testutil.SlotID(t, db, "19:00:00"), "2030-01-10", 2, model.StatusCancelled)

	assert.ErrorIs(t, repo.Delete(ctx, table), repository.ErrConflict)
}

func TestTableRepo_Available(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewTableRepo(db)

	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	small := testutil.InsertTable(t, db, "S1", "salon", 2, model.TableAvailable)
	big := testutil.InsertTable(t, db, "S2", "salon", 6, model.TableAvailable)
	booked := testutil.InsertTable(t, db, "S3", "salon", 4, model.TableAvailable)
	testutil.InsertTable(t, db, "S4", "salon", 8, model.TableMaintenance)
	testutil.InsertTable(t, db, "T1", "terraza", 4, model.TableAvailable)
	cancelled := testutil.InsertTable(t, db, "S5", "salon", 4, model.TableAvailable)

	slot := testutil.SlotID(t, db, "20:00:00")
	date := model.Date("2030-05-01")
	testutil.InsertReservation(t, db, user, booked, slot, date, 2, model.StatusPending)
	testutil.InsertReservation(t, db, user, cancelled, slot, date, 2, model.StatusCancelled)

	got, err := repo.Available(ctx, date, slot, 2, "salon")
	require.NoError(t, err)
	ids := make([]uint64, 0, len(got))
	for _, tb := range got {
		ids = append(ids, tb.ID)
	}
	assert.Equal(t, []uint64{small, cancelled, big}, ids, "ordered by capacity then id")

	got, err = repo.Available(ctx, date, slot, 5, "salon")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, big, got[0].ID)

	got, err = repo.Available(ctx, date, slot, 2, "patio")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTableRepo_DailySync(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewTableRepo(db)

	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	idle := testutil.InsertTable(t, db, "A", "salon", 4, model.TableReserved)
	busy := testutil.InsertTable(t, db, "B", "salon", 4, model.TableAvailable)
	fixing := testutil.InsertTable(t, db, "C", "salon", 4, model.TableMaintenance)
	slot := testutil.SlotID(t, db, "13:00:00")
	today := model.Date("2030-02-02")
	testutil.InsertReservation(t, db, user, busy, slot, today, 2, model.StatusConfirmed)
	testutil.InsertReservation(t, db, user, fixing, slot, today, 2, model.StatusConfirmed)

	released, err := repo.ReleaseIdle(ctx, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, released)

	marked, err := repo.MarkBooked(ctx, today)
	require.NoError(t, err)
	assert.EqualValues(t, 1, marked)

	assert.Equal(t, model.TableAvailable, testutil.TableStatus(t, db, idle))
	assert.Equal(t, model.TableReserved, testutil.TableStatus(t, db, busy))
	assert.Equal(t, model.TableMaintenance, testutil.TableStatus(t, db, fixing))
}
