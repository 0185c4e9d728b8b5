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

func TestReservationRepo_ActiveSlotIsUnique(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewReservationRepo(db)

	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	table := testutil.InsertTable(t, db, "T1", "salon", 4, model.TableAvailable)
	slot := testutil.SlotID(t, db, "19:00:00")
	res := model.Reservation{UserID: user, TableID: table, TimeID: slot, Date: "2030-03-03", PartySize: 2, Status: model.StatusConfirmed}

	first, err := repo.CreateTx(ctx, db, res)
	require.NoError(t, err)

	_, err = repo.CreateTx(ctx, db, res)
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, repo.CancelConfirmedTx(ctx, db, first))
	_, err = repo.CreateTx(ctx, db, res)
	assert.NoError(t, err, "a cancelled reservation frees the slot")
}

func TestReservationRepo_CancelOnlyConfirmed(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewReservationRepo(db)

	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	table := testutil.InsertTable(t, db, "T1", "salon", 4, model.TableAvailable)
	slot := testutil.SlotID(t, db, "19:00:00")
	pending := testutil.InsertReservation(t, db, user, table, slot, "2030-03-03", 2, model.StatusPending)
	confirmed := testutil.InsertReservation(t, db, user, table, slot, "2030-03-04", 2, model.StatusConfirmed)

	assert.ErrorIs(t, repo.CancelConfirmedTx(ctx, db, pending), repository.ErrNotFound)
	require.NoError(t, repo.CancelConfirmedTx(ctx, db, confirmed))
	assert.ErrorIs(t, repo.CancelConfirmedTx(ctx, db, confirmed), repository.ErrNotFound)
	assert.ErrorIs(t, repo.CancelConfirmedTx(ctx, db, 999), repository.ErrNotFound)
}

func TestReservationRepo_UpdateRequiresOwner(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewReservationRepo(db)

	owner := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	other := testutil.InsertUser(t, db, "Luis", "luis@example.com", model.RoleCustomer)
	table := testutil.InsertTable(t, db, "T1", "salon", 4, model.TableAvailable)
	slot := testutil.SlotID(t, db, "19:00:00")
	id := testutil.InsertReservation(t, db, owner, table, slot, "2030-03-03", 2, model.StatusConfirmed)

	res, err := repo.GetByIDTx(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, model.Date("2030-03-03"), res.Date)

	res.PartySize = 3
	res.UserID = other
	assert.ErrorIs(t, repo.UpdateTx(ctx, db, res), repository.ErrNotFound)

	res.UserID = owner
	require.NoError(t, repo.UpdateTx(ctx, db, res))
	res, err = repo.GetByIDTx(ctx, db, id)
	require.NoError(t, err)
	assert.Equal(t, 3, res.PartySize)

	_, err = repo.GetByIDTx(ctx, db, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReservationRepo_Listings(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	repo := repository.NewReservationRepo(db)

	ana := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	luis := testutil.InsertUser(t, db, "Luis", "luis@example.com", model.RoleCustomer)
	t1 := testutil.InsertTable(t, db, "T1", "salon", 4, model.TableAvailable)
	t2 := testutil.InsertTable(t, db, "T2", "terraza", 4, model.TableAvailable)
	s19 := testutil.SlotID(t, db, "19:00:00")
	s13 := testutil.SlotID(t, db, "13:00:00")

	a := testutil.InsertReservation(t, db, ana, t1, s19, "2030-04-01", 2, model.StatusConfirmed)
	b := testutil.InsertReservation(t, db, ana, t2, s13, "2030-04-01", 2, model.StatusPending)
	c := testutil.InsertReservation(t, db, ana, t1, s13, "2030-04-02", 2, model.StatusCancelled)
	d := testutil.InsertReservation(t, db, luis, t2, s19, "2030-04-02", 4, model.StatusConfirmed)

	mine, err := repo.ListByUser(ctx, ana)
	require.NoError(t, err)
	require.Len(t, mine, 2, "cancelled reservations are hidden from the customer")
	assert.Equal(t, b, mine[0].ID)
	assert.Equal(t, "13:00", mine[0].SlotTime)
	assert.Equal(t, "terraza", mine[0].Zone)
	assert.Equal(t, a, mine[1].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	ids := []uint64{}
	for _, v := range all {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []uint64{c, d, b, a}, ids, "date desc, then slot time asc")

	sheet, err := repo.ListForDate(ctx, "2030-04-02")
	require.NoError(t, err)
	require.Len(t, sheet, 1)
	assert.Equal(t, d, sheet[0].ID)
	assert.Equal(t, "Luis", sheet[0].FirstName)
	assert.Equal(t, "19:00", sheet[0].SlotTime)
}

func TestTableFree(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)

	user := testutil.InsertUser(t, db, "Ana", "ana@example.com", model.RoleCustomer)
	table := testutil.InsertTable(t, db, "T1", "salon", 4, model.TableAvailable)
	slot := testutil.SlotID(t, db, "21:00:00")
	id := testutil.InsertReservation(t, db, user, table, slot, "2030-06-06", 2, model.StatusConfirmed)

	free, err := repository.TableFree(ctx, db, table, "2030-06-06", slot, 0)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = repository.TableFree(ctx, db, table, "2030-06-06", slot, id)
	require.NoError(t, err)
	assert.True(t, free, "the reservation being edited does not block itself")

	free, err = repository.TableFree(ctx, db, table, "2030-06-07", slot, 0)
	require.NoError(t, err)
	assert.True(t, free)
}
