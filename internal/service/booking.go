package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/apperr"
	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/queue"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// Party size bounds, inclusive.
const (
	MinPartySize = 1
	MaxPartySize = 20
)

// Actor is the authenticated caller of a booking operation.
type Actor struct {
	UserID uint64
	Admin  bool
}

// canActFor reports whether the actor may operate on userID's bookings.
func (a Actor) canActFor(userID uint64) bool { return a.Admin || a.UserID == userID }

// forbidden is a 403 that still matches repository.ErrForbidden.
func forbidden(msg string) *apperr.Error {
	e := apperr.Forbidden(msg)
	e.Err = repository.ErrForbidden
	return e
}

// BookingRequest carries the fields of a create or update.  Zero values
// mean the field was not supplied.
type BookingRequest struct {
	ReservationID uint64 // update only
	UserID        uint64
	TableID       uint64
	Time          string
	Date          string
	PartySize     int
	Status        string
}

// BookingResult describes a committed create or update.
type BookingResult struct {
	ReservationID uint64
	Date          model.Date
	Time          string // HH:MM:SS
	TableID       uint64
}

// BookingService implements reservation admission: the validation chain,
// the collision check and the table status bookkeeping, all inside one
// transaction per request.
type BookingService struct {
	reservations *repository.ReservationRepo
	users        *repository.UserRepo
	tables       *repository.TableRepo
	slots        *repository.TimeSlotRepo
	events       EventPublisher
	log          logrus.FieldLogger
	loc          *time.Location
	now          func() time.Time
}

// BookingOption customises a BookingService.
type BookingOption func(*BookingService)

// WithClock replaces time.Now, which decides what "today" is.
func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

// WithPublisher sets where reservation events are sent.
func WithPublisher(p EventPublisher) BookingOption {
	return func(s *BookingService) { s.events = p }
}

func NewBookingService(
	reservations *repository.ReservationRepo,
	users *repository.UserRepo,
	tables *repository.TableRepo,
	slots *repository.TimeSlotRepo,
	loc *time.Location,
	log logrus.FieldLogger,
	opts ...BookingOption,
) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	s := &BookingService{
		reservations: reservations,
		users:        users,
		tables:       tables,
		slots:        slots,
		events:       NopPublisher{},
		log:          log,
		loc:          loc,
		now:          time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Today is the current date in the restaurant's time zone.
func (s *BookingService) Today() model.Date { return model.DateOf(s.now().In(s.loc)) }

// checked holds the outcome of validation steps 1 to 3.
type checked struct {
	date   model.Date
	time   string
	status string
}

// validateInput runs the field, party size and date checks that need no
// database access.  allowCancelled widens the accepted statuses for
// updates.
func (s *BookingService) validateInput(req BookingRequest, allowCancelled bool) (checked, error) {
	if req.UserID == 0 || req.TableID == 0 || req.PartySize == 0 ||
		strings.TrimSpace(req.Time) == "" || strings.TrimSpace(req.Date) == "" {
		return checked{}, apperr.BadRequest("Faltan campos obligatorios")
	}
	if req.PartySize < MinPartySize || req.PartySize > MaxPartySize {
		return checked{}, apperr.BadRequest("El número de comensales debe estar entre 1 y 20")
	}
	date, err := model.ParseDate(strings.TrimSpace(req.Date))
	if err != nil {
		return checked{}, apperr.BadRequest("Formato de fecha inválido, use YYYY-MM-DD")
	}
	if date.Before(s.Today()) {
		return checked{}, apperr.BadRequest("No se pueden hacer reservas en fechas pasadas")
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch {
	case status == "":
		status = model.StatusConfirmed
	case status == model.StatusConfirmed, status == model.StatusPending:
	case status == model.StatusCancelled && allowCancelled:
	default:
		return checked{}, apperr.BadRequest("Estado de reserva inválido")
	}
	return checked{date: date, time: model.NormalizeSlotTime(req.Time), status: status}, nil
}

// resolve runs steps 4 to 6 on tx: the user, the table with its capacity
// and the slot.
func (s *BookingService) resolve(ctx context.Context, tx *sql.Tx, req BookingRequest, in checked) (model.User, model.Table, uint64, error) {
	user, err := s.users.GetByIDTx(ctx, tx, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, model.Table{}, 0, apperr.NotFound("Usuario no encontrado")
	}
	if err != nil {
		return model.User{}, model.Table{}, 0, apperr.Internal(err)
	}

	table, err := s.tables.GetByIDTx(ctx, tx, req.TableID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, model.Table{}, 0, apperr.NotFound("Mesa no encontrada")
	}
	if err != nil {
		return model.User{}, model.Table{}, 0, apperr.Internal(err)
	}
	if table.Capacity < req.PartySize {
		return model.User{}, model.Table{}, 0, apperr.BadRequest("La mesa no tiene capacidad suficiente para el número de comensales")
	}

	slotID, err := s.slots.IDByStartTime(ctx, tx, in.time)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, model.Table{}, 0, apperr.BadRequest("Horario no válido")
	}
	if err != nil {
		return model.User{}, model.Table{}, 0, apperr.Internal(err)
	}
	return user, table, slotID, nil
}

// ensureFree is step 7, the collision check.
func (s *BookingService) ensureFree(ctx context.Context, tx *sql.Tx, tableID uint64, date model.Date, slotID, excludeID uint64) error {
	free, err := repository.TableFree(ctx, tx, tableID, date, slotID, excludeID)
	if err != nil {
		return apperr.Internal(err)
	}
	if !free {
		return apperr.Conflict("La mesa ya está reservada para esa fecha y horario")
	}
	return nil
}

// Create admits a new reservation.
func (s *BookingService) Create(ctx context.Context, actor Actor, req BookingRequest) (BookingResult, error) {
	in, err := s.validateInput(req, false)
	if err != nil {
		return BookingResult{}, err
	}
	if !actor.canActFor(req.UserID) {
		return BookingResult{}, forbidden("No puede reservar en nombre de otro usuario")
	}

	tx, err := s.reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return BookingResult{}, apperr.Internal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	user, table, slotID, err := s.resolve(ctx, tx, req, in)
	if err != nil {
		return BookingResult{}, err
	}
	if err := s.ensureFree(ctx, tx, table.ID, in.date, slotID, 0); err != nil {
		return BookingResult{}, err
	}

	res := model.Reservation{
		UserID:    user.ID,
		TableID:   table.ID,
		TimeID:    slotID,
		Date:      in.date,
		PartySize: req.PartySize,
		Status:    in.status,
	}
	id, err := s.reservations.CreateTx(ctx, tx, res)
	if errors.Is(err, repository.ErrConflict) {
		return BookingResult{}, apperr.Conflict("La mesa ya está reservada para esa fecha y horario")
	}
	if err != nil {
		return BookingResult{}, apperr.Internal(err)
	}
	res.ID = id

	if in.date == s.Today() {
		if err := s.tables.SwapStatusTx(ctx, tx, table.ID, model.TableAvailable, model.TableReserved); err != nil {
			return BookingResult{}, apperr.Internal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return BookingResult{}, apperr.Internal(err)
	}
	committed = true

	s.publish(ctx, queue.EventCreated, res, user, table, in.time)
	return BookingResult{ReservationID: id, Date: in.date, Time: in.time, TableID: table.ID}, nil
}

// Update rewrites an existing reservation in place.  The collision check
// ignores the reservation itself and is skipped when the new status is
// cancelled.
func (s *BookingService) Update(ctx context.Context, actor Actor, req BookingRequest) (BookingResult, error) {
	if req.ReservationID == 0 {
		return BookingResult{}, apperr.BadRequest("Faltan campos obligatorios")
	}
	in, err := s.validateInput(req, true)
	if err != nil {
		return BookingResult{}, err
	}
	if !actor.canActFor(req.UserID) {
		return BookingResult{}, forbidden("No puede modificar reservas de otro usuario")
	}

	tx, err := s.reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return BookingResult{}, apperr.Internal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	user, table, slotID, err := s.resolve(ctx, tx, req, in)
	if err != nil {
		return BookingResult{}, err
	}

	prev, err := s.reservations.GetByIDTx(ctx, tx, req.ReservationID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && prev.UserID != req.UserID) {
		return BookingResult{}, apperr.NotFound("Reserva no encontrada")
	}
	if err != nil {
		return BookingResult{}, apperr.Internal(err)
	}

	if model.IsActiveStatus(in.status) {
		if err := s.ensureFree(ctx, tx, table.ID, in.date, slotID, prev.ID); err != nil {
			return BookingResult{}, err
		}
	}

	res := model.Reservation{
		ID:        prev.ID,
		UserID:    prev.UserID,
		TableID:   table.ID,
		TimeID:    slotID,
		Date:      in.date,
		PartySize: req.PartySize,
		Status:    in.status,
	}
	err = s.reservations.UpdateTx(ctx, tx, res)
	if errors.Is(err, repository.ErrConflict) {
		return BookingResult{}, apperr.Conflict("La mesa ya está reservada para esa fecha y horario")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return BookingResult{}, apperr.NotFound("Reserva no encontrada")
	}
	if err != nil {
		return BookingResult{}, apperr.Internal(err)
	}

	today := s.Today()
	if prev.Date == today && prev.Status == model.StatusConfirmed &&
		(prev.TableID != res.TableID || res.Date != today || res.Status != model.StatusConfirmed) {
		if err := s.releaseIfIdle(ctx, tx, prev.TableID, today); err != nil {
			return BookingResult{}, apperr.Internal(err)
		}
	}
	if res.Date == today && model.IsActiveStatus(res.Status) {
		if err := s.tables.SwapStatusTx(ctx, tx, res.TableID, model.TableAvailable, model.TableReserved); err != nil {
			return BookingResult{}, apperr.Internal(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return BookingResult{}, apperr.Internal(err)
	}
	committed = true

	s.publish(ctx, queue.EventUpdated, res, user, table, in.time)
	return BookingResult{ReservationID: res.ID, Date: in.date, Time: in.time, TableID: table.ID}, nil
}

// Cancel moves a confirmed reservation to cancelled.  Cancelling anything
// else, including an already cancelled reservation, is reported as not
// found.
func (s *BookingService) Cancel(ctx context.Context, actor Actor, reservationID uint64) error {
	if reservationID == 0 {
		return apperr.BadRequest("ID de reserva requerido")
	}

	tx, err := s.reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return apperr.Internal(err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := s.reservations.GetByIDTx(ctx, tx, reservationID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Reserva no encontrada o ya cancelada")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if !actor.canActFor(res.UserID) {
		return forbidden("No puede cancelar reservas de otro usuario")
	}

	err = s.reservations.CancelConfirmedTx(ctx, tx, reservationID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("Reserva no encontrada o ya cancelada")
	}
	if err != nil {
		return apperr.Internal(err)
	}
	res.Status = model.StatusCancelled

	if today := s.Today(); res.Date == today {
		if err := s.releaseIfIdle(ctx, tx, res.TableID, today); err != nil {
			return apperr.Internal(err)
		}
	}

	// Contact details for the notification; the reservation is already
	// cancelled either way.
	user, _ := s.users.GetByIDTx(ctx, tx, res.UserID)
	table, _ := s.tables.GetByIDTx(ctx, tx, res.TableID)
	slot, _ := s.slots.StartTimeByID(ctx, tx, res.TimeID)

	if err := tx.Commit(); err != nil {
		return apperr.Internal(err)
	}
	committed = true

	s.publish(ctx, queue.EventCancelled, res, user, table, slot)
	return nil
}

// releaseIfIdle resets a reserved table to available when it has no
// confirmed reservation left on day.
func (s *BookingService) releaseIfIdle(ctx context.Context, tx *sql.Tx, tableID uint64, day model.Date) error {
	n, err := s.reservations.CountConfirmedOnDateTx(ctx, tx, tableID, day)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.tables.SwapStatusTx(ctx, tx, tableID, model.TableReserved, model.TableAvailable)
}

// ListForCustomer returns the active reservations of userID.
func (s *BookingService) ListForCustomer(ctx context.Context, actor Actor, userID uint64) ([]model.ReservationView, error) {
	if !actor.canActFor(userID) {
		return nil, forbidden("No puede consultar reservas de otro usuario")
	}
	out, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// ListAll returns every reservation.  Admin only.
func (s *BookingService) ListAll(ctx context.Context, actor Actor) ([]model.ReservationView, error) {
	if !actor.Admin {
		return nil, forbidden("Acceso restringido a administradores")
	}
	out, err := s.reservations.ListAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// DaySheet lists the active reservations of day.  Admin only.
func (s *BookingService) DaySheet(ctx context.Context, actor Actor, day model.Date) ([]model.DailyReservation, error) {
	if !actor.Admin {
		return nil, forbidden("Acceso restringido a administradores")
	}
	out, err := s.reservations.ListForDate(ctx, day)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return out, nil
}

// publish sends the event after commit.  Failures are logged and never
// reach the caller.
func (s *BookingService) publish(ctx context.Context, typ queue.EventType, res model.Reservation, user model.User, table model.Table, slot string) {
	ev := queue.ReservationEvent{
		Type:          typ,
		ReservationID: res.ID,
		UserID:        res.UserID,
		CustomerName:  strings.TrimSpace(user.FirstName + " " + user.LastName),
		CustomerEmail: user.Email,
		CustomerPhone: user.Phone,
		TableID:       res.TableID,
		TableLabel:    table.Label,
		Zone:          table.Zone,
		Date:          res.Date.String(),
		Time:          model.ShortTime(slot),
		PartySize:     res.PartySize,
		Status:        res.Status,
		OccurredAt:    s.now().UTC().Format(time.RFC3339),
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.events.Publish(pctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"reservation_id": res.ID,
			"type":           typ,
		}).Warn("publish reservation event failed")
	}
}
