package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/repository"
)

// TableHandler serves /api/mesas.  Reads are public; writes are mounted
// behind the admin role.
type TableHandler struct {
	Tables *repository.TableRepo
	Log    logrus.FieldLogger
}

func NewTableHandler(tables *repository.TableRepo, log logrus.FieldLogger) *TableHandler {
	if tables == nil {
		panic("nil repository passed to NewTableHandler")
	}
	return &TableHandler{Tables: tables, Log: log}
}

type tableReq struct {
	ID       flexInt `json:"id"`
	Zone     *string `json:"zone"`
	Capacity flexInt `json:"capacity"`
	Status   *string `json:"table_status"`
	Label    *string `json:"label"`
	Notes    *string `json:"notes"`
}

// List handles GET /api/mesas.  With ?id= it behaves like Get.
func (h *TableHandler) List(c echo.Context) error {
	if c.QueryParam("id") != "" {
		return h.Get(c)
	}
	tables, err := h.Tables.List(c.Request().Context())
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"data": tables})
}

// Get handles GET /api/mesas/:id.
func (h *TableHandler) Get(c echo.Context) error {
	id := idParam(c, flexInt{})
	if id == 0 {
		return fail(c, http.StatusBadRequest, "ID de mesa inválido")
	}
	t, err := h.Tables.GetByID(c.Request().Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Mesa no encontrada")
	}
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"data": t})
}

// Create handles POST /api/mesas.
func (h *TableHandler) Create(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	if req.Zone == nil || req.Label == nil || !req.Capacity.Set || blank(*req.Zone, *req.Label) {
		return fail(c, http.StatusBadRequest, "Los campos zone, capacity y label son obligatorios")
	}
	if req.Capacity.Bad || req.Capacity.Value <= 0 {
		return fail(c, http.StatusBadRequest, "La capacidad debe ser un número mayor que cero")
	}
	t := model.Table{
		Zone:     strings.TrimSpace(*req.Zone),
		Capacity: int(req.Capacity.Value),
		Label:    strings.TrimSpace(*req.Label),
		Status:   model.TableAvailable,
		Notes:    req.Notes,
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		t.Status = strings.ToLower(strings.TrimSpace(*req.Status))
		if !model.ValidTableStatus(t.Status) {
			return fail(c, http.StatusBadRequest, "Estado de mesa inválido")
		}
	}
	id, err := h.Tables.Create(c.Request().Context(), t)
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusCreated, echo.Map{"message": "Mesa creada correctamente", "id": id})
}

// Update handles PUT /api/mesas/:id with a partial body.
func (h *TableHandler) Update(c echo.Context) error {
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "Datos inválidos")
	}
	id := idParam(c, req.ID)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "ID de mesa requerido")
	}

	var u repository.TableUpdate
	if req.Zone != nil {
		z := strings.TrimSpace(*req.Zone)
		if z == "" {
			return fail(c, http.StatusBadRequest, "La zona no puede estar vacía")
		}
		u.Zone = &z
	}
	if req.Capacity.Set {
		if req.Capacity.Bad || req.Capacity.Value <= 0 {
			return fail(c, http.StatusBadRequest, "La capacidad debe ser un número mayor que cero")
		}
		n := int(req.Capacity.Value)
		u.Capacity = &n
	}
	if req.Status != nil {
		s := strings.ToLower(strings.TrimSpace(*req.Status))
		if !model.ValidTableStatus(s) {
			return fail(c, http.StatusBadRequest, "Estado de mesa inválido")
		}
		u.Status = &s
	}
	if req.Label != nil {
		l := strings.TrimSpace(*req.Label)
		if l == "" {
			return fail(c, http.StatusBadRequest, "La etiqueta no puede estar vacía")
		}
		u.Label = &l
	}
	u.Notes = req.Notes
	if u.Empty() {
		return fail(c, http.StatusBadRequest, "No hay campos para actualizar")
	}

	n, err := h.Tables.Update(c.Request().Context(), id, u)
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Mesa no encontrada")
	}
	if err != nil {
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"message": "Mesa actualizada correctamente", "affected_rows": n})
}

// Delete handles DELETE /api/mesas/:id.
func (h *TableHandler) Delete(c echo.Context) error {
	var req tableReq
	_ = c.Bind(&req) // the id usually comes from the path or query
	id := idParam(c, req.ID)
	if id == 0 {
		return fail(c, http.StatusBadRequest, "ID de mesa requerido")
	}
	err := h.Tables.Delete(c.Request().Context(), id)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return fail(c, http.StatusNotFound, "Mesa no encontrada")
	case errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, "La mesa tiene reservas asociadas y no puede eliminarse")
	case err != nil:
		return writeError(c, h.Log, err)
	}
	return ok(c, http.StatusOK, echo.Map{"message": "Mesa eliminada correctamente"})
}
