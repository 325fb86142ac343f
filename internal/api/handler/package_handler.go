package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/travelagency/booking-api/internal/core/ports"
)

type PackageHandler struct {
	svc ports.PackageService
}

func NewPackageHandler(svc ports.PackageService) *PackageHandler {
	return &PackageHandler{svc: svc}
}

// List returns the active packages.
//
// @Summary      List active packages
// @Tags         packages
// @Produce      json
// @Param        destination  query     string  false  "Case-insensitive destination substring"
// @Param        minPrice     query     number  false  "Minimum price"
// @Param        maxPrice     query     number  false  "Maximum price"
// @Param        duration     query     int     false  "Exact duration in days"
// @Success      200          {array}   packageResponse
// @Failure      400          {object}  api.ErrorResponse
// @Router       /api/packages [get]
func (h *PackageHandler) List(c echo.Context) error {
	var q packageListQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return bindError(err)
	}

	views, err := h.svc.ListActive(c.Request().Context(), q.toFilter())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPackageResponses(views))
}

// ListMine returns the caller's packages, active or not. Admins get all.
//
// @Summary      List the caller's packages
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   packageResponse
// @Failure      401  {object}  api.ErrorResponse
// @Failure      403  {object}  api.ErrorResponse
// @Router       /api/packages/agency [get]
func (h *PackageHandler) ListMine(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	views, err := h.svc.ListByAgency(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPackageResponses(views))
}

// Get returns one package whatever its active flag.
//
// @Summary      Get a package
// @Tags         packages
// @Produce      json
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  packageResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/packages/{id} [get]
func (h *PackageHandler) Get(c echo.Context) error {
	view, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPackageResponse(view.Package, view.Agency))
}

// Create publishes a package owned by the caller.
//
// @Summary      Create a package
// @Tags         packages
// @Accept       json,mpfd,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPackageRequest  true  "Package"
// @Success      201   {object}  packageResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      401   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Router       /api/packages [post]
func (h *PackageHandler) Create(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req createPackageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput(actor)
	if err != nil {
		return err
	}

	view, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toPackageResponse(view.Package, view.Agency))
}

// Update changes the editable fields of a package.
//
// @Summary      Update a package
// @Tags         packages
// @Accept       json,mpfd,x-www-form-urlencoded
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Package ID"
// @Param        body  body      updatePackageRequest  true  "Fields to change"
// @Success      200   {object}  packageResponse
// @Failure      400   {object}  api.ErrorResponse
// @Failure      403   {object}  api.ErrorResponse
// @Failure      404   {object}  api.ErrorResponse
// @Failure      409   {object}  api.ErrorResponse
// @Router       /api/packages/{id} [put]
func (h *PackageHandler) Update(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	var req updatePackageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	in, err := req.toInput(actor, c.Param("id"))
	if err != nil {
		return err
	}

	view, err := h.svc.Update(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPackageResponse(view.Package, view.Agency))
}

// Delete deactivates a package. It stays readable by id.
//
// @Summary      Soft-delete a package
// @Tags         packages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Package ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  api.ErrorResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /api/packages/{id} [delete]
func (h *PackageHandler) Delete(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Package deleted successfully"})
}
