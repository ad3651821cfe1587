package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinereview/internal/service"
)

// ReviewHandler exposes review CRUD and the public review listings.
type ReviewHandler struct {
	Identity *service.IdentityService
	Reviews  *service.ReviewService
}

func NewReviewHandler(ids *service.IdentityService, reviews *service.ReviewService) *ReviewHandler {
	if ids == nil || reviews == nil {
		panic("nil service passed to NewReviewHandler")
	}
	return &ReviewHandler{Identity: ids, Reviews: reviews}
}

// Submit creates a review of :movieId for the caller.
func (h *ReviewHandler) Submit(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	body, err := bindReview(c)
	if err != nil {
		return respond(c, err)
	}
	rv, err := h.Reviews.Create(c.Request().Context(), u.ID, c.Param("movieId"), body.Title, body.Content)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toReview(rv))
}

func (h *ReviewHandler) Update(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	id, ok := reviewID(c)
	if !ok {
		return reviewNotFound(c)
	}
	body, err := bindReview(c)
	if err != nil {
		return respond(c, err)
	}
	rv, err := h.Reviews.Update(c.Request().Context(), u.ID, id, body.Title, body.Content)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toReview(rv))
}

// Delete removes one of the caller's reviews and echoes it back.
func (h *ReviewHandler) Delete(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	id, ok := reviewID(c)
	if !ok {
		return reviewNotFound(c)
	}
	rv, err := h.Reviews.Delete(c.Request().Context(), u.ID, id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toReview(rv))
}

func (h *ReviewHandler) Details(c echo.Context) error {
	id, ok := reviewID(c)
	if !ok {
		return reviewNotFound(c)
	}
	v, err := h.Reviews.Get(c.Request().Context(), id)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toReviewDetail(v))
}

// Recent lists the newest reviews; ?limit defaults to 4.
func (h *ReviewHandler) Recent(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	views, err := h.Reviews.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toReviewItems(views))
}

func (h *ReviewHandler) ForMovie(c echo.Context) error {
	views, err := h.Reviews.ListForMovie(c.Request().Context(), c.Param("movieId"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toReviewItems(views))
}

func (h *ReviewHandler) ForUser(c echo.Context) error {
	u, err := currentUser(c, h.Identity)
	if err != nil {
		return respond(c, err)
	}
	views, err := h.Reviews.ListForUser(c.Request().Context(), u.ID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(http.StatusOK, toReviewItems(views))
}
