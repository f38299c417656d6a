package main

import (
	"errors"
	"net/http"
	"strconv"

	"AleesaStoreAPI/internal/middleware"
	"AleesaStoreAPI/internal/model"
	"AleesaStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type updateStatusRequest struct {
	Status string `json:"status"`
}

func registerOrderRoutes(g *echo.Group, os *services.OrderService) {
	p := g.Group("/orders")

	// Guest order lookup: ownership is the email + order number pair.
	p.GET("/guest", func(c echo.Context) error {
		order, items, err := os.GetGuestOrder(
			c.Request().Context(),
			c.QueryParam("email"),
			c.QueryParam("order_number"),
		)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			case errors.Is(err, services.ErrOrderNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
			}
		}
		return c.JSON(http.StatusOK, echo.Map{"order": order, "items": items})
	})

	// Order history for the authenticated customer.
	p.GET("", func(c echo.Context) error {
		cl := middleware.GetClaims(c)
		if cl == nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
		}
		orders, err := os.ListByUser(c.Request().Context(), cl.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
		}
		return c.JSON(http.StatusOK, echo.Map{"orders": orders})
	}, middleware.JWTMiddleware())
}

func registerAdminOrderRoutes(g *echo.Group, os *services.OrderService) {
	p := g.Group("/admin/orders")
	p.Use(middleware.JWTMiddleware())

	// Operator transitions: CONFIRMED -> SHIPPED -> DELIVERED, or cancel
	// anything not yet delivered. Paying an order is not reachable here.
	p.PATCH("/:id/status", middleware.AdminOnly(func(c echo.Context) error {
		orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || orderID <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid order id"})
		}

		req := new(updateStatusRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		if err := os.AdvanceStatus(c.Request().Context(), orderID, model.OrderStatus(req.Status)); err != nil {
			switch {
			case errors.Is(err, services.ErrOrderNotFound):
				return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
			case errors.Is(err, services.ErrInvalidTransition):
				return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
			}
		}

		return c.JSON(http.StatusOK, echo.Map{"status": req.Status})
	}))
}
