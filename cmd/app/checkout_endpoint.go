package main

import (
	"errors"
	"net/http"

	"AleesaStoreAPI/internal/middleware"
	"AleesaStoreAPI/internal/model"
	"AleesaStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
)

type checkoutRequest struct {
	Items   []model.CartLine      `json:"items"`
	Address model.ShippingAddress `json:"address"`
}

type verifyRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

func registerCheckoutRoutes(g *echo.Group, cs *services.CheckoutService, ps *services.PaymentService) {
	p := g.Group("/checkout")

	// Initiation. Public: guests check out without a token, logged-in
	// customers get their order attached to the account.
	p.POST("/razorpay", func(c echo.Context) error {
		req := new(checkoutRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payload"})
		}

		var userID *int64
		if cl := middleware.TryGetClaimsFromAuthHeader(c); cl != nil {
			userID = &cl.UserID
		}

		idemKey := c.Request().Header.Get("Idempotency-Key")

		result, err := cs.Initiate(c.Request().Context(), req.Items, req.Address, userID, idemKey)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation),
				errors.Is(err, services.ErrEmptyCart),
				errors.Is(err, services.ErrStockExhausted):
				return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
			case errors.Is(err, services.ErrPaymentInit):
				return c.JSON(http.StatusBadGateway, echo.Map{"error": "payment initialization failed"})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "checkout failed"})
			}
		}

		return c.JSON(http.StatusCreated, result)
	})

	// Verification callback forwarded by the browser after the Razorpay
	// widget completes. Failure bodies stay generic on purpose.
	p.POST("/razorpay/verify", func(c echo.Context) error {
		req := new(verifyRequest)
		if err := c.Bind(req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"ok": false})
		}

		orderID, err := ps.Verify(
			c.Request().Context(),
			req.RazorpayOrderID,
			req.RazorpayPaymentID,
			req.RazorpaySignature,
		)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrValidation),
				errors.Is(err, services.ErrSignatureMismatch),
				errors.Is(err, services.ErrOrderNotPayable):
				return c.JSON(http.StatusBadRequest, echo.Map{"ok": false})
			default:
				return c.JSON(http.StatusInternalServerError, echo.Map{"ok": false})
			}
		}

		return c.JSON(http.StatusOK, echo.Map{
			"ok":       true,
			"order_id": orderID,
		})
	})
}
