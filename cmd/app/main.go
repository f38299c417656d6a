package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"AleesaStoreAPI/external/razorpay"
	"AleesaStoreAPI/external/resend"

	"AleesaStoreAPI/internal/db"
	"AleesaStoreAPI/internal/repository"
	"AleesaStoreAPI/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	// ======================
	// INFRA
	// ======================
	pool, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if dir := os.Getenv("MIGRATIONS_PATH"); dir != "" {
		if err := db.RunMigrations(os.Getenv("DATABASE_URL"), dir); err != nil {
			log.Fatal(err)
		}
	}

	// ======================
	// EXTERNALS
	// ======================
	gateway, err := razorpay.NewClient()
	if err != nil {
		log.Fatal(err)
	}

	var notifier services.Notifier
	mailer, err := resend.NewResendMailer("AleesaEthnicWear<orders@aleesa.com>")
	if err != nil {
		// Notifications are best-effort; run without them rather than die.
		log.Printf("notifications disabled: %v", err)
	} else {
		notifier = mailer
	}

	// ======================
	// REPOSITORIES
	// ======================
	catalogRepo := repository.NewCatalogRepository(pool)
	orderRepo := repository.NewOrderRepository(pool, catalogRepo)
	userRepo := repository.NewUserRepository(pool)

	// ======================
	// SERVICES
	// ======================
	resolver := services.NewCartResolver(catalogRepo)
	checkoutSvc := services.NewCheckoutService(
		resolver,
		orderRepo,
		userRepo,
		gateway,
		envFloat("SHIPPING_FLAT_FEE", 0),
		envFloat("FREE_SHIPPING_THRESHOLD", 0),
	)
	paymentSvc := services.NewPaymentService(orderRepo, notifier, os.Getenv("RAZORPAY_KEY_SECRET"))
	orderSvc := services.NewOrderService(orderRepo)

	// ======================
	// PENDING ORDER SWEEP
	// ======================
	if ttl := envFloat("PENDING_ORDER_TTL_HOURS", 24); ttl > 0 {
		go sweepPendingOrders(orderSvc, time.Duration(ttl*float64(time.Hour)))
	}

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/store")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerCheckoutRoutes(api, checkoutSvc, paymentSvc)
	registerOrderRoutes(api, orderSvc)
	registerAdminOrderRoutes(api, orderSvc)

	// ======================
	// SERVER
	// ======================
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}

// sweepPendingOrders periodically cancels PENDING orders that never
// completed payment, so abandoned checkouts do not pile up forever.
func sweepPendingOrders(orderSvc *services.OrderService, ttl time.Duration) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		n, err := orderSvc.CancelStale(context.Background(), ttl)
		if err != nil {
			log.Printf("pending order sweep failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("pending order sweep cancelled %d stale orders", n)
		}
	}
}

func envFloat(name string, fallback float64) float64 {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Printf("ignoring invalid %s=%q", name, v)
		return fallback
	}
	return f
}
