package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	Orders   *OrderHandler
	Invoices *InvoiceHandler
	Products *ProductHandler
	Users    *UserHandler
	Health   map[string]HealthCheck
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", health(h.Health))

	api := router.Group("/api")
	{
		api.POST("/orders", h.Orders.PlaceOrder)
		api.GET("/orders/:id", h.Orders.GetOrder)

		api.POST("/invoices/:order_id", h.Invoices.Generate)

		api.GET("/products", h.Products.ListProducts)
		api.POST("/products", h.Products.CreateProduct)
		api.GET("/products/:id", h.Products.GetProduct)
		api.PUT("/products/:id", h.Products.UpdateProduct)
		api.DELETE("/products/:id", h.Products.DeleteProduct)

		api.GET("/users", h.Users.ListUsers)
		api.POST("/users", h.Users.CreateUser)
		api.GET("/users/:id", h.Users.GetUser)
		api.DELETE("/users/:id", h.Users.DeleteUser)
		api.GET("/users/:id/orders", h.Orders.ListUserOrders)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/orders", h.Orders.ListOrders)
		admin.PATCH("/orders/:id", h.Orders.UpdatePaymentStatus)
		admin.DELETE("/orders/:id", h.Orders.DeleteOrder)
	}
}

func health(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := gin.H{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}
