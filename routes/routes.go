package routes

import (
	"github.com/gofiber/fiber/v2"

	"repairshop-backend/controllers"
	"repairshop-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then per-request transaction (commits or rolls back around the handler)
	protected.Use(middlewares.RequestTx())

	// Partners (customers and invoicing addresses)
	protected.Post("/partner", controllers.CreatePartner)
	protected.Get("/partners", controllers.GetPartners)
	protected.Get("/partner/:id", controllers.GetPartner)
	protected.Put("/partner/:id", controllers.UpdatePartner)

	// Suppliers
	protected.Post("/supplier", controllers.CreateSupplier)
	protected.Get("/suppliers", controllers.GetSuppliers)
	protected.Put("/supplier/:id", controllers.UpdateSupplier)

	// Products
	protected.Post("/product", controllers.CreateProducts) // batch create
	protected.Get("/products", controllers.GetProducts)
	protected.Put("/products/:id", controllers.UpdateProduct)

	// Repair orders
	protected.Post("/repair-order", controllers.CreateRepairOrder)
	protected.Get("/repair-orders", controllers.GetRepairOrders)
	protected.Get("/repair-order/:id", controllers.GetRepairOrder)
	protected.Put("/repair-orders/:id", controllers.UpdateRepairOrder)
	protected.Put("/repair-orders/:id/state", controllers.UpdateRepairOrderState)
	protected.Post("/repair-orders/:id/operations", controllers.AddOperationLine)
	protected.Post("/repair-orders/:id/fees", controllers.AddFeeLine)
	protected.Put("/repair-orders/:id/diagnosis", controllers.UpdateDiagnosisReport)
	protected.Post("/repair-orders/:id/diagnostic-invoice", controllers.CreateDiagnosticInvoice)

	// Invoicing
	protected.Post("/repair-orders/invoices", controllers.MakeInvoices)
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoice/:id", controllers.GetInvoice)

	// Job cards
	protected.Post("/job-card", controllers.CreateJobCard)
	protected.Get("/job-cards", controllers.GetJobCards)
	protected.Get("/job-card/:id", controllers.GetJobCard)
	protected.Put("/job-cards/:id/status", controllers.UpdateJobCardStatus)
	protected.Put("/job-cards/status", controllers.UpdateJobCardStatusBatch)
	protected.Post("/job-cards/:id/diagnosis", controllers.SubmitJobCardDiagnosis)
	protected.Delete("/job-cards/:id", controllers.ArchiveJobCard)
	protected.Post("/job-cards/sweep", controllers.RunJobCardSweep)
}
