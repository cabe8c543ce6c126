package controllers

import (
	"fmt"
	"log"

	"coreinvoice-backend/middlewares"
	"coreinvoice-backend/models"
	"coreinvoice-backend/services"

	"github.com/gofiber/fiber/v2"
)

// InvoiceController maps the invoice routes onto the engine.
type InvoiceController struct {
	engine *services.InvoiceEngine
}

func NewInvoiceController(engine *services.InvoiceEngine) *InvoiceController {
	return &InvoiceController{engine: engine}
}

// GetInvoices lists every invoice.
func (ic *InvoiceController) GetInvoices(c *fiber.Ctx) error {
	invoices, err := ic.engine.ListInvoices()
	if err != nil {
		return middlewares.Internal(c, err, "An error occurred while retrieving invoices.")
	}
	return c.JSON(invoices)
}

// CreateInvoice stores a new invoice and answers 201 with its ID.
func (ic *InvoiceController) CreateInvoice(c *fiber.Ctx) error {
	var req models.CreateInvoiceRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	invoice, err := ic.engine.CreateInvoice(*req.Amount, *req.DueDate)
	if err != nil {
		return middlewares.Internal(c, err, "An error occurred while creating the invoice.")
	}

	c.Location(fmt.Sprintf("/api/invoice/invoices/%d", invoice.ID))
	return c.Status(fiber.StatusCreated).JSON(models.CreateInvoiceResponse{
		Message:   "Invoice created successfully.",
		InvoiceID: invoice.ID,
	})
}

// PayInvoice records a payment against the invoice in the route.
func (ic *InvoiceController) PayInvoice(c *fiber.Ctx) error {
	id, err := middlewares.ParamInt(c, "id")
	if err != nil {
		return err
	}

	var req models.PaymentRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	if err := ic.engine.PayInvoice(id, *req.PaymentAmount); err != nil {
		return middlewares.Internal(c, err, "An error occurred while processing the payment.")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ProcessOverdueInvoices closes past-due invoices and rolls their balance over.
func (ic *InvoiceController) ProcessOverdueInvoices(c *fiber.Ctx) error {
	var req models.OverdueProcessingRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	rolled, err := ic.engine.ProcessOverdueInvoices(req.LateFee, req.OverdueDays)
	if err != nil {
		return middlewares.Internal(c, err, "An error occurred while processing overdue invoices.")
	}
	log.Printf("overdue processing [%v]: %d invoice(s) rolled over (late fee %s, %d day(s))",
		c.Locals("requestid"), rolled, req.LateFee, req.OverdueDays)
	return c.SendStatus(fiber.StatusNoContent)
}
