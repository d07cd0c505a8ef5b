package controller

import (
	"ai-crm-be/internal/pkg/serverutils"
	"ai-crm-be/internal/service"
	"ai-crm-be/pkg/crmerr"

	"github.com/gofiber/fiber/v2"
)

// ISystemController serves health and schema remediation.
type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
	Remediation(ctx *fiber.Ctx) error
}

type systemController struct {
	service     service.IContactService
	liveClients func() int
}

func NewSystemController(service service.IContactService, liveClients func() int) ISystemController {
	return &systemController{service: service, liveClients: liveClients}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
	r.Get("/schema/v1/remediation/:issue", c.Remediation)
}

func (c *systemController) Health(ctx *fiber.Ctx) error {
	res := c.service.Health()
	if c.liveClients != nil {
		res.LiveClients = c.liveClients()
	}
	return ctx.JSON(serverutils.SuccessResponse("Service health", res))
}

func (c *systemController) Remediation(ctx *fiber.Ctx) error {
	remediation, ok := serverutils.RemediationFor(crmerr.SchemaIssue(ctx.Params("issue")))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Unknown schema issue")
	}
	return ctx.JSON(serverutils.SuccessResponse("Remediation script", remediation))
}
