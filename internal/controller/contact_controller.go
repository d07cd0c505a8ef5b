package controller

import (
	"context"

	"ai-crm-be/internal/dto"
	"ai-crm-be/internal/pkg/serverutils"
	"ai-crm-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IContactController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Reload(ctx *fiber.Ctx) error
	Extract(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	CyclePriority(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Notes(ctx *fiber.Ctx) error
}

type contactController struct {
	service   service.IContactService
	jwtSecret string
}

func NewContactController(service service.IContactService, jwtSecret string) IContactController {
	return &contactController{service: service, jwtSecret: jwtSecret}
}

func (c *contactController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/contact/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("", c.GetAll)
	h.Post("reload", c.Reload)
	h.Post("extract", c.Extract)
	h.Get(":id", c.Show)
	h.Patch(":id", c.Update)
	h.Post(":id/priority/cycle", c.CyclePriority)
	h.Delete(":id", c.Delete)
	h.Get(":id/history", c.History)
	h.Get(":id/notes", c.Notes)
}

func (c *contactController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all contacts", res))
}

func (c *contactController) Reload(ctx *fiber.Ctx) error {
	res, err := c.service.Reload(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success reload contacts", res))
}

func (c *contactController) Extract(ctx *fiber.Ctx) error {
	var req dto.ExtractContactsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Extract(actorContext(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success extract contacts", res))
}

func (c *contactController) Show(ctx *fiber.Ctx) error {
	id, err := contactID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.Show(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show contact", res))
}

func (c *contactController) Update(ctx *fiber.Ctx) error {
	id, err := contactID(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateContactRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.service.Update(actorContext(ctx), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update contact", res))
}

func (c *contactController) CyclePriority(ctx *fiber.Ctx) error {
	id, err := contactID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.CyclePriority(actorContext(ctx), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success cycle priority", res))
}

func (c *contactController) Delete(ctx *fiber.Ctx) error {
	id, err := contactID(ctx)
	if err != nil {
		return err
	}

	if err := c.service.Delete(actorContext(ctx), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete contact", nil))
}

func (c *contactController) History(ctx *fiber.Ctx) error {
	id, err := contactID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.History(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get contact history", res))
}

func (c *contactController) Notes(ctx *fiber.Ctx) error {
	id, err := contactID(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.FormattedNotes(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success format notes", res))
}

func contactID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid contact id")
	}
	return id, nil
}

// actorContext carries the authenticated user into the history trail.
func actorContext(ctx *fiber.Ctx) context.Context {
	userID, _ := ctx.Locals("user_id").(string)
	return service.ContextWithActor(ctx.UserContext(), userID)
}
