package serverutils

import (
	"errors"

	"ai-crm-be/internal/constant"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/pkg/crmerr"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const logModule = "HTTP"

// Remediation tells the client which SQL script fixes the schema.
type Remediation struct {
	Issue  crmerr.SchemaIssue `json:"issue"`
	Script string             `json:"script"`
}

func RemediationFor(issue crmerr.SchemaIssue) (*Remediation, bool) {
	script, ok := constant.RemediationScripts[string(issue)]
	if !ok {
		return nil, false
	}
	return &Remediation{Issue: issue, Script: script}, true
}

func StatusForKind(kind crmerr.Kind) int {
	switch kind {
	case crmerr.KindNotFound:
		return fiber.StatusNotFound
	case crmerr.KindValidation:
		return fiber.StatusBadRequest
	case crmerr.KindBackendUnavailable:
		return fiber.StatusServiceUnavailable
	case crmerr.KindExtractionFormatError:
		return fiber.StatusUnprocessableEntity
	case crmerr.KindBackendError, crmerr.KindUpdateFailed, crmerr.KindDeleteFailed, crmerr.KindExtractionServiceError:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func messageForKind(kind crmerr.Kind) string {
	switch kind {
	case crmerr.KindBackendUnavailable:
		return "The database schema is not ready"
	case crmerr.KindBackendError:
		return "The database request failed"
	case crmerr.KindUpdateFailed:
		return "Failed to save the contact, changes were reverted"
	case crmerr.KindDeleteFailed:
		return "Failed to delete the contact, it was restored"
	case crmerr.KindExtractionServiceError:
		return "The AI service could not be reached"
	case crmerr.KindExtractionFormatError:
		return "The AI returned an unreadable response"
	default:
		return "Request failed"
	}
}

// ErrorHandlerMiddleware turns handler errors into the response envelope.
// Raw driver errors are logged, never echoed.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return WriteError(ctx, log, err)
	}
}

func WriteError(ctx *fiber.Ctx, log logger.ILogger, err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ctx.Status(fiber.StatusBadRequest).
			JSON(ErrorResponseWithData(fiber.StatusBadRequest, "Validation failed", fieldErrors(validationErrs)))
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
	}

	var crmErr *crmerr.Error
	if errors.As(err, &crmErr) {
		status := StatusForKind(crmErr.Kind)
		details := map[string]interface{}{
			"path":   ctx.Path(),
			"kind":   crmErr.Kind,
			"status": status,
			"error":  err.Error(),
		}

		switch crmErr.Kind {
		case crmerr.KindNotFound, crmerr.KindValidation:
			log.Warn(logModule, "Request rejected", details)
			message := string(crmErr.Kind)
			if crmErr.Err != nil {
				message = crmErr.Err.Error()
			}
			return ctx.Status(status).JSON(ErrorResponse(status, message))
		}

		log.Error(logModule, "Request failed", details)
		if remediation, ok := RemediationFor(crmErr.Schema); ok {
			return ctx.Status(status).JSON(ErrorResponseWithData(status, messageForKind(crmErr.Kind), remediation))
		}
		return ctx.Status(status).JSON(ErrorResponse(status, messageForKind(crmErr.Kind)))
	}

	log.Error(logModule, "Unhandled error", map[string]interface{}{
		"path":  ctx.Path(),
		"error": err.Error(),
	})
	return ctx.Status(fiber.StatusInternalServerError).
		JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
}
