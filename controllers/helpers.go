package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"projecttracker/models"
	"projecttracker/realtime"
	"projecttracker/repository"
	"projecttracker/utils"
)

const invalidBody = "Invalid request body"

// parseBody decodes and validates a JSON body, writing the 400 itself.
// ok is false when the handler should return err as is.
func parseBody(c *fiber.Ctx, req interface{}) (ok bool, err error) {
	if err := c.BodyParser(req); err != nil {
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, invalidBody, err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return false, utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	return true, nil
}

// idParam returns the :id route parameter. Malformed ids cannot match a row,
// so they are reported the same way as missing ones.
func idParam(c *fiber.Ctx, entity string) (string, bool, error) {
	id := c.Params("id")
	if !models.IsValidID(id) {
		return "", false, notFound(c, entity)
	}
	return id, true, nil
}

func notFound(c *fiber.Ctx, entity string) error {
	return utils.ErrorResponse(c, fiber.StatusNotFound, entity+" not found", nil)
}

// repoError maps repository failures onto HTTP statuses. failMsg is what the
// client sees for unexpected errors.
func repoError(c *fiber.Ctx, entity, failMsg string, err error) error {
	var inUse *repository.RoleInUseError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return notFound(c, entity)
	case errors.Is(err, repository.ErrDuplicate):
		return utils.ErrorResponse(c, fiber.StatusConflict, entity+" already exists", nil)
	case errors.As(err, &inUse):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":   inUse.Error(),
			"members": inUse.Members,
		})
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, failMsg, err)
	}
}

func deleted(c *fiber.Ctx, entity string) error {
	return utils.MessageResponse(c, entity+" deleted successfully")
}

// changes wraps an optional publisher so controllers can always call it.
type changes struct {
	pub    realtime.Publisher
	entity string
}

func (ch changes) emit(action, id string) {
	if ch.pub == nil {
		return
	}
	ch.pub.Publish(realtime.Event{Entity: ch.entity, Action: action, ID: id})
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
