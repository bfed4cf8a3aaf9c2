package features

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	assocModel "iltizem_backend/internals/features/associations/associations/model"
)

// UseAssociationScope résout l'association active de l'admin connecté et la
// pose dans le contexte (id + plan). Association inactive ou absente => 403.
func UseAssociationScope(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid, ok := c.Locals("user_id").(string)
		if !ok || uid == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		var assoc assocModel.AssociationModel
		err := db.
			Where("association_admin_id = ? AND association_actif = ?", uid, true).
			First(&assoc).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusForbidden, "Association inactive ou non trouvée")
			}
			log.Println("[ERROR] scope association:", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Internal Server Error")
		}

		c.Locals("association_id", assoc.AssociationID.String())
		c.Locals("association_plan", assoc.AssociationPlan)
		return c.Next()
	}
}
