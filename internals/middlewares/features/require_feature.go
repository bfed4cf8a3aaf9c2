package features

import (
	"github.com/gofiber/fiber/v2"

	"iltizem_backend/internals/configs"
)

// RequireFeature bloque la route si le plan de l'association ne couvre pas la
// fonctionnalité (export_excel, sms, paiement_en_ligne...). Le catalogue est
// injecté au démarrage, jamais lu depuis un état global mutable.
func RequireFeature(plans configs.PlanCatalog, feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		plan, ok := c.Locals("association_plan").(string)
		if !ok || plan == "" {
			return fiber.NewError(fiber.StatusForbidden, "Plan inconnu")
		}
		if !plans.HasFeature(plan, feature) {
			return fiber.NewError(fiber.StatusForbidden, "Fonctionnalité non disponible pour votre plan")
		}
		return c.Next()
	}
}
