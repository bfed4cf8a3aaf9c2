package configs

// Plan décrit les capacités d'un niveau d'abonnement.
// Le catalogue est construit une fois au démarrage et passé explicitement
// aux consommateurs (pas de table mutable globale).
type Plan struct {
	Name         string
	Features     []string
	MaxLogements int
	PrixMensuel  int // DA / mois
}

type PlanCatalog map[string]Plan

func (pc PlanCatalog) HasFeature(plan, feature string) bool {
	p, ok := pc[plan]
	if !ok {
		return false
	}
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

func (pc PlanCatalog) MaxLogements(plan string) int {
	if p, ok := pc[plan]; ok {
		return p.MaxLogements
	}
	return 0
}

// DefaultPlans reproduit la grille tarifaire iltizem (basique / silver / gold).
func DefaultPlans() PlanCatalog {
	return PlanCatalog{
		"basique": {
			Name:         "Plan Basique",
			Features:     []string{"cotisations", "paiements_manuels", "emails", "rapports_simple"},
			MaxLogements: 50,
			PrixMensuel:  0,
		},
		"silver": {
			Name: "Plan Silver",
			Features: []string{"cotisations", "paiements_manuels", "emails", "rapports_simple",
				"depenses", "multi_admins", "sms", "export_excel"},
			MaxLogements: 200,
			PrixMensuel:  2000,
		},
		"gold": {
			Name: "Plan Gold",
			Features: []string{"cotisations", "paiements_manuels", "emails", "rapports_simple",
				"depenses", "multi_admins", "sms", "export_excel",
				"paiement_en_ligne", "sondages", "statistiques_avancees"},
			MaxLogements: 1000,
			PrixMensuel:  5000,
		},
	}
}
