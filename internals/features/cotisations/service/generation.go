package service

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	assocModel "iltizem_backend/internals/features/associations/associations/model"
	logementModel "iltizem_backend/internals/features/associations/logements/model"
	"iltizem_backend/internals/features/cotisations/cotisations/model"
	typeModel "iltizem_backend/internals/features/cotisations/types/model"
)

// ResultatGeneration résume une passe de génération.
type ResultatGeneration struct {
	AssociationID uuid.UUID `json:"association_id"`
	Periode       string    `json:"periode,omitempty"`
	Creees        int64     `json:"creees"`
	Ignorees      int64     `json:"ignorees"` // déjà existantes (idempotence)
}

// GenererCotisations crée les cotisations d'une association pour la période
// visée: celle passée en argument, sinon la période suivant ref pour chaque
// type. Rejouable sans doublon grâce à la contrainte unique
// (logement, type, periode) et à l'insertion ON CONFLICT DO NOTHING.
// Pas de transaction englobante: chaque lot de type est inséré pour son
// propre compte, l'échec d'un type ne défait pas les lots déjà insérés
// (l'idempotence rend la reprise triviale).
func GenererCotisations(db *gorm.DB, associationID uuid.UUID, typeID *uuid.UUID, periode string, ref time.Time) (*ResultatGeneration, error) {
	res := &ResultatGeneration{AssociationID: associationID, Periode: periode}

	typesTx := db.Where("type_cotisation_association_id = ? AND type_cotisation_actif = ?", associationID, true)
	if typeID != nil {
		typesTx = typesTx.Where("type_cotisation_id = ?", *typeID)
	}
	var types []typeModel.TypeCotisationModel
	if err := typesTx.Find(&types).Error; err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("aucun type de cotisation actif")
	}

	var logements []logementModel.LogementModel
	if err := db.
		Where("logement_association_id = ? AND logement_actif = ?", associationID, true).
		Find(&logements).Error; err != nil {
		return nil, err
	}
	if len(logements) == 0 {
		return res, nil
	}

	for _, t := range types {
		periodeCible := periode
		if periodeCible == "" {
			var err error
			periodeCible, err = ProchainePeriode(t.TypeCotisationPeriodicite, ref)
			if err != nil {
				if typeID != nil {
					return nil, err
				}
				log.Printf("[GENERATION ERROR] type %s: %v", t.TypeCotisationNom, err)
				continue
			}
		} else if err := ValiderPeriode(t.TypeCotisationPeriodicite, periodeCible); err != nil {
			// une période explicite ne vaut que pour les types de même périodicité
			if typeID != nil {
				return nil, err
			}
			continue
		}

		echeance, err := Echeance(t.TypeCotisationPeriodicite, periodeCible)
		if err != nil {
			if typeID != nil {
				return nil, err
			}
			log.Printf("[GENERATION ERROR] type %s: %v", t.TypeCotisationNom, err)
			continue
		}

		batch := make([]model.CotisationModel, 0, len(logements))
		for _, lg := range logements {
			montant := t.TypeCotisationMontant
			if lg.LogementMontantOverride != nil && lg.LogementMontantOverride.IsPositive() {
				montant = *lg.LogementMontantOverride
			}
			batch = append(batch, model.CotisationModel{
				CotisationAssociationID: associationID,
				CotisationLogementID:    lg.LogementID,
				CotisationTypeID:        t.TypeCotisationID,
				CotisationPeriode:       periodeCible,
				CotisationMontant:       montant,
				CotisationStatut:        model.StatutDue,
				CotisationDateEcheance:  echeance,
			})
		}

		ins := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "cotisation_logement_id"},
				{Name: "cotisation_type_id"},
				{Name: "cotisation_periode"},
			},
			DoNothing: true,
		}).Create(&batch)
		if ins.Error != nil {
			// les lots précédents restent acquis
			if typeID != nil {
				return nil, ins.Error
			}
			log.Printf("[GENERATION ERROR] type %s: %v", t.TypeCotisationNom, ins.Error)
			continue
		}
		res.Creees += ins.RowsAffected
		res.Ignorees += int64(len(batch)) - ins.RowsAffected
	}
	return res, nil
}

// GenererToutes lance la génération pour toutes les associations actives.
// Appelée par le scheduler le 25 de chaque mois.
func GenererToutes(db *gorm.DB, ref time.Time) {
	var associations []assocModel.AssociationModel
	if err := db.Select("association_id", "association_nom").
		Where("association_actif = ?", true).
		Find(&associations).Error; err != nil {
		log.Printf("[GENERATION ERROR] Lecture associations: %v", err)
		return
	}

	for _, a := range associations {
		r, err := GenererCotisations(db, a.AssociationID, nil, "", ref)
		if err != nil {
			log.Printf("[GENERATION ERROR] %s: %v", a.AssociationNom, err)
			continue
		}
		if r.Creees > 0 {
			log.Printf("[GENERATION] %s: %d cotisations créées (%d déjà existantes)",
				a.AssociationNom, r.Creees, r.Ignorees)
		}
	}
}
