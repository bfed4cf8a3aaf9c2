package model

import (
	"time"

	"github.com/google/uuid"
)

// RecuCompteur sérialise la numérotation des reçus: une ligne par
// (association, année), incrémentée en upsert dans la transaction de
// paiement pour éviter tout doublon sous concurrence.
type RecuCompteur struct {
	RecuCompteurAssociationID uuid.UUID `gorm:"column:recu_compteur_association_id;type:uuid;not null;primaryKey" json:"recu_compteur_association_id"`
	RecuCompteurAnnee         int       `gorm:"column:recu_compteur_annee;not null;primaryKey" json:"recu_compteur_annee"`

	RecuCompteurDernierNumero int `gorm:"column:recu_compteur_dernier_numero;not null;default:0" json:"recu_compteur_dernier_numero"`

	RecuCompteurUpdatedAt time.Time `gorm:"column:recu_compteur_updated_at;autoUpdateTime" json:"recu_compteur_updated_at"`
}

func (RecuCompteur) TableName() string {
	return "recu_compteurs"
}
