package entity

import "time"

// Audit campos de auditoría y soft delete compartidos por las entidades del ledger.
// CreatedBy/ModifiedBy/DeletedBy son nil para operaciones de sistema (seed/bootstrap);
// nunca se fabrica un usuario. DeletedAt nil = registro vivo.
type Audit struct {
	CreatedBy  *string
	ModifiedBy *string
	DeletedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// IsDeleted indica si la entidad fue eliminada (soft delete).
func (a Audit) IsDeleted() bool {
	return a.DeletedAt != nil
}

// MarkDeleted marca el soft delete con el actor que elimina.
func (a *Audit) MarkDeleted(actor *string, now time.Time) {
	a.DeletedAt = &now
	a.DeletedBy = actor
	a.UpdatedAt = now
}

// Touch actualiza UpdatedAt y ModifiedBy en una mutación de metadatos.
func (a *Audit) Touch(actor *string, now time.Time) {
	a.ModifiedBy = actor
	a.UpdatedAt = now
}
