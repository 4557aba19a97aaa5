package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// notFound maps gorm's missing-row error to the domain error
func notFound(err error, entity entities.EntityType, id uuid.UUID) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entities.NewNotFoundError(entity, id)
	}
	return err
}

// statusUpdate is a conditional status change plus its audit row
type statusUpdate struct {
	model   interface{}
	entity  entities.EntityType
	id      uuid.UUID
	from    string
	to      string
	actor   *uuid.UUID
	at      time.Time
	changes map[string]interface{}
}

// apply runs the compare-and-set and the audit insert in one transaction.
// A concurrent writer that changed the status first leaves zero affected rows.
func (u statusUpdate) apply(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return u.applyTx(tx)
	})
}

func (u statusUpdate) applyTx(tx *gorm.DB) error {
	changes := u.changes
	if changes == nil {
		changes = map[string]interface{}{}
	}
	changes["status"] = u.to
	changes["updated_at"] = u.at

	res := tx.Model(u.model).
		Where("id = ? AND status = ?", u.id, u.from).
		Updates(changes)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repositories.ErrConcurrentUpdate
	}

	t := entities.NewTransition(u.entity, u.id, u.from, u.to, u.actor, u.at)
	return tx.Create(&t).Error
}
