package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/coreagenda/internal/domain/entities"
	"github.com/johnquangdev/coreagenda/internal/domain/repositories"
)

// presenterRepository implements the PresenterRepository interface
type presenterRepository struct {
	db *gorm.DB
}

// NewPresenterRepository creates a new presenter repository
func NewPresenterRepository(db *gorm.DB) repositories.PresenterRepository {
	return &presenterRepository{db: db}
}

// Create creates a new presenter
func (r *presenterRepository) Create(ctx context.Context, presenter *entities.Presenter) error {
	return r.db.WithContext(ctx).Create(presenter).Error
}

// ListByMeeting retrieves the presenters of a meeting
func (r *presenterRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID) ([]*entities.Presenter, error) {
	var presenters []*entities.Presenter
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&presenters).Error
	return presenters, err
}

// externalRequestRepository implements the ExternalRequestRepository interface
type externalRequestRepository struct {
	db *gorm.DB
}

// NewExternalRequestRepository creates a new external request repository
func NewExternalRequestRepository(db *gorm.DB) repositories.ExternalRequestRepository {
	return &externalRequestRepository{db: db}
}

// Create creates a new pending request
func (r *externalRequestRepository) Create(ctx context.Context, req *entities.ExternalRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindByID retrieves a request by its ID
func (r *externalRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ExternalRequest, error) {
	var req entities.ExternalRequest
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&req).Error

	if err != nil {
		return nil, notFound(err, entities.EntityExternalRequest, id)
	}
	return &req, nil
}

// ListByMeeting retrieves requests of a meeting, optionally filtered by status
func (r *externalRequestRepository) ListByMeeting(ctx context.Context, meetingID uuid.UUID, status *entities.ExternalRequestStatus) ([]*entities.ExternalRequest, error) {
	var reqs []*entities.ExternalRequest
	query := r.db.WithContext(ctx).Where("meeting_id = ?", meetingID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	err := query.Order("created_at ASC").Find(&reqs).Error
	return reqs, err
}

// Approve resolves the request and inserts the agenda item and presenter in one transaction
func (r *externalRequestRepository) Approve(ctx context.Context, req *entities.ExternalRequest, item *entities.AgendaItem, presenter *entities.Presenter, actor *uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		if presenter != nil {
			if err := tx.Create(presenter).Error; err != nil {
				return err
			}
		}
		return r.resolution(req, entities.ExternalRequestPending, actor).applyTx(tx)
	})
}

// UpdateStatus persists any other request transition. Nothing is produced.
func (r *externalRequestRepository) UpdateStatus(ctx context.Context, req *entities.ExternalRequest, from entities.ExternalRequestStatus, actor *uuid.UUID) error {
	return r.resolution(req, from, actor).apply(ctx, r.db)
}

func (r *externalRequestRepository) resolution(req *entities.ExternalRequest, from entities.ExternalRequestStatus, actor *uuid.UUID) statusUpdate {
	return statusUpdate{
		model:  &entities.ExternalRequest{},
		entity: entities.EntityExternalRequest,
		id:     req.ID,
		from:   string(from),
		to:     string(req.Status),
		actor:  actor,
		at:     req.UpdatedAt,
		changes: map[string]interface{}{
			"resolved_by":     req.ResolvedBy,
			"resolved_at":     req.ResolvedAt,
			"resolution_note": req.ResolutionNote,
			"agenda_item_id":  req.AgendaItemID,
		},
	}
}
