package services

import (
	"encoding/json"

	"gorm.io/gorm"

	apperrors "optionvault/internal/errors"
	"optionvault/internal/models"
	"optionvault/internal/pagination"
)

// eventService records lifecycle events. Unlike a best-effort audit trail,
// events are written through the operation's transaction handle so an
// aborted operation emits nothing.
type eventService struct {
	db *gorm.DB
}

// NewEventService creates a new EventServicer.
func NewEventService(db *gorm.DB) EventServicer {
	return &eventService{db: db}
}

// Record appends one event for a successful transition.
func (s *eventService) Record(tx *gorm.DB, optionID, traderID uint, action string, details map[string]any) error {
	var detailsJSON string
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		detailsJSON = string(data)
	}

	entry := &models.OptionEvent{
		OptionID: optionID,
		TraderID: traderID,
		Action:   action,
		Details:  detailsJSON,
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetOptionEvents returns an option's events in emission order.
func (s *eventService) GetOptionEvents(optionID uint, page pagination.PageRequest) (*pagination.PageResponse[models.OptionEvent], error) {
	page.Defaults()

	base := s.db.Model(&models.OptionEvent{}).Where("option_id = ?", optionID)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var events []models.OptionEvent
	if err := base.Scopes(pagination.Paginate(page)).
		Order("id ASC").
		Find(&events).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(events, page.Page, page.PageSize, totalItems)
	return &result, nil
}
