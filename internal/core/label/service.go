package label

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/postgres"
	"github.com/taibuivan/collections-api/internal/platform/sec"
	"github.com/taibuivan/collections-api/internal/platform/validate"
	"github.com/taibuivan/collections-api/pkg/uuid"
)

type Service struct {
	repo   Repository
	tx     postgres.Transactor
	logger *slog.Logger
}

func NewService(repo Repository, tx postgres.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		logger: logger,
	}
}

func (service *Service) List(context stdctx.Context) ([]*Label, error) {
	return service.repo.List(context)
}

// FindByExternalIDs is used by the collection service to resolve label links.
func (service *Service) FindByExternalIDs(context stdctx.Context, externalIDs []string) ([]*Label, error) {
	return service.repo.FindByExternalIDs(context, externalIDs)
}

/*
Create stores a new label owned by actor.

Returns:
  - error: VALIDATION for an empty name, CONFLICT when the name exists
*/
func (service *Service) Create(context stdctx.Context, input CreateInput, actor sec.Actor) (*Label, error) {
	name := strings.TrimSpace(input.Name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	taken, err := service.repo.NameTaken(context, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, nameConflict(name)
	}

	label := &Label{
		ExternalID: uuid.New(),
		Name:       name,
		CreatedBy:  actor.Username,
	}
	if err := service.repo.Insert(context, label); err != nil {
		return nil, err
	}

	service.logger.Info("label_created",
		slog.String("external_id", label.ExternalID),
		slog.String("created_by", actor.Username),
	)
	return label, nil
}

/*
Update renames a label.

A label that is linked to any collection cannot be renamed. The usage check
and the write share one transaction.

Returns:
  - error: NOT_FOUND, or CONFLICT for a duplicate name or a label in use
*/
func (service *Service) Update(context stdctx.Context, input UpdateInput, actor sec.Actor) (*Label, error) {
	name := strings.TrimSpace(input.Name)

	validator := &validate.Validator{}
	validator.Required(FieldExternalID, input.ExternalID)
	if err := validator.Err(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	var label *Label
	err := service.tx.WithinTx(context, func(txCtx stdctx.Context) error {
		existing, err := service.repo.FindByExternalID(txCtx, input.ExternalID)
		if err != nil {
			return err
		}

		taken, err := service.repo.NameTaken(txCtx, name, existing.ExternalID)
		if err != nil {
			return err
		}
		if taken {
			return nameConflict(name)
		}

		inUse, err := service.repo.InUse(txCtx, existing.ID)
		if err != nil {
			return err
		}
		if inUse {
			return apperr.Conflict(fmt.Sprintf("Cannot rename label %q: it is attached to one or more collections", existing.Name))
		}

		existing.Name = name
		existing.UpdatedBy = &actor.Username
		if err := service.repo.Update(txCtx, existing); err != nil {
			return err
		}

		label = existing
		return nil
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("label_updated", slog.String("external_id", label.ExternalID))
	return label, nil
}

func validateName(name string) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 255)
	return validator.Err()
}

func nameConflict(name string) error {
	return apperr.Conflict(fmt.Sprintf("A label with the name %q already exists", name))
}
