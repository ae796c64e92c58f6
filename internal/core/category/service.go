package category

import (
	"context"
	"log/slog"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (service *Service) ListCuration(context context.Context) ([]*CurationCategory, error) {
	return service.repo.ListCuration(context)
}

// ListIAB returns the IAB roots with their children nested.
func (service *Service) ListIAB(context context.Context) ([]*IABCategory, error) {
	flat, err := service.repo.ListIAB(context)
	if err != nil {
		return nil, err
	}
	return buildTree(flat), nil
}

func (service *Service) FindCurationByExternalID(context context.Context, externalID string) (*CurationCategory, error) {
	return service.repo.FindCurationByExternalID(context, externalID)
}

func (service *Service) FindIABByExternalID(context context.Context, externalID string) (*IABCategory, error) {
	return service.repo.FindIABByExternalID(context, externalID)
}

// buildTree nests children under their parent. Orphans whose parent is
// missing from flat are dropped.
func buildTree(flat []*IABCategory) []*IABCategory {
	roots := make([]*IABCategory, 0)
	byID := make(map[int64]*IABCategory, len(flat))

	for _, c := range flat {
		if c.ParentID == nil {
			c.Children = make([]*IABCategory, 0)
			roots = append(roots, c)
			byID[c.ID] = c
		}
	}

	for _, c := range flat {
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Children = append(parent.Children, c)
		}
	}

	return roots
}
