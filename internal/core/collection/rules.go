package collection

import (
	"fmt"

	"github.com/taibuivan/collections-api/internal/core/category"
	"github.com/taibuivan/collections-api/internal/platform/apperr"
	"github.com/taibuivan/collections-api/internal/platform/validate"
)

// checkLabelLimit rejects label lists longer than limit.
func checkLabelLimit(labelExternalIDs []string, limit int) error {
	if len(labelExternalIDs) <= limit {
		return nil
	}
	return apperr.ValidationError(
		fmt.Sprintf("Too many labels provided: %d given, a collection may have at most %d", len(labelExternalIDs), limit),
		apperr.FieldError{
			Field:   FieldLabelExternalIDs,
			Message: fmt.Sprintf("Maximum %d labels, got %d", limit, len(labelExternalIDs)),
		},
	)
}

// checkSearchFilter rejects a search without any filter.
func checkSearchFilter(filter SearchFilter) error {
	if !filter.empty() {
		return nil
	}
	return validate.RequiredError(FieldFilters,
		"At least one filter (author, title, status, labelExternalIds) is required")
}

func validateCollection(slug, title string, status Status, language category.Language, imageURL *string, authorExternalID string) error {
	validator := &validate.Validator{}

	validator.
		Required(FieldSlug, slug).
		Required(FieldTitle, title).
		MaxLen(FieldTitle, title, 300).
		Required(FieldAuthorExternalID, authorExternalID).
		OneOf(FieldStatus, string(status), Statuses()...)

	if slug != "" {
		validator.Slug(FieldSlug, slug)
	}
	if language != "" {
		validator.Custom(FieldLanguage, !language.Valid(), "Unsupported language")
	}
	if imageURL != nil {
		validator.URL(FieldImageURL, *imageURL)
	}

	return validator.Err()
}

func validateStory(url, title, excerpt, publisher string, imageURL *string, sortOrder *int, authors []StoryAuthor) error {
	validator := &validate.Validator{}

	validator.
		URL(FieldURL, url).
		Required(FieldTitle, title).
		Required(FieldExcerpt, excerpt).
		Required(FieldPublisher, publisher)

	if imageURL != nil {
		validator.URL(FieldImageURL, *imageURL)
	}
	if sortOrder != nil {
		validator.Min(FieldSortOrder, *sortOrder, 0)
	}
	for i, a := range authors {
		validator.Required(fmt.Sprintf("%s[%d].name", FieldAuthors, i), a.Name)
	}

	return validator.Err()
}

func validatePartnershipType(partnershipType PartnershipType) error {
	validator := &validate.Validator{}
	return validator.OneOf(FieldType, string(partnershipType), string(PartnershipPartnered), string(PartnershipSponsored)).Err()
}
