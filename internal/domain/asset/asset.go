package asset

import (
	"time"

	"github.com/google/uuid"
)

// Category is the closed set of asset classifications.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
	CategoryVideo    Category = "video"
	CategoryOther    Category = "other"
)

var categories = map[Category]struct{}{
	CategoryImage:    {},
	CategoryDocument: {},
	CategoryVideo:    {},
	CategoryOther:    {},
}

func (c Category) IsValid() bool {
	_, ok := categories[c]
	return ok
}

type Asset struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Category    Category  `json:"category"`
	ImageKey    *string   `json:"imageKey"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateAssetInput struct {
	OwnerID     string
	Name        string
	Description *string
	Category    Category
	ImageKey    *string
}

// UpdateAssetInput carries patch semantics: nil means leave the column
// untouched, a pointer to the empty string clears a nullable column.
type UpdateAssetInput struct {
	Name        *string
	Description *string
	Category    *Category
	ImageKey    *string
}

type ListAssetsFilter struct {
	OwnerID  string
	Category *Category
	Limit    int
	Offset   int
}
