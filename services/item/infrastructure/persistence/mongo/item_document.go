package mongo

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/catalog/services/item/domain/models"
)

// itemDocument is the stored shape of an Item. The ID and creation date are
// kept as strings instead of native BSON binary/date types so documents stay
// readable and independent of driver-specific encodings.
type itemDocument struct {
	ID          string  `bson:"_id"`
	Name        string  `bson:"name"`
	Description string  `bson:"description"`
	Price       float64 `bson:"price"`
	CreatedDate string  `bson:"createdDate"`
}

// createdDateLayout keeps sub-second precision and always renders UTC.
const createdDateLayout = time.RFC3339Nano

func toDocument(item *models.Item) itemDocument {
	return itemDocument{
		ID:          item.ID.String(),
		Name:        item.Name.String(),
		Description: item.Description,
		Price:       item.Price,
		CreatedDate: item.CreatedDate.UTC().Format(createdDateLayout),
	}
}

func (d itemDocument) toItem() (*models.Item, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("parse _id %q: %w", d.ID, err)
	}
	created, err := time.Parse(createdDateLayout, d.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("parse createdDate %q: %w", d.CreatedDate, err)
	}
	return &models.Item{
		ID:          id,
		Name:        models.ItemName(d.Name),
		Description: d.Description,
		Price:       d.Price,
		CreatedDate: created.UTC(),
	}, nil
}
