package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Product represents a catalog item. Image fields hold paths under the
// /uploads static prefix.
type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty"          json:"_id"`
	Name        string        `bson:"name"                   json:"name"`
	Price       float64       `bson:"price"                  json:"price"`
	Description string        `bson:"description"            json:"description"`
	Image       string        `bson:"image"                  json:"image"`
	ExtraImages []string      `bson:"extra_images,omitempty" json:"extraImages,omitempty"`
	Category    string        `bson:"category,omitempty"     json:"category,omitempty"`
	SubCategory string        `bson:"sub_category,omitempty" json:"subCategory,omitempty"`
	CreatedAt   time.Time     `bson:"created_at"             json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updated_at"             json:"updatedAt"`
}
