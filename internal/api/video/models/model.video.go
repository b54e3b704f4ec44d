// Package models chứa các model thuộc domain video.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	basemodels "vidtube/internal/api/base/models"
)

// Video đại diện cho một video đã upload
type Video struct {
	ID          primitive.ObjectID    `json:"_id" bson:"_id,omitempty"`
	VideoFile   basemodels.MediaAsset `json:"videoFile" bson:"videoFile"`
	Thumbnail   basemodels.MediaAsset `json:"thumbnail" bson:"thumbnail"`
	Title       string                `json:"title" bson:"title" index:"text"`
	Description string                `json:"description" bson:"description" index:"text"`
	Duration    float64               `json:"duration" bson:"duration"` // Giây
	Views       int64                 `json:"views" bson:"views"`
	IsPublished bool                  `json:"isPublished" bson:"isPublished" index:"single:1"`
	Owner       primitive.ObjectID    `json:"owner" bson:"owner" index:"single:1;compound:owner_created,order:1"`
	CreatedAt   int64                 `json:"createdAt" bson:"createdAt" index:"compound:owner_created,order:-1"`
	UpdatedAt   int64                 `json:"updatedAt" bson:"updatedAt"`
}
