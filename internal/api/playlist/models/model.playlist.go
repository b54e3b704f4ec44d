// Package models chứa các model thuộc domain playlist.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Playlist danh sách video có thứ tự, không trùng
type Playlist struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Owner       primitive.ObjectID   `json:"owner" bson:"owner" index:"single:1"`
	Videos      []primitive.ObjectID `json:"videos" bson:"videos"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}
