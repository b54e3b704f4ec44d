// Package models chứa các model thuộc domain tweet.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Tweet bài viết ngắn của một kênh
type Tweet struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner" index:"single:1"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
