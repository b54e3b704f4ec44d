// Package models chứa các model thuộc domain comment.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Comment bình luận trên một video
type Comment struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Video     primitive.ObjectID `json:"video" bson:"video" index:"single:1"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner" index:"single:1"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
