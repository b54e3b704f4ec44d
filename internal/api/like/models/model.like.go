// Package models chứa các model thuộc domain like.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Like: đúng một trong Video, Comment, Tweet khác nil
type Like struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Video     *primitive.ObjectID `json:"video" bson:"video,omitempty" index:"single:1"`
	Comment   *primitive.ObjectID `json:"comment" bson:"comment,omitempty" index:"single:1"`
	Tweet     *primitive.ObjectID `json:"tweet" bson:"tweet,omitempty" index:"single:1"`
	LikedBy   primitive.ObjectID  `json:"likedBy" bson:"likedBy" index:"single:1"`
	CreatedAt int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64               `json:"updatedAt" bson:"updatedAt"`
}
