// Package models chứa các model thuộc domain subscription.
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Subscription: Subscriber theo dõi Channel. Cặp (subscriber, channel) là duy nhất.
type Subscription struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Subscriber primitive.ObjectID `json:"subscriber" bson:"subscriber" index:"compound:subscriber_channel_unique"`
	Channel    primitive.ObjectID `json:"channel" bson:"channel" index:"compound:subscriber_channel_unique;single:1"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
