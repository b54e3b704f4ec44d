// Package tweetdto chứa các struct input cho domain tweet.
package tweetdto

// TweetInput nội dung tweet (tạo mới và cập nhật)
type TweetInput struct {
	Content string `json:"content" form:"content" validate:"required,notblank,max=500,no_xss"`
}
