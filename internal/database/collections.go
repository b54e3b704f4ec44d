package database

// Tên các collection MongoDB
const (
	ColUsers         = "users"
	ColVideos        = "videos"
	ColComments      = "comments"
	ColLikes         = "likes"
	ColSubscriptions = "subscriptions"
	ColPlaylists     = "playlists"
	ColTweets        = "tweets"
)

// AllCollections liệt kê các collection cần tồn tại khi khởi động
var AllCollections = []string{
	ColUsers,
	ColVideos,
	ColComments,
	ColLikes,
	ColSubscriptions,
	ColPlaylists,
	ColTweets,
}
