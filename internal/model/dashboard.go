package model

// ChannelStats is the composite dashboard record for one channel: the
// channel identity, subscription edge counts and the owned videos/tweets
// annotated with their like counts.
type ChannelStats struct {
	Channel      UserSummary `json:"channel"`
	Subscribers  int64       `json:"subscribers"`
	SubscribedTo int64       `json:"subscribed_to"`
	TotalVideos  int64       `json:"total_videos"`
	TotalViews   int64       `json:"total_views"`
	TotalTweets  int64       `json:"total_tweets"`
	Videos       []Video     `json:"videos"`
	Tweets       []Tweet     `json:"tweets"`
}

// ChannelVideo is one owned video with its full engagement tree: like count
// plus every comment, each annotated with its own like count.
type ChannelVideo struct {
	Video    Video     `json:"video"`
	Comments []Comment `json:"comments"`
}
