package repository

import (
	"context"

	"vidtube/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetSummary(ctx context.Context, id int64) (*model.UserSummary, error)
	// GetWatchHistory returns the viewer's watch history in first-watch order,
	// newest first.
	GetWatchHistory(ctx context.Context, userID int64, page, limit int) ([]model.Video, error)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error)
	Revoke(ctx context.Context, id string, replacedBy *string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
}

type VideoRepository interface {
	Create(ctx context.Context, video *model.Video) error
	// GetByID returns the video with owner identity and like count joined.
	GetByID(ctx context.Context, videoID int64) (*model.Video, error)
	// GetByIDs returns videos in the order of the given ids.
	GetByIDs(ctx context.Context, videoIDs []int64) ([]model.Video, error)
	// Search returns one page of published videos matching the params plus
	// the total match count.
	Search(ctx context.Context, p model.SearchVideosParams) ([]model.Video, int64, error)
	UpdateDetails(ctx context.Context, video *model.Video) error
	SetPublished(ctx context.Context, videoID int64, published bool) error
	Delete(ctx context.Context, videoID int64) error
	// RecordView appends the video to the viewer's watch history and bumps the
	// view counter, both in one transaction. Returns false when the viewer had
	// already watched the video; the counter is untouched in that case.
	RecordView(ctx context.Context, viewerID, videoID int64) (bool, error)
	// CheckLikes reports which of the given videos the user has liked.
	CheckLikes(ctx context.Context, userID int64, videoIDs []int64) (map[int64]bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, commentID int64) (*model.Comment, error)
	Update(ctx context.Context, commentID int64, content string) (*model.Comment, error)
	Delete(ctx context.Context, commentID int64) error
	// ListByVideo returns one page of a video's comments with author and like
	// count joined, newest first.
	ListByVideo(ctx context.Context, videoID int64, page, limit int) ([]model.Comment, error)
}

type LikeRepository interface {
	// Find returns the like edge for (likedBy, target), or nil when absent.
	Find(ctx context.Context, likedBy int64, target model.LikeTarget) (*model.Like, error)
	// Create inserts the edge. Returns model.ErrAlreadyLiked when the unique
	// (liked_by, target) constraint fires.
	Create(ctx context.Context, like *model.Like) error
	DeleteByID(ctx context.Context, likeID int64) error
	// ListLikedVideos returns all videos the user has liked, owner joined.
	ListLikedVideos(ctx context.Context, userID int64) ([]model.Video, error)
}

type SubscriptionRepository interface {
	// Find returns the edge for (subscriber, channel), or nil when absent.
	Find(ctx context.Context, subscriberID, channelID int64) (*model.Subscription, error)
	// Create inserts the edge. Returns model.ErrAlreadySubscribed when the
	// unique (subscriber, channel) constraint fires.
	Create(ctx context.Context, sub *model.Subscription) error
	DeleteByID(ctx context.Context, subscriptionID int64) error
	ListSubscribers(ctx context.Context, channelID int64) ([]model.Subscriber, error)
	ListSubscribedChannels(ctx context.Context, subscriberID int64) ([]model.SubscribedChannel, error)
}

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) error
	GetByID(ctx context.Context, tweetID int64) (*model.Tweet, error)
	Update(ctx context.Context, tweetID int64, content string) (*model.Tweet, error)
	Delete(ctx context.Context, tweetID int64) error
	// ListByOwner returns one page of the user's tweets with like counts,
	// newest first.
	ListByOwner(ctx context.Context, ownerID int64, page, limit int) ([]model.Tweet, error)
}

type PlaylistRepository interface {
	Create(ctx context.Context, playlist *model.Playlist) error
	// GetByID returns the playlist header without its video entries.
	GetByID(ctx context.Context, playlistID int64) (*model.Playlist, error)
	// GetWithVideos returns the playlist with its entries in insertion order.
	// Unpublished entries are visible only when the viewer owns them.
	GetWithVideos(ctx context.Context, playlistID int64, viewerID *int64) (*model.Playlist, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Playlist, error)
	Update(ctx context.Context, playlistID int64, name, description string) (*model.Playlist, error)
	Delete(ctx context.Context, playlistID int64) error
	// AddVideo appends the video to the end of the playlist. Duplicates are
	// permitted.
	AddVideo(ctx context.Context, playlistID, videoID int64) error
	// RemoveVideo removes every entry referencing the video and returns how
	// many were removed.
	RemoveVideo(ctx context.Context, playlistID, videoID int64) (int64, error)
}

type StatsRepository interface {
	// ChannelStats builds the dashboard composite for one channel.
	ChannelStats(ctx context.Context, userID int64) (*model.ChannelStats, error)
	// ChannelVideos returns one page of owned videos, each with its nested
	// comments.
	ChannelVideos(ctx context.Context, userID int64, page, limit int) ([]model.ChannelVideo, error)
}
