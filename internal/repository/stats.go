package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vidtube/internal/model"
)

type statsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) StatsRepository {
	return &statsRepository{db: db}
}

// ChannelStats gathers the dashboard header numbers plus the channel's
// videos and tweets in one round of queries.
func (r *statsRepository) ChannelStats(ctx context.Context, channelID int64) (*model.ChannelStats, error) {
	headerQuery := `
		SELECT
			u.id AS "channel.id",
			u.username AS "channel.username",
			u.avatar_url AS "channel.avatar_url",
			(SELECT COUNT(*) FROM subscriptions s WHERE s.channel_id = u.id) AS subscribers,
			(SELECT COUNT(*) FROM subscriptions s WHERE s.subscriber_id = u.id) AS subscribed_to,
			(SELECT COUNT(*) FROM videos v WHERE v.owner_id = u.id) AS total_videos,
			(SELECT COALESCE(SUM(v.views), 0) FROM videos v WHERE v.owner_id = u.id) AS total_views,
			(SELECT COUNT(*) FROM tweets t WHERE t.owner_id = u.id) AS total_tweets
		FROM users u
		WHERE u.id = $1
	`
	var header struct {
		Channel      model.UserSummary `db:"channel"`
		Subscribers  int64             `db:"subscribers"`
		SubscribedTo int64             `db:"subscribed_to"`
		TotalVideos  int64             `db:"total_videos"`
		TotalViews   int64             `db:"total_views"`
		TotalTweets  int64             `db:"total_tweets"`
	}
	err := r.db.GetContext(ctx, &header, headerQuery, channelID)
	if err == sql.ErrNoRows {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get channel stats: %w", err)
	}

	videosQuery := `
		SELECT ` + videoSelectColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.owner_id = $1
		ORDER BY v.created_at DESC, v.id DESC
	`
	var videoRows []videoRow
	if err := r.db.SelectContext(ctx, &videoRows, videosQuery, channelID); err != nil {
		return nil, fmt.Errorf("list channel videos: %w", err)
	}

	tweetsQuery := `
		SELECT ` + tweetSelectColumns + `
		FROM tweets t
		JOIN users u ON u.id = t.owner_id
		WHERE t.owner_id = $1
		ORDER BY t.created_at DESC, t.id DESC
	`
	var tweetRows []tweetRow
	if err := r.db.SelectContext(ctx, &tweetRows, tweetsQuery, channelID); err != nil {
		return nil, fmt.Errorf("list channel tweets: %w", err)
	}

	stats := &model.ChannelStats{
		Channel:      header.Channel,
		Subscribers:  header.Subscribers,
		SubscribedTo: header.SubscribedTo,
		TotalVideos:  header.TotalVideos,
		TotalViews:   header.TotalViews,
		TotalTweets:  header.TotalTweets,
		Videos:       make([]model.Video, 0, len(videoRows)),
		Tweets:       make([]model.Tweet, 0, len(tweetRows)),
	}
	for _, row := range videoRows {
		stats.Videos = append(stats.Videos, row.toVideo())
	}
	for _, row := range tweetRows {
		stats.Tweets = append(stats.Tweets, row.toTweet())
	}
	return stats, nil
}

// ChannelVideos pages through a channel's uploads and attaches each video's
// comments. Comments for the whole page are fetched in one query and grouped
// in memory to avoid a per-video round trip.
func (r *statsRepository) ChannelVideos(ctx context.Context, channelID int64, page, limit int) ([]model.ChannelVideo, error) {
	videosQuery := `
		SELECT ` + videoSelectColumns + `
		FROM videos v
		JOIN users u ON u.id = v.owner_id
		WHERE v.owner_id = $1
		ORDER BY v.created_at DESC, v.id DESC
		OFFSET $2 LIMIT $3
	`
	var videoRows []videoRow
	err := r.db.SelectContext(ctx, &videoRows, videosQuery, channelID, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list channel videos: %w", err)
	}
	if len(videoRows) == 0 {
		return []model.ChannelVideo{}, nil
	}

	videoIDs := make([]int64, 0, len(videoRows))
	for _, row := range videoRows {
		videoIDs = append(videoIDs, row.ID)
	}

	commentsQuery := `
		SELECT ` + commentSelectColumns + `
		FROM comments c
		JOIN users u ON u.id = c.owner_id
		WHERE c.video_id = ANY($1)
		ORDER BY c.created_at DESC, c.id DESC
	`
	var commentRows []commentRow
	if err := r.db.SelectContext(ctx, &commentRows, commentsQuery, pq.Array(videoIDs)); err != nil {
		return nil, fmt.Errorf("list channel video comments: %w", err)
	}

	commentsByVideo := make(map[int64][]model.Comment, len(videoRows))
	for _, row := range commentRows {
		commentsByVideo[row.VideoID] = append(commentsByVideo[row.VideoID], row.toComment())
	}

	result := make([]model.ChannelVideo, 0, len(videoRows))
	for _, row := range videoRows {
		comments := commentsByVideo[row.ID]
		if comments == nil {
			comments = []model.Comment{}
		}
		result = append(result, model.ChannelVideo{
			Video:    row.toVideo(),
			Comments: comments,
		})
	}
	return result, nil
}
