// Package mapper turns flat joined rows into the nested view records handed
// to callers. Nothing here touches storage.
package mapper

import (
	"strings"
	"time"

	"redditclone/internal/models"
	"redditclone/internal/utils"
)

var imageExtensions = []string{".gif", ".png", ".jpg", ".jpeg"}

// NormalizeURL prefixes https:// unless the URL already names http or https.
func NormalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	if strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "http://") {
		return u
	}
	return "https://" + u
}

// IsImageURL guesses from the extension whether a link points at an image.
func IsImageURL(u string) bool {
	path := strings.ToLower(u)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, ext := range imageExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func PublicUser(u *models.User) models.PublicUser {
	return models.PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func Subreddit(s *models.Subreddit, r utils.Renderer) models.SubredditView {
	return models.SubredditView{
		ID:          s.ID,
		Name:        s.Name,
		Description: r.Render(s.Description),
		ModeratorID: s.ModeratorID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Post nests a PostRow. now is the reference time for the hot score.
func Post(row *models.PostRow, r utils.Renderer, now time.Time) models.PostView {
	view := models.PostView{
		ID:           row.PostsID,
		Title:        utils.Emojify(row.PostsTitle),
		URL:          row.PostsURL,
		CreatedAt:    row.PostsCreatedAt,
		UpdatedAt:    row.PostsUpdatedAt,
		VoteScore:    row.VoteScore,
		NumUpvotes:   row.NumUpvotes,
		NumDownvotes: row.NumDownvotes,
		HotScore:     utils.HotScore(row.VoteScore, row.PostsCreatedAt, now),
		User: models.PublicUser{
			ID:        row.UsersID,
			Username:  row.UsersUsername,
			CreatedAt: row.UsersCreatedAt,
			UpdatedAt: row.UsersUpdatedAt,
		},
		Subreddit: models.SubredditView{
			ID:          row.SubredditsID,
			Name:        row.SubredditsName,
			ModeratorID: row.SubredditsModerator,
			CreatedAt:   row.SubredditsCreatedAt,
			UpdatedAt:   row.SubredditsUpdatedAt,
		},
	}
	if row.PostsURL != nil && *row.PostsURL != "" {
		view.IsImage = IsImageURL(*row.PostsURL)
	}
	if row.PostsPostText != nil {
		rendered := r.Render(*row.PostsPostText)
		view.PostText = &rendered
	}
	if row.SubredditsDesc != nil {
		view.Subreddit.Description = r.Render(*row.SubredditsDesc)
	}
	return view
}

func Posts(rows []models.PostRow, r utils.Renderer, now time.Time) []models.PostView {
	views := make([]models.PostView, 0, len(rows))
	for i := range rows {
		views = append(views, Post(&rows[i], r, now))
	}
	return views
}

// Comment nests a CommentRow with the minimal author identity.
func Comment(row *models.CommentRow, r utils.Renderer) models.CommentView {
	return models.CommentView{
		ID:        row.CommentsID,
		PostID:    row.CommentsPostID,
		Text:      r.Render(row.CommentsText),
		VoteScore: row.VoteScore,
		CreatedAt: row.CommentsCreatedAt,
		UpdatedAt: row.CommentsUpdatedAt,
		User: models.PublicUser{
			ID:       row.UsersID,
			Username: row.UsersUsername,
		},
	}
}

func Comments(rows []models.CommentRow, r utils.Renderer) []models.CommentView {
	views := make([]models.CommentView, 0, len(rows))
	for i := range rows {
		views = append(views, Comment(&rows[i], r))
	}
	return views
}
