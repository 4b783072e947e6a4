package mapper

import (
	"encoding/json"
	"testing"
	"time"

	"redditclone/internal/models"
	"redditclone/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wrapRenderer struct{}

func (wrapRenderer) Render(s string) string { return "<p>" + s + "</p>" }

func strPtr(s string) *string { return &s }

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"example.com":          "https://example.com",
		"http://example.com":   "http://example.com",
		"https://example.com":  "https://example.com",
		"HTTPS://Example.com":  "HTTPS://Example.com",
		"  www.example.com/x ": "https://www.example.com/x",
		"":                     "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeURL(in), in)
	}
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, IsImageURL("https://i.example.com/a.gif"))
	assert.True(t, IsImageURL("https://i.example.com/a.PNG"))
	assert.True(t, IsImageURL("https://i.example.com/a.jpg?w=200"))
	assert.False(t, IsImageURL("https://example.com/article"))
	assert.False(t, IsImageURL("https://example.com/png"))
}

func TestPostFromRow(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	row := models.PostRow{
		PostsID:        3,
		PostsTitle:     "cats",
		PostsURL:       strPtr("https://example.com/cat.png"),
		PostsCreatedAt: created,
		UsersID:        9,
		UsersUsername:  "bob",
		SubredditsID:   2,
		SubredditsName: "pics",
		SubredditsDesc: strPtr("pictures"),
		VoteScore:      4,
		NumUpvotes:     5,
		NumDownvotes:   1,
	}

	view := Post(&row, wrapRenderer{}, created.Add(2*time.Second))
	assert.Equal(t, uint(3), view.ID)
	assert.True(t, view.IsImage)
	assert.Nil(t, view.PostText)
	assert.Equal(t, "bob", view.User.Username)
	assert.Equal(t, "<p>pictures</p>", view.Subreddit.Description)
	assert.InDelta(t, 2.0, view.HotScore, 1e-9)
	assert.EqualValues(t, 5, view.NumUpvotes)

	row.PostsURL = nil
	row.PostsPostText = strPtr("body")
	view = Post(&row, wrapRenderer{}, created)
	assert.False(t, view.IsImage)
	require.NotNil(t, view.PostText)
	assert.Equal(t, "<p>body</p>", *view.PostText)
}

func TestPostTitleShortcodes(t *testing.T) {
	row := models.PostRow{PostsID: 1, PostsTitle: "shipped :tada: :not_a_real_one:"}
	view := Post(&row, wrapRenderer{}, time.Now())
	assert.Equal(t, "shipped \U0001F389 :not_a_real_one:", view.Title)
}

func TestPublicUserHasNoPassword(t *testing.T) {
	u := &models.User{ID: 1, Username: "alice", Password: "$2a$10$secret", Email: "a@example.com"}
	out, err := json.Marshal(PublicUser(u))
	require.NoError(t, err)
	assert.NotContains(t, string(out), "secret")
	assert.NotContains(t, string(out), "password")
}

func TestComments(t *testing.T) {
	rows := []models.CommentRow{
		{CommentsID: 1, CommentsText: "hi", UsersID: 4, UsersUsername: "eve", VoteScore: -1},
	}
	views := Comments(rows, utils.PlainRenderer{})
	require.Len(t, views, 1)
	assert.Equal(t, "hi", views[0].Text)
	assert.Equal(t, "eve", views[0].User.Username)
	assert.EqualValues(t, -1, views[0].VoteScore)
}
