package services

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"redditclone/internal/config"
	"redditclone/internal/models"
	"redditclone/internal/repository"
	"redditclone/internal/testutil"
	"redditclone/internal/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubNotifier struct {
	sendFn func(ctx context.Context, email, link string) error
	sent   []string
}

func (n *stubNotifier) SendPasswordReset(ctx context.Context, email, link string) error {
	n.sent = append(n.sent, link)
	if n.sendFn != nil {
		return n.sendFn(ctx, email, link)
	}
	return nil
}

type fixture struct {
	db         *gorm.DB
	users      repository.UserRepository
	votes      *VoteService
	posts      *PostService
	comments   *CommentService
	subreddits *SubredditService
	auth       *AuthService
	sessions   *SessionService
	reset      *ResetService
	notifier   *stubNotifier
	redis      *miniredis.Miniredis
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testutil.NewDB(t)
	logger := zap.NewNop()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	userRepo := repository.NewUserRepository(conn)
	postRepo := repository.NewPostRepository(conn)
	commentRepo := repository.NewCommentRepository(conn)
	subRepo := repository.NewSubredditRepository(conn)
	renderer := utils.PlainRenderer{}

	subs, err := NewSubredditService(subRepo, renderer, logger)
	require.NoError(t, err)
	sessions := NewSessionService(repository.NewSessionRepository(conn), rdb, 0, logger)
	notifier := &stubNotifier{}

	return &fixture{
		db:         conn,
		users:      userRepo,
		votes:      NewVoteService(repository.NewVoteRepository(conn), postRepo, commentRepo, logger),
		posts:      NewPostService(postRepo, subRepo, renderer, logger),
		comments:   NewCommentService(commentRepo, postRepo, renderer, logger),
		subreddits: subs,
		auth:       NewAuthService(userRepo, logger),
		sessions:   sessions,
		reset:      NewResetService(userRepo, repository.NewResetTokenRepository(conn), sessions, notifier, "http://localhost:8080/", 0, logger),
		notifier:   notifier,
		redis:      mr,
	}
}

func (f *fixture) signup(t *testing.T, name string) *models.PublicUser {
	t.Helper()
	u, err := f.auth.Signup(context.Background(), SignupInput{Username: name, Email: name + "@example.com", Password: "hunter22"})
	require.NoError(t, err)
	return u
}

func TestVoteService_RejectsInvalidDirection(t *testing.T) {
	f := newFixture(t)
	user, _, post := testutil.Seed(t, f.db)
	ctx := context.Background()

	for _, dir := range []int{2, -2, 5} {
		err := f.votes.CastVote(ctx, post.ID, user.ID, dir)
		assert.ErrorIs(t, err, models.ErrInvalidVoteDirection)
		assert.Equal(t, models.KindValidation, models.KindOf(err))
	}

	var n int64
	require.NoError(t, f.db.Model(&models.Vote{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestVoteService_ScoreFollowsLatestVote(t *testing.T) {
	f := newFixture(t)
	user, _, post := testutil.Seed(t, f.db)
	ctx := context.Background()

	require.NoError(t, f.votes.CastVote(ctx, post.ID, user.ID, 1))
	require.NoError(t, f.votes.CastVote(ctx, post.ID, user.ID, -1))

	tally, err := f.votes.PostScore(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VoteTally{VoteScore: -1, NumDownvotes: 1}, tally)

	view, found, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.EqualValues(t, -1, view.VoteScore)
}

func TestVoteService_SwitchingVoteKeepsOneRowPerUser(t *testing.T) {
	f := newFixture(t)
	_, _, post := testutil.Seed(t, f.db)
	ctx := context.Background()
	a := f.signup(t, "voter_a")
	b := f.signup(t, "voter_b")

	steps := []struct {
		name   string
		userID uint
		dir    int
		want   models.VoteTally
		rows   int64
	}{
		{"A up", a.ID, 1, models.VoteTally{VoteScore: 1, NumUpvotes: 1}, 1},
		{"B up", b.ID, 1, models.VoteTally{VoteScore: 2, NumUpvotes: 2}, 2},
		{"A switches down", a.ID, -1, models.VoteTally{VoteScore: 0, NumUpvotes: 1, NumDownvotes: 1}, 2},
	}
	for _, step := range steps {
		require.NoError(t, f.votes.CastVote(ctx, post.ID, step.userID, step.dir), step.name)

		tally, err := f.votes.PostScore(ctx, post.ID)
		require.NoError(t, err, step.name)
		assert.Equal(t, step.want, tally, step.name)

		var rows int64
		require.NoError(t, f.db.Model(&models.Vote{}).Where("post_id = ?", post.ID).Count(&rows).Error)
		assert.Equal(t, step.rows, rows, step.name)
	}
}

func TestVoteService_ConcurrentVotesLeaveOneRow(t *testing.T) {
	f := newFixture(t)
	user, _, post := testutil.Seed(t, f.db)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(dir int) {
			defer wg.Done()
			errs <- f.votes.CastVote(ctx, post.ID, user.ID, dir)
		}(i%3 - 1)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	var rows int64
	require.NoError(t, f.db.Model(&models.Vote{}).Where("post_id = ? AND user_id = ?", post.ID, user.ID).Count(&rows).Error)
	assert.EqualValues(t, 1, rows)

	tally, err := f.votes.PostScore(ctx, post.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, tally.NumUpvotes+tally.NumDownvotes, int64(1))
}

func TestVoteService_UnknownTargets(t *testing.T) {
	f := newFixture(t)
	user, _, _ := testutil.Seed(t, f.db)
	ctx := context.Background()

	err := f.votes.CastVote(ctx, 999, user.ID, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
	err = f.votes.CastCommentVote(ctx, 999, user.ID, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCommentService_CreateListAndVote(t *testing.T) {
	f := newFixture(t)
	user, _, post := testutil.Seed(t, f.db)
	ctx := context.Background()

	c, err := f.comments.CreateComment(ctx, CreateCommentInput{UserID: user.ID, PostID: post.ID, Text: "  <b>hi</b> "})
	require.NoError(t, err)
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt;", c.Text)
	assert.Equal(t, "alice", c.User.Username)

	require.NoError(t, f.votes.CastCommentVote(ctx, c.ID, user.ID, 1))

	list, err := f.comments.ListForPost(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.EqualValues(t, 1, list[0].VoteScore)

	_, err = f.comments.CreateComment(ctx, CreateCommentInput{UserID: user.ID, PostID: post.ID, Text: "   "})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.comments.CreateComment(ctx, CreateCommentInput{UserID: user.ID, PostID: 999, Text: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostService_CreatePost(t *testing.T) {
	f := newFixture(t)
	user, sub, _ := testutil.Seed(t, f.db)
	ctx := context.Background()

	view, err := f.posts.CreatePost(ctx, CreatePostInput{UserID: user.ID, SubredditID: sub.ID, Title: "cat", URL: "example.com/cat.PNG"})
	require.NoError(t, err)
	require.NotNil(t, view.URL)
	assert.Equal(t, "https://example.com/cat.PNG", *view.URL)
	assert.True(t, view.IsImage)
	assert.Nil(t, view.PostText)
	assert.Equal(t, "golang", view.Subreddit.Name)

	cases := []CreatePostInput{
		{UserID: user.ID, SubredditID: sub.ID, Title: "", PostText: "x"},
		{UserID: user.ID, SubredditID: 0, Title: "t", PostText: "x"},
		{UserID: user.ID, SubredditID: sub.ID, Title: "t"},
		{UserID: user.ID, SubredditID: sub.ID, Title: "t", URL: "a.com", PostText: "x"},
		{UserID: user.ID, SubredditID: sub.ID, Title: strings.Repeat("t", maxTitleLength+1), PostText: "x"},
	}
	for i, in := range cases {
		_, err := f.posts.CreatePost(ctx, in)
		assert.ErrorIs(t, err, models.ErrValidation, "case %d", i)
	}

	_, err = f.posts.CreatePost(ctx, CreatePostInput{UserID: user.ID, SubredditID: 999, Title: "t", PostText: "x"})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostService_GetPostAbsent(t *testing.T) {
	f := newFixture(t)
	view, found, err := f.posts.GetPost(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, view)
}

func TestPostService_ListBySubredditAndAuthor(t *testing.T) {
	f := newFixture(t)
	user, sub, post := testutil.Seed(t, f.db)
	ctx := context.Background()

	list, err := f.posts.ListPosts(ctx, ListPostsInput{Sort: models.SortHot, SubredditID: sub.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, post.ID, list[0].ID)
	require.NotNil(t, list[0].PostText)
	assert.Equal(t, "hello", *list[0].PostText)

	byUser, err := f.posts.ListPostsByAuthor(ctx, user.Username, models.SortNew)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	none, err := f.posts.ListPostsByAuthor(ctx, "ghost", models.SortNew)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostService_DeletePostPermissions(t *testing.T) {
	f := newFixture(t)
	author, sub, post := testutil.Seed(t, f.db)
	ctx := context.Background()
	stranger := f.signup(t, "mallory")
	mod := f.signup(t, "moderator")

	err := f.posts.DeletePost(ctx, post.ID, stranger.ID)
	assert.ErrorIs(t, err, models.NewForbiddenError(""))

	require.NoError(t, f.db.Model(sub).Update("moderator_id", mod.ID).Error)
	require.NoError(t, f.posts.DeletePost(ctx, post.ID, mod.ID))

	_, found, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.False(t, found)

	err = f.posts.DeletePost(ctx, post.ID, author.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSubredditService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.subreddits.Create(ctx, CreateSubredditInput{Name: "golang", Description: "gophers"})
	require.NoError(t, err)
	assert.Equal(t, "golang", created.Name)

	_, err = f.subreddits.Create(ctx, CreateSubredditInput{Name: "golang"})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Contains(t, err.Error(), "A subreddit with this name already exists")

	_, err = f.subreddits.Create(ctx, CreateSubredditInput{Name: "bad name!"})
	assert.ErrorIs(t, err, models.ErrValidation)

	got, found, err := f.subreddits.GetByName(ctx, "golang")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created.ID, got.ID)

	missing, found, err := f.subreddits.GetByName(ctx, "rust")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, missing)

	list, err := f.subreddits.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAuthService_SignupAndVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u := f.signup(t, "bob")
	assert.Equal(t, "bob", u.Username)

	stored, err := f.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.True(t, strings.HasPrefix(stored.Password, "$2"))

	_, err = f.auth.Signup(ctx, SignupInput{Username: "bob", Email: "other@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = f.auth.Signup(ctx, SignupInput{Username: "carol", Email: "not-an-email", Password: "hunter22"})
	assert.ErrorIs(t, err, models.ErrValidation)
	_, err = f.auth.Signup(ctx, SignupInput{Username: "carol", Email: "carol@example.com", Password: "123"})
	assert.ErrorIs(t, err, models.ErrValidation)

	got, err := f.auth.VerifyCredentials(ctx, "bob", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, errWrong := f.auth.VerifyCredentials(ctx, "bob", "wrong-password")
	_, errUnknown := f.auth.VerifyCredentials(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, errWrong, models.ErrAuthenticationFailed)
	assert.ErrorIs(t, errUnknown, models.ErrAuthenticationFailed)
	assert.Equal(t, errWrong.Error(), errUnknown.Error())
}

func TestSessionService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "bob")

	token, err := f.sessions.Create(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, token, 43)

	var row models.Session
	require.NoError(t, f.db.First(&row).Error)
	assert.NotEqual(t, token, row.TokenHash)
	assert.Equal(t, utils.DigestToken(token), row.TokenHash)

	id, err := f.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)
	assert.True(t, f.redis.Exists(sessionKey(row.TokenHash)))

	require.NoError(t, f.sessions.Revoke(ctx, token))
	require.NoError(t, f.sessions.Revoke(ctx, token))
	assert.False(t, f.redis.Exists(sessionKey(row.TokenHash)))

	_, err = f.sessions.Resolve(ctx, token)
	assert.ErrorIs(t, err, models.ErrNoSuchSession)
	_, err = f.sessions.Resolve(ctx, "")
	assert.ErrorIs(t, err, models.ErrNoSuchSession)
	_, err = f.sessions.Resolve(ctx, "never-issued")
	assert.ErrorIs(t, err, models.ErrNoSuchSession)
}

// hookedSessions runs afterGet once, between the row read and the cache fill.
type hookedSessions struct {
	repository.SessionRepository
	afterGet func()
}

func (h *hookedSessions) Get(ctx context.Context, tokenHash string) (*models.Session, error) {
	session, err := h.SessionRepository.Get(ctx, tokenHash)
	if hook := h.afterGet; hook != nil {
		h.afterGet = nil
		hook()
	}
	return session, err
}

func newCachedSessions(t *testing.T) (*SessionService, *hookedSessions, *gorm.DB, *models.User, *miniredis.Miniredis) {
	t.Helper()
	conn := testutil.NewDB(t)
	user, _, _ := testutil.Seed(t, conn)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &hookedSessions{SessionRepository: repository.NewSessionRepository(conn)}
	return NewSessionService(repo, rdb, 0, zap.NewNop()), repo, conn, user, mr
}

func TestSessionService_RevokeDuringResolveIsNotCached(t *testing.T) {
	svc, repo, _, user, mr := newCachedSessions(t)
	ctx := context.Background()

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	repo.afterGet = func() { require.NoError(t, svc.Revoke(ctx, token)) }
	id, err := svc.Resolve(ctx, token)
	require.NoError(t, err, "the row was read before the revoke")
	assert.Equal(t, user.ID, id)

	assert.False(t, mr.Exists(sessionKey(utils.DigestToken(token))))
	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, models.ErrNoSuchSession)
}

func TestSessionService_ForgetUserDuringResolveIsNotCached(t *testing.T) {
	svc, repo, conn, user, _ := newCachedSessions(t)
	ctx := context.Background()
	sessions := repository.NewSessionRepository(conn)

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	repo.afterGet = func() {
		_, err := sessions.DeleteByUser(ctx, user.ID)
		require.NoError(t, err)
		require.NoError(t, svc.ForgetUser(ctx, user.ID))
	}
	_, err = svc.Resolve(ctx, token)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, models.ErrNoSuchSession)

	// new sessions still resolve, straight from the database
	fresh, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)
	id, err := svc.Resolve(ctx, fresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestResetService_FailsWhenCacheCannotBeCleared(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "bob")

	token, err := f.reset.RequestReset(ctx, "bob@example.com")
	require.NoError(t, err)

	f.redis.Close()
	err = f.reset.RedeemReset(ctx, token, "brand-new-pass")
	require.Error(t, err)
	assert.Empty(t, models.KindOf(err))
}

func TestSessionService_TokensAreDistinct(t *testing.T) {
	f := newFixture(t)
	u := f.signup(t, "bob")
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		token, err := f.sessions.Create(context.Background(), u.ID)
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}

func TestSessionService_Expiry(t *testing.T) {
	conn := testutil.NewDB(t)
	user, _, _ := testutil.Seed(t, conn)
	clock := &testutil.Clock{T: time.Now()}
	svc := NewSessionService(repository.NewSessionRepository(conn), nil, time.Hour, zap.NewNop())
	svc.now = clock.Now
	ctx := context.Background()

	token, err := svc.Create(ctx, user.ID)
	require.NoError(t, err)

	clock.Advance(59 * time.Minute)
	_, err = svc.Resolve(ctx, token)
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	_, err = svc.Resolve(ctx, token)
	assert.ErrorIs(t, err, models.ErrNoSuchSession)

	var n int64
	require.NoError(t, conn.Model(&models.Session{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestResetService_RequestAndRedeem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.signup(t, "bob")

	session, err := f.sessions.Create(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.sessions.Resolve(ctx, session)
	require.NoError(t, err)

	token, err := f.reset.RequestReset(ctx, "BOB@example.com")
	require.NoError(t, err)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "http://localhost:8080/auth/resetPassword?token="+token, f.notifier.sent[0])

	require.NoError(t, f.reset.RedeemReset(ctx, token, "brand-new-pass"))

	_, err = f.auth.VerifyCredentials(ctx, "bob", "brand-new-pass")
	require.NoError(t, err)
	_, err = f.auth.VerifyCredentials(ctx, "bob", "hunter22")
	assert.ErrorIs(t, err, models.ErrAuthenticationFailed)

	// the cached session must not outlive the reset
	_, err = f.sessions.Resolve(ctx, session)
	assert.ErrorIs(t, err, models.ErrNoSuchSession)

	err = f.reset.RedeemReset(ctx, token, "another-pass")
	assert.ErrorIs(t, err, models.ErrInvalidResetToken)
}

func TestResetService_UnknownEmailAndBadToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.reset.RequestReset(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, models.ErrUnknownEmail)
	assert.Empty(t, f.notifier.sent)

	assert.ErrorIs(t, f.reset.RedeemReset(ctx, "made-up", "brand-new-pass"), models.ErrInvalidResetToken)
	assert.ErrorIs(t, f.reset.RedeemReset(ctx, "", "brand-new-pass"), models.ErrInvalidResetToken)
}

func TestResetService_NotificationFailureKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "bob")
	f.notifier.sendFn = func(context.Context, string, string) error { return errors.New("smtp down") }

	token, err := f.reset.RequestReset(ctx, "bob@example.com")
	assert.ErrorIs(t, err, models.ErrNotificationFailed)
	require.NotEmpty(t, token)

	require.NoError(t, f.reset.RedeemReset(ctx, token, "brand-new-pass"))
}

func TestResetService_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "bob")
	clock := &testutil.Clock{T: time.Now()}
	f.reset.ttl = time.Hour
	f.reset.now = clock.Now

	token, err := f.reset.RequestReset(ctx, "bob@example.com")
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)
	assert.ErrorIs(t, f.reset.RedeemReset(ctx, token, "brand-new-pass"), models.ErrInvalidResetToken)

	_, err = f.auth.VerifyCredentials(ctx, "bob", "hunter22")
	assert.NoError(t, err)
}

func TestResetService_PurgeExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "bob")

	n, err := f.reset.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clock := &testutil.Clock{T: time.Now()}
	f.reset.ttl = time.Hour
	f.reset.now = clock.Now
	_, err = f.reset.RequestReset(ctx, "bob@example.com")
	require.NoError(t, err)

	clock.Advance(3 * time.Hour)
	n, err = f.reset.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestMailService_SendPasswordReset(t *testing.T) {
	cfg := &config.Config{SMTPHost: "smtp.example.com", SMTPPort: "587", SMTPUser: "u", SMTPPass: "p", SMTPFrom: "noreply@example.com"}
	svc := NewMailService(cfg, zap.NewNop())
	require.True(t, svc.Enabled())

	var gotAddr string
	var gotMsg []byte
	svc.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotMsg = msg
		assert.Equal(t, "noreply@example.com", from)
		assert.Equal(t, []string{"bob@example.com"}, to)
		return nil
	}

	require.NoError(t, svc.SendPasswordReset(context.Background(), "bob@example.com", "http://x/auth/resetPassword?token=abc"))
	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Contains(t, string(gotMsg), "Subject: Reset your password")
	assert.Contains(t, string(gotMsg), `href="http://x/auth/resetPassword?token=abc"`)

	svc.send = func(string, smtp.Auth, string, []string, []byte) error { return fmt.Errorf("421 busy") }
	assert.Error(t, svc.SendPasswordReset(context.Background(), "bob@example.com", "l"))

	disabled := NewMailService(&config.Config{}, zap.NewNop())
	assert.ErrorIs(t, disabled.SendPasswordReset(context.Background(), "bob@example.com", "l"), ErrMailDisabled)
}

func TestCaptchaService(t *testing.T) {
	svc, err := NewCaptchaService()
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		q, answer := svc.challenge()
		assert.NotEmpty(t, q)
		assert.GreaterOrEqual(t, answer, 0)
	}

	_, nonce, err := svc.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, nonce)
	answer, ok := svc.answers.Get(nonce)
	require.True(t, ok)

	assert.True(t, svc.Verify(nonce, fmt.Sprintf(" %d ", answer)))
	assert.False(t, svc.Verify(nonce, strconv.Itoa(answer)), "a nonce works once")

	_, nonce, err = svc.Issue()
	require.NoError(t, err)
	assert.False(t, svc.Verify(nonce, "abc"))
	answer, ok = svc.answers.Get(nonce)
	assert.False(t, ok, "a wrong guess burns the nonce")
	assert.Zero(t, answer)

	assert.False(t, svc.Verify("", "0"))
	assert.False(t, svc.Verify("made-up", "0"))
}
