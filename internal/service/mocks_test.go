package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/auth"
	"github.com/sakif/videotube/internal/config"
	"github.com/sakif/videotube/internal/media"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/repository"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// In-memory implementations of every repository interface. They store
// copies, never the caller's pointer, and mirror the MongoDB store's error
// contract: NotFound for a missing document, Conflict for a unique-index
// violation. Aggregated views are filled in only as far as the service
// tests need.

var errStoreDown = errors.New("store unavailable")

type mockAccounts struct {
	byID map[primitive.ObjectID]*model.Account
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{byID: make(map[primitive.ObjectID]*model.Account)}
}

var _ repository.AccountRepository = (*mockAccounts)(nil)

func (m *mockAccounts) Create(_ context.Context, a *model.Account) error {
	for _, other := range m.byID {
		if other.Username == a.Username || other.Email == a.Email {
			return apperror.ConflictMessage("", "user already exists")
		}
	}
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	stored := *a
	m.byID[a.ID] = &stored
	return nil
}

func (m *mockAccounts) GetByID(_ context.Context, id primitive.ObjectID) (*model.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id.Hex())
	}
	c := *a
	return &c, nil
}

func (m *mockAccounts) FindByLogin(_ context.Context, username, email string) (*model.Account, error) {
	for _, a := range m.byID {
		if (username != "" && a.Username == username) || (email != "" && a.Email == email) {
			c := *a
			return &c, nil
		}
	}
	return nil, apperror.NotFoundMessage("User does not exist")
}

func (m *mockAccounts) ExistsByLogin(ctx context.Context, username, email string) (bool, error) {
	_, err := m.FindByLogin(ctx, username, email)
	return err == nil, nil
}

func (m *mockAccounts) SetRefreshToken(_ context.Context, id primitive.ObjectID, token string) error {
	a, ok := m.byID[id]
	if !ok {
		return apperror.NotFound("user", id.Hex())
	}
	a.RefreshToken = token
	return nil
}

func (m *mockAccounts) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	a, ok := m.byID[id]
	if !ok {
		return apperror.NotFound("user", id.Hex())
	}
	a.PasswordHash = hash
	return nil
}

func (m *mockAccounts) UpdateDetails(_ context.Context, id primitive.ObjectID, fullName, email string) (*model.Account, error) {
	for oid, other := range m.byID {
		if oid != id && other.Email == email {
			return nil, apperror.ConflictMessage("", "user already exists")
		}
	}
	return m.set(id, func(a *model.Account) { a.FullName, a.Email = fullName, email })
}

func (m *mockAccounts) SetAvatar(_ context.Context, id primitive.ObjectID, url string) (*model.Account, error) {
	return m.set(id, func(a *model.Account) { a.Avatar = url })
}

func (m *mockAccounts) SetCoverImage(_ context.Context, id primitive.ObjectID, url string) (*model.Account, error) {
	return m.set(id, func(a *model.Account) { a.CoverImage = url })
}

func (m *mockAccounts) set(id primitive.ObjectID, fn func(*model.Account)) (*model.Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id.Hex())
	}
	fn(a)
	c := *a
	return &c, nil
}

func (m *mockAccounts) ChannelProfile(_ context.Context, username string, _ primitive.ObjectID) (*model.ChannelProfile, error) {
	for _, a := range m.byID {
		if a.Username == username {
			return &model.ChannelProfile{ID: a.ID, Username: a.Username, FullName: a.FullName}, nil
		}
	}
	return nil, apperror.NotFoundMessage("channel does not exist")
}

func (m *mockAccounts) WatchHistory(_ context.Context, id primitive.ObjectID) ([]model.VideoListItem, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id.Hex())
	}
	items := make([]model.VideoListItem, 0, len(a.WatchHistory))
	for _, v := range a.WatchHistory {
		items = append(items, model.VideoListItem{ID: v})
	}
	return items, nil
}

func (m *mockAccounts) AddToWatchHistory(_ context.Context, id, video primitive.ObjectID) error {
	a, ok := m.byID[id]
	if !ok {
		return apperror.NotFound("user", id.Hex())
	}
	for _, v := range a.WatchHistory {
		if v == video {
			return nil
		}
	}
	a.WatchHistory = append(a.WatchHistory, video)
	return nil
}

type mockVideos struct {
	byID map[primitive.ObjectID]*model.Video

	lastQuery   repository.VideoQuery
	listCalls   int
	sampleCalls int
	sampleSize  int
}

func newMockVideos() *mockVideos {
	return &mockVideos{byID: make(map[primitive.ObjectID]*model.Video)}
}

var _ repository.VideoRepository = (*mockVideos)(nil)

func (m *mockVideos) Create(_ context.Context, v *model.Video) error {
	v.ID = primitive.NewObjectID()
	v.CreatedAt = time.Now()
	stored := *v
	m.byID[v.ID] = &stored
	return nil
}

func (m *mockVideos) GetByID(_ context.Context, id primitive.ObjectID) (*model.Video, error) {
	v, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("video", id.Hex())
	}
	c := *v
	return &c, nil
}

func (m *mockVideos) Detail(_ context.Context, id, _ primitive.ObjectID) (*model.VideoDetail, error) {
	v, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("video", id.Hex())
	}
	return &model.VideoDetail{ID: v.ID, Title: v.Title, Views: v.Views, Owner: model.VideoOwner{ID: v.Owner}}, nil
}

func (m *mockVideos) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	v, ok := m.byID[id]
	if !ok {
		return apperror.NotFound("video", id.Hex())
	}
	v.Views++
	return nil
}

func (m *mockVideos) Update(_ context.Context, id primitive.ObjectID, upd repository.VideoUpdate) (*model.Video, error) {
	v, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("video", id.Hex())
	}
	v.Title, v.Description = upd.Title, upd.Description
	if upd.Thumbnail != "" {
		v.Thumbnail = upd.Thumbnail
	}
	c := *v
	return &c, nil
}

func (m *mockVideos) SetPublished(_ context.Context, id primitive.ObjectID, published bool) (*model.Video, error) {
	v, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("video", id.Hex())
	}
	v.IsPublished = published
	c := *v
	return &c, nil
}

func (m *mockVideos) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return apperror.NotFound("video", id.Hex())
	}
	delete(m.byID, id)
	return nil
}

func (m *mockVideos) List(_ context.Context, q repository.VideoQuery) (model.Page[model.VideoListItem], error) {
	m.listCalls++
	m.lastQuery = q
	items := m.matching(q)
	total := int64(len(items))
	start := min(int(q.Page.Skip()), len(items))
	end := min(start+q.Page.Limit, len(items))
	return model.NewPage(items[start:end], total, q.Page), nil
}

func (m *mockVideos) Sample(_ context.Context, q repository.VideoQuery, size int) ([]model.VideoListItem, error) {
	m.sampleCalls++
	m.sampleSize = size
	m.lastQuery = q
	items := m.matching(q)
	if len(items) > size {
		items = items[:size]
	}
	return items, nil
}

// matching applies the owner and published filters, oldest first.
func (m *mockVideos) matching(q repository.VideoQuery) []model.VideoListItem {
	var items []model.VideoListItem
	for _, v := range m.byID {
		if q.Owner != nil && v.Owner != *q.Owner {
			continue
		}
		if !v.IsPublished && !q.IncludeUnpublished {
			continue
		}
		items = append(items, model.VideoListItem{ID: v.ID, Title: v.Title, CreatedAt: v.CreatedAt, IsPublished: v.IsPublished})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID.Hex() < items[j].ID.Hex() })
	return items
}

func (m *mockVideos) ChannelVideos(_ context.Context, owner primitive.ObjectID) ([]model.ChannelVideo, error) {
	var out []model.ChannelVideo
	for _, v := range m.byID {
		if v.Owner == owner {
			out = append(out, model.ChannelVideo{ID: v.ID, Title: v.Title, IsPublished: v.IsPublished})
		}
	}
	return out, nil
}

func (m *mockVideos) ChannelStats(_ context.Context, owner primitive.ObjectID) (*model.ChannelStats, error) {
	stats := &model.ChannelStats{}
	for _, v := range m.byID {
		if v.Owner == owner {
			stats.TotalVideos++
			stats.TotalViews += v.Views
		}
	}
	return stats, nil
}

type mockComments struct {
	byID map[primitive.ObjectID]*model.Comment

	deleteByVideoErr error
}

func newMockComments() *mockComments {
	return &mockComments{byID: make(map[primitive.ObjectID]*model.Comment)}
}

var _ repository.CommentRepository = (*mockComments)(nil)

func (m *mockComments) Create(_ context.Context, c *model.Comment) error {
	c.ID = primitive.NewObjectID()
	stored := *c
	m.byID[c.ID] = &stored
	return nil
}

func (m *mockComments) GetByID(_ context.Context, id primitive.ObjectID) (*model.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("comment", id.Hex())
	}
	cp := *c
	return &cp, nil
}

func (m *mockComments) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*model.Comment, error) {
	c, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("comment", id.Hex())
	}
	c.Content = content
	cp := *c
	return &cp, nil
}

func (m *mockComments) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return apperror.NotFound("comment", id.Hex())
	}
	delete(m.byID, id)
	return nil
}

func (m *mockComments) DeleteByVideo(_ context.Context, video primitive.ObjectID) (int64, error) {
	if m.deleteByVideoErr != nil {
		return 0, m.deleteByVideoErr
	}
	var n int64
	for id, c := range m.byID {
		if c.Video == video {
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}

func (m *mockComments) ListByVideo(_ context.Context, video, _ primitive.ObjectID, page model.PageRequest) (model.Page[model.CommentView], error) {
	var items []model.CommentView
	for _, c := range m.byID {
		if c.Video == video {
			items = append(items, model.CommentView{ID: c.ID, Content: c.Content})
		}
	}
	return model.NewPage(items, int64(len(items)), page), nil
}

type mockLikes struct {
	byID map[primitive.ObjectID]*model.Like
}

func newMockLikes() *mockLikes {
	return &mockLikes{byID: make(map[primitive.ObjectID]*model.Like)}
}

var _ repository.LikeRepository = (*mockLikes)(nil)

func (m *mockLikes) Find(_ context.Context, actor primitive.ObjectID, target model.LikeTarget) (*model.Like, error) {
	for _, l := range m.byID {
		if l.LikedBy == actor && l.Target() == target {
			c := *l
			return &c, nil
		}
	}
	return nil, apperror.NotFoundMessage("like not found")
}

func (m *mockLikes) Create(ctx context.Context, l *model.Like) error {
	if _, err := m.Find(ctx, l.LikedBy, l.Target()); err == nil {
		return apperror.ConflictMessage("", "like already exists")
	}
	l.ID = primitive.NewObjectID()
	stored := *l
	m.byID[l.ID] = &stored
	return nil
}

func (m *mockLikes) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return apperror.NotFound("like", id.Hex())
	}
	delete(m.byID, id)
	return nil
}

func (m *mockLikes) DeleteByTarget(_ context.Context, target model.LikeTarget) (int64, error) {
	var n int64
	for id, l := range m.byID {
		if l.Target() == target {
			delete(m.byID, id)
			n++
		}
	}
	return n, nil
}

func (m *mockLikes) LikedVideos(_ context.Context, actor primitive.ObjectID) ([]model.VideoListItem, error) {
	items := []model.VideoListItem{}
	for _, l := range m.byID {
		if l.LikedBy == actor && l.Video != nil {
			items = append(items, model.VideoListItem{ID: *l.Video})
		}
	}
	return items, nil
}

// count returns how many likes point at target.
func (m *mockLikes) count(target model.LikeTarget) int {
	n := 0
	for _, l := range m.byID {
		if l.Target() == target {
			n++
		}
	}
	return n
}

type mockSubscriptions struct {
	byID map[primitive.ObjectID]*model.Subscription
}

func newMockSubscriptions() *mockSubscriptions {
	return &mockSubscriptions{byID: make(map[primitive.ObjectID]*model.Subscription)}
}

var _ repository.SubscriptionRepository = (*mockSubscriptions)(nil)

func (m *mockSubscriptions) Find(_ context.Context, subscriber, channel primitive.ObjectID) (*model.Subscription, error) {
	for _, s := range m.byID {
		if s.Subscriber == subscriber && s.Channel == channel {
			c := *s
			return &c, nil
		}
	}
	return nil, apperror.NotFoundMessage("subscription not found")
}

func (m *mockSubscriptions) Create(ctx context.Context, s *model.Subscription) error {
	if _, err := m.Find(ctx, s.Subscriber, s.Channel); err == nil {
		return apperror.ConflictMessage("", "subscription already exists")
	}
	s.ID = primitive.NewObjectID()
	stored := *s
	m.byID[s.ID] = &stored
	return nil
}

func (m *mockSubscriptions) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return apperror.NotFound("subscription", id.Hex())
	}
	delete(m.byID, id)
	return nil
}

func (m *mockSubscriptions) Subscribers(_ context.Context, channel primitive.ObjectID) ([]model.SubscriberView, error) {
	out := []model.SubscriberView{}
	for _, s := range m.byID {
		if s.Channel == channel {
			out = append(out, model.SubscriberView{ID: s.Subscriber})
		}
	}
	return out, nil
}

func (m *mockSubscriptions) SubscribedChannels(_ context.Context, subscriber primitive.ObjectID) ([]model.SubscribedChannel, error) {
	out := []model.SubscribedChannel{}
	for _, s := range m.byID {
		if s.Subscriber == subscriber {
			out = append(out, model.SubscribedChannel{ID: s.Channel})
		}
	}
	return out, nil
}

type mockPlaylists struct {
	byID map[primitive.ObjectID]*model.Playlist
}

func newMockPlaylists() *mockPlaylists {
	return &mockPlaylists{byID: make(map[primitive.ObjectID]*model.Playlist)}
}

var _ repository.PlaylistRepository = (*mockPlaylists)(nil)

func (m *mockPlaylists) Create(_ context.Context, p *model.Playlist) error {
	p.ID = primitive.NewObjectID()
	stored := *p
	stored.Videos = append([]primitive.ObjectID{}, p.Videos...)
	m.byID[p.ID] = &stored
	return nil
}

func (m *mockPlaylists) GetByID(_ context.Context, id primitive.ObjectID) (*model.Playlist, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("playlist", id.Hex())
	}
	return m.copy(p), nil
}

func (m *mockPlaylists) copy(p *model.Playlist) *model.Playlist {
	c := *p
	c.Videos = append([]primitive.ObjectID{}, p.Videos...)
	return &c
}

func (m *mockPlaylists) Update(_ context.Context, id primitive.ObjectID, title, description string) (*model.Playlist, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("playlist", id.Hex())
	}
	p.Title, p.Description = title, description
	return m.copy(p), nil
}

func (m *mockPlaylists) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return apperror.NotFound("playlist", id.Hex())
	}
	delete(m.byID, id)
	return nil
}

func (m *mockPlaylists) AddVideo(_ context.Context, id, video primitive.ObjectID) (*model.Playlist, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("playlist", id.Hex())
	}
	for _, v := range p.Videos {
		if v == video {
			return m.copy(p), nil
		}
	}
	p.Videos = append(p.Videos, video)
	return m.copy(p), nil
}

func (m *mockPlaylists) RemoveVideo(_ context.Context, id, video primitive.ObjectID) (*model.Playlist, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("playlist", id.Hex())
	}
	kept := p.Videos[:0]
	for _, v := range p.Videos {
		if v != video {
			kept = append(kept, v)
		}
	}
	p.Videos = kept
	return m.copy(p), nil
}

func (m *mockPlaylists) Detail(_ context.Context, id primitive.ObjectID) (*model.PlaylistDetail, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("playlist", id.Hex())
	}
	d := &model.PlaylistDetail{ID: p.ID, Owner: p.Owner, Title: p.Title, TotalVideos: len(p.Videos)}
	for _, v := range p.Videos {
		d.Videos = append(d.Videos, model.VideoListItem{ID: v})
	}
	return d, nil
}

func (m *mockPlaylists) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]model.PlaylistSummary, error) {
	out := []model.PlaylistSummary{}
	for _, p := range m.byID {
		if p.Owner == owner {
			out = append(out, model.PlaylistSummary{ID: p.ID, Title: p.Title, TotalVideos: len(p.Videos)})
		}
	}
	return out, nil
}

type mockTweets struct {
	byID map[primitive.ObjectID]*model.Tweet
}

func newMockTweets() *mockTweets {
	return &mockTweets{byID: make(map[primitive.ObjectID]*model.Tweet)}
}

var _ repository.TweetRepository = (*mockTweets)(nil)

func (m *mockTweets) Create(_ context.Context, t *model.Tweet) error {
	t.ID = primitive.NewObjectID()
	stored := *t
	m.byID[t.ID] = &stored
	return nil
}

func (m *mockTweets) GetByID(_ context.Context, id primitive.ObjectID) (*model.Tweet, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("tweet", id.Hex())
	}
	c := *t
	return &c, nil
}

func (m *mockTweets) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*model.Tweet, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, apperror.NotFound("tweet", id.Hex())
	}
	t.Content = content
	c := *t
	return &c, nil
}

func (m *mockTweets) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.byID[id]; !ok {
		return apperror.NotFound("tweet", id.Hex())
	}
	delete(m.byID, id)
	return nil
}

func (m *mockTweets) ListByOwner(_ context.Context, owner, _ primitive.ObjectID) ([]model.TweetView, error) {
	out := []model.TweetView{}
	for _, t := range m.byID {
		if t.Owner == owner {
			out = append(out, model.TweetView{ID: t.ID, Content: t.Content})
		}
	}
	return out, nil
}

// =========================================================================
// MOCK MEDIA HOST
// =========================================================================

const testMediaBase = "https://media.test/videotube"

type mockMedia struct {
	mu      sync.Mutex
	seq     int
	stored  []string // object keys
	removed []string // storage ids
	failOn  map[string]error
}

func newMockMedia() *mockMedia {
	return &mockMedia{failOn: make(map[string]error)}
}

var _ media.Store = (*mockMedia)(nil)

func (m *mockMedia) Store(_ context.Context, f media.File, folder string) (*media.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn[folder]; err != nil {
		return nil, err
	}
	m.seq++
	key := fmt.Sprintf("%s/obj%d%s", folder, m.seq, path.Ext(f.Name))
	m.stored = append(m.stored, key)
	return &media.Asset{URL: testMediaBase + "/" + key}, nil
}

func (m *mockMedia) Remove(_ context.Context, storageID string, _ media.ResourceType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failOn["remove"]; err != nil {
		return err
	}
	m.removed = append(m.removed, storageID)
	return nil
}

func (m *mockMedia) removedIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.removed...)
}

// =========================================================================
// TEST ENVIRONMENT
// =========================================================================

// testEnv wires every service to the same set of mocks so cross-service
// scenarios (register → publish → like → delete) run end to end.
type testEnv struct {
	accounts      *mockAccounts
	videos        *mockVideos
	comments      *mockComments
	likes         *mockLikes
	subscriptions *mockSubscriptions
	playlists     *mockPlaylists
	tweets        *mockTweets
	media         *mockMedia
	tokens        *auth.TokenService

	auth         *AuthService
	video        *VideoService
	comment      *CommentService
	like         *LikeService
	subscription *SubscriptionService
	playlist     *PlaylistService
	tweet        *TweetService
	dashboard    *DashboardService
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenService(config.TokenConfig{
		AccessSecret:  "service-test-access-secret",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "service-test-refresh-secret",
		RefreshTTL:    24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	logger := newTestLogger()
	e := &testEnv{
		accounts:      newMockAccounts(),
		videos:        newMockVideos(),
		comments:      newMockComments(),
		likes:         newMockLikes(),
		subscriptions: newMockSubscriptions(),
		playlists:     newMockPlaylists(),
		tweets:        newMockTweets(),
		media:         newMockMedia(),
		tokens:        tokens,
	}

	assets := NewAssets(e.media, media.NewResolver(testMediaBase), logger)
	assets.detach = func(fn func()) { fn() }

	e.auth = NewAuthService(e.accounts, tokens, auth.NewPasswordServiceForTest(4), assets, logger)
	e.video = NewVideoService(e.videos, e.accounts, e.comments, e.likes, assets, logger)
	e.comment = NewCommentService(e.comments, e.videos, logger)
	e.like = NewLikeService(e.likes, e.videos, e.comments, e.tweets, logger)
	e.subscription = NewSubscriptionService(e.subscriptions, e.accounts, logger)
	e.playlist = NewPlaylistService(e.playlists, e.videos, logger)
	e.tweet = NewTweetService(e.tweets, e.likes, logger)
	e.dashboard = NewDashboardService(e.videos)
	return e
}

func testFile(name string) *media.File {
	return &media.File{Name: name, ContentType: "application/octet-stream", Size: 3, Body: nil}
}

// register creates an account with password "secret123" and returns its id.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	a, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
		FullName: "User " + username,
		Avatar:   testFile("avatar.png"),
	})
	if err != nil {
		t.Fatalf("Register(%q) error = %v", username, err)
	}
	return a.ID.Hex()
}

// publish stores a video owned by owner and returns its id.
func (e *testEnv) publish(t *testing.T, owner string) string {
	t.Helper()
	v, err := e.video.Publish(context.Background(), owner, PublishInput{
		Title:       "A video",
		Description: "About things",
		Duration:    12.5,
		VideoFile:   testFile("clip.mp4"),
		Thumbnail:   testFile("thumb.jpg"),
	})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	return v.ID.Hex()
}
