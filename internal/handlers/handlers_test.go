package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/hackmate/backend/internal/engagement"
	"github.com/anonto42/hackmate/backend/internal/gamification"
	"github.com/anonto42/hackmate/backend/internal/middleware"
	"github.com/anonto42/hackmate/backend/internal/models"
	"github.com/anonto42/hackmate/backend/internal/repositories"
	"github.com/anonto42/hackmate/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validators.NewValidator()
	return e
}

// asUser authenticates the request as the user id in the X-Test-User header.
func asUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if raw := c.Request().Header.Get("X-Test-User"); raw != "" {
			var id uint
			_ = json.Unmarshal([]byte(raw), &id)
			c.Set(middleware.ClaimsKey, &models.JwtCustomClaims{UserID: id, Name: "user" + raw})
		}
		return next(c)
	}
}

type response struct {
	Code int
	Body map[string]interface{}
	Raw  []byte
}

func doRequest(t *testing.T, e *echo.Echo, method, target string, userID uint, body interface{}) response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != 0 {
		req.Header.Set("X-Test-User", jsonUint(userID))
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	res := response{Code: rec.Code, Raw: rec.Body.Bytes()}
	trimmed := strings.TrimSpace(rec.Body.String())
	if strings.HasPrefix(trimmed, "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.Body))
	}
	return res
}

func jsonUint(v uint) string {
	buf, _ := json.Marshal(v)
	return string(buf)
}

// --- recorders ---

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.Notification
}

func (n *recordingNotifier) Notify(notification models.Notification) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return true
}

func (n *recordingNotifier) ofType(t models.NotificationType) []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []models.Notification
	for _, s := range n.sent {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

type rewardCall struct {
	UserID uint
	Event  gamification.Event
}

type recordingRewards struct {
	mu        sync.Mutex
	events    []rewardCall
	followers map[uint]int64
	views     map[uint]int64
}

func newRecordingRewards() *recordingRewards {
	return &recordingRewards{followers: map[uint]int64{}, views: map[uint]int64{}}
}

func (r *recordingRewards) Record(_ context.Context, userID uint, event gamification.Event, _ models.SkillCategory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, rewardCall{UserID: userID, Event: event})
}

func (r *recordingRewards) CheckFollowers(_ context.Context, userID uint, followers int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.followers[userID] = followers
}

func (r *recordingRewards) CheckReelViews(_ context.Context, creatorID uint, views int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[creatorID] = views
}

type broadcastCall struct {
	Room  string
	Event string
	Data  interface{}
}

type recordingBroadcaster struct {
	calls []broadcastCall
}

func (b *recordingBroadcaster) Broadcast(room, event string, data interface{}) error {
	b.calls = append(b.calls, broadcastCall{Room: room, Event: event, Data: data})
	return nil
}

// --- users ---

type memUsers struct {
	mu     sync.Mutex
	nextID uint
	byID   map[uint]*models.User
}

func newMemUsers(users ...models.User) *memUsers {
	m := &memUsers{byID: map[uint]*models.User{}}
	for i := range users {
		u := users[i]
		m.byID[u.ID] = &u
		if u.ID > m.nextID {
			m.nextID = u.ID
		}
	}
	return m
}

func (m *memUsers) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "user")
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.Wrap(repositories.ErrNotFound, "user")
}

func (m *memUsers) GetUserByFirebaseUID(_ context.Context, uid string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.FirebaseUID != nil && *u.FirebaseUID == uid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, errors.Wrap(repositories.ErrNotFound, "user")
}

func (m *memUsers) GetCompactUsers(_ context.Context, ids []uint) (map[uint]models.UserCompact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uint]models.UserCompact)
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out[id] = u.ToCompact()
		}
	}
	return out, nil
}

func (m *memUsers) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *user
	m.byID[user.ID] = &cp
	return nil
}

func (m *memUsers) SearchUsers(_ context.Context, query string, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.User
	for _, u := range m.byID {
		if strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) && len(out) < limit {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memUsers) SuggestUsers(_ context.Context, exclude []uint, limit int) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	skip := map[uint]bool{}
	for _, id := range exclude {
		skip[id] = true
	}
	var out []models.User
	for _, u := range m.byID {
		if !skip[u.ID] && len(out) < limit {
			out = append(out, *u)
		}
	}
	return out, nil
}

// --- follows ---

type memFollows struct {
	edges map[[2]uint]bool
}

func newMemFollows() *memFollows {
	return &memFollows{edges: map[[2]uint]bool{}}
}

func (m *memFollows) CreateFollow(_ context.Context, f *models.Follow) error {
	key := [2]uint{f.FollowerID, f.FollowingID}
	if m.edges[key] {
		return errors.Wrap(repositories.ErrAlreadyFollowing, "follow")
	}
	m.edges[key] = true
	return nil
}

func (m *memFollows) DeleteFollow(_ context.Context, followerID, followingID uint) error {
	key := [2]uint{followerID, followingID}
	if !m.edges[key] {
		return errors.Wrap(repositories.ErrNotFound, "follow")
	}
	delete(m.edges, key)
	return nil
}

func (m *memFollows) IsFollowing(_ context.Context, followerID, followingID uint) (bool, error) {
	return m.edges[[2]uint{followerID, followingID}], nil
}

func (m *memFollows) GetFollowers(_ context.Context, userID uint) ([]models.User, error) {
	var out []models.User
	for k := range m.edges {
		if k[1] == userID {
			out = append(out, models.User{ID: k[0]})
		}
	}
	return out, nil
}

func (m *memFollows) GetFollowing(_ context.Context, userID uint) ([]models.User, error) {
	var out []models.User
	for k := range m.edges {
		if k[0] == userID {
			out = append(out, models.User{ID: k[1]})
		}
	}
	return out, nil
}

func (m *memFollows) GetFollowersCount(_ context.Context, userID uint) (int64, error) {
	var n int64
	for k := range m.edges {
		if k[1] == userID {
			n++
		}
	}
	return n, nil
}

func (m *memFollows) GetFollowingIDs(_ context.Context, userID uint) ([]uint, error) {
	var out []uint
	for k := range m.edges {
		if k[0] == userID {
			out = append(out, k[1])
		}
	}
	return out, nil
}

// --- posts ---

type memPosts struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func newMemPosts(posts ...models.Post) *memPosts {
	m := &memPosts{posts: map[primitive.ObjectID]*models.Post{}}
	for i := range posts {
		p := posts[i]
		m.posts[p.ID] = &p
	}
	return m
}

func (m *memPosts) get(id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrap(repositories.ErrInvalidID, id)
	}
	p, ok := m.posts[oid]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "post")
	}
	return p, nil
}

func (m *memPosts) CreatePost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	cp := *post
	m.posts[post.ID] = &cp
	return nil
}

func (m *memPosts) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return nil, err
	}
	cp := *p
	return &cp, nil
}

func (m *memPosts) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return err
	}
	delete(m.posts, p.ID)
	return nil
}

func (m *memPosts) ToggleLike(_ context.Context, id string, actor uint) (*repositories.LikeOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.get(id)
	if err != nil {
		return nil, err
	}
	var liked bool
	p.Likes, liked = engagement.ToggleLike(p.Likes, actor)
	return &repositories.LikeOutcome{Count: len(p.Likes), Liked: liked, OwnerID: p.AuthorID}, nil
}

func (m *memPosts) IncrementCommentCount(_ context.Context, id primitive.ObjectID, delta int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return 0, errors.Wrap(repositories.ErrNotFound, "post")
	}
	p.CommentCount += delta
	if p.CommentCount < 0 {
		p.CommentCount = 0
	}
	return int64(p.CommentCount), nil
}

func (m *memPosts) ListRecent(context.Context, int64, int64) ([]models.Post, error) {
	return nil, nil
}

func (m *memPosts) ListSince(context.Context, time.Time, int64) ([]models.Post, error) {
	return nil, nil
}

func (m *memPosts) ListByAuthors(context.Context, []uint, int64, int64) ([]models.Post, error) {
	return nil, nil
}

// --- comments ---

type memComments struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]*models.Comment
}

func newMemComments() *memComments {
	return &memComments{comments: map[primitive.ObjectID]*models.Comment{}}
}

func (m *memComments) CreateComment(_ context.Context, comment *models.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	cp := *comment
	m.comments[comment.ID] = &cp
	return nil
}

func (m *memComments) GetCommentByID(_ context.Context, id string) (*models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrap(repositories.ErrInvalidID, id)
	}
	cm, ok := m.comments[oid]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "comment")
	}
	cp := *cm
	return &cp, nil
}

func (m *memComments) DeleteComment(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.comments[id]; !ok {
		return errors.Wrap(repositories.ErrNotFound, "comment")
	}
	delete(m.comments, id)
	return nil
}

func (m *memComments) DeleteByTarget(_ context.Context, targetType models.TargetType, targetID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, cm := range m.comments {
		if cm.TargetType == targetType && cm.TargetID == targetID {
			delete(m.comments, id)
			n++
		}
	}
	return n, nil
}

func (m *memComments) ListByTarget(_ context.Context, targetType models.TargetType, targetID primitive.ObjectID, topLevelOnly bool) ([]models.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Comment
	for _, cm := range m.comments {
		if cm.TargetType != targetType || cm.TargetID != targetID {
			continue
		}
		if topLevelOnly && cm.ParentID != nil {
			continue
		}
		out = append(out, *cm)
	}
	return out, nil
}

// --- teams ---

type memTeams struct {
	mu    sync.Mutex
	teams map[primitive.ObjectID]*models.Team
}

func newMemTeams(teams ...models.Team) *memTeams {
	m := &memTeams{teams: map[primitive.ObjectID]*models.Team{}}
	for i := range teams {
		t := teams[i]
		m.teams[t.ID] = &t
	}
	return m
}

func (m *memTeams) CreateTeam(_ context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	team.ID = primitive.NewObjectID()
	cp := *team
	m.teams[team.ID] = &cp
	return nil
}

func (m *memTeams) GetTeamByID(_ context.Context, id string) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrap(repositories.ErrInvalidID, id)
	}
	t, ok := m.teams[oid]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "team")
	}
	cp := *t
	return &cp, nil
}

func (m *memTeams) ListByMember(_ context.Context, userID uint) ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Team
	for _, t := range m.teams {
		if t.HasMember(userID) {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTeams) UpdateTeam(_ context.Context, team *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *team
	m.teams[team.ID] = &cp
	return nil
}

func (m *memTeams) DeleteTeam(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.teams, id)
	return nil
}

func (m *memTeams) AddMember(_ context.Context, id primitive.ObjectID, userID uint) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "team")
	}
	if !t.HasMember(userID) {
		t.Members = append(t.Members, userID)
	}
	cp := *t
	return &cp, nil
}

func (m *memTeams) RemoveMember(_ context.Context, id primitive.ObjectID, userID uint) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "team")
	}
	members := make([]uint, 0, len(t.Members))
	for _, mem := range t.Members {
		if mem != userID {
			members = append(members, mem)
		}
	}
	t.Members = members
	cp := *t
	return &cp, nil
}

func (m *memTeams) SetHackathon(_ context.Context, id primitive.ObjectID, hackathonID *primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.teams[id]; ok {
		t.HackathonID = hackathonID
	}
	return nil
}

func (m *memTeams) ClearHackathon(_ context.Context, teamIDs []primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range teamIDs {
		if t, ok := m.teams[id]; ok {
			t.HackathonID = nil
		}
	}
	return nil
}

// --- tasks ---

type memTasks struct {
	mu    sync.Mutex
	tasks map[primitive.ObjectID]*models.Task
}

func newMemTasks() *memTasks {
	return &memTasks{tasks: map[primitive.ObjectID]*models.Task{}}
}

func (m *memTasks) CreateTask(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	task.ID = primitive.NewObjectID()
	if task.Status == "" {
		task.Status = models.TaskTodo
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *memTasks) GetTaskByID(_ context.Context, id string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrap(repositories.ErrInvalidID, id)
	}
	t, ok := m.tasks[oid]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "task")
	}
	cp := *t
	return &cp, nil
}

func (m *memTasks) ListByTeam(_ context.Context, teamID primitive.ObjectID) ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Task
	for _, t := range m.tasks {
		if t.TeamID == teamID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (m *memTasks) UpdateTask(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *memTasks) DeleteTask(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return errors.Wrap(repositories.ErrNotFound, "task")
	}
	delete(m.tasks, id)
	return nil
}

func (m *memTasks) DeleteByTeam(_ context.Context, teamID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.tasks {
		if t.TeamID == teamID {
			delete(m.tasks, id)
			n++
		}
	}
	return n, nil
}

// --- hackathons ---

type memHackathons struct {
	mu         sync.Mutex
	hackathons map[primitive.ObjectID]*models.Hackathon
}

func newMemHackathons(hackathons ...models.Hackathon) *memHackathons {
	m := &memHackathons{hackathons: map[primitive.ObjectID]*models.Hackathon{}}
	for i := range hackathons {
		h := hackathons[i]
		m.hackathons[h.ID] = &h
	}
	return m
}

func (m *memHackathons) CreateHackathon(_ context.Context, hackathon *models.Hackathon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	hackathon.ID = primitive.NewObjectID()
	cp := *hackathon
	m.hackathons[hackathon.ID] = &cp
	return nil
}

func (m *memHackathons) GetHackathonByID(_ context.Context, id string) (*models.Hackathon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrap(repositories.ErrInvalidID, id)
	}
	h, ok := m.hackathons[oid]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "hackathon")
	}
	cp := *h
	cp.ParticipatingTeams = append([]primitive.ObjectID(nil), h.ParticipatingTeams...)
	return &cp, nil
}

func (m *memHackathons) ListHackathons(_ context.Context, filter repositories.HackathonFilter) ([]models.Hackathon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Hackathon
	for _, h := range m.hackathons {
		if filter.Status != "" && h.Status != filter.Status {
			continue
		}
		if filter.IsOnline != nil && h.IsOnline != *filter.IsOnline {
			continue
		}
		out = append(out, *h)
	}
	return out, nil
}

func (m *memHackathons) ListByHost(_ context.Context, hostID uint) ([]models.Hackathon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Hackathon
	for _, h := range m.hackathons {
		if h.HostedBy == hostID {
			out = append(out, *h)
		}
	}
	return out, nil
}

func (m *memHackathons) UpdateHackathon(_ context.Context, hackathon *models.Hackathon) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *hackathon
	m.hackathons[hackathon.ID] = &cp
	return nil
}

func (m *memHackathons) DeleteHackathon(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.hackathons, id)
	return nil
}

func (m *memHackathons) AddTeam(_ context.Context, id, teamID primitive.ObjectID) (*models.Hackathon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hackathons[id]
	if !ok {
		return nil, errors.Wrap(repositories.ErrNotFound, "hackathon")
	}
	if h.HasTeam(teamID) || len(h.ParticipatingTeams) >= h.MaxTeams {
		return nil, errors.Wrap(repositories.ErrConflict, "add team")
	}
	h.ParticipatingTeams = append(h.ParticipatingTeams, teamID)
	cp := *h
	return &cp, nil
}

func (m *memHackathons) RemoveTeam(_ context.Context, id, teamID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hackathons[id]
	if !ok {
		return errors.Wrap(repositories.ErrNotFound, "hackathon")
	}
	teams := make([]primitive.ObjectID, 0, len(h.ParticipatingTeams))
	for _, t := range h.ParticipatingTeams {
		if t != teamID {
			teams = append(teams, t)
		}
	}
	h.ParticipatingTeams = teams
	return nil
}

func messageOf(r response) string {
	msg, _ := r.Body["message"].(string)
	return msg
}
