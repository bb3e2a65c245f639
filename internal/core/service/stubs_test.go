package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/snufix/taskflow/internal/core/domain"
	"github.com/snufix/taskflow/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories. Filters mirror the real Mongo queries.
// ---------------------------------------------------------------------------

var idSeq struct {
	sync.Mutex
	n int
}

func nextID() string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%024x", idSeq.n)
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.Location != nil {
		loc := *u.Location
		loc.Coordinates = append([]float64(nil), u.Location.Coordinates...)
		clone.Location = &loc
	}
	return &clone
}

type stubUserRepo struct {
	users     map[string]*domain.User
	activeSet []string // ids passed to SetActive(true)
	findErr   error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func (r *stubUserRepo) seed(u *domain.User) *domain.User {
	if u.ID == "" {
		u.ID = nextID()
	}
	r.users[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	c := cloneUser(user)
	c.ID = nextID()
	r.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == login || u.Email == login {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) (map[string]*domain.User, error) {
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out[id] = cloneUser(u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id string, up ports.ProfileUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if up.FullName != nil {
		u.FullName = *up.FullName
	}
	if up.Bio != nil {
		u.Bio = *up.Bio
	}
	if up.Phone != nil {
		u.Phone = *up.Phone
	}
	if up.HourlyRate != nil {
		u.HourlyRate = *up.HourlyRate
	}
	if up.Skills != nil {
		u.Skills = up.Skills
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id string, active bool, at time.Time) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	u.LastActiveAt = &at
	if active {
		r.activeSet = append(r.activeSet, id)
	}
	return nil
}

func (r *stubUserRepo) SetAccountStatus(_ context.Context, id string, status domain.AccountStatus) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.AccountStatus = status
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdateStats(_ context.Context, id string, stats domain.UserStats) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Stats = stats
	return nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.ListUsersFilter) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, u := range r.users {
		if f.AccountStatus != "" && u.AccountStatus != f.AccountStatus {
			continue
		}
		if f.Search != "" && !strings.Contains(u.Username, f.Search) {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *stubUserRepo) ListActiveWithLocation(_ context.Context, limit int) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.IsActive && domain.Discoverable(u.Location) {
			out = append(out, cloneUser(u))
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubUserRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var n int64
	for _, u := range r.users {
		if !activeOnly || u.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

type stubTaskRepo struct {
	tasks   map[string]*domain.Task
	saveErr error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(t *domain.Task) *domain.Task {
	clone := *t
	return &clone
}

func (r *stubTaskRepo) seed(t *domain.Task) *domain.Task {
	if t.ID == "" {
		t.ID = nextID()
	}
	r.tasks[t.ID] = cloneTask(t)
	return t
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) (*domain.Task, error) {
	c := cloneTask(t)
	c.ID = nextID()
	r.tasks[c.ID] = c
	return cloneTask(c), nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id string) (*domain.Task, error) {
	t, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

func (r *stubTaskRepo) List(_ context.Context, f ports.ListTasksFilter) ([]*domain.Task, error) {
	var out []*domain.Task
	for _, t := range r.tasks {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.PostedBy != "" && t.PostedBy != f.PostedBy {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *stubTaskRepo) Save(_ context.Context, t *domain.Task) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, ok := r.tasks[t.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.tasks[t.ID] = cloneTask(t)
	return nil
}

func (r *stubTaskRepo) IncrementViews(_ context.Context, id string) error {
	t, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	t.Views++
	return nil
}

func (r *stubTaskRepo) Count(_ context.Context, status domain.TaskStatus) (int64, error) {
	var n int64
	for _, t := range r.tasks {
		if status == "" || t.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *stubTaskRepo) CountCompletedByWorker(_ context.Context, workerID string) (int64, error) {
	var n int64
	for _, t := range r.tasks {
		if t.SelectedWorker == workerID && t.Status == domain.TaskCompleted {
			n++
		}
	}
	return n, nil
}

func (r *stubTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

// stubLocationStore answers range queries with the same filters as the
// 2dsphere-backed store, ordering by haversine distance.
type stubLocationStore struct {
	users   *stubUserRepo
	tasks   *stubTaskRepo
	nearErr error
	lastQ   ports.NearQuery
	writes  int
}

func (s *stubLocationStore) SetUserLocation(_ context.Context, userID string, p domain.GeoPoint, address string) (*domain.User, error) {
	u, ok := s.users.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	s.writes++
	u.Location = &p
	if address != "" {
		u.Address = address
	}
	return cloneUser(u), nil
}

func (s *stubLocationStore) NearWorkers(_ context.Context, q ports.NearQuery) ([]*domain.User, error) {
	s.lastQ = q
	if s.nearErr != nil {
		return nil, s.nearErr
	}
	var out []*domain.User
	for _, u := range s.users.users {
		if u.ID == q.ExcludeUserID || u.AccountStatus != domain.AccountActive || !u.IsActive {
			continue
		}
		if u.Location == nil || u.Location.IsOrigin() {
			continue
		}
		if q.Center.DistanceMeters(*u.Location) > q.MaxDistanceMeters {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		return q.Center.DistanceMeters(*out[i].Location) < q.Center.DistanceMeters(*out[j].Location)
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *stubLocationStore) NearTasks(_ context.Context, q ports.NearQuery) ([]*domain.Task, error) {
	s.lastQ = q
	if s.nearErr != nil {
		return nil, s.nearErr
	}
	var out []*domain.Task
	for _, t := range s.tasks.tasks {
		if t.Status != domain.TaskActive || t.Location == nil || t.Location.IsOrigin() {
			continue
		}
		if q.Center.DistanceMeters(*t.Location) > q.MaxDistanceMeters {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.Slice(out, func(i, j int) bool {
		return q.Center.DistanceMeters(*out[i].Location) < q.Center.DistanceMeters(*out[j].Location)
	})
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

type stubAppRepo struct {
	apps map[string]*domain.Application
}

func newStubAppRepo() *stubAppRepo {
	return &stubAppRepo{apps: make(map[string]*domain.Application)}
}

func cloneApp(a *domain.Application) *domain.Application {
	clone := *a
	return &clone
}

func (r *stubAppRepo) Create(_ context.Context, a *domain.Application) (*domain.Application, error) {
	for _, existing := range r.apps {
		if existing.TaskID == a.TaskID && existing.ApplicantID == a.ApplicantID {
			return nil, domain.ErrAlreadyApplied
		}
	}
	c := cloneApp(a)
	c.ID = nextID()
	r.apps[c.ID] = c
	return cloneApp(c), nil
}

func (r *stubAppRepo) FindByID(_ context.Context, id string) (*domain.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, domain.ErrApplicationNotFound
	}
	return cloneApp(a), nil
}

func (r *stubAppRepo) FindByTaskAndApplicant(_ context.Context, taskID, applicantID string) (*domain.Application, error) {
	for _, a := range r.apps {
		if a.TaskID == taskID && a.ApplicantID == applicantID {
			return cloneApp(a), nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (r *stubAppRepo) ListByTask(_ context.Context, taskID string) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.apps {
		if a.TaskID == taskID {
			out = append(out, cloneApp(a))
		}
	}
	return out, nil
}

func (r *stubAppRepo) ListByApplicant(_ context.Context, applicantID string) ([]*domain.Application, error) {
	var out []*domain.Application
	for _, a := range r.apps {
		if a.ApplicantID == applicantID {
			out = append(out, cloneApp(a))
		}
	}
	return out, nil
}

func (r *stubAppRepo) Save(_ context.Context, a *domain.Application) error {
	if _, ok := r.apps[a.ID]; !ok {
		return domain.ErrApplicationNotFound
	}
	r.apps[a.ID] = cloneApp(a)
	return nil
}

func (r *stubAppRepo) DeleteByTask(_ context.Context, taskID string) error {
	for id, a := range r.apps {
		if a.TaskID == taskID {
			delete(r.apps, id)
		}
	}
	return nil
}

type stubMessageRepo struct {
	msgs []*domain.Message
}

func (r *stubMessageRepo) Create(_ context.Context, m *domain.Message) (*domain.Message, error) {
	c := *m
	c.ID = nextID()
	r.msgs = append(r.msgs, &c)
	out := c
	return &out, nil
}

func (r *stubMessageRepo) FindByID(_ context.Context, id string) (*domain.Message, error) {
	for _, m := range r.msgs {
		if m.ID == id {
			c := *m
			return &c, nil
		}
	}
	return nil, domain.ErrMessageNotFound
}

func (r *stubMessageRepo) ListByTask(_ context.Context, taskID string) ([]*domain.Message, error) {
	var out []*domain.Message
	for _, m := range r.msgs {
		if m.TaskID == taskID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubMessageRepo) ListForUser(_ context.Context, userID string, limit int) ([]*domain.Message, error) {
	var out []*domain.Message
	for i := len(r.msgs) - 1; i >= 0 && len(out) < limit; i-- {
		m := r.msgs[i]
		if m.FromUserID == userID || m.ToUserID == userID {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubMessageRepo) MarkSeen(_ context.Context, id string, at time.Time) error {
	for _, m := range r.msgs {
		if m.ID == id {
			m.Seen = true
			m.SeenAt = &at
			return nil
		}
	}
	return domain.ErrMessageNotFound
}

type stubReviewRepo struct {
	reviews []*domain.Review
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) (*domain.Review, error) {
	for _, existing := range r.reviews {
		if existing.ReviewerID == rv.ReviewerID && existing.TaskID == rv.TaskID {
			return nil, domain.ErrAlreadyReviewed
		}
	}
	c := *rv
	c.ID = nextID()
	r.reviews = append(r.reviews, &c)
	out := c
	return &out, nil
}

func (r *stubReviewRepo) ListByReviewee(_ context.Context, id string) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, rv := range r.reviews {
		if rv.RevieweeID == id {
			c := *rv
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubReviewRepo) RatingsFor(_ context.Context, id string) ([]int, error) {
	var out []int
	for _, rv := range r.reviews {
		if rv.RevieweeID == id {
			out = append(out, rv.Rating)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Infrastructure stubs
// ---------------------------------------------------------------------------

type stubDedup struct {
	dupResult bool
	dupErr    error
	marked    []string
}

func (d *stubDedup) IsDuplicate(_ context.Context, _ string, _ domain.GeoPoint) (bool, error) {
	return d.dupResult, d.dupErr
}

func (d *stubDedup) Mark(_ context.Context, userID string, _ domain.GeoPoint) error {
	d.marked = append(d.marked, userID)
	return nil
}

type stubRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func (r *stubRevoker) Revoke(_ context.Context, id string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	if r.revoked == nil {
		r.revoked = make(map[string]time.Duration)
	}
	r.revoked[id] = ttl
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := r.revoked[id]
	return ok, nil
}

type stubPublisher struct {
	events []domain.Event
	err    error
}

func (p *stubPublisher) Publish(_ context.Context, ev domain.Event) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type stubStatsQueue struct {
	jobs []domain.StatsJob
}

func (q *stubStatsQueue) Enqueue(job domain.StatsJob) {
	q.jobs = append(q.jobs, job)
}

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func pointAt(lat, lng float64) *domain.GeoPoint {
	p, err := domain.NewGeoPoint(lat, lng)
	if err != nil {
		panic(err)
	}
	return &p
}

func activeWorker(username string, loc *domain.GeoPoint) *domain.User {
	return &domain.User{
		Username:      username,
		Role:          domain.RoleUser,
		AccountStatus: domain.AccountActive,
		IsActive:      true,
		Location:      loc,
	}
}

func f64(v float64) *float64 { return &v }
