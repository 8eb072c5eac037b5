package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"perfume-collection/internal/data/entity"
	"perfume-collection/internal/data/repository"
	"perfume-collection/pkg/metrics"
	"perfume-collection/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// store is an in-memory stand-in for the Postgres schema. Every fake
// repository shares it so cross-table effects (cascades, joins) behave
// like the real database.
type store struct {
	mu            sync.Mutex
	profiles      map[uuid.UUID]*entity.Profile
	perfumes      map[uuid.UUID]*entity.Perfume
	follows       []*entity.Follow
	comments      map[uuid.UUID]*entity.Comment
	notifications []*entity.Notification

	// calls counts every repository method invocation.
	calls int
}

func newStore() *store {
	return &store{
		profiles: map[uuid.UUID]*entity.Profile{},
		perfumes: map[uuid.UUID]*entity.Perfume{},
		comments: map[uuid.UUID]*entity.Comment{},
	}
}

func (s *store) touch() {
	s.calls++
}

func (s *store) repository() *repository.Repository {
	return &repository.Repository{
		Profile:      &fakeProfileRepo{s},
		Perfume:      &fakePerfumeRepo{s},
		Follow:       &fakeFollowRepo{s: s},
		Comment:      &fakeCommentRepo{s},
		Notification: &fakeNotificationRepo{s: s},
	}
}

func (s *store) addProfile(email string) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	s.profiles[id] = &entity.Profile{ID: id, Email: email}
	return id
}

func (s *store) notificationsFor(userID uuid.UUID) []*entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*entity.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			result = append(result, n)
		}
	}
	return result
}

func (s *store) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// ==================== PROFILES ====================

type fakeProfileRepo struct{ s *store }

func (r *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	p, ok := r.s.profiles[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProfileRepo) FindByIDs(_ context.Context, ids []uuid.UUID) ([]*entity.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var result []*entity.Profile
	for _, id := range ids {
		if p, ok := r.s.profiles[id]; ok {
			cp := *p
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (r *fakeProfileRepo) Upsert(_ context.Context, profile *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	existing, ok := r.s.profiles[profile.ID]
	if !ok {
		cp := *profile
		r.s.profiles[profile.ID] = &cp
		return nil
	}
	existing.Email = profile.Email
	if profile.FullName != nil {
		existing.FullName = profile.FullName
	}
	if profile.AvatarURL != nil {
		existing.AvatarURL = profile.AvatarURL
	}
	return nil
}

func (r *fakeProfileRepo) FindSummariesExcept(_ context.Context, userID uuid.UUID) ([]*entity.ProfileSummary, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var result []*entity.ProfileSummary
	for id, p := range r.s.profiles {
		if id == userID {
			continue
		}
		var count int64
		for _, pf := range r.s.perfumes {
			if pf.UserID == id {
				count++
			}
		}
		result = append(result, &entity.ProfileSummary{Profile: *p, PerfumeCount: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID.String() < result[j].ID.String() })
	return result, nil
}

// ==================== PERFUMES ====================

type fakePerfumeRepo struct{ s *store }

func (r *fakePerfumeRepo) Create(_ context.Context, perfume *entity.Perfume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	cp := *perfume
	r.s.perfumes[perfume.ID] = &cp
	return nil
}

func (r *fakePerfumeRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Perfume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	p, ok := r.s.perfumes[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePerfumeRepo) FindAll(_ context.Context, filter repository.PerfumeFilter) ([]*entity.Perfume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()

	followees := map[uuid.UUID]bool{}
	if filter.FollowerID != nil {
		for _, f := range r.s.follows {
			if f.FollowerID == *filter.FollowerID {
				followees[f.FollowingID] = true
			}
		}
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var result []*entity.Perfume
	for _, p := range r.s.perfumes {
		if filter.OwnerID != nil && p.UserID != *filter.OwnerID {
			continue
		}
		if filter.FollowerID != nil && !followees[p.UserID] {
			continue
		}
		if filter.Category != "" && filter.Category != entity.CategoryAll && !hasCategory(p, filter.Category) {
			continue
		}
		if filter.FavoritesOnly && !p.IsFavorite {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		cp := *p
		result = append(result, &cp)
	}

	desc := !strings.EqualFold(filter.SortDirection, "asc")
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		var cmp int
		switch filter.SortBy {
		case "rating":
			cmp = compareFloat(a.Rating, b.Rating)
		case "price":
			cmp = compareFloat(a.Price, b.Price)
		case "name":
			cmp = strings.Compare(a.Name, b.Name)
		default:
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		}
		if cmp != 0 {
			if desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return a.ID.String() < b.ID.String()
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func hasCategory(p *entity.Perfume, category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func matchesSearch(p *entity.Perfume, search string) bool {
	if strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(strings.ToLower(p.Brand), search) {
		return true
	}
	for _, note := range p.Notes {
		if strings.Contains(strings.ToLower(note), search) {
			return true
		}
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (r *fakePerfumeRepo) FindCategoriesByOwner(_ context.Context, ownerID uuid.UUID) ([][]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var result [][]string
	for _, p := range r.s.perfumes {
		if p.UserID == ownerID {
			result = append(result, append([]string(nil), p.Categories...))
		}
	}
	return result, nil
}

func (r *fakePerfumeRepo) CountByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var count int64
	for _, p := range r.s.perfumes {
		if p.UserID == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *fakePerfumeRepo) Update(_ context.Context, perfume *entity.Perfume) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	existing, ok := r.s.perfumes[perfume.ID]
	if !ok || existing.UserID != perfume.UserID {
		return repository.ErrNoRowsAffected
	}
	cp := *perfume
	r.s.perfumes[perfume.ID] = &cp
	return nil
}

func (r *fakePerfumeRepo) DeleteOwned(_ context.Context, id, ownerID uuid.UUID) (*entity.Perfume, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	p, ok := r.s.perfumes[id]
	if !ok || p.UserID != ownerID {
		return nil, nil
	}
	delete(r.s.perfumes, id)
	for cid, c := range r.s.comments {
		if c.PerfumeID == id {
			delete(r.s.comments, cid)
		}
	}
	for _, n := range r.s.notifications {
		if n.PerfumeID != nil && *n.PerfumeID == id {
			n.PerfumeID = nil
		}
	}
	return p, nil
}

func (r *fakePerfumeRepo) ToggleFavorite(_ context.Context, id, ownerID uuid.UUID) (*bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	p, ok := r.s.perfumes[id]
	if !ok || p.UserID != ownerID {
		return nil, nil
	}
	p.IsFavorite = !p.IsFavorite
	value := p.IsFavorite
	return &value, nil
}

// ==================== FOLLOWS ====================

type fakeFollowRepo struct {
	s *store
	// failFollowers makes follower lookups fail, simulating a broken fan-out.
	failFollowers bool
}

func (r *fakeFollowRepo) Create(_ context.Context, follow *entity.Follow) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	for _, f := range r.s.follows {
		if f.FollowerID == follow.FollowerID && f.FollowingID == follow.FollowingID {
			return false, nil
		}
	}
	cp := *follow
	r.s.follows = append(r.s.follows, &cp)
	return true, nil
}

func (r *fakeFollowRepo) Delete(_ context.Context, followerID, followingID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	kept := r.s.follows[:0]
	for _, f := range r.s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			continue
		}
		kept = append(kept, f)
	}
	r.s.follows = kept
	return nil
}

func (r *fakeFollowRepo) Exists(_ context.Context, followerID, followingID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	for _, f := range r.s.follows {
		if f.FollowerID == followerID && f.FollowingID == followingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeFollowRepo) FindFollowerIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	if r.failFollowers {
		return nil, errors.New("connection reset")
	}
	var ids []uuid.UUID
	for _, f := range r.s.follows {
		if f.FollowingID == userID {
			ids = append(ids, f.FollowerID)
		}
	}
	return ids, nil
}

func (r *fakeFollowRepo) FindFollowingIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var ids []uuid.UUID
	for _, f := range r.s.follows {
		if f.FollowerID == userID {
			ids = append(ids, f.FollowingID)
		}
	}
	return ids, nil
}

// ==================== COMMENTS ====================

type fakeCommentRepo struct{ s *store }

func (r *fakeCommentRepo) CreateWithinQuota(_ context.Context, comment *entity.Comment, quota int) (int, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	count := 0
	for _, c := range r.s.comments {
		if c.UserID == comment.UserID && c.PerfumeID == comment.PerfumeID {
			count++
		}
	}
	if count >= quota {
		return count, false, nil
	}
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return count, true, nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) FindByPerfume(_ context.Context, perfumeID uuid.UUID) ([]*entity.CommentWithAuthor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var result []*entity.CommentWithAuthor
	for _, c := range r.s.comments {
		if c.PerfumeID != perfumeID {
			continue
		}
		item := &entity.CommentWithAuthor{Comment: *c}
		if p, ok := r.s.profiles[c.UserID]; ok {
			email := p.Email
			item.AuthorEmail = &email
			item.AuthorFullName = p.FullName
			item.AuthorAvatarURL = p.AvatarURL
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})
	return result, nil
}

func (r *fakeCommentRepo) CountByUserAndPerfume(_ context.Context, userID, perfumeID uuid.UUID) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	count := 0
	for _, c := range r.s.comments {
		if c.UserID == userID && c.PerfumeID == perfumeID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) DeleteOwned(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	c, ok := r.s.comments[id]
	if !ok || c.UserID != userID {
		return false, nil
	}
	delete(r.s.comments, id)
	return true, nil
}

// ==================== NOTIFICATIONS ====================

type fakeNotificationRepo struct {
	s *store
	// failWrites makes CreateBatch fail.
	failWrites bool
}

func (r *fakeNotificationRepo) CreateBatch(_ context.Context, notifications []*entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	if r.failWrites {
		return errors.New("insert notifications: connection refused")
	}
	for _, n := range notifications {
		cp := *n
		r.s.notifications = append(r.s.notifications, &cp)
	}
	return nil
}

func (r *fakeNotificationRepo) FindByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entity.NotificationDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var all []*entity.NotificationDetail
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.UserID != userID {
			continue
		}
		detail := &entity.NotificationDetail{Notification: *n}
		if n.PerfumeID != nil {
			if p, ok := r.s.perfumes[*n.PerfumeID]; ok {
				name := p.Name
				detail.PerfumeName = &name
			}
		}
		if n.FromUserID != nil {
			if p, ok := r.s.profiles[*n.FromUserID]; ok {
				email := p.Email
				detail.FromEmail = &email
				detail.FromFullName = p.FullName
				detail.FromAvatarURL = p.AvatarURL
			}
		}
		all = append(all, detail)
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeNotificationRepo) CountByUser(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var count int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	for _, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.touch()
	var updated int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

// ==================== FIXTURE ====================

type fixture struct {
	store   *store
	repo    *repository.Repository
	metrics *metrics.Metrics
	svc     *Service
}

func newFixture() *fixture {
	s := newStore()
	repo := s.repository()
	m := metrics.New()
	config := &utils.Config{
		Feature: utils.FeatureConfig{CommentQuota: 5},
	}
	return &fixture{
		store:   s,
		repo:    repo,
		metrics: m,
		svc:     NewService(repo, NewStoreSink(repo.Notification), config, m, zap.NewNop()),
	}
}
