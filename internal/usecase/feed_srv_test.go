package usecase

import (
	"context"
	"testing"

	"perfume-collection/internal/data/entity"
	"perfume-collection/internal/dto/request"
	"perfume-collection/internal/dto/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func countsByName(counts []response.CategoryCount) map[string]int {
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		m[c.Category] = c.Count
	}
	return m
}

func TestCountCategories(t *testing.T) {
	counts := CountCategories([][]string{
		{"Kwiatowe"},
		{"Kwiatowe", "Drzewne"},
		{},
	})

	require.Len(t, counts, len(entity.Categories)+1)
	assert.Equal(t, entity.CategoryAll, counts[0].Category)

	byName := countsByName(counts)
	assert.Equal(t, 3, byName[entity.CategoryAll])
	assert.Equal(t, 2, byName["Kwiatowe"])
	assert.Equal(t, 1, byName["Drzewne"])
	for _, category := range entity.Categories {
		if category == "Kwiatowe" || category == "Drzewne" {
			continue
		}
		count, ok := byName[category]
		assert.True(t, ok, category)
		assert.Zero(t, count, category)
	}
}

func TestCountCategories_IgnoresUnknownAndDuplicateTags(t *testing.T) {
	byName := countsByName(CountCategories([][]string{
		{"Wodne", "Wodne", "Metaliczne"},
	}))

	assert.Equal(t, 1, byName[entity.CategoryAll])
	assert.Equal(t, 1, byName["Wodne"])
	_, ok := byName["Metaliczne"]
	assert.False(t, ok)
}

func TestGetCategoryCounts(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.store.addProfile("owner@example.com")
	viewer := f.store.addProfile("viewer@example.com")

	_, err := f.svc.Perfume.CreatePerfume(ctx, owner.String(), validPerfume("A", "Kwiatowe"))
	require.NoError(t, err)
	_, err = f.svc.Perfume.CreatePerfume(ctx, owner.String(), validPerfume("B", "Kwiatowe", "Drzewne"))
	require.NoError(t, err)

	mine, err := f.svc.Feed.GetCategoryCounts(ctx, owner.String(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, countsByName(mine)["Kwiatowe"])

	theirs, err := f.svc.Feed.GetCategoryCounts(ctx, viewer.String(), owner.String())
	require.NoError(t, err)
	assert.Equal(t, mine, theirs)

	_, err = f.svc.Feed.GetCategoryCounts(ctx, "", "")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestGetFeed_FiltersAndSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.store.addProfile("owner@example.com")

	rose := validPerfume("Rose Absolute", "Kwiatowe")
	rose.Brand = "Atelier"
	rose.Notes = []string{"Bulgarian rose"}
	_, err := f.svc.Perfume.CreatePerfume(ctx, owner.String(), rose)
	require.NoError(t, err)

	wood := validPerfume("Santal", "Drzewne")
	wood.Brand = "Le Bois"
	wood.Notes = []string{"sandalwood", "cedar"}
	_, err = f.svc.Perfume.CreatePerfume(ctx, owner.String(), wood)
	require.NoError(t, err)

	tests := []struct {
		name string
		req  request.FeedRequest
		want []string
	}{
		{"all", request.FeedRequest{Category: entity.CategoryAll, SortBy: "name", SortDirection: "asc"}, []string{"Rose Absolute", "Santal"}},
		{"category", request.FeedRequest{Category: "Drzewne"}, []string{"Santal"}},
		{"search by brand", request.FeedRequest{Search: "atelier"}, []string{"Rose Absolute"}},
		{"search by note", request.FeedRequest{Search: "CEDAR"}, []string{"Santal"}},
		{"no match", request.FeedRequest{Search: "vanilla"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			feed, err := f.svc.Feed.GetFeed(ctx, owner.String(), &req)
			require.NoError(t, err)

			var names []string
			for _, p := range feed {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestGetFeed_InvalidQuery(t *testing.T) {
	f := newFixture()
	owner := f.store.addProfile("owner@example.com")

	_, err := f.svc.Feed.GetFeed(context.Background(), owner.String(), &request.FeedRequest{Category: "Metaliczne"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Feed.GetFeed(context.Background(), owner.String(), &request.FeedRequest{SortBy: "popularity"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Feed.GetFeed(context.Background(), "", &request.FeedRequest{View: FeedViewFollowing})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestGetFeed_UserViewIsPublic(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.store.addProfile("owner@example.com")
	_, err := f.svc.Perfume.CreatePerfume(ctx, owner.String(), validPerfume("Aqua"))
	require.NoError(t, err)

	feed, err := f.svc.Feed.GetFeed(ctx, "", &request.FeedRequest{UserID: owner.String()})
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}

func TestGetFeed_FollowingScope(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	me := f.store.addProfile("me@example.com")
	followed := f.store.addProfile("followed@example.com")
	other := f.store.addProfile("other@example.com")

	empty, err := f.svc.Feed.GetFeed(ctx, me.String(), &request.FeedRequest{View: FeedViewFollowing})
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, f.svc.Follow.Follow(ctx, followed.String(), me.String()))
	_, err = f.svc.Perfume.CreatePerfume(ctx, followed.String(), validPerfume("Followed One"))
	require.NoError(t, err)
	_, err = f.svc.Perfume.CreatePerfume(ctx, other.String(), validPerfume("Other One"))
	require.NoError(t, err)

	feed, err := f.svc.Feed.GetFeed(ctx, me.String(), &request.FeedRequest{View: FeedViewFollowing})
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, "Followed One", feed[0].Name)
}

func TestGetFeed_SortIsDeterministicOnTies(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.store.addProfile("owner@example.com")

	for _, p := range []struct {
		name   string
		rating float64
	}{{"First", 4}, {"Second", 4}, {"Third", 2}} {
		req := validPerfume(p.name)
		req.Rating = p.rating
		_, err := f.svc.Perfume.CreatePerfume(ctx, owner.String(), req)
		require.NoError(t, err)
	}

	query := &request.FeedRequest{SortBy: "rating", SortDirection: "asc"}
	first, err := f.svc.Feed.GetFeed(ctx, owner.String(), query)
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Equal(t, "Third", first[0].Name)
	assert.Less(t, first[1].ID, first[2].ID)

	for i := 0; i < 5; i++ {
		again, err := f.svc.Feed.GetFeed(ctx, owner.String(), query)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGetFeed_FollowingIsNotCappedByDefault(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	me := f.store.addProfile("me@example.com")
	followed := f.store.addProfile("followed@example.com")
	require.NoError(t, f.svc.Follow.Follow(ctx, followed.String(), me.String()))

	const total = 40
	for i := 0; i < total; i++ {
		_, err := f.svc.Perfume.CreatePerfume(ctx, followed.String(), validPerfume("Perfume"))
		require.NoError(t, err)
	}

	feed, err := f.svc.Feed.GetFeed(ctx, me.String(), &request.FeedRequest{View: FeedViewFollowing})
	require.NoError(t, err)
	assert.Len(t, feed, total)

	capped := NewFeedService(f.repo, 25, zap.NewNop())
	feed, err = capped.GetFeed(ctx, me.String(), &request.FeedRequest{View: FeedViewFollowing})
	require.NoError(t, err)
	assert.Len(t, feed, 25)
}
