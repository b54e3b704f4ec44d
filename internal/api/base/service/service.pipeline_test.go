package basesvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func stageName(stage bson.D) string {
	if len(stage) == 0 {
		return ""
	}
	return stage[0].Key
}

func TestPaginateAggregate_DoesNotMutatePipeline(t *testing.T) {
	base := make(mongo.Pipeline, 1, 8) // dư capacity để bắt lỗi dùng chung backing array
	base[0] = MatchStage(bson.M{"isPublished": true})

	var seen []mongo.Pipeline
	run := func(_ context.Context, p mongo.Pipeline) ([]bson.M, error) {
		seen = append(seen, p)
		if stageName(p[len(p)-1]) == "$count" {
			return []bson.M{{"totalDocs": int32(25)}}, nil
		}
		return []bson.M{{"title": "a"}, {"title": "b"}}, nil
	}

	res, err := PaginateAggregate(context.Background(), run, base, 3, 10)
	require.NoError(t, err)
	require.Len(t, seen, 2)

	assert.Len(t, base, 1)
	assert.Equal(t, "$count", stageName(seen[0][1]))
	assert.Equal(t, "$skip", stageName(seen[1][1]))
	assert.Equal(t, int64(20), seen[1][1][0].Value)
	assert.Equal(t, "$limit", stageName(seen[1][2]))
	assert.Len(t, seen[0], 2, "pipeline đếm không được lẫn $skip/$limit")

	assert.Equal(t, int64(25), res.TotalDocs)
	assert.Equal(t, int64(3), res.TotalPages)
	assert.Len(t, res.Docs, 2)
	assert.False(t, res.HasNextPage)
}

func TestPaginateAggregate_ClampsPageAndLimit(t *testing.T) {
	run := func(_ context.Context, p mongo.Pipeline) ([]bson.M, error) {
		if stageName(p[len(p)-1]) == "$count" {
			return []bson.M{{"totalDocs": int64(3)}}, nil
		}
		return []bson.M{{"n": 1}}, nil
	}
	res, err := PaginateAggregate(context.Background(), run, nil, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Page)
	assert.Equal(t, int64(1), res.Limit)
	assert.Equal(t, int64(3), res.TotalPages)
}

func TestPaginateAggregate_EmptySkipsPageQuery(t *testing.T) {
	calls := 0
	run := func(_ context.Context, p mongo.Pipeline) ([]bson.M, error) {
		calls++
		return []bson.M{}, nil
	}
	res, err := PaginateAggregate(context.Background(), run, mongo.Pipeline{}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(0), res.TotalPages)
	assert.NotNil(t, res.Docs)
}

func TestPaginateAggregate_HugePageReturnsEmptyPage(t *testing.T) {
	var stages []string
	run := func(_ context.Context, p mongo.Pipeline) ([]bson.M, error) {
		last := stageName(p[len(p)-1])
		stages = append(stages, last)
		if last == "$count" {
			return []bson.M{{"totalDocs": int32(5)}}, nil
		}
		return []bson.M{{"n": 1}}, nil
	}

	res, err := PaginateAggregate(context.Background(), run, mongo.Pipeline{}, 100000000000000000, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"$count"}, stages, "không chạy $skip âm")
	assert.Empty(t, res.Docs)
	assert.Equal(t, int64(5), res.TotalDocs)
	assert.Equal(t, int64(1), res.TotalPages)
	assert.Positive(t, res.PagingCounter)
	assert.False(t, res.HasNextPage)
}

func TestPaginateAggregate_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	run := func(context.Context, mongo.Pipeline) ([]bson.M, error) { return nil, boom }
	_, err := PaginateAggregate(context.Background(), run, nil, 1, 10)
	assert.ErrorIs(t, err, boom)
}

func TestSortStage(t *testing.T) {
	allowed := []string{"createdAt", "views", "duration"}

	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "views", Value: 1}}}}, SortStage("views", "asc", allowed, "createdAt"))
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "views", Value: -1}}}}, SortStage("views", "whatever", allowed, "createdAt"))
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}, SortStage("password", "asc", allowed, "createdAt"))
	assert.Equal(t, bson.D{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}}, SortStage("", "", allowed, "createdAt"))
}

func TestSearchStage(t *testing.T) {
	text := SearchStage(SearchModeText, "", "lofi", []string{"title", "description"})
	assert.Equal(t, "$match", stageName(text))
	assert.Equal(t, bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: "lofi"}}}}, text[0].Value)

	atlas := SearchStage(SearchModeAtlas, "search-videos", "lofi", []string{"title", "description"})
	assert.Equal(t, "$search", stageName(atlas))
	spec := atlas[0].Value.(bson.D)
	assert.Equal(t, "search-videos", spec[0].Value)
}

func TestUnwindAndLookupStage(t *testing.T) {
	unwind := UnwindStage("owner", false)
	assert.Equal(t, bson.D{
		{Key: "path", Value: "$owner"},
		{Key: "preserveNullAndEmptyArrays", Value: false},
	}, unwind[0].Value)

	plain := LookupStage("users", "owner", "_id", "owner")
	assert.Len(t, plain[0].Value.(bson.D), 4)

	withSub := LookupStage("users", "owner", "_id", "owner", ProjectStage(bson.D{{Key: "username", Value: 1}}))
	spec := withSub[0].Value.(bson.D)
	require.Len(t, spec, 5)
	assert.Equal(t, "pipeline", spec[4].Key)
}

func TestToUpdateData(t *testing.T) {
	plain, err := ToUpdateData(bson.M{"title": "new"})
	require.NoError(t, err)
	assert.Equal(t, "new", plain.Set["title"])

	withOps, err := ToUpdateData(bson.M{"$inc": bson.M{"views": 1}, "$addToSet": bson.M{"videos": "x"}})
	require.NoError(t, err)
	assert.Nil(t, withOps.Set)
	assert.NotNil(t, withOps.Inc)
	assert.Equal(t, "x", withOps.AddToSet["videos"])

	orig := &UpdateData{Set: map[string]interface{}{"a": 1}}
	cp, err := ToUpdateData(orig)
	require.NoError(t, err)
	assert.NotSame(t, orig, cp)
}
