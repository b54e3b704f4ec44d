package basesvc

import (
	"context"
	"math"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	basemodels "vidtube/internal/api/base/models"
)

// AggregateFunc chạy một pipeline và trả về toàn bộ kết quả
type AggregateFunc func(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error)

// Chế độ tìm kiếm toàn văn
const (
	SearchModeText  = "text"  // $text trên text index
	SearchModeAtlas = "atlas" // $search của Atlas Search
)

// PaginateAggregate chạy hai aggregation trên bản sao của pipeline:
// [..., $count] để lấy tổng và [..., $skip, $limit] để lấy trang. pipeline gốc không bị sửa.
func PaginateAggregate(ctx context.Context, run AggregateFunc, pipeline mongo.Pipeline, page, limit int64) (*basemodels.PaginateResult[bson.M], error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	countRows, err := run(ctx, appendStages(pipeline, bson.D{{Key: "$count", Value: "totalDocs"}}))
	if err != nil {
		return nil, err
	}
	var total int64
	if len(countRows) > 0 {
		total = toInt64(countRows[0]["totalDocs"])
	}

	docs := []bson.M{}
	// page quá lớn => (page-1)*limit tràn int64, trả trang rỗng
	if page-1 > math.MaxInt64/limit {
		return basemodels.NewPaginateResult(docs, total, page, limit), nil
	}
	if total > (page-1)*limit {
		docs, err = run(ctx, appendStages(pipeline,
			bson.D{{Key: "$skip", Value: (page - 1) * limit}},
			bson.D{{Key: "$limit", Value: limit}},
		))
		if err != nil {
			return nil, err
		}
	}

	return basemodels.NewPaginateResult(docs, total, page, limit), nil
}

// appendStages trả về pipeline mới, không dùng chung backing array với pipeline gốc
func appendStages(pipeline mongo.Pipeline, stages ...bson.D) mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(pipeline)+len(stages))
	out = append(out, pipeline...)
	return append(out, stages...)
}

func toInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	}
	return 0
}

// ===== Stage helpers =====

// MatchStage tạo stage $match
func MatchStage(filter interface{}) bson.D {
	return bson.D{{Key: "$match", Value: filter}}
}

// LookupStage tạo stage $lookup (left outer join) với sub-pipeline tùy chọn chạy trên document được join
func LookupStage(from, localField, foreignField, as string, pipeline ...bson.D) bson.D {
	lookup := bson.D{
		{Key: "from", Value: from},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: foreignField},
		{Key: "as", Value: as},
	}
	if len(pipeline) > 0 {
		lookup = append(lookup, bson.E{Key: "pipeline", Value: mongo.Pipeline(pipeline)})
	}
	return bson.D{{Key: "$lookup", Value: lookup}}
}

// UnwindStage tạo stage $unwind. preserveEmpty = false sẽ loại các dòng không join được.
func UnwindStage(path string, preserveEmpty bool) bson.D {
	return bson.D{{Key: "$unwind", Value: bson.D{
		{Key: "path", Value: "$" + path},
		{Key: "preserveNullAndEmptyArrays", Value: preserveEmpty},
	}}}
}

// SortDirection: "asc" => 1, mọi giá trị khác => -1
func SortDirection(sortType string) int {
	if sortType == "asc" {
		return 1
	}
	return -1
}

// SortStage sắp xếp theo sortBy nếu nằm trong allowed, ngược lại theo defaultField giảm dần
func SortStage(sortBy, sortType string, allowed []string, defaultField string) bson.D {
	for _, field := range allowed {
		if field == sortBy && sortBy != "" {
			return bson.D{{Key: "$sort", Value: bson.D{{Key: sortBy, Value: SortDirection(sortType)}}}}
		}
	}
	return bson.D{{Key: "$sort", Value: bson.D{{Key: defaultField, Value: -1}}}}
}

// SearchStage tạo stage tìm kiếm toàn văn, phải đứng đầu pipeline
func SearchStage(mode, index, query string, paths []string) bson.D {
	if mode == SearchModeAtlas {
		return bson.D{{Key: "$search", Value: bson.D{
			{Key: "index", Value: index},
			{Key: "text", Value: bson.D{
				{Key: "query", Value: query},
				{Key: "path", Value: paths},
			}},
		}}}
	}
	return MatchStage(bson.D{{Key: "$text", Value: bson.D{{Key: "$search", Value: query}}}})
}

// ProjectStage tạo stage $project
func ProjectStage(fields bson.D) bson.D {
	return bson.D{{Key: "$project", Value: fields}}
}

// AddFieldsStage tạo stage $addFields
func AddFieldsStage(fields bson.D) bson.D {
	return bson.D{{Key: "$addFields", Value: fields}}
}

// SizeOf => {$size: "$field"}
func SizeOf(field string) bson.M {
	return bson.M{"$size": "$" + field}
}

// FirstOf => {$first: "$field"}
func FirstOf(field string) bson.M {
	return bson.M{"$first": "$" + field}
}

// IsIn => true nếu value nằm trong mảng arrayExpr (ví dụ "$likes.likedBy")
func IsIn(value interface{}, arrayExpr string) bson.M {
	return bson.M{"$cond": bson.M{
		"if":   bson.M{"$in": bson.A{value, arrayExpr}},
		"then": true,
		"else": false,
	}}
}

// SumOf => {$sum: "$field"}
func SumOf(field string) bson.M {
	return bson.M{"$sum": "$" + field}
}
