// package basesvc cung cấp các service cơ bản cho việc tương tác với MongoDB
package basesvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "vidtube/internal/api/base/models"
	"vidtube/internal/common"
)

// UpdateData định nghĩa kiểu dữ liệu cho partial update
type UpdateData struct {
	Set      map[string]interface{} `bson:"$set,omitempty"`      // Các trường cần update
	Unset    map[string]interface{} `bson:"$unset,omitempty"`    // Các trường cần xóa
	Inc      map[string]interface{} `bson:"$inc,omitempty"`      // Tăng/giảm giá trị số
	Push     map[string]interface{} `bson:"$push,omitempty"`     // Thêm vào array
	AddToSet map[string]interface{} `bson:"$addToSet,omitempty"` // Thêm vào set (không trùng)
	Pull     map[string]interface{} `bson:"$pull,omitempty"`     // Gỡ khỏi array
}

// ToUpdateData chuyển đổi data thành UpdateData.
// Map không có operator ($set...) được hiểu là $set toàn bộ.
func ToUpdateData(data interface{}) (*UpdateData, error) {
	switch v := data.(type) {
	case *UpdateData:
		cp := *v
		return &cp, nil
	case UpdateData:
		return &v, nil
	}

	dataMap, err := toMap(data)
	if err != nil {
		return nil, err
	}

	hasOperator := false
	for key := range dataMap {
		if len(key) > 0 && key[0] == '$' {
			hasOperator = true
			break
		}
	}
	if !hasOperator {
		return &UpdateData{Set: dataMap}, nil
	}

	update := &UpdateData{}
	raw, err := bson.Marshal(dataMap)
	if err != nil {
		return nil, err
	}
	if err := bson.Unmarshal(raw, update); err != nil {
		return nil, err
	}
	return update, nil
}

// toMap chuyển struct/map sang map qua bson để giữ đúng tên field theo bson tag
func toMap(data interface{}) (map[string]interface{}, error) {
	raw, err := bson.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("bson marshal failed: %w", err)
	}
	var out map[string]interface{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("bson unmarshal failed: %w", err)
	}
	return out, nil
}

// ====================================
// INTERFACE VÀ STRUCT
// ====================================

// BaseServiceMongo định nghĩa interface chứa các phương thức cơ bản cho việc tương tác với MongoDB
type BaseServiceMongo[Model any] interface {
	// Insert / Find
	InsertOne(ctx context.Context, data Model) (Model, error)
	FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (Model, error)
	FindOneById(ctx context.Context, id primitive.ObjectID) (Model, error)
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]Model, error)

	// Update / Delete
	UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (Model, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}) error
	DeleteById(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, filter interface{}) (int64, error)

	// Đếm / kiểm tra
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	DocumentExists(ctx context.Context, filter interface{}) (bool, error)

	// Aggregation
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error)
	AggregatePaginate(ctx context.Context, pipeline mongo.Pipeline, page, limit int64) (*basemodels.PaginateResult[bson.M], error)
}

// BaseServiceMongoImpl triển khai BaseServiceMongo trên một collection
type BaseServiceMongoImpl[T any] struct {
	collection *mongo.Collection
}

// NewBaseServiceMongo tạo mới một BaseServiceMongoImpl
func NewBaseServiceMongo[T any](collection *mongo.Collection) *BaseServiceMongoImpl[T] {
	return &BaseServiceMongoImpl[T]{
		collection: collection,
	}
}

// Collection trả về collection MongoDB
func (s *BaseServiceMongoImpl[T]) Collection() *mongo.Collection {
	return s.collection
}

// ====================================
// INSERT / FIND
// ====================================

// InsertOne tạo mới một bản ghi, tự gán createdAt/updatedAt (Unix ms) rồi đọc lại document vừa tạo
func (s *BaseServiceMongoImpl[T]) InsertOne(ctx context.Context, data T) (T, error) {
	var zero T

	dataMap, err := toMap(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}

	// Bỏ field chuỗi rỗng để sparse unique index hoạt động đúng
	for key, value := range dataMap {
		if strValue, ok := value.(string); ok && strValue == "" {
			delete(dataMap, key)
		}
	}

	now := time.Now().UnixMilli()
	dataMap["createdAt"] = now
	dataMap["updatedAt"] = now

	result, err := s.collection.InsertOne(ctx, dataMap)
	if err != nil {
		return zero, common.ConvertMongoError(err)
	}

	var created T
	if err := s.collection.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&created); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return created, nil
}

// FindOne tìm một document theo điều kiện lọc
func (s *BaseServiceMongoImpl[T]) FindOne(ctx context.Context, filter interface{}, opts *options.FindOneOptions) (T, error) {
	var zero T
	var result T

	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.FindOne()
	}

	if err := s.collection.FindOne(ctx, filter, opts).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, common.ErrNotFound
		}
		return zero, common.ConvertMongoError(err)
	}
	return result, nil
}

// FindOneById tìm document theo _id
func (s *BaseServiceMongoImpl[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id}, nil)
}

// Find tìm tất cả bản ghi theo điều kiện lọc, luôn trả về slice khác nil
func (s *BaseServiceMongoImpl[T]) Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	if filter == nil {
		filter = bson.D{}
	}
	if opts == nil {
		opts = options.Find()
	}

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []T{}
	if err = cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// ====================================
// UPDATE / DELETE
// ====================================

// UpdateById cập nhật document theo _id và trả về bản sau cập nhật.
// data có thể là UpdateData, map có operator, hoặc map/struct thường (hiểu là $set).
func (s *BaseServiceMongoImpl[T]) UpdateById(ctx context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	var zero T
	filter := bson.M{"_id": id}

	updateData, err := ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	if updateData.Set == nil {
		updateData.Set = make(map[string]interface{})
	}
	updateData.Set["updatedAt"] = time.Now().UnixMilli()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated T
	if err := s.collection.FindOneAndUpdate(ctx, filter, updateData, opts).Decode(&updated); err != nil {
		return zero, common.ConvertMongoError(err)
	}
	return updated, nil
}

// UpdateMany cập nhật nhiều document, trả về số document đã thay đổi
func (s *BaseServiceMongoImpl[T]) UpdateMany(ctx context.Context, filter interface{}, update interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	updateData, err := ToUpdateData(update)
	if err != nil {
		return 0, common.ErrInvalidFormat
	}
	if updateData.Set == nil {
		updateData.Set = make(map[string]interface{})
	}
	updateData.Set["updatedAt"] = time.Now().UnixMilli()

	result, err := s.collection.UpdateMany(ctx, filter, updateData)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.ModifiedCount, nil
}

// DeleteOne xóa một document, ErrNotFound nếu không có document nào khớp
func (s *BaseServiceMongoImpl[T]) DeleteOne(ctx context.Context, filter interface{}) error {
	if filter == nil {
		return common.ErrRequiredField
	}
	result, err := s.collection.DeleteOne(ctx, filter)
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// DeleteById xóa một document theo ObjectId
func (s *BaseServiceMongoImpl[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return s.DeleteOne(ctx, bson.M{"_id": id})
}

// DeleteMany xóa nhiều document. Filter rỗng bị từ chối để tránh xóa cả collection.
func (s *BaseServiceMongoImpl[T]) DeleteMany(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		return 0, common.ErrRequiredField
	}
	result, err := s.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return result.DeletedCount, nil
}

// ====================================
// ĐẾM / KIỂM TRA
// ====================================

// CountDocuments đếm số document khớp filter
func (s *BaseServiceMongoImpl[T]) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if filter == nil {
		filter = bson.D{}
	}
	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// DocumentExists kiểm tra có ít nhất một document khớp filter
func (s *BaseServiceMongoImpl[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	if filter == nil {
		filter = bson.D{}
	}
	count, err := s.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, common.ConvertMongoError(err)
	}
	return count > 0, nil
}

// ====================================
// AGGREGATION
// ====================================

// Aggregate chạy pipeline và decode toàn bộ kết quả
func (s *BaseServiceMongoImpl[T]) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []bson.M{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// AggregatePaginate phân trang kết quả của pipeline
func (s *BaseServiceMongoImpl[T]) AggregatePaginate(ctx context.Context, pipeline mongo.Pipeline, page, limit int64) (*basemodels.PaginateResult[bson.M], error) {
	return PaginateAggregate(ctx, s.Aggregate, pipeline, page, limit)
}
