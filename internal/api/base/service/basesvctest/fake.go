// Package basesvctest cung cấp bản cài đặt in-memory của basesvc.BaseServiceMongo dùng cho unit test.
package basesvctest

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "vidtube/internal/api/base/models"
	basesvc "vidtube/internal/api/base/service"
	"vidtube/internal/common"
)

// FakeService lưu document dưới dạng bson.M trong bộ nhớ.
// Filter hỗ trợ so khớp bằng nhau (kể cả phần tử mảng), dot path, $in, $ne, $exists, $or.
// Update hỗ trợ $set, $unset, $inc, $push, $addToSet ($each), $pull ($in).
// Find bỏ qua sort/skip/limit trong opts.
type FakeService[T any] struct {
	mu   sync.Mutex
	docs []bson.M

	// UniqueKeys: mỗi phần tử là một tập field phải duy nhất (giả lập unique index)
	UniqueKeys [][]string
	// AggregateFunc trả kết quả cho Aggregate, nil => rỗng
	AggregateFunc func(pipeline mongo.Pipeline) ([]bson.M, error)
	// Errs gắn lỗi giả cho từng phương thức theo tên (ví dụ "DeleteMany")
	Errs map[string]error

	// Pipelines lưu lại các pipeline đã chạy
	Pipelines []mongo.Pipeline
}

var _ basesvc.BaseServiceMongo[struct{}] = (*FakeService[struct{}])(nil)

// New tạo FakeService rỗng
func New[T any]() *FakeService[T] {
	return &FakeService[T]{Errs: map[string]error{}}
}

func (f *FakeService[T]) injected(method string) error {
	if f.Errs == nil {
		return nil
	}
	return f.Errs[method]
}

// Seed chèn sẵn các document (gán _id nếu thiếu) và trả về bản đã chèn
func (f *FakeService[T]) Seed(items ...T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		created, err := f.InsertOne(context.Background(), item)
		if err != nil {
			panic(err)
		}
		out = append(out, created)
	}
	return out
}

// All trả về toàn bộ document hiện có
func (f *FakeService[T]) All() []T {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]T, 0, len(f.docs))
	for _, d := range f.docs {
		out = append(out, decode[T](d))
	}
	return out
}

// Len trả về số document
func (f *FakeService[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

// ===== Implementation =====

func (f *FakeService[T]) InsertOne(_ context.Context, data T) (T, error) {
	var zero T
	if err := f.injected("InsertOne"); err != nil {
		return zero, err
	}
	doc := normalize(data)
	for k, v := range doc {
		if s, ok := v.(string); ok && s == "" {
			delete(doc, k)
		}
	}
	if id, ok := doc["_id"].(primitive.ObjectID); !ok || id.IsZero() {
		doc["_id"] = primitive.NewObjectID()
	}
	now := time.Now().UnixMilli()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, keys := range f.UniqueKeys {
		for _, existing := range f.docs {
			if sameKeys(existing, doc, keys) {
				return zero, common.ErrDuplicate
			}
		}
	}
	f.docs = append(f.docs, doc)
	return decode[T](doc), nil
}

func (f *FakeService[T]) FindOne(_ context.Context, filter interface{}, _ *options.FindOneOptions) (T, error) {
	var zero T
	if err := f.injected("FindOne"); err != nil {
		return zero, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	flt := normalize(filter)
	for _, d := range f.docs {
		if matches(d, flt) {
			return decode[T](d), nil
		}
	}
	return zero, common.ErrNotFound
}

func (f *FakeService[T]) FindOneById(ctx context.Context, id primitive.ObjectID) (T, error) {
	return f.FindOne(ctx, bson.M{"_id": id}, nil)
}

func (f *FakeService[T]) Find(_ context.Context, filter interface{}, _ *options.FindOptions) ([]T, error) {
	if err := f.injected("Find"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	flt := normalize(filter)
	out := []T{}
	for _, d := range f.docs {
		if matches(d, flt) {
			out = append(out, decode[T](d))
		}
	}
	return out, nil
}

func (f *FakeService[T]) UpdateById(_ context.Context, id primitive.ObjectID, data interface{}) (T, error) {
	var zero T
	if err := f.injected("UpdateById"); err != nil {
		return zero, err
	}
	update, err := basesvc.ToUpdateData(data)
	if err != nil {
		return zero, common.ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.docs {
		if d["_id"] == id {
			applyUpdate(d, normalize(update))
			return decode[T](d), nil
		}
	}
	return zero, common.ErrNotFound
}

func (f *FakeService[T]) UpdateMany(_ context.Context, filter interface{}, data interface{}) (int64, error) {
	if err := f.injected("UpdateMany"); err != nil {
		return 0, err
	}
	update, err := basesvc.ToUpdateData(data)
	if err != nil {
		return 0, common.ErrInvalidFormat
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	flt := normalize(filter)
	upd := normalize(update)
	var n int64
	for _, d := range f.docs {
		if matches(d, flt) {
			applyUpdate(d, upd)
			n++
		}
	}
	return n, nil
}

func (f *FakeService[T]) DeleteOne(_ context.Context, filter interface{}) error {
	if err := f.injected("DeleteOne"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	flt := normalize(filter)
	for i, d := range f.docs {
		if matches(d, flt) {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func (f *FakeService[T]) DeleteById(ctx context.Context, id primitive.ObjectID) error {
	return f.DeleteOne(ctx, bson.M{"_id": id})
}

func (f *FakeService[T]) DeleteMany(_ context.Context, filter interface{}) (int64, error) {
	if err := f.injected("DeleteMany"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	flt := normalize(filter)
	kept := f.docs[:0]
	var n int64
	for _, d := range f.docs {
		if matches(d, flt) {
			n++
			continue
		}
		kept = append(kept, d)
	}
	f.docs = kept
	return n, nil
}

func (f *FakeService[T]) CountDocuments(_ context.Context, filter interface{}) (int64, error) {
	if err := f.injected("CountDocuments"); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	flt := normalize(filter)
	var n int64
	for _, d := range f.docs {
		if matches(d, flt) {
			n++
		}
	}
	return n, nil
}

func (f *FakeService[T]) DocumentExists(ctx context.Context, filter interface{}) (bool, error) {
	n, err := f.CountDocuments(ctx, filter)
	return n > 0, err
}

func (f *FakeService[T]) Aggregate(_ context.Context, pipeline mongo.Pipeline) ([]bson.M, error) {
	if err := f.injected("Aggregate"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.Pipelines = append(f.Pipelines, pipeline)
	fn := f.AggregateFunc
	f.mu.Unlock()
	if fn == nil {
		return []bson.M{}, nil
	}
	return fn(pipeline)
}

func (f *FakeService[T]) AggregatePaginate(ctx context.Context, pipeline mongo.Pipeline, page, limit int64) (*basemodels.PaginateResult[bson.M], error) {
	return basesvc.PaginateAggregate(ctx, f.Aggregate, pipeline, page, limit)
}

// ===== bson helpers =====

// normalize đưa struct/map/bson.D về bson.M với kiểu giá trị như khi đọc từ Mongo
func normalize(v interface{}) bson.M {
	if v == nil {
		return bson.M{}
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		panic(err)
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

func decode[T any](doc bson.M) T {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

func sameKeys(a, b bson.M, keys []string) bool {
	for _, k := range keys {
		av, aok := getPath(a, k)
		bv, bok := getPath(b, k)
		if !aok || !bok || !valuesEqual(av, bv) {
			return false
		}
	}
	return true
}

func getPath(doc bson.M, path string) (interface{}, bool) {
	var cur interface{} = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(bson.M)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func setPath(doc bson.M, path string, value interface{}) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(bson.M)
		if !ok {
			next = bson.M{}
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func unsetPath(doc bson.M, path string) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(bson.M)
		if !ok {
			return
		}
		cur = next
	}
	delete(cur, parts[len(parts)-1])
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func valuesEqual(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

// contains so khớp kiểu Mongo: field mảng khớp nếu có phần tử bằng value
func fieldMatches(docVal interface{}, present bool, want interface{}) bool {
	if want == nil {
		return !present || docVal == nil
	}
	if !present {
		return false
	}
	if arr, ok := docVal.(primitive.A); ok {
		if _, wantArr := want.(primitive.A); !wantArr {
			for _, el := range arr {
				if valuesEqual(el, want) {
					return true
				}
			}
			return false
		}
	}
	return valuesEqual(docVal, want)
}

func matches(doc bson.M, filter bson.M) bool {
	for key, want := range filter {
		if key == "$or" {
			alts, _ := want.(primitive.A)
			matched := false
			for _, alt := range alts {
				if m, ok := alt.(bson.M); ok && matches(doc, m) {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
			continue
		}

		docVal, present := getPath(doc, key)
		if ops, ok := want.(bson.M); ok && isOperatorDoc(ops) {
			if !operatorsMatch(docVal, present, ops) {
				return false
			}
			continue
		}
		if !fieldMatches(docVal, present, want) {
			return false
		}
	}
	return true
}

func isOperatorDoc(m bson.M) bool {
	for k := range m {
		if strings.HasPrefix(k, "$") {
			return true
		}
	}
	return false
}

func operatorsMatch(docVal interface{}, present bool, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$in":
			list, _ := arg.(primitive.A)
			found := false
			for _, candidate := range list {
				if fieldMatches(docVal, present, candidate) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case "$ne":
			if fieldMatches(docVal, present, arg) {
				return false
			}
		case "$exists":
			want, _ := arg.(bool)
			if present != want {
				return false
			}
		default:
			panic("basesvctest: unsupported operator " + op)
		}
	}
	return true
}

func applyUpdate(doc bson.M, update bson.M) {
	now := time.Now().UnixMilli()
	if set, ok := update["$set"].(bson.M); ok {
		for k, v := range set {
			setPath(doc, k, v)
		}
	}
	if unset, ok := update["$unset"].(bson.M); ok {
		for k := range unset {
			unsetPath(doc, k)
		}
	}
	if inc, ok := update["$inc"].(bson.M); ok {
		for k, v := range inc {
			cur, _ := getPath(doc, k)
			cf, _ := toFloat(cur)
			df, _ := toFloat(v)
			_, curFloat := cur.(float64)
			_, incFloat := v.(float64)
			if curFloat || incFloat {
				setPath(doc, k, cf+df)
			} else {
				setPath(doc, k, int64(cf+df))
			}
		}
	}
	if push, ok := update["$push"].(bson.M); ok {
		for k, v := range push {
			arr, _ := getPath(doc, k)
			list, _ := arr.(primitive.A)
			setPath(doc, k, append(list, eachValues(v)...))
		}
	}
	if add, ok := update["$addToSet"].(bson.M); ok {
		for k, v := range add {
			arr, _ := getPath(doc, k)
			list, _ := arr.(primitive.A)
			for _, item := range eachValues(v) {
				exists := false
				for _, el := range list {
					if valuesEqual(el, item) {
						exists = true
						break
					}
				}
				if !exists {
					list = append(list, item)
				}
			}
			setPath(doc, k, list)
		}
	}
	if pull, ok := update["$pull"].(bson.M); ok {
		for k, v := range pull {
			arr, _ := getPath(doc, k)
			list, _ := arr.(primitive.A)
			remove := primitive.A{v}
			if m, ok := v.(bson.M); ok {
				if in, ok := m["$in"].(primitive.A); ok {
					remove = in
				}
			}
			kept := primitive.A{}
			for _, el := range list {
				drop := false
				for _, r := range remove {
					if valuesEqual(el, r) {
						drop = true
						break
					}
				}
				if !drop {
					kept = append(kept, el)
				}
			}
			setPath(doc, k, kept)
		}
	}
	doc["updatedAt"] = now
}

func eachValues(v interface{}) primitive.A {
	if m, ok := v.(bson.M); ok {
		if each, ok := m["$each"].(primitive.A); ok {
			return each
		}
	}
	return primitive.A{v}
}

// TxRunner chạy fn trực tiếp và đếm số lần được gọi
type TxRunner struct {
	mu    sync.Mutex
	Calls int
	// Supported giả lập server có hỗ trợ transaction
	Supported bool
}

// SupportsTransactions trả về Supported
func (r *TxRunner) SupportsTransactions() bool {
	return r.Supported
}

// RunInTransaction gọi fn với ctx hiện tại
func (r *TxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	r.Calls++
	r.mu.Unlock()
	return fn(ctx)
}
