package database

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidtube/internal/logger"
)

// TextIndexName là tên text index gộp của một collection (Mongo chỉ cho phép một text index)
const TextIndexName = "text_search"

// IndexSpec mô tả một index sinh ra từ struct tag `index`
type IndexSpec struct {
	Name    string
	Keys    bson.D
	Options *options.IndexOptions
}

// parseOrder trả về -1 nếu cấu hình có order:-1 (hoặc single:-1), ngược lại 1
func parseOrder(entry map[string]string) int {
	if entry["order"] == "-1" || entry["single"] == "-1" {
		return -1
	}
	return 1
}

// parseIndexTag phân tách tag index.
// Cú pháp: các cấu hình cách nhau bởi ";", mỗi cấu hình gồm các cặp key[:value] cách nhau bởi ",".
// Ví dụ: `index:"single:1;compound:subscriber_channel_unique"`
func parseIndexTag(tag string) []map[string]string {
	result := []map[string]string{}
	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		entry := map[string]string{}
		for _, subPart := range strings.Split(part, ",") {
			kv := strings.SplitN(strings.TrimSpace(subPart), ":", 2)
			if len(kv) == 2 {
				entry[kv[0]] = kv[1]
			} else {
				entry[kv[0]] = ""
			}
		}
		result = append(result, entry)
	}
	return result
}

// BuildIndexSpecs đọc struct tag `index` của model và trả về danh sách index cần có.
// Các field text được gộp vào một index duy nhất tên TextIndexName.
func BuildIndexSpecs(model interface{}) ([]IndexSpec, error) {
	modelType := reflect.TypeOf(model)
	if modelType.Kind() == reflect.Ptr {
		modelType = modelType.Elem()
	}

	var specs []IndexSpec
	var textKeys bson.D
	compoundGroups := map[string]bson.D{}
	compoundSparse := map[string]bool{}
	var groupOrder []string

	for i := 0; i < modelType.NumField(); i++ {
		field := modelType.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := strings.SplitN(field.Tag.Get("bson"), ",", 2)[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		for _, entry := range parseIndexTag(tag) {
			if _, ok := entry["text"]; ok {
				textKeys = append(textKeys, bson.E{Key: bsonField, Value: "text"})
			}

			if _, ok := entry["single"]; ok {
				name := bsonField + "_single"
				specs = append(specs, IndexSpec{
					Name:    name,
					Keys:    bson.D{{Key: bsonField, Value: parseOrder(entry)}},
					Options: options.Index().SetName(name),
				})
			}

			if _, ok := entry["unique"]; ok {
				name := bsonField + "_unique"
				opts := options.Index().SetName(name).SetUnique(true)
				if _, hasSparse := entry["sparse"]; hasSparse {
					opts = opts.SetSparse(true)
				}
				specs = append(specs, IndexSpec{
					Name:    name,
					Keys:    bson.D{{Key: bsonField, Value: 1}},
					Options: opts,
				})
			}

			if ttlValue, ok := entry["ttl"]; ok {
				ttl, err := strconv.Atoi(ttlValue)
				if err != nil {
					return nil, fmt.Errorf("invalid ttl on field %s: %w", bsonField, err)
				}
				name := bsonField + "_ttl"
				specs = append(specs, IndexSpec{
					Name:    name,
					Keys:    bson.D{{Key: bsonField, Value: 1}},
					Options: options.Index().SetName(name).SetExpireAfterSeconds(int32(ttl)),
				})
			}

			if groupName, ok := entry["compound"]; ok {
				if _, seen := compoundGroups[groupName]; !seen {
					groupOrder = append(groupOrder, groupName)
				}
				compoundGroups[groupName] = append(compoundGroups[groupName], bson.E{Key: bsonField, Value: parseOrder(entry)})
				if _, hasSparse := entry["sparse"]; hasSparse {
					compoundSparse[groupName] = true
				}
			}
		}
	}

	if len(textKeys) > 0 {
		specs = append(specs, IndexSpec{
			Name:    TextIndexName,
			Keys:    textKeys,
			Options: options.Index().SetName(TextIndexName),
		})
	}

	// Group có "_unique" trong tên => unique
	for _, groupName := range groupOrder {
		opts := options.Index().SetName(groupName)
		if strings.Contains(groupName, "_unique") {
			opts = opts.SetUnique(true)
		}
		if compoundSparse[groupName] {
			opts = opts.SetSparse(true)
		}
		specs = append(specs, IndexSpec{Name: groupName, Keys: compoundGroups[groupName], Options: opts})
	}

	return specs, nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// compareIndex trả về true nếu index hiện có khớp cấu hình mới
func compareIndex(existingIndex bson.M, spec IndexSpec) bool {
	if spec.Name == TextIndexName {
		// Text index lưu field trong "weights", còn "key" là {_fts, _ftsx}
		weights, ok := existingIndex["weights"].(bson.M)
		if !ok || len(weights) != len(spec.Keys) {
			return false
		}
		for _, key := range spec.Keys {
			if _, exists := weights[key.Key]; !exists {
				return false
			}
		}
		return true
	}

	existingKeys, ok := existingIndex["key"].(bson.M)
	if !ok || len(existingKeys) != len(spec.Keys) {
		return false
	}
	for _, key := range spec.Keys {
		existingValue, exists := existingKeys[key.Key]
		if !exists {
			return false
		}
		want, _ := toInt(key.Value)
		got, isNum := toInt(existingValue)
		if !isNum || got != want {
			return false
		}
	}

	unique, _ := existingIndex["unique"].(bool)
	wantUnique := spec.Options.Unique != nil && *spec.Options.Unique
	if unique != wantUnique {
		return false
	}

	if spec.Options.ExpireAfterSeconds != nil {
		ttl, isNum := toInt(existingIndex["expireAfterSeconds"])
		if !isNum || int32(ttl) != *spec.Options.ExpireAfterSeconds {
			return false
		}
	}
	return true
}

// checkAndReplaceIndex tạo index, hoặc xóa rồi tạo lại nếu cấu hình đã đổi
func checkAndReplaceIndex(ctx context.Context, collection *mongo.Collection, existingIndexes map[string]bson.M, spec IndexSpec) error {
	log := logger.WithCollection(collection.Name()).WithField("index", spec.Name)

	if existingIndex, exists := existingIndexes[spec.Name]; exists {
		if compareIndex(existingIndex, spec) {
			log.Debug("Index already up to date")
			return nil
		}
		if _, err := collection.Indexes().DropOne(ctx, spec.Name); err != nil {
			return fmt.Errorf("drop index %s: %w", spec.Name, err)
		}
		log.Info("Dropped outdated index")
	}

	if _, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: spec.Keys, Options: spec.Options}); err != nil {
		return fmt.Errorf("create index %s: %w", spec.Name, err)
	}
	log.Info("Created index")
	return nil
}

// CreateIndexes đồng bộ index của collection theo struct tag `index` của model.
// Index unique dạng {field}_unique không còn khai báo trong model sẽ bị xóa.
func CreateIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	specs, err := BuildIndexSpecs(model)
	if err != nil {
		return err
	}

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		return fmt.Errorf("list indexes of %s: %w", collection.Name(), err)
	}
	defer cursor.Close(ctx)

	existingIndexes := map[string]bson.M{}
	for cursor.Next(ctx) {
		var indexInfo bson.M
		if err := cursor.Decode(&indexInfo); err != nil {
			return fmt.Errorf("decode index info: %w", err)
		}
		if name, ok := indexInfo["name"].(string); ok {
			existingIndexes[name] = indexInfo
		}
	}

	declared := map[string]bool{}
	for _, spec := range specs {
		declared[spec.Name] = true
		if err := checkAndReplaceIndex(ctx, collection, existingIndexes, spec); err != nil {
			return err
		}
	}

	stale := staleUniqueIndexes(existingIndexes, declared)
	for _, name := range stale {
		if _, err := collection.Indexes().DropOne(ctx, name); err != nil {
			logger.WithCollection(collection.Name()).WithError(err).Warnf("Cannot drop stale unique index %s", name)
			continue
		}
		logger.WithCollection(collection.Name()).Infof("Dropped stale unique index %s", name)
	}
	return nil
}

// staleUniqueIndexes trả về các index {field}_unique đang tồn tại nhưng không còn khai báo
func staleUniqueIndexes(existing map[string]bson.M, declared map[string]bool) []string {
	var stale []string
	for name, info := range existing {
		if !strings.HasSuffix(name, "_unique") || declared[name] {
			continue
		}
		if unique, ok := info["unique"].(bool); ok && unique {
			stale = append(stale, name)
		}
	}
	sort.Strings(stale)
	return stale
}
