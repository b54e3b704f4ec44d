package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"vidtube/internal/logger"
	"vidtube/internal/registry"
)

// Store gom client, database và registry các collection.
// Được tạo một lần khi khởi động rồi truyền vào các service.
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database

	collections *registry.Registry[*mongo.Collection]
	supportsTx  bool
}

// NewStore đăng ký các collection đã biết và dò xem server có hỗ trợ transaction không
// (replica set hoặc mongos).
func NewStore(ctx context.Context, client *mongo.Client, dbName string) (*Store, error) {
	s := &Store{
		Client:      client,
		DB:          client.Database(dbName),
		collections: registry.NewRegistry[*mongo.Collection](),
	}
	for _, name := range AllCollections {
		if _, err := s.collections.Register(name, s.DB.Collection(name)); err != nil {
			return nil, fmt.Errorf("register collection %s: %w", name, err)
		}
	}

	supports, err := detectTransactionSupport(ctx, client)
	if err != nil {
		logger.WithError(err).Warn("Cannot detect transaction support, falling back to sequential writes")
	}
	s.supportsTx = supports

	logger.WithFields(map[string]interface{}{
		"database":     dbName,
		"transactions": supports,
		"collections":  s.collections.Names(),
	}).Info("Store initialized")
	return s, nil
}

func detectTransactionSupport(ctx context.Context, client *mongo.Client) (bool, error) {
	var hello bson.M
	err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&hello)
	if err != nil {
		// Server cũ chưa có lệnh hello
		if legacyErr := client.Database("admin").RunCommand(ctx, bson.D{{Key: "isMaster", Value: 1}}).Decode(&hello); legacyErr != nil {
			return false, legacyErr
		}
	}
	return supportsTransactions(hello), nil
}

// supportsTransactions: replica set có setName, mongos trả msg = "isdbgrid"
func supportsTransactions(hello bson.M) bool {
	if setName, ok := hello["setName"].(string); ok && setName != "" {
		return true
	}
	msg, _ := hello["msg"].(string)
	return msg == "isdbgrid"
}

// Collection trả về collection theo tên, tạo handle mới nếu chưa đăng ký
func (s *Store) Collection(name string) *mongo.Collection {
	col, err := s.collections.GetOrCreate(name, func() (*mongo.Collection, error) {
		return s.DB.Collection(name), nil
	})
	if err != nil {
		return s.DB.Collection(name)
	}
	return col
}

// SupportsTransactions cho biết server có hỗ trợ multi-document transaction
func (s *Store) SupportsTransactions() bool {
	return s.supportsTx
}

// RunInTransaction chạy fn trong một transaction khi server hỗ trợ.
// Server standalone: fn chạy trực tiếp, các bước ghi không còn nguyên tử.
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.supportsTx {
		return fn(ctx)
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Ping kiểm tra kết nối database (dùng cho healthcheck)
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.Client.Ping(ctx, nil)
}

// EnsureCollections tạo trước các collection còn thiếu.
// Transaction trên MongoDB < 4.4 không tạo được collection mới nên phải tạo từ khi khởi động.
func (s *Store) EnsureCollections(ctx context.Context) error {
	existing, err := s.DB.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}
	have := make(map[string]bool, len(existing))
	for _, name := range existing {
		have[name] = true
	}

	for _, name := range s.collections.Names() {
		if have[name] {
			continue
		}
		logger.WithCollection(name).Info("Collection does not exist, creating")
		if err := s.DB.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", name, err)
		}
	}
	return nil
}
