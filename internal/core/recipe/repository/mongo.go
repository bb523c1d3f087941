package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"recipe-planner/internal/infrastructure/config"
	"recipe-planner/internal/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	recipesCollection = "recipes"
	usersCollection   = "users"
)

// Store MongoDB 連線
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect 連線到 MongoDB 並確認可用
func Connect(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetServerAPIOptions(serverAPI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	common.LogInfo("Connected to MongoDB", zap.String("database", cfg.Database))

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// Recipes 回傳食譜 repository
func (s *Store) Recipes() *MongoRecipeRepository {
	return &MongoRecipeRepository{store: s, coll: s.db.Collection(recipesCollection)}
}

// Users 回傳使用者 repository
func (s *Store) Users() *MongoUserRepository {
	return &MongoUserRepository{coll: s.db.Collection(usersCollection)}
}

// Ping 檢查資料庫連線
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close 中斷連線
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// MongoRecipeRepository recipes 集合存取
type MongoRecipeRepository struct {
	store *Store
	coll  *mongo.Collection
}

// Search 不分大小寫搜尋名稱、食材、香料與菜系
func (r *MongoRecipeRepository) Search(ctx context.Context, query string, limit int) ([]common.Recipe, error) {
	opts := options.Find().SetLimit(int64(limitOr(limit, DefaultSearchLimit)))
	return r.find(ctx, searchFilter(query), opts)
}

// ListAll 依建立時間新到舊列出
func (r *MongoRecipeRepository) ListAll(ctx context.Context, limit int) ([]common.Recipe, error) {
	opts := options.Find().
		SetLimit(int64(limitOr(limit, DefaultListLimit))).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoRecipeRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]common.Recipe, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer cursor.Close(ctx)

	recipes := make([]common.Recipe, 0)
	for cursor.Next(ctx) {
		var doc recipeDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode recipe: %w", err)
		}
		recipes = append(recipes, doc.toRecipe())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}
	return recipes, nil
}

// GetByID 依 ID 取得食譜
func (r *MongoRecipeRepository) GetByID(ctx context.Context, id string) (*common.Recipe, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var doc recipeDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	recipe := doc.toRecipe()
	return &recipe, nil
}

// Create 新增食譜並回傳儲存後的內容
func (r *MongoRecipeRepository) Create(ctx context.Context, in *common.RecipeInput) (*common.Recipe, error) {
	doc := newRecipeDocument(in, time.Now().UTC())

	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return r.GetByID(ctx, oid.Hex())
}

// Delete 刪除食譜
func (r *MongoRecipeRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrNotFound
	}
	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if result.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Import 批次匯入，clear 為 true 時先清空集合
func (r *MongoRecipeRepository) Import(ctx context.Context, inputs []common.RecipeInput, clear bool) (int, error) {
	if clear {
		if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
			return 0, fmt.Errorf("failed to clear recipes: %w", err)
		}
	}
	if len(inputs) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(inputs))
	for i := range inputs {
		docs = append(docs, newRecipeDocument(&inputs[i], now))
	}

	result, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to import recipes: %w", err)
	}
	return len(result.InsertedIDs), nil
}

// EnsureIndexes 建立查詢所需的索引
func (r *MongoRecipeRepository) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "cuisine", Value: 1}}},
		{Keys: bson.D{{Key: "difficulty", Value: 1}}},
		{Keys: bson.D{
			{Key: "name", Value: "text"},
			{Key: "mainIngredients.name", Value: "text"},
			{Key: "spices", Value: "text"},
		}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Ping 檢查資料庫連線
func (r *MongoRecipeRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

// MongoUserRepository users 集合存取
type MongoUserRepository struct {
	coll *mongo.Collection
}

// FindByGoogleID 依 Google ID 查詢使用者
func (r *MongoUserRepository) FindByGoogleID(ctx context.Context, googleID string) (*common.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"googleId": googleID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound.WithMessage("user not found")
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return doc.toUser(), nil
}

// Create 新增使用者
func (r *MongoUserRepository) Create(ctx context.Context, user *common.User) (*common.User, error) {
	doc := userDocument{
		GoogleID:  user.GoogleID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		CreatedAt: time.Now().UTC(),
	}
	result, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toUser(), nil
}
