package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

type UserRepository struct {
	store      *Store
	collection *mongo.Collection
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &UserRepository{
		store:      store,
		collection: store.Collection(usersCollection),
	}
}

// Init creates the unique Username index that makes registration an atomic
// insert-if-absent.
func (r *UserRepository) Init(ctx context.Context) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "Username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("username_unique"),
	})
	if err != nil {
		return fmt.Errorf("create users index: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	doc := newUserDocument(user)
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateUsername
		}
		return domain.NewStoreError("insert user", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id.Hex()
	}
	user.FavoriteMovies = doc.FavoriteMovies
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"Username": username}).Decode(&doc)
	if err != nil {
		return nil, mapFindError("find user", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Update(ctx context.Context, username string, update domain.UserUpdate) (*domain.User, error) {
	set := bson.M{
		"Username": update.Username,
		"Password": update.PasswordHash,
		"Email":    update.Email,
		"Birthday": birthdayValue(update.Birthday),
	}
	return r.findOneAndUpdate(ctx, "update user", username, bson.M{"$set": set})
}

func (r *UserRepository) AddFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, "add favorite", username, bson.M{
		"$push": bson.M{"FavoriteMovies": movieID},
	})
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, username, movieID string) (*domain.User, error) {
	return r.findOneAndUpdate(ctx, "remove favorite", username, bson.M{
		"$pull": bson.M{"FavoriteMovies": movieID},
	})
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, op, username string, update bson.M) (*domain.User, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"Username": username}, update, opts).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateUsername
		}
		return nil, mapFindError(op, err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) Delete(ctx context.Context, username string) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"Username": username})
	if err != nil {
		return domain.NewStoreError("delete user", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func mapFindError(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return domain.NewStoreError(op, err)
}
