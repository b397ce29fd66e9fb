package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"myflix-api/internal/domain"
	"myflix-api/internal/repository"
)

type MovieRepository struct {
	store      *Store
	collection *mongo.Collection
}

func NewMovieRepository(store *Store) repository.MovieRepository {
	return &MovieRepository{
		store:      store,
		collection: store.Collection(moviesCollection),
	}
}

// Init indexes the lookup keys. None of them is unique: titles, genres and
// directors may repeat and lookups return the first match.
func (r *MovieRepository) Init(ctx context.Context) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "Title", Value: 1}}},
		{Keys: bson.D{{Key: "Genre.Name", Value: 1}}},
		{Keys: bson.D{{Key: "Director.Name", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("create movies indexes: %w", err)
	}
	return nil
}

func (r *MovieRepository) List(ctx context.Context) ([]domain.Movie, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, domain.NewStoreError("find movies", err)
	}
	defer cursor.Close(ctx)

	var docs []movieDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, domain.NewStoreError("decode movies", err)
	}

	movies := make([]domain.Movie, len(docs))
	for i := range docs {
		movies[i] = docs[i].toDomain()
	}
	return movies, nil
}

func (r *MovieRepository) GetByTitle(ctx context.Context, title string) (*domain.Movie, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	var doc movieDocument
	if err := r.collection.FindOne(ctx, bson.M{"Title": title}).Decode(&doc); err != nil {
		return nil, mapFindError("find movie", err)
	}
	movie := doc.toDomain()
	return &movie, nil
}

func (r *MovieRepository) FindGenre(ctx context.Context, name string) (*domain.Genre, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	var doc struct {
		Genre genreDocument `bson:"Genre"`
	}
	opts := options.FindOne().SetProjection(bson.M{"Genre": 1})
	if err := r.collection.FindOne(ctx, bson.M{"Genre.Name": name}, opts).Decode(&doc); err != nil {
		return nil, mapFindError("find genre", err)
	}
	genre := domain.Genre(doc.Genre)
	return &genre, nil
}

func (r *MovieRepository) FindDirector(ctx context.Context, name string) (*domain.Director, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	var doc struct {
		Director directorDocument `bson:"Director"`
	}
	opts := options.FindOne().SetProjection(bson.M{"Director": 1})
	if err := r.collection.FindOne(ctx, bson.M{"Director.Name": name}, opts).Decode(&doc); err != nil {
		return nil, mapFindError("find director", err)
	}
	director := domain.Director(doc.Director)
	return &director, nil
}

func (r *MovieRepository) Save(ctx context.Context, movie *domain.Movie) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	doc := newMovieDocument(movie)
	set := bson.M{
		"Title":       doc.Title,
		"Description": doc.Description,
		"Genre":       doc.Genre,
		"Director":    doc.Director,
		"ImagePath":   doc.ImagePath,
		"Featured":    doc.Featured,
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"Title": movie.Title},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return domain.NewStoreError("save movie", err)
	}
	if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
		movie.ID = id.Hex()
	}
	return nil
}
