package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"myflix-api/internal/domain"
)

// Field names match the documents written by the original mongoose models so
// an existing myFlixDB can be served unchanged.

type userDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"Username"`
	Password       string             `bson:"Password"`
	Email          string             `bson:"Email"`
	Birthday       *time.Time         `bson:"Birthday,omitempty"`
	FavoriteMovies []string           `bson:"FavoriteMovies"`
}

type movieDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"Title"`
	Description string             `bson:"Description"`
	Genre       genreDocument      `bson:"Genre"`
	Director    directorDocument   `bson:"Director"`
	ImagePath   string             `bson:"ImagePath,omitempty"`
	Featured    bool               `bson:"Featured"`
}

type genreDocument struct {
	Name        string `bson:"Name"`
	Description string `bson:"Description"`
}

type directorDocument struct {
	Name  string `bson:"Name"`
	Bio   string `bson:"Bio"`
	Birth int    `bson:"Birth,omitempty"`
	Death *int   `bson:"Death,omitempty"`
}

func newUserDocument(user *domain.User) userDocument {
	favorites := user.FavoriteMovies
	if favorites == nil {
		favorites = []string{}
	}
	return userDocument{
		Username:       user.Username,
		Password:       user.PasswordHash,
		Email:          user.Email,
		Birthday:       birthdayValue(user.Birthday),
		FavoriteMovies: favorites,
	}
}

func (d userDocument) toDomain() *domain.User {
	user := &domain.User{
		Username:       d.Username,
		PasswordHash:   d.Password,
		Email:          d.Email,
		FavoriteMovies: d.FavoriteMovies,
	}
	if !d.ID.IsZero() {
		user.ID = d.ID.Hex()
	}
	if d.Birthday != nil {
		user.Birthday = domain.NewDate(*d.Birthday)
	}
	if user.FavoriteMovies == nil {
		user.FavoriteMovies = []string{}
	}
	return user
}

func birthdayValue(d domain.Date) *time.Time {
	if d.IsZero() {
		return nil
	}
	t := d.Time
	return &t
}

func newMovieDocument(movie *domain.Movie) movieDocument {
	doc := movieDocument{
		Title:       movie.Title,
		Description: movie.Description,
		Genre:       genreDocument(movie.Genre),
		Director:    directorDocument(movie.Director),
		ImagePath:   movie.ImagePath,
		Featured:    movie.Featured,
	}
	if id, err := primitive.ObjectIDFromHex(movie.ID); err == nil {
		doc.ID = id
	}
	return doc
}

func (d movieDocument) toDomain() domain.Movie {
	movie := domain.Movie{
		Title:       d.Title,
		Description: d.Description,
		Genre:       domain.Genre(d.Genre),
		Director:    domain.Director(d.Director),
		ImagePath:   d.ImagePath,
		Featured:    d.Featured,
	}
	if !d.ID.IsZero() {
		movie.ID = d.ID.Hex()
	}
	return movie
}
