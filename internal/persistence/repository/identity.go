package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quizdash/quizdash/internal/domain"
	"github.com/quizdash/quizdash/internal/persistence/db"
)

// userDocument is the stored shape of a user: the identity fields plus the
// running statistics columns.
type userDocument struct {
	ID          string `bson:"_id"`
	Username    string `bson:"username"`
	DisplayName string `bson:"displayName"`
	Color       string `bson:"color"`
	GamesPlayed int    `bson:"gamesPlayed"`
	GamesWon    int    `bson:"gamesWon"`
	TotalScore  int    `bson:"totalScore"`
}

type identityRepository struct {
	db *mongo.Database
}

func NewIdentityRepository(database *mongo.Database) domain.IdentityStore {
	return &identityRepository{
		db: database,
	}
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	collection := r.db.Collection(db.UsersCollection)

	var doc userDocument
	err := collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, err
	}

	color := doc.Color
	if color == "" {
		color = domain.DefaultColor
	}

	return &domain.Identity{
		ID:          doc.ID,
		Username:    doc.Username,
		DisplayName: doc.DisplayName,
		Color:       color,
	}, nil
}
