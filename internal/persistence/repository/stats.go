package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/quizdash/quizdash/internal/domain"
	"github.com/quizdash/quizdash/internal/persistence/db"
)

type statsRepository struct {
	db *mongo.Database
}

func NewStatsRepository(database *mongo.Database) domain.StatsRepository {
	return &statsRepository{
		db: database,
	}
}

// ApplyResult folds one game outcome into the player's running totals.
func (r *statsRepository) ApplyResult(ctx context.Context, result domain.PlayerResult) error {
	collection := r.db.Collection(db.UsersCollection)

	inc := bson.M{
		"gamesPlayed": 1,
		"totalScore":  result.Score,
	}
	if result.Won {
		inc["gamesWon"] = 1
	}

	res, err := collection.UpdateOne(ctx,
		bson.M{"_id": result.IdentityID},
		bson.M{"$inc": inc},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}
