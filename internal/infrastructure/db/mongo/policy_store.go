package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursehub/account-service/internal/core/domain"
)

const roleCollection = "roles"

// PolicyStore keeps one document per role listing the policies it grants.
type PolicyStore struct {
	coll *mongo.Collection
}

func NewPolicyStore(db *mongo.Database) *PolicyStore {
	return &PolicyStore{coll: db.Collection(roleCollection)}
}

type roleDoc struct {
	Name     string   `bson:"_id"`
	Policies []string `bson:"policies"`
}

// PoliciesOf returns an empty list for a role that is not defined.
func (s *PolicyStore) PoliciesOf(ctx context.Context, role string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc roleDoc
	if err := s.coll.FindOne(ctx, bson.M{"_id": role}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find role %s: %w", role, err)
	}
	return doc.Policies, nil
}

// SeedRoles upserts every role definition, replacing its policy list.
func (s *PolicyStore) SeedRoles(ctx context.Context, roles []domain.Role) error {
	if len(roles) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(roles))
	for _, r := range roles {
		policies := r.Policies
		if policies == nil {
			policies = []string{}
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": r.Name}).
			SetUpdate(bson.M{"$set": bson.M{"policies": policies}}).
			SetUpsert(true))
	}

	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false)); err != nil {
		return fmt.Errorf("seed roles: %w", err)
	}
	return nil
}
