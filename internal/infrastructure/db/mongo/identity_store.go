package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/coursehub/account-service/internal/core/domain"
	"github.com/coursehub/account-service/internal/core/ports"
	"github.com/coursehub/account-service/internal/infrastructure/security"
)

const identityCollection = "identities"

// IdentityStore keeps accounts in MongoDB. Email and username are stored
// alongside a normalized copy carrying a unique index.
type IdentityStore struct {
	coll   *mongo.Collection
	hasher ports.PasswordHasher
}

func NewIdentityStore(db *mongo.Database, hasher ports.PasswordHasher) *IdentityStore {
	return &IdentityStore{coll: db.Collection(identityCollection), hasher: hasher}
}

type identityDoc struct {
	ID                 string   `bson:"_id"`
	Email              string   `bson:"email"`
	NormalizedEmail    string   `bson:"normalized_email"`
	Username           string   `bson:"username"`
	NormalizedUsername string   `bson:"normalized_username"`
	FullName           string   `bson:"full_name"`
	Occupation         string   `bson:"occupation,omitempty"`
	PasswordHash       string   `bson:"password_hash"`
	Roles              []string `bson:"roles"`
	CreatedAt          int64    `bson:"created_at"`
	UpdatedAt          int64    `bson:"updated_at"`
}

// EnsureIndexes creates the unique indexes backing case-insensitive uniqueness.
func (s *IdentityStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "normalized_email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "normalized_username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := s.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("ensure identity indexes: %w", err)
	}
	return nil
}

func (s *IdentityStore) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return s.findOne(ctx, bson.M{"normalized_email": domain.NormalizeKey(email)})
}

// FindByEmailOrUsername looks the email up first so an email match is
// reported even when another account holds the username.
func (s *IdentityStore) FindByEmailOrUsername(ctx context.Context, email, username string) (*domain.Identity, error) {
	identity, err := s.FindByEmail(ctx, email)
	if !errors.Is(err, domain.ErrUserNotFound) {
		return identity, err
	}
	return s.findOne(ctx, bson.M{"normalized_username": domain.NormalizeKey(username)})
}

// Create writes the account in a single insert. A unique index violation is
// reported as domain.ErrUserExists.
func (s *IdentityStore) Create(ctx context.Context, identity *domain.Identity, rawPassword string) error {
	hash, err := security.HashAccepted(s.hasher, rawPassword)
	if err != nil {
		return err
	}

	doc := identityDoc{
		ID:                 identity.ID,
		Email:              identity.Email,
		NormalizedEmail:    domain.NormalizeKey(identity.Email),
		Username:           identity.Username,
		NormalizedUsername: domain.NormalizeKey(identity.Username),
		FullName:           identity.FullName,
		Occupation:         identity.Occupation,
		PasswordHash:       hash,
		Roles:              identity.Roles,
		CreatedAt:          identity.CreatedAt.Unix(),
		UpdatedAt:          identity.UpdatedAt.Unix(),
	}
	if doc.Roles == nil {
		doc.Roles = []string{}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("insert identity: %w", err)
	}

	identity.PasswordHash = hash
	return nil
}

func (s *IdentityStore) VerifyPassword(_ context.Context, identity *domain.Identity, rawPassword string) (bool, error) {
	if identity.PasswordHash == "" {
		return false, nil
	}
	return s.hasher.Verify(identity.PasswordHash, rawPassword), nil
}

// RolesOf re-reads the assignment so that role changes made after the
// identity was loaded are honoured.
func (s *IdentityStore) RolesOf(ctx context.Context, identity *domain.Identity) ([]domain.Role, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc struct {
		Roles []string `bson:"roles"`
	}
	opts := options.FindOne().SetProjection(bson.M{"roles": 1})
	if err := s.coll.FindOne(ctx, bson.M{"_id": identity.ID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find roles: %w", err)
	}

	roles := make([]domain.Role, 0, len(doc.Roles))
	for _, name := range doc.Roles {
		roles = append(roles, domain.Role{Name: name})
	}
	return roles, nil
}

// AssignRoles replaces the roles of the identity with the given id.
func (s *IdentityStore) AssignRoles(ctx context.Context, id string, roles ...string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if roles == nil {
		roles = []string{}
	}
	res, err := s.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"roles":      roles,
		"updated_at": time.Now().Unix(),
	}})
	if err != nil {
		return fmt.Errorf("assign roles: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *IdentityStore) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	if err := s.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return doc.toDomain(), nil
}

func (d identityDoc) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           d.ID,
		Email:        d.Email,
		Username:     d.Username,
		FullName:     d.FullName,
		Occupation:   d.Occupation,
		PasswordHash: d.PasswordHash,
		Roles:        d.Roles,
		CreatedAt:    unixToTime(d.CreatedAt),
		UpdatedAt:    unixToTime(d.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
