package mongo

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/clubcore/members-system/internal/core/domain"
)

const (
	sessionCollection = "sessions"
	tokenBytes        = 32
)

// MongoSessionStore persists sessions with the payload encrypted at rest.
// Only the token and the expiry timestamp are stored in the clear: the token
// is the lookup key and expires_at feeds the TTL index.
type MongoSessionStore struct {
	coll   *mongo.Collection
	sealer *payloadSealer
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionStore(db *mongo.Database, encSecret string, ttl time.Duration) (*MongoSessionStore, error) {
	sealer, err := newPayloadSealer(encSecret)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &MongoSessionStore{
		coll:   db.Collection(sessionCollection),
		sealer: sealer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

type mongoSession struct {
	Token     string    `bson:"_id"`
	Payload   []byte    `bson:"payload"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// sessionPayload is the encrypted-at-rest portion of a session.
type sessionPayload struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	Role          string `json:"role"`
}

func (s *MongoSessionStore) Create(ctx context.Context, session domain.Session) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}

	plaintext, err := json.Marshal(sessionPayload{
		Authenticated: session.Authenticated,
		Username:      session.Username,
		Role:          session.Role,
	})
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	sealed, err := s.sealer.seal(plaintext)
	if err != nil {
		return "", fmt.Errorf("seal session: %w", err)
	}

	doc := mongoSession{
		Token:     token,
		Payload:   sealed,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return token, nil
}

// Load returns nil when the token is unknown, expired, or the payload does
// not decrypt (a tampered record reads as absent, never as an error the
// client could probe).
func (s *MongoSessionStore) Load(ctx context.Context, token string) (*domain.Session, error) {
	var doc mongoSession
	if err := s.coll.FindOne(ctx, bson.M{"_id": token}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	// The TTL monitor sweeps roughly once a minute; enforce the boundary
	// on the read path as well.
	if !doc.ExpiresAt.After(s.now().UTC()) {
		return nil, nil
	}

	plaintext, err := s.sealer.open(doc.Payload)
	if err != nil {
		return nil, nil
	}

	var payload sessionPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return nil, nil
	}

	return &domain.Session{
		Token:         doc.Token,
		Authenticated: payload.Authenticated,
		Username:      payload.Username,
		Role:          payload.Role,
		ExpiresAt:     doc.ExpiresAt,
	}, nil
}

// Touch resets the TTL countdown. A missing token is not an error: the
// session may have expired between Load and Touch.
func (s *MongoSessionStore) Touch(ctx context.Context, token string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": token},
		bson.M{"$set": bson.M{"expires_at": s.now().UTC().Add(s.ttl)}},
	)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

// Destroy removes the session. Idempotent: deleting an absent token succeeds.
func (s *MongoSessionStore) Destroy(ctx context.Context, token string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": token}); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	return nil
}

// newToken returns a 256-bit cryptographically random token, base64url
// encoded so it is cookie-safe.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
