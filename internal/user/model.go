package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is the single persisted entity: one document per account.
// The bson field for the hash is "password" to stay compatible with
// documents written by earlier versions of the service.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"` // Never expose password hash in JSON
	CreatedAt    time.Time          `bson:"created_at,omitempty" json:"created_at"`
}
