package model

import (
	"time"

	"github.com/salonevoice/salonevoice/pkg/domain/types"
)

// AdminAccount represents a privileged dashboard identity. ID is the
// identity-provider user ID; the lifecycle of the two is tied 1:1.
type AdminAccount struct {
	ID        string     `firestore:"id" json:"id"`
	Email     string     `firestore:"email" json:"email"`
	Role      types.Role `firestore:"role" json:"role"`
	CreatedAt time.Time  `firestore:"created_at" json:"created_at"`
}
