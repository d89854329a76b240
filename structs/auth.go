package structs

import (
	"time"

	"github.com/google/uuid"
)

// AuthClaims are the validated claims of an access token issued by the
// external identity service.
type AuthClaims struct {
	Sub   uuid.UUID `json:"sub"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
	Iat   time.Time `json:"iat"`
	Exp   time.Time `json:"exp"`
	Jti   uuid.UUID `json:"jti"`
}
