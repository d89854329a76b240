package auth

import (
	"net/http"

	"nightloom_server/lib"

	"github.com/MonkyMars/gecho"
)

type createSessionRequest struct {
	Token string `json:"token"`
}

// CreateSession handles POST /auth/session. It validates the issued access
// token and sets it as the HttpOnly access cookie the auth middleware reads.
func (arm *AuthRoutesManager) CreateSession(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[createSessionRequest](r)
	if err != nil || body.Token == "" {
		gecho.BadRequest(w,
			gecho.WithMessage("error.auth.invalidBody"),
			gecho.Send(),
		)
		return
	}

	claims, err := lib.ParseToken(body.Token, arm.config.Auth.AccessTokenSecret)
	if err != nil {
		arm.logger.Warn("Rejected session token", gecho.Field("error", err))
		gecho.Unauthorized(w,
			gecho.WithMessage("error.auth.invalidToken"),
			gecho.Send(),
		)
		return
	}

	lib.SetCookie(lib.AccessCookieName, body.Token, claims.Exp, w)

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"user_id": claims.Sub,
			"email":   claims.Email,
		}),
		gecho.Send(),
	)
}

// DeleteSession handles DELETE /auth/session and clears the access cookie.
func (arm *AuthRoutesManager) DeleteSession(w http.ResponseWriter, r *http.Request) {
	lib.ClearCookie(lib.AccessCookieName, w)

	gecho.Success(w,
		gecho.WithMessage("Signed out"),
		gecho.Send(),
	)
}
