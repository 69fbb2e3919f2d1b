package http

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/runecoins/coinstore/internal/core/domain"
	"github.com/runecoins/coinstore/internal/core/port"
)

const (
	sessionCookieName       = "session"
	authorizationHeaderKey  = "Authorization"
	authorizationType       = "bearer"
	authorizationPayloadKey = "authorization_payload"
)

// authCheck resolves the session token from the cookie, falling back to
// a bearer Authorization header, and stores the verified payload in the
// request context.
func authCheck(h *Handler, tokenService port.TokenService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(sessionCookieName)
		if err != nil || token == "" {
			token = bearerToken(ctx.GetHeader(authorizationHeaderKey))
		}
		if token == "" {
			h.handleAbort(ctx, domain.ErrEmptySession)
			return
		}

		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			h.handleAbort(ctx, err)
			return
		}

		ctx.Set(authorizationPayloadKey, payload)
		ctx.Next()
	}
}

// adminCheck must run after authCheck.
func adminCheck(h *Handler) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		payload := getAuthPayload(ctx)
		if payload == nil || payload.Role != domain.RoleAdmin {
			h.handleAbort(ctx, domain.ErrForbidden)
			return
		}
		ctx.Next()
	}
}

func bearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) != 2 || strings.ToLower(fields[0]) != authorizationType {
		return ""
	}
	return fields[1]
}

func getAuthPayload(ctx *gin.Context) *port.TokenPayload {
	value, ok := ctx.Get(authorizationPayloadKey)
	if !ok {
		return nil
	}
	payload, ok := value.(*port.TokenPayload)
	if !ok {
		return nil
	}
	return payload
}
