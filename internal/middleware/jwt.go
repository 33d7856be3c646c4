package middleware

import (
	"net/http"
	"time"

	"comercia/internal/common"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// AuthConfig builds the JWT middleware configuration. When a JWKS URL is
// configured the provider's keys are fetched and refreshed in the
// background; otherwise the shared HMAC secret is used. On success the
// token's subject claim is placed on the request context as the
// external-auth subject id.
func AuthConfig(jwtSecret, jwksURL string) (echojwt.Config, error) {
	cfg := echojwt.Config{
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
		SuccessHandler: func(c echo.Context) {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return
			}
			sub, ok := claims["sub"].(string)
			if !ok || sub == "" {
				return
			}
			ctx := common.WithAuthSubject(c.Request().Context(), sub)
			c.SetRequest(c.Request().WithContext(ctx))
		},
	}

	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{
			RefreshInterval:   time.Hour,
			RefreshRateLimit:  time.Minute,
			RefreshUnknownKID: true,
		})
		if err != nil {
			return echojwt.Config{}, err
		}
		cfg.KeyFunc = jwks.Keyfunc
		return cfg, nil
	}

	cfg.SigningKey = []byte(jwtSecret)
	return cfg, nil
}
