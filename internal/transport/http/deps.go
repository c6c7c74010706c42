package http

import (
	"github.com/markclone/shop-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/markclone/shop-api/internal/infrastructure/jwt"
	redisinfra "github.com/markclone/shop-api/internal/infrastructure/redis"
	s3infra "github.com/markclone/shop-api/internal/infrastructure/s3"
	"github.com/markclone/shop-api/internal/infrastructure/smtp"
	"github.com/markclone/shop-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	ProductRepo  *dynamo.ProductRepo
	ProductCache *redisinfra.ProductCache
	ImageStore   *s3infra.Store
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender // nil disables the SMS OTP channel
	JWTProvider  *jwtinfra.Provider
}
