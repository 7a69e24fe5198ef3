// Package api contains all endpoints available
package api

import (
	"fmt"
	"net/http"
	"printdoc/document-api/db"
	"printdoc/document-api/middleware"
	"printdoc/document-api/security"
	"printdoc/document-api/storage"
	"time"

	ginzap "github.com/gin-contrib/zap"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

type API struct {
	DB      *gorm.DB
	Router  *gin.Engine
	Argon   *security.ArgonHash
	Pins    *security.PinCipher
	Tokens  *security.TokenService
	Storage storage.ObjectStorage
}

func NewRouter() (*API, error) {
	database, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	makeLogger()

	pins, err := security.NewPinCipher([]byte(viper.GetString("pin.encryption_key")))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pin cipher, %w", err)
	}

	r2, err := storage.NewR2()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize R2 client, %w", err)
	}

	tokens := security.NewTokenService(viper.GetString("jwt.secret"), time.Hour)

	return newAPI(database, pins, tokens, r2), nil
}

// newAPI wires the router against already-built dependencies so tests
// can swap in an in-memory database and a fake object storage
func newAPI(database *gorm.DB, pins *security.PinCipher, tokens *security.TokenService, store storage.ObjectStorage) *API {
	a := &API{
		DB:      database,
		Argon:   security.NewArgon(),
		Pins:    pins,
		Tokens:  tokens,
		Storage: store,
	}

	router := gin.New()
	a.Router = router

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("adminID"); v != "" {
					fields = append(fields, zap.String("adminID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	a.Router.MaxMultipartMemory = 5 << 20

	session := middleware.NewSessionMiddleware(tokens)
	maxUploadSize := viper.GetInt64("upload.max_size")
	maxBatch := viper.GetInt("upload.max_batch")

	main := router.Group("/api")
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		main.HEAD("/heartbeat", a.Heartbeat)

		// POST /api/signup		-> Registers a new admin and opens a session
		main.POST("/signup", middleware.BodySizeLimiter(1<<20), a.SignUp)

		// POST /api/login		-> Logs in an admin and opens a session
		main.POST("/login", middleware.BodySizeLimiter(1<<20), a.Login)

		// POST /api/logout		-> Clears the session cookie
		main.POST("/logout", session, a.Logout)
	}

	auth := main.Group("/auth", session)
	{
		// GET /api/auth/me		-> Returns the claims of the current session
		auth.GET("/me", a.AuthMe)

		// POST /api/auth/change-pin	-> Rotates the upload PIN, proof of old PIN required
		auth.POST("/change-pin", middleware.BodySizeLimiter(1<<20), a.ChangePin)
	}

	{
		// GET /api/get-all-documents/:adminId	-> Lists an admin's documents
		main.GET("/get-all-documents/:adminId", session, a.DocumentList)

		// POST /api/upload/:adminId		-> PIN-gated anonymous upload, no session
		main.POST("/upload/:adminId", middleware.BodySizeLimiter(maxUploadSize*int64(maxBatch)+1<<20), a.DocumentUpload)

		// DELETE /api/delete/:adminId/:fileId	-> Deletes a document owned by the admin
		main.DELETE("/delete/:adminId/:fileId", session, a.DocumentDelete)
	}

	return a
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

// setSessionCookie sets the token cookie with the exact attributes the
// separately-hosted frontend needs: HttpOnly, Secure and SameSite=None,
// expiring together with the token itself
func setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, token, int(ttl.Seconds()), "/", viper.GetString("host.domain"), true, true)
}

// clearSessionCookie must mirror setSessionCookie's attributes exactly
// or browsers will keep the stale cookie around
func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", viper.GetString("host.domain"), true, true)
}
