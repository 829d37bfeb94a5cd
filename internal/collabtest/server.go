// Package collabtest hosts an in-process fake of the classroom collaborator.
// Integration tests point the real API client at it instead of stubbing
// transport details: the fake speaks the same wire shapes, enforces the same
// sequential-access and duplicate-submission rules, and issues real HS256
// token pairs so the refresh path can be exercised end to end.
package collabtest

import (
	"fmt"
	"net"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tune the fake's behavior per test.
type Options struct {
	// Secret signs the HS256 token pairs. Defaults to a fixed test secret.
	Secret string
	// AccessTTL controls access token lifetime. Tests set it very short to
	// force the client's refresh-on-401 path.
	AccessTTL time.Duration
	// RefreshTTL controls refresh token lifetime.
	RefreshTTL time.Duration
	// AllowResubmission mirrors the deployment flag: when false, updating an
	// existing submission is rejected.
	AllowResubmission bool
}

// Server is one running fake collaborator.
type Server struct {
	app  *fiber.App
	db   *gorm.DB
	opts Options
	url  string
}

var databaseSeq atomic.Int64

// New starts a fake collaborator on a random local port.
func New(opts Options) (*Server, error) {
	if opts.Secret == "" {
		opts.Secret = "collabtest-secret"
	}
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = 15 * time.Minute
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 24 * time.Hour
	}

	dsn := fmt.Sprintf("file:collabtest%d?mode=memory&cache=shared", databaseSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&userRecord{}, &courseRecord{}, &enrollmentRecord{},
		&moduleRecord{}, &questionRecord{}, &submissionRecord{}, &announcementRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	server := &Server{app: app, db: db, opts: opts}
	server.register(app)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("failed to listen: %w", err)
	}
	server.url = "http://" + listener.Addr().String()

	go func() {
		_ = app.Listener(listener)
	}()

	return server, nil
}

// URL is the base URL tests hand to the API client.
func (s *Server) URL() string { return s.url }

// Close shuts the fake down.
func (s *Server) Close() error { return s.app.Shutdown() }

// signToken issues one HS256 token of the given type.
func (s *Server) signToken(userID uint, typ string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"type":    typ,
		"exp":     time.Now().Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.opts.Secret))
}

// parseToken validates a token and returns its subject and type.
func (s *Server) parseToken(tokenString string) (userID uint, typ string, err error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(s.opts.Secret), nil
	})
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("invalid token claims")
	}

	subject, ok := claims["user_id"].(float64)
	if !ok || subject < 0 {
		return 0, "", fmt.Errorf("invalid subject")
	}
	typ, _ = claims["type"].(string)

	return uint(subject), typ, nil
}

// requireAuth validates the bearer token and stashes the caller on the
// request context.
func (s *Server) requireAuth(c *fiber.Ctx) error {
	authorization := c.Get("Authorization")

	const bearer = "Bearer "
	if !strings.HasPrefix(authorization, bearer) {
		return sendError(c, fiber.StatusUnauthorized, "authentication required")
	}

	userID, typ, err := s.parseToken(strings.TrimSpace(authorization[len(bearer):]))
	if err != nil || typ != "access" {
		return sendError(c, fiber.StatusUnauthorized, "token is invalid or expired")
	}

	var user userRecord
	if err := s.db.First(&user, userID).Error; err != nil {
		return sendError(c, fiber.StatusUnauthorized, "token is invalid or expired")
	}

	c.Locals("user", user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) userRecord {
	user, _ := c.Locals("user").(userRecord)
	return user
}

func sendError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}
