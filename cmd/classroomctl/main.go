package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/dycedu/classroom-go/internal/api"
	"github.com/dycedu/classroom-go/internal/config"
	"github.com/dycedu/classroom-go/internal/session"
	"github.com/dycedu/classroom-go/internal/view"
)

func main() {
	email := flag.String("email", os.Getenv("CLASSROOM_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("CLASSROOM_PASSWORD"), "account password")
	courseID := flag.Uint("course", 0, "course id for the teacher overview")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if cfg.AppEnv == "development" {
		logger = logger.Level(zerolog.DebugLevel)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *email, *password, uint(*courseID)); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Fatalf("classroomctl: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, logger zerolog.Logger, email, password string, courseID uint) error {
	sess := session.New(session.NewFileStore(cfg.SessionFile), logger)

	client, err := api.New(api.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout}, sess, nil, logger)
	if err != nil {
		return err
	}

	if err := signIn(ctx, client, sess, email, password); err != nil {
		return err
	}

	user, _ := sess.User()
	views := view.NewService(client, cfg.AllowResubmission, logger)

	var payload interface{}
	if user.IsStudent {
		payload, err = views.StudentDashboard(ctx, user)
	} else {
		if courseID == 0 {
			return fmt.Errorf("teacher overview needs -course")
		}
		payload, err = views.TeacherOverview(ctx, courseID)
	}
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			_ = sess.End()
			return fmt.Errorf("session expired, sign in again")
		}
		return err
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(encoded))
	return nil
}

// signIn resumes a stored session when possible and falls back to a fresh
// login with the provided credentials.
func signIn(ctx context.Context, client *api.Client, sess *session.Session, email, password string) error {
	if err := sess.Resume(); err == nil && sess.Authenticated() {
		user, err := client.Me(ctx)
		if err == nil {
			sess.SetUser(user)
			return nil
		}
		// Stored tokens no longer work; start over.
		_ = sess.End()
	}

	if email == "" || password == "" {
		return fmt.Errorf("no stored session; provide -email and -password")
	}

	response, err := client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	return sess.Begin(response.User, response.Tokens())
}
