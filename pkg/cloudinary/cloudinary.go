package cloudinary

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// ErrNotVideo rejects field-assignment uploads whose bytes are not a video
// container. The check runs on content, not the file extension.
var ErrNotVideo = errors.New("file is not a video")

// Uploader stores a field-assignment recording and returns a public URL that
// becomes the submission response.
type Uploader interface {
	UploadVideo(ctx context.Context, name string, reader io.Reader) (string, error)
}

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service implements Uploader against Cloudinary.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// UploadVideo sniffs the payload, rejects non-video content, and uploads the
// rest, returning the secure URL.
func (s *Service) UploadVideo(ctx context.Context, name string, reader io.Reader) (string, error) {
	gated, err := requireVideo(reader)
	if err != nil {
		return "", err
	}

	params := uploader.UploadParams{
		Folder:       strings.Trim(s.folder, "/"),
		PublicID:     buildPublicID(name),
		ResourceType: "video",
	}

	result, err := s.client.Upload.Upload(ctx, gated, params)
	if err != nil {
		return "", fmt.Errorf("failed to upload field assignment: %w", err)
	}

	s.logger.Info().Str("public_id", result.PublicID).Msg("field assignment uploaded")

	return result.SecureURL, nil
}

// requireVideo reads enough of the stream to sniff its MIME type and returns
// a reader replaying the full content when the sniff passes.
func requireVideo(reader io.Reader) (io.Reader, error) {
	head := make([]byte, 3072)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !strings.HasPrefix(detected.String(), "video/") {
		return nil, fmt.Errorf("%w: detected %s", ErrNotVideo, detected.String())
	}

	return io.MultiReader(bytes.NewReader(head), reader), nil
}

func buildPublicID(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("upload-%d", time.Now().Unix())
	}

	return fmt.Sprintf("%s-%d", base, time.Now().Unix())
}
