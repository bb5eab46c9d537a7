package utils

import (
	"fmt"
	"strings"

	"socialfeed/internal/config"
	"socialfeed/internal/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.uber.org/zap"
)

// DefaultAvatarSize is the edge length in pixels of generated thumbnails
const DefaultAvatarSize = 64

// AvatarService turns stored avatar references into thumbnail URLs.
// Absolute URLs pass through unchanged; anything else is treated as a
// Cloudinary public id.
type AvatarService struct {
	client *cloudinary.Cloudinary
	size   int
	logger *zap.Logger
}

// NewAvatarService creates an avatar service from Cloudinary settings.
// Without credentials it returns a service that never rewrites avatars.
func NewAvatarService(cfg config.CloudinaryConfig, logger *zap.Logger) (*AvatarService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	size := cfg.AvatarSize
	if size <= 0 {
		size = DefaultAvatarSize
	}

	service := &AvatarService{size: size, logger: logger}
	if !cfg.Enabled() {
		logger.Info("Cloudinary not configured, avatars are served as stored")
		return service, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	service.client = cld

	logger.Info("Cloudinary avatar service initialized",
		zap.String("cloud_name", cfg.CloudName),
		zap.Int("avatar_size", size),
	)
	return service, nil
}

// Enabled reports whether avatars are rewritten
func (s *AvatarService) Enabled() bool {
	return s != nil && s.client != nil
}

// Thumbnail returns the face-cropped thumbnail URL for a Cloudinary public id
func (s *AvatarService) Thumbnail(avatar *string) *string {
	if avatar == nil || !s.Enabled() || isPassthroughAvatar(*avatar) {
		return avatar
	}

	img, err := s.client.Image(*avatar)
	if err != nil {
		s.logger.Warn("Failed to build avatar asset", zap.String("public_id", *avatar), zap.Error(err))
		return avatar
	}
	img.Transformation = s.transformation()

	url, err := img.String()
	if err != nil {
		s.logger.Warn("Failed to build avatar URL", zap.String("public_id", *avatar), zap.Error(err))
		return avatar
	}
	return &url
}

func (s *AvatarService) transformation() string {
	return fmt.Sprintf("c_fill,g_face,w_%d,h_%d", s.size, s.size)
}

func isPassthroughAvatar(avatar string) bool {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" || avatar == models.DeletedSentinel {
		return true
	}
	lower := strings.ToLower(avatar)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:")
}
