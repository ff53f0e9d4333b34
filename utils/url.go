package utils

import (
	"fmt"
	"net/url"
	"strings"

	"enrollment-backend/config"

	"github.com/gofiber/fiber/v2"
)

// GetDownloadURL builds an absolute link to filePath on this server: https
// in production, the request's own scheme otherwise. Path segments are
// escaped so stored filenames with accents survive.
func GetDownloadURL(c *fiber.Ctx, filePath string) string {
	filePath = strings.TrimPrefix(filePath, "/")

	segments := strings.Split(filePath, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}

	scheme := c.Protocol()
	if config.GetEnv("APP_ENV") == "production" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, c.Hostname(), strings.Join(segments, "/"))
}
