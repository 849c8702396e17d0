package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	AvatarFolder = "profile-pictures"

	// MaxAvatarSize is the upload cap for profile pictures (5 MB).
	MaxAvatarSize = 5 * 1024 * 1024

	avatarUploadAttempts = 3
	avatarUploadDelay    = time.Second
)

// AllowedImageTypes are the MIME types accepted for avatar uploads.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
}

// StoredFilename builds the on-disk name for a submitted file:
// <millis>-<random>-<originalname>.
func StoredFilename(originalName string) string {
	suffix := fmt.Sprintf("%d-%d", time.Now().UnixMilli(), rand.Intn(1_000_000_000))
	return suffix + "-" + filepath.Base(originalName)
}

// SaveFile writes data into dir, creating the directory as needed, and
// returns the full path.
func SaveFile(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %v", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}
	return path, nil
}

// UploadAvatarImage pushes an avatar to Cloudinary, retrying up to three
// times with a fixed one-second delay before giving up.
func UploadAvatarImage(ctx context.Context, cld *cloudinary.Cloudinary, data []byte, publicID string) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= avatarUploadAttempts; attempt++ {
		result, err := cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
			PublicID: publicID,
			Folder:   AvatarFolder,
			Tags:     []string{"chartsheet-app"},
		})
		if err == nil && result.SecureURL != "" {
			return result.SecureURL, nil
		}
		if err == nil {
			err = fmt.Errorf("empty secure URL in upload result")
		}
		lastErr = err
		if attempt < avatarUploadAttempts {
			time.Sleep(avatarUploadDelay)
		}
	}
	return "", fmt.Errorf("failed to upload image after %d attempts: %v", avatarUploadAttempts, lastErr)
}

// SaveAvatarLocally is the fallback used when Cloudinary is not
// configured. It writes the image under dir/profile-pictures and returns
// the URL path the static file server exposes it at.
func SaveAvatarLocally(dir string, data []byte) (string, error) {
	filename := fmt.Sprintf("profile_%d.jpg", time.Now().UnixMilli())
	if _, err := SaveFile(filepath.Join(dir, AvatarFolder), filename, data); err != nil {
		return "", err
	}
	return "/uploads/" + AvatarFolder + "/" + filename, nil
}

// ParseChartFields decodes the client-supplied labels/data JSON strings.
// Malformed input in either field degrades both to empty slices instead of
// failing the request; label/data length mismatches pass through untouched.
func ParseChartFields(labelsJSON, dataJSON string) ([]string, []float64) {
	labels := []string{}
	data := []float64{}

	if labelsJSON != "" {
		if err := json.Unmarshal([]byte(labelsJSON), &labels); err != nil {
			return []string{}, []float64{}
		}
	}
	if dataJSON != "" {
		if err := json.Unmarshal([]byte(dataJSON), &data); err != nil {
			return []string{}, []float64{}
		}
	}
	if labels == nil {
		labels = []string{}
	}
	if data == nil {
		data = []float64{}
	}
	return labels, data
}
