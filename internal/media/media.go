// Package media stores event images on Cloudinary.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const (
	DefaultFolder = "junta/events"
	MaxImageBytes = 5 << 20
	uploadTimeout = 60 * time.Second
	deleteTimeout = 30 * time.Second
)

var (
	ErrUnsupportedType = errors.New("only jpeg, png and webp images are accepted")
	ErrTooLarge        = fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	ErrNotCloudinary   = errors.New("not a cloudinary url")
	ErrOutsideFolder   = errors.New("image is outside the store folder")
)

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Asset describes an uploaded image
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
}

// Upload is a file received from the wizard's media step
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Validate checks type and size before anything leaves the process
func (u Upload) Validate() error {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(u.ContentType, ";", 2)[0]))
	if !allowedTypes[ct] {
		return ErrUnsupportedType
	}
	if u.Size > MaxImageBytes {
		return ErrTooLarge
	}
	return nil
}

// Store uploads and removes event images
type Store interface {
	Upload(ctx context.Context, up Upload) (*Asset, error)
	Delete(ctx context.Context, imageURL string) error
}

// assetAPI is the subset of the Cloudinary upload API in use
type assetAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
	Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error)
}

// CloudinaryStore implements Store on Cloudinary
type CloudinaryStore struct {
	api    assetAPI
	folder string
}

// NewCloudinaryStore builds a store from a cloudinary:// URL
func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, errors.New("cloudinary url is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %w", err)
	}
	return newStore(&cld.Upload, folder), nil
}

func newStore(api assetAPI, folder string) *CloudinaryStore {
	if folder == "" {
		folder = DefaultFolder
	}
	return &CloudinaryStore{api: api, folder: folder}
}

// Upload sends the image to the configured folder
func (s *CloudinaryStore) Upload(ctx context.Context, up Upload) (*Asset, error) {
	if err := up.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	res, err := s.api.Upload(ctx, up.Body, uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("upload error: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("upload error: %s", res.Error.Message)
	}

	return &Asset{
		URL:      res.SecureURL,
		PublicID: res.PublicID,
		Width:    res.Width,
		Height:   res.Height,
		Format:   res.Format,
		Bytes:    res.Bytes,
	}, nil
}

// Delete removes an image previously uploaded by this store. Assets outside
// the store folder are never destroyed.
func (s *CloudinaryStore) Delete(ctx context.Context, imageURL string) error {
	publicID, err := PublicIDFromURL(imageURL)
	if err != nil {
		return err
	}
	if !s.owns(publicID) {
		return ErrOutsideFolder
	}

	ctx, cancel := context.WithTimeout(ctx, deleteTimeout)
	defer cancel()

	if _, err := s.api.Destroy(ctx, uploader.DestroyParams{PublicID: publicID}); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}

func (s *CloudinaryStore) owns(publicID string) bool {
	rest, ok := strings.CutPrefix(publicID, s.folder+"/")
	if !ok || rest == "" {
		return false
	}
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
	}
	return true
}

// PublicIDFromURL extracts "folder/name" from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1712/junta/events/abc.jpg
func PublicIDFromURL(imageURL string) (string, error) {
	u, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(u.Host, "cloudinary.com") {
		return "", ErrNotCloudinary
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	idx := -1
	for i, p := range parts {
		if p == "upload" {
			idx = i
			break
		}
	}
	if idx < 0 || idx == len(parts)-1 {
		return "", ErrNotCloudinary
	}

	rest := parts[idx+1:]
	if len(rest) > 1 && isVersion(rest[0]) {
		rest = rest[1:]
	}
	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))
	return strings.Join(rest, "/"), nil
}

func isVersion(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
