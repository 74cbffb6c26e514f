package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/oklog/ulid/v2"
)

// Uploader forwards a locally spooled image to a durable host and returns
// the public URL to persist. Implementations must remove the spooled file
// whether or not the upload succeeds; a post never references a local path.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Cloudinary uploads spooled images to Cloudinary.
type Cloudinary struct {
	client *cloudinary.Cloudinary
	folder string
}

// NewCloudinary builds an uploader from a CLOUDINARY_URL-style connection
// string. Uploads land in the given folder.
func NewCloudinary(cloudinaryURL, folder string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	if folder == "" {
		folder = "knhaji/rooms"
	}
	return &Cloudinary{client: cld, folder: folder}, nil
}

// Upload sends the file at localPath and returns its durable URL. The
// spooled file is removed on every path out of this method.
func (c *Cloudinary) Upload(ctx context.Context, localPath string) (string, error) {
	defer os.Remove(localPath)

	res, err := c.client.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:   c.folder,
		PublicID: ulid.Make().String(),
	})
	if err != nil {
		return "", err
	}
	if res.SecureURL == "" {
		// API-level failures come back in the body with a nil error.
		return "", fmt.Errorf("cloudinary upload rejected: %s", res.Error.Message)
	}
	return res.SecureURL, nil
}

// SaveTemp spools one multipart part to a file under dir, named by a fresh
// ULID with the client filename's extension appended. Only the extension of
// the client name is trusted. The caller owns the file until it hands the
// path to an Uploader.
func SaveTemp(dir string, part io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	name := ulid.Make().String() + strings.ToLower(filepath.Ext(filename))
	path := filepath.Join(dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, part); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	return path, dst.Close()
}
