package catalog

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const UploadsPath = "/uploads"

// AssetStore writes uploaded images to Dir and serves them under UploadsPath.
type AssetStore struct {
	Dir     string
	BaseURL string
}

func NewAssetStore(dir, baseURL string) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &AssetStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Save copies src into a new file named after a random id plus the original
// extension, and returns the public URL and the number of bytes written.
func (a *AssetStore) Save(src io.Reader, originalName string) (string, int64, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(originalName)))

	f, err := os.OpenFile(filepath.Join(a.Dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, err
	}

	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", n, err
	}

	return a.BaseURL + UploadsPath + "/" + name, n, nil
}

func (a *AssetStore) Handler() http.Handler {
	return http.StripPrefix(UploadsPath+"/", http.FileServer(http.Dir(a.Dir)))
}
