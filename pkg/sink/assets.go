package sink

import (
	"encoding/base64"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/pokeviz/pkg/errors"
)

// AssetResolver maps an icon or sprite reference to the value written into
// the document.
type AssetResolver interface {
	Resolve(ref string) (string, error)
}

// URLAssets leaves references unchanged.
type URLAssets struct{}

func (URLAssets) Resolve(ref string) (string, error) { return ref, nil }

// DirAssets inlines files below Dir as base64 data URIs. References are
// relative slash-separated paths such as "icons/25.png". Results are
// memoized, so a DirAssets must not be copied after first use.
type DirAssets struct {
	Dir string

	mu   sync.Mutex
	seen map[string]string
}

// NewDirAssets returns a resolver rooted at dir.
func NewDirAssets(dir string) *DirAssets { return &DirAssets{Dir: dir} }

func (d *DirAssets) Resolve(ref string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if uri, ok := d.seen[ref]; ok {
		return uri, nil
	}

	clean := path.Clean("/" + ref)[1:]
	if clean == "" || strings.HasPrefix(ref, "/") || strings.Contains(ref, "://") {
		return "", errors.New(errors.ErrCodeAssetNotFound, "asset reference must be a relative path: %s", ref)
	}
	data, err := os.ReadFile(filepath.Join(d.Dir, filepath.FromSlash(clean)))
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeAssetNotFound, err, "asset not found: %s", ref)
		}
		return "", errors.Wrap(errors.ErrCodeInternal, err, "read asset %s", ref)
	}

	uri := "data:" + mediaType(clean) + ";base64," + base64.StdEncoding.EncodeToString(data)
	if d.seen == nil {
		d.seen = make(map[string]string)
	}
	d.seen[ref] = uri
	return uri, nil
}

func mediaType(name string) string {
	if t := mime.TypeByExtension(path.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
