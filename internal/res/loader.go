package res

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Kind classifies a loaded resource by its MIME type or file extension.
type Kind int

const (
	KindOther Kind = iota
	KindImage
	KindFont
	KindCSS
)

var ErrNotFound = errors.New("resource not found")

// Resource is the raw bytes of a loaded resource.
type Resource struct {
	Ref      string
	Kind     Kind
	Data     []byte
	MimeType string
}

// Loader resolves references against a base location and caches what it
// loads. References may be local paths, http(s) URLs or data URLs. It is
// safe for concurrent use.
type Loader struct {
	// Base is the file or URL relative references resolve against.
	Base string

	mu          sync.RWMutex
	cache       map[string]*Resource
	images      map[string]*decoded
	searchPaths []string
	client      *http.Client
}

// NewLoader creates a loader resolving against base.
func NewLoader(base string) *Loader {
	return &Loader{
		Base:   base,
		cache:  make(map[string]*Resource),
		images: make(map[string]*decoded),
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// AddSearchPath adds a directory that is searched by file name when a local
// reference does not exist.
func (l *Loader) AddSearchPath(dir string) {
	l.mu.Lock()
	l.searchPaths = append(l.searchPaths, dir)
	l.mu.Unlock()
}

// Load returns the resource for ref, loading it on first use.
func (l *Loader) Load(ref string) (*Resource, error) {
	l.mu.RLock()
	r, ok := l.cache[ref]
	l.mu.RUnlock()
	if ok {
		return r, nil
	}

	var err error
	switch {
	case strings.HasPrefix(ref, "data:"):
		r, err = parseDataURL(ref)
	case isRemote(ref):
		r, err = l.fetch(ref)
	default:
		var resolved string
		if resolved, err = l.resolve(ref); err == nil {
			if isRemote(resolved) {
				r, err = l.fetch(resolved)
			} else {
				r, err = l.readLocal(resolved)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[ref] = r
	l.mu.Unlock()
	return r, nil
}

// LoadCSS loads ref and checks that it is a stylesheet.
func (l *Loader) LoadCSS(ref string) (*Resource, error) {
	r, err := l.Load(ref)
	if err != nil {
		return nil, err
	}
	if r.Kind != KindCSS {
		return nil, fmt.Errorf("%s is %s, not CSS", ref, r.MimeType)
	}
	return r, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// parseDataURL decodes an RFC 2397 data URL such as
// data:image/png;base64,iVBOR... or data:text/css,row%7Bgap:4px%7D
func parseDataURL(ref string) (*Resource, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL")
	}

	mime := "text/plain"
	encoded := false
	for i, part := range strings.Split(meta, ";") {
		part = strings.TrimSpace(part)
		switch {
		case i == 0 && part != "":
			mime = part
		case strings.EqualFold(part, "base64"):
			encoded = true
		}
	}

	var data []byte
	if encoded {
		d, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("invalid base64 data URL: %w", err)
		}
		data = d
	} else if d, err := url.PathUnescape(payload); err == nil {
		data = []byte(d)
	} else {
		data = []byte(payload)
	}
	return &Resource{Ref: ref, Data: data, MimeType: mime, Kind: kindOf(mime, "")}, nil
}

func (l *Loader) resolve(ref string) (string, error) {
	if filepath.IsAbs(ref) || l.Base == "" {
		return ref, nil
	}
	if !isRemote(l.Base) {
		return filepath.Join(filepath.Dir(l.Base), ref), nil
	}
	base, err := url.Parse(l.Base)
	if err != nil {
		return "", err
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(rel).String(), nil
}

func (l *Loader) fetch(u string) (*Resource, error) {
	resp, err := l.client.Get(u)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = mimeOf(u)
	}
	return &Resource{Ref: u, Data: data, MimeType: mime, Kind: kindOf(mime, u)}, nil
}

func (l *Loader) readLocal(path string) (*Resource, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		l.mu.RLock()
		dirs := append([]string(nil), l.searchPaths...)
		l.mu.RUnlock()
		for _, dir := range dirs {
			candidate := filepath.Join(dir, filepath.Base(path))
			if data, err = os.ReadFile(candidate); err == nil {
				path = candidate
				break
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
	} else if err != nil {
		return nil, err
	}
	mime := mimeOf(path)
	return &Resource{Ref: path, Data: data, MimeType: mime, Kind: kindOf(mime, path)}, nil
}

func mimeOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	case ".svg":
		return "image/svg+xml"
	case ".ttf":
		return "font/ttf"
	case ".otf":
		return "font/otf"
	case ".css":
		return "text/css"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}

func kindOf(mime, path string) Kind {
	mime = strings.ToLower(strings.TrimSpace(strings.Split(mime, ";")[0]))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return KindImage
	case strings.HasPrefix(mime, "font/"):
		return KindFont
	case mime == "text/css":
		return KindCSS
	}
	if path != "" {
		if m := mimeOf(path); m != "application/octet-stream" && m != mime {
			return kindOf(m, "")
		}
	}
	return KindOther
}
