package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/lov3b/irc-render/pkg/cache"
	"github.com/lov3b/irc-render/pkg/errors"
	"github.com/lov3b/irc-render/pkg/observability"
)

func testImage(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: 200, A: 255})
		}
	}
	return img
}

func encode(t *testing.T, format string, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := testImage(w, h)
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	case "tiff":
		err = tiff.Encode(&buf, img, nil)
	default:
		t.Fatalf("unknown format %s", format)
	}
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func quietLogger() *log.Logger { return log.New(io.Discard) }

func TestLooksLikeImageURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/cat.png", true},
		{"http://example.com/a/b/photo.JPG", true},
		{"https://example.com/x.jpeg?size=large#top", true},
		{"https://example.com/anim.gif", true},
		{"https://example.com/pic.webp", true},
		{"https://example.com/old.bmp", true},
		{"https://example.com/scan.tif", true},
		{"https://example.com/scan.tiff", true},
		{"https://example.com/page.html", false},
		{"https://example.com/", false},
		{"https://example.com/png", false},
		{"https://example.com/view?file=cat.png", false},
		{"https://example.com/cat.png.txt", false},
		{"https://exa mple.com/%zz.png", false},
	}
	for _, tt := range tests {
		if got := LooksLikeImageURL(tt.url); got != tt.want {
			t.Errorf("LooksLikeImageURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		format     string
		wantFormat string
	}{
		{"png", "png"},
		{"jpeg", "jpeg"},
		{"gif", "gif"},
		{"bmp", "png"},
		{"tiff", "png"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			img, err := Decode(encode(t, tt.format, 30, 20), DefaultMaxPixels)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Format != tt.wantFormat || img.Width != 30 || img.Height != 20 {
				t.Errorf("Decode = %s %dx%d, want %s 30x20", img.Format, img.Width, img.Height, tt.wantFormat)
			}
			if tt.wantFormat == "png" {
				if _, err := png.DecodeConfig(bytes.NewReader(img.Data)); err != nil {
					t.Errorf("payload is not PNG: %v", err)
				}
			}
		})
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name      string
		data      []byte
		maxPixels int
		code      errors.Code
	}{
		{"text", []byte("<html>not an image</html>"), 0, errors.ErrCodeUnsupported},
		{"empty", nil, 0, errors.ErrCodeUnsupported},
		{"truncated png", []byte("\x89PNG\r\n\x1a\n\x00\x00"), 0, errors.ErrCodeDecode},
		{"pixel bomb", encode(t, "png", 100, 100), 5000, errors.ErrCodeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, tt.maxPixels)
			if !errors.Is(err, tt.code) {
				t.Errorf("Decode error = %v, want code %s", err, tt.code)
			}
		})
	}
}

type countingHTTPHooks struct {
	observability.NoopHTTPHooks
	mu                  sync.Mutex
	requests, responses int
	errs                int
}

func (h *countingHTTPHooks) OnRequest(context.Context, string, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests++
}

func (h *countingHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responses++
}

func (h *countingHTTPHooks) OnError(context.Context, string, string, string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs++
}

func TestHTTPFetcher(t *testing.T) {
	payload := encode(t, "png", 10, 10)
	uaCh := make(chan string, 1)
	mux := http.NewServeMux()
	mux.HandleFunc("/ok.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case uaCh <- r.Header.Get("User-Agent"):
		default:
		}
		w.Write(payload)
	})
	mux.HandleFunc("/missing.png", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/advertised.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1000")
		w.Write(make([]byte, 1000))
	})
	mux.HandleFunc("/streamed.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 100))
		w.(http.Flusher).Flush()
		w.Write(make([]byte, 100))
	})
	mux.HandleFunc("/exact.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 150))
	})
	mux.HandleFunc("/slow.png", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	hooks := &countingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	f := NewHTTPFetcher(srv.Client(), "irc-render/test")
	ctx := context.Background()

	data, err := f.Fetch(ctx, srv.URL+"/ok.png", DefaultLimits())
	if err != nil {
		t.Fatalf("Fetch ok: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("Fetch returned a different payload")
	}
	if ua := <-uaCh; ua != "irc-render/test" {
		t.Errorf("User-Agent = %q", ua)
	}

	small := Limits{MaxBytes: 150, Timeout: time.Second}
	tests := []struct {
		path string
		lim  Limits
		code errors.Code
	}{
		{"/missing.png", DefaultLimits(), errors.ErrCodeNetwork},
		{"/advertised.png", small, errors.ErrCodeTooLarge},
		{"/streamed.png", small, errors.ErrCodeTooLarge},
		{"/slow.png", Limits{MaxBytes: 100, Timeout: 50 * time.Millisecond}, errors.ErrCodeTimeout},
	}
	for _, tt := range tests {
		if _, err := f.Fetch(ctx, srv.URL+tt.path, tt.lim); !errors.Is(err, tt.code) {
			t.Errorf("Fetch(%s) error = %v, want %s", tt.path, err, tt.code)
		}
	}

	if data, err := f.Fetch(ctx, srv.URL+"/exact.png", small); err != nil || len(data) != 150 {
		t.Errorf("Fetch at exactly the cap = %d bytes, %v", len(data), err)
	}

	if _, err := f.Fetch(ctx, "ftp://example.com/a.png", small); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Fetch(ftp) error = %v, want INVALID_INPUT", err)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if hooks.requests != 6 {
		t.Errorf("OnRequest called %d times, want 6", hooks.requests)
	}
	if hooks.errs < 1 {
		t.Error("OnError not called for the timeout")
	}
}

type fakeFetcher struct {
	bodies map[string][]byte
	calls  map[string]int
}

func newFakeFetcher(bodies map[string][]byte) *fakeFetcher {
	return &fakeFetcher{bodies: bodies, calls: map[string]int{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, lim Limits) ([]byte, error) {
	f.calls[url]++
	b, ok := f.bodies[url]
	if !ok {
		return nil, errors.New(errors.ErrCodeNetwork, "no route to %s", url)
	}
	if lim.MaxBytes > 0 && int64(len(b)) > lim.MaxBytes {
		return nil, errors.New(errors.ErrCodeTooLarge, "too big")
	}
	return b, nil
}

func TestResolver(t *testing.T) {
	ctx := context.Background()
	f := newFakeFetcher(map[string][]byte{
		"https://example.com/cat.png":  encode(t, "png", 100, 50),
		"https://example.com/fake.png": []byte("<html>login</html>"),
		"https://example.com/scan.bmp": encode(t, "bmp", 8, 4),
	})
	r := NewResolver(f, WithLogger(quietLogger()))

	img, ok := r.Resolve(ctx, "https://example.com/cat.png")
	if !ok {
		t.Fatal("Resolve(cat.png) failed")
	}
	if img.Width != 100 || img.Height != 50 || img.Format != "png" || img.URL != "https://example.com/cat.png" {
		t.Errorf("Resolve(cat.png) = %s %dx%d %s", img.Format, img.Width, img.Height, img.URL)
	}
	if ri := img.Image(); ri.Width != 100 || ri.Format != "png" || len(ri.Data) == 0 {
		t.Errorf("Image() = %+v", ri)
	}

	if img, ok := r.Resolve(ctx, "https://example.com/scan.bmp"); !ok || img.Format != "png" {
		t.Errorf("Resolve(scan.bmp) = %v, %v; want transcoded png", img.Format, ok)
	}

	for _, u := range []string{
		"https://example.com/fake.png",
		"https://example.com/gone.png",
	} {
		if _, ok := r.Resolve(ctx, u); ok {
			t.Errorf("Resolve(%s) succeeded, want failure", u)
		}
	}

	if _, ok := r.Resolve(ctx, "https://example.com/page.html"); ok {
		t.Error("Resolve(page.html) succeeded")
	}
	if f.calls["https://example.com/page.html"] != 0 {
		t.Error("non-image URL was fetched")
	}

	tight := NewResolver(f, WithLogger(quietLogger()), WithLimits(Limits{MaxBytes: 10}))
	if _, ok := tight.Resolve(ctx, "https://example.com/cat.png"); ok {
		t.Error("Resolve over the byte cap succeeded")
	}
	guarded := NewResolver(f, WithLogger(quietLogger()), WithMaxPixels(100))
	if _, ok := guarded.Resolve(ctx, "https://example.com/cat.png"); ok {
		t.Error("Resolve over the pixel cap succeeded")
	}
}

func TestResolverLogsFailuresAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.InfoLevel)
	r := NewResolver(newFakeFetcher(nil), WithLogger(logger))

	if _, ok := r.Resolve(context.Background(), "https://example.com/gone.png"); ok {
		t.Fatal("Resolve succeeded")
	}
	if out := buf.String(); !strings.Contains(out, "image download failed") || !strings.Contains(out, "gone.png") {
		t.Errorf("log output = %q", out)
	}
}

func TestCachedFetcher(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	url := "https://example.com/cat.png"
	inner := newFakeFetcher(map[string][]byte{url: []byte("0123456789")})
	f := NewCachedFetcher(inner, c, nil, time.Hour, quietLogger())

	for i := 0; i < 3; i++ {
		data, err := f.Fetch(ctx, url, DefaultLimits())
		if err != nil || string(data) != "0123456789" {
			t.Fatalf("Fetch #%d = %q, %v", i, data, err)
		}
	}
	if inner.calls[url] != 1 {
		t.Errorf("inner fetched %d times, want 1", inner.calls[url])
	}

	if _, err := f.Fetch(ctx, url, Limits{MaxBytes: 5}); err == nil {
		t.Error("cached payload over the cap should be refetched and rejected")
	}
	if inner.calls[url] != 2 {
		t.Errorf("inner fetched %d times, want 2", inner.calls[url])
	}

	missing := "https://example.com/missing.png"
	for i := 0; i < 2; i++ {
		if _, err := f.Fetch(ctx, missing, DefaultLimits()); err == nil {
			t.Fatal("missing URL fetched")
		}
	}
	if inner.calls[missing] != 2 {
		t.Errorf("failures should not be cached; inner called %d times", inner.calls[missing])
	}
}

func ExampleLooksLikeImageURL() {
	fmt.Println(LooksLikeImageURL("https://example.com/cat.PNG?x=1"))
	fmt.Println(LooksLikeImageURL("https://example.com/index.html"))
	// Output:
	// true
	// false
}
