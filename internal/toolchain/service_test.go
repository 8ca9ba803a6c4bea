package toolchain

import (
	"archive/tar"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"duckup/internal/cache"
	"duckup/internal/github"
	"duckup/internal/godl"
	"duckup/internal/paths"
)

type tarEntry struct {
	name string
	body string
	mode int64
}

func makeTarGz(t *testing.T, entries []tarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, entry := range entries {
		mode := entry.mode
		if mode == 0 {
			mode = 0o644
		}
		header := &tar.Header{
			Name:     entry.name,
			Mode:     mode,
			Typeflag: tar.TypeReg,
			Size:     int64(len(entry.body)),
		}
		if strings.HasSuffix(entry.name, "/") {
			header.Typeflag = tar.TypeDir
			header.Size = 0
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("write tar header %s: %v", entry.name, err)
		}
		if header.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(entry.body)); err != nil {
				t.Fatalf("write tar body %s: %v", entry.name, err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatalf("close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip writer: %v", err)
	}
	return buf.Bytes()
}

// sourceFixture builds a tag archive the way the release host serves them:
// one top-level tree named after the repo and tag. A manifest line of ""
// omits the version manifest entirely; withStd controls the std tree.
func sourceFixture(t *testing.T, tag, manifest string, withStd bool) []byte {
	t.Helper()

	top := "duckc-" + strings.TrimPrefix(tag, "v") + "/"
	entries := []tarEntry{
		{name: top},
		{name: top + "src/", body: ""},
		{name: top + "src/main.duck", body: "fn main() {}\n"},
	}
	if manifest != "" {
		entries = append(entries, tarEntry{name: top + "duck-version-info.json", body: manifest})
	}
	if withStd {
		entries = append(entries,
			tarEntry{name: top + "std/"},
			tarEntry{name: top + "std/prelude.duck", body: "pub fn print() {}\n"},
		)
	}
	return makeTarGz(t, entries)
}

func runtimeFixture(t *testing.T, version string) []byte {
	t.Helper()

	return makeTarGz(t, []tarEntry{
		{name: "go/"},
		{name: "go/VERSION", body: "go" + version + "\n"},
		{name: "go/bin/"},
		{name: "go/bin/go", body: "#!/bin/sh\necho " + version + "\n", mode: 0o755},
	})
}

// fakeHosts serves the release API, tag archives, release assets, and go
// runtime bundles from in-memory fixtures, counting requests per path.
type fakeHosts struct {
	baseURL string
	hits    map[string]int

	latestTag       string
	releaseList     []string
	releaseAssets   map[string]map[string][]byte
	sourceArchives  map[string][]byte
	runtimeArchives map[string][]byte
}

func (f *fakeHosts) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits[r.URL.Path]++

	switch {
	case r.URL.Path == "/repos/duck-compiler/duckc/releases/latest":
		if f.latestTag == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"tag_name": %q, "assets": []}`, f.latestTag)

	case r.URL.Path == "/repos/duck-compiler/duckc/releases":
		parts := make([]string, 0, len(f.releaseList))
		for _, tag := range f.releaseList {
			parts = append(parts, fmt.Sprintf(`{"tag_name": %q, "assets": []}`, tag))
		}
		fmt.Fprintf(w, "[%s]", strings.Join(parts, ","))

	case strings.HasPrefix(r.URL.Path, "/repos/duck-compiler/duckc/releases/tags/"):
		tag := path.Base(r.URL.Path)
		assets, ok := f.releaseAssets[tag]
		if !ok {
			http.NotFound(w, r)
			return
		}
		parts := make([]string, 0, len(assets))
		for name, content := range assets {
			parts = append(parts, fmt.Sprintf(
				`{"name": %q, "browser_download_url": %q, "size": %d}`,
				name, f.baseURL+"/assets/"+tag+"/"+name, len(content),
			))
		}
		fmt.Fprintf(w, `{"tag_name": %q, "assets": [%s]}`, tag, strings.Join(parts, ","))

	case strings.HasPrefix(r.URL.Path, "/assets/"):
		rest := strings.TrimPrefix(r.URL.Path, "/assets/")
		tag, name, ok := strings.Cut(rest, "/")
		if !ok {
			http.NotFound(w, r)
			return
		}
		content, found := f.releaseAssets[tag][name]
		if !found {
			http.NotFound(w, r)
			return
		}
		w.Write(content)

	case strings.HasPrefix(r.URL.Path, "/duck-compiler/duckc/archive/refs/tags/"):
		tag := strings.TrimSuffix(path.Base(r.URL.Path), ".tar.gz")
		data, ok := f.sourceArchives[tag]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)

	case strings.HasPrefix(r.URL.Path, "/dl/"):
		data, ok := f.runtimeArchives[path.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)

	default:
		http.NotFound(w, r)
	}
}

// addRuntime registers a runtime bundle for version under the archive name
// the linux/amd64 test service will request.
func (f *fakeHosts) addRuntime(t *testing.T, version string) {
	t.Helper()
	f.runtimeArchives["go"+version+".linux-amd64.tar.gz"] = runtimeFixture(t, version)
}

func newTestService(t *testing.T) (*Service, *fakeHosts) {
	t.Helper()

	hosts := &fakeHosts{
		hits:            map[string]int{},
		releaseAssets:   map[string]map[string][]byte{},
		sourceArchives:  map[string][]byte{},
		runtimeArchives: map[string][]byte{},
	}
	srv := httptest.NewServer(hosts)
	t.Cleanup(srv.Close)
	hosts.baseURL = srv.URL

	root := t.TempDir()
	dirs := paths.Dirs{
		DataDir:       filepath.Join(root, "data"),
		BinDir:        filepath.Join(root, "bin"),
		ToolchainsDir: filepath.Join(root, "data", "toolchains"),
		CacheDir:      filepath.Join(root, "data", "cache"),
		StageDir:      filepath.Join(root, "duck"),
		LogsDir:       filepath.Join(root, "data", "logs"),
	}

	svc := &Service{
		Dirs: dirs,
		Release: &github.Client{
			BaseURL:     srv.URL,
			ArchiveHost: srv.URL,
			Owner:       "duck-compiler",
			Repo:        "duckc",
			UserAgent:   "duckup-test",
			HTTPClient:  srv.Client(),
		},
		Runtime:           &godl.Host{BaseURL: srv.URL + "/dl"},
		Cache:             &cache.Cache{Root: dirs.CacheDir},
		HTTP:              srv.Client(),
		FallbackGoVersion: "1.25.0",
		GOOS:              "linux",
		GOARCH:            "amd64",
	}
	return svc, hosts
}
