package cli

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/cobra"

	"duckup/internal/paths"
	"duckup/internal/platform"
	"duckup/internal/toolchain"
)

type archiveEntry struct {
	name string
	body string
	mode int64
}

func tarGzArchive(t *testing.T, entries []archiveEntry) []byte {
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
		if err := tw.WriteHeader(header); err != nil {
			t.Fatalf("write tar header: %v", err)
		}
		if _, err := tw.Write([]byte(entry.body)); err != nil {
			t.Fatalf("write tar body: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	return buf.Bytes()
}

func zipArchive(t *testing.T, entries []archiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range entries {
		w, err := zw.Create(entry.name)
		if err != nil {
			t.Fatalf("create zip entry: %v", err)
		}
		if _, err := w.Write([]byte(entry.body)); err != nil {
			t.Fatalf("write zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func sourceArchive(t *testing.T, tag, goVersion string) []byte {
	t.Helper()
	top := "duckc-" + strings.TrimPrefix(tag, "v") + "/"
	return tarGzArchive(t, []archiveEntry{
		{name: top + "duck-version-info.json", body: fmt.Sprintf(`{"go": %q}`, goVersion)},
		{name: top + "src/main.duck", body: "fn main() {}\n"},
		{name: top + "std/prelude.duck", body: "pub fn print() {}\n"},
	})
}

func runtimeArchive(t *testing.T, archiveName, goVersion string) []byte {
	t.Helper()
	entries := []archiveEntry{
		{name: "go/VERSION", body: "go" + goVersion},
		{name: "go/bin/go", body: "#!/bin/sh\necho " + goVersion + "\n", mode: 0o755},
	}
	if strings.HasSuffix(archiveName, ".zip") {
		return zipArchive(t, entries)
	}
	return tarGzArchive(t, entries)
}

// fixtureHosts serves the release API, tag archives, release assets, and go
// runtime bundles from in-memory fixtures.
type fixtureHosts struct {
	baseURL string
	hits    map[string]int

	latestTag string
	assets    map[string]map[string][]byte
	sources   map[string][]byte
	runtimes  map[string][]byte
}

func (f *fixtureHosts) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits[r.URL.Path]++

	switch {
	case r.URL.Path == "/repos/duck-compiler/duckc/releases/latest":
		if f.latestTag == "" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprintf(w, `{"tag_name": %q, "assets": []}`, f.latestTag)

	case r.URL.Path == "/repos/duck-compiler/duckc/releases":
		fmt.Fprint(w, "[]")

	case strings.HasPrefix(r.URL.Path, "/repos/duck-compiler/duckc/releases/tags/"):
		tag := path.Base(r.URL.Path)
		assets, ok := f.assets[tag]
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
		content, found := f.assets[tag][name]
		if !found {
			http.NotFound(w, r)
			return
		}
		w.Write(content)

	case strings.HasPrefix(r.URL.Path, "/duck-compiler/duckc/archive/refs/tags/"):
		tag := strings.TrimSuffix(path.Base(r.URL.Path), ".tar.gz")
		data, ok := f.sources[tag]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)

	case strings.HasPrefix(r.URL.Path, "/dl/"):
		data, ok := f.runtimes[path.Base(r.URL.Path)]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)

	default:
		http.NotFound(w, r)
	}
}

// addRelease registers everything a full install of tag needs on the host
// platform: the release asset, the source archive pinning goVersion, and
// the runtime bundle. Hosts outside the platform tables skip the test.
func (f *fixtureHosts) addRelease(t *testing.T, tag, goVersion string) {
	t.Helper()

	assetName, err := platform.ReleaseAssetName(toolchain.BinaryName, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("host platform not in the release table: %v", err)
	}
	// Each asset gets a unique length; file identity falls back to size
	// comparison on some platforms.
	content := "dargo binary " + tag + strings.Repeat(".", len(f.assets))
	f.assets[tag] = map[string][]byte{assetName: []byte(content)}
	f.sources[tag] = sourceArchive(t, tag, goVersion)

	archiveName, err := platform.RuntimeArchiveName(goVersion, runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("host platform not in the runtime table: %v", err)
	}
	if _, ok := f.runtimes[archiveName]; !ok {
		f.runtimes[archiveName] = runtimeArchive(t, archiveName, goVersion)
	}
}

// setupCommandEnv gives the test its own duckup tree via environment
// overrides and points the configured hosts at a fixture server.
func setupCommandEnv(t *testing.T) (*fixtureHosts, paths.Dirs) {
	t.Helper()

	hosts := &fixtureHosts{
		hits:     map[string]int{},
		assets:   map[string]map[string][]byte{},
		sources:  map[string][]byte{},
		runtimes: map[string][]byte{},
	}
	srv := httptest.NewServer(hosts)
	t.Cleanup(srv.Close)
	hosts.baseURL = srv.URL

	root := t.TempDir()
	t.Setenv("DUCKUP_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_BIN_HOME", filepath.Join(root, "bin"))
	t.Setenv("DUCK_HOME", filepath.Join(root, "duck"))

	if err := os.MkdirAll(filepath.Join(root, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := fmt.Sprintf("release_api: %q\narchive_host: %q\nruntime_host: %q\n",
		srv.URL, srv.URL, srv.URL+"/dl")
	if err := os.WriteFile(filepath.Join(root, "data", "config.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	dirs, err := paths.Resolve()
	if err != nil {
		t.Fatalf("resolve dirs: %v", err)
	}
	return hosts, dirs
}

// execCommand runs a freshly built subcommand with the given args and
// returns what it printed.
func execCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
