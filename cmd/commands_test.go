package cmd

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bogem/id3v2"
	"github.com/jfmyers9/gnlookup/internal/config"
	"github.com/jfmyers9/gnlookup/internal/store"
)

const fakeAlbumResponse = `<RESPONSES><RESPONSE STATUS="OK"><ALBUM>
	<GN_ID>97474325-8C600A6F</GN_ID>
	<ARTIST>Muse</ARTIST>
	<TITLE>Absolution</TITLE>
	<DATE>2003</DATE>
	<GENRE ORD="1" ID="25">Rock</GENRE>
	<ARTIST_ORIGIN ORD="1" ID="29896">Europe</ARTIST_ORIGIN>
	<TRACK><TRACK_NUM>8</TRACK_NUM><GN_ID>t8</GN_ID><TITLE>Hysteria</TITLE></TRACK>
</ALBUM></RESPONSE></RESPONSES>`

// newFakeGracenote serves REGISTER and album queries and counts registrations
func newFakeGracenote(t *testing.T) (*httptest.Server, func() int) {
	t.Helper()

	var (
		mu            sync.Mutex
		registrations int
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), `CMD="REGISTER"`) {
			mu.Lock()
			registrations++
			mu.Unlock()
			_, _ = w.Write([]byte(`<RESPONSES><RESPONSE STATUS="OK"><USER>user-1</USER></RESPONSE></RESPONSES>`))
			return
		}
		_, _ = w.Write([]byte(fakeAlbumResponse))
	}))
	t.Cleanup(server.Close)

	return server, func() int {
		mu.Lock()
		defer mu.Unlock()
		return registrations
	}
}

// setupEnv points configuration at a temp home and the fake server
func setupEnv(t *testing.T, baseURL string) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("GNLOOKUP_GRACENOTE_CLIENT_ID", "1234567")
	t.Setenv("GNLOOKUP_GRACENOTE_CLIENT_TAG", "ABCDEF")
	t.Setenv("GNLOOKUP_GRACENOTE_BASE_URL", baseURL)
	t.Setenv("GNLOOKUP_DATA_DIR", home+"/data")
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommands_SearchAndFetch(t *testing.T) {
	server, registrations := newFakeGracenote(t)
	home := setupEnv(t, server.URL)

	out, err := execute(t, "search", "--artist", "Muse", "--album", "Absolution", "--best")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if strings.TrimSpace(out) != "Muse - Absolution (2003)" {
		t.Errorf("unexpected search output %q", out)
	}

	out, err = execute(t, "fetch", "97474325-8C600A6F")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !strings.Contains(out, "Origin:        Europe") || !strings.Contains(out, "  8. Hysteria") {
		t.Errorf("unexpected fetch output %q", out)
	}

	// The user ID was registered once and reused by fetch
	if n := registrations(); n != 1 {
		t.Errorf("expected 1 registration, got %d", n)
	}

	st, err := store.Open(home + "/data/lookups.db")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	count, err := st.Count(context.Background())
	if err != nil {
		t.Fatalf("failed to count lookups: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 recorded lookups, got %d", count)
	}
}

func TestCommands_Tag(t *testing.T) {
	server, _ := newFakeGracenote(t)
	home := setupEnv(t, server.URL)

	path := filepath.Join(home, "Hysteria.mp3")
	if err := os.WriteFile(path, append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 60)...), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	out, err := execute(t, "tag", path, "--artist", "Muse", "--no-artwork")
	if err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	if !strings.Contains(out, "Muse - Absolution: 08. Hysteria") {
		t.Errorf("unexpected tag output %q", out)
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("failed to reopen file: %v", err)
	}
	defer tag.Close()

	if tag.Title() != "Hysteria" || tag.Album() != "Absolution" {
		t.Errorf("unexpected tags title=%q album=%q", tag.Title(), tag.Album())
	}
}

func TestCommands_TagSharesArtwork(t *testing.T) {
	var (
		mu        sync.Mutex
		downloads int
	)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			mu.Lock()
			downloads++
			mu.Unlock()
			_, _ = w.Write(png)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), `CMD="REGISTER"`) {
			_, _ = w.Write([]byte(`<RESPONSES><RESPONSE STATUS="OK"><USER>user-1</USER></RESPONSE></RESPONSES>`))
			return
		}
		_, _ = w.Write([]byte(`<RESPONSES><RESPONSE STATUS="OK"><ALBUM>
			<GN_ID>97474325-8C600A6F</GN_ID>
			<ARTIST>Muse</ARTIST>
			<TITLE>Absolution</TITLE>
			<URL TYPE="COVERART">` + server.URL + `/cover.png</URL>
			<TRACK><TRACK_NUM>3</TRACK_NUM><GN_ID>t3</GN_ID><TITLE>Time Is Running Out</TITLE></TRACK>
			<TRACK><TRACK_NUM>8</TRACK_NUM><GN_ID>t8</GN_ID><TITLE>Hysteria</TITLE></TRACK>
		</ALBUM></RESPONSE></RESPONSES>`))
	}))
	t.Cleanup(server.Close)
	home := setupEnv(t, server.URL)

	var paths []string
	for _, name := range []string{"Hysteria.mp3", "Time Is Running Out.mp3"} {
		path := filepath.Join(home, name)
		if err := os.WriteFile(path, append([]byte{0xFF, 0xFB, 0x90, 0x64}, make([]byte, 60)...), 0644); err != nil {
			t.Fatalf("failed to write test file: %v", err)
		}
		paths = append(paths, path)
	}

	args := append([]string{"tag", "--artist", "Muse", "--no-artwork=false"}, paths...)
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("tag failed: %v", err)
	}
	if !strings.Contains(out, "Absolution: 08. Hysteria") || !strings.Contains(out, "Absolution: 03. Time Is Running Out") {
		t.Errorf("unexpected tag output %q", out)
	}

	mu.Lock()
	if downloads != 1 {
		t.Errorf("expected 1 artwork download, got %d", downloads)
	}
	mu.Unlock()

	for _, path := range paths {
		tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
		if err != nil {
			t.Fatalf("failed to reopen file: %v", err)
		}
		if n := len(tag.GetFrames(tag.CommonID("Attached picture"))); n != 1 {
			t.Errorf("%s: expected 1 attached picture, got %d", path, n)
		}
		tag.Close()
	}
}

func TestCommands_HistoryPrune(t *testing.T) {
	server, _ := newFakeGracenote(t)
	setupEnv(t, server.URL)

	if _, err := execute(t, "fetch", "97474325-8C600A6F"); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	out, err := execute(t, "history", "--prune", "1h")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "Pruned 0 lookups, 1 remaining") {
		t.Errorf("unexpected history output %q", out)
	}
}

func TestCommands_MissingCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GNLOOKUP_GRACENOTE_CLIENT_ID", "")
	t.Setenv("GNLOOKUP_GRACENOTE_CLIENT_TAG", "")

	_, err := execute(t, "oet", "97474325-8C600A6F")
	if err == nil || !strings.Contains(err.Error(), "credentials not configured") {
		t.Errorf("expected missing credentials error, got %v", err)
	}
}

func TestPromptCredentials(t *testing.T) {
	t.Run("prompts for missing values", func(t *testing.T) {
		cfg := &config.Config{}
		var out bytes.Buffer

		err := promptCredentials(bufio.NewReader(strings.NewReader("1234567\n ABCDEF \n")), &out, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Gracenote.ClientID != "1234567" || cfg.Gracenote.ClientTag != "ABCDEF" {
			t.Errorf("unexpected credentials %+v", cfg.Gracenote)
		}
		if !strings.Contains(out.String(), "client tag") {
			t.Errorf("expected prompt output, got %q", out.String())
		}
	})

	t.Run("configured values skip the prompt", func(t *testing.T) {
		cfg := &config.Config{Gracenote: config.GracenoteConfig{ClientID: "1", ClientTag: "T"}}
		var out bytes.Buffer

		if err := promptCredentials(bufio.NewReader(strings.NewReader("")), &out, cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Len() != 0 {
			t.Errorf("expected no prompt, got %q", out.String())
		}
	})

	t.Run("empty input fails", func(t *testing.T) {
		cfg := &config.Config{}
		err := promptCredentials(bufio.NewReader(strings.NewReader("\n\n")), io.Discard, cfg)
		if err == nil {
			t.Error("expected error for empty credentials")
		}
	})
}

func TestPrintHistory(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 30, 0, 0, time.Local)
	lookups := []store.Lookup{
		{ID: "id-1", Command: "ALBUM_SEARCH", Query: "artist=Muse", Results: 3, CreatedAt: created},
		{ID: "id-2", Command: "ALBUM_FETCH", Query: "gn_id=x", Error: "gracenote: no match", CreatedAt: created},
	}

	var buf bytes.Buffer
	printHistory(&buf, lookups)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "2026-03-01 12:30:00  id-1  ALBUM_SEARCH  artist=Muse") || !strings.HasSuffix(lines[0], "  3") {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "error: gracenote: no match") {
		t.Errorf("unexpected second line %q", lines[1])
	}
}
