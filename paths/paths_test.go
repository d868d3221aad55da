package paths

import (
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-spritecodec/ttesting"
)

func TestFindInDataDir(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "rom.n64")
	ttesting.AssertNoError(t, "write", os.WriteFile(want, []byte("rom"), 0o644))
	t.Setenv(EnvDataDirs, dir)

	ttesting.AssertEqualString(t, "find", Find("rom.n64"), want)
	ttesting.AssertEqualString(t, "missing", Find("nothing.n64"), "")

	b, err := ReadFile("rom.n64")
	ttesting.AssertNoError(t, "read", err)
	ttesting.AssertEqualString(t, "contents", string(b), "rom")

	_, err = ReadFile("nothing.n64")
	ttesting.AssertErrorIs(t, "missing", err, os.ErrNotExist)
}

func TestSetupFilePathFlagSet(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "maincpu.bin")
	ttesting.AssertNoError(t, "write", os.WriteFile(want, []byte("cpu"), 0o644))
	t.Setenv(EnvDataDirs, dir)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var maincpu, gfxrom string
	SetupFilePathFlagSet(fs, "maincpu.bin", "maincpu", &maincpu)
	SetupFilePathFlagSet(fs, "gfxrom.bin", "gfxrom", &gfxrom)
	ttesting.AssertNoError(t, "parse", fs.Parse([]string{"-gfxrom", "https://example.com/gfxrom.bin"}))

	ttesting.AssertEqualString(t, "found default", maincpu, want)
	ttesting.AssertEqualString(t, "explicit url", gfxrom, "https://example.com/gfxrom.bin")
	ttesting.AssertEqualString(t, "default shown", fs.Lookup("maincpu").DefValue, want)
	ttesting.AssertEqualString(t, "nothing found", fs.Lookup("gfxrom").DefValue, "")
}

func TestReadHTTP(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/rom.n64" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("remote"))
	}))
	defer srv.Close()

	for i := 0; i < 2; i++ {
		b, err := ReadFile(srv.URL + "/rom.n64")
		ttesting.AssertNoError(t, "fetch", err)
		ttesting.AssertEqualString(t, "contents", string(b), "remote")
	}
	ttesting.AssertEqualInt(t, "fetched once", hits, 1)

	_, err := ReadFile(srv.URL + "/other.n64")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want not exist", err)
	}
}
