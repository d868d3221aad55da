// Package paths locates data files such as ROM dumps.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// EnvDataDirs names the environment variable with extra data directories,
// separated like PATH.
const EnvDataDirs = "SPRITECODEC_DATA"

// Dirs returns the directories Find looks in, in order.
func Dirs() []string {
	var dirs []string
	for _, d := range filepath.SplitList(os.Getenv(EnvDataDirs)) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	dirs = append(dirs, "datafiles")
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "datafiles"))
	}
	dirs = append(dirs, os.Args[0]+".runfiles/go_spritecodec/datafiles")
	if gopath := os.Getenv("GOPATH"); gopath != "" {
		dirs = append(dirs, filepath.Join(gopath, "src/badc0de.net/pkg/go-spritecodec/datafiles"))
	}
	return dirs
}

// Find locates the passed data file shortname and returns an absolute or
// relative path to find the data file at, or an empty string.
//
// For example, for "mk1.n64" it may return "datafiles/mk1.n64".
func Find(fileName string) string {
	for _, dir := range Dirs() {
		path := filepath.Join(dir, fileName)
		if s, err := os.Stat(path); err == nil && !s.IsDir() {
			glog.V(2).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// ReadFile reads a whole data file. Paths that exist are read as they are,
// http and https URLs are fetched, and anything else is looked up with
// Find.
func ReadFile(name string) ([]byte, error) {
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return readHTTP(name)
	}
	if _, err := os.Stat(name); err != nil {
		if found := Find(name); found != "" {
			name = found
		}
	}
	b, err := os.ReadFile(name)
	return b, errors.Wrapf(err, "paths.ReadFile(%q)", name)
}
