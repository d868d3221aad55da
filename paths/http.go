package paths

import (
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	httpCache     = map[string][]byte{}
	httpCacheLock sync.Mutex
)

// readHTTP fetches url once per process.
func readHTTP(url string) ([]byte, error) {
	httpCacheLock.Lock()
	defer httpCacheLock.Unlock()

	if b, ok := httpCache[url]; ok {
		glog.V(2).Infof("paths: %s from cache", url)
		return b, nil
	}

	glog.V(1).Infof("paths: fetching %s", url)
	response, err := http.Get(url)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.ReadFile(%q)", url)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		e := os.ErrInvalid
		if response.StatusCode == http.StatusNotFound {
			e = os.ErrNotExist
		}
		return nil, errors.Wrapf(e, "paths.ReadFile(%q): http response.StatusCode=%v, want 200", url, response.StatusCode)
	}

	b, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.ReadFile(%q)", url)
	}
	httpCache[url] = b
	return b, nil
}
