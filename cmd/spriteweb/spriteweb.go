// Command spriteweb serves decoded sprites over HTTP.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	_ "golang.org/x/net/trace"

	"badc0de.net/pkg/go-spritecodec/paths"
	"badc0de.net/pkg/go-spritecodec/web"
)

var (
	listenAddress = flag.String("listen_address", ":8080", "http listen address for spriteweb")
	baseURL       = flag.String("base_url", "http://localhost:8080", "absolute URL the site is reachable at, for the sitemap")
	cacheSize     = flag.Int("cache_size", 4096, "number of encoded images kept in memory")
	mk1           = flag.Bool("mk1", false, "whether the arcade ROM set uses the MK1 layout")

	n64romPath  string
	maincpuPath string
	gfxromPath  string
)

func setupFilePathFlags() {
	paths.SetupFilePathFlag("mkt.n64", "n64rom", &n64romPath)
	paths.SetupFilePathFlag("maincpu.bin", "maincpu", &maincpuPath)
	paths.SetupFilePathFlag("gfxrom.bin", "gfxrom", &gfxromPath)
}

func modTime(path string) time.Time {
	if s, err := os.Stat(path); err == nil {
		return s.ModTime()
	}
	return time.Time{}
}

func main() {
	setupFilePathFlags()
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	h, err := web.NewHandler(*cacheSize)
	if err != nil {
		glog.Fatal(err)
	}
	if n64romPath != "" {
		rom, err := paths.ReadFile(n64romPath)
		if err == nil {
			err = h.LoadN64(rom, modTime(n64romPath))
		}
		if err != nil {
			glog.Errorf("not serving N64 sprites: %v", err)
		}
	}
	if maincpuPath != "" && gfxromPath != "" {
		maincpu, err := paths.ReadFile(maincpuPath)
		if err != nil {
			glog.Errorf("not serving arcade sprites: %v", err)
		} else if gfxrom, err := paths.ReadFile(gfxromPath); err != nil {
			glog.Errorf("not serving arcade sprites: %v", err)
		} else {
			h.LoadArcade(maincpu, gfxrom, *mk1)
		}
	}

	r := mux.NewRouter()
	h.RegisterRoutes(r)
	r.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		sitemap(h, *baseURL).Write(w, r)
	})
	r.PathPrefix("/debug/").Handler(http.DefaultServeMux)

	glog.Infof("spriteweb listening on %s", *listenAddress)
	glog.Fatal(http.ListenAndServe(*listenAddress, handlers.CompressHandler(handlers.LoggingHandler(os.Stderr, r))))
}
