// Package web serves decoded sprites over HTTP.
package web

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"html/template"
	"image/gif"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/vincent-petithory/dataurl"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-spritecodec/arcade"
	"badc0de.net/pkg/go-spritecodec/cache"
	"badc0de.net/pkg/go-spritecodec/datafiles"
	"badc0de.net/pkg/go-spritecodec/n64rom"
	"badc0de.net/pkg/go-spritecodec/palette"
	"badc0de.net/pkg/go-spritecodec/render"
)

// generation is part of every ETag; bump it if the way images are made
// changes.
const generation = 1

const cacheControl = "public; max-age=36000" // 36000 = 10h

// Handler serves the sprites of one N64 ROM and one arcade ROM set. Either
// may be missing.
type Handler struct {
	rom       []byte
	romSig    string
	romInfo   n64rom.RomInfo
	modTime   time.Time
	charLock  sync.Mutex
	chars     map[int]*n64rom.Character
	loadChars func(ctx context.Context, id int) (*n64rom.Character, error)

	gfxrom         []byte
	arcadeSig      string
	sprites        []arcade.Sprite
	arcadePalettes []palette.Entries

	images *cache.Cache[[]byte]
	index  *template.Template
}

// NewHandler constructs a web handler keeping up to cacheSize encoded
// images in memory.
func NewHandler(cacheSize int) (*Handler, error) {
	c, err := cache.New[[]byte](cacheSize)
	if err != nil {
		return nil, err
	}
	index, err := template.New("index").Parse(datafiles.IndexHTML)
	if err != nil {
		return nil, errors.Wrap(err, "index template")
	}
	return &Handler{
		chars:  map[int]*n64rom.Character{},
		images: c,
		index:  index,
	}, nil
}

func signature(parts ...[]byte) string {
	d, _ := blake2b.New256(nil)
	for _, p := range parts {
		d.Write(p)
	}
	return hex.EncodeToString(d.Sum(nil)[:4])
}

// LoadN64 identifies rom and makes its characters available. Characters
// are reconstructed on first use.
func (h *Handler) LoadN64(rom []byte, modTime time.Time) error {
	info, err := n64rom.RomInfoFor(rom)
	if err != nil {
		return err
	}
	glog.Infof("serving %s N64 ROM", info.Name)
	h.rom = rom
	h.romSig = signature(rom)
	h.romInfo = info
	h.modTime = modTime
	h.loadChars = func(ctx context.Context, id int) (*n64rom.Character, error) {
		return n64rom.LoadCharacter(ctx, h.rom, h.romInfo, id)
	}
	return nil
}

// LoadArcade scans an arcade ROM set for sprites.
func (h *Handler) LoadArcade(maincpu, gfxrom []byte, mk1 bool) {
	h.gfxrom = gfxrom
	h.arcadeSig = signature(maincpu, gfxrom)
	h.sprites = arcade.ScanROM(maincpu, gfxrom, mk1)
	h.arcadePalettes = arcade.Palettes(maincpu, h.sprites)
	glog.Infof("serving %d arcade sprites", len(h.sprites))
}

// Stats reports how the image cache is doing.
func (h *Handler) Stats() cache.Stats {
	return h.images.Stats()
}

func (h *Handler) character(ctx context.Context, id int) (*n64rom.Character, error) {
	if h.loadChars == nil {
		return nil, errors.New("no N64 ROM loaded")
	}
	h.charLock.Lock()
	defer h.charLock.Unlock()
	if c, ok := h.chars[id]; ok {
		return c, nil
	}
	c, err := h.loadChars(ctx, id)
	if err != nil {
		return nil, err
	}
	h.chars[id] = c
	return c, nil
}

// notModified answers a conditional request when etag matches.
func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	if r.Header.Get("If-None-Match") != etag {
		return false
	}
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
	return true
}

func (h *Handler) write(w http.ResponseWriter, mime, etag string, b []byte) {
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("ETag", etag)
	if !h.modTime.IsZero() {
		w.Header().Set("Last-Modified", h.modTime.Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func parseOffset(s string) (int, error) {
	v, err := strconv.ParseInt(s, 0, 0)
	if err != nil || v < 0 {
		return 0, errors.Errorf("bad offset %q", s)
	}
	return int(v), nil
}

func (h *Handler) charFromVars(w http.ResponseWriter, r *http.Request, tr trace.Trace) (*n64rom.Character, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["char"])
	if err != nil {
		http.Error(w, "char not a number", http.StatusBadRequest)
		return nil, false
	}
	c, err := h.character(r.Context(), id)
	if err != nil {
		tr.LazyPrintf("%v", err)
		tr.SetError()
		http.Error(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return c, true
}

// n64ImgHandler serves /n64/{char}/img/{off}.{ext}. The optional pal query
// parameter picks a palette by file offset.
func (h *Handler) n64ImgHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.n64img", r.URL.Path)
	defer tr.Finish()

	c, ok := h.charFromVars(w, r, tr)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	off, err := parseOffset(vars["off"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format, err := render.ParseFormat(vars["ext"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	sf, ok := c.Image(off)
	if !ok {
		http.Error(w, fmt.Sprintf("no image at 0x%x", off), http.StatusNotFound)
		return
	}

	req := sf.PaletteRequest()
	if p := r.URL.Query().Get("pal"); p != "" {
		if req.Explicit, err = parseOffset(p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	pal, src := c.Resolver().Resolve(req)
	tr.LazyPrintf("palette from %s", src)

	key := cache.KeyOf(sf.Img, c.Dict, pal, format.Ext())
	etag := fmt.Sprintf(`W/"n64img:%d:%s:%x"`, generation, h.romSig, key[:8])
	if notModified(w, r, etag) {
		return
	}

	b, err := h.images.GetOrMake(key, func() ([]byte, error) {
		tr.LazyPrintf("cache miss")
		blk, err := c.Graph.DecodeImage(sf, c.Dict)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := render.Encode(&buf, render.Cropped(blk, pal), format); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		tr.LazyPrintf("%v", err)
		tr.SetError()
		glog.Errorf("error decoding %s of character %d: %v", sf.Name(), c.ID, err)
		http.Error(w, "failed to decode image", http.StatusInternalServerError)
		return
	}
	w.Header().Set("X-Palette-Source", src.String())
	h.write(w, format.MIME(), etag, b)
}

// n64AniHandler serves /n64/{char}/ani/{idx}.gif. The optional delay query
// parameter is in hundredths of a second.
func (h *Handler) n64AniHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.n64ani", r.URL.Path)
	defer tr.Finish()

	c, ok := h.charFromVars(w, r, tr)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(mux.Vars(r)["idx"])
	if err != nil {
		http.Error(w, "idx not a number", http.StatusBadRequest)
		return
	}
	delay := 10
	if d := r.URL.Query().Get("delay"); d != "" {
		delay, _ = strconv.Atoi(d)
		// ignore invalid delay
	}

	etag := fmt.Sprintf(`W/"n64ani:%d:%s:%d:%d:%d"`, generation, h.romSig, c.ID, idx, delay)
	if notModified(w, r, etag) {
		return
	}

	key := cache.KeyOf([]byte(etag), nil, nil, "gif")
	b, err := h.images.GetOrMake(key, func() ([]byte, error) {
		g, err := c.Animate(idx, delay)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := gif.EncodeAll(&buf, g); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		tr.LazyPrintf("%v", err)
		tr.SetError()
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	h.write(w, "image/gif", etag, b)
}

type indexImage struct {
	Name          string
	Link          string
	Thumb         template.URL
	Width, Height int
}

type indexPalette struct {
	Name   string
	Offset string
}

// n64IndexHandler lists the images of a character with inline thumbnails.
func (h *Handler) n64IndexHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.n64index", r.URL.Path)
	defer tr.Finish()

	c, ok := h.charFromVars(w, r, tr)
	if !ok {
		return
	}
	var explicit int
	if p := r.URL.Query().Get("pal"); p != "" {
		explicit, _ = parseOffset(p)
		// ignore invalid pal
	}

	data := struct {
		Title      string
		Palettes   []indexPalette
		Animations []string
		Images     []indexImage
	}{Title: fmt.Sprintf("%s: character %d", h.romInfo.Name, c.ID)}

	for _, p := range c.Palettes {
		data.Palettes = append(data.Palettes, indexPalette{Name: p.Name(), Offset: fmt.Sprintf("0x%x", p.FileOffset)})
	}
	for _, a := range c.Graph.Anitab {
		if len(a.Frames) > 0 {
			data.Animations = append(data.Animations, fmt.Sprintf("ani/%d.gif", a.Index))
		}
	}
	resolver := c.Resolver()
	for _, o := range c.Graph.Images() {
		sf := o.Subframe
		req := sf.PaletteRequest()
		link := fmt.Sprintf("img/0x%x.png", o.Offset)
		if explicit != 0 {
			req.Explicit = explicit
			link += fmt.Sprintf("?pal=0x%x", explicit)
		}
		blk, err := c.Graph.DecodeImage(sf, c.Dict)
		if err != nil {
			glog.V(1).Infof("index of character %d: %s: %v", c.ID, sf.Name(), err)
			continue
		}
		pal, _ := resolver.Resolve(req)
		var buf bytes.Buffer
		if err := render.Encode(&buf, render.Cropped(blk, pal), render.PNG); err != nil {
			continue
		}
		data.Images = append(data.Images, indexImage{
			Name:   sf.Name(),
			Link:   link,
			Thumb:  template.URL(dataurl.New(buf.Bytes(), "image/png").String()),
			Width:  blk.Width,
			Height: blk.Height,
		})
	}
	tr.LazyPrintf("%d images", len(data.Images))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.index.Execute(w, data); err != nil {
		glog.Errorf("index of character %d: %v", c.ID, err)
	}
}

// arcadeHandler serves /arcade/{idx}.{ext}.
func (h *Handler) arcadeHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.arcade", r.URL.Path)
	defer tr.Finish()

	vars := mux.Vars(r)
	idx, err := strconv.Atoi(vars["idx"])
	if err != nil {
		http.Error(w, "idx not a number", http.StatusBadRequest)
		return
	}
	if idx < 0 || idx >= len(h.sprites) {
		http.Error(w, "no such sprite", http.StatusNotFound)
		return
	}
	format, err := render.ParseFormat(vars["ext"])
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s := h.sprites[idx]
	etag := fmt.Sprintf(`W/"arcade:%d:%s:%d:%s"`, generation, h.arcadeSig, idx, format.Ext())
	if notModified(w, r, etag) {
		return
	}

	key := cache.KeyOf([]byte(etag), nil, h.arcadePalettes[idx], format.Ext())
	b, err := h.images.GetOrMake(key, func() ([]byte, error) {
		blk, err := arcade.Decode(s, h.gfxrom)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := render.Encode(&buf, render.Cropped(blk, h.arcadePalettes[idx]), format); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		tr.LazyPrintf("%v", err)
		tr.SetError()
		glog.Errorf("error decoding arcade sprite %s: %v", s.Name(), err)
		http.Error(w, "failed to decode sprite", http.StatusInternalServerError)
		return
	}
	h.write(w, format.MIME(), etag, b)
}

// NumArcadeSprites is how many arcade sprites are served.
func (h *Handler) NumArcadeSprites() int {
	return len(h.sprites)
}

// HasN64 reports whether an N64 ROM is loaded.
func (h *Handler) HasN64() bool {
	return h.loadChars != nil
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/n64/{char:[0-9]+}/", h.n64IndexHandler)
	r.HandleFunc("/n64/{char:[0-9]+}/img/{off:(?:0x)?[0-9a-fA-F]+}.{ext:[a-z]+}", h.n64ImgHandler)
	r.HandleFunc("/n64/{char:[0-9]+}/ani/{idx:[0-9]+}.gif", h.n64AniHandler)
	r.HandleFunc("/arcade/{idx:[0-9]+}.{ext:[a-z]+}", h.arcadeHandler)
}
