package main

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"time"
)

var TEMPLATE_INDEX = template.Must(template.New("index").Parse(`<html>
  <head>
    <meta http-equiv="refresh" content="{{.Refresh}}">
    <title>shapemon</title>
  </head>
  <body>
{{- range $n, $p := .Panels}}
    <div>
      <pre>{{$n}}: {{$p.Name}}: {{$p.Description}}</pre>
      <img src="{{$p.Src}}" width="{{$p.Width}}" height="{{$p.Height}}">
    </div>
{{- end}}
    <hr>
    <pre>shapemon</pre>
    <pre>{{.Now}} (autorefresh @ {{.Refresh}} sec)</pre>
  </body>
</html>
`))

type index_panel struct {
	Name, Description string
	Src               string
	Width, Height     int
}

// server ties the panels of a configuration to their hosts.
type server struct {
	db     *sql.DB
	config *config_serve
	panels []*config_panel
	hosts  map[string]*panel_host
}

func new_server(db *sql.DB, cs *config_serve, panels []*config_panel, factory surface_factory) *server {
	s := &server{
		db:     db,
		config: cs,
		panels: panels,
		hosts:  map[string]*panel_host{},
	}
	for _, p := range panels {
		s.hosts[p.name] = new_panel_host(p, cs, factory)
	}
	return s
}

func (s *server) host_list() []*panel_host {
	ret := []*panel_host{}
	for _, p := range s.panels {
		ret = append(ret, s.hosts[p.name])
	}
	return ret
}

func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serve_index)
	mux.HandleFunc("/panel", s.serve_panel)
	return mux
}

func (s *server) serve_index(w http.ResponseWriter, req *http.Request) {
	if req.URL.Path != "/" {
		http.NotFound(w, req)
		return
	}
	data := struct {
		Refresh int
		Now     string
		Panels  []index_panel
	}{
		Refresh: int(s.config.autorefresh_period / time.Second),
		Now:     time.Now().Format(TIMESTAMP_FORMAT),
	}
	for _, p := range s.panels {
		v := url.Values{}
		v.Set("name", p.name)
		data.Panels = append(data.Panels, index_panel{
			Name:        p.name,
			Description: p.description,
			Src:         "/panel?" + v.Encode(),
			Width:       p.width,
			Height:      p.height,
		})
	}
	b := bytes.Buffer{}
	if err := TEMPLATE_INDEX.Execute(&b, data); err != nil {
		log.Println("serve_index: template failed: ", err)
		http.Error(w, "index generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}

func query_dimension(v url.Values, key string, def int) (int, error) {
	raw := v.Get(key)
	if raw == "" {
		return def, nil
	}
	return panel_dimension_parse(raw)
}

func (s *server) serve_panel(w http.ResponseWriter, req *http.Request) {
	v := req.URL.Query()
	name := v.Get("name")
	if !RE_NAME.MatchString(name) {
		log.Println("serve_panel: panel name invalid: ", name)
		http.Error(w, "bad panel name", http.StatusBadRequest)
		return
	}
	h, ok := s.hosts[name]
	if !ok {
		http.Error(w, "no such panel", http.StatusNotFound)
		return
	}
	width, err := query_dimension(v, "width", h.panel.width)
	if err != nil {
		http.Error(w, fmt.Sprintf("bad width: %v", err), http.StatusBadRequest)
		return
	}
	height, err := query_dimension(v, "height", h.panel.height)
	if err != nil {
		http.Error(w, fmt.Sprintf("bad height: %v", err), http.StatusBadRequest)
		return
	}
	format := s.config.graph_format
	if f := v.Get("format"); f != "" {
		if f != "png" && f != "svg" {
			http.Error(w, "bad format", http.StatusBadRequest)
			return
		}
		format = f
	}

	ctx := req.Context()
	h.update(h.props_collect(ctx, s.db, format, width, height))

	b := bytes.Buffer{}
	if err := h.render(ctx, &b); err != nil {
		log.Printf("serve_panel: %s: rendering failed: %v\n", name, err)
		http.Error(w, "panel rendering failed", http.StatusInternalServerError)
		return
	}
	gb := b.Bytes()
	w.Header().Set("Content-Type", graph_mimetype(format))
	w.Header().Set("Content-Length", strconv.Itoa(len(gb)))
	w.WriteHeader(http.StatusOK)
	w.Write(gb)
}

func serve(path_config string) error {
	config, err := config_load_file(path_config)
	if err != nil {
		return err
	}
	sconfig, err := config.parse_serve()
	if err != nil {
		return err
	}
	panels, err := config.parse_panels()
	if err != nil {
		return err
	}
	if len(panels) == 0 {
		return errors.New("no panels configured")
	}

	db_path := fmt.Sprintf("%s?mode=ro", sconfig.path_db)
	log.Println("Opening SQLite DB at ", db_path)
	db, err := db_init(db_path)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Println("warning: error when closing database: ", err)
		}
	}()

	if err := protect_serve(sconfig.path_db, panels); err != nil {
		return fmt.Errorf("cannot protect serve: %w", err)
	}

	ctx, cf := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cf()

	srv := new_server(db, sconfig, panels, new_encodable_surface)
	if sconfig.watch_options {
		if err := options_watch(ctx, srv.host_list()); err != nil {
			return err
		}
	}

	hs := &http.Server{
		Addr:    sconfig.listen_addr,
		Handler: srv.handler(),
	}
	go func() {
		<-ctx.Done()
		log.Println("got SIGINT -- shutting down")
		sctx, scf := context.WithTimeout(context.Background(), 5*time.Second)
		defer scf()
		hs.Shutdown(sctx)
	}()

	log.Println("Listening at address ", sconfig.listen_addr)
	if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	for _, h := range srv.host_list() {
		h.unmount()
	}
	return nil
}
