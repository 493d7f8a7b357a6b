// Package cgi renders the HTML report of an index database for one request,
// either under a CGI-capable web server or behind the serve command.
package cgi

import (
	"bufio"
	_ "embed"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"

	"ducweb/config"
	"ducweb/db"
	"ducweb/entity"
	"ducweb/graph"
)

//go:embed assets/duc.css
var defaultCSS string

// maxListRows caps the file listing below the graph.
const maxListRows = 40

type Command int

const (
	CommandIndex Command = iota
	CommandTooltip
)

func (c Command) String() string {
	if c == CommandTooltip {
		return "tooltip"
	}
	return "index"
}

// ParseCommand resolves the cmd parameter. An empty name selects the index page.
func ParseCommand(name string) (Command, error) {
	switch name {
	case "", "index":
		return CommandIndex, nil
	case "tooltip":
		return CommandTooltip, nil
	}
	return CommandIndex, fmt.Errorf("%q: %w", name, entity.ErrUnknownCommand)
}

// Request is the part of the CGI environment a render needs.
type Request struct {
	Query      string
	ScriptName string
}

// RequestFromEnv reads a request from the CGI environment. It fails with
// entity.ErrNoGateway when GATEWAY_INTERFACE is unset.
func RequestFromEnv(lookup func(string) (string, bool)) (Request, error) {
	if _, ok := lookup("GATEWAY_INTERFACE"); !ok {
		return Request{}, entity.ErrNoGateway
	}
	query, _ := lookup("QUERY_STRING")
	script, _ := lookup("SCRIPT_NAME")
	return Request{Query: query, ScriptName: script}, nil
}

type Handler struct {
	cfg   config.HTML
	fs    afero.Fs
	log   *slog.Logger
	st    entity.SizeType
	graph graph.Options
}

// NewHandler prepares a handler. fs serves header and footer fragments and the
// database directory listing.
func NewHandler(cfg config.HTML, fs afero.Fs, log *slog.Logger) (*Handler, error) {
	palette, err := graph.ParsePalette(cfg.Palette)
	if err != nil {
		return nil, err
	}
	st := entity.SelectSizeType(cfg.Apparent, cfg.Count)
	return &Handler{
		cfg: cfg,
		fs:  fs,
		log: log.With(slog.String("item", "CGI")),
		st:  st,
		graph: graph.Options{
			Size:       cfg.Size,
			MaxLevel:   cfg.Levels,
			Fuzz:       cfg.Fuzz,
			Palette:    palette,
			ExactBytes: cfg.Bytes,
			SizeType:   st,
			RingGap:    cfg.RingGap,
			Gradient:   cfg.Gradient,
		},
	}, nil
}

// Handle renders one request into w. Failures to resolve the command, the
// database or the path are written as a plain text body and returned.
func (h *Handler) Handle(w Response, req Request) error {
	params := Decode(req.Query)

	name, _ := params.Get("cmd")
	cmd, err := ParseCommand(name)
	if err != nil {
		return h.fail(w, err, "")
	}

	dbName, dbPath, err := h.database(params)
	if err != nil {
		return h.fail(w, err, "")
	}

	d, err := db.Open(dbPath, db.ReadOnly)
	if err != nil {
		return h.fail(w, err, "")
	}
	defer d.Close()

	v := &view{
		Handler: h,
		params:  params,
		script:  req.ScriptName,
		dbName:  dbName,
		db:      d,
		graph:   graph.New(h.graph),
		out:     bufio.NewWriter(w),
	}

	if path, ok := params.Get("path"); ok {
		dir, err := d.OpenDir(path)
		if err != nil {
			return h.fail(w, err, HTMLEscape(path))
		}
		defer dir.Close()
		v.path = path
		v.dir = dir
	}

	h.log.Debug("Rendering", slog.String("cmd", cmd.String()), slog.String("path", v.path))

	w.SetContentType("text/html")
	switch cmd {
	case CommandTooltip:
		err = v.tooltip()
	default:
		err = v.index()
	}
	if err != nil {
		return err
	}
	if err := v.out.Flush(); err != nil {
		return err
	}
	return w.Flush()
}

func (h *Handler) fail(w Response, err error, detail string) error {
	w.SetContentType("text/plain")
	msg := err.Error() + "\n"
	if detail != "" {
		msg += detail + "\n"
	}
	if _, werr := w.Write([]byte(msg)); werr != nil {
		return werr
	}
	if werr := w.Flush(); werr != nil {
		return werr
	}
	return err
}

// database resolves the database file of a request. With a database directory
// configured the db parameter names the file, without its .db extension.
// Without one the first database in the directory is used.
func (h *Handler) database(params Params) (string, string, error) {
	if h.cfg.DBDir == "" {
		return "", h.cfg.Database, nil
	}

	name, ok := params.Get("db")
	if !ok {
		names, err := h.databases()
		if err != nil {
			return "", "", err
		}
		if len(names) == 0 {
			return "", "", fmt.Errorf("%s: %w", h.cfg.DBDir, entity.ErrNoDatabase)
		}
		name = names[0]
	}
	name = filepath.Base(name)
	return name, filepath.Join(h.cfg.DBDir, name+".db"), nil
}

// databases lists the databases in the database directory by name.
func (h *Handler) databases() ([]string, error) {
	infos, err := afero.ReadDir(h.fs, h.cfg.DBDir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, info := range infos {
		if info.IsDir() || filepath.Ext(info.Name()) != ".db" {
			continue
		}
		names = append(names, strings.TrimSuffix(info.Name(), ".db"))
	}
	return names, nil
}

// view is the state of one render.
type view struct {
	*Handler
	params Params
	script string
	dbName string
	db     *db.DB
	path   string
	dir    *db.Dir
	graph  *graph.Graph
	out    *bufio.Writer
}

// spot hit-tests the x and y parameters against the open directory.
func (v *view) spot() (*db.Dir, *entity.Entry, error) {
	if v.dir == nil {
		return nil, nil, nil
	}
	xs, okx := v.params.Get("x")
	ys, oky := v.params.Get("y")
	if !okx || !oky {
		return nil, nil, nil
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return nil, nil, nil
	}
	y, err := strconv.Atoi(ys)
	if err != nil {
		return nil, nil, nil
	}
	return v.graph.FindSpot(v.dir, x, y)
}

// dbParam is the query suffix selecting the current database, if any.
func (v *view) dbParam() string {
	if v.dbName == "" {
		return ""
	}
	return "&db=" + PathEscape(v.dbName)
}

func (v *view) url() string {
	return HTMLEscape(v.script) + "?cmd=index" + v.dbParam()
}

func (v *view) tooltip() error {
	dir, e, err := v.spot()
	if dir != nil {
		defer dir.Close()
	}
	if err != nil || e == nil {
		return err
	}
	fmt.Fprintf(v.out, "name: %s<br>\n"+
		"type: %s<br>\n"+
		"actual size: %s<br>\n"+
		"apparent size: %s<br>\n"+
		"file count: %s",
		HTMLEscape(e.Name),
		e.Type,
		entity.HumanSize(e.Size, entity.SizeActual, v.cfg.Bytes),
		entity.HumanSize(e.Size, entity.SizeApparent, v.cfg.Bytes),
		entity.HumanSize(e.Size, entity.SizeCount, v.cfg.Bytes))
	return nil
}

func (v *view) index() error {
	dir, _, err := v.spot()
	if err != nil {
		return err
	}
	if dir != nil {
		defer dir.Close()
		v.dir = dir
		v.path = dir.Path()
	}

	out := v.out
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n  <meta charset=\"utf-8\" />\n")
	if v.cfg.CSSURL != "" {
		fmt.Fprintf(out, "<link rel=\"stylesheet\" type=\"text/css\" href=\"%s\">\n", HTMLEscape(v.cfg.CSSURL))
	} else {
		out.WriteString("<style>\n" + defaultCSS + "</style>\n")
	}
	if v.dir != nil {
		v.writeScript()
	}
	out.WriteString("</head>\n<body>\n")

	if err := v.writeFragment(out, v.cfg.Header, defaultHeader); err != nil {
		return err
	}

	out.WriteString("<div id=main>\n")
	if v.cfg.DBDir != "" {
		if err := v.databaseTable(); err != nil {
			return err
		}
	}
	if err := v.reportTable(); err != nil {
		return err
	}

	if v.dir != nil {
		out.WriteString("<div id=graph>\n")
		if err := v.graph.Draw(out, v.dir); err != nil {
			return err
		}
		out.WriteString("</div>\n")

		if v.cfg.List {
			v.listTable()
		}
	}
	out.WriteString("</div>\n")

	if v.cfg.Tooltip {
		out.WriteString("<div id=\"tooltip\"></div>\n")
	}

	if err := v.writeFragment(out, v.cfg.Footer, defaultFooter); err != nil {
		return err
	}
	out.WriteString("</body>\n</html>\n")
	return nil
}

func (v *view) writeScript() {
	path := PathEscape(v.dir.Path()) + v.dbParam()
	out := v.out
	out.WriteString("<script>\n" +
		"  window.onload = function() {\n" +
		"    var img = document.getElementById('duc_canvas');\n" +
		"    var rect = img.getBoundingClientRect(img);\n" +
		"    var tt = document.getElementById('tooltip');\n" +
		"    var timer;\n" +
		"    img.onmousedown = function(e) {\n" +
		"      if(e.button == 0) {\n" +
		"        var x = e.clientX - rect.left;\n" +
		"        var y = e.clientY - rect.top;\n" +
		"        window.location = '?x=' + x + '&y=' + y + '&path=" + path + "';\n" +
		"      }\n" +
		"    }\n")

	if v.cfg.Tooltip {
		out.WriteString("    img.onmouseout = function() { tt.style.display = \"none\"; };\n" +
			"    img.onmousemove = function(e) {\n" +
			"      if(timer) clearTimeout(timer);\n" +
			"      timer = setTimeout(function() {\n" +
			"        var x = e.clientX - rect.left;\n" +
			"        var y = e.clientY - rect.top;\n" +
			"        var req = new XMLHttpRequest();\n" +
			"        req.onreadystatechange = function() {\n" +
			"          if(req.readyState == 4 && req.status == 200) {\n" +
			"            tt.innerHTML = req.responseText;\n" +
			"            tt.style.display = tt.innerHTML.length > 0 ? \"block\" : \"none\";\n" +
			"            tt.style.left = (e.clientX - tt.offsetWidth / 2) + \"px\";\n" +
			"            tt.style.top = (e.clientY - tt.offsetHeight - 5) + \"px\";\n" +
			"          }\n" +
			"        };\n" +
			"        req.open(\"GET\", \"?cmd=tooltip&path=" + path + "&x=\"+x+\"&y=\"+y, true);\n" +
			"        req.send();\n" +
			"      }, 100);\n" +
			"    };\n")
	}

	out.WriteString("  };\n</script>\n")
}

func (v *view) databaseTable() error {
	names, err := v.databases()
	if err != nil {
		v.log.Debug("Cannot list databases", slog.String("dbdir", v.cfg.DBDir), slog.Any("error", err))
		return nil
	}

	out := v.out
	out.WriteString("<div id=databases>\n <table>\n  <tr>\n   <th>Database</th>\n  </tr>\n")
	for _, name := range names {
		fmt.Fprintf(out, "  <tr>\n   <td><a href=\"%s?cmd=index&db=%s\">%s</a></td>\n  </tr>\n",
			HTMLEscape(v.script), PathEscape(name), HTMLEscape(name))
	}
	out.WriteString(" </table>\n</div>\n")
	return nil
}

func (v *view) reportTable() error {
	st := entity.SizeActual
	if v.cfg.Apparent {
		st = entity.SizeApparent
	}

	out := v.out
	out.WriteString("<div id=index>\n" +
		" <table>\n" +
		"  <tr>\n" +
		"   <th>Path</th>\n" +
		"   <th>Size</th>\n" +
		"   <th>Files</th>\n" +
		"   <th>Directories</th>\n" +
		"   <th>Date</th>\n" +
		"   <th>Time</th>\n" +
		"  </tr>\n")

	url := v.url()
	for i := 0; ; i++ {
		r, ok, err := v.db.Report(i)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		start := r.TimeStart.Local()
		fmt.Fprintf(out, "  <tr>\n"+
			"   <td><a href=\"%s&path=%s\">%s</a></td>\n"+
			"   <td>%s</td>\n"+
			"   <td>%d</td>\n"+
			"   <td>%d</td>\n"+
			"   <td>%s</td>\n"+
			"   <td>%s</td>\n"+
			"  </tr>\n",
			url, PathEscape(r.Path), HTMLEscape(r.Path),
			entity.HumanSize(r.Size, st, false),
			r.FileCount, r.DirCount,
			start.Format("2006-01-02"), start.Format("15:04:05"))
	}
	out.WriteString(" </table>\n</div>\n")
	return nil
}

func (v *view) listTable() {
	out := v.out
	out.WriteString("<div id=list>\n" +
		" <table>\n" +
		"  <tr>\n" +
		"   <th class=name>Filename</th>\n" +
		"   <th class=size>Size</th>\n" +
		"  </tr>\n")

	url := v.url()
	base := strings.TrimSuffix(v.dir.Path(), "/")
	entries := v.dir.Read(v.st)
	if len(entries) > maxListRows {
		entries = entries[:maxListRows]
	}
	for _, e := range entries {
		name := HTMLEscape(e.Name)
		if e.IsDir() {
			name = fmt.Sprintf("<a href=\"%s&path=%s/%s\">%s</a>", url, PathEscape(base), PathEscape(e.Name), name)
		}
		fmt.Fprintf(out, "  <tr>\n   <td class=name>%s</td>\n   <td class=size>%s</td>\n  </tr>\n",
			name, entity.HumanSize(e.Size, v.st, v.cfg.Bytes))
	}
	out.WriteString(" </table>\n</div>\n")
}
