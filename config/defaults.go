package config

import (
	"ducweb/db"
)

var defaults = map[string]any{
	"fuzz":          0.7,
	"levels":        4,
	"ring-gap":      4,
	"size":          800,
	"listen":        ":8080",
	"max_num_items": -1,
	"progress":      true,
}

// ApplyDefaults fills in the database location, which depends on the
// environment and on whether a database directory was given.
func ApplyDefaults(cfg any) {
	switch c := cfg.(type) {
	case *HTML:
		if c.Database == "" && c.DBDir == "" {
			c.Database = db.DefaultPath()
		}
	case *Serve:
		ApplyDefaults(&c.HTML)
	case *JSON:
		c.Database = defaultDatabase(c.Database)
	case *Index:
		c.Database = defaultDatabase(c.Database)
	case *Info:
		c.Database = defaultDatabase(c.Database)
	}
}

func defaultDatabase(path string) string {
	if path == "" {
		return db.DefaultPath()
	}
	return path
}
