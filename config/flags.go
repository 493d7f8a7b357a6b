package config

import (
	"github.com/spf13/pflag"
)

// HTMLFlags registers the options of the HTML report.
func HTMLFlags(fs *pflag.FlagSet) {
	fs.BoolP("apparent", "a", false, "show apparent instead of actual file size")
	fs.BoolP("bytes", "b", false, "show file size in exact number of bytes")
	fs.Bool("count", false, "show number of files instead of file size")
	fs.String("css-url", "", "url of CSS style sheet to use instead of default CSS")
	fs.StringP("database", "d", "", "select database file to use [~/.duc.db]")
	fs.String("dbdir", "", "directory to search for databases, selected with the db parameter")
	fs.String("footer", "", "select html or markdown file to include in footer div")
	fs.Float64("fuzz", 0.7, "use radius fuzz factor when drawing graph")
	fs.Bool("gradient", false, "draw graph with color gradient")
	fs.String("header", "", "select html or markdown file to include in header div")
	fs.IntP("levels", "l", 4, "draw up to ARG levels deep")
	fs.Bool("list", false, "generate table with file list")
	fs.String("palette", "", "select palette: size, rainbow, greyscale, monochrome, classic")
	fs.Int("ring-gap", 4, "leave a gap of VAL pixels between rings")
	fs.IntP("size", "s", 800, "image size")
	fs.Bool("tooltip", false, "enable tooltip when hovering over the graph")
}

func ServeFlags(fs *pflag.FlagSet) {
	HTMLFlags(fs)
	fs.String("listen", ":8080", "address to listen on")
}

func JSONFlags(fs *pflag.FlagSet) {
	fs.BoolP("apparent", "a", false, "interpret min_size value as apparent size")
	fs.StringP("database", "d", "", "select database file to use [~/.duc.db]")
	fs.BoolP("exclude-files", "x", false, "exclude files from output, only include directories")
	fs.Float64P("min_size", "s", 0, "minimum size of files or directories")
	fs.Float64P("min_size_relative", "r", 0, "minimum size of files or directories, as a fraction of the size of PATH")
	fs.IntP("max_num_items", "i", -1, "maximum number of items in the output, further items are discarded")
}

func IndexFlags(fs *pflag.FlagSet) {
	fs.StringP("database", "d", "", "select database file to use [~/.duc.db]")
	fs.Int("workers", 0, "number of concurrent directory readers, 0 for one per CPU")
	fs.Bool("progress", true, "show progress on stderr")
}

func InfoFlags(fs *pflag.FlagSet) {
	fs.BoolP("apparent", "a", false, "show apparent instead of actual file size")
	fs.BoolP("bytes", "b", false, "show file size in exact number of bytes")
	fs.StringP("database", "d", "", "select database file to use [~/.duc.db]")
}
