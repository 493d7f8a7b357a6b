package entity

import "errors"

var (
	ErrPathNotFound   = errors.New("requested path not found")
	ErrNotIndexed     = errors.New("no index found for path")
	ErrNoGateway      = errors.New("not running under a CGI gateway")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoDatabase     = errors.New("no database selected")
	ErrNotDirectory   = errors.New("entry is not a directory")
)
