package fetch

import (
	"net/url"
	"path"
	"strings"
)

const (

	// SQLite 3.26.0 amalgamation archive.
	AmalgamationURL = "https://www.sqlite.org/2018/sqlite-amalgamation-3260000.zip"

	// CentOS 7 minimal installer used for the virtual machine.
	CentOSISOURL = "https://mirror.yandex.ru/centos/7/isos/x86_64/CentOS-7-x86_64-Minimal-2009.iso"
)

// Name used when a URL has no usable last path element.
const fallbackName = "download"

// Name of the file at rawURL: the last element of the URL path, ignoring
// any query, fragment or trailing slash.
func FileName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fallbackName
	}
	switch name := path.Base(strings.TrimRight(u.Path, "/")); name {
	case ".", "/", "":
		return fallbackName
	default:
		return name
	}
}
