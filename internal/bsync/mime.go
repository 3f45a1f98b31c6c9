package bsync

import (
	"path"
	"strings"
)

// contentTypes is the fixed extension to MIME type table for uploaded
// objects. Anything not listed here falls back to application/octet-stream.
var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".png":  "image/png",
	".gif":  "image/gif",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".xml":  "application/xml",
}

// ContentTypeForKey returns the content type for a relative key based on
// its extension.
func ContentTypeForKey(key string) string {
	ext := strings.ToLower(path.Ext(key))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}
