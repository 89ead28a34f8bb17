package models

import "strings"

// UploadFile is the transient local representation of a picked file. It only
// exists to validate the pick and to build a multipart payload; it is not a
// domain entity.
type UploadFile struct {
	URI  string `json:"uri"`
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// IsImage reports whether the declared content type is an image.
func (f UploadFile) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.Type), "image/")
}

// Ext returns the lower-cased filename extension without the dot.
func (f UploadFile) Ext() string {
	idx := strings.LastIndex(f.Name, ".")
	if idx < 0 || idx == len(f.Name)-1 {
		return ""
	}
	return strings.ToLower(f.Name[idx+1:])
}
