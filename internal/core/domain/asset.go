package domain

import (
	"mime"
	"path/filepath"
	"strings"
)

// UploadFile is a file handed to the session by a picker
type UploadFile struct {
	Name string // Display name, e.g. "cat.png"
	Path string // Absolute or working-directory relative path
}

// NewUploadFile builds an UploadFile whose name is the path's base name
func NewUploadFile(path string) UploadFile {
	return UploadFile{
		Name: filepath.Base(path),
		Path: path,
	}
}

// ImageAsset is an uploaded image owned by the editor session
type ImageAsset struct {
	ID   string     // Generated at upload time
	URL  string     // Displayable URL, revoked on delete or session end
	Name string     // Original file name
	File UploadFile // Underlying file reference
}

// EncodedImage is a baked raster ready to be downloaded
type EncodedImage struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// ExportName derives the download name of a baked export
// "cat.png" -> "edited_cat.png"
func ExportName(name string) string {
	return "edited_" + name
}

// IsAcceptedImage reports whether a file name passes the image/* accept filter
func IsAcceptedImage(name string) bool {
	return strings.HasPrefix(MIMEType(name), "image/")
}

// MIMEType returns the MIME type implied by the file extension, or ""
func MIMEType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}

	// A few image types are missing from minimal mime tables
	switch ext {
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	}

	t := mime.TypeByExtension(ext)
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	return t
}
