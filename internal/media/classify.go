// ABOUTME: Type classifier mapping MIME types and extensions to media categories.
// ABOUTME: MIME wins over extension; unknown inputs classify as Unknown.

package media

import (
	"path/filepath"
	"strings"

	"github.com/harper/mobi/internal/models"
)

// Classification is the outcome of Classify. Extension has no leading dot and
// is empty when the category is Unknown.
type Classification struct {
	Category  models.MediaCategory
	Extension string
}

type mimeEntry struct {
	category  models.MediaCategory
	extension string
}

var mimeTable = map[string]mimeEntry{
	"image/png":     {models.Image, "png"},
	"image/jpeg":    {models.Image, "jpg"},
	"image/jpg":     {models.Image, "jpg"},
	"image/gif":     {models.Image, "gif"},
	"image/webp":    {models.Image, "webp"},
	"image/svg+xml": {models.Image, "svg"},
	"image/bmp":     {models.Image, "bmp"},
	"image/x-icon":  {models.Image, "ico"},
	"image/tiff":    {models.Image, "tiff"},
	"image/avif":    {models.Image, "avif"},
	"image/heic":    {models.Image, "heic"},

	"application/pdf":    {models.Document, "pdf"},
	"application/msword": {models.Document, "doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {models.Document, "docx"},
	"application/vnd.ms-excel": {models.Document, "xls"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {models.Document, "xlsx"},
	"application/vnd.ms-powerpoint":                                             {models.Document, "ppt"},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {models.Document, "pptx"},
	"application/vnd.oasis.opendocument.text":                                   {models.Document, "odt"},
	"application/rtf": {models.Document, "rtf"},
	"text/plain":      {models.Document, "txt"},
	"text/csv":        {models.Document, "csv"},

	"audio/mpeg":  {models.Audio, "mp3"},
	"audio/mp3":   {models.Audio, "mp3"},
	"audio/wav":   {models.Audio, "wav"},
	"audio/x-wav": {models.Audio, "wav"},
	"audio/ogg":   {models.Audio, "ogg"},
	"audio/flac":  {models.Audio, "flac"},
	"audio/aac":   {models.Audio, "aac"},
	"audio/mp4":   {models.Audio, "m4a"},
	"audio/x-m4a": {models.Audio, "m4a"},

	"video/mp4":        {models.Video, "mp4"},
	"video/webm":       {models.Video, "webm"},
	"video/ogg":        {models.Video, "ogv"},
	"video/quicktime":  {models.Video, "mov"},
	"video/x-msvideo":  {models.Video, "avi"},
	"video/x-matroska": {models.Video, "mkv"},

	"application/zip":              {models.Archive, "zip"},
	"application/x-zip-compressed": {models.Archive, "zip"},
	"application/x-rar-compressed": {models.Archive, "rar"},
	"application/vnd.rar":          {models.Archive, "rar"},
	"application/x-7z-compressed":  {models.Archive, "7z"},
	"application/gzip":             {models.Archive, "gz"},
	"application/x-gzip":           {models.Archive, "gz"},
	"application/x-tar":            {models.Archive, "tar"},
	"application/x-bzip2":          {models.Archive, "bz2"},
	"application/x-xz":             {models.Archive, "xz"},
}

var extensionSets = map[models.MediaCategory]map[string]struct{}{
	models.Image:    set("png", "jpg", "jpeg", "gif", "webp", "svg", "bmp", "ico", "tiff", "tif", "avif", "heic"),
	models.Document: set("pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "odt", "ods", "odp", "rtf", "txt", "csv"),
	models.Audio:    set("mp3", "wav", "ogg", "flac", "aac", "m4a", "wma"),
	models.Video:    set("mp4", "webm", "mov", "avi", "mkv", "wmv", "flv", "ogv"),
	models.Archive:  set("zip", "rar", "7z", "tar", "gz", "bz2", "xz"),
}

// extension sets are checked in this order so the result is deterministic.
var categoryOrder = []models.MediaCategory{
	models.Image, models.Document, models.Audio, models.Video, models.Archive,
}

func set(values ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(values))
	for _, v := range values {
		out[v] = struct{}{}
	}
	return out
}

// Classify maps a MIME type and/or a fallback extension to a category and a
// canonical extension. Either argument may be empty.
func Classify(mime, fallbackExtension string) Classification {
	if entry, ok := mimeTable[NormalizeMIME(mime)]; ok {
		return Classification{Category: entry.category, Extension: entry.extension}
	}

	ext := NormalizeExtension(fallbackExtension)
	if ext == "" {
		return Classification{Category: models.Unknown}
	}
	for _, category := range categoryOrder {
		if _, ok := extensionSets[category][ext]; ok {
			return Classification{Category: category, Extension: ext}
		}
	}
	return Classification{Category: models.Unknown}
}

// ClassifyName classifies by MIME, falling back to the extension of name.
func ClassifyName(mime, name string) Classification {
	return Classify(mime, filepath.Ext(name))
}

// SupportedExtension reports whether ext appears in any of the extension sets.
func SupportedExtension(ext string) bool {
	return Classify("", ext).Category.Supported()
}

// NormalizeMIME lower-cases a MIME type and drops any parameters.
func NormalizeMIME(mime string) string {
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	return strings.ToLower(strings.TrimSpace(mime))
}

// NormalizeExtension lower-cases an extension and strips a leading dot.
func NormalizeExtension(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}
