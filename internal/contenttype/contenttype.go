// Package contenttype maps file extensions to the MIME types served on download.
package contenttype

import "strings"

// Default is returned for any extension not in the table.
const Default = "application/octet-stream"

var byExtension = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".zip":  "application/zip",
	".rar":  "application/x-rar-compressed",
	".7z":   "application/x-7z-compressed",
}

// ForExtension returns the MIME type for ext. Matching is case-insensitive and
// the leading dot is optional.
func ForExtension(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && ext[0] != '.' {
		ext = "." + ext
	}
	if ct, ok := byExtension[ext]; ok {
		return ct
	}
	return Default
}
