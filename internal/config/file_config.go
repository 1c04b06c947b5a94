package config

import "strings"

// UploadPolicy is the subset of upload settings the image handler needs.
type UploadPolicy struct {
	MaxSize      int64
	AllowedTypes []string
	ImageQuality int
}

func (c *Config) UploadPolicy() UploadPolicy {
	return UploadPolicy{
		MaxSize:      c.Upload.MaxSize,
		AllowedTypes: c.Upload.AllowedTypes,
		ImageQuality: c.Upload.ImageQuality,
	}
}

// Allows reports whether the MIME type may be uploaded.
func (p UploadPolicy) Allows(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	for _, t := range p.AllowedTypes {
		if strings.EqualFold(t, ct) {
			return true
		}
	}
	return false
}
