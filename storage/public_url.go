package storage

import (
	"fmt"
	"strings"
)

// PublicURLBuilder constructs public URLs for stored image keys.
type PublicURLBuilder struct {
	baseURL string
	bucket  string
}

func NewPublicURLBuilder(baseURL, bucket string) *PublicURLBuilder {
	return &PublicURLBuilder{
		baseURL: strings.TrimRight(baseURL, "/"),
		bucket:  bucket,
	}
}

// ImageURL maps a stored image key to its public JPEG URL.
func (b *PublicURLBuilder) ImageURL(key string) string {
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s.jpg", b.baseURL, b.bucket, key)
}
