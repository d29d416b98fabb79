package supabase

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Bucket uploads objects into one storage bucket.
type Bucket struct {
	c    *Client
	name string
}

func NewBucket(c *Client, name string) *Bucket { return &Bucket{c: c, name: name} }

// Upload stores data under objectName, replacing any existing object, and
// returns its public URL.
func (b *Bucket) Upload(ctx context.Context, objectName, contentType string, data []byte) (string, error) {
	path := "/storage/v1/object/" + b.name + "/" + escapeObject(objectName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, b.c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("apikey", b.c.Key)
	req.Header.Set("Authorization", "Bearer "+b.c.Key)
	req.Header.Set("x-upsert", "true")

	if err := b.c.do(req, nil); err != nil {
		return "", err
	}
	return b.PublicURL(objectName), nil
}

func (b *Bucket) PublicURL(objectName string) string {
	return b.c.BaseURL + "/storage/v1/object/public/" + b.name + "/" + escapeObject(objectName)
}

func escapeObject(name string) string {
	parts := strings.Split(name, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
