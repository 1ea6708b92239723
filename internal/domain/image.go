package domain

import (
	"strings"
	"time"
)

// LocalImagePrefix marks an image reference that lives in the image store.
const LocalImagePrefix = "local-blob:"

// Image is an uploaded binary asset.
type Image struct {
	ID          string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Size returns the payload length in bytes.
func (i *Image) Size() int {
	return len(i.Data)
}

// LocalImageRef builds the reference stored in the aggregate for an uploaded image.
func LocalImageRef(id string) string {
	return LocalImagePrefix + id
}

// ParseLocalImageRef extracts the image id from a local reference.
func ParseLocalImageRef(ref string) (string, bool) {
	if !strings.HasPrefix(ref, LocalImagePrefix) {
		return "", false
	}
	id := strings.TrimPrefix(ref, LocalImagePrefix)
	if id == "" {
		return "", false
	}
	return id, true
}

// ImageURLFunc maps an image id to the URL it is served from.
type ImageURLFunc func(id string) string

// ResolveImageURL turns an image reference into something a browser can load.
// Remote URLs pass through, local references resolve through exists and urlFor,
// and unresolvable local references fall back to placeholder.
func ResolveImageURL(ref string, exists func(id string) bool, urlFor ImageURLFunc, placeholder string) string {
	if ref == "" {
		return ""
	}
	if !strings.HasPrefix(ref, LocalImagePrefix) {
		return ref
	}
	id, ok := ParseLocalImageRef(ref)
	if !ok || exists == nil || !exists(id) {
		return placeholder
	}
	return urlFor(id)
}

// ReferencedImageIDs lists the ids of every local image the portfolio points at.
func (p *Portfolio) ReferencedImageIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	if id, ok := ParseLocalImageRef(p.PersonalInfo.ProfileImageURL); ok {
		ids[id] = struct{}{}
	}
	for _, proj := range p.Projects {
		if id, ok := ParseLocalImageRef(proj.ImageURL); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}
