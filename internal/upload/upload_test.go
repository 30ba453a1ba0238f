package upload

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryObjects struct {
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newMemoryObjects() *memoryObjects {
	return &memoryObjects{objects: map[string][]byte{}, types: map[string]string{}}
}

func (m *memoryObjects) Put(ctx context.Context, key, contentType string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.objects[key] = body
	m.types[key] = contentType
	return nil
}

// pngHeader is enough for content sniffing
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestUploadStoresImage(t *testing.T) {
	objects := newMemoryObjects()
	svc := NewService(objects, "https://cdn.example.com/", 1024)

	res, err := svc.Upload(context.Background(), bytes.NewReader(pngHeader))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(res.FileURL, "https://cdn.example.com/stories/"))
	assert.True(t, strings.HasSuffix(res.FileURL, ".png"))

	key := strings.TrimPrefix(res.FileURL, "https://cdn.example.com/")
	assert.Equal(t, pngHeader, objects.objects[key])
	assert.Equal(t, "image/png", objects.types[key])
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name string
		body []byte
		tag  string
	}{
		{"empty", nil, "required"},
		{"not an image", []byte("just some text, definitely not a picture"), "image"},
		{"too large", append(append([]byte{}, pngHeader...), make([]byte, 64)...), "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objects := newMemoryObjects()
			svc := NewService(objects, "https://cdn.example.com", 32)

			_, err := svc.Upload(context.Background(), bytes.NewReader(tt.body))
			var verr *models.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.tag, verr.Fields["file"])
			assert.Empty(t, objects.objects)
		})
	}
}

func TestUploadSurfacesStorageFailure(t *testing.T) {
	objects := newMemoryObjects()
	objects.err = models.ErrNetwork
	svc := NewService(objects, "https://cdn.example.com", 1024)

	_, err := svc.Upload(context.Background(), bytes.NewReader(pngHeader))
	assert.True(t, errors.Is(err, models.ErrNetwork))
}
