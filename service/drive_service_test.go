package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"armario-virtual/logger"
	"armario-virtual/models"
)

func newTestDrive(t *testing.T, handler http.HandlerFunc) *DriveService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	ds, err := newDriveService(context.Background(), logger.Discard(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return ds
}

func TestDriveService_ListImagesPaginates(t *testing.T) {
	ds := newTestDrive(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files", r.URL.Path)
		assert.Equal(t, "'folder-1' in parents and trashed=false", r.URL.Query().Get("q"))

		var files []map[string]string
		next := ""
		switch r.URL.Query().Get("pageToken") {
		case "":
			files = []map[string]string{
				{"id": "1", "name": "top-白襯衫.png", "mimeType": "image/png"},
				{"id": "2", "name": "notes.txt", "mimeType": "text/plain"},
			}
			next = "page-2"
		case "page-2":
			files = []map[string]string{
				{"id": "3", "name": "jeans.webp", "mimeType": "image/webp"},
				{"id": "4", "name": "coat.JPG", "mimeType": "IMAGE/JPEG"},
			}
		}
		json.NewEncoder(w).Encode(map[string]any{"files": files, "nextPageToken": next})
	})

	images, err := ds.ListImages(context.Background(), "folder-1")
	require.NoError(t, err)
	assert.Equal(t, []models.DriveImage{
		{FileID: "1", FileName: "top-白襯衫.png", MimeType: "image/png"},
		{FileID: "3", FileName: "jeans.webp", MimeType: "image/webp"},
		{FileID: "4", FileName: "coat.JPG", MimeType: "IMAGE/JPEG"},
	}, images)
}

func TestDriveService_ListImagesErrors(t *testing.T) {
	ds := newTestDrive(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"forbidden"}}`, http.StatusForbidden)
	})

	_, err := ds.ListImages(context.Background(), "folder-1")
	assert.ErrorIs(t, err, models.ErrNetwork)

	_, err = ds.ListImages(context.Background(), "x' or '1")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestDriveService_DownloadImage(t *testing.T) {
	ds := newTestDrive(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/abc", r.URL.Path)
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		w.Write([]byte{0x89, 'P', 'N', 'G'})
	})

	data, err := ds.DownloadImage(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}
