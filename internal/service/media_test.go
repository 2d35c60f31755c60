package service

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"pulsefeed/internal/model"
)

type mockStorage struct {
	putKeys      []string
	putTypes     []string
	putErr       error
	deletedKeys  []string
	deleteErr    error
	lastPutBytes []byte
}

func (m *mockStorage) Put(ctx context.Context, key string, body []byte, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.putKeys = append(m.putKeys, key)
	m.putTypes = append(m.putTypes, contentType)
	m.lastPutBytes = body
	return nil
}

func (m *mockStorage) Delete(ctx context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedKeys = append(m.deletedKeys, key)
	return nil
}

// fakeFile adapts a bytes.Reader to the multipart.File interface.
type fakeFile struct {
	*bytes.Reader
}

func (fakeFile) Close() error { return nil }

func uploadParts(filename, contentType string, body []byte) (multipart.File, *multipart.FileHeader) {
	header := &multipart.FileHeader{
		Filename: filename,
		Size:     int64(len(body)),
		Header:   textproto.MIMEHeader{},
	}
	header.Header.Set("Content-Type", contentType)
	return fakeFile{bytes.NewReader(body)}, header
}

func TestMediaService_UploadPostImage_Success(t *testing.T) {
	storage := &mockStorage{}
	svc := NewMediaService(storage, "https://cdn.example.com/")

	file, header := uploadParts("photo.PNG", "image/png", []byte("pngbytes"))

	result, err := svc.UploadPostImage(context.Background(), file, header)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(result.Key, model.PostImageFolder+"/"+model.PostImageField+"-") {
		t.Errorf("key = %q, want posts/image- prefix", result.Key)
	}
	if !strings.HasSuffix(result.Key, ".png") {
		t.Errorf("key = %q, want lowercased .png extension", result.Key)
	}
	// Trailing slash on the public URL must not double up.
	if result.URL != "https://cdn.example.com/"+result.Key {
		t.Errorf("url = %q, want public URL joined with key", result.URL)
	}

	if len(storage.putKeys) != 1 || storage.putKeys[0] != result.Key {
		t.Errorf("stored keys = %v, want [%s]", storage.putKeys, result.Key)
	}
	if storage.putTypes[0] != "image/png" {
		t.Errorf("stored content type = %q, want image/png", storage.putTypes[0])
	}
	if string(storage.lastPutBytes) != "pngbytes" {
		t.Errorf("stored bytes = %q", storage.lastPutBytes)
	}
}

func TestMediaService_UploadPostImage_UniqueKeys(t *testing.T) {
	storage := &mockStorage{}
	svc := NewMediaService(storage, "https://cdn.example.com")

	file1, header1 := uploadParts("a.jpg", "image/jpeg", []byte("one"))
	file2, header2 := uploadParts("a.jpg", "image/jpeg", []byte("two"))

	r1, err := svc.UploadPostImage(context.Background(), file1, header1)
	if err != nil {
		t.Fatalf("first upload: %v", err)
	}
	r2, err := svc.UploadPostImage(context.Background(), file2, header2)
	if err != nil {
		t.Fatalf("second upload: %v", err)
	}

	if r1.Key == r2.Key {
		t.Errorf("identical filenames produced the same key %q", r1.Key)
	}
}

func TestMediaService_UploadPostImage_Validation(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		wantErr     error
	}{
		{
			name:        "size exactly at limit",
			filename:    "big.png",
			contentType: "image/png",
			size:        model.MaxImageSizeBytes,
		},
		{
			name:        "oversized file",
			filename:    "big.png",
			contentType: "image/png",
			size:        model.MaxImageSizeBytes + 1,
			wantErr:     model.ErrFileTooLarge,
		},
		{
			name:        "no extension",
			filename:    "photo",
			contentType: "image/png",
			wantErr:     model.ErrMissingFilename,
		},
		{
			name:        "disallowed extension",
			filename:    "script.svg",
			contentType: "image/png",
			wantErr:     model.ErrInvalidMedia,
		},
		{
			name:        "disallowed content type",
			filename:    "photo.png",
			contentType: "application/octet-stream",
			wantErr:     model.ErrInvalidMedia,
		},
		{
			name:        "content type with parameters accepted",
			filename:    "photo.png",
			contentType: "image/png; charset=utf-8",
		},
		{
			name:        "webp accepted",
			filename:    "photo.webp",
			contentType: "image/webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := &mockStorage{}
			svc := NewMediaService(storage, "https://cdn.example.com")

			body := []byte("data")
			file, header := uploadParts(tt.filename, tt.contentType, body)
			if tt.size > 0 {
				header.Size = tt.size
			}

			_, err := svc.UploadPostImage(context.Background(), file, header)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if len(storage.putKeys) != 0 {
					t.Error("invalid upload must not reach storage")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestMediaService_RemovePostImage(t *testing.T) {
	storage := &mockStorage{}
	svc := NewMediaService(storage, "https://cdn.example.com")

	// Empty key is a no-op, not an error.
	if err := svc.RemovePostImage(context.Background(), ""); err != nil {
		t.Errorf("empty key: %v", err)
	}
	if len(storage.deletedKeys) != 0 {
		t.Error("empty key should not reach storage")
	}

	if err := svc.RemovePostImage(context.Background(), "posts/image-1-abc.png"); err != nil {
		t.Errorf("remove: %v", err)
	}
	if len(storage.deletedKeys) != 1 || storage.deletedKeys[0] != "posts/image-1-abc.png" {
		t.Errorf("deleted keys = %v", storage.deletedKeys)
	}
}

func TestMediaService_RemovePostImage_PropagatesError(t *testing.T) {
	storage := &mockStorage{deleteErr: errors.New("bucket unavailable")}
	svc := NewMediaService(storage, "https://cdn.example.com")

	if err := svc.RemovePostImage(context.Background(), "posts/image-1-abc.png"); err == nil {
		t.Error("expected storage error to propagate")
	}
}
