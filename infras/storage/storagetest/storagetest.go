// Package storagetest builds multipart uploads for tests.
package storagetest

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// PNG is the smallest payload mimetype recognises as image/png.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

// File is one part of a multipart form.
type File struct {
	Field   string
	Name    string
	Content []byte
}

// Form is a multipart body made of plain values and files.
type Form struct {
	Values [][2]string
	Files  []File
}

// Encode writes the form and returns its body and content type.
func (f Form) Encode(t testing.TB) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, kv := range f.Values {
		if err := writer.WriteField(kv[0], kv[1]); err != nil {
			t.Fatalf("write field %s: %v", kv[0], err)
		}
	}

	for _, file := range f.Files {
		part, err := writer.CreateFormFile(file.Field, file.Name)
		if err != nil {
			t.Fatalf("create form file %s: %v", file.Name, err)
		}

		if _, err = part.Write(file.Content); err != nil {
			t.Fatalf("write form file %s: %v", file.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	return body, writer.FormDataContentType()
}

// Request builds an http request carrying the form.
func (f Form) Request(t testing.TB, method, target string) *http.Request {
	t.Helper()

	body, contentType := f.Encode(t)

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)

	return req
}

// FileHeaders parses the form back and returns the headers uploaded under field.
func (f Form) FileHeaders(t testing.TB, field string) []*multipart.FileHeader {
	t.Helper()

	req := f.Request(t, http.MethodPost, "/")
	if err := req.ParseMultipartForm(10 << 20); err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}

	return req.MultipartForm.File[field]
}

// FileHeader returns a single uploaded file header.
func FileHeader(t testing.TB, field, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	headers := Form{Files: []File{{Field: field, Name: name, Content: content}}}.FileHeaders(t, field)
	if len(headers) != 1 {
		t.Fatalf("expected one file header, got %d", len(headers))
	}

	return headers[0]
}
