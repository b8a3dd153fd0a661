package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/sakif/videotube/internal/apperror"
	"github.com/sakif/videotube/internal/auth"
	"github.com/sakif/videotube/internal/media"
	"github.com/sakif/videotube/internal/model"
)

// maxJSONBody caps JSON request bodies. Uploads use the configured
// multipart limit instead.
const maxJSONBody = 1 << 20

// multipartMemory is how much of a multipart form is kept in memory before
// file parts spill to temporary files.
const multipartMemory = 32 << 20

// decodeJSON reads a JSON body into dst. An empty body leaves dst untouched
// so the service can report the missing fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("", "Invalid JSON body")
	}
	return nil
}

// caller returns the authenticated user id. RequireAuth guarantees it is
// present on every route that calls this.
func caller(r *http.Request) string {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}

// queryInt parses an optional integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperror.ValidationFailed(name, name+" must be a non-negative integer")
	}
	return n, nil
}

// pageRequest reads ?page and ?limit. Missing values stay zero; the service
// applies defaults.
func pageRequest(r *http.Request) (model.PageRequest, error) {
	page, err := queryInt(r, "page")
	if err != nil {
		return model.PageRequest{}, err
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		return model.PageRequest{}, err
	}
	return model.PageRequest{Page: page, Limit: limit}, nil
}

// parseMultipart parses a multipart form of at most maxBytes. The caller
// must defer cleanupMultipart(r).
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.ValidationFailed("", "Upload is too large")
		}
		return apperror.ValidationFailed("", "Invalid multipart form")
	}
	return nil
}

// cleanupMultipart closes uploaded parts and removes any temporary files.
func cleanupMultipart(r *http.Request, files ...*media.File) {
	for _, f := range files {
		if f == nil {
			continue
		}
		if c, ok := f.Body.(io.Closer); ok {
			_ = c.Close()
		}
	}
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}

// formFile opens the named file part. A missing part returns nil, nil; the
// service decides whether it was required.
func formFile(r *http.Request, field string) (*media.File, error) {
	f, hdr, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.ValidationFailed(field, "Invalid "+field+" upload")
	}
	return newMediaFile(f, hdr), nil
}

func newMediaFile(f multipart.File, hdr *multipart.FileHeader) *media.File {
	return &media.File{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        f,
	}
}
