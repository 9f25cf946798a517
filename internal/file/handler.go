package file

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/filedrop/service/internal/contenttype"
	"github.com/filedrop/service/internal/metrics"
	"github.com/filedrop/service/internal/response"
)

const (
	msgRejected    = "No file uploaded or file too large."
	msgNotFound    = "File not found"
	msgListFailed  = "Unable to read uploads directory"
	msgServerError = "internal server error"

	// multipartSlack covers boundaries and part headers around the file.
	multipartSlack = 1 << 20
	// parts above this size are spooled to disk while parsing
	multipartMemory = 1 << 20

	// expiryLayout matches JavaScript's Date.prototype.toISOString.
	expiryLayout = "2006-01-02T15:04:05.000Z07:00"
)

// UploadResponse is returned by a successful upload.
type UploadResponse struct {
	FileURL    string `json:"fileUrl" example:"/uploads/3f1c2a4e-8b7d-4c2a-9e1f-0a1b2c3d4e5f.pdf"`
	Key        string `json:"key" example:"3f1c2a4e-8b7d-4c2a-9e1f-0a1b2c3d4e5f"`
	Extension  string `json:"extension" example:".pdf"`
	ExpiryTime string `json:"expiryTime" example:"2026-01-01T13:00:00.000Z"`
}

// MetadataResponse describes a stored file.
type MetadataResponse struct {
	Extension string `json:"extension" example:".pdf"`
}

// Handler holds HTTP handlers for the file endpoints.
type Handler struct {
	svc     *Service
	baseURL string
}

// NewHandler creates a new file Handler. baseURL is prepended to the fileUrl
// of upload responses and may be empty.
func NewHandler(svc *Service, baseURL string) *Handler {
	return &Handler{svc: svc, baseURL: strings.TrimRight(baseURL, "/")}
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Stores a single file (field "file", at most 10 MiB) under a new key.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File to share"
//	@Success		200		{object}	UploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.svc.MaxUploadBytes()+multipartSlack)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			metrics.RejectedUploadsTotal.WithLabelValues("too_large").Inc()
		} else {
			metrics.RejectedUploadsTotal.WithLabelValues("malformed").Inc()
		}
		log.Debugf("upload: parse form: %v", err)
		response.BadRequest(w, msgRejected)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, header, err := r.FormFile("file")
	if err != nil {
		metrics.RejectedUploadsTotal.WithLabelValues("no_file").Inc()
		h.fail(w, "upload", ErrNoFile)
		return
	}
	defer f.Close()

	e, err := h.svc.Upload(r.Context(), f, header.Size, header.Filename)
	if err != nil {
		h.fail(w, "upload", err)
		return
	}

	response.OK(w, UploadResponse{
		FileURL:    h.baseURL + "/uploads/" + e.StorageName,
		Key:        e.Key,
		Extension:  e.Extension,
		ExpiryTime: e.ExpiresAt.UTC().Format(expiryLayout),
	})
}

// Metadata godoc
//
//	@Summary		Get file metadata
//	@Description	Returns the extension of the file stored under key.
//	@Tags			files
//	@Produce		json
//	@Param			key	path		string	true	"File key"
//	@Success		200	{object}	MetadataResponse
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/file-metadata/{key} [get]
func (h *Handler) Metadata(w http.ResponseWriter, r *http.Request) {
	e, err := h.svc.Metadata(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.fail(w, "metadata", err)
		return
	}
	response.OK(w, MetadataResponse{Extension: e.Extension})
}

// Download godoc
//
//	@Summary		Download a file
//	@Description	Streams the file stored under key as an attachment.
//	@Tags			files
//	@Produce		octet-stream
//	@Param			key	path		string	true	"File key"
//	@Success		200	{file}		binary
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/download/{key} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Open(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.fail(w, "download", err)
		return
	}
	defer d.Close()
	h.serve(w, r, d, "attachment")
}

// Object godoc
//
//	@Summary		Fetch a file by storage name
//	@Description	Serves the file named in an upload's fileUrl.
//	@Tags			files
//	@Produce		octet-stream
//	@Param			name	path		string	true	"Storage name (key plus extension)"
//	@Success		200		{file}		binary
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/uploads/{name} [get]
func (h *Handler) Object(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.OpenStored(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, "object", err)
		return
	}
	defer d.Close()
	h.serve(w, r, d, "inline")
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, d *Download, disposition string) {
	info := d.Object.Info()
	w.Header().Set("Content-Type", contenttype.ForExtension(d.Entry.Extension))
	w.Header().Set("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{
		"filename": d.Entry.StorageName,
	}))

	if rs, ok := d.Object.(io.ReadSeeker); ok {
		http.ServeContent(w, r, "", info.ModTime, rs)
		return
	}

	w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	if _, err := io.Copy(w, d.Object); err != nil {
		log.Warningf("%s: stream %s: %v", r.URL.Path, d.Entry.StorageName, err)
	}
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	var se *StorageError
	switch {
	case errors.Is(err, ErrTooLarge), errors.Is(err, ErrNoFile):
		response.BadRequest(w, msgRejected)
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, msgNotFound)
	case errors.As(err, &se) && se.Op == OpList:
		log.Errorf("%s: %v", op, err)
		response.InternalError(w, msgListFailed)
	default:
		log.Errorf("%s: %v", op, err)
		response.InternalError(w, msgServerError)
	}
}
