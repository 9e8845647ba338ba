package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bbasketballer75/guestfolio/internal/model"
	"github.com/bbasketballer75/guestfolio/internal/queue"
)

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.listAlbum(w, r)
}

func (s *Server) handleAlbumRoute(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/album/")
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1 && parts[0] == "upload":
		s.uploadPhoto(w, r)
	case len(parts) == 1 && parts[0] == "all":
		s.requireAdmin(s.listAllPhotos)(w, r)
	case len(parts) == 1 && parts[0] == "moderate":
		s.requireAdmin(s.moderatePhoto)(w, r)
	case len(parts) == 2 && parts[1] == "download-url":
		photoID := parts[0]
		s.requireAdmin(func(w http.ResponseWriter, r *http.Request) {
			s.photoDownloadURL(w, r, photoID)
		})(w, r)
	default:
		respondError(w, http.StatusNotFound, "not found")
	}
}

// publicPhoto decorates the photo metadata with a short-lived signed URL.
type publicPhoto struct {
	model.Photo
	DownloadURL string `json:"downloadUrl"`
}

func (s *Server) listAlbum(w http.ResponseWriter, r *http.Request) {
	photos, err := s.stores.Photos.ListApprovedPhotos(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	out := make([]publicPhoto, 0, len(photos))
	for _, photo := range photos {
		out = append(out, publicPhoto{
			Photo:       photo,
			DownloadURL: s.signedMediaURL(photo.ID),
		})
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"photos": out,
	})
}

func (s *Server) signedMediaURL(photoID string) string {
	expires := time.Now().Add(s.cfg.SignedURLTTL).Unix()
	params := url.Values{}
	params.Set("photo", photoID)
	params.Set("expires", strconv.FormatInt(expires, 10))
	params.Set("signature", s.signer.Sign(photoID, expires))
	return "/media/download?" + params.Encode()
}

func (s *Server) uploadPhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024)
	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, http.StatusBadRequest, "expecting multipart form")
		return
	}
	var (
		tmp     *tempUpload
		caption string
		byWhom  string
	)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read upload")
			return
		}
		switch part.FormName() {
		case "file":
			if tmp == nil {
				tmp, err = s.persistTemp(part)
				if err != nil {
					part.Close()
					respondError(w, http.StatusBadRequest, err.Error())
					return
				}
			}
			part.Close()
		case "caption":
			caption = readFormValue(part)
		case "uploadedBy":
			byWhom = readFormValue(part)
		default:
			part.Close()
		}
	}
	if tmp == nil {
		respondError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer os.Remove(tmp.path)
	defer tmp.f.Close()
	if !s.allowedMediaType(tmp.contentType) {
		respondError(w, http.StatusBadRequest, "media type not allowed")
		return
	}
	photoID := uuid.NewString()
	objectKey := fmt.Sprintf("album/%s/%s", photoID, filepath.Base(tmp.filename))
	if _, err := tmp.f.Seek(0, 0); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	if err := s.blobs.Upload(ctx, objectKey, tmp.f, tmp.size, tmp.contentType); err != nil {
		s.log.Error("blob upload failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	photo := &model.Photo{
		ID:          photoID,
		FileName:    tmp.filename,
		ObjectKey:   objectKey,
		ContentType: tmp.contentType,
		SizeBytes:   tmp.size,
		Caption:     strings.TrimSpace(caption),
		UploadedBy:  strings.TrimSpace(byWhom),
		Status:      model.PhotoUploaded,
		Approved:    false,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.stores.Photos.CreatePhoto(ctx, photo); err != nil {
		respondStoreError(w, err)
		return
	}
	payload := queue.IngestPayload{
		PhotoID:   photoID,
		ObjectKey: objectKey,
		FileName:  tmp.filename,
	}
	if err := s.queue.EnqueueIngest(ctx, payload); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to queue ingest")
		return
	}
	respondData(w, http.StatusAccepted, map[string]string{
		"id":     photoID,
		"status": string(model.PhotoUploaded),
	})
}

func (s *Server) listAllPhotos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	photos, err := s.stores.Photos.ListAllPhotos(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if photos == nil {
		photos = []model.Photo{}
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"photos": photos,
	})
}

type moderatePhotoPayload struct {
	PhotoID    string `json:"photoId"`
	IsApproved *bool  `json:"isApproved"`
}

func (s *Server) moderatePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var payload moderatePhotoPayload
	if err := decodeJSON(r.Body, &payload); err != nil || payload.PhotoID == "" || payload.IsApproved == nil {
		respondError(w, http.StatusBadRequest, "photoId and isApproved are required")
		return
	}
	ctx := r.Context()
	photo, err := s.stores.Photos.GetPhoto(ctx, payload.PhotoID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if *payload.IsApproved {
		updated, err := s.stores.Photos.SetPhotoApproval(ctx, photo.ID, true, time.Now().UTC())
		if err != nil {
			respondStoreError(w, err)
			return
		}
		respondData(w, http.StatusOK, map[string]interface{}{
			"message":  "photo approved",
			"photoId":  updated.ID,
			"approved": true,
		})
		return
	}
	// Rejected photos are deleted outright, blob first so a failure here
	// never leaves a row pointing at a missing object.
	if err := s.blobs.Remove(ctx, photo.ObjectKey); err != nil {
		s.log.Error("blob remove failed", zap.String("photo_id", photo.ID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "failed to delete media")
		return
	}
	if err := s.stores.Photos.DeletePhoto(ctx, photo.ID); err != nil {
		respondStoreError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"message":  "photo rejected and deleted",
		"photoId":  photo.ID,
		"approved": false,
	})
}

func (s *Server) photoDownloadURL(w http.ResponseWriter, r *http.Request, photoID string) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	photo, err := s.stores.Photos.GetPhoto(r.Context(), photoID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	signed, err := s.blobs.PresignGet(r.Context(), photo.ObjectKey, s.cfg.SignedURLTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate url")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"url": signed})
}

func (s *Server) handleMediaDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	photoID := r.URL.Query().Get("photo")
	expires := r.URL.Query().Get("expires")
	signature := r.URL.Query().Get("signature")
	if photoID == "" || expires == "" || signature == "" {
		respondError(w, http.StatusBadRequest, "missing parameters")
		return
	}
	expiryUnix, err := strconv.ParseInt(expires, 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid expires")
		return
	}
	if time.Unix(expiryUnix, 0).Before(time.Now()) {
		respondError(w, http.StatusUnauthorized, "url expired")
		return
	}
	if !s.signer.Validate(photoID, expires, signature) {
		respondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}
	photo, err := s.stores.Photos.GetPhoto(r.Context(), photoID)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	if !photo.Approved {
		respondError(w, http.StatusNotFound, "record not found")
		return
	}
	obj, err := s.blobs.Get(r.Context(), photo.ObjectKey)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "media unavailable")
		return
	}
	defer obj.Close()
	w.Header().Set("Content-Type", photo.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(photo.SizeBytes, 10))
	w.Header().Set("Content-Disposition", `inline; filename="`+photo.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, obj)
}

type tempUpload struct {
	f           *os.File
	path        string
	size        int64
	contentType string
	filename    string
}

// persistTemp streams the multipart file part to a temp file, sniffing the
// content type from the first 512 bytes and enforcing the size limit.
func (s *Server) persistTemp(part *multipart.Part) (*tempUpload, error) {
	tmpFile, err := os.CreateTemp("", "guestfolio-upload-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	var sniff []byte
	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, readErr := part.Read(buf)
		if n > 0 {
			written += int64(n)
			if written > s.cfg.MaxUploadBytes {
				tmpFile.Close()
				os.Remove(tmpFile.Name())
				return nil, fmt.Errorf("file exceeds limit (%d bytes)", s.cfg.MaxUploadBytes)
			}
			if len(sniff) < 512 {
				chunk := n
				if remain := 512 - len(sniff); chunk > remain {
					chunk = remain
				}
				sniff = append(sniff, buf[:chunk]...)
			}
			if _, err := tmpFile.Write(buf[:n]); err != nil {
				tmpFile.Close()
				os.Remove(tmpFile.Name())
				return nil, fmt.Errorf("write temp file: %w", err)
			}
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			tmpFile.Close()
			os.Remove(tmpFile.Name())
			return nil, fmt.Errorf("read file: %w", readErr)
		}
	}
	if written == 0 {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
		return nil, errors.New("empty file")
	}
	contentType := http.DetectContentType(sniff)
	if _, err := tmpFile.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("rewind temp file: %w", err)
	}
	filename := part.FileName()
	if filename == "" {
		filename = "upload"
	}
	return &tempUpload{
		f:           tmpFile,
		path:        tmpFile.Name(),
		size:        written,
		contentType: contentType,
		filename:    filename,
	}, nil
}

func (s *Server) allowedMediaType(contentType string) bool {
	for _, allowed := range s.cfg.AllowedMediaTypes {
		if allowed == contentType {
			return true
		}
	}
	return false
}

func readFormValue(part *multipart.Part) string {
	defer part.Close()
	data, err := io.ReadAll(io.LimitReader(part, 1024))
	if err != nil {
		return ""
	}
	return string(data)
}
