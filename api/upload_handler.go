package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-site/database"
	"github.com/rpupo63/portfolio-site/errs"
	"github.com/rpupo63/portfolio-site/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
	"gorm.io/datatypes"
)

const maxUploadSize = 10 << 20

var uploadFormats = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

var uploadExtensions = map[string]string{
	"png":  ".png",
	"jpeg": ".jpg",
	"gif":  ".gif",
	"webp": ".webp",
}

// MediaStore puts uploaded bytes somewhere publicly reachable.
type MediaStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Provider() string
	Bucket() string
}

type uploadHandler struct {
	responder      Responder
	logger         zerolog.Logger
	mediaAssetRepo *database.MediaAssetRepo
	store          MediaStore
}

func newUploadHandler(mediaAssetRepo *database.MediaAssetRepo, store MediaStore) uploadHandler {
	logger := log.With().Str("handlerName", "uploadHandler").Logger()

	return uploadHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		mediaAssetRepo: mediaAssetRepo,
		store:          store,
	}
}

// uploadFiles stores images and records them as media assets
// @Summary Upload media
// @Description Accepts multipart "files" (png, jpeg, gif, webp), stores them and records media assets
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} Envelope "Created media assets"
// @Failure 400 {object} ErrorResponse "Bad Request - No files or malformed form"
// @Failure 413 {object} ErrorResponse "Request Entity Too Large"
// @Failure 415 {object} ErrorResponse "Unsupported Media Type"
// @Failure 503 {object} ErrorResponse "Service Unavailable - Media storage not configured"
// @Router /upload [post]
func (h uploadHandler) uploadFiles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.store == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("media storage", errs.ErrConfigMissing))
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				h.responder.WriteError(w, errs.NewMaxBodySizeExceededError(maxErr.Limit))
				return
			}
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart form", err))
			return
		}

		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("files"))
			return
		}

		alternativeText := optionalFormValue(r, "alternativeText")
		caption := optionalFormValue(r, "caption")

		assets := make([]models.MediaAsset, 0, len(files))
		for _, header := range files {
			file, err := header.Open()
			if err != nil {
				h.responder.WriteError(w, errs.NewMalformedPayloadError("file", err))
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				h.responder.WriteError(w, errs.NewMalformedPayloadError("file", err))
				return
			}

			imageConfig, format, err := image.DecodeConfig(bytes.NewReader(data))
			contentType, supported := uploadFormats[format]
			if err != nil || !supported {
				h.responder.WriteError(w, errs.NewUnsupportedMediaTypeError(
					header.Header.Get("Content-Type"), []string{"image/png", "image/jpeg", "image/gif", "image/webp"}))
				return
			}

			key := "uploads/" + uuid.NewString() + uploadExtensions[format]
			url, err := h.store.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data)))
			if err != nil {
				h.responder.WriteError(w, errs.NewServiceUnavailableError("media storage", err))
				return
			}

			metadata, _ := json.Marshal(map[string]string{"bucket": h.store.Bucket(), "key": key})
			asset := models.MediaAsset{
				Name:             strings.TrimSuffix(header.Filename, path.Ext(header.Filename)),
				AlternativeText:  alternativeText,
				Caption:          caption,
				Width:            imageConfig.Width,
				Height:           imageConfig.Height,
				URL:              url,
				Mime:             contentType,
				Size:             float64(len(data)) / 1024,
				Provider:         h.store.Provider(),
				ProviderMetadata: datatypes.JSON(metadata),
			}
			if err := h.mediaAssetRepo.Add(r.Context(), &asset); err != nil {
				h.responder.WriteError(w, wrapDatabaseError("create", "media asset", err))
				return
			}

			h.logger.Info().Str("key", key).Int("width", asset.Width).Int("height", asset.Height).Msg("media uploaded")
			assets = append(assets, asset)
		}

		h.responder.WriteData(w, http.StatusCreated, assets, nil)
	}
}

func optionalFormValue(r *http.Request, key string) *string {
	value := strings.TrimSpace(r.FormValue(key))
	if value == "" {
		return nil
	}
	return &value
}
