package portfolio

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"forgefolio/internal/extract"
	"forgefolio/internal/llm"
	"forgefolio/internal/shared/server/middleware"
	"forgefolio/internal/shared/server/respond"
	"forgefolio/internal/shared/telemetry"
	"forgefolio/internal/shared/util"
)

const (
	maxGenerateBody       = 1 << 20 // 1MB
	defaultMaxUploadBytes = 5 << 20 // 5MB

	// GenerateFailedMessage is the only upstream detail a caller sees.
	GenerateFailedMessage = "Failed to generate portfolio content. Please try again later."
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc, MaxUploadBytes: defaultMaxUploadBytes}
}

// RegisterRoutes attaches the catalog and import routes. Generate is
// registered separately so the router can rate limit it.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/templates", h.templates)
	r.GET("/sample-profiles", h.sampleProfiles)
	r.POST("/profile/import", h.importProfile)
}

// Generate handles POST /generate.
func (h *Handler) Generate(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxGenerateBody)
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "request body too large")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read request body")
		return
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "request body must be valid JSON")
		return
	}

	req, err := Validate(raw)
	if err != nil {
		if ve, ok := AsValidationError(err); ok {
			respond.Error(c, http.StatusBadRequest, "validation_error", ve.Error())
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request")
		return
	}

	content, err := h.Svc.Generate(c.Request.Context(), req)
	if err != nil {
		h.logGenerateFailure(c, err)
		if llm.IsUpstream(err) {
			respond.Error(c, http.StatusBadGateway, "upstream_error", GenerateFailedMessage)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", GenerateFailedMessage)
		return
	}

	respond.OK(c, gin.H{"success": true, "content": content})
}

func (h *Handler) logGenerateFailure(c *gin.Context, err error) {
	fields := map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"provider":   h.Svc.Provider,
		"model":      h.Svc.Model,
		"error":      err,
	}
	var ue *llm.UpstreamError
	if errors.As(err, &ue) {
		fields["kind"] = string(ue.Kind)
		if ue.StatusCode != 0 {
			fields["upstream_status"] = ue.StatusCode
		}
	}
	telemetry.Error("portfolio.generate_failed", fields)
}

func (h *Handler) templates(c *gin.Context) {
	respond.OK(c, gin.H{"success": true, "templates": h.Svc.Catalog.TemplatesByID()})
}

func (h *Handler) sampleProfiles(c *gin.Context) {
	h.Svc.TrackSamplesViewed(c.Request.Context())
	respond.OK(c, gin.H{"success": true, "profiles": h.Svc.Catalog.SamplesByID()})
}

func (h *Handler) importProfile(c *gin.Context) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	// Multipart framing needs headroom over the file itself.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+64<<10)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file too large")
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	if fileHeader.Size > limit {
		respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "file too large")
		return
	}

	fileName, err := util.SanitizeFileName(fileHeader.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}

	text, err := extract.ExtractText(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileName)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupported):
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_file", "only PDF, DOCX and plain text files are supported")
		case errors.Is(err, extract.ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "validation_error", "document too large")
		case errors.Is(err, extract.ErrNoText):
			respond.Error(c, http.StatusUnprocessableEntity, "empty_file", "no text could be read from the file")
		default:
			telemetry.Warn("profile.import_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"file_name":  fileName,
				"error":      err,
			})
			respond.Error(c, http.StatusUnprocessableEntity, "unreadable_file", "the file could not be read")
		}
		return
	}

	h.Svc.TrackImport(c.Request.Context())
	respond.OK(c, gin.H{"success": true, "text": text})
}
