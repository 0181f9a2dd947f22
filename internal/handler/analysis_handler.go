package handler

import (
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"midad/internal/domain"
	"midad/internal/encoder"
	"midad/internal/service"
)

// AnalysisHandler handles document analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	maxBytes        int64
}

// NewAnalysisHandler creates a new AnalysisHandler. maxFileSizeMB <= 0 disables the size check.
func NewAnalysisHandler(analysisService service.AnalysisService, maxFileSizeMB int64) *AnalysisHandler {
	return &AnalysisHandler{
		analysisService: analysisService,
		maxBytes:        maxFileSizeMB * 1024 * 1024,
	}
}

// Analyze handles POST /api/v1/analyses
// @Summary Analyze a document
// @Description Upload an image or PDF; returns a summary and a 10-question quiz and stores them in history
// @Tags analyses
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image or PDF to analyze"
// @Param language formData string false "Output language: ar, en, fr (defaults to the stored preference)"
// @Param prompt formData string false "Replaces the default user instruction"
// @Success 201 {object} Response{data=service.AnalyzeOutput} "Analysis completed"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or invalid language"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 500 {object} ErrorResponseBody "Analysis failed"
// @Router /analyses [post]
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxBytes > 0 && header.Size > h.maxBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	mediaType, err := resolveMediaType(file, header)
	if err != nil {
		HandleError(c, err)
		return
	}

	var lang domain.Language
	if raw := c.PostForm("language"); raw != "" {
		if lang, err = domain.ParseLanguage(raw); err != nil {
			HandleError(c, err)
			return
		}
	}

	out, err := h.analysisService.Analyze(c.Request.Context(), &service.AnalyzeInput{
		File: domain.SourceFile{
			Name:      filepath.Base(header.Filename),
			MediaType: mediaType,
			Body:      file,
		},
		Language: lang,
		Prompt:   c.PostForm("prompt"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, out)
}

// resolveMediaType trusts the part's declared type when it is an accepted
// one, otherwise falls back to the extension and content sniffing.
func resolveMediaType(file multipart.File, header *multipart.FileHeader) (string, error) {
	if declared, _, err := mime.ParseMediaType(header.Header.Get("Content-Type")); err == nil && domain.AllowedContentTypes[declared] {
		return declared, nil
	}
	detected, err := encoder.DetectMediaType(file, header.Filename)
	if err != nil {
		return "", err
	}
	if !domain.AllowedContentTypes[detected] {
		return "", domain.ErrUnsupportedFileType
	}
	return detected, nil
}
