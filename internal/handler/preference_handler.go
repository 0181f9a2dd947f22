package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"midad/internal/service"
)

// PreferenceHandler handles theme and language preference endpoints.
type PreferenceHandler struct {
	preferenceService service.PreferenceService
}

// NewPreferenceHandler creates a new PreferenceHandler.
func NewPreferenceHandler(preferenceService service.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{preferenceService: preferenceService}
}

// Get handles GET /api/v1/preferences
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Success 200 {object} Response{data=domain.Preferences} "Current preferences"
// @Router /preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	RespondOK(c, h.preferenceService.Get(c.Request.Context()))
}

// Update handles PUT /api/v1/preferences
// @Summary Update preferences
// @Description Omitted fields are left unchanged
// @Tags preferences
// @Accept json
// @Produce json
// @Param body body UpdatePreferencesRequest true "New preferences"
// @Success 200 {object} Response{data=domain.Preferences} "Updated preferences"
// @Failure 400 {object} ErrorResponseBody "Invalid theme or language"
// @Router /preferences [put]
func (h *PreferenceHandler) Update(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	prefs, err := h.preferenceService.Update(c.Request.Context(), &service.UpdatePreferencesInput{
		Theme:    req.Theme,
		Language: req.Language,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, prefs)
}

// ToggleTheme handles POST /api/v1/preferences/theme/toggle
// @Summary Toggle light/dark theme
// @Tags preferences
// @Produce json
// @Success 200 {object} Response{data=domain.Preferences} "Updated preferences"
// @Router /preferences/theme/toggle [post]
func (h *PreferenceHandler) ToggleTheme(c *gin.Context) {
	prefs, err := h.preferenceService.ToggleTheme(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, prefs)
}

// CycleLanguage handles POST /api/v1/preferences/language/cycle
// @Summary Switch to the next language (ar, en, fr)
// @Tags preferences
// @Produce json
// @Success 200 {object} Response{data=domain.Preferences} "Updated preferences"
// @Router /preferences/language/cycle [post]
func (h *PreferenceHandler) CycleLanguage(c *gin.Context) {
	prefs, err := h.preferenceService.CycleLanguage(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, prefs)
}
