package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/profileforms-backend/internal/http/response"
	"github.com/yungbote/profileforms-backend/internal/modules/profiles/migration"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
	"github.com/yungbote/profileforms-backend/internal/services"
)

// ProfileTypeHandler serves the admin schema editor and the read-only
// schema endpoints the form renderer uses.
type ProfileTypeHandler struct {
	log *logger.Logger
	svc services.ProfileTypeService
}

func NewProfileTypeHandler(log *logger.Logger, svc services.ProfileTypeService) *ProfileTypeHandler {
	return &ProfileTypeHandler{log: log.With("handler", "ProfileTypeHandler"), svc: svc}
}

// GET /api/profile-types, GET /api/admin/profile-types
func (h *ProfileTypeHandler) List(c *gin.Context) {
	pts, err := h.svc.GetProfileTypes(c.Request.Context())
	if err != nil {
		h.log.Error("List profile types failed", "error", err)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profileTypes": pts})
}

// GET /api/profile-types/:id, GET /api/admin/profile-types/:id
func (h *ProfileTypeHandler) Get(c *gin.Context) {
	pt, err := h.svc.GetProfileType(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profileType": pt})
}

// POST /api/admin/profile-types
func (h *ProfileTypeHandler) Create(c *gin.Context) {
	var in services.CreateProfileTypeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	pt, err := h.svc.CreateProfileType(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"profileType": pt})
}

// PUT /api/admin/profile-types/:id[?dryRun=true]
func (h *ProfileTypeHandler) Update(c *gin.Context) {
	var edit migration.Edit
	if err := c.ShouldBindJSON(&edit); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	id := c.Param("id")
	run := h.svc.Migrate
	if queryBool(c, "dryRun") {
		run = h.svc.Preview
	}
	res, err := run(c.Request.Context(), id, edit)
	if err != nil {
		h.log.Warn("Update profile type failed", "error", err, "profile_type_id", id)
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// DELETE /api/admin/profile-types/:id[?expectedVersion=n]
func (h *ProfileTypeHandler) Delete(c *gin.Context) {
	var expected *int
	if raw := strings.TrimSpace(c.Query("expectedVersion")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_expected_version", err)
			return
		}
		expected = &v
	}
	if err := h.svc.DeleteProfileType(c.Request.Context(), c.Param("id"), expected); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/admin/profile-types/:id/sections/:sectionId/questions
func (h *ProfileTypeHandler) SaveQuestions(c *gin.Context) {
	var in services.SaveQuestionsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in.ProfileTypeID = c.Param("id")
	in.SectionID = c.Param("sectionId")
	sec, err := h.svc.SaveSectionQuestions(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"section": sec})
}

func queryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
