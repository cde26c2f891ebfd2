package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/profileforms-backend/internal/http/response"
	"github.com/yungbote/profileforms-backend/internal/platform/ctxutil"
	"github.com/yungbote/profileforms-backend/internal/platform/logger"
	"github.com/yungbote/profileforms-backend/internal/services"
)

// MeHandler serves the form renderer and the dashboard for the caller.
type MeHandler struct {
	log *logger.Logger
	svc services.ProfileTypeService
}

func NewMeHandler(log *logger.Logger, svc services.ProfileTypeService) *MeHandler {
	return &MeHandler{log: log.With("handler", "MeHandler"), svc: svc}
}

type assignRequest struct {
	ProfileTypeID string `json:"profileTypeId" binding:"required"`
}

type saveAnswersRequest struct {
	Answers map[string]any `json:"answers"`
}

// PUT /api/me/profile-type
func (h *MeHandler) AssignProfileType(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := h.svc.AssignProfileType(c.Request.Context(), userID, req.ProfileTypeID); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"profileTypeId": req.ProfileTypeID})
}

// GET /api/me/sections/:sectionId
func (h *MeHandler) GetSection(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	res, err := h.svc.GetAnswers(c.Request.Context(), userID, c.Param("sectionId"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// PUT /api/me/sections/:sectionId
//
// The draft is stored even when some fields fail; those come back under
// "errors" with a 200 so the form keeps its state.
func (h *MeHandler) SaveSection(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req saveAnswersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.Answers == nil {
		req.Answers = map[string]any{}
	}
	res, err := h.svc.SaveAnswers(c.Request.Context(), userID, c.Param("sectionId"), req.Answers)
	if err != nil {
		h.log.Error("SaveSection failed", "error", err, "user_id", userID.String(), "section_id", c.Param("sectionId"))
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"profileTypeId": res.ProfileTypeID,
		"section":       res.Section,
		"answers":       res.Answers,
		"status":        res.Status,
		"errors":        res.Errors.Reasons(),
	})
}

// GET /api/me/progress
func (h *MeHandler) Progress(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	res, err := h.svc.UserProgress(c.Request.Context(), userID)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false
	}
	return rd.UserID, true
}
