package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkly/inkly/internal/logging"
	"github.com/inkly/inkly/internal/server/models"
	"github.com/inkly/inkly/internal/server/services"
)

type handlers struct {
	svc    Services
	logger logging.Logger
}

type ensureAccountRequest struct {
	Name string `json:"name"`
}

type advanceStepRequest struct {
	Step models.OnboardingStep `json:"step" binding:"required"`
}

type inkRequest struct {
	Body       string              `json:"body"`
	BodyFormat services.BodyFormat `json:"bodyFormat"`
}

// bindOptionalJSON accepts an empty body as the zero value.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequestBody(c, err)
		return false
	}
	return true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequestBody(c, err)
		return false
	}
	return true
}

func (h *handlers) ensureAccount(c *gin.Context) {
	var req ensureAccountRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	u, created, err := h.svc.Accounts.EnsureAccount(c.Request.Context(), principalOf(c), req.Name)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		h.logger.Info(c.Request.Context(), "account created", "user_id", u.ID)
	}
	c.JSON(status, gin.H{"success": true, "user": u, "created": created})
}

func (h *handlers) onboardingStatus(c *gin.Context) {
	st, err := h.svc.Onboarding.GetStatus(c.Request.Context(), principalOf(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": st.User, "notificationSettings": st.NotificationSettings})
}

func (h *handlers) completeOnboarding(c *gin.Context) {
	var in services.CompleteOnboardingInput
	if !bindJSON(c, &in) {
		return
	}

	u, err := h.svc.Onboarding.CompleteOnboarding(c.Request.Context(), principalOf(c), in)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info(c.Request.Context(), "onboarding completed", "user_id", u.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

func (h *handlers) resetOnboarding(c *gin.Context) {
	u, err := h.svc.Onboarding.ResetOnboarding(c.Request.Context(), principalOf(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

func (h *handlers) advanceStep(c *gin.Context) {
	var req advanceStepRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.svc.Onboarding.AdvanceStep(c.Request.Context(), principalOf(c), req.Step)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

func (h *handlers) checkUsername(c *gin.Context) {
	res, err := h.svc.Onboarding.CheckUsername(c.Request.Context(), principalOf(c), c.Query("u"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"username":  res.Username,
		"available": res.Available,
		"reasons":   res.Reasons,
	})
}

func (h *handlers) getProfile(c *gin.Context) {
	u, err := h.svc.Profile.Get(c.Request.Context(), principalOf(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

func (h *handlers) updateProfile(c *gin.Context) {
	var patch services.ProfilePatch
	if !bindJSON(c, &patch) {
		return
	}

	u, err := h.svc.Profile.Update(c.Request.Context(), principalOf(c), patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}

func (h *handlers) getNotificationSettings(c *gin.Context) {
	s, err := h.svc.Notifications.Get(c.Request.Context(), principalOf(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": s})
}

func (h *handlers) updateNotificationSettings(c *gin.Context) {
	var patch services.NotificationSettingsPatch
	if !bindJSON(c, &patch) {
		return
	}

	s, err := h.svc.Notifications.Update(c.Request.Context(), principalOf(c), patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": s})
}

func (h *handlers) createInk(c *gin.Context) {
	var req inkRequest
	if !bindJSON(c, &req) {
		return
	}

	ink, err := h.svc.Inks.Create(c.Request.Context(), principalOf(c), req.Body, req.BodyFormat)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "ink": ink})
}

func (h *handlers) listInks(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequestBody(c, err)
			return
		}
		limit = n
	}

	inks, err := h.svc.Inks.ListByAuthor(c.Request.Context(), principalOf(c), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "inks": inks})
}

func (h *handlers) previewInk(c *gin.Context) {
	var req inkRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.svc.Inks.Preview(req.Body, req.BodyFormat)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": a})
}

func (h *handlers) avatarUploadURL(c *gin.Context) {
	up, err := h.svc.Avatars.UploadURL(c.Request.Context(), principalOf(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "upload": up})
}

func (h *handlers) avatarViewURL(c *gin.Context) {
	url, err := h.svc.Avatars.ViewURL(c.Request.Context(), c.Query("key"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "url": url})
}

func (h *handlers) healthz(c *gin.Context) {
	if h.svc.Health != nil {
		if err := h.svc.Health(c.Request.Context()); err != nil {
			h.logger.Warn(c.Request.Context(), "health check failed", "error", err.Error())
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
