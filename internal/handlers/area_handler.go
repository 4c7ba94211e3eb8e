package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/services"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

var areaTitles = map[models.UserRole]string{
	models.RoleStudent:  "Student area",
	models.RoleTeacher:  "Educator area",
	models.RoleEmployer: "Employer area",
}

// AreaHandler renders the landing area of a signed-in user
type AreaHandler struct {
	BaseHandler
	locale *services.LocaleService
}

func NewAreaHandler(locale *services.LocaleService, logger utils.Logger) *AreaHandler {
	return &AreaHandler{
		BaseHandler: NewBaseHandler(logger),
		locale:      locale,
	}
}

// ShowArea renders the landing page for role
func (h *AreaHandler) ShowArea(role models.UserRole) gin.HandlerFunc {
	title, ok := areaTitles[role]
	if !ok {
		title = areaTitles[models.RoleStudent]
	}

	return func(c *gin.Context) {
		user, err := GetUserFromContext(c)
		if err != nil {
			c.Redirect(http.StatusFound, services.PathAuth)
			return
		}

		t := h.locale.Store(c.Request.Context(), getLocale(c), nil).Translator()
		c.HTML(http.StatusOK, "area.html", AreaPage{
			Page: newPage(c, t, t.T(title)),
			User: user,
		})
	}
}
