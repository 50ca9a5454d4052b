package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/services"
	"github.com/starlink-tech/srm-app/utils"
)

// currentActor rebuilds the service-layer actor from what the auth
// middleware put on the context.
func currentActor(c *gin.Context) services.Actor {
	actor := services.Actor{}
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(uint); ok {
			actor.UserID = id
		}
	}
	if v, ok := c.Get("role"); ok {
		if role, ok := v.(models.Role); ok {
			actor.Role = role
		}
	}
	if v, ok := c.Get("supplier_id"); ok {
		if id, ok := v.(uint); ok {
			actor.SupplierID = &id
		}
	}
	return actor
}

// respondServiceError maps the stable error kinds to HTTP status codes.
// The kind string is included in the message-bearing envelope; clients
// branch on the kind, not the text.
func respondServiceError(c *gin.Context, err error) {
	var code int
	switch services.KindOf(err) {
	case services.KindValidation, services.KindSupplierInactive, services.KindMaterialNotFound:
		code = http.StatusBadRequest
	case services.KindNotFound:
		code = http.StatusNotFound
	case services.KindForbidden:
		code = http.StatusForbidden
	case services.KindInvalidTransition, services.KindOrderTerminal:
		code = http.StatusConflict
	default:
		code = http.StatusInternalServerError
		utils.ErrorLogger.Printf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	utils.RespondError(c, code, err)
}

func paramUint(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.RespondError(c, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	v, err := strconv.Atoi(c.DefaultQuery(name, ""))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}

var errInvalidID = &services.Error{Kind: services.KindValidation, Message: "invalid id"}

// timeNow exists so controller tests can pin document numbers if they need to.
var timeNow = time.Now
