package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/study-planner-api/internal/middleware"
	"github.com/noah-isme/study-planner-api/internal/service"
	"github.com/noah-isme/study-planner-api/pkg/response"
)

func actorFromContext(c *gin.Context) service.Actor {
	return middleware.CurrentActor(c)
}

// resolveStudent applies the caller's scope to a requested student id. On
// failure the error response is written and false is returned.
func resolveStudent(c *gin.Context, requested string) (string, bool) {
	studentID, err := actorFromContext(c).ResolveStudentID(requested)
	if err != nil {
		response.Error(c, err)
		return "", false
	}
	return studentID, true
}
