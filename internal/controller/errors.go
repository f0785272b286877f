package controller

import (
	"coachly_backend/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// respondServiceError 将业务错误统一映射为 HTTP 状态码
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrBatchNotFound),
		errors.Is(err, util.ErrEnrollmentNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrAssignmentNotFound),
		errors.Is(err, util.ErrLiveClassNotFound),
		errors.Is(err, util.ErrExamNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrSubmissionNotFound),
		errors.Is(err, util.ErrCertificateNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrNotEnrolled),
		errors.Is(err, util.ErrExamNotPublished):
		util.Forbidden(ctx, err.Error())
	case errors.Is(err, util.ErrExamNotStarted),
		errors.Is(err, util.ErrExamEnded),
		errors.Is(err, util.ErrExamNotMCQ),
		errors.Is(err, util.ErrExamNotPDF),
		errors.Is(err, util.ErrAttemptDeadlinePassed),
		errors.Is(err, util.ErrBatchArchived),
		errors.Is(err, util.ErrEnrollmentDecided):
		util.InvalidState(ctx, err.Error())
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrBatchFull),
		errors.Is(err, util.ErrAttemptExists),
		errors.Is(err, util.ErrAttemptSubmitted),
		errors.Is(err, util.ErrCertificateExists):
		util.Conflict(ctx, err.Error(), nil)
	default:
		util.LogInternalError(ctx, err)
	}
}
