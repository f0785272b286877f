package util

import "errors"

var (
	ErrUserNotFound          = errors.New("用户不存在")
	ErrEmailRegistered       = errors.New("该邮箱已被注册")
	ErrPermissionDenied      = errors.New("permission denied")
	ErrCourseNotFound        = errors.New("course not found")
	ErrBatchNotFound         = errors.New("batch not found")
	ErrBatchArchived         = errors.New("batch archived")
	ErrBatchFull             = errors.New("batch seat limit reached")
	ErrAlreadyEnrolled       = errors.New("enrollment already exists")
	ErrNotEnrolled           = errors.New("no approved enrollment for this batch")
	ErrEnrollmentNotFound    = errors.New("enrollment not found")
	ErrEnrollmentDecided     = errors.New("enrollment already decided")
	ErrLessonNotFound        = errors.New("lesson not found")
	ErrAssignmentNotFound    = errors.New("assignment not found")
	ErrLiveClassNotFound     = errors.New("live class not found")
	ErrExamNotFound          = errors.New("exam not found")
	ErrExamNotPublished      = errors.New("exam not published or not accessible")
	ErrExamNotStarted        = errors.New("exam has not started yet")
	ErrExamEnded             = errors.New("exam window has ended")
	ErrExamNotMCQ            = errors.New("exam is not an mcq exam")
	ErrExamNotPDF            = errors.New("exam is not a pdf exam")
	ErrAttemptNotFound       = errors.New("attempt not found")
	ErrAttemptExists         = errors.New("attempt already exists")
	ErrAttemptSubmitted      = errors.New("attempt already submitted")
	ErrAttemptDeadlinePassed = errors.New("attempt deadline passed")
	ErrQuestionNotFound      = errors.New("question not found")
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrCertificateExists     = errors.New("certificate already issued")
	ErrCertificateNotFound   = errors.New("certificate not found")
)
