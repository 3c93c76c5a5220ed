package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	StatusErr          = "error"
	StatusSuccess      = "success"
	StatusNotAvailable = "not available"
)

// Korean user-facing messages. Failure modes return these instead of raw
// provider errors; admin endpoints may attach debug detail separately.
const (
	MsgInvalidRequest   = "잘못된 요청입니다."
	MsgRateLimited      = "API 요청 한도를 초과했습니다. 잠시 후 다시 시도해주세요."
	MsgUnparseable      = "AI 응답을 해석할 수 없습니다."
	MsgUpstreamPrefix   = "API 오류: "
	MsgUnknownUpstream  = "알 수 없는 오류"
	MsgTranslateFailed  = "번역 중 오류가 발생했습니다."
	MsgServerError      = "서버 오류가 발생했습니다."
	MsgNoAPIKey         = "API 키가 설정되지 않았습니다. 서버 설정을 확인해주세요."
	MsgAuthRequired     = "인증키가 필요합니다. 관리자에게 문의해주세요."
	MsgAuthInvalid      = "유효하지 않은 인증키입니다."
	MsgAdminRequired    = "관리자 인증이 필요합니다."
	MsgCompanyRequired  = "회사명은 필수입니다."
	MsgKeyRequired      = "삭제할 키를 지정해주세요."
	MsgKeyDeactivated   = "인증키가 비활성화되었습니다."
	MsgStoreUnavailable = "저장소 연결 오류가 발생했습니다."
)

// SuccessResponse is the API wire envelope for successful calls.
type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorResponse carries a localized message; Debug is only populated on
// admin-triggered auth failures.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Debug   any    `json:"debug,omitempty"`
}

// ResponseWithMessage is the infra envelope (health, no-route).
type ResponseWithMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NoMethod(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, ResponseWithMessage{
		Status:  StatusNotAvailable,
		Message: "method not allowed on this endpoint",
	})
}

func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, ResponseWithMessage{
		Status:  StatusNotAvailable,
		Message: "page not found",
	})
}
