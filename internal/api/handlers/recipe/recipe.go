package recipe

import (
	"context"
	"errors"
	"net/http"

	"recipe-suggester/internal/infrastructure/config"
	"recipe-suggester/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Suggester 產生食譜的服務
type Suggester interface {
	Suggest(ctx context.Context, req common.RecipeRequest) (*common.RecipeResponse, error)
}

// Handler 食譜與身分端點處理器
type Handler struct {
	suggester Suggester
	identity  config.IdentityConfig
}

// NewHandler 創建新的處理器
func NewHandler(suggester Suggester, identity config.IdentityConfig) *Handler {
	return &Handler{suggester: suggester, identity: identity}
}

// HandleSuggest 依描述與時間上限產生食譜
func (h *Handler) HandleSuggest(c *gin.Context) {
	reqID := requestid.Get(c)

	var req common.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			abortWithError(c, common.ErrBodyTooLarge)
			return
		}
		common.LogWarn("請求格式錯誤",
			zap.String("request_id", reqID),
			zap.Error(err),
		)
		abortWithError(c, common.NewValidationError("description is required and max_time must be an integer"))
		return
	}

	if err := req.Normalize(); err != nil {
		abortWithError(c, err)
		return
	}

	common.LogInfo("開始處理食譜請求",
		zap.String("request_id", reqID),
		zap.String("description", req.Description),
		zap.Int("max_time", req.MaxTime),
	)

	resp, err := h.suggester.Suggest(c.Request.Context(), req)
	if err != nil {
		// 只有請求本身逾時才回 504；上游呼叫逾時維持上游錯誤
		if c.Request.Context().Err() == context.DeadlineExceeded {
			err = common.ErrTimeout
		}
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleIdentity 回傳設定的身分資訊
func (h *Handler) HandleIdentity(c *gin.Context) {
	c.JSON(http.StatusOK, common.IdentityResponse{
		EmplID:   h.identity.EmplID,
		LastName: h.identity.LastName,
	})
}

// abortWithError 將錯誤轉為統一的錯誤響應
func abortWithError(c *gin.Context, err error) {
	ce := common.ToCustomError(err)
	if ce.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(ce.Status, ce.Response())
}
