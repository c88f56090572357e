package handlers

import (
	"net/http"

	"github.com/Amin173/abb-librws/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GetStaticInfo возвращает сводный снимок контроллера по SessionID.
// @Summary Получить сводный снимок
// @Description Читает задачи RAPID и системную информацию через живую RWS-сессию.
// @Tags Robots
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} models.StaticInfoResponse "Сводный снимок контроллера"
// @Failure 404 {object} models.ErrorResponse "Сессия не найдена"
// @Failure 500 {object} models.ErrorResponse "Контроллер недоступен"
// @Router /robots/{session_id}/static [get]
func (h *Handler) GetStaticInfo(c *gin.Context) {
	sessionID := c.Param("session_id")

	info, err := h.usecase.StaticInfo(c.Request.Context(), sessionID)
	if err != nil {
		h.AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "static_info": info})
}

// GetSignals возвращает текущие значения сигналов контроллера по SessionID.
// @Summary Получить значения сигналов
// @Description Читает значения цифровых и аналоговых сигналов через живую RWS-сессию.
// @Tags Robots
// @Produce json
// @Param session_id path string true "ID сессии"
// @Success 200 {object} models.SignalsResponse "Текущие значения сигналов"
// @Failure 404 {object} models.ErrorResponse "Сессия не найдена"
// @Failure 500 {object} models.ErrorResponse "Контроллер недоступен"
// @Router /robots/{session_id}/signals [get]
func (h *Handler) GetSignals(c *gin.Context) {
	sessionID := c.Param("session_id")

	signals, err := h.usecase.IOSignals(c.Request.Context(), sessionID)
	if err != nil {
		h.AppErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "signals": models.FlattenSignals(signals)})
}
