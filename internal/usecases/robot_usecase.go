package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	abbmodels "github.com/Amin173/abb-librws/models"

	"github.com/Amin173/abb-librws/internal/domain/entities"
	"github.com/Amin173/abb-librws/internal/domain/models"
	"github.com/Amin173/abb-librws/internal/interfaces"
	apperrors "github.com/Amin173/abb-librws/pkg/errors"
)

type Usecase struct {
	robotSvc interfaces.RobotService
}

func NewUsecase(robotSvc interfaces.RobotService) interfaces.Usecases {
	return &Usecase{
		robotSvc: robotSvc,
	}
}

func (u *Usecase) CreateConnection(req models.ConnectionRequest) (*models.ConnectionInfo, error) {
	return u.robotSvc.CreateConnection(req)
}

func (u *Usecase) RestoreConnection(robot entities.Robot, password string) (*models.ConnectionInfo, error) {
	return u.robotSvc.RestoreConnection(robot, password)
}

func (u *Usecase) GetAllConnections() []*models.ConnectionInfo {
	return u.robotSvc.GetAllConnections()
}

func (u *Usecase) DeleteConnection(sessionID string) error {
	return u.robotSvc.DeleteConnection(sessionID)
}

func (u *Usecase) CheckConnection(sessionID string) (*models.ConnectionInfo, error) {
	return u.robotSvc.CheckConnection(sessionID)
}

func (u *Usecase) StartPolling(sessionID string, interval time.Duration) error {
	conn, found := u.robotSvc.GetConnection(sessionID)
	if !found {
		return fmt.Errorf("не удалось запустить опрос: сессия '%s' не найдена в активном пуле", sessionID)
	}
	return u.robotSvc.StartPolling(conn, interval)
}

func (u *Usecase) StopPolling(sessionID string) error {
	return u.robotSvc.StopPolling(sessionID)
}

func (u *Usecase) IsPollingActive(sessionID string) bool {
	return u.robotSvc.IsPollingActive(sessionID)
}

// StaticInfo читает сводный снимок контроллера. Отсутствующая сессия
// оборачивается в AppError с кодом 404 для слоя HTTP.
func (u *Usecase) StaticInfo(ctx context.Context, sessionID string) (abbmodels.StaticInfo, error) {
	info, err := u.robotSvc.StaticInfo(ctx, sessionID)
	if err != nil {
		return abbmodels.StaticInfo{}, wrapSessionError(sessionID, err)
	}
	return info, nil
}

// IOSignals читает текущие значения сигналов контроллера.
func (u *Usecase) IOSignals(ctx context.Context, sessionID string) (abbmodels.IOSignalInfo, error) {
	signals, err := u.robotSvc.IOSignals(ctx, sessionID)
	if err != nil {
		return nil, wrapSessionError(sessionID, err)
	}
	return signals, nil
}

func wrapSessionError(sessionID string, err error) error {
	if errors.Is(err, apperrors.ErrDataNotFound) {
		return apperrors.NewAppError(apperrors.NotFoundErrorCode, fmt.Sprintf("сессия '%s' не найдена", sessionID), err, true)
	}
	if errors.Is(err, apperrors.ErrControllerUnavailable) {
		return apperrors.NewAppError(apperrors.ServiceUnavailableErrorCode, fmt.Sprintf("контроллер сессии '%s' недоступен", sessionID), err, true)
	}
	return err
}
