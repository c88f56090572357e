package robot

import (
	"github.com/Amin173/abb-librws/internal/domain/entities"
	"gorm.io/gorm"
)

func (r *RobotRepositoryImpl) Create(robot *entities.Robot) error {
	return r.db.Create(robot).Error
}

func (r *RobotRepositoryImpl) GetByEndpoint(endpointURL string) (*entities.Robot, error) {
	var robot entities.Robot
	err := r.db.Where("endpoint_url = ?", endpointURL).First(&robot).Error
	if err != nil {
		return nil, err
	}
	return &robot, nil
}

// GetByName ищет контроллер по имени из манифеста
func (r *RobotRepositoryImpl) GetByName(name string) (*entities.Robot, error) {
	var robot entities.Robot
	err := r.db.Where("name = ?", name).First(&robot).Error
	if err != nil {
		return nil, err
	}
	return &robot, nil
}

// UpdatePollingState обновляет статус и интервал опроса
func (r *RobotRepositoryImpl) UpdatePollingState(sessionID, status string, interval int) error {
	updates := map[string]interface{}{
		"status":   status,
		"interval": interval,
	}
	result := r.db.Model(&entities.Robot{}).Where("session_id = ?", sessionID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RobotRepositoryImpl) Delete(sessionID string) error {
	result := r.db.Where("session_id = ?", sessionID).Delete(&entities.Robot{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *RobotRepositoryImpl) GetBySessionID(sessionID string) (*entities.Robot, error) {
	var robot entities.Robot
	err := r.db.Where("session_id = ?", sessionID).First(&robot).Error
	if err != nil {
		return nil, err
	}
	return &robot, nil
}

// GetAll возвращает все сохраненные контроллеры
func (r *RobotRepositoryImpl) GetAll() ([]entities.Robot, error) {
	var robots []entities.Robot
	if err := r.db.Find(&robots).Error; err != nil {
		return nil, err
	}
	return robots, nil
}
