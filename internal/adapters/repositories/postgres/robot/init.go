package robot

import (
	"github.com/Amin173/abb-librws/internal/interfaces"
	"gorm.io/gorm"
)

type RobotRepositoryImpl struct {
	db *gorm.DB
}

func NewRobotRepository(db *gorm.DB) interfaces.RobotRepository {
	return &RobotRepositoryImpl{db: db}
}
