package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RobotSpec описывает один контроллер в манифесте robots.yaml.
type RobotSpec struct {
	Name           string `yaml:"name"`
	Host           string `yaml:"host"`
	Port           uint16 `yaml:"port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	PollIntervalMs int    `yaml:"poll_interval_ms"`
}

// robotManifest - корневая структура манифеста.
type robotManifest struct {
	Robots []RobotSpec `yaml:"robots"`
}

// LoadRobots читает манифест контроллеров. Для пропущенных полей
// подставляются стандартные значения RobotWare; poll_interval_ms равный
// нулю означает, что опрос для контроллера не запускается.
func LoadRobots(path string) ([]RobotSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать манифест контроллеров %s: %w", path, err)
	}

	var manifest robotManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("не удалось разобрать манифест контроллеров %s: %w", path, err)
	}

	seen := make(map[string]struct{}, len(manifest.Robots))
	for i := range manifest.Robots {
		spec := &manifest.Robots[i]

		if spec.Name == "" {
			return nil, fmt.Errorf("контроллер #%d в манифесте не имеет имени", i+1)
		}
		if spec.Host == "" {
			return nil, fmt.Errorf("контроллер '%s' в манифесте не имеет адреса", spec.Name)
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("имя контроллера '%s' в манифесте повторяется", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		if spec.Port == 0 {
			spec.Port = 80
		}
		if spec.Username == "" {
			spec.Username = "Default User"
		}
		if spec.Password == "" {
			spec.Password = "robotics"
		}
		if spec.PollIntervalMs < 0 {
			return nil, fmt.Errorf("контроллер '%s': poll_interval_ms не может быть отрицательным", spec.Name)
		}
	}

	return manifest.Robots, nil
}
