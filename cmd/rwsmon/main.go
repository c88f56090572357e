// @title ABB Robot Monitor API
// @version 1.0.0
// @description API для работы с контроллерами ABB по протоколу Robot Web Services и отправки данных в Kafka.
// @host localhost:8082
// @BasePath /api/v1
package main

import "github.com/Amin173/abb-librws/internal/app"

func main() {
	// Создаем и запускаем новый экземпляр приложения fx
	app.New().Run()
}
