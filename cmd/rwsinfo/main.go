package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	abb "github.com/Amin173/abb-librws"
	"github.com/joho/godotenv"
)

// runStep - обертка одной диагностической операции. RWS-сессия живет все
// время работы утилиты, поэтому шаг получает готовый клиент и контекст
// с собственным таймаутом.
func runStep(name string, client *abb.Client, fn func(ctx context.Context) error) {
	log.Printf("--- Запуск шага: %s ---", name)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := fn(ctx); err != nil {
		log.Fatalf("Ошибка выполнения на шаге %s: %v", name, err)
	}

	log.Printf("--- Шаг %s выполнен успешно ---", name)
	fmt.Println("==================================================")
}

func main() {
	// 1) Загрузка конфигурации
	err := godotenv.Load("./.env")
	if err != nil {
		log.Printf("Warning: Could not load .env file. Using default values or environment variables: %v", err)
	}

	cfg := abb.Load()
	log.Printf("Конфигурация загружена: Host=%s, Port=%d, Timeout=%dms", cfg.Host, cfg.Port, cfg.TimeoutMs)

	// 2) Открываем одну RWS-сессию на все шаги
	client, err := abb.New(cfg)
	if err != nil {
		log.Fatalf("Ошибка подключения к контроллеру: %v", err)
	}
	defer client.Close()
	log.Println("RWS-сессия успешно открыта.")

	// 3) Чтение системной информации
	runStep("ReadSystemInfo", client, func(ctx context.Context) error {
		systemInfo, err := client.SystemInfo(ctx)
		if err != nil {
			return err
		}
		printAsJSON("SystemInfo", systemInfo)
		return nil
	})

	// 4) Чтение типа контроллера
	runStep("ReadControllerType", client, func(ctx context.Context) error {
		ctrlType, err := client.ControllerType(ctx)
		if err != nil {
			log.Printf("Предупреждение: Не удалось прочитать тип контроллера: %v", err)
			return nil // Не считаем это фатальной ошибкой
		}
		printAsJSON("ControllerType", ctrlType)
		return nil
	})

	// 5) Чтение задач RAPID и их модулей
	runStep("ReadRAPIDTasks", client, func(ctx context.Context) error {
		tasks, err := client.RAPIDTasks(ctx)
		if err != nil {
			return err
		}
		printAsJSON("RAPIDTasks", tasks)

		for _, task := range tasks {
			modules, err := client.RAPIDModules(ctx, task.Name)
			if err != nil {
				log.Printf("Предупреждение: Не удалось прочитать модули задачи %s: %v", task.Name, err)
				continue
			}
			printAsJSON("RAPIDModules/"+task.Name, modules)
		}
		return nil
	})

	// 6) Чтение механических узлов
	runStep("ReadMechanicalUnits", client, func(ctx context.Context) error {
		units, err := client.MechanicalUnits(ctx)
		if err != nil {
			return err
		}
		printAsJSON("MechanicalUnits", units)

		for _, unit := range units {
			static, err := client.MechanicalUnitStaticInfo(ctx, unit)
			if err != nil {
				log.Printf("Предупреждение: Не удалось прочитать статику узла %s: %v", unit, err)
				continue
			}
			printAsJSON("MechanicalUnitStatic/"+unit, static)

			dynamic, err := client.MechanicalUnitDynamicInfo(ctx, unit)
			if err != nil {
				log.Printf("Предупреждение: Не удалось прочитать динамику узла %s: %v", unit, err)
				continue
			}
			printAsJSON("MechanicalUnitDynamic/"+unit, dynamic)
		}
		return nil
	})

	// 7) Чтение значений сигналов
	runStep("ReadIOSignals", client, func(ctx context.Context) error {
		signals, err := client.IOSignals(ctx)
		if err != nil {
			return err
		}
		printAsJSON("IOSignals", signals)
		return nil
	})

	// 8) Чтение сводного снимка
	runStep("ReadStaticInfo", client, func(ctx context.Context) error {
		info, err := client.StaticInfo(ctx)
		if err != nil {
			return err
		}
		printAsJSON("StaticInfo", info)
		return nil
	})

	log.Println("Сбор данных завершен.")
}

// printAsJSON форматирует данные в JSON и выводит в лог
func printAsJSON(name string, data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Printf("Ошибка маршалинга JSON для %s: %v", name, err)
		return
	}
	fmt.Printf("--- %s ---\n%s\n", name, string(jsonData))
}
