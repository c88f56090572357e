package models_test

import (
	"testing"

	"github.com/Amin173/abb-librws/models"
	"github.com/stretchr/testify/require"
)

func TestParseRAPIDTaskExecutionState(t *testing.T) {
	cases := []struct {
		raw  string
		want models.RAPIDTaskExecutionState
		ok   bool
	}{
		{"ready", models.TaskExecutionReady, true},
		{"stopped", models.TaskExecutionStopped, true},
		{"started", models.TaskExecutionStarted, true},
		{"uninitialized", models.TaskExecutionUninitialized, true},
		{"READY", models.TaskExecutionUnknown, false},
		{"paused", models.TaskExecutionUnknown, false},
		{"", models.TaskExecutionUnknown, false},
	}

	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := models.ParseRAPIDTaskExecutionState(tc.raw)
			require.Equal(t, tc.want, got)
			require.Equal(t, tc.ok, ok, "распознавание строки %q", tc.raw)
		})
	}
}

func TestNewRAPIDTaskInfo(t *testing.T) {
	state, ok := models.ParseRAPIDTaskExecutionState("started")
	require.True(t, ok)

	task := models.NewRAPIDTaskInfo("task1", true, true, state)
	require.Equal(t, "task1", task.Name)
	require.True(t, task.IsMotionTask)
	require.True(t, task.IsActive)
	require.Equal(t, models.TaskExecutionStarted, task.ExecutionState)
}

func TestRAPIDTaskInfoEquality(t *testing.T) {
	a := models.NewRAPIDTaskInfo("T_ROB1", true, true, models.TaskExecutionStopped)
	b := models.NewRAPIDTaskInfo("T_ROB1", true, true, models.TaskExecutionStopped)
	require.True(t, a == b, "записи из одинаковых полей должны быть равны")

	c := models.NewRAPIDTaskInfo("T_ROB1", true, false, models.TaskExecutionStopped)
	require.False(t, a == c, "записи с разным IsActive не должны быть равны")
}

func TestNewRAPIDModuleInfo(t *testing.T) {
	mod := models.NewRAPIDModuleInfo("MainModule", "ProgMod")
	require.Equal(t, "MainModule", mod.Name)
	require.Equal(t, "ProgMod", mod.Type)
}
