package db

import (
	"testing"

	gormlogger "gorm.io/gorm/logger"
)

func TestGormLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"debug":   gormlogger.Info,
		"info":    gormlogger.Warn,
		"warn":    gormlogger.Warn,
		"error":   gormlogger.Error,
		"unknown": gormlogger.Warn,
	}
	for in, want := range cases {
		if got := gormLevel(in); got != want {
			t.Fatalf("gormLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
