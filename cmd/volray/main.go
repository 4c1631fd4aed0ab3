package main

import (
	"runtime"

	"volray/internal/app"
	"volray/internal/config"
	"volray/internal/logger"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/xlab/closer"
	"go.uber.org/zap"
)

func init() {
	// GLFW and OpenGL calls must come from the main thread
	runtime.LockOSThread()
}

func main() {
	defer closer.Close()

	settings, err := config.Load(config.ManifestPath)
	if err != nil {
		closer.Fatalln("volray:", err)
	}

	log, err := logger.New(settings.LogLevel)
	if err != nil {
		closer.Fatalln("volray:", err)
	}
	// Runs on exit and on SIGINT; must not touch GL
	closer.Bind(func() { _ = log.Sync() })

	if err := glfw.Init(); err != nil {
		log.Error("failed to initialize GLFW", zap.Error(err))
		closer.Fatalln("volray:", err)
	}
	defer glfw.Terminate()

	a, err := app.New(settings, log)
	if err != nil {
		log.Error("failed to start", zap.Error(err))
		glfw.Terminate()
		closer.Fatalln("volray:", err)
	}
	defer a.Dispose()

	a.Run()
	log.Info("window closed, shutting down")
}
