package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	easy "git.fiblab.net/utils/logrus-easy-formatter"
	"github.com/sirupsen/logrus"
)

var logLevels = map[string]logrus.Level{
	"trace": logrus.TraceLevel,
	"debug": logrus.DebugLevel,
	"info":  logrus.InfoLevel,
	"warn":  logrus.WarnLevel,
	"error": logrus.ErrorLevel,
}

func main() {
	var (
		iface    = flag.String("iface", "vcan0", "SocketCAN interface name")
		course   = flag.String("course", "config/courses/racetrack.json", "Course JSON file")
		trajPath = flag.String("traj", "trajectory.csv", "Trajectory log output path")
		logLevel = flag.String("log", "info", "trace|debug|info|warn|error")
	)
	flag.Parse()

	logrus.SetFormatter(&easy.Formatter{
		TimestampFormat: "2006-01-02 15:04:05.0000",
		LogFormat:       "[%module%] [%time%] [%lvl%] %msg%\n",
	})
	if level, ok := logLevels[*logLevel]; ok {
		logrus.SetLevel(level)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := NewRunner(ctx, RunnerConfig{
		Interface:      *iface,
		CoursePath:     *course,
		TrajectoryPath: *trajPath,
	})
	if err != nil {
		log.Errorf("startup failed: %v", err)
		os.Exit(1)
	}
	defer runner.Close()

	if err := runner.Run(ctx); err != nil && err != context.Canceled {
		log.Errorf("run failed: %v", err)
		os.Exit(1)
	}
}
