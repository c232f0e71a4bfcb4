package main

import (
	"context"
	"net"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/Aanzil/youtube-music-playlist-merger/internal/server"
)

// Serve runs the HTTP API until the process is interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := r.config.Server.Host
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if cmd.IsSet("port") {
		port = int(cmd.Int("port"))
	}

	engine := r.getEngine()

	var runs server.RunLister
	if repo, err := r.history(); err != nil {
		r.logger.Warn("run history disabled", "error", err)
	} else {
		runs = repo
	}

	var health server.HealthFunc
	if hc, ok := r.getLibrary().(healthChecker); ok {
		health = hc.Health
	}

	if r.logger.GetLevel() > log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.New(engine, runs, health, r.logger)
	return srv.Run(ctx, net.JoinHostPort(host, strconv.Itoa(port)))
}
