package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/berfenger/solardash/internal/config"
	"github.com/berfenger/solardash/internal/navigation"

	"github.com/asynkron/protoactor-go/actor"
	_ "github.com/joho/godotenv/autoload"
)

const REQUEST_TIMEOUT = 5 * time.Second

type Server struct {
	port        uint
	httpLog     bool
	system      config.SystemConfig
	location    *time.Location
	navigation  navigation.Tree
	rootContext *actor.RootContext
	masterActor *actor.PID
}

func newServer(cfg config.Config, nav navigation.Tree, rootContext *actor.RootContext, masterActor *actor.PID) *Server {
	return &Server{
		port:        cfg.Port,
		httpLog:     cfg.HttpLog,
		system:      cfg.System,
		location:    cfg.Location(),
		navigation:  nav,
		rootContext: rootContext,
		masterActor: masterActor,
	}
}

func NewServer(cfg config.Config, nav navigation.Tree, rootContext *actor.RootContext, masterActor *actor.PID) *http.Server {
	NewServer := newServer(cfg, nav, rootContext, masterActor)

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", NewServer.port),
		Handler:      NewServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func (s *Server) ask(msg any) (any, error) {
	return s.rootContext.RequestFuture(s.masterActor, msg, REQUEST_TIMEOUT).Result()
}
