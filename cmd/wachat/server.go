package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"wachat/internal/auth"
	"wachat/internal/middleware"
	"wachat/internal/models"
	"wachat/internal/service"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Server struct {
	cfg        *models.Config
	router     *mux.Router
	logger     *logrus.Logger
	msgService service.MessageService
	auth       *auth.Authenticator
	server     *http.Server
}

func NewServer(cfg *models.Config, msgService service.MessageService, logger *logrus.Logger) *Server {
	s := &Server{
		cfg:        cfg,
		router:     mux.NewRouter(),
		logger:     logger,
		msgService: msgService,
		auth: auth.NewAuthenticator(
			cfg.Auth.Password,
			cfg.Auth.TokenSecret,
			time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.Observability(s.logger))
	s.router.Use(middleware.Verbose(s.cfg.Verbose))

	// Ops endpoints
	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet)
	s.router.HandleFunc("/metrics", s.handleMetrics()).Methods(http.MethodGet)

	// Login is the only unauthenticated API endpoint
	s.router.HandleFunc("/api/login", s.handleLogin()).Methods(http.MethodPost)

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(middleware.BearerAuth(s.auth, s.logger))

	api.HandleFunc("/lines", s.handleListLines()).Methods(http.MethodGet)
	api.HandleFunc("/chats/{lineUid}", s.handleListChats()).Methods(http.MethodGet)
	api.HandleFunc("/chats/rename", s.handleRenameChat()).Methods(http.MethodPost)
	api.HandleFunc("/messages/{chatId}", s.handleListMessages()).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id:[0-9]+}", s.handleDeleteMessage()).Methods(http.MethodDelete)
	api.HandleFunc("/send", s.handleSend()).Methods(http.MethodPost)
	api.HandleFunc("/mark-read/{chatId}", s.handleMarkRead()).Methods(http.MethodPost)
	api.HandleFunc("/start-chat", s.handleStartChat()).Methods(http.MethodPost)
	api.HandleFunc("/contacts/{lineUid}", s.handleListContacts()).Methods(http.MethodGet)

	// Everything else is the embedded single-page client
	s.router.PathPrefix("/").Handler(s.staticHandler())
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Server.WriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Server.IdleTimeoutSec) * time.Second,
	}

	s.logger.Infof("Starting server on port %d", s.cfg.Server.Port)
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
