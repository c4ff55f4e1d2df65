package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/mbeaufort/inkwell/internal/common"
	"github.com/mbeaufort/inkwell/internal/mailservice"
	"github.com/mbeaufort/inkwell/internal/postservice"
	"github.com/mbeaufort/inkwell/internal/userservice"
)

type application struct {
	config      *Config
	logger      *slog.Logger
	userService *userservice.UserService
	postService *postservice.PostService
	mailService *mailservice.MailService
}

func main() {
	// Initialize the logger
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Load the configuration
	cfg, err := loadConfig(".env")
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Apply the schema migrations before opening the pooled connection
	dsn := common.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	if err := common.MigrateDB(dsn); err != nil {
		logger.Error("failed to migrate the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize the database
	db, err := common.NewDB(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, 10, 5, 15*time.Minute)
	if err != nil {
		logger.Error("failed to connect to the database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer common.CloseDB(db)

	// Initialize the services
	app := &application{
		config:      cfg,
		logger:      logger,
		userService: userservice.NewUserService(db),
		postService: postservice.NewPostService(db),
		mailService: mailservice.NewMailService(cfg.MailHost, cfg.MailUser, cfg.MailPassword, cfg.MailSender, cfg.MailOwner, cfg.MailPort),
	}

	// Start the HTTP server
	err = app.serve(cfg.Port)
	if err != nil {
		logger.Error("failed to start the server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
