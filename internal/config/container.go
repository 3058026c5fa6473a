package config

import (
	"japanese-doc-reader/internal/credentials"
	"japanese-doc-reader/internal/domain"
	"japanese-doc-reader/internal/repository"
	"japanese-doc-reader/internal/service"
	"japanese-doc-reader/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
)

// Container holds all application dependencies
type Container struct {
	Config     domain.Config
	Logger     domain.Logger
	Gateway    domain.AIGateway
	Classifier *service.Classifier
	Sessions   *service.SessionManager
	Artifacts  *service.ArtifactStore
}

// NewContainer creates a new dependency injection container. It fails when
// no OpenAI API key can be resolved, since every AI route would be dead.
func NewContainer() (*Container, error) {
	config := NewConfig()
	appLogger := logger.NewLogger(config.GetLogLevel(), config.GetLogFormat())

	// Resolve the API key from env, .env files or the settings store
	apiKey, err := credentials.Resolve(credentials.DefaultChain(config.GetSettingsPath()), appLogger)
	if err != nil {
		return nil, err
	}

	client := openai.NewClient(apiKey)
	gateway := repository.NewOpenAIGateway(client, config.GetAIModel(), config.GetAIRequestTimeout(), appLogger)

	classifier := service.NewClassifier(repository.FitzOpener{}, appLogger)
	sessions := service.NewSessionManager(appLogger)
	artifacts := service.NewArtifactStore(config.GetDataDir(), appLogger)

	return &Container{
		Config:     config,
		Logger:     appLogger,
		Gateway:    gateway,
		Classifier: classifier,
		Sessions:   sessions,
		Artifacts:  artifacts,
	}, nil
}

// GetConfig returns the configuration instance
func (c *Container) GetConfig() domain.Config {
	return c.Config
}

// GetLogger returns the logger instance
func (c *Container) GetLogger() domain.Logger {
	return c.Logger
}

// GetGateway returns the AI gateway instance
func (c *Container) GetGateway() domain.AIGateway {
	return c.Gateway
}

// GetSessions returns the session manager instance
func (c *Container) GetSessions() *service.SessionManager {
	return c.Sessions
}

// GetArtifacts returns the artifact store instance
func (c *Container) GetArtifacts() *service.ArtifactStore {
	return c.Artifacts
}
