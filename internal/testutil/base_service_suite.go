package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/whummer/stripe-xero-sync/internal/config"
	"github.com/whummer/stripe-xero-sync/internal/logger"
)

// Stores holds all the repository fakes for testing
type Stores struct {
	Source     *InMemorySourceRepository
	Ledger     *InMemoryLedgerRepository
	Watermarks *InMemoryWatermarkStore
}

// BaseServiceTestSuite provides common functionality for service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = logger.NewNopLogger()
	s.config = config.GetDefaultConfig()
	// Tests never exercise pacing; a zero delay disables the limiter.
	s.config.Migration.PacingDelay = 0
	s.stores = Stores{
		Source:     NewInMemorySourceRepository(),
		Ledger:     NewInMemoryLedgerRepository(),
		Watermarks: NewInMemoryWatermarkStore(),
	}
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the repository fakes
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}
