// Package repotest holds the behaviour every KVRepository adapter must share.
package repotest

import (
	"context"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/sumrunner/internal/repository"
)

// KVSuite exercises a KVRepository. NewRepo is called before every test.
type KVSuite struct {
	suite.Suite
	NewRepo func() repository.KVRepository
	repo    repository.KVRepository
}

func (s *KVSuite) SetupTest() {
	s.repo = s.NewRepo()
}

func (s *KVSuite) TestGetMissing() {
	value, found, err := s.repo.Get(context.Background(), "missing")
	s.Require().NoError(err)
	s.Assert().False(found)
	s.Assert().Empty(value)
}

func (s *KVSuite) TestSetAndGet() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "sumRunnerProgress", `{"add":{"1":3}}`))

	value, found, err := s.repo.Get(ctx, "sumRunnerProgress")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().Equal(`{"add":{"1":3}}`, value)
}

func (s *KVSuite) TestSetOverwrites() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "theme", `"light"`))
	s.Require().NoError(s.repo.Set(ctx, "theme", `"dark"`))

	value, found, err := s.repo.Get(ctx, "theme")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().Equal(`"dark"`, value)
}

func (s *KVSuite) TestEmptyValueIsFound() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "blank", ""))

	_, found, err := s.repo.Get(ctx, "blank")
	s.Require().NoError(err)
	s.Assert().True(found)
}

func (s *KVSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "sumRunnerHighScores", "[]"))
	s.Require().NoError(s.repo.Delete(ctx, "sumRunnerHighScores"))

	_, found, err := s.repo.Get(ctx, "sumRunnerHighScores")
	s.Require().NoError(err)
	s.Assert().False(found)

	// Deleting again is a no-op.
	s.Assert().NoError(s.repo.Delete(ctx, "sumRunnerHighScores"))
}

func (s *KVSuite) TestKeysAreIndependent() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Set(ctx, "soundEnabled", "true"))
	s.Require().NoError(s.repo.Set(ctx, "largeText", "false"))
	s.Require().NoError(s.repo.Delete(ctx, "soundEnabled"))

	value, found, err := s.repo.Get(ctx, "largeText")
	s.Require().NoError(err)
	s.Assert().True(found)
	s.Assert().Equal("false", value)
}
