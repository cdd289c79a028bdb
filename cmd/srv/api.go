package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abi-lab/backend/internal/domain/badge"
	"github.com/abi-lab/backend/internal/middleware"
	"github.com/abi-lab/backend/internal/model"
	"github.com/abi-lab/backend/pkg/authenticator"
	"github.com/abi-lab/backend/pkg/router"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	defer s.stopPublisher()
	s.loadRepos()
	if err := badge.Seed(s.ctx, s.badgeRepo); err != nil {
		return err
	}
	s.loadBadgeManager()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	httpSrv := &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals

		ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.Address())
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	cfg := xcontext.Configs(s.ctx)
	tokenEngine := authenticator.NewTokenEngine[model.AccessToken](cfg.Auth.TokenSecret, cfg.Auth.AccessToken)
	authVerifier := middleware.NewAuthVerifier(tokenEngine, s.userDomain)

	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	// These APIs don't care about the caller.
	publicRouter := s.router.Branch()
	{
		router.POST(publicRouter, "/api/community/questions/{id}/view", s.questionDomain.View)
		router.GET(publicRouter, "/api/community/tags", s.tagDomain.GetList)
		router.GET(publicRouter, "/api/community/badges", s.userDomain.GetBadges)
		router.GET(publicRouter, "/api/community/users/{id}/stats", s.userDomain.GetStats)
		router.GET(publicRouter, "/api/community/users/{id}/reputation", s.userDomain.GetReputationHistory)
	}

	// These APIs personalize the response when the caller is authenticated.
	optionalAuthRouter := s.router.Branch()
	optionalAuthRouter.Before(authVerifier.OptionalAuthenticate())
	{
		// similar must be registered before {id}.
		router.GET(optionalAuthRouter, "/api/community/questions/similar", s.guardrailDomain.GetSimilar)
		router.GET(optionalAuthRouter, "/api/community/questions", s.questionDomain.GetList)
		router.GET(optionalAuthRouter, "/api/community/questions/{id}", s.questionDomain.Get)
		router.POST(optionalAuthRouter, "/api/community/guardrails/check", s.guardrailDomain.Check)
	}

	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Authenticate())
	{
		// User API
		router.GET(authRouter, "/api/community/users/me", s.userDomain.GetMe)

		// Question API
		router.POST(authRouter, "/api/community/questions", s.questionDomain.Create)
		router.PATCH(authRouter, "/api/community/questions/{id}", s.questionDomain.Update)
		router.DELETE(authRouter, "/api/community/questions/{id}", s.questionDomain.Delete)
		router.POST(authRouter, "/api/community/questions/{qid}/accept/{aid}", s.answerDomain.Accept)

		// Answer API
		router.POST(authRouter, "/api/community/answers", s.answerDomain.Create)
		router.PATCH(authRouter, "/api/community/answers/{id}", s.answerDomain.Update)
		router.DELETE(authRouter, "/api/community/answers/{id}", s.answerDomain.Delete)

		// Vote API
		router.POST(authRouter, "/api/community/votes", s.voteDomain.Cast)

		// Tag API
		router.POST(authRouter, "/api/community/tags", s.tagDomain.Create)

		// Upgrade request API
		router.POST(authRouter, "/api/requests", s.upgradeRequestDomain.Create)
		router.GET(authRouter, "/api/requests", s.upgradeRequestDomain.GetList)
		router.GET(authRouter, "/api/requests/{id}", s.upgradeRequestDomain.Get)
		router.POST(authRouter, "/api/requests/{id}/approve", s.upgradeRequestDomain.Approve)
		router.POST(authRouter, "/api/requests/{id}/deny", s.upgradeRequestDomain.Deny)
		router.POST(authRouter, "/api/requests/{id}/fulfil", s.upgradeRequestDomain.Fulfil)
		router.POST(authRouter, "/api/requests/{id}/cancel", s.upgradeRequestDomain.Cancel)
	}
}
