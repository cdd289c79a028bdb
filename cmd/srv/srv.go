package main

import (
	"context"
	"fmt"
	"time"

	"github.com/abi-lab/backend/internal/domain"
	"github.com/abi-lab/backend/internal/domain/badge"
	"github.com/abi-lab/backend/internal/domain/guardrail"
	"github.com/abi-lab/backend/internal/domain/reputation"
	"github.com/abi-lab/backend/internal/domain/vote"
	"github.com/abi-lab/backend/internal/repository"
	"github.com/abi-lab/backend/migration"
	"github.com/abi-lab/backend/pkg/kafka"
	"github.com/abi-lab/backend/pkg/pubsub"
	"github.com/abi-lab/backend/pkg/router"
	"github.com/abi-lab/backend/pkg/xcontext"
	"github.com/abi-lab/backend/pkg/xredis"
	"github.com/bwmarrin/snowflake"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	router      *router.Router
	redisClient xredis.Client
	publisher   pubsub.Publisher

	profileRepo        repository.ProfileRepository
	questionRepo       repository.QuestionRepository
	answerRepo         repository.AnswerRepository
	tagRepo            repository.TagRepository
	voteRepo           repository.VoteRepository
	reputationLogRepo  repository.ReputationLogRepository
	badgeRepo          repository.BadgeRepository
	userBadgeRepo      repository.UserBadgeRepository
	upgradeRequestRepo repository.UpgradeRequestRepository

	badgeManager *badge.Manager

	questionDomain       domain.QuestionDomain
	answerDomain         domain.AnswerDomain
	voteDomain           domain.VoteDomain
	tagDomain            domain.TagDomain
	userDomain           domain.UserDomain
	guardrailDomain      domain.GuardrailDomain
	upgradeRequestDomain domain.UpgradeRequestDomain
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx).Database

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.New(mysql.Config{
			DSN:                       cfg.ConnectionString(),
			DefaultStringSize:         256,
			DisableDatetimePrecision:  true,
			DontSupportRenameIndex:    true,
			DontSupportRenameColumn:   true,
			SkipInitializeWithVersion: false,
		})
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
	default:
		panic(fmt.Sprintf("unsupported database driver %s", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	if cfg.Driver == "sqlite" {
		// sqlite allows only one writer.
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())

	node, err := snowflake.NewNode(time.Now().UnixNano() % 1024)
	if err != nil {
		panic(err)
	}
	s.ctx = xcontext.WithSnowflake(s.ctx, node)
}

func (s *srv) migrateDB() {
	if err := migration.Migrate(s.ctx); err != nil {
		panic(err)
	}
}

// loadRedisClient leaves redisClient nil if redis is not configured.
func (s *srv) loadRedisClient() {
	if xcontext.Configs(s.ctx).Redis.Addr == "" {
		xcontext.Logger(s.ctx).Infof("Redis is not configured, view counts are written directly")
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
	s.redisClient = client
}

func (s *srv) loadPublisher() {
	cfg := xcontext.Configs(s.ctx).Kafka
	if cfg.Addr == "" {
		xcontext.Logger(s.ctx).Infof("Kafka is not configured, domain events are dropped")
		s.publisher = pubsub.NewNopPublisher()
		return
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, []string{cfg.Addr})
	if err != nil {
		panic(err)
	}
	s.publisher = publisher
}

func (s *srv) loadRepos() {
	s.profileRepo = repository.NewProfileRepository()
	s.questionRepo = repository.NewQuestionRepository()
	s.answerRepo = repository.NewAnswerRepository()
	s.tagRepo = repository.NewTagRepository()
	s.voteRepo = repository.NewVoteRepository()
	s.reputationLogRepo = repository.NewReputationLogRepository()
	s.badgeRepo = repository.NewBadgeRepository()
	s.userBadgeRepo = repository.NewUserBadgeRepository()
	s.upgradeRequestRepo = repository.NewUpgradeRequestRepository()
}

func (s *srv) loadBadgeManager() {
	statsLoader := badge.NewStatsLoader(s.profileRepo, s.questionRepo, s.answerRepo, s.voteRepo)
	s.badgeManager = badge.NewManager(
		s.badgeRepo, s.userBadgeRepo, statsLoader, s.publisher, badge.DefaultScanners()...)
}

func (s *srv) loadDomains() {
	ledger := reputation.NewLedger(s.profileRepo, s.reputationLogRepo)
	profanityFilter := guardrail.NewProfanityFilter()

	var viewCounter domain.ViewCounter = domain.NewDirectViewCounter(s.questionRepo)
	if s.redisClient != nil {
		viewCounter = domain.NewRedisViewCounter(s.redisClient)
	}

	s.questionDomain = domain.NewQuestionDomain(
		s.questionRepo, s.answerRepo, s.tagRepo, s.profileRepo, s.voteRepo,
		s.badgeManager, profanityFilter, viewCounter, s.publisher)
	s.answerDomain = domain.NewAnswerDomain(
		s.questionRepo, s.answerRepo, s.tagRepo, s.profileRepo, s.voteRepo,
		ledger, s.badgeManager, profanityFilter, s.publisher)
	s.voteDomain = domain.NewVoteDomain(
		vote.NewEngine(s.questionRepo, s.answerRepo, s.voteRepo, ledger), s.badgeManager, s.publisher)
	s.tagDomain = domain.NewTagDomain(s.tagRepo, s.profileRepo)
	s.userDomain = domain.NewUserDomain(
		s.profileRepo, s.questionRepo, s.answerRepo, s.reputationLogRepo, s.badgeRepo, s.userBadgeRepo)
	s.guardrailDomain = domain.NewGuardrailDomain(s.ctx, s.questionRepo, profanityFilter)
	s.upgradeRequestDomain = domain.NewUpgradeRequestDomain(
		s.upgradeRequestRepo, s.profileRepo, s.publisher)
}

// stopPublisher flushes the kafka producer, the nop publisher has nothing to
// stop.
func (s *srv) stopPublisher() {
	stopper, ok := s.publisher.(interface{ Stop(context.Context) error })
	if !ok {
		return
	}

	if err := stopper.Stop(s.ctx); err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot stop publisher: %v", err)
	}
}
