package main

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/koinonia-app/backend/internal/domain"
	"github.com/koinonia-app/backend/internal/domain/reward"
	"github.com/koinonia-app/backend/internal/domain/statistic"
	"github.com/koinonia-app/backend/internal/repository"
	"github.com/koinonia-app/backend/internal/verses"
	"github.com/koinonia-app/backend/migration"
	"github.com/koinonia-app/backend/pkg/authenticator"
	"github.com/koinonia-app/backend/pkg/logger"
	"github.com/koinonia-app/backend/pkg/router"
	"github.com/koinonia-app/backend/pkg/storage"
	"github.com/koinonia-app/backend/pkg/ws"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/koinonia-app/backend/pkg/xredis"
	"github.com/urfave/cli/v2"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	userRepo         repository.UserRepository
	oauth2Repo       repository.OAuth2Repository
	refreshTokenRepo repository.RefreshTokenRepository
	taskRepo         repository.TaskRepository
	assignmentRepo   repository.TaskAssignmentRepository
	challengeRepo    repository.ChallengeRepository
	participantRepo  repository.ChallengeParticipantRepository
	quizRepo         repository.QuizRepository
	attemptRepo      repository.QuizAttemptRepository
	coinTxRepo       repository.CoinTransactionRepository
	verseRepo        repository.UserVerseRewardRepository
	prayerRepo       repository.PrayerRequestRepository
	eventRepo        repository.EventRepository
	postRepo         repository.PostRepository
	chatRepo         repository.ChatMessageRepository
	notificationRepo repository.NotificationRepository

	authDomain         domain.AuthDomain
	userDomain         domain.UserDomain
	taskDomain         domain.TaskDomain
	challengeDomain    domain.ChallengeDomain
	quizDomain         domain.QuizDomain
	rewardDomain       domain.RewardDomain
	bonusDomain        domain.BonusDomain
	statisticDomain    domain.StatisticDomain
	prayerDomain       domain.PrayerDomain
	eventDomain        domain.EventDomain
	postDomain         domain.PostDomain
	chatDomain         domain.ChatDomain
	notificationDomain domain.NotificationDomain

	rewardEngine *reward.Engine
	leaderboard  statistic.Leaderboard

	catalog     *verses.Catalog
	hub         *ws.Hub
	storage     storage.Storage
	redisClient xredis.Client

	router *router.Router
	server *http.Server
}

// loadContext builds the base context every request and job derives from. It
// carries the configs, logger, token engine, session store, and snowflake
// node.
func (s *srv) loadContext() {
	cfg := s.loadConfigs()

	logLevel := logger.INFO
	if cfg.Env == "local" || cfg.Env == "dev" {
		logLevel = logger.DEBUG
	}

	node, err := snowflake.NewNode(cfg.Chat.SnowFlakeNode)
	if err != nil {
		panic(err)
	}

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logLevel))
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine(cfg.Auth.TokenSecret))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte(cfg.Session.Secret)))
	ctx = xcontext.WithSnowFlake(ctx, node)

	s.ctx = ctx
}

func (s *srv) newDatabase() *gorm.DB {
	cfg := xcontext.Configs(s.ctx)

	logLevel := gormlogger.Error
	if cfg.Database.LogLevel == "info" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.ConnectionString()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		panic(err)
	}

	return db
}

func (s *srv) migrateDB() {
	if err := migration.AutoMigrate(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadRedisClient() {
	var err error
	s.redisClient, err = xredis.NewClient(s.ctx)
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadStorage() {
	s.storage = storage.NewS3Storage(xcontext.Configs(s.ctx).Storage)
}

func (s *srv) loadCatalog() {
	var err error
	s.catalog, err = verses.NewCatalog()
	if err != nil {
		panic(err)
	}
}

func (s *srv) loadHub() {
	s.hub = ws.NewHub()
	go s.hub.Run()
}

func (s *srv) loadRepos() {
	s.userRepo = repository.NewUserRepository()
	s.oauth2Repo = repository.NewOAuth2Repository()
	s.refreshTokenRepo = repository.NewRefreshTokenRepository()
	s.taskRepo = repository.NewTaskRepository()
	s.assignmentRepo = repository.NewTaskAssignmentRepository()
	s.challengeRepo = repository.NewChallengeRepository()
	s.participantRepo = repository.NewChallengeParticipantRepository()
	s.quizRepo = repository.NewQuizRepository()
	s.attemptRepo = repository.NewQuizAttemptRepository()
	s.coinTxRepo = repository.NewCoinTransactionRepository()
	s.verseRepo = repository.NewUserVerseRewardRepository()
	s.prayerRepo = repository.NewPrayerRequestRepository()
	s.eventRepo = repository.NewEventRepository()
	s.postRepo = repository.NewPostRepository()
	s.chatRepo = repository.NewChatMessageRepository()
	s.notificationRepo = repository.NewNotificationRepository()
}

func (s *srv) loadDomains() {
	cfg := xcontext.Configs(s.ctx)

	googleService, err := authenticator.NewOAuth2Service(s.ctx, cfg.Auth.Google)
	if err != nil {
		panic(err)
	}

	s.rewardEngine = reward.NewEngine(s.coinTxRepo, s.notificationRepo)
	s.leaderboard = statistic.New(s.coinTxRepo, s.redisClient)

	s.authDomain = domain.NewAuthDomain(s.userRepo, s.refreshTokenRepo, s.oauth2Repo,
		[]authenticator.IOAuth2Service{googleService}, s.rewardEngine)
	s.userDomain = domain.NewUserDomain(s.userRepo, s.storage)
	s.bonusDomain = domain.NewBonusDomain(s.verseRepo, s.notificationRepo, s.catalog)
	s.taskDomain = domain.NewTaskDomain(s.taskRepo, s.assignmentRepo, s.rewardEngine,
		s.bonusDomain, s.userRepo)
	s.challengeDomain = domain.NewChallengeDomain(s.challengeRepo, s.participantRepo,
		s.quizRepo, s.userRepo)
	s.quizDomain = domain.NewQuizDomain(s.quizRepo, s.attemptRepo, s.challengeRepo,
		s.participantRepo, s.rewardEngine, s.userRepo)
	s.rewardDomain = domain.NewRewardDomain(s.coinTxRepo, s.userRepo, s.leaderboard)
	s.statisticDomain = domain.NewStatisticDomain(s.leaderboard, s.userRepo)
	s.prayerDomain = domain.NewPrayerDomain(s.prayerRepo, s.hub, s.userRepo)
	s.eventDomain = domain.NewEventDomain(s.eventRepo, s.notificationRepo, s.userRepo)
	s.postDomain = domain.NewPostDomain(s.postRepo, s.userRepo)
	s.chatDomain = domain.NewChatDomain(s.chatRepo, s.userRepo, s.hub)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo)
}
