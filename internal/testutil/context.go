package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gorilla/sessions"
	"github.com/koinonia-app/backend/config"
	"github.com/koinonia-app/backend/migration"
	"github.com/koinonia-app/backend/pkg/authenticator"
	"github.com/koinonia-app/backend/pkg/logger"
	"github.com/koinonia-app/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockContext returns a context carrying an in-memory database, test configs,
// and a silenced logger. The schema is migrated and empty.
func MockContext(t *testing.T) context.Context {
	return MockContextWithUserID(t, "")
}

func MockContextWithUserID(t *testing.T, userID string) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// An in-memory sqlite db exists per connection. Cap the pool at one so
	// every query sees the same database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, testConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)
	ctx = xcontext.WithTokenEngine(ctx, authenticator.NewTokenEngine("testing-secret"))
	ctx = xcontext.WithSessionStore(ctx, sessions.NewCookieStore([]byte("testing-secret")))
	ctx = xcontext.WithSnowFlake(ctx, node)

	require.NoError(t, migration.AutoMigrate(ctx))

	if userID != "" {
		ctx = xcontext.WithRequestUserID(ctx, userID)
	}

	return ctx
}

func testConfigs() config.Configs {
	return config.Configs{
		Env: "testing",
		ApiServer: config.ServerConfigs{
			DefaultLimit: 20,
			MaxLimit:     50,
		},
		Auth: config.AuthConfigs{
			TokenSecret: "testing-secret",
			AccessToken: config.TokenConfigs{
				Name:       "access_token",
				Expiration: time.Minute,
			},
			RefreshToken: config.TokenConfigs{
				Name:       "refresh_token",
				Expiration: time.Hour,
			},
		},
		Session: config.SessionConfigs{
			Secret: "testing-secret",
			Name:   "auth_session",
		},
		File: config.FileConfigs{
			MaxSize:      2 << 20,
			AvatarBucket: "avatars",
		},
		Engagement: config.EngagementConfigs{
			OnboardingReward: 50,
			QuizMaxQuestions: 20,
			QuizMaxOptions:   6,
			QuizPassProgress: 100,
		},
		Chat: config.ChatConfigs{
			SnowFlakeNode: 1,
		},
	}
}
