package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database   DatabaseConfigs
	ApiServer  ServerConfigs
	Auth       AuthConfigs
	Session    SessionConfigs
	Redis      RedisConfigs
	Storage    S3Configs
	File       FileConfigs
	Engagement EngagementConfigs
	Chat       ChatConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	LogLevel string
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
	Cert string
	Key  string

	AllowCORS    []string
	DefaultLimit int
	MaxLimit     int
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf(":%s", s.Port)
}

type AuthConfigs struct {
	TokenSecret  string
	AccessToken  TokenConfigs
	RefreshToken TokenConfigs

	Google OAuth2Config
}

type OAuth2Config struct {
	Name      string
	Issuer    string
	ClientID  string
	Secret    string
	IDField   string
	VerifyURL string
}

type TokenConfigs struct {
	Name       string
	Expiration time.Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type RedisConfigs struct {
	Addr string
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	SSLDisabled    bool
}

type FileConfigs struct {
	MaxSize      int64
	AvatarBucket string
}

// EngagementConfigs holds knobs of the reward and progress engine.
type EngagementConfigs struct {
	OnboardingReward uint64

	QuizMaxQuestions int
	QuizMaxOptions   int

	// Progress value a participant receives when passing the challenge quiz.
	QuizPassProgress int
}

type ChatConfigs struct {
	SnowFlakeNode int64
}
