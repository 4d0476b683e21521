package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/harmonia-music/account-service/config"
	"github.com/harmonia-music/account-service/internal/session"
	"github.com/harmonia-music/account-service/pkg/blobstore"
	"github.com/harmonia-music/account-service/pkg/helpers"
	"github.com/harmonia-music/account-service/pkg/mailer"
)

// App-level container sharing constructed components across packages so
// the router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	sessions *session.Manager
	photos   blobstore.Store
	notifier mailer.Notifier

	rabbitPub *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)  { cfg = c }
func GetConfig() *config.Config   { return cfg }
func SetLogger(l *logrus.Logger)  { logger = l }
func GetLogger() *logrus.Logger   { return logger }
func SetPGPool(p *pgxpool.Pool)   { pgPool = p }
func GetPGPool() *pgxpool.Pool    { return pgPool }
func SetRedis(r *redis.Client)    { redisClient = r }
func GetRedis() *redis.Client     { return redisClient }

func SetSessions(m *session.Manager) { sessions = m }
func GetSessions() *session.Manager  { return sessions }
func SetPhotos(s blobstore.Store)    { photos = s }
func GetPhotos() blobstore.Store     { return photos }

func SetNotifier(n mailer.Notifier) { notifier = n }
func GetNotifier() mailer.Notifier {
	if notifier != nil {
		return notifier
	}
	return mailer.NopNotifier{}
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
