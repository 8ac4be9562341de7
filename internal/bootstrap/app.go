package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/xfcbe/fake-news-detection/internal/api"
	appsvc "github.com/xfcbe/fake-news-detection/internal/app"
	"github.com/xfcbe/fake-news-detection/internal/config"
	mysqlClient "github.com/xfcbe/fake-news-detection/internal/platform/mysql"
	redisClient "github.com/xfcbe/fake-news-detection/internal/platform/redis"
	"github.com/xfcbe/fake-news-detection/internal/session"
)

type App struct {
	Config  *config.Config
	Logger  *log.Logger
	Store   session.Store
	Session *session.Session
	Client  *api.Client
	MySQL   *gorm.DB
	Redis   *redis.Client

	StartedAt time.Time
}

// New opens the configured session backend and builds the API client on top
// of it. A nil logger discards output.
func New(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	a := &App{
		Config:    cfg,
		Logger:    logger,
		StartedAt: time.Now(),
	}

	store, err := a.openStore(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Store = store
	a.Session = session.New(store)
	a.Client = api.NewClient(cfg.API.BaseURL, a.Session,
		api.WithTimeout(cfg.APITimeout()),
		api.WithLogger(logger),
	)
	return a, nil
}

func (a *App) openStore(ctx context.Context) (session.Store, error) {
	cfg := a.Config
	switch cfg.Session.Driver {
	case config.SessionDriverMemory:
		return session.NewMemoryStore(), nil
	case config.SessionDriverFile:
		return session.NewFileStore(cfg.Session.Path, cfg.Session.Profile), nil
	case config.SessionDriverRedis:
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = redisCli
		return session.NewRedisStore(redisCli, cfg.Redis.KeyPrefix, cfg.Session.Profile), nil
	case config.SessionDriverMySQL:
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		a.MySQL = db
		if err := mysqlClient.Migrate(ctx, db); err != nil {
			return nil, err
		}
		return session.NewSQLStore(db, cfg.Session.Profile), nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Session.Driver)
	}
}

func (a *App) NewWorkspace() *appsvc.Workspace {
	return appsvc.NewWorkspace(a.Client, a.Logger, appsvc.Theme(a.Config.UI.Theme))
}

func (a *App) NewAuthFlow(onAuthenticate func(ctx context.Context)) *appsvc.AuthFlow {
	return appsvc.NewAuthFlow(a.Client, onAuthenticate)
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = errors.Join(closeErr, fmt.Errorf("close redis failed: %w", err))
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = errors.Join(closeErr, fmt.Errorf("close mysql failed: %w", err))
			}
		}
	}
	return closeErr
}
