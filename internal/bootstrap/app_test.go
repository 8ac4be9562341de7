package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/xfcbe/fake-news-detection/internal/apitest"
	appsvc "github.com/xfcbe/fake-news-detection/internal/app"
	"github.com/xfcbe/fake-news-detection/internal/config"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	t.Setenv("VERINEWS_API_BASE_URL", baseURL)
	t.Setenv("VERINEWS_SESSION_PATH", filepath.Join(t.TempDir(), "session.json"))
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestNewWithFileStoreLogsInAndPersists(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	srv.AddUser("Ada Lovelace", "ada@example.com", "engine42")
	cfg := testConfig(t, srv.BaseURL())

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	defer a.Close()

	if _, err := a.Client.Login(ctx, "ada@example.com", "engine42"); err != nil {
		t.Fatalf("login: %v", err)
	}

	again, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("bootstrap again: %v", err)
	}
	defer again.Close()
	if !again.Session.Authenticated(ctx) {
		t.Fatalf("expected session to survive restart with the file store")
	}

	ws := again.NewWorkspace()
	if err := ws.Mount(ctx); err != nil {
		t.Fatalf("mount: %v", err)
	}
	if !ws.Snapshot().Authenticated || ws.Snapshot().Theme != appsvc.ThemeDark {
		t.Fatalf("unexpected workspace: %#v", ws.Snapshot())
	}
}

func TestNewWithRedisStore(t *testing.T) {
	ctx := context.Background()
	redisSrv := miniredis.RunT(t)
	srv := apitest.New(t)
	srv.AddUser("Ada Lovelace", "ada@example.com", "engine42")

	cfg := testConfig(t, srv.BaseURL())
	cfg.Session.Driver = config.SessionDriverRedis
	cfg.Redis.Addr = redisSrv.Addr()

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if _, err := a.Client.Login(ctx, "ada@example.com", "engine42"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !redisSrv.Exists("verinews:session:default:authToken") {
		t.Fatalf("expected token in redis, keys=%v", redisSrv.Keys())
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestNewFailsWhenRedisIsDown(t *testing.T) {
	redisSrv := miniredis.RunT(t)
	addr := redisSrv.Addr()
	redisSrv.Close()

	cfg := testConfig(t, "http://127.0.0.1:1/api")
	cfg.Session.Driver = config.SessionDriverRedis
	cfg.Redis.Addr = addr

	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected redis connection error")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1/api")
	cfg.Session.Driver = "etcd"
	if _, err := New(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}

func TestAuthFlowWiring(t *testing.T) {
	ctx := context.Background()
	srv := apitest.New(t)
	cfg := testConfig(t, srv.BaseURL())
	cfg.Session.Driver = config.SessionDriverMemory

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	authenticated := false
	flow := a.NewAuthFlow(func(context.Context) { authenticated = true })
	flow.SetMode(appsvc.AuthSignup)
	flow.SetFullName("Grace Hopper")
	flow.SetEmail("grace@example.com")
	flow.SetPassword("cobol1959")
	if err := flow.Submit(ctx); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if !authenticated || !a.Client.IsAuthenticated(ctx) {
		t.Fatalf("expected signup to authenticate")
	}
}
