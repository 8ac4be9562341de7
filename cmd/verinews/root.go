package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/xfcbe/fake-news-detection/internal/bootstrap"
	"github.com/xfcbe/fake-news-detection/internal/config"
	"github.com/xfcbe/fake-news-detection/internal/tui"
)

var errNotLoggedIn = errors.New("not logged in, run `verinews login` first")

type cli struct {
	configPath string
	in         io.Reader
	out        io.Writer
	errOut     io.Writer

	readPassword func() (string, error)
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	c := &cli{in: in, out: out, errOut: errOut}
	c.readPassword = func() (string, error) {
		return promptPassword(c.in, c.errOut)
	}

	root := &cobra.Command{
		Use:          "verinews",
		Short:        "Check the credibility of news articles and links",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd.Context())
		},
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (default is $VERINEWS_CONFIG or the user config dir)")

	root.AddCommand(
		c.loginCmd(),
		c.signupCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.analyzeCmd(),
		c.historyCmd(),
	)
	return root
}

// open loads the config and wires the app. Callers must Close it.
func (c *cli) open(ctx context.Context, logger *log.Logger) (*bootstrap.App, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}
	if logger == nil {
		logger = log.New(c.errOut, "", log.LstdFlags)
	}
	a, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("bootstrap failed: %w", err)
	}
	return a, nil
}

// withApp runs fn against a freshly opened app and closes it afterwards.
func (c *cli) withApp(ctx context.Context, fn func(a *bootstrap.App) error) error {
	a, err := c.open(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Printf("close resources failed: %v", err)
		}
	}()
	return fn(a)
}

func (c *cli) runTUI(ctx context.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("load config failed: %w", err)
	}

	// the program owns the terminal, so logs go to a file
	logFile, err := openLogFile(cfg.App.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := log.New(logFile, "", log.LstdFlags)

	a, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("bootstrap failed: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Printf("close resources failed: %v", err)
		}
	}()

	workspace := a.NewWorkspace()
	flow := a.NewAuthFlow(func(ctx context.Context) {
		if err := workspace.HandleAuthenticate(ctx); err != nil {
			logger.Printf("load workspace after login failed: %v", err)
		}
	})

	logger.Printf("%s starting (api=%s session=%s)", cfg.App.Name, cfg.API.BaseURL, cfg.Session.Driver)
	p := tea.NewProgram(tui.NewModel(ctx, workspace, flow), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui failed: %w", err)
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log dir failed: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file failed: %w", err)
	}
	return f, nil
}
