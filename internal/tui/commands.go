package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xfcbe/fake-news-detection/internal/app"
)

func mountCmd(ctx context.Context, ws *app.Workspace) tea.Cmd {
	return func() tea.Msg {
		return mountedMsg{err: ws.Mount(ctx)}
	}
}

func submitCmd(ctx context.Context, flow *app.AuthFlow) tea.Cmd {
	return func() tea.Msg {
		return authDoneMsg{err: flow.Submit(ctx)}
	}
}

func analyzeCmd(ctx context.Context, ws *app.Workspace) tea.Cmd {
	return func() tea.Msg {
		return analyzedMsg{outcome: ws.HandleCheck(ctx)}
	}
}

func fetchItemCmd(ctx context.Context, ws *app.Workspace, id string) tea.Cmd {
	return func() tea.Msg {
		return itemLoadedMsg{id: id, err: ws.FetchHistoryItem(ctx, id)}
	}
}

func deleteCmd(ctx context.Context, ws *app.Workspace, id string) tea.Cmd {
	return func() tea.Msg {
		return deletedMsg{id: id, err: ws.DeleteHistoryItem(ctx, id)}
	}
}

func logoutCmd(ctx context.Context, ws *app.Workspace) tea.Cmd {
	return func() tea.Msg {
		return loggedOutMsg{err: ws.HandleLogout(ctx)}
	}
}
