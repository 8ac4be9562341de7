package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/xfcbe/fake-news-detection/internal/model"
)

func (c *Client) AnalyzeContent(ctx context.Context, text string, mode model.InputMode) (*model.AnalysisRecord, error) {
	if mode == "" {
		mode = model.InputText
	}
	var record model.AnalysisRecord
	err := c.Request(ctx, c.endpoints.Analyze, RequestOptions{
		Method: http.MethodPost,
		Body:   model.AnalyzeRequest{Content: text, Type: mode},
	}, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) GetHistory(ctx context.Context) ([]model.AnalysisRecord, error) {
	var list model.HistoryList
	if err := c.Request(ctx, c.endpoints.History, RequestOptions{Method: http.MethodGet}, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetHistoryItem(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	var record model.AnalysisRecord
	if err := c.Request(ctx, itemPath(c.endpoints.HistoryItem, id), RequestOptions{Method: http.MethodGet}, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) DeleteHistoryItem(ctx context.Context, id string) error {
	return c.Request(ctx, itemPath(c.endpoints.HistoryItem, id), RequestOptions{Method: http.MethodDelete}, nil)
}

// itemPath fills the first :id placeholder only.
func itemPath(template, id string) string {
	return strings.Replace(template, ":id", url.PathEscape(id), 1)
}
