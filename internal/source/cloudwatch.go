package source

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Nao-Mk2/done-log-analyzer/internal/model"
)

// DefaultFilterPattern selects Done lines in CloudWatch Logs.
const DefaultFilterPattern = "Done:"

// GroupSearcher fetches matching events from one log group.
type GroupSearcher interface {
	SearchGroup(ctx context.Context, group, filterPattern string, startMs, endMs int64) ([]model.LogEvent, error)
}

// CloudWatch reads lines from several CloudWatch Logs groups over one time
// window. Groups are fetched concurrently and merged in timestamp order.
type CloudWatch struct {
	Client        GroupSearcher
	Groups        []string
	FilterPattern string
	Start, End    time.Time
	Workers       int
}

func (c *CloudWatch) Name() string {
	return "cloudwatch:" + strings.Join(c.Groups, ",")
}

func (c *CloudWatch) Lines(ctx context.Context) ([]string, error) {
	events, err := c.Events(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = e.Message
	}
	return lines, nil
}

// Events returns every matching event across the groups, sorted by time.
func (c *CloudWatch) Events(ctx context.Context) ([]model.LogEvent, error) {
	fp := quoteFilterPattern(c.FilterPattern)
	startMs, endMs := c.Start.UnixMilli(), c.End.UnixMilli()

	perGroup := make([][]model.LogEvent, len(c.Groups))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Workers, 1))
	for i, group := range c.Groups {
		i, group := i, group
		g.Go(func() error {
			events, err := c.Client.SearchGroup(ctx, group, fp, startMs, endMs)
			if err != nil {
				return err
			}
			perGroup[i] = events
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.LogEvent
	for _, events := range perGroup {
		all = append(all, events...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Timestamp.Equal(all[j].Timestamp) {
			if all[i].LogGroup == all[j].LogGroup {
				return all[i].LogStream < all[j].LogStream
			}
			return all[i].LogGroup < all[j].LogGroup
		}
		return all[i].Timestamp.Before(all[j].Timestamp)
	})
	return all, nil
}

// quoteFilterPattern quotes a bare term so CloudWatch matches it literally
// instead of splitting on punctuation.
func quoteFilterPattern(fp string) string {
	if fp == "" {
		fp = DefaultFilterPattern
	}
	if len(fp) >= 2 && fp[0] == '"' && fp[len(fp)-1] == '"' {
		return fp
	}
	return `"` + fp + `"`
}
