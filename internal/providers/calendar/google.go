package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/twinbot/internal/config"
	"github.com/sandevgo/twinbot/internal/core"
	"github.com/sandevgo/twinbot/pkg/log"
	"github.com/sandevgo/twinbot/pkg/retry"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const (
	maxResults = 100
	lookBack   = 24 * time.Hour
)

// Google reads events from Google Calendar.
// Failures are reported as degraded outcomes, never as errors.
type Google struct {
	svc     *gcal.Service
	limiter *rate.Limiter
	retrier *retry.Retrier
	loc     *time.Location
	now     core.Clock
}

type GoogleOptions struct {
	RequestsPerSecond float64
	Burst             int
	Location          *time.Location
	Now               core.Clock
	Retry             *retry.Config
}

// NewGoogle authorises with the saved OAuth client and token.
func NewGoogle(ctx context.Context, cfg *config.CalendarConfig, loc *time.Location) (*Google, error) {
	credsJSON, tokenJSON, err := cfg.CredentialsJSON()
	if err != nil {
		return nil, err
	}

	oauthCfg, err := google.ConfigFromJSON(credsJSON, gcal.CalendarReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("parse google token: %w", err)
	}

	svc, err := gcal.NewService(ctx, option.WithTokenSource(oauthCfg.TokenSource(ctx, &token)))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}

	return NewGoogleWithService(svc, GoogleOptions{
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Location:          loc,
	}), nil
}

func NewGoogleWithService(svc *gcal.Service, opts GoogleOptions) *Google {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Retry == nil {
		opts.Retry = &retry.Config{
			MaxRetries:    3,
			BackoffFactor: 2,
			InitialDelay:  500 * time.Millisecond,
			MaxDelay:      5 * time.Second,
			Jitter:        100 * time.Millisecond,
		}
	}
	opts.Retry.Retryable = retryable

	return &Google{
		svc:     svc,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		retrier: retry.NewRetrier(opts.Retry),
		loc:     opts.Location,
		now:     opts.Now,
	}
}

func (g *Google) ListCalendars(ctx context.Context) ([]core.CalendarInfo, core.FetchOutcome) {
	var calendars []core.CalendarInfo
	pageToken := ""

	for {
		var page *gcal.CalendarList
		err := g.call(ctx, func() error {
			call := g.svc.CalendarList.List().Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var err error
			page, err = call.Do()
			return err
		})
		if err != nil {
			return nil, g.degrade(ctx, "list calendars", err)
		}

		for _, item := range page.Items {
			name := item.SummaryOverride
			if name == "" {
				name = item.Summary
			}
			calendars = append(calendars, core.CalendarInfo{
				ID:          item.Id,
				DisplayName: name,
				IsPrimary:   item.Primary,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return calendars, core.OK()
}

// FetchEvents returns single instances starting between yesterday and windowDays ahead, ordered by start.
func (g *Google) FetchEvents(ctx context.Context, calendarID string, windowDays int) ([]core.CalendarEvent, core.FetchOutcome) {
	logger := log.FromCtx(ctx)
	now := g.now()

	var resp *gcal.Events
	err := g.call(ctx, func() error {
		var err error
		resp, err = g.svc.Events.List(calendarID).
			TimeMin(now.Add(-lookBack).Format(time.RFC3339)).
			TimeMax(now.AddDate(0, 0, windowDays).Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(maxResults).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return nil, g.degrade(ctx, "fetch events", err)
	}

	events := make([]core.CalendarEvent, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Status == "cancelled" {
			continue
		}
		ev, err := toEvent(item, g.loc)
		if err != nil {
			logger.Warn().Err(err).Str("calendar", calendarID).Msg("skipping malformed event")
			continue
		}
		events = append(events, ev)
	}

	logger.Debug().
		Str("calendar", calendarID).
		Int("window_days", windowDays).
		Int("count", len(events)).
		Msg("calendar events fetched")
	return events, core.OK()
}

func (g *Google) call(ctx context.Context, fn func() error) error {
	return g.retrier.Do(ctx, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return err
		}
		return fn()
	})
}

func (g *Google) degrade(ctx context.Context, op string, err error) core.FetchOutcome {
	reason := classify(err)
	log.FromCtx(ctx).Warn().Err(reason).Str("op", op).Msg("calendar unavailable")

	if errors.Is(reason, ErrUnauthorized) {
		return core.Degraded("calendar authorization failed")
	}
	return core.Degraded(fmt.Sprintf("%s: %v", op, reason))
}
