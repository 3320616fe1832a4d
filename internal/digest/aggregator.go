package digest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/llm"
	"github.com/DjordjeVuckovic/news-digest/internal/notify"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/google/uuid"
)

const (
	NotificationTitle = "Your Daily Digest is Ready"
	SkippedNoArticles = "no articles"
)

// Request selects the users and the calendar day of a run. Zero values mean
// every user with settings and yesterday.
type Request struct {
	UserID *uuid.UUID `json:"user_id,omitempty"`
	Date   string     `json:"date,omitempty"`
}

type UserResult struct {
	UserID   uuid.UUID  `json:"user_id"`
	Success  bool       `json:"success"`
	DigestID *uuid.UUID `json:"digest_id,omitempty"`
	Skipped  string     `json:"skipped,omitempty"`
	Error    string     `json:"error,omitempty"`
}

type RunResult struct {
	Date    string       `json:"date"`
	Results []UserResult `json:"results"`
}

type Option func(*Aggregator)

// Aggregator builds one digest per user per day from ready articles.
type Aggregator struct {
	articles storage.ArticleStore
	digests  storage.DigestStore
	settings storage.SettingsStore
	llm      llm.Client
	notifier notify.Notifier
	cfg      Config
	now      func() time.Time
}

func NewAggregator(
	articles storage.ArticleStore,
	digests storage.DigestStore,
	settings storage.SettingsStore,
	client llm.Client,
	notifier notify.Notifier,
	cfg Config,
	opts ...Option,
) *Aggregator {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = defaultCallTimeout
	}
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}

	a := &Aggregator{
		articles: articles,
		digests:  digests,
		settings: settings,
		llm:      client,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		a.now = now
	}
}

// Window returns the inclusive bounds of the calendar day named by date, or
// of yesterday when date is empty.
func (a *Aggregator) Window(date string) (day string, start, end time.Time, err error) {
	loc := a.cfg.Location
	if date == "" {
		y := a.now().In(loc).AddDate(0, 0, -1)
		start = time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, loc)
	} else {
		start, err = time.ParseInLocation(domain.DateLayout, date, loc)
		if err != nil {
			return "", time.Time{}, time.Time{}, apperr.NewValidationWrap("invalid date, expected YYYY-MM-DD", err)
		}
	}
	end = start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start.Format(domain.DateLayout), start, end, nil
}

// Run generates digests for the requested users. Per-user failures are
// reported in the result; only failing to resolve the user set is an error.
func (a *Aggregator) Run(ctx context.Context, req Request) (*RunResult, error) {
	day, start, end, err := a.Window(req.Date)
	if err != nil {
		return nil, err
	}

	var users []uuid.UUID
	if req.UserID != nil {
		users = []uuid.UUID{*req.UserID}
	} else {
		users, err = a.settings.ListUserIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
	}

	slog.Info("Generating digests", "date", day, "users", len(users))

	results := make([]UserResult, len(users))
	sem := make(chan struct{}, a.cfg.Concurrency)
	var wg sync.WaitGroup

	for i, userID := range users {
		wg.Add(1)
		go func(i int, userID uuid.UUID) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			results[i] = a.runUser(ctx, userID, day, start, end)
		}(i, userID)
	}
	wg.Wait()

	return &RunResult{Date: day, Results: results}, nil
}

func (a *Aggregator) runUser(ctx context.Context, userID uuid.UUID, day string, start, end time.Time) (res UserResult) {
	res.UserID = userID
	defer func() {
		if r := recover(); r != nil {
			slog.Error("digest generation panicked", "user_id", userID, "panic", r)
			res = UserResult{UserID: userID, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()

	d, err := a.generate(ctx, userID, day, start, end)
	if err != nil {
		slog.Error("Failed to generate digest", "user_id", userID, "date", day, "error", err)
		res.Error = err.Error()
		return res
	}

	res.Success = true
	if d == nil {
		res.Skipped = SkippedNoArticles
		return res
	}
	res.DigestID = &d.ID

	a.notify(ctx, userID, d)
	return res
}

// generate returns a nil digest when the user has no ready articles in the window.
func (a *Aggregator) generate(ctx context.Context, userID uuid.UUID, day string, start, end time.Time) (*domain.Digest, error) {
	articles, err := a.articles.ListArticles(ctx, storage.ArticleFilter{
		UserID:      userID,
		Status:      domain.ArticleReady,
		CreatedFrom: &start,
		CreatedTo:   &end,
	})
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, nil
	}

	slog.Info("Generating digest", "user_id", userID, "date", day, "articles", len(articles))

	prompt, err := llm.DigestPrompt(Project(articles))
	if err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, a.cfg.CallTimeout)
	raw, err := a.llm.Complete(callCtx, llm.Request{Prompt: prompt, MaxTokens: llm.DigestMaxTokens})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("generate digest: %w", err)
	}

	var out llm.DigestResult
	if err := llm.DecodeStrict(raw, llm.DigestSchema, &out); err != nil {
		return nil, fmt.Errorf("parse digest: %w", err)
	}

	saved, err := a.digests.UpsertDigest(ctx, domain.Digest{
		UserID:         userID,
		Date:           day,
		OverallSummary: out.OverallSummary,
		TopThemes:      out.TopThemes,
		Articles:       out.Articles,
		AIInsights:     out.AIInsights,
		ArticleCount:   len(articles),
	})
	if err != nil {
		return nil, fmt.Errorf("save digest: %w", err)
	}
	return saved, nil
}

// Project builds the compact per-article entries sent to the digest prompt.
func Project(articles []domain.Article) []llm.DigestEntry {
	entries := make([]llm.DigestEntry, 0, len(articles))
	for _, art := range articles {
		e := llm.DigestEntry{
			ID:        art.ID.String(),
			Title:     art.Title,
			URL:       art.URL,
			Summary:   art.DisplaySummary(),
			KeyPoints: []string{},
			Topics:    []string{},
		}
		if art.Analysis != nil {
			if art.Analysis.KeyPoints != nil {
				e.KeyPoints = art.Analysis.KeyPoints
			}
			if art.Analysis.Topics != nil {
				e.Topics = art.Analysis.Topics
			}
		}
		if art.ImageURL != "" {
			img := art.ImageURL
			e.ImageURL = &img
		}
		entries = append(entries, e)
	}
	return entries
}

// NotificationBody renders "<n> articles summarized. <theme1>, <theme2>".
func NotificationBody(d *domain.Digest) string {
	themes := d.TopThemes
	if len(themes) > 2 {
		themes = themes[:2]
	}
	return fmt.Sprintf("%d articles summarized. %s", len(d.Articles), strings.Join(themes, ", "))
}

func (a *Aggregator) notify(ctx context.Context, userID uuid.UUID, d *domain.Digest) {
	settings, err := a.settings.GetSettings(ctx, userID)
	if err != nil {
		var nf *apperr.NotFoundError
		if !errors.As(err, &nf) {
			slog.Warn("Failed to load user settings", "user_id", userID, "error", err)
		}
		return
	}
	if !settings.CanPush() {
		return
	}

	err = a.notifier.Notify(ctx, notify.Message{
		Token: settings.PushToken,
		Title: NotificationTitle,
		Body:  NotificationBody(d),
		Data: map[string]string{
			"digest_id": d.ID.String(),
			"type":      "digest_ready",
		},
	})
	if err != nil {
		slog.Error("Failed to send push notification", "user_id", userID, "error", err)
		return
	}
	slog.Info("Sent push notification", "user_id", userID, "digest_id", d.ID)
}
