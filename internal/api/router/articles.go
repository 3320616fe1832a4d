package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/DjordjeVuckovic/news-digest/internal/apperr"
	"github.com/DjordjeVuckovic/news-digest/internal/domain"
	"github.com/DjordjeVuckovic/news-digest/internal/dto"
	"github.com/DjordjeVuckovic/news-digest/internal/queue"
	"github.com/DjordjeVuckovic/news-digest/internal/storage"
	"github.com/DjordjeVuckovic/news-digest/internal/storage/es"
	"github.com/DjordjeVuckovic/news-digest/pkg/pagination"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Searcher runs full text queries over a user's ready articles.
type Searcher interface {
	Search(ctx context.Context, q es.SearchQuery) ([]es.SearchHit, error)
}

type ArticleRouterOption func(*ArticleRouter)

func WithSearcher(s Searcher) ArticleRouterOption {
	return func(r *ArticleRouter) {
		r.searcher = s
	}
}

type ArticleRouter struct {
	e         *echo.Echo
	submitter *queue.Submitter
	articles  storage.ArticleStore
	jobs      storage.QueueStore
	searcher  Searcher
}

func NewArticleRouter(e *echo.Echo, submitter *queue.Submitter, articles storage.ArticleStore, jobs storage.QueueStore, opts ...ArticleRouterOption) *ArticleRouter {
	r := &ArticleRouter{
		e:         e,
		submitter: submitter,
		articles:  articles,
		jobs:      jobs,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ArticleRouter) Bind() {
	g := r.e.Group("/articles")
	g.POST("", r.submit)
	g.GET("", r.list)
	if r.searcher != nil {
		g.GET("/search", r.search)
	}
	g.GET("/:id", r.get)
	g.GET("/:id/jobs", r.listJobs)
}

// submit godoc
// @Summary Submit an article URL
// @Tags articles
// @Accept json
// @Produce json
// @Param request body dto.SubmitArticleRequest true "Article to process"
// @Success 201 {object} dto.SubmitArticleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /articles [post]
func (r *ArticleRouter) submit(c echo.Context) error {
	var req dto.SubmitArticleRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	article, job, err := r.submitter.Enqueue(c.Request().Context(), queue.Submission{
		ArticleID: req.ArticleID,
		UserID:    req.UserID,
		URL:       req.URL,
		Title:     req.Title,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.SubmitArticleResponse{Article: *article, Job: *job})
}

// get godoc
// @Summary Get an article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {object} domain.Article
// @Failure 404 {object} dto.ErrorResponse
// @Router /articles/{id} [get]
func (r *ArticleRouter) get(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}

	article, err := r.articles.GetArticle(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// list godoc
// @Summary List a user's articles, newest first
// @Tags articles
// @Produce json
// @Param user_id query string true "User ID"
// @Param status query string false "Article status"
// @Param cursor query string false "Cursor from a previous page"
// @Param size query int false "Page size"
// @Success 200 {object} pagination.CursorResult[domain.Article]
// @Failure 400 {object} dto.ErrorResponse
// @Router /articles [get]
func (r *ArticleRouter) list(c echo.Context) error {
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return err
	}

	var page pagination.CursorRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &page); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	page.Normalize()

	filter := storage.ArticleFilter{UserID: userID, Limit: page.Fetch()}

	if s := c.QueryParam("status"); s != "" {
		status := domain.ArticleStatus(strings.ToLower(s))
		if !status.IsValid() {
			return apperr.NewValidation("invalid status: " + s)
		}
		filter.Status = status
	}

	filter.Before, err = dto.DecodeArticleCursor(page.Cursor)
	if err != nil {
		return apperr.NewValidationWrap("invalid cursor", err)
	}

	articles, err := r.articles.ListArticles(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	res, err := pagination.NewCursorResult(articles, page.Size, dto.EncodeArticleCursor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// listJobs godoc
// @Summary List the queue jobs of an article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID"
// @Success 200 {array} domain.QueueJob
// @Failure 404 {object} dto.ErrorResponse
// @Router /articles/{id}/jobs [get]
func (r *ArticleRouter) listJobs(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := r.articles.GetArticle(ctx, id); err != nil {
		return err
	}
	jobs, err := r.jobs.ListJobs(ctx, id)
	if err != nil {
		return err
	}
	if jobs == nil {
		jobs = []domain.QueueJob{}
	}
	return c.JSON(http.StatusOK, jobs)
}

// search godoc
// @Summary Full text search over a user's ready articles
// @Tags articles
// @Produce json
// @Param user_id query string true "User ID"
// @Param q query string true "Search text"
// @Param size query int false "Max hits"
// @Success 200 {object} dto.SearchResponse[es.SearchHit]
// @Failure 400 {object} dto.ErrorResponse
// @Router /articles/search [get]
func (r *ArticleRouter) search(c echo.Context) error {
	userID, err := queryUUID(c, "user_id")
	if err != nil {
		return err
	}
	text := strings.TrimSpace(c.QueryParam("q"))
	if text == "" {
		return apperr.NewValidation("q parameter is required")
	}

	var page pagination.CursorRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &page); err != nil {
		return apperr.NewValidationWrap("invalid size", err)
	}
	page.Normalize()

	hits, err := r.searcher.Search(c.Request().Context(), es.SearchQuery{UserID: userID, Text: text, Size: page.Size})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.SearchResponse[es.SearchHit]{Hits: hits})
}

func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid "+name, err)
	}
	return id, nil
}

func queryUUID(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, apperr.NewValidation(name + " parameter is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid "+name, err)
	}
	return id, nil
}
