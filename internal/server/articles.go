package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/mohammad-safakhou/spacebio/internal/articles"
	"github.com/mohammad-safakhou/spacebio/models"
)

const (
	defaultSampleSize = 6
	maxListSize       = 50
)

// ArticlesHandler previews the index: ranked search and random samples.
type ArticlesHandler struct {
	Index  Catalog
	Ranker articles.Ranker
	TopK   int
}

func (h *ArticlesHandler) Register(g *echo.Group) {
	g.GET("/search", h.search)
	g.GET("/sample", h.sample)
}

type articleList struct {
	Query    string              `json:"query,omitempty"`
	Total    int                 `json:"total"`
	Articles []models.ArticleRef `json:"articles"`
}

func (h *ArticlesHandler) search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "q is required")
	}
	def := h.TopK
	if def <= 0 {
		def = 6
	}
	k, err := sizeParam(c, "k", def)
	if err != nil {
		return err
	}
	list, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articleList{Query: q, Total: len(list), Articles: h.Ranker.Rank(q, list, k)})
}

func (h *ArticlesHandler) sample(c echo.Context) error {
	n, err := sizeParam(c, "n", defaultSampleSize)
	if err != nil {
		return err
	}
	list, err := h.load(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articleList{Total: len(list), Articles: articles.Sample(list, n, nil)})
}

func (h *ArticlesHandler) load(c echo.Context) ([]models.ArticleRef, error) {
	list, err := h.Index.Load(c.Request().Context())
	if errors.Is(err, articles.ErrNoArticles) {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, err.Error()).SetInternal(err)
	}
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "could not load articles").SetInternal(err)
	}
	return list, nil
}

// sizeParam reads a positive integer query parameter capped at maxListSize.
func sizeParam(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be a positive integer")
	}
	return min(n, maxListSize), nil
}
