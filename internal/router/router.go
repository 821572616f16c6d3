// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps every forum path to its handler.
// Routes that write require a logged in session.
package router

import (
	"github.com/deppfellow/askmate/internal/handler"
	"github.com/deppfellow/askmate/internal/middleware"
	"github.com/deppfellow/askmate/internal/model"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/deppfellow/askmate/internal/service"
	"github.com/deppfellow/askmate/internal/view"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance with the global middleware chain and
// all routes.
func NewRouter(s *server.Server, h *handler.Handlers, services *service.Services) (*echo.Echo, error) {
	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, err
	}

	middlewares := middleware.NewMiddlewares(s, services.Auth)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Renderer = renderer
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	// The request logger exists before anything that may log or be limited.
	// Recover sits above every middleware that touches the session or the store.
	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Metrics.Prometheus(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.RateLimiter(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middlewares.Auth.LoadSession,
		middlewares.Tracing.EnhanceTracing(),
	)

	registerSystemRoutes(router, h, s)
	registerForumRoutes(router, h, middlewares.Auth.RequireLogin)

	return router, nil
}

func registerForumRoutes(r *echo.Echo, h *handler.Handlers, requireLogin echo.MiddlewareFunc) {
	q, a, cm, t, u := h.Question, h.Answer, h.Comment, h.Tag, h.User

	// public pages
	r.GET("/", handler.HandlePage(q.Index, view.IndexTemplate))
	r.GET("/list", handler.HandlePage(q.List, view.ListTemplate))
	r.GET("/question/:id", handler.HandlePage(q.Show, view.QuestionTemplate))
	r.GET("/image/:id", handler.HandlePage(q.Image, view.ImageTemplate))
	r.GET("/search_results", handler.HandlePage(q.Search, view.SearchTemplate))
	r.GET("/users", handler.HandlePage(u.List, view.UsersTemplate))

	r.GET("/registration", handler.HandlePage(u.RegistrationForm, view.RegistrationTemplate))
	r.POST("/registration", handler.HandleRedirect(u.Register))
	r.GET("/login", handler.HandlePage(u.LoginForm, view.LoginTemplate))
	r.POST("/login", handler.HandleRedirect(u.Login))
	r.GET("/logout", handler.HandleRedirect(u.Logout))

	w := r.Group("", requireLogin)

	w.GET("/add_question", handler.HandlePage(q.AddForm, view.QuestionFormTemplate))
	w.POST("/add_question", handler.HandleRedirect(q.Add))
	w.GET("/question/:id/edit", handler.HandlePage(q.EditForm, view.QuestionFormTemplate))
	w.POST("/question/:id/edit", handler.HandleRedirect(q.Edit))
	w.POST("/question/:id/delete", handler.HandleRedirect(q.Delete))
	w.POST("/question/:id/vote-up", handler.HandleRedirect(q.Vote(model.VoteUp)))
	w.POST("/question/:id/vote-down", handler.HandleRedirect(q.Vote(model.VoteDown)))

	w.GET("/question/:id/new-answer", handler.HandlePage(a.NewForm, view.AnswerFormTemplate))
	w.POST("/question/:id/new-answer", handler.HandleRedirect(a.Add))
	w.GET("/answer/:id/edit", handler.HandlePage(a.EditForm, view.AnswerFormTemplate))
	w.POST("/answer/:id/edit", handler.HandleRedirect(a.Edit))
	w.POST("/answer/:id/delete", handler.HandleRedirect(a.Delete))
	w.POST("/answer/:id/vote-up", handler.HandleRedirect(a.Vote(model.VoteUp)))
	w.POST("/answer/:id/vote-down", handler.HandleRedirect(a.Vote(model.VoteDown)))

	w.GET("/question/:id/new-tag", handler.HandlePage(t.NewForm, view.TagFormTemplate))
	w.POST("/question/:id/new-tag", handler.HandleRedirect(t.Add))
	w.POST("/question/:id/tag/:tag_id/delete", handler.HandleRedirect(t.Remove))

	w.GET("/question/:id/new-comment", handler.HandlePage(cm.QuestionForm, view.CommentFormTemplate))
	w.POST("/question/:id/new-comment", handler.HandleRedirect(cm.AddToQuestion))
	w.GET("/answer/:id/new-comment", handler.HandlePage(cm.AnswerForm, view.CommentFormTemplate))
	w.POST("/answer/:id/new-comment", handler.HandleRedirect(cm.AddToAnswer))
	w.GET("/comment/:id/edit", handler.HandlePage(cm.EditForm, view.CommentFormTemplate))
	w.POST("/comment/:id/edit", handler.HandleRedirect(cm.Edit))
	w.POST("/comments/:id/delete", handler.HandleRedirect(cm.Delete))
}
